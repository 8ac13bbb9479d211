package legalcontext

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	articles []Article
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo(articles ...Article) *MemoryRepo {
	return &MemoryRepo{articles: articles}
}

// Add appends an article, preserving insertion order.
func (r *MemoryRepo) Add(a Article) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articles = append(r.articles, a)
}

// ListAll returns all articles in insertion order.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Article, len(r.articles))
	copy(out, r.articles)
	return out, nil
}
