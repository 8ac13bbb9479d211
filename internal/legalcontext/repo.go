package legalcontext

import "context"

// Repo reads the legal reference corpus.
type Repo interface {
	ListAll(ctx context.Context) ([]Article, error)
}
