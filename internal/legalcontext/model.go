package legalcontext

import "time"

// Article is one fragment of the legal reference corpus.
type Article struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
}
