package audits

import "context"

// Repo defines persistence operations for audit records. The store is
// append-only: there is deliberately no update operation.
type Repo interface {
	Create(ctx context.Context, record Record) error
	GetByID(ctx context.Context, userID, recordID string) (Record, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error)
}
