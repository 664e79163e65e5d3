package sagalog

import "context"

// Repository is the port (interface) for persisting saga log entries.
type Repository interface {
	// Save appends a row; the table is an append-only audit log.
	Save(ctx context.Context, entry *SagaLog) error
	// List returns every entry of a saga in write order.
	List(ctx context.Context, sagaID string) ([]SagaLog, error)
}
