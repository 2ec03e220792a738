package domain

import "context"

// Provider stores the rows behind datashare URIs.
type Provider interface {
	Query(ctx context.Context, table Table, columns []string, preds *Predicates) (*ResultSet, error)
	Insert(ctx context.Context, table Table, values Values) (int64, error)
	Update(ctx context.Context, table Table, values Values, preds *Predicates) (int64, error)
	Delete(ctx context.Context, table Table, preds *Predicates) (int64, error)
	BatchInsert(ctx context.Context, table Table, rows []Values) (int64, error)
}
