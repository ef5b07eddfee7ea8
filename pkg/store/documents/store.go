package documents

import (
	"context"
	"errors"

	"github.com/de-tools/patient-reports/pkg/models/store"
)

// ErrNotFound is returned by Get when no document has the id.
var ErrNotFound = errors.New("document not found")

// Store is the read side of the record store: range queries over views and
// lookups by id. Query results come back in index order.
type Store interface {
	Query(ctx context.Context, view string, opts store.QueryOptions) ([]store.Document, error)
	Get(ctx context.Context, id string) (*store.Document, error)
}

// Writer loads documents and refreshes the view indexes.
type Writer interface {
	Add(ctx context.Context, docs []store.Document) error
}
