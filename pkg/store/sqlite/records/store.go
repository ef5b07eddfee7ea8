package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/patient-reports/pkg/models/store"
	"github.com/de-tools/patient-reports/pkg/store/collate"
	"github.com/de-tools/patient-reports/pkg/store/documents"
	"github.com/de-tools/patient-reports/pkg/store/sqlite"
	"github.com/de-tools/patient-reports/pkg/store/views"
	"github.com/rs/zerolog"
)

const (
	upsertDocumentQuery = `INSERT INTO documents (id, type, body) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET type = excluded.type, body = excluded.body`
	deleteIndexQuery = `DELETE FROM view_index WHERE doc_id = ?`
	insertIndexQuery = `INSERT INTO view_index (view, key, doc_id) VALUES (?, ?, ?)`
	getDocumentQuery = `SELECT id, type, body FROM documents WHERE id = ?`
	queryViewPrefix  = `SELECT d.id, d.type, d.body
		FROM view_index v JOIN documents d ON d.id = v.doc_id
		WHERE v.view = ?`
	queryViewOrder = ` ORDER BY v.key, v.doc_id`
)

// Store is a documents.Store and documents.Writer over the SQLite view
// index. Keys are stored in collate.Encode form so that BLOB comparison
// follows key collation.
type Store interface {
	documents.Store
	documents.Writer
}

type recordStore struct {
	db    *sql.DB
	views views.Registry
}

func NewStore(db *sql.DB, registry views.Registry) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if registry == nil {
		registry = views.Default()
	}
	return &recordStore{
		db:    db,
		views: registry,
	}, nil
}

func (s *recordStore) Add(ctx context.Context, docs []store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	return sqlite.InTransaction(ctx, s.db, func(ctx context.Context) error {
		conn := sqlite.ConnFrom(ctx, s.db)
		for _, doc := range docs {
			if doc.ID == "" {
				return fmt.Errorf("document of type %q has no id", doc.Type)
			}
			emitted, err := s.views.Index(doc)
			if err != nil {
				return fmt.Errorf("index document %s: %w", doc.ID, err)
			}

			if _, err := conn.ExecContext(ctx, upsertDocumentQuery, doc.ID, doc.Type, []byte(doc.Body)); err != nil {
				return fmt.Errorf("upsert document: %w", err)
			}
			if _, err := conn.ExecContext(ctx, deleteIndexQuery, doc.ID); err != nil {
				return fmt.Errorf("clear index entries: %w", err)
			}
			for view, keys := range emitted {
				for _, key := range keys {
					encoded, err := collate.Encode(key)
					if err != nil {
						return fmt.Errorf("encode %s key: %w", view, err)
					}
					if _, err := conn.ExecContext(ctx, insertIndexQuery, view, encoded, doc.ID); err != nil {
						return fmt.Errorf("insert index entry: %w", err)
					}
				}
			}
		}
		return nil
	})
}

func (s *recordStore) Query(ctx context.Context, view string, opts store.QueryOptions) ([]store.Document, error) {
	logger := zerolog.Ctx(ctx)

	if _, ok := s.views[view]; !ok {
		return nil, fmt.Errorf("unknown view %q", view)
	}

	query := queryViewPrefix
	args := []any{view}
	if opts.StartKey != nil {
		start, err := collate.Encode(opts.StartKey)
		if err != nil {
			return nil, fmt.Errorf("encode start key: %w", err)
		}
		query += " AND v.key >= ?"
		args = append(args, start)
	}
	if opts.EndKey != nil {
		end, err := collate.Encode(opts.EndKey)
		if err != nil {
			return nil, fmt.Errorf("encode end key: %w", err)
		}
		query += " AND v.key <= ?"
		args = append(args, end)
	}
	query += queryViewOrder

	rows, err := sqlite.ConnFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		logger.Warn().Err(err).Str("view", view).Msg("view query failed")
		return nil, fmt.Errorf("query view %s: %w", view, err)
	}
	defer rows.Close()

	docs := make([]store.Document, 0)
	for rows.Next() {
		var doc store.Document
		var body []byte
		if err := rows.Scan(&doc.ID, &doc.Type, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.Body = body
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view %s: %w", view, err)
	}
	return docs, nil
}

func (s *recordStore) Get(ctx context.Context, id string) (*store.Document, error) {
	var doc store.Document
	var body []byte
	err := sqlite.ConnFrom(ctx, s.db).QueryRowContext(ctx, getDocumentQuery, id).Scan(&doc.ID, &doc.Type, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", id, documents.ErrNotFound)
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("id", id).Msg("document lookup failed")
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	doc.Body = body
	return &doc, nil
}
