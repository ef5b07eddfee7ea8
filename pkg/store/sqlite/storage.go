package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const DocumentsTableSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		body BLOB NOT NULL
	);
`

const ViewIndexTableSchema = `
	CREATE TABLE IF NOT EXISTS view_index (
		view TEXT NOT NULL,
		key BLOB NOT NULL,
		doc_id TEXT NOT NULL
	);
`

const ViewIndexLookup = `
	CREATE INDEX IF NOT EXISTS view_index_lookup ON view_index (view, key, doc_id);
`

const ViewIndexByDoc = `
	CREATE INDEX IF NOT EXISTS view_index_doc ON view_index (doc_id);
`

var bootQueries = []string{
	DocumentsTableSchema,
	ViewIndexTableSchema,
	ViewIndexLookup,
	ViewIndexByDoc,
}

type Settings struct {
	DbPath string
}

func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite", settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// every connection to an in-memory database is a separate database
	if inMemory(settings.DbPath) {
		db.SetMaxOpenConns(1)
	} else if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	for _, query := range bootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			db.Close()
			return nil, fmt.Errorf("boot schema: %w", err)
		}
	}

	return db, nil
}

func inMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
