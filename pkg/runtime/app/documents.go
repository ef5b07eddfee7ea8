package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/patient-reports/pkg/models/store"
)

// ReadDocuments reads a JSON array of record documents.
func ReadDocuments(path string) ([]store.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	var docs []store.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse documents in %s: %w", path, err)
	}
	return docs, nil
}

// LoadDocuments adds the documents in path to the store.
func (a *App) LoadDocuments(ctx context.Context, path string) (int, error) {
	docs, err := ReadDocuments(path)
	if err != nil {
		return 0, err
	}
	if err := a.Writer.Add(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to store documents: %w", err)
	}
	return len(docs), nil
}
