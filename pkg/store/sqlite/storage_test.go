package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootsSchema(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "sqlite-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(context.Background(), Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO documents (id, type, body) VALUES (?, ?, ?)`,
		"patient_1", "patient", []byte(`{"_id":"patient_1"}`),
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM documents WHERE id = ?", "patient_1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewDB_RequiresPath(t *testing.T) {
	_, err := NewDB(context.Background(), Settings{})
	assert.Error(t, err)
}

func TestTransactionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTransaction(ctx))

	db, err := NewDB(ctx, Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	assert.Same(t, tx, GetTransaction(WithTransaction(ctx, tx)))
}
