package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/models/store"
	"github.com/de-tools/patient-reports/pkg/services/config"
	"github.com/de-tools/patient-reports/pkg/services/reports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, body map[string]any) store.Document {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	var d store.Document
	require.NoError(t, json.Unmarshal(data, &d))
	return d
}

func runDiagnostic(t *testing.T, cfg *config.Config) *reports.Buffer {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	a, err := New(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	err = a.Writer.Add(ctx, []store.Document{
		doc(t, map[string]any{"_id": "img1", "type": "imaging", "status": "Completed",
			"imagingDate": "2024-01-02T10:00:00Z", "imagingType": "X-Ray"}),
		doc(t, map[string]any{"_id": "lab1", "type": "lab", "status": "Completed",
			"labDate": "2024-01-03T10:00:00Z", "labType": "CBC"}),
	})
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	buf := reports.NewBuffer()
	err = a.NewDispatcher().Run(ctx, domain.ReportRequest{
		Kind:      domain.ReportDiagnostic,
		StartDate: &start,
		EndDate:   &end,
	}, buf, reports.Callbacks{})
	require.NoError(t, err)
	return buf
}

func TestNew_MemoryStore(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Timezone = "UTC"

	buf := runDiagnostic(t, cfg)

	assert.True(t, buf.Finished())
	assert.Len(t, buf.Rows(), 4)
}

func TestNew_SQLiteStore(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Timezone = "UTC"
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.DSN = filepath.Join(t.TempDir(), "records.db")

	buf := runDiagnostic(t, cfg)

	assert.True(t, buf.Finished())
	assert.Len(t, buf.Rows(), 4)
}

func TestNew_BadTimezone(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Timezone = "Nowhere/Special"

	_, err = New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestStaticAuthorizer(t *testing.T) {
	auth := NewStaticAuthorizer(reports.CapabilityPatientReports)
	assert.True(t, auth.CurrentUserCan(reports.CapabilityPatientReports))
	assert.False(t, auth.CurrentUserCan("admin"))
	assert.False(t, NewStaticAuthorizer().CurrentUserCan(reports.CapabilityPatientReports))
}

func TestReadDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"_id":"p1","type":"patient","firstName":"Ann"}]`), 0o644))

	docs, err := ReadDocuments(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0].ID)
	assert.Equal(t, store.TypePatient, docs[0].Type)

	require.NoError(t, os.WriteFile(path, []byte(`{"_id":"p1"}`), 0o644))
	_, err = ReadDocuments(path)
	assert.Error(t, err)

	_, err = ReadDocuments(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
