package terminal

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/patient-reports/pkg/runtime/app"
	"github.com/de-tools/patient-reports/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const documents = `[
{"_id":"p1","type":"patient","displayPatientId":"P001","firstName":"Ann","lastName":"Lee","sex":"Female","status":"Admitted"},
{"_id":"p2","type":"patient","displayPatientId":"P002","firstName":"Bob","lastName":"Ray","sex":"Male","status":"Discharged"},
{"_id":"v1","type":"visit","patient":"p1","status":"Admitted","startDate":"2024-01-02T08:00:00Z"},
{"_id":"v2","type":"visit","patient":"p2","status":"Admitted","startDate":"2024-01-03T08:00:00Z","endDate":"2024-01-05T08:00:00Z"}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestCLI(t *testing.T, driver string) (*CLI, *bytes.Buffer) {
	t.Helper()
	return newTestCLIAt(t, driver, filepath.Join(t.TempDir(), "records.db"))
}

func newTestCLIAt(t *testing.T, driver, dsn string) (*CLI, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cli := NewCLI(Options{
		Output: out,
		Logs:   zerolog.NewTestWriter(t),
		Open: func(ctx context.Context, _ string, logger zerolog.Logger) (*app.App, error) {
			cfg, err := config.LoadConfig("")
			if err != nil {
				return nil, err
			}
			cfg.Timezone = "UTC"
			cfg.Store.Driver = driver
			cfg.Store.DSN = dsn
			return app.New(ctx, cfg, logger)
		},
	})
	return cli, out
}

func TestCLI_Kinds(t *testing.T) {
	cli, out := newTestCLI(t, config.DriverMemory)
	cli.SetArgs([]string{"kinds"})

	require.NoError(t, cli.Execute())

	assert.Contains(t, out.String(), "KIND")
	assert.Contains(t, out.String(), "detailedAdmissions")
	assert.Contains(t, out.String(), "Admissions Detail")
}

func TestCLI_RunCSVWithSeed(t *testing.T) {
	cli, out := newTestCLI(t, config.DriverMemory)
	seed := writeFile(t, "docs.json", documents)
	cli.SetArgs([]string{
		"run", "--kind", "admissions", "--start", "2024-01-01", "--end", "2024-01-31",
		"--seed", seed, "--format", "csv",
	})

	require.NoError(t, cli.Execute())

	records, err := csv.NewReader(out).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Sex", "Total"},
		{"Female", "1"},
		{"Male", "1"},
		{"Grand Total: 2", ""},
	}, records)
}

func TestCLI_SeedThenRunSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "records.db")

	cli, out := newTestCLIAt(t, config.DriverSQLite, dsn)
	cli.SetArgs([]string{"seed", "--file", writeFile(t, "docs.json", documents)})
	require.NoError(t, cli.Execute())
	assert.Contains(t, out.String(), "Loaded 4 documents")

	xlsx := filepath.Join(t.TempDir(), "status.xlsx")
	cli, _ = newTestCLIAt(t, config.DriverSQLite, dsn)
	cli.SetArgs([]string{"run", "--kind", "status", "--format", "xlsx", "--out", xlsx})
	require.NoError(t, cli.Execute())

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Patient Status")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "P001", rows[1][0])
	assert.Equal(t, "P002", rows[2][0])
}

func TestCLI_RunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "missing kind", args: []string{"run"}},
		{name: "unknown kind", args: []string{"run", "--kind", "nope", "--start", "2024-01-01"}},
		{name: "bad date", args: []string{"run", "--kind", "visit", "--start", "Jan 1"}, msg: "invalid request: start_date"},
		{name: "bad end date", args: []string{"run", "--kind", "visit", "--start", "2024-01-01", "--end", "soon"}, msg: "invalid request: end_date"},
		{name: "missing start", args: []string{"run", "--kind", "visit"}},
		{name: "bad format", args: []string{"run", "--kind", "status", "--format", "pdf"}},
		{name: "bad log level", args: []string{"kinds", "--log-level", "shouty"}},
		{name: "missing seed file", args: []string{"seed", "--file", "/does/not/exist.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _ := newTestCLI(t, config.DriverMemory)
			cli.SetArgs(tt.args)
			err := cli.Execute()
			require.Error(t, err)
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
		})
	}
}
