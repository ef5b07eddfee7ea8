package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *Report {
	s := domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: "id", Label: "Id", Include: true},
		{Key: "age", Label: "Age"},
		{Key: "name", Label: "Name", Include: true},
		{Key: "contacts", Label: "Contacts", Include: true},
	}}
	rows := []domain.ReportRow{
		{Cells: []domain.Cell{
			{Key: "id", Value: "P001"},
			{Key: "name", Value: "Ann Smith"},
			{Key: "contacts", Value: "Primary: 555-1234;\nBob - Brother: 555-9999"},
		}},
		{Cells: []domain.Cell{{Key: "id", Value: "Total: 1"}}},
	}
	return NewReport("Patient Status", domain.ReportStatus, s, rows)
}

func TestReport_LabelsAndValues(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, []string{"Id", "Name", "Contacts"}, r.Labels())
	assert.Equal(t, []string{"Total: 1", "", ""}, r.Values(r.Rows[1]))
}

func TestNewReporter(t *testing.T) {
	for _, format := range append(Formats, "") {
		rep, err := NewReporter(format, &bytes.Buffer{})
		require.NoError(t, err, format)
		assert.NotNil(t, rep)
	}
	_, err := NewReporter("pdf", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestTableReporter_Handle(t *testing.T) {
	var out bytes.Buffer
	rep := NewTableReporter(&out)
	rep.config.MaxWidth = 20

	require.NoError(t, rep.Handle(sampleReport()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Patient Status", lines[0])
	assert.Equal(t, "+----------+-----------+----------------------+", lines[2])
	assert.Equal(t, "| Id       | Name      | Contacts             |", lines[3])
	assert.Equal(t, "| P001     | Ann Smith | Primary: 555-1234; … |", lines[5])
	assert.Equal(t, "| Total: 1 |           |                      |", lines[6])
	assert.Equal(t, lines[2], lines[7])
}

func TestTableReporter_Period(t *testing.T) {
	var out bytes.Buffer
	r := sampleReport()
	period := domain.NewTimePeriod(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC),
	)
	r.Period = &period

	require.NoError(t, NewTableReporter(&out).Handle(r))

	assert.Contains(t, out.String(), "Patient Status\nPeriod: 2024-01-01 to 2024-01-31 (31 days)\n")
}

func TestCSVReporter_Handle(t *testing.T) {
	var out bytes.Buffer
	rep, err := NewReporter(FormatCSV, &out)
	require.NoError(t, err)

	require.NoError(t, rep.Handle(sampleReport()))

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Id", "Name", "Contacts"},
		{"P001", "Ann Smith", "Primary: 555-1234;\nBob - Brother: 555-9999"},
		{"Total: 1", "", ""},
	}, records)
}

func TestXLSXReporter_Handle(t *testing.T) {
	var out bytes.Buffer
	rep, err := NewReporter(FormatXLSX, &out)
	require.NoError(t, err)

	require.NoError(t, rep.Handle(sampleReport()))

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Patient Status"}, f.GetSheetList())
	rows, err := f.GetRows("Patient Status")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Id", "Name", "Contacts"}, rows[0])
	assert.Equal(t, "Ann Smith", rows[1][1])
	assert.Equal(t, "Total: 1", rows[2][0])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", SheetName("  "))
	assert.Equal(t, "Admissions-Discharges", SheetName("Admissions/Discharges"))
	assert.Len(t, []rune(SheetName(strings.Repeat("x", 40))), 31)
}
