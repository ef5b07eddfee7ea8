package export

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/patient-reports/pkg/models/domain"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
)

var Formats = []string{FormatTable, FormatCSV, FormatXLSX}

// Report is a finished report ready for output.
type Report struct {
	Title   string
	Kind    domain.ReportKind
	Period  *domain.TimePeriod
	Columns []domain.ColumnSpec
	Rows    []domain.ReportRow
}

// NewReport keeps the included columns of s.
func NewReport(title string, kind domain.ReportKind, s domain.ReportSchema, rows []domain.ReportRow) *Report {
	return &Report{
		Title:   title,
		Kind:    kind,
		Columns: s.Included(),
		Rows:    rows,
	}
}

// Labels returns the header line.
func (r *Report) Labels() []string {
	labels := make([]string, 0, len(r.Columns))
	for _, col := range r.Columns {
		labels = append(labels, col.Label)
	}
	return labels
}

// Values returns the cells of row in column order.
func (r *Report) Values(row domain.ReportRow) []string {
	values := make([]string, 0, len(r.Columns))
	for _, col := range r.Columns {
		v, _ := row.Get(col.Key)
		values = append(values, v)
	}
	return values
}

type Reporter interface {
	Handle(report *Report) error
}

func NewReporter(format string, writer io.Writer) (Reporter, error) {
	if writer == nil {
		writer = os.Stdout
	}
	switch format {
	case "", FormatTable:
		return NewTableReporter(writer), nil
	case FormatCSV:
		return &csvReporter{writer: writer}, nil
	case FormatXLSX:
		return &xlsxReporter{writer: writer}, nil
	}
	return nil, fmt.Errorf("unsupported format %q, expected one of %v", format, Formats)
}
