package reports

import (
	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/services/fieldpath"
)

// Format projects source through the included columns of schema. Formatters
// are not applied when skipFormatting is set. Without an explicit action a
// row that references a patient links to that patient.
func Format(source any, schema domain.ReportSchema, skipFormatting bool, action *domain.RowAction) domain.ReportRow {
	cols := schema.Included()
	row := domain.ReportRow{Cells: make([]domain.Cell, 0, len(cols))}

	for _, col := range cols {
		value := fieldpath.Resolve(source, col.Property)
		var text string
		if col.Format != nil && !skipFormatting {
			text = col.Format(value)
		} else {
			text = fieldpath.Text(value)
		}
		row.Cells = append(row.Cells, domain.Cell{Key: col.Key, Value: text})
	}

	if action == nil {
		if p, ok := fieldpath.Resolve(source, "patient").(*domain.Patient); ok && p.ID != "" {
			action = &domain.RowAction{Action: domain.ActionViewPatient, Model: p.ID}
		}
	}
	row.Action = action
	return row
}
