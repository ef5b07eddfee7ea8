package reports

import (
	"context"

	"github.com/de-tools/patient-reports/pkg/models/domain"
)

const (
	stageDiagnostic = "diagnostic report"

	imagingTotalLabel = "Total for imaging: "
	labTotalLabel     = "Total for labs: "
)

func diagnosticReport(ctx context.Context, r *run) error {
	diagnostics, err := r.planner.Diagnostics(ctx, r.window)
	if err != nil {
		return queryFailed(stageDiagnostic, err)
	}
	if err := r.stillCurrent(); err != nil {
		return err
	}

	addTypeTotals(r, TotalByType(diagnostics.Imaging, CategoryAt[*domain.Imaging]("imagingType"), imagingTotalLabel))
	addTypeTotals(r, TotalByType(diagnostics.Labs, CategoryAt[*domain.Lab]("labType"), labTotalLabel))
	return nil
}

// addTypeTotals adds one (type, total) row per category.
func addTypeTotals[T any](r *run, totals []domain.TypeTotal[T]) {
	for _, t := range totals {
		r.addTotal(map[string]any{"type": t.Type, "total": t.Total})
	}
}
