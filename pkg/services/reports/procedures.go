package reports

import (
	"context"
	"fmt"

	"github.com/de-tools/patient-reports/pkg/models/domain"
)

const (
	stageProcedure = "procedure report"

	procedureTotalLabel       = "Total procedures: "
	procedureDetailTotalLabel = "all procedures"
)

func procedureReport(ctx context.Context, r *run) error {
	procedures, err := r.planner.Procedures(ctx, r.window)
	if err != nil {
		return queryFailed(stageProcedure, err)
	}
	if err := r.stillCurrent(); err != nil {
		return err
	}

	kept := make([]*domain.Procedure, 0, len(procedures))
	for _, p := range procedures {
		patient := p.Patient()
		if patient == nil || patient.ID == "" || patient.Archived {
			continue
		}
		kept = append(kept, p)
	}

	description := CategoryAt[*domain.Procedure]("description")
	if !r.req.Kind.Detailed() {
		addTypeTotals(r, TotalByType(kept, description, procedureTotalLabel))
		return nil
	}

	for _, group := range TotalByType(kept, description, procedureDetailTotalLabel) {
		for _, p := range group.Records {
			r.add(map[string]any{
				"patient":       p.Patient(),
				"procedure":     p.Description,
				"procedureDate": p.ProcedureDate,
			})
		}
		r.addTotal(map[string]any{
			"procedure": fmt.Sprintf("Total for %s: %d", group.Type, group.Total),
		})
	}
	return nil
}
