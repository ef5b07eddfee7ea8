package reports

import (
	"context"
	"fmt"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/services/schema"
)

const (
	stageVisit = "visit report"

	visitTotalLabel = "total"
)

func visitReport(ctx context.Context, r *run) error {
	visits, err := r.planner.Visits(ctx, r.window, false)
	if err != nil {
		return queryFailed(stageVisitQuery, err)
	}
	if err := r.stillCurrent(); err != nil {
		return err
	}

	visits = filterVisits(visits, r.req)
	if r.schema.IsIncluded(schema.ColumnProcedures) {
		if err := r.planner.VisitProcedures(ctx, visits); err != nil {
			return queryFailed(stageVisit, err)
		}
		if err := r.stillCurrent(); err != nil {
			return err
		}
	}

	totals := TotalByType(visits, CategoryAt[*domain.Visit]("visitType"), visitTotalLabel)
	last := len(totals) - 1
	for i, group := range totals {
		if i == last {
			r.addTotal(map[string]any{
				"visitDate": fmt.Sprintf("Total visits: %d", group.Total),
			})
			break
		}
		for _, v := range group.Records {
			r.add(v)
		}
		r.addTotal(map[string]any{
			"visitDate": fmt.Sprintf("Total for %s: %d", group.Type, group.Total),
		})
	}
	return nil
}
