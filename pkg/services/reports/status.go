package reports

import (
	"context"
	"sort"

	"github.com/de-tools/patient-reports/pkg/models/domain"
)

const stageStatus = "status report"

func statusReport(ctx context.Context, r *run) error {
	patients, err := r.planner.PatientsByStatus(ctx, r.req.Filter(domain.FilterStatus))
	if err != nil {
		return queryFailed(stageStatus, err)
	}
	if err := r.stillCurrent(); err != nil {
		return err
	}

	sort.SliceStable(patients, func(i, j int) bool {
		if patients[i].LastName != patients[j].LastName {
			return patients[i].LastName < patients[j].LastName
		}
		return patients[i].FirstName < patients[j].FirstName
	})

	if err := r.planner.PatientHistories(ctx, patients); err != nil {
		return queryFailed(stageStatus, err)
	}
	if err := r.stillCurrent(); err != nil {
		return err
	}

	for _, p := range patients {
		r.add(map[string]any{"patient": p})
	}
	return nil
}
