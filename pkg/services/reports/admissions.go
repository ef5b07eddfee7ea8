package reports

import (
	"context"
	"fmt"

	"github.com/de-tools/patient-reports/pkg/models/domain"
)

const (
	stageVisitQuery = "visit query"

	sexNotEnteredKey = "patients.labels.sexNotEntered"
)

// inPatient keeps admitted stays whose patient could be resolved.
func inPatient(visits []*domain.Visit) []*domain.Visit {
	kept := make([]*domain.Visit, 0, len(visits))
	for _, v := range visits {
		if v.InPatient() && v.Patient != nil {
			kept = append(kept, v)
		}
	}
	return kept
}

// stayRow is the detail row shared by the admission and patient days reports.
func stayRow(v *domain.Visit) map[string]any {
	row := map[string]any{
		"patient":       v.Patient,
		"patientId":     v.Patient.DisplayPatientID,
		"patientName":   v.Patient.DisplayName(),
		"admissionDate": v.StartDate,
	}
	if v.EndDate != nil {
		row["dischargeDate"] = *v.EndDate
	}
	return row
}

type sexGroup struct {
	sex    string
	visits []*domain.Visit
}

func admissionReport(ctx context.Context, r *run) error {
	discharge := r.req.Kind.Discharge()
	visits, err := r.planner.Visits(ctx, r.window, discharge)
	if err != nil {
		return queryFailed(stageVisitQuery, err)
	}
	if err := r.stillCurrent(); err != nil {
		return err
	}

	// groups keep the order in which each sex first appears
	var groups []*sexGroup
	bySex := make(map[string]*sexGroup)
	for _, v := range inPatient(visits) {
		if discharge && v.EndDate == nil {
			continue
		}
		sex := v.Patient.Sex
		if sex == "" {
			sex = r.tr.T(sexNotEnteredKey)
		}
		g, ok := bySex[sex]
		if !ok {
			g = &sexGroup{sex: sex}
			bySex[sex] = g
			groups = append(groups, g)
		}
		g.visits = append(g.visits, v)
	}

	detailed := r.req.Kind.Detailed()
	total := 0
	for _, g := range groups {
		if detailed {
			for _, v := range g.visits {
				r.add(stayRow(v))
			}
			r.addTotal(map[string]any{"patientId": fmt.Sprintf("%s Total: %d", g.sex, len(g.visits))})
		} else {
			r.addTotal(map[string]any{"sex": g.sex, "total": len(g.visits)})
		}
		total += len(g.visits)
	}

	grandTotal := fmt.Sprintf("Grand Total: %d", total)
	if detailed {
		r.addTotal(map[string]any{"patientId": grandTotal})
	} else {
		r.addTotal(map[string]any{"sex": grandTotal})
	}
	return nil
}
