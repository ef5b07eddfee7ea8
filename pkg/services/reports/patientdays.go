package reports

import "context"

const patientDaysFractionDigits = 2

func patientDaysReport(ctx context.Context, r *run) error {
	visits, err := r.planner.Visits(ctx, r.window, false)
	if err != nil {
		return queryFailed(stageVisitQuery, err)
	}
	if err := r.stillCurrent(); err != nil {
		return err
	}

	windowStart := r.window.Start
	windowEnd := EndOfDay(r.now, r.loc)
	if r.window.End != nil {
		windowEnd = *r.window.End
	}

	detailed := r.req.Kind.Detailed()
	total := 0.0
	for _, v := range inPatient(visits) {
		clipped := Clip(v.StartDate, v.EndDate, windowStart, windowEnd, r.now, r.loc)
		total += clipped.Days
		if detailed {
			row := stayRow(v)
			row["patientDays"] = clipped.Days
			r.add(row)
		}
	}

	if detailed {
		r.addTotal(map[string]any{
			"patientDays": "Total: " + r.tr.FormatNumber(total, patientDaysFractionDigits),
		})
	} else {
		r.add(map[string]any{"total": total})
	}
	return nil
}
