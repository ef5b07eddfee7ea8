package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/api"
	"github.com/de-tools/patient-reports/pkg/models/domain"
)

// MapAPIRequestToDomain parses wire dates as calendar days in loc.
func MapAPIRequestToDomain(req api.ReportRequest, loc *time.Location) (domain.ReportRequest, error) {
	out := domain.ReportRequest{
		Kind:    domain.ReportKind(req.ReportKind),
		Columns: req.Columns,
		Locale:  req.Locale,
	}

	var err error
	if out.StartDate, err = parseDate(req.StartDate, loc); err != nil {
		return out, fmt.Errorf("start_date: %w", err)
	}
	if out.EndDate, err = parseDate(req.EndDate, loc); err != nil {
		return out, fmt.Errorf("end_date: %w", err)
	}

	filters := map[string]string{
		domain.FilterStatus:           req.Status,
		domain.FilterExaminer:         req.Examiner,
		domain.FilterVisitType:        req.VisitType,
		domain.FilterLocation:         req.Location,
		domain.FilterClinic:           req.Clinic,
		domain.FilterDiagnosis:        req.Diagnosis,
		domain.FilterPrimaryDiagnosis: req.PrimaryDiagnosis,
	}
	for key, value := range filters {
		if value == "" {
			continue
		}
		if out.Filters == nil {
			out.Filters = make(map[string]string)
		}
		out.Filters[key] = value
	}
	return out, nil
}

func parseDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(api.DateLayout, value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func MapDomainReportToAPI(kind domain.ReportKind, s domain.ReportSchema, rows []domain.ReportRow) api.ReportResponse {
	resp := api.ReportResponse{
		ReportKind: string(kind),
		Columns:    []api.Column{},
		Rows:       make([]api.Row, 0, len(rows)),
	}
	for _, col := range s.Included() {
		resp.Columns = append(resp.Columns, api.Column{Key: col.Key, Label: col.Label})
	}
	for _, row := range rows {
		out := api.Row{Cells: make([]string, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			out.Cells = append(out.Cells, cell.Value)
		}
		if row.Action != nil {
			out.Action = &api.RowAction{Action: row.Action.Action, Model: row.Action.Model}
		}
		resp.Rows = append(resp.Rows, out)
	}
	return resp
}
