package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/api"
	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAPIRequestToDomain(t *testing.T) {
	got, err := MapAPIRequestToDomain(api.ReportRequest{
		ReportKind: "visit",
		StartDate:  "2024-01-02",
		Examiner:   "Dr. No",
		Diagnosis:  "flu",
		Columns:    map[string]bool{"procedures": true},
		Locale:     "fr",
	}, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, domain.ReportVisit, got.Kind)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, map[string]string{"examiner": "Dr. No", "diagnosis": "flu"}, got.Filters)
	assert.Equal(t, map[string]bool{"procedures": true}, got.Columns)
	assert.Equal(t, "fr", got.Locale)
}

func TestMapAPIRequestToDomain_NoFilters(t *testing.T) {
	got, err := MapAPIRequestToDomain(api.ReportRequest{ReportKind: "status"}, nil)
	require.NoError(t, err)
	assert.Nil(t, got.Filters)
	assert.Nil(t, got.StartDate)
}

func TestMapAPIRequestToDomain_BadDate(t *testing.T) {
	_, err := MapAPIRequestToDomain(api.ReportRequest{ReportKind: "visit", EndDate: "01/02/2024"}, time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")
}

func TestMapDomainReportToAPI(t *testing.T) {
	s := domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: "id", Label: "Id", Include: true},
		{Key: "age", Label: "Age"},
		{Key: "name", Label: "Name", Include: true},
	}}
	rows := []domain.ReportRow{
		{
			Cells:  []domain.Cell{{Key: "id", Value: "P1"}, {Key: "name", Value: "Ann"}},
			Action: &domain.RowAction{Action: domain.ActionViewPatient, Model: "p1"},
		},
		{Cells: []domain.Cell{{Key: "id", Value: "Total: 1"}, {Key: "name", Value: ""}}},
	}

	got := MapDomainReportToAPI(domain.ReportStatus, s, rows)

	assert.Equal(t, "status", got.ReportKind)
	assert.Equal(t, []api.Column{{Key: "id", Label: "Id"}, {Key: "name", Label: "Name"}}, got.Columns)
	assert.Equal(t, []api.Row{
		{Cells: []string{"P1", "Ann"}, Action: &api.RowAction{Action: "viewPatient", Model: "p1"}},
		{Cells: []string{"Total: 1", ""}},
	}, got.Rows)
}
