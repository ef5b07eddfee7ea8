package reports

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/api"
	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/services/reports"
	"github.com/de-tools/patient-reports/pkg/services/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, req domain.ReportRequest, sink reports.Sink, cb reports.Callbacks) error {
	args := m.Called(ctx, req, sink, cb)
	return args.Error(0)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Schema(locale, name string) (domain.ReportSchema, error) {
	args := m.Called(locale, name)
	return args.Get(0).(domain.ReportSchema), args.Error(1)
}

func (m *mockCatalog) ReportTypes(locale string) ([]schema.ReportType, error) {
	args := m.Called(locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.ReportType), args.Error(1)
}

func newRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return req.WithContext(logger.WithContext(req.Context()))
}

var statusSchema = domain.ReportSchema{Name: schema.Status, Columns: []domain.ColumnSpec{
	{Key: "id", Label: "Id", Include: true},
	{Key: "name", Label: "Name", Include: true},
}}

func TestRunReport(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*mockRunner)
		expectedStatus int
		expectedBody   any
	}{
		{
			name: "successful report",
			body: `{"report_kind":"status","status":"Admitted"}`,
			setupMock: func(m *mockRunner) {
				want := domain.ReportRequest{Kind: domain.ReportStatus, Filters: map[string]string{"status": "Admitted"}}
				m.On("Run", mock.Anything, want, mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						sink := args.Get(2).(reports.Sink)
						sink.Append(domain.ReportRow{
							Cells:  []domain.Cell{{Key: "id", Value: "P1"}, {Key: "name", Value: "Ann Smith"}},
							Action: &domain.RowAction{Action: domain.ActionViewPatient, Model: "p1"},
						})
						sink.Finish(statusSchema)
					}).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: &api.ReportResponse{
				ReportKind: "status",
				Columns:    []api.Column{{Key: "id", Label: "Id"}, {Key: "name", Label: "Name"}},
				Rows: []api.Row{{
					Cells:  []string{"P1", "Ann Smith"},
					Action: &api.RowAction{Action: "viewPatient", Model: "p1"},
				}},
			},
		},
		{
			name: "validation error",
			body: `{"report_kind":"visit"}`,
			setupMock: func(m *mockRunner) {
				m.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(&reports.ValidationError{Field: "startDate", Reason: "required"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   &api.ErrorResponse{Error: "required", Field: "startDate"},
		},
		{
			name: "forbidden",
			body: `{"report_kind":"visit","start_date":"2024-01-01"}`,
			setupMock: func(m *mockRunner) {
				want := domain.ReportRequest{Kind: domain.ReportVisit, StartDate: &start}
				m.On("Run", mock.Anything, want, mock.Anything, mock.Anything).Return(reports.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   &api.ErrorResponse{Error: reports.ErrForbidden.Error()},
		},
		{
			name: "query error",
			body: `{"report_kind":"diagnostic","start_date":"2024-01-01"}`,
			setupMock: func(m *mockRunner) {
				m.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(&reports.QueryError{Stage: "diagnostic report", Err: errors.New("network down")})
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   &api.ErrorResponse{Error: "Error in diagnostic report: network down"},
		},
		{
			name:           "malformed body",
			body:           `{"report_kind":`,
			setupMock:      func(m *mockRunner) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   &api.ErrorResponse{Error: "invalid request body"},
		},
		{
			name:           "malformed date",
			body:           `{"report_kind":"visit","start_date":"01/02/2024"}`,
			setupMock:      func(m *mockRunner) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mockRunner)
			tt.setupMock(runner)
			h := NewHandler(func() Runner { return runner }, new(mockCatalog), time.UTC, "en")

			rec := httptest.NewRecorder()
			h.RunReport(rec, newRequest(t, http.MethodPost, "/api/v1/reports", tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			switch want := tt.expectedBody.(type) {
			case *api.ReportResponse:
				var got api.ReportResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, *want, got)
			case *api.ErrorResponse:
				var got api.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, *want, got)
			}
			runner.AssertExpectations(t)
		})
	}
}

func TestRunReport_FreshRunnerPerRequest(t *testing.T) {
	calls := 0
	runner := new(mockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	h := NewHandler(func() Runner {
		calls++
		return runner
	}, new(mockCatalog), time.UTC, "en")

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.RunReport(rec, newRequest(t, http.MethodPost, "/api/v1/reports", `{"report_kind":"status"}`))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestListKinds(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*mockCatalog)
		expectedStatus int
		expectedBody   []api.ReportType
	}{
		{
			name:   "default locale",
			target: "/api/v1/reports/kinds",
			setupMock: func(m *mockCatalog) {
				m.On("ReportTypes", "en").Return([]schema.ReportType{
					{Kind: domain.ReportDetailedAdmissions, Title: "Admissions Detail"},
					{Kind: domain.ReportVisit, Title: "Visit Report"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []api.ReportType{
				{Kind: "detailedAdmissions", Title: "Admissions Detail"},
				{Kind: "visit", Title: "Visit Report"},
			},
		},
		{
			name:   "unknown locale",
			target: "/api/v1/reports/kinds?locale=xx",
			setupMock: func(m *mockCatalog) {
				m.On("ReportTypes", "xx").Return(nil, errors.New("unknown locale \"xx\""))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(mockCatalog)
			tt.setupMock(catalog)
			h := NewHandler(nil, catalog, time.UTC, "en")

			rec := httptest.NewRecorder()
			h.ListKinds(rec, newRequest(t, http.MethodGet, tt.target, ""))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != nil {
				var got []api.ReportType
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, tt.expectedBody, got)
			}
			catalog.AssertExpectations(t)
		})
	}
}
