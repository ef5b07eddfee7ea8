package views

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/store"
	"github.com/de-tools/patient-reports/pkg/store/collate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func document(t *testing.T, body string) store.Document {
	t.Helper()
	var d store.Document
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	return d
}

func TestDefault_Index(t *testing.T) {
	start := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		body string
		want map[string][]collate.Key
	}{
		{
			name: "visit with discharge",
			body: `{"_id":"v1","type":"visit","patient":"p1","startDate":"2024-01-02T08:00:00Z","endDate":"2024-01-04T08:00:00Z"}`,
			want: map[string][]collate.Key{
				VisitByDate:          {{start.UnixMilli(), "v1"}},
				VisitByDischargeDate: {{end.UnixMilli(), "v1"}},
				VisitByPatient:       {{"p1", start.UnixMilli()}},
			},
		},
		{
			name: "open visit without patient",
			body: `{"_id":"v2","type":"visit","startDate":"2024-01-02T08:00:00Z"}`,
			want: map[string][]collate.Key{
				VisitByDate: {{start.UnixMilli(), "v2"}},
			},
		},
		{
			name: "patient without status",
			body: `{"_id":"p1","type":"patient"}`,
			want: map[string][]collate.Key{
				PatientByStatus: {{nil, "p1"}},
			},
		},
		{
			name: "imaging",
			body: `{"_id":"i1","type":"imaging","status":"Completed","imagingDate":"2024-01-02T08:00:00Z"}`,
			want: map[string][]collate.Key{
				ImagingByStatus: {{"Completed", start.UnixMilli(), "i1"}},
			},
		},
		{
			name: "lab",
			body: `{"_id":"l1","type":"lab","status":"Requested","labDate":"2024-01-02T08:00:00Z"}`,
			want: map[string][]collate.Key{
				LabByStatus: {{"Requested", start.UnixMilli(), "l1"}},
			},
		},
		{
			name: "procedure",
			body: `{"_id":"pr1","type":"procedure","visit":"v1","procedureDate":"2024-01-02T08:00:00Z"}`,
			want: map[string][]collate.Key{
				ProcedureByDate: {{start.UnixMilli(), "pr1"}},
			},
		},
		{
			name: "unindexed type",
			body: `{"_id":"x1","type":"invoice"}`,
			want: map[string][]collate.Key{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Default().Index(document(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefault_IndexRejectsMalformedBody(t *testing.T) {
	doc := store.Document{ID: "v1", Type: store.TypeVisit, Body: json.RawMessage(`{"startDate":"yesterday"}`)}
	_, err := Default().Index(doc)
	assert.Error(t, err)
}
