package domain

import "time"

// ReportKind selects the pipeline and column schema of a report.
type ReportKind string

const (
	ReportDetailedAdmissions  ReportKind = "detailedAdmissions"
	ReportAdmissions          ReportKind = "admissions"
	ReportDiagnostic          ReportKind = "diagnostic"
	ReportDetailedDischarges  ReportKind = "detailedDischarges"
	ReportDischarges          ReportKind = "discharges"
	ReportDetailedProcedures  ReportKind = "detailedProcedures"
	ReportProcedures          ReportKind = "procedures"
	ReportStatus              ReportKind = "status"
	ReportPatientDays         ReportKind = "patientDays"
	ReportDetailedPatientDays ReportKind = "detailedPatientDays"
	ReportVisit               ReportKind = "visit"
)

// ReportKinds lists every kind in menu order.
var ReportKinds = []ReportKind{
	ReportDetailedAdmissions,
	ReportAdmissions,
	ReportDiagnostic,
	ReportDetailedDischarges,
	ReportDischarges,
	ReportDetailedProcedures,
	ReportProcedures,
	ReportStatus,
	ReportPatientDays,
	ReportDetailedPatientDays,
	ReportVisit,
}

func (k ReportKind) Valid() bool {
	for _, known := range ReportKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Discharge reports query the discharge-date index.
func (k ReportKind) Discharge() bool {
	return k == ReportDischarges || k == ReportDetailedDischarges
}

func (k ReportKind) Detailed() bool {
	switch k {
	case ReportDetailedAdmissions, ReportDetailedDischarges, ReportDetailedProcedures, ReportDetailedPatientDays:
		return true
	}
	return false
}

// Filter keys accepted in ReportRequest.Filters.
const (
	FilterStatus           = "status"
	FilterExaminer         = "examiner"
	FilterVisitType        = "visitType"
	FilterLocation         = "location"
	FilterClinic           = "clinic"
	FilterPrimaryDiagnosis = "primaryDiagnosis"
	FilterDiagnosis        = "diagnosis"
)

var KnownFilters = map[string]bool{
	FilterStatus:           true,
	FilterExaminer:         true,
	FilterVisitType:        true,
	FilterLocation:         true,
	FilterClinic:           true,
	FilterPrimaryDiagnosis: true,
	FilterDiagnosis:        true,
}

type ReportRequest struct {
	Kind      ReportKind
	StartDate *time.Time
	EndDate   *time.Time
	Filters   map[string]string
	// Columns overrides the include flag of schema columns by key.
	Columns map[string]bool
	Locale  string
}

// Filter returns the filter value for key, empty meaning no constraint.
func (r ReportRequest) Filter(key string) string {
	if r.Filters == nil {
		return ""
	}
	return r.Filters[key]
}

// TypeTotal is one category bucket of an aggregation. The synthetic grand
// total entry has no records.
type TypeTotal[T any] struct {
	Type    string
	Total   int
	Records []T
}

type Cell struct {
	Key   string
	Value string
}

// RowAction is navigation metadata attached to a row.
type RowAction struct {
	Action string
	Model  string
}

const ActionViewPatient = "viewPatient"

type ReportRow struct {
	Cells  []Cell
	Action *RowAction
}

func (r ReportRow) Get(key string) (string, bool) {
	for _, c := range r.Cells {
		if c.Key == key {
			return c.Value, true
		}
	}
	return "", false
}

// TimePeriod is the reporting window of a run.
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// NewTimePeriod spans the calendar days of start through end.
func NewTimePeriod(start, end time.Time) TimePeriod {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return TimePeriod{
		Start:    start,
		End:      end,
		Duration: int(day(end).Sub(day(start)).Hours()/24) + 1,
	}
}
