package api

// DateLayout is the wire format of report dates.
const DateLayout = "2006-01-02"

type ReportRequest struct {
	ReportKind       string          `json:"report_kind"`
	StartDate        string          `json:"start_date,omitempty"`
	EndDate          string          `json:"end_date,omitempty"`
	Status           string          `json:"status,omitempty"`
	Examiner         string          `json:"examiner,omitempty"`
	VisitType        string          `json:"visit_type,omitempty"`
	Location         string          `json:"location,omitempty"`
	Clinic           string          `json:"clinic,omitempty"`
	Diagnosis        string          `json:"diagnosis,omitempty"`
	PrimaryDiagnosis string          `json:"primary_diagnosis,omitempty"`
	Columns          map[string]bool `json:"columns,omitempty"`
	Locale           string          `json:"locale,omitempty"`
}

type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type RowAction struct {
	Action string `json:"action"`
	Model  string `json:"model"`
}

type Row struct {
	Cells  []string   `json:"cells"`
	Action *RowAction `json:"action,omitempty"`
}

type ReportResponse struct {
	ReportKind string   `json:"report_kind"`
	Columns    []Column `json:"columns"`
	Rows       []Row    `json:"rows"`
}

type ReportType struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
