package reports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/services/i18n"
	"github.com/de-tools/patient-reports/pkg/services/records"
	"github.com/de-tools/patient-reports/pkg/services/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StateRunning
	StateFormatting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRunning:
		return "running"
	case StateFormatting:
		return "formatting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const CapabilityPatientReports = "patient_reports"

// Authorizer answers capability checks for the calling user.
type Authorizer interface {
	CurrentUserCan(capability string) bool
}

type Settings struct {
	// Location sets day boundaries. Defaults to time.Local.
	Location *time.Location
	// Locale is used when a request has none.
	Locale string
	Now    func() time.Time
	// OnTransition observes every state change of the current run.
	OnTransition func(runID uuid.UUID, from, to State)
}

// Dispatcher runs one report at a time. Starting a run makes any run still
// in flight stale; a stale run returns ErrSuperseded without touching its
// sink or callbacks.
type Dispatcher struct {
	planner  records.Planner
	catalog  schema.Catalog
	labels   i18n.Catalog
	auth     Authorizer
	settings Settings

	mu      sync.Mutex
	state   State
	current uuid.UUID
}

func NewDispatcher(
	planner records.Planner,
	catalog schema.Catalog,
	labels i18n.Catalog,
	auth Authorizer,
	settings Settings,
) *Dispatcher {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.Locale == "" {
		settings.Locale = i18n.DefaultLocale
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Dispatcher{
		planner:  planner,
		catalog:  catalog,
		labels:   labels,
		auth:     auth,
		settings: settings,
	}
}

func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// transition moves the dispatcher only while id is the current run.
func (d *Dispatcher) transition(ctx context.Context, id uuid.UUID, to State) bool {
	d.mu.Lock()
	if id != d.current {
		d.mu.Unlock()
		return false
	}
	from := d.state
	d.state = to
	d.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("report state changed")
	if d.settings.OnTransition != nil {
		d.settings.OnTransition(id, from, to)
	}
	return true
}

func (d *Dispatcher) isCurrent(id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return id == d.current
}

// emit runs fn under the dispatcher lock while id is the current run, so a
// newer run cannot claim the dispatcher and reset a shared sink halfway
// through.
func (d *Dispatcher) emit(id uuid.UUID, fn func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id != d.current {
		return ErrSuperseded
	}
	fn()
	return nil
}

// Run validates req, executes its pipeline and delivers the rows to sink.
// Validation failures return a *ValidationError and fire no callbacks.
// Query failures fire OnError once and return a *QueryError.
func (d *Dispatcher) Run(ctx context.Context, req domain.ReportRequest, sink Sink, cb Callbacks) error {
	if d.auth != nil && !d.auth.CurrentUserCan(CapabilityPatientReports) {
		return ErrForbidden
	}

	logger := zerolog.Ctx(ctx).With().Str("kind", string(req.Kind)).Logger()
	r, err := d.prepare(req)
	if err != nil {
		logger.Debug().Err(err).Msg("report request rejected")
		return err
	}

	// only a valid request may supersede the run in flight
	id := uuid.New()
	d.mu.Lock()
	d.current = id
	d.mu.Unlock()
	r.id = id
	r.dispatcher = d

	logger = logger.With().Str("run_id", id.String()).Logger()
	ctx = logger.WithContext(ctx)

	d.transition(ctx, id, StateValidating)
	if err := d.emit(id, sink.Reset); err != nil {
		return err
	}
	cb.progressStart()
	d.transition(ctx, id, StateRunning)
	logger.Info().Msg("report run started")

	if err := pipelines[r.req.Kind](ctx, r); err != nil {
		return d.fail(ctx, r, cb, err)
	}
	if err := r.stillCurrent(); err != nil {
		return err
	}

	d.transition(ctx, id, StateFormatting)
	rows := make([]domain.ReportRow, 0, len(r.drafts))
	for _, draft := range r.drafts {
		rows = append(rows, Format(draft.source, r.schema, draft.skip, nil))
	}
	err = d.emit(id, func() {
		sink.Append(rows...)
		sink.Finish(r.schema)
	})
	if err != nil {
		return err
	}
	d.transition(ctx, id, StateDone)
	logger.Info().Int("rows", len(rows)).Msg("report run finished")
	d.transition(ctx, id, StateIdle)
	return nil
}

func (d *Dispatcher) fail(ctx context.Context, r *run, cb Callbacks, err error) error {
	if errors.Is(err, ErrSuperseded) || !d.isCurrent(r.id) {
		return ErrSuperseded
	}

	var qe *QueryError
	if !errors.As(err, &qe) {
		qe = &QueryError{Stage: string(r.req.Kind), Err: err}
	}
	d.transition(ctx, r.id, StateFailed)
	zerolog.Ctx(ctx).Error().Err(qe.Err).Str("stage", qe.Stage).Msg("report run failed")
	cb.fail(qe.Error())
	d.transition(ctx, r.id, StateIdle)
	return qe
}

// prepare validates req and resolves everything a pipeline needs.
func (d *Dispatcher) prepare(req domain.ReportRequest) (*run, error) {
	if !req.Kind.Valid() {
		return nil, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown report kind %q", req.Kind)}
	}
	for key := range req.Filters {
		if !domain.KnownFilters[key] {
			return nil, &ValidationError{Field: "filters", Reason: fmt.Sprintf("unknown filter %q", key)}
		}
	}

	loc := d.settings.Location
	r := &run{req: req, now: d.settings.Now(), loc: loc}
	if req.Kind == domain.ReportStatus {
		r.req.StartDate = nil
		r.req.EndDate = nil
	} else {
		if req.StartDate == nil {
			return nil, &ValidationError{Field: "startDate", Reason: "required"}
		}
		if req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
			return nil, &ValidationError{Field: "endDate", Reason: "must not be before the start date"}
		}
		r.window = records.Range{Start: StartOfDay(*req.StartDate, loc)}
		if req.EndDate != nil {
			end := EndOfDay(*req.EndDate, loc)
			r.window.End = &end
		}
	}

	locale := req.Locale
	if locale == "" {
		locale = d.settings.Locale
	}
	tr, err := d.labels.Translator(locale)
	if err != nil {
		return nil, &ValidationError{Field: "locale", Reason: err.Error()}
	}
	s, err := d.catalog.Schema(locale, schema.SchemaFor(req.Kind))
	if err != nil {
		return nil, &ValidationError{Field: "locale", Reason: err.Error()}
	}
	applyKindDefaults(req.Kind, &s)
	for key, include := range req.Columns {
		s.SetInclude(key, include)
	}
	r.schema = s
	r.tr = tr
	r.planner = d.planner
	return r, nil
}

// applyKindDefaults sets the columns that differ between kinds sharing the
// admission detail schema.
func applyKindDefaults(kind domain.ReportKind, s *domain.ReportSchema) {
	switch kind {
	case domain.ReportDetailedAdmissions:
		s.SetInclude(schema.ColumnDischargeDate, false)
		s.SetInclude(schema.ColumnPatientDays, false)
	case domain.ReportDetailedDischarges:
		s.SetInclude(schema.ColumnDischargeDate, true)
		s.SetInclude(schema.ColumnPatientDays, false)
	case domain.ReportDetailedPatientDays:
		s.SetInclude(schema.ColumnDischargeDate, true)
		s.SetInclude(schema.ColumnPatientDays, true)
	}
}

type draft struct {
	source any
	skip   bool
}

// run is the state of one report execution.
type run struct {
	id         uuid.UUID
	dispatcher *Dispatcher
	req        domain.ReportRequest
	schema     domain.ReportSchema
	window     records.Range
	now        time.Time
	loc        *time.Location
	tr         i18n.Translator
	planner    records.Planner
	drafts     []draft
}

func (r *run) add(source any) {
	r.drafts = append(r.drafts, draft{source: source})
}

// addTotal adds a pre-formatted summary row.
func (r *run) addTotal(source any) {
	r.drafts = append(r.drafts, draft{source: source, skip: true})
}

func (r *run) stillCurrent() error {
	if !r.dispatcher.isCurrent(r.id) {
		return ErrSuperseded
	}
	return nil
}

type pipeline func(ctx context.Context, r *run) error

var pipelines = map[domain.ReportKind]pipeline{
	domain.ReportDiagnostic:          diagnosticReport,
	domain.ReportProcedures:          procedureReport,
	domain.ReportDetailedProcedures:  procedureReport,
	domain.ReportAdmissions:          admissionReport,
	domain.ReportDischarges:          admissionReport,
	domain.ReportDetailedAdmissions:  admissionReport,
	domain.ReportDetailedDischarges:  admissionReport,
	domain.ReportPatientDays:         patientDaysReport,
	domain.ReportDetailedPatientDays: patientDaysReport,
	domain.ReportVisit:               visitReport,
	domain.ReportStatus:              statusReport,
}
