package records

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/patient-reports/pkg/adapters"
	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/models/store"
	"github.com/de-tools/patient-reports/pkg/store/collate"
	"github.com/de-tools/patient-reports/pkg/store/documents"
	"github.com/de-tools/patient-reports/pkg/store/views"
	"github.com/rs/zerolog"
)

const (
	DefaultConcurrency = 8
	completedStatus    = "Completed"
)

// Range is the date window of a query. Start is inclusive; End, when set, is
// the last instant included and is usually an end of day.
type Range struct {
	Start time.Time
	End   *time.Time
}

type Diagnostics struct {
	Imaging []*domain.Imaging
	Labs    []*domain.Lab
}

// VisitProvider looks up the visit history of a patient.
type VisitProvider interface {
	PatientVisits(ctx context.Context, patient *domain.Patient) ([]*domain.Visit, error)
}

// Planner turns report parameters into view range queries and returns the
// matching records in index order with their references resolved.
type Planner interface {
	VisitProvider

	// Diagnostics queries completed imaging and then completed labs. Either
	// failure fails the call.
	Diagnostics(ctx context.Context, r Range) (Diagnostics, error)
	Procedures(ctx context.Context, r Range) ([]*domain.Procedure, error)
	Visits(ctx context.Context, r Range, discharge bool) ([]*domain.Visit, error)
	// PatientsByStatus returns every patient when status is empty.
	PatientsByStatus(ctx context.Context, status string) ([]*domain.Patient, error)

	// VisitProcedures fills ResolvedProcedures of every visit.
	VisitProcedures(ctx context.Context, visits []*domain.Visit) error
	// PatientHistories fills Visits of every patient.
	PatientHistories(ctx context.Context, patients []*domain.Patient) error
}

type Settings struct {
	Concurrency int
}

type planner struct {
	store       documents.Store
	concurrency int
}

func NewPlanner(s documents.Store, settings Settings) Planner {
	if settings.Concurrency <= 0 {
		settings.Concurrency = DefaultConcurrency
	}
	return &planner{
		store:       s,
		concurrency: settings.Concurrency,
	}
}

// timeBounds builds [start, null] .. [end, MAX, ...] with one trailing MAX
// per remaining key dimension. An open end leaves the range open.
func timeBounds(prefix collate.Key, r Range, trailing int) store.QueryOptions {
	opts := store.QueryOptions{
		StartKey: append(append(collate.Key{}, prefix...), views.Millis(r.Start), nil),
	}
	if r.End != nil {
		end := append(append(collate.Key{}, prefix...), views.Millis(*r.End))
		for i := 0; i < trailing; i++ {
			end = append(end, collate.MaxValue)
		}
		opts.EndKey = end
	}
	return opts
}

func (p *planner) query(ctx context.Context, view string, opts store.QueryOptions) ([]store.Document, error) {
	docs, err := p.store.Query(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", view, err)
	}
	zerolog.Ctx(ctx).Debug().Str("view", view).Int("rows", len(docs)).Msg("view queried")
	return docs, nil
}

func (p *planner) Diagnostics(ctx context.Context, r Range) (Diagnostics, error) {
	opts := timeBounds(collate.Key{completedStatus}, r, 1)
	if r.End == nil {
		// the status dimension must stay bound without an end date
		opts.EndKey = collate.Key{completedStatus, collate.MaxValue}
	}

	var res Diagnostics
	imaging, err := p.query(ctx, views.ImagingByStatus, opts)
	if err != nil {
		return res, err
	}
	for _, doc := range imaging {
		im, err := adapters.DecodeDocument[store.Imaging](doc, store.TypeImaging)
		if err != nil {
			return res, err
		}
		res.Imaging = append(res.Imaging, adapters.MapStoreImagingToDomain(im))
	}

	labs, err := p.query(ctx, views.LabByStatus, opts)
	if err != nil {
		return res, err
	}
	for _, doc := range labs {
		lab, err := adapters.DecodeDocument[store.Lab](doc, store.TypeLab)
		if err != nil {
			return res, err
		}
		res.Labs = append(res.Labs, adapters.MapStoreLabToDomain(lab))
	}
	return res, nil
}

func (p *planner) Procedures(ctx context.Context, r Range) ([]*domain.Procedure, error) {
	docs, err := p.query(ctx, views.ProcedureByDate, timeBounds(nil, r, 1))
	if err != nil {
		return nil, err
	}

	procedures := make([]*domain.Procedure, 0, len(docs))
	visitIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		sp, err := adapters.DecodeDocument[store.Procedure](doc, store.TypeProcedure)
		if err != nil {
			return nil, err
		}
		procedures = append(procedures, adapters.MapStoreProcedureToDomain(sp))
		visitIDs = append(visitIDs, sp.Visit)
	}

	visits, err := p.visitsByID(ctx, visitIDs)
	if err != nil {
		return nil, err
	}
	if err := p.attachPatients(ctx, valuesOf(visits)); err != nil {
		return nil, err
	}
	for _, proc := range procedures {
		proc.Visit = visits[proc.VisitID]
	}
	return procedures, nil
}

func (p *planner) Visits(ctx context.Context, r Range, discharge bool) ([]*domain.Visit, error) {
	view, opts := views.VisitByDate, timeBounds(nil, r, 2)
	if discharge {
		view, opts = views.VisitByDischargeDate, timeBounds(nil, r, 1)
	}

	docs, err := p.query(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	visits, err := decodeVisits(docs)
	if err != nil {
		return nil, err
	}
	if err := p.attachPatients(ctx, visits); err != nil {
		return nil, err
	}
	return visits, nil
}

func (p *planner) PatientsByStatus(ctx context.Context, status string) ([]*domain.Patient, error) {
	opts := store.QueryOptions{
		StartKey: collate.Key{nil},
		EndKey:   collate.Key{collate.MaxValue},
	}
	if status != "" {
		opts = store.QueryOptions{
			StartKey: collate.Key{status, nil},
			EndKey:   collate.Key{status, collate.MaxValue},
		}
	}

	docs, err := p.query(ctx, views.PatientByStatus, opts)
	if err != nil {
		return nil, err
	}
	patients := make([]*domain.Patient, 0, len(docs))
	for _, doc := range docs {
		sp, err := adapters.DecodeDocument[store.Patient](doc, store.TypePatient)
		if err != nil {
			return nil, err
		}
		patients = append(patients, adapters.MapStorePatientToDomain(sp))
	}
	return patients, nil
}

func (p *planner) PatientVisits(ctx context.Context, patient *domain.Patient) ([]*domain.Visit, error) {
	docs, err := p.query(ctx, views.VisitByPatient, store.QueryOptions{
		StartKey: collate.Key{patient.ID, nil},
		EndKey:   collate.Key{patient.ID, collate.MaxValue},
	})
	if err != nil {
		return nil, err
	}
	visits, err := decodeVisits(docs)
	if err != nil {
		return nil, err
	}
	for _, v := range visits {
		v.Patient = patient
	}
	return visits, nil
}

func (p *planner) PatientHistories(ctx context.Context, patients []*domain.Patient) error {
	byID := make(map[string]*domain.Patient, len(patients))
	ids := make([]string, 0, len(patients))
	for _, pt := range patients {
		if _, seen := byID[pt.ID]; !seen {
			ids = append(ids, pt.ID)
		}
		byID[pt.ID] = pt
	}

	histories, err := fanOut(ctx, p.concurrency, ids, func(ctx context.Context, id string) ([]*domain.Visit, error) {
		return p.PatientVisits(ctx, byID[id])
	})
	if err != nil {
		return err
	}
	for _, pt := range patients {
		pt.Visits = histories[pt.ID]
	}
	return nil
}

func (p *planner) VisitProcedures(ctx context.Context, visits []*domain.Visit) error {
	var ids []string
	for _, v := range visits {
		ids = append(ids, v.ProcedureIDs...)
	}

	docs, err := p.documentsByID(ctx, ids)
	if err != nil {
		return err
	}
	for _, v := range visits {
		resolved := make([]*domain.Procedure, 0, len(v.ProcedureIDs))
		for _, id := range v.ProcedureIDs {
			doc, ok := docs[id]
			if !ok {
				continue
			}
			sp, err := adapters.DecodeDocument[store.Procedure](*doc, store.TypeProcedure)
			if err != nil {
				return err
			}
			proc := adapters.MapStoreProcedureToDomain(sp)
			proc.Visit = v
			resolved = append(resolved, proc)
		}
		v.ResolvedProcedures = resolved
	}
	return nil
}

// documentsByID fetches the distinct non-empty ids concurrently. Ids whose
// document does not exist are left out of the result.
func (p *planner) documentsByID(ctx context.Context, ids []string) (map[string]*store.Document, error) {
	found, err := fanOut(ctx, p.concurrency, distinct(ids), func(ctx context.Context, id string) (*store.Document, error) {
		return p.store.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	for id, doc := range found {
		if doc == nil {
			delete(found, id)
		}
	}
	return found, nil
}

func (p *planner) visitsByID(ctx context.Context, ids []string) (map[string]*domain.Visit, error) {
	docs, err := p.documentsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	visits := make(map[string]*domain.Visit, len(docs))
	for id, doc := range docs {
		sv, err := adapters.DecodeDocument[store.Visit](*doc, store.TypeVisit)
		if err != nil {
			return nil, err
		}
		visits[id] = adapters.MapStoreVisitToDomain(sv)
	}
	return visits, nil
}

// attachPatients resolves the patient of every visit. A visit whose patient
// no longer exists keeps a nil Patient.
func (p *planner) attachPatients(ctx context.Context, visits []*domain.Visit) error {
	ids := make([]string, 0, len(visits))
	for _, v := range visits {
		ids = append(ids, v.PatientID)
	}

	docs, err := p.documentsByID(ctx, ids)
	if err != nil {
		return err
	}
	patients := make(map[string]*domain.Patient, len(docs))
	for id, doc := range docs {
		sp, err := adapters.DecodeDocument[store.Patient](*doc, store.TypePatient)
		if err != nil {
			return err
		}
		patients[id] = adapters.MapStorePatientToDomain(sp)
	}
	for _, v := range visits {
		v.Patient = patients[v.PatientID]
	}
	return nil
}

func decodeVisits(docs []store.Document) ([]*domain.Visit, error) {
	visits := make([]*domain.Visit, 0, len(docs))
	for _, doc := range docs {
		sv, err := adapters.DecodeDocument[store.Visit](doc, store.TypeVisit)
		if err != nil {
			return nil, err
		}
		visits = append(visits, adapters.MapStoreVisitToDomain(sv))
	}
	return visits, nil
}

func valuesOf[K comparable, V any](m map[K]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
