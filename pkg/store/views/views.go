// Package views holds the map functions of the range-queryable indexes the
// report engine reads from. Each view emits composite keys per document.
package views

import (
	"encoding/json"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/store"
	"github.com/de-tools/patient-reports/pkg/store/collate"
)

const (
	ImagingByStatus      = "imaging_by_status"
	LabByStatus          = "lab_by_status"
	ProcedureByDate      = "procedure_by_date"
	VisitByDate          = "visit_by_date"
	VisitByDischargeDate = "visit_by_discharge_date"
	PatientByStatus      = "patient_by_status"
	VisitByPatient       = "visit_by_patient"
)

// MapFunc emits zero or more index keys for a document.
type MapFunc func(doc store.Document) ([]collate.Key, error)

// Registry maps view names to their map functions.
type Registry map[string]MapFunc

// Default returns the views used by the patient reports.
func Default() Registry {
	return Registry{
		ImagingByStatus:      imagingByStatus,
		LabByStatus:          labByStatus,
		ProcedureByDate:      procedureByDate,
		VisitByDate:          visitByDate,
		VisitByDischargeDate: visitByDischargeDate,
		PatientByStatus:      patientByStatus,
		VisitByPatient:       visitByPatient,
	}
}

// Index evaluates every view against doc.
func (r Registry) Index(doc store.Document) (map[string][]collate.Key, error) {
	out := make(map[string][]collate.Key)
	for name, fn := range r {
		keys, err := fn(doc)
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			out[name] = keys
		}
	}
	return out, nil
}

// Millis is the time dimension of every key.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

func decode[T any](doc store.Document, docType string) (*T, bool, error) {
	if doc.Type != docType {
		return nil, false, nil
	}
	var v T
	if err := json.Unmarshal(doc.Body, &v); err != nil {
		return nil, false, err
	}
	return &v, true, nil
}

func status(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func imagingByStatus(doc store.Document) ([]collate.Key, error) {
	im, ok, err := decode[store.Imaging](doc, store.TypeImaging)
	if !ok || err != nil {
		return nil, err
	}
	return []collate.Key{{status(im.Status), Millis(im.ImagingDate), doc.ID}}, nil
}

func labByStatus(doc store.Document) ([]collate.Key, error) {
	lab, ok, err := decode[store.Lab](doc, store.TypeLab)
	if !ok || err != nil {
		return nil, err
	}
	return []collate.Key{{status(lab.Status), Millis(lab.LabDate), doc.ID}}, nil
}

func procedureByDate(doc store.Document) ([]collate.Key, error) {
	p, ok, err := decode[store.Procedure](doc, store.TypeProcedure)
	if !ok || err != nil {
		return nil, err
	}
	return []collate.Key{{Millis(p.ProcedureDate), doc.ID}}, nil
}

func visitByDate(doc store.Document) ([]collate.Key, error) {
	v, ok, err := decode[store.Visit](doc, store.TypeVisit)
	if !ok || err != nil {
		return nil, err
	}
	return []collate.Key{{Millis(v.StartDate), doc.ID}}, nil
}

func visitByDischargeDate(doc store.Document) ([]collate.Key, error) {
	v, ok, err := decode[store.Visit](doc, store.TypeVisit)
	if !ok || err != nil || v.EndDate == nil {
		return nil, err
	}
	return []collate.Key{{Millis(*v.EndDate), doc.ID}}, nil
}

func patientByStatus(doc store.Document) ([]collate.Key, error) {
	p, ok, err := decode[store.Patient](doc, store.TypePatient)
	if !ok || err != nil {
		return nil, err
	}
	return []collate.Key{{status(p.Status), doc.ID}}, nil
}

func visitByPatient(doc store.Document) ([]collate.Key, error) {
	v, ok, err := decode[store.Visit](doc, store.TypeVisit)
	if !ok || err != nil || v.Patient == "" {
		return nil, err
	}
	return []collate.Key{{v.Patient, Millis(v.StartDate)}}, nil
}
