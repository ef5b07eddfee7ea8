package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/models/store"
)

// DecodeDocument unmarshals the body of doc, checking its type first.
func DecodeDocument[T any](doc store.Document, docType string) (T, error) {
	var v T
	if doc.Type != docType {
		return v, fmt.Errorf("document %s is a %q, expected %q", doc.ID, doc.Type, docType)
	}
	if err := json.Unmarshal(doc.Body, &v); err != nil {
		return v, fmt.Errorf("decode %s %s: %w", docType, doc.ID, err)
	}
	return v, nil
}

func MapStoreContactToDomain(c store.Contact) domain.Contact {
	return domain.Contact{
		Name:         c.Name,
		Relationship: c.Relationship,
		Phone:        c.Phone,
		Email:        c.Email,
	}
}

func MapStoreDiagnosisToDomain(d store.Diagnosis) domain.Diagnosis {
	return domain.Diagnosis{
		Diagnosis:          d.Diagnosis,
		Date:               d.Date,
		Active:             d.Active,
		SecondaryDiagnosis: d.SecondaryDiagnosis,
	}
}

func mapDiagnoses(in []store.Diagnosis) []domain.Diagnosis {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Diagnosis, 0, len(in))
	for _, d := range in {
		out = append(out, MapStoreDiagnosisToDomain(d))
	}
	return out
}

func MapStorePatientToDomain(p store.Patient) *domain.Patient {
	res := &domain.Patient{
		ID:               p.ID,
		DisplayPatientID: p.DisplayPatientID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Sex:              p.Sex,
		Status:           p.Status,
		DateOfBirth:      p.DateOfBirth,
		Email:            p.Email,
		Phone:            p.Phone,
		ReferredBy:       p.ReferredBy,
		ReferredDate:     p.ReferredDate,
		Archived:         p.Archived,
		Diagnoses:        mapDiagnoses(p.Diagnoses),
	}
	for _, c := range p.AdditionalContacts {
		res.AdditionalContacts = append(res.AdditionalContacts, MapStoreContactToDomain(c))
	}
	return res
}

// MapStoreVisitToDomain leaves the patient reference unresolved.
func MapStoreVisitToDomain(v store.Visit) *domain.Visit {
	return &domain.Visit{
		ID:                  v.ID,
		PatientID:           v.Patient,
		VisitType:           v.VisitType,
		StartDate:           v.StartDate,
		EndDate:             v.EndDate,
		OutPatient:          v.OutPatient,
		Status:              v.Status,
		Examiner:            v.Examiner,
		Location:            v.Location,
		Clinic:              v.Clinic,
		PrimaryDiagnosis:    v.PrimaryDiagnosis,
		AdditionalDiagnoses: mapDiagnoses(v.AdditionalDiagnoses),
		ProcedureIDs:        append([]string(nil), v.Procedures...),
	}
}

// MapStoreProcedureToDomain leaves the visit reference unresolved.
func MapStoreProcedureToDomain(p store.Procedure) *domain.Procedure {
	return &domain.Procedure{
		ID:            p.ID,
		VisitID:       p.Visit,
		Description:   p.Description,
		ProcedureDate: p.ProcedureDate,
	}
}

func MapStoreImagingToDomain(i store.Imaging) *domain.Imaging {
	return &domain.Imaging{
		ID:          i.ID,
		PatientID:   i.Patient,
		ImagingType: i.ImagingType,
		Status:      i.Status,
		ImagingDate: i.ImagingDate,
	}
}

func MapStoreLabToDomain(l store.Lab) *domain.Lab {
	return &domain.Lab{
		ID:        l.ID,
		PatientID: l.Patient,
		LabType:   l.LabType,
		Status:    l.Status,
		LabDate:   l.LabDate,
	}
}
