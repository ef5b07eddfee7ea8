package domain

import (
	"strings"
	"time"
)

type Contact struct {
	Name         string
	Relationship string
	Phone        string
	Email        string
}

type Diagnosis struct {
	Diagnosis          string
	Date               *time.Time
	Active             bool
	SecondaryDiagnosis bool
}

func (d Diagnosis) Field(name string) (any, bool) {
	switch name {
	case "diagnosis":
		return d.Diagnosis, true
	case "date":
		return optionalTime(d.Date), true
	case "active":
		return d.Active, true
	case "secondaryDiagnosis":
		return d.SecondaryDiagnosis, true
	}
	return nil, false
}

type Patient struct {
	ID                 string
	DisplayPatientID   string
	FirstName          string
	LastName           string
	Sex                string
	Status             string
	DateOfBirth        *time.Time
	Email              string
	Phone              string
	ReferredBy         string
	ReferredDate       *time.Time
	Archived           bool
	AdditionalContacts []Contact
	Diagnoses          []Diagnosis

	// Visits is only populated for reports that resolve visit history.
	Visits []*Visit
}

func (p *Patient) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age in whole years at the given instant; -1 when the birth date is unknown.
func (p *Patient) Age(at time.Time) int {
	if p.DateOfBirth == nil {
		return -1
	}
	dob := *p.DateOfBirth
	years := at.Year() - dob.Year()
	if at.YearDay() < dob.YearDay() {
		years--
	}
	return years
}

func (p *Patient) Field(name string) (any, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "displayPatientId":
		return p.DisplayPatientID, true
	case "displayName":
		return p.DisplayName(), true
	case "firstName":
		return p.FirstName, true
	case "lastName":
		return p.LastName, true
	case "sex":
		return p.Sex, true
	case "status":
		return p.Status, true
	case "dateOfBirth":
		return optionalTime(p.DateOfBirth), true
	case "age":
		if age := p.Age(time.Now()); age >= 0 {
			return age, true
		}
		return nil, true
	case "email":
		return p.Email, true
	case "phone":
		return p.Phone, true
	case "referredBy":
		return p.ReferredBy, true
	case "referredDate":
		return optionalTime(p.ReferredDate), true
	case "archived":
		return p.Archived, true
	case "additionalContacts":
		return p.AdditionalContacts, true
	case "diagnoses":
		return p.Diagnoses, true
	case "visits":
		return p.Visits, true
	}
	return nil, false
}

type Visit struct {
	ID                  string
	PatientID           string
	Patient             *Patient
	VisitType           string
	StartDate           time.Time
	EndDate             *time.Time
	OutPatient          bool
	Status              string
	Examiner            string
	Location            string
	Clinic              string
	PrimaryDiagnosis    string
	AdditionalDiagnoses []Diagnosis
	ProcedureIDs        []string

	// ResolvedProcedures is only populated when the procedures column is shown.
	ResolvedProcedures []*Procedure
}

// DiagnosisList holds the primary diagnosis followed by additional ones.
func (v *Visit) DiagnosisList() []string {
	var list []string
	if v.PrimaryDiagnosis != "" {
		list = append(list, v.PrimaryDiagnosis)
	}
	for _, d := range v.AdditionalDiagnoses {
		if d.Diagnosis != "" {
			list = append(list, d.Diagnosis)
		}
	}
	return list
}

// InPatient reports whether the visit is an admitted stay with a status.
func (v *Visit) InPatient() bool {
	return !v.OutPatient && v.Status != ""
}

func (v *Visit) Field(name string) (any, bool) {
	switch name {
	case "id":
		return v.ID, true
	case "patient":
		if v.Patient == nil {
			return nil, true
		}
		return v.Patient, true
	case "visitType":
		return v.VisitType, true
	case "visitDate", "startDate":
		return v.StartDate, true
	case "endDate":
		return optionalTime(v.EndDate), true
	case "outPatient":
		return v.OutPatient, true
	case "status":
		return v.Status, true
	case "examiner":
		return v.Examiner, true
	case "location":
		return v.Location, true
	case "clinic":
		return v.Clinic, true
	case "primaryDiagnosis":
		return v.PrimaryDiagnosis, true
	case "additionalDiagnoses":
		return v.AdditionalDiagnoses, true
	case "diagnosisList":
		return v.DiagnosisList(), true
	case "resolvedProcedures":
		return v.ResolvedProcedures, true
	}
	return nil, false
}

type Procedure struct {
	ID            string
	VisitID       string
	Visit         *Visit
	Description   string
	ProcedureDate time.Time
}

// Patient follows the visit reference.
func (p *Procedure) Patient() *Patient {
	if p.Visit == nil {
		return nil
	}
	return p.Visit.Patient
}

func (p *Procedure) Field(name string) (any, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "visit":
		if p.Visit == nil {
			return nil, true
		}
		return p.Visit, true
	case "patient":
		if pt := p.Patient(); pt != nil {
			return pt, true
		}
		return nil, true
	case "description":
		return p.Description, true
	case "procedureDate":
		return p.ProcedureDate, true
	}
	return nil, false
}

type Imaging struct {
	ID          string
	PatientID   string
	ImagingType string
	Status      string
	ImagingDate time.Time
}

func (i *Imaging) Field(name string) (any, bool) {
	switch name {
	case "id":
		return i.ID, true
	case "imagingType":
		return i.ImagingType, true
	case "status":
		return i.Status, true
	case "imagingDate":
		return i.ImagingDate, true
	}
	return nil, false
}

type Lab struct {
	ID        string
	PatientID string
	LabType   string
	Status    string
	LabDate   time.Time
}

func (l *Lab) Field(name string) (any, bool) {
	switch name {
	case "id":
		return l.ID, true
	case "labType":
		return l.LabType, true
	case "status":
		return l.Status, true
	case "labDate":
		return l.LabDate, true
	}
	return nil, false
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
