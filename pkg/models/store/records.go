package store

import "time"

// The types below mirror the JSON bodies of stored documents. References to
// other documents are kept as ids.

type Contact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

type Diagnosis struct {
	Diagnosis          string     `json:"diagnosis"`
	Date               *time.Time `json:"date"`
	Active             bool       `json:"active"`
	SecondaryDiagnosis bool       `json:"secondaryDiagnosis"`
}

type Patient struct {
	ID                 string      `json:"_id"`
	DisplayPatientID   string      `json:"displayPatientId"`
	FirstName          string      `json:"firstName"`
	LastName           string      `json:"lastName"`
	Sex                string      `json:"sex"`
	Status             string      `json:"status"`
	DateOfBirth        *time.Time  `json:"dateOfBirth"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	ReferredBy         string      `json:"referredBy"`
	ReferredDate       *time.Time  `json:"referredDate"`
	Archived           bool        `json:"archived"`
	AdditionalContacts []Contact   `json:"additionalContacts"`
	Diagnoses          []Diagnosis `json:"diagnoses"`
}

type Visit struct {
	ID                  string      `json:"_id"`
	Patient             string      `json:"patient"`
	VisitType           string      `json:"visitType"`
	StartDate           time.Time   `json:"startDate"`
	EndDate             *time.Time  `json:"endDate"`
	OutPatient          bool        `json:"outPatient"`
	Status              string      `json:"status"`
	Examiner            string      `json:"examiner"`
	Location            string      `json:"location"`
	Clinic              string      `json:"clinic"`
	PrimaryDiagnosis    string      `json:"primaryDiagnosis"`
	AdditionalDiagnoses []Diagnosis `json:"additionalDiagnoses"`
	Procedures          []string    `json:"procedures"`
}

type Procedure struct {
	ID            string    `json:"_id"`
	Visit         string    `json:"visit"`
	Description   string    `json:"description"`
	ProcedureDate time.Time `json:"procedureDate"`
}

type Imaging struct {
	ID          string    `json:"_id"`
	Patient     string    `json:"patient"`
	ImagingType string    `json:"imagingType"`
	Status      string    `json:"status"`
	ImagingDate time.Time `json:"imagingDate"`
}

type Lab struct {
	ID      string    `json:"_id"`
	Patient string    `json:"patient"`
	LabType string    `json:"labType"`
	Status  string    `json:"status"`
	LabDate time.Time `json:"labDate"`
}
