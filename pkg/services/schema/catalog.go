// Package schema defines the column layout of every report per locale.
package schema

import (
	"fmt"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/services/i18n"
	"github.com/de-tools/patient-reports/pkg/services/records"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	Admission        = "admission"
	AdmissionDetail  = "admissionDetail"
	Diagnostic       = "diagnostic"
	ProcedureDetail  = "procedureDetail"
	Visit            = "visit"
	Status           = "status"
	PatientDaysTotal = "patientDaysTotal"

	DefaultCacheSize = 64
)

// Column keys the report pipelines toggle or write marker rows into.
const (
	ColumnID            = "id"
	ColumnSex           = "sex"
	ColumnTotal         = "total"
	ColumnDischargeDate = "dischargeDate"
	ColumnPatientDays   = "patientDays"
	ColumnProcedure     = "procedure"
	ColumnProcedures    = "procedures"
	ColumnVisitDate     = "visitDate"
)

type ReportType struct {
	Kind  domain.ReportKind
	Title string
}

// Catalog hands out report schemas. Returned schemas are copies; callers
// may toggle columns without affecting other runs.
type Catalog interface {
	Schema(locale, name string) (domain.ReportSchema, error)
	ReportTypes(locale string) ([]ReportType, error)
}

type schemaCatalog struct {
	labels    i18n.Catalog
	diagnoses records.DiagnosisProvider
	cache     *lru.Cache[string, domain.ReportSchema]
}

func NewCatalog(labels i18n.Catalog, diagnoses records.DiagnosisProvider, size int) (Catalog, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if diagnoses == nil {
		diagnoses = records.NewDiagnosisProvider()
	}
	cache, err := lru.New[string, domain.ReportSchema](size)
	if err != nil {
		return nil, fmt.Errorf("create schema cache: %w", err)
	}
	return &schemaCatalog{
		labels:    labels,
		diagnoses: diagnoses,
		cache:     cache,
	}, nil
}

func (c *schemaCatalog) Schema(locale, name string) (domain.ReportSchema, error) {
	cacheKey := locale + "/" + name
	if s, ok := c.cache.Get(cacheKey); ok {
		return s.Clone(), nil
	}

	tr, err := c.labels.Translator(locale)
	if err != nil {
		return domain.ReportSchema{}, err
	}
	build, ok := builders[name]
	if !ok {
		return domain.ReportSchema{}, fmt.Errorf("unknown report schema %q", name)
	}

	s := build(tr, formatters{tr: tr, diagnoses: c.diagnoses})
	s.Name = name
	c.cache.Add(cacheKey, s)
	return s.Clone(), nil
}

var titleKeys = map[domain.ReportKind]string{
	domain.ReportDetailedAdmissions:  "patients.titles.admissionsDetail",
	domain.ReportAdmissions:          "patients.titles.admissionsSummary",
	domain.ReportDiagnostic:          "patients.titles.diagnosticTesting",
	domain.ReportDetailedDischarges:  "patients.titles.dischargesDetail",
	domain.ReportDischarges:          "patients.titles.dischargesSummary",
	domain.ReportDetailedProcedures:  "patients.titles.proceduresDetail",
	domain.ReportProcedures:          "patients.titles.proceduresSummary",
	domain.ReportStatus:              "patients.titles.patientStatus",
	domain.ReportPatientDays:         "patients.titles.totalPatientDays",
	domain.ReportDetailedPatientDays: "patients.titles.totalPatientDaysDetailed",
	domain.ReportVisit:               "patients.titles.visit",
}

func (c *schemaCatalog) ReportTypes(locale string) ([]ReportType, error) {
	tr, err := c.labels.Translator(locale)
	if err != nil {
		return nil, err
	}
	types := make([]ReportType, 0, len(domain.ReportKinds))
	for _, kind := range domain.ReportKinds {
		types = append(types, ReportType{Kind: kind, Title: tr.T(titleKeys[kind])})
	}
	return types, nil
}

// SchemaFor names the schema a report kind renders with.
func SchemaFor(kind domain.ReportKind) string {
	switch kind {
	case domain.ReportAdmissions, domain.ReportDischarges:
		return Admission
	case domain.ReportDetailedAdmissions, domain.ReportDetailedDischarges, domain.ReportDetailedPatientDays:
		return AdmissionDetail
	case domain.ReportDiagnostic, domain.ReportProcedures:
		return Diagnostic
	case domain.ReportDetailedProcedures:
		return ProcedureDetail
	case domain.ReportPatientDays:
		return PatientDaysTotal
	case domain.ReportStatus:
		return Status
	}
	return Visit
}

type builder func(tr i18n.Translator, f formatters) domain.ReportSchema

var builders = map[string]builder{
	Admission:        admission,
	AdmissionDetail:  admissionDetail,
	Diagnostic:       diagnostic,
	ProcedureDetail:  procedureDetail,
	Visit:            visit,
	Status:           status,
	PatientDaysTotal: patientDaysTotal,
}

func admission(tr i18n.Translator, f formatters) domain.ReportSchema {
	return domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: ColumnSex, Label: tr.T("labels.sex"), Include: true, Property: "sex"},
		{Key: ColumnTotal, Label: tr.T("labels.total"), Include: true, Property: "total", Format: f.number},
	}}
}

func admissionDetail(tr i18n.Translator, f formatters) domain.ReportSchema {
	return domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: ColumnID, Label: tr.T("labels.id"), Include: true, Property: "patientId"},
		{Key: "name", Label: tr.T("labels.name"), Include: true, Property: "patientName"},
		{Key: "admissionDate", Label: tr.T("patients.labels.admissionDate"), Include: true, Property: "admissionDate", Format: f.dateTime},
		{Key: ColumnDischargeDate, Label: tr.T("patients.labels.dischargeDate"), Property: "dischargeDate", Format: f.dateTime},
		{Key: ColumnPatientDays, Label: tr.T("patients.labels.patientDays"), Property: "patientDays", Format: f.number},
	}}
}

func diagnostic(tr i18n.Translator, f formatters) domain.ReportSchema {
	return domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: "type", Label: tr.T("labels.type"), Include: true, Property: "type"},
		{Key: ColumnTotal, Label: tr.T("labels.total"), Include: true, Property: "total", Format: f.number},
	}}
}

func procedureDetail(tr i18n.Translator, f formatters) domain.ReportSchema {
	return domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: ColumnID, Label: tr.T("labels.id"), Include: true, Property: "patient.displayPatientId"},
		{Key: "name", Label: tr.T("labels.name"), Include: true, Property: "patient.displayName"},
		{Key: ColumnProcedure, Label: tr.T("visits.labels.procedure"), Include: true, Property: "procedure"},
		{Key: "procedureDate", Label: tr.T("visits.labels.procedureDate"), Include: true, Property: "procedureDate", Format: f.dateTime},
	}}
}

func visit(tr i18n.Translator, f formatters) domain.ReportSchema {
	return domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: ColumnVisitDate, Label: tr.T("visits.labels.visitDate"), Include: true, Property: "visitDate", Format: f.dateTime},
		{Key: "visitType", Label: tr.T("visits.labels.visitType"), Include: true, Property: "visitType"},
		{Key: "visitLocation", Label: tr.T("labels.location"), Property: "location"},
		{Key: "examiner", Label: tr.T("visits.labels.examiner"), Include: true, Property: "examiner"},
		{Key: "name", Label: tr.T("labels.name"), Include: true, Property: "patient.displayName"},
		{Key: ColumnID, Label: tr.T("labels.id"), Include: true, Property: "patient.displayPatientId"},
		{Key: ColumnSex, Label: tr.T("patients.labels.sex"), Include: true, Property: "patient.sex"},
		{Key: "dateOfBirth", Label: tr.T("patients.labels.dateOfBirth"), Include: true, Property: "patient.dateOfBirth", Format: f.date},
		{Key: "age", Label: tr.T("labels.age"), Property: "patient.age"},
		{Key: "primaryDiagnosis", Label: tr.T("patients.labels.primaryDiagnosis"), Property: "primaryDiagnosis"},
		{Key: "secondaryDiagnoses", Label: tr.T("patients.labels.secondaryDiagnosis"), Property: "additionalDiagnoses", Format: f.diagnosisList},
		{Key: ColumnProcedures, Label: tr.T("labels.procedures"), Property: "resolvedProcedures", Format: f.procedureList},
		{Key: "contacts", Label: tr.T("patients.labels.contacts"), Property: "patient", Format: f.contactList},
		{Key: "referredBy", Label: tr.T("patients.labels.referredBy"), Property: "patient.referredBy"},
		{Key: "referredDate", Label: tr.T("patients.labels.referredDate"), Property: "patient.referredDate", Format: f.date},
	}}
}

func status(tr i18n.Translator, f formatters) domain.ReportSchema {
	return domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: ColumnID, Label: tr.T("labels.id"), Include: true, Property: "patient.displayPatientId"},
		{Key: "name", Label: tr.T("labels.name"), Include: true, Property: "patient.displayName"},
		{Key: "status", Label: tr.T("labels.status"), Include: true, Property: "patient.status"},
		{Key: "primaryDiagnosis", Label: tr.T("patients.labels.primaryDiagnosis"), Include: true, Property: "patient", Format: f.primaryDiagnosis},
		{Key: "secondaryDiagnoses", Label: tr.T("patients.labels.secondaryDiagnosis"), Include: true, Property: "patient", Format: f.secondaryDiagnosis},
	}}
}

func patientDaysTotal(tr i18n.Translator, f formatters) domain.ReportSchema {
	return domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: ColumnTotal, Label: tr.T("labels.total"), Include: true, Property: "total", Format: f.number},
	}}
}
