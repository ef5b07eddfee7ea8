package schema

import (
	"strings"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/services/fieldpath"
	"github.com/de-tools/patient-reports/pkg/services/i18n"
	"github.com/de-tools/patient-reports/pkg/services/records"
)

const numberFractionDigits = 2

// formatters binds column formatters to one locale.
type formatters struct {
	tr        i18n.Translator
	diagnoses records.DiagnosisProvider
}

func (f formatters) date(v any) string {
	if t, ok := v.(time.Time); ok && !t.IsZero() {
		return f.tr.FormatDate(t)
	}
	return fieldpath.Text(v)
}

func (f formatters) dateTime(v any) string {
	if t, ok := v.(time.Time); ok && !t.IsZero() {
		return f.tr.FormatDateTime(t)
	}
	return fieldpath.Text(v)
}

func (f formatters) number(v any) string {
	switch n := v.(type) {
	case int:
		return f.tr.FormatNumber(float64(n), numberFractionDigits)
	case int64:
		return f.tr.FormatNumber(float64(n), numberFractionDigits)
	case float64:
		return f.tr.FormatNumber(n, numberFractionDigits)
	}
	return fieldpath.Text(v)
}

func (f formatters) optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return f.date(*t)
}

// listToString renders "<desc> ( <date>)" items, one per line.
func (f formatters) listToString(items []string) string {
	return strings.Join(items, ",\n")
}

func (f formatters) diagnosisList(v any) string {
	diagnoses, ok := v.([]domain.Diagnosis)
	if !ok {
		return ""
	}
	items := make([]string, 0, len(diagnoses))
	for _, d := range diagnoses {
		items = append(items, d.Diagnosis+" ( "+f.optionalDate(d.Date)+")")
	}
	return f.listToString(items)
}

func (f formatters) procedureList(v any) string {
	procedures, ok := v.([]*domain.Procedure)
	if !ok {
		return ""
	}
	items := make([]string, 0, len(procedures))
	for _, p := range procedures {
		items = append(items, p.Description+" ( "+f.date(p.ProcedureDate)+")")
	}
	return f.listToString(items)
}

func (f formatters) primaryDiagnosis(v any) string {
	p, ok := v.(*domain.Patient)
	if !ok {
		return ""
	}
	return f.diagnosisList(f.diagnoses.Diagnoses(p, true, false))
}

func (f formatters) secondaryDiagnosis(v any) string {
	p, ok := v.(*domain.Patient)
	if !ok {
		return ""
	}
	return f.diagnosisList(f.diagnoses.Diagnoses(p, true, true))
}

// contactList renders the primary phone and email followed by every
// additional contact, separated by ";\n".
func (f formatters) contactList(v any) string {
	p, ok := v.(*domain.Patient)
	if !ok {
		return ""
	}

	var list []string
	list = appendContact(list, "Primary: ", p.Phone, p.Email)
	for _, c := range p.AdditionalContacts {
		prefix := ""
		if c.Name != "" && c.Relationship != "" {
			prefix = c.Name + " - " + c.Relationship + ": "
		}
		list = appendContact(list, prefix, c.Phone, c.Email)
	}
	return strings.Join(list, ";\n")
}

func appendContact(list []string, prefix, phone, email string) []string {
	var parts []string
	if phone != "" {
		parts = append(parts, phone)
	}
	if email != "" {
		parts = append(parts, email)
	}
	if len(parts) == 0 {
		return list
	}
	return append(list, prefix+strings.Join(parts, ", "))
}
