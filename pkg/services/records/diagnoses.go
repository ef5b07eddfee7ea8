package records

import "github.com/de-tools/patient-reports/pkg/models/domain"

// DiagnosisProvider selects primary or secondary diagnoses of a patient.
type DiagnosisProvider interface {
	Diagnoses(patient *domain.Patient, activeOnly, secondary bool) []domain.Diagnosis
}

type diagnosisProvider struct{}

func NewDiagnosisProvider() DiagnosisProvider {
	return diagnosisProvider{}
}

func (diagnosisProvider) Diagnoses(patient *domain.Patient, activeOnly, secondary bool) []domain.Diagnosis {
	if patient == nil {
		return nil
	}
	var out []domain.Diagnosis
	for _, d := range patient.Diagnoses {
		if activeOnly && !d.Active {
			continue
		}
		if d.SecondaryDiagnosis != secondary {
			continue
		}
		out = append(out, d)
	}
	return out
}
