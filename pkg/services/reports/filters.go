package reports

import (
	"strings"

	"github.com/de-tools/patient-reports/pkg/models/domain"
)

// visitFilters are exact match filters over visit fields.
var visitFilters = map[string]func(*domain.Visit) string{
	domain.FilterExaminer:         func(v *domain.Visit) string { return v.Examiner },
	domain.FilterVisitType:        func(v *domain.Visit) string { return v.VisitType },
	domain.FilterLocation:         func(v *domain.Visit) string { return v.Location },
	domain.FilterClinic:           func(v *domain.Visit) string { return v.Clinic },
	domain.FilterPrimaryDiagnosis: func(v *domain.Visit) string { return v.PrimaryDiagnosis },
}

// filterVisits applies the request filters. Empty values do not constrain.
func filterVisits(visits []*domain.Visit, req domain.ReportRequest) []*domain.Visit {
	out := make([]*domain.Visit, 0, len(visits))
	for _, v := range visits {
		if matchesVisit(v, req) {
			out = append(out, v)
		}
	}
	return out
}

func matchesVisit(v *domain.Visit, req domain.ReportRequest) bool {
	for key, field := range visitFilters {
		if want := req.Filter(key); want != "" && field(v) != want {
			return false
		}
	}
	if like := req.Filter(domain.FilterDiagnosis); like != "" {
		return anyLike(v.DiagnosisList(), like)
	}
	return true
}

func anyLike(values []string, like string) bool {
	like = strings.ToLower(like)
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), like) {
			return true
		}
	}
	return false
}
