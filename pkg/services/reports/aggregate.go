package reports

import (
	"sort"
	"strings"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/services/fieldpath"
)

// TotalByType groups records by category. Matching ignores case and
// surrounding whitespace, and the first trimmed spelling seen becomes the
// label. Records without a category are left out. The result is sorted by
// label and ends with a grand total entry carrying no records.
func TotalByType[T any](records []T, category func(T) string, grandTotalLabel string) []domain.TypeTotal[T] {
	var types []domain.TypeTotal[T]
	index := make(map[string]int)
	total := 0

	for _, rec := range records {
		label := strings.TrimSpace(category(rec))
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		i, ok := index[key]
		if !ok {
			i = len(types)
			index[key] = i
			types = append(types, domain.TypeTotal[T]{Type: label})
		}
		types[i].Total++
		types[i].Records = append(types[i].Records, rec)
		total++
	}

	sort.SliceStable(types, func(i, j int) bool {
		return types[i].Type < types[j].Type
	})
	return append(types, domain.TypeTotal[T]{Type: grandTotalLabel, Total: total})
}

// CategoryAt reads the category of a record from a dot path.
func CategoryAt[T any](path string) func(T) string {
	return func(rec T) string {
		return fieldpath.Text(fieldpath.Resolve(rec, path))
	}
}
