package reports

import (
	"testing"

	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	calls := 0
	upper := func(v any) string {
		calls++
		return "formatted"
	}
	s := domain.ReportSchema{Columns: []domain.ColumnSpec{
		{Key: "name", Include: true, Property: "patient.displayName"},
		{Key: "hidden", Include: false, Property: "patient.sex"},
		{Key: "total", Include: true, Property: "total", Format: upper},
		{Key: "missing", Include: true, Property: "patient.visits.nope"},
	}}
	source := map[string]any{
		"patient": &domain.Patient{ID: "p1", FirstName: "Ann", LastName: "Smith"},
		"total":   3,
	}

	t.Run("applies formatters", func(t *testing.T) {
		calls = 0
		row := Format(source, s, false, nil)

		require.Len(t, row.Cells, 3)
		assert.Equal(t, domain.Cell{Key: "name", Value: "Ann Smith"}, row.Cells[0])
		assert.Equal(t, domain.Cell{Key: "total", Value: "formatted"}, row.Cells[1])
		assert.Equal(t, domain.Cell{Key: "missing", Value: ""}, row.Cells[2])
		assert.Equal(t, 1, calls)
	})

	t.Run("skip never calls formatters", func(t *testing.T) {
		calls = 0
		row := Format(source, s, true, nil)

		v, ok := row.Get("total")
		require.True(t, ok)
		assert.Equal(t, "3", v)
		assert.Equal(t, 0, calls)
	})

	t.Run("default patient action", func(t *testing.T) {
		row := Format(source, s, true, nil)
		require.NotNil(t, row.Action)
		assert.Equal(t, domain.RowAction{Action: domain.ActionViewPatient, Model: "p1"}, *row.Action)
	})

	t.Run("explicit action wins", func(t *testing.T) {
		action := &domain.RowAction{Action: "other", Model: "x"}
		row := Format(source, s, false, action)
		assert.Same(t, action, row.Action)
	})

	t.Run("no patient no action", func(t *testing.T) {
		row := Format(map[string]any{"total": 1}, s, true, nil)
		assert.Nil(t, row.Action)

		row = Format(map[string]any{"patient": &domain.Patient{}}, s, true, nil)
		assert.Nil(t, row.Action)
	})
}
