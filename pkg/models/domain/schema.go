package domain

// FormatFunc renders a resolved column value as display text.
type FormatFunc func(value any) string

type ColumnSpec struct {
	Key      string
	Label    string
	Include  bool
	Property string
	Format   FormatFunc
}

// ReportSchema is an ordered column list; order is display order.
type ReportSchema struct {
	Name    string
	Columns []ColumnSpec
}

func (s ReportSchema) Column(key string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

func (s ReportSchema) Included() []ColumnSpec {
	cols := make([]ColumnSpec, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Include {
			cols = append(cols, c)
		}
	}
	return cols
}

// IsIncluded is false for unknown keys.
func (s ReportSchema) IsIncluded(key string) bool {
	c, ok := s.Column(key)
	return ok && c.Include
}

// Clone copies the column list so include flags can change per run.
func (s ReportSchema) Clone() ReportSchema {
	return ReportSchema{
		Name:    s.Name,
		Columns: append([]ColumnSpec(nil), s.Columns...),
	}
}

// SetInclude toggles a column; unknown keys are ignored.
func (s *ReportSchema) SetInclude(key string, include bool) {
	for i := range s.Columns {
		if s.Columns[i].Key == key {
			s.Columns[i].Include = include
			return
		}
	}
}
