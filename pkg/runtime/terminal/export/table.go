package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode/utf8"
)

type TableConfig struct {
	MinWidth int
	MaxWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MinWidth: 4,
		MaxWidth: 40,
	}
}

type TableReporter struct {
	writer io.Writer
	config TableConfig
}

func NewTableReporter(writer io.Writer) *TableReporter {
	return &TableReporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const tableTemplate = `
{{.Title}}
{{with .Period}}Period: {{.Start.Format "2006-01-02"}} to {{.End.Format "2006-01-02"}} ({{.Duration}} days)
{{end}}
{{separator}}
{{formatRow .Labels}}
{{separator}}
{{range .Rows}}{{formatRow (values .)}}
{{end}}{{separator}}
`

func (c *TableReporter) Handle(report *Report) error {
	widths := c.widths(report)

	funcMap := template.FuncMap{
		"values": report.Values,
		"formatRow": func(cells []string) string {
			var b strings.Builder
			b.WriteString("|")
			for i, cell := range cells {
				cell = fit(flatten(cell), widths[i])
				fmt.Fprintf(&b, " %s%s |", cell, strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
			}
			return b.String()
		},
		"separator": func() string {
			var b strings.Builder
			b.WriteString("+")
			for _, w := range widths {
				b.WriteString(strings.Repeat("-", w+2))
				b.WriteString("+")
			}
			return b.String()
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(tableTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, report)
}

func (c *TableReporter) widths(report *Report) []int {
	widths := make([]int, len(report.Columns))
	measure := func(cells []string) {
		for i, cell := range cells {
			if n := utf8.RuneCountInString(flatten(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(report.Labels())
	for _, row := range report.Rows {
		measure(report.Values(row))
	}
	for i := range widths {
		widths[i] = max(c.config.MinWidth, min(widths[i], c.config.MaxWidth))
	}
	return widths
}

// flatten puts multi-line list cells on one line.
func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func fit(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
