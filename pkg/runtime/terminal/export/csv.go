package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

type csvReporter struct {
	writer io.Writer
}

func (c *csvReporter) Handle(report *Report) error {
	w := csv.NewWriter(c.writer)
	if err := w.Write(report.Labels()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range report.Rows {
		if err := w.Write(report.Values(row)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
