package reports

import (
	"sync"

	"github.com/de-tools/patient-reports/pkg/models/domain"
)

// Sink receives the rows of a finished run. Its methods run while the
// dispatcher holds its lock and must not call back into the Dispatcher.
type Sink interface {
	Reset()
	Append(rows ...domain.ReportRow)
	Finish(schema domain.ReportSchema)
}

// Callbacks are fired at most once per run. Nil callbacks are skipped.
type Callbacks struct {
	OnProgressStart func()
	OnError         func(message string)
}

func (c Callbacks) progressStart() {
	if c.OnProgressStart != nil {
		c.OnProgressStart()
	}
}

func (c Callbacks) fail(message string) {
	if c.OnError != nil {
		c.OnError(message)
	}
}

// Buffer is an in-memory Sink.
type Buffer struct {
	mu       sync.Mutex
	rows     []domain.ReportRow
	schema   domain.ReportSchema
	finished bool
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = nil
	b.schema = domain.ReportSchema{}
	b.finished = false
}

func (b *Buffer) Append(rows ...domain.ReportRow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = append(b.rows, rows...)
}

func (b *Buffer) Finish(schema domain.ReportSchema) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.schema = schema
	b.finished = true
}

func (b *Buffer) Rows() []domain.ReportRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.ReportRow(nil), b.rows...)
}

func (b *Buffer) Schema() domain.ReportSchema {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.schema
}

func (b *Buffer) Finished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finished
}
