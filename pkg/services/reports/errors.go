package reports

import (
	"errors"
	"fmt"
)

var (
	// ErrSuperseded is returned by a run that a newer run replaced.
	ErrSuperseded = errors.New("report run superseded")
	ErrForbidden  = errors.New("not allowed to run patient reports")
)

// ValidationError rejects a request before any run starts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// QueryError is a store failure attributed to the pipeline stage that hit it.
type QueryError struct {
	Stage string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("Error in %s: %v", e.Stage, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func queryFailed(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Stage: stage, Err: err}
}
