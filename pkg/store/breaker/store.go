// Package breaker guards a documents.Store with a circuit breaker so a
// failing backend fails report runs fast instead of timing every query out.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/de-tools/patient-reports/pkg/models/store"
	"github.com/de-tools/patient-reports/pkg/store/documents"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

type Settings struct {
	Name             string        `mapstructure:"name"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

type guardedStore struct {
	next documents.Store
	cb   *gobreaker.CircuitBreaker
}

func NewStore(next documents.Store, settings Settings, logger zerolog.Logger) documents.Store {
	if settings.Name == "" {
		settings.Name = "record-store"
	}
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 1
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	threshold := settings.FailureThreshold

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("record store circuit breaker changed state")
		},
		IsSuccessful: healthy,
	})

	return &guardedStore{next: next, cb: cb}
}

// healthy reports whether err says nothing about the backend's health.
func healthy(err error) bool {
	return err == nil ||
		errors.Is(err, documents.ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

func (s *guardedStore) Query(ctx context.Context, view string, opts store.QueryOptions) ([]store.Document, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Query(ctx, view, opts)
	})
	if err != nil {
		return nil, err
	}
	return res.([]store.Document), nil
}

func (s *guardedStore) Get(ctx context.Context, id string) (*store.Document, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return res.(*store.Document), nil
}
