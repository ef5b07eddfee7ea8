// Package app assembles the report engine from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/patient-reports/pkg/services/config"
	"github.com/de-tools/patient-reports/pkg/services/i18n"
	"github.com/de-tools/patient-reports/pkg/services/records"
	"github.com/de-tools/patient-reports/pkg/services/reports"
	"github.com/de-tools/patient-reports/pkg/services/schema"
	"github.com/de-tools/patient-reports/pkg/store/breaker"
	"github.com/de-tools/patient-reports/pkg/store/documents"
	"github.com/de-tools/patient-reports/pkg/store/memory"
	"github.com/de-tools/patient-reports/pkg/store/sqlite"
	sqliterecords "github.com/de-tools/patient-reports/pkg/store/sqlite/records"
	"github.com/de-tools/patient-reports/pkg/store/views"
	"github.com/rs/zerolog"
)

type App struct {
	Store   documents.Store
	Writer  documents.Writer
	Planner records.Planner
	Labels  i18n.Catalog
	Schemas schema.Catalog
	Auth    reports.Authorizer

	settings reports.Settings
	db       *sql.DB
}

// New wires stores, planner and catalogs. The read side of the store is
// guarded by a circuit breaker; loading goes to the backend directly.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	locale := cfg.Locale
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	a := &App{
		Auth: NewStaticAuthorizer(cfg.Capabilities...),
		settings: reports.Settings{
			Location: loc,
			Locale:   locale,
		},
	}

	var backend documents.Store
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		db, err := sqlite.NewDB(ctx, sqlite.Settings{DbPath: cfg.Store.DSN})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite instance: %w", err)
		}
		s, err := sqliterecords.NewStore(db, views.Default())
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create record store: %w", err)
		}
		a.db = db
		backend, a.Writer = s, s
	default:
		s := memory.NewStore(views.Default())
		backend, a.Writer = s, s
	}
	a.Store = breaker.NewStore(backend, cfg.Store.Breaker, logger)

	a.Labels, err = i18n.NewCatalog(cfg.LabelsFile, loc)
	if err != nil {
		a.Close()
		return nil, err
	}
	diagnoses := records.NewDiagnosisProvider()
	a.Schemas, err = schema.NewCatalog(a.Labels, diagnoses, cfg.SchemaCacheSize)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Planner = records.NewPlanner(a.Store, records.Settings{Concurrency: cfg.Query.Concurrency})

	logger.Info().
		Str("driver", cfg.Store.Driver).
		Str("locale", locale).
		Str("timezone", loc.String()).
		Msg("report engine ready")
	return a, nil
}

// NewDispatcher returns a dispatcher over the shared planner and catalogs.
// Each caller that needs its own supersede scope gets its own dispatcher.
func (a *App) NewDispatcher() *reports.Dispatcher {
	return reports.NewDispatcher(a.Planner, a.Schemas, a.Labels, a.Auth, a.settings)
}

func (a *App) Location() *time.Location {
	return a.settings.Location
}

func (a *App) Locale() string {
	return a.settings.Locale
}

// Now overrides the clock of dispatchers created afterwards.
func (a *App) Now(now func() time.Time) {
	a.settings.Now = now
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// StaticAuthorizer grants a fixed set of capabilities.
type StaticAuthorizer map[string]bool

func NewStaticAuthorizer(capabilities ...string) StaticAuthorizer {
	auth := make(StaticAuthorizer, len(capabilities))
	for _, c := range capabilities {
		auth[c] = true
	}
	return auth
}

func (a StaticAuthorizer) CurrentUserCan(capability string) bool {
	return a[capability]
}
