package commands

import (
	"context"

	"github.com/de-tools/patient-reports/pkg/runtime/app"
)

// Loader opens the report engine for one command invocation.
type Loader func(ctx context.Context) (*app.App, error)
