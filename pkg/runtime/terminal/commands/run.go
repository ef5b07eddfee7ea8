package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/de-tools/patient-reports/pkg/adapters"
	"github.com/de-tools/patient-reports/pkg/models/api"
	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/runtime/terminal/export"
	"github.com/de-tools/patient-reports/pkg/services/reports"
	"github.com/de-tools/patient-reports/pkg/services/schema"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type RunCmd struct {
	request api.ReportRequest
	show    []string
	hide    []string
	format  string
	out     string
	seed    string
	load    Loader
}

func NewRunCmd(load Loader) *cobra.Command {
	rc := &RunCmd{load: load}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a patient report",
		RunE:  rc.run,
	}

	f := cmd.Flags()
	f.StringVar(&rc.request.ReportKind, "kind", "", "Report kind, as listed by the kinds command")
	f.StringVar(&rc.request.StartDate, "start", "", "First day of the report, YYYY-MM-DD")
	f.StringVar(&rc.request.EndDate, "end", "", "Last day of the report, YYYY-MM-DD (default today)")
	f.StringVar(&rc.request.Status, "status", "", "Patient status (status report)")
	f.StringVar(&rc.request.Examiner, "examiner", "", "Examiner (visit report)")
	f.StringVar(&rc.request.VisitType, "visit-type", "", "Visit type (visit report)")
	f.StringVar(&rc.request.Location, "location", "", "Visit location (visit report)")
	f.StringVar(&rc.request.Clinic, "clinic", "", "Clinic (visit report)")
	f.StringVar(&rc.request.Diagnosis, "diagnosis", "", "Diagnosis substring (visit report)")
	f.StringVar(&rc.request.PrimaryDiagnosis, "primary-diagnosis", "", "Primary diagnosis (visit report)")
	f.StringVar(&rc.request.Locale, "locale", "", "Locale of labels and formats")
	f.StringSliceVar(&rc.show, "show", nil, "Column keys to include")
	f.StringSliceVar(&rc.hide, "hide", nil, "Column keys to exclude")
	f.StringVar(&rc.format, "format", export.FormatTable, "Output format: "+strings.Join(export.Formats, ", "))
	f.StringVar(&rc.out, "out", "", "Output file (default stdout)")
	f.StringVar(&rc.seed, "seed", "", "Load a JSON array of documents before running")

	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	a, err := rc.load(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if rc.seed != "" {
		if _, err := a.LoadDocuments(ctx, rc.seed); err != nil {
			return err
		}
	}

	rc.request.Columns = columnOverrides(rc.show, rc.hide)
	req, err := adapters.MapAPIRequestToDomain(rc.request, a.Location())
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	buf := reports.NewBuffer()
	err = a.NewDispatcher().Run(ctx, req, buf, reports.Callbacks{
		OnProgressStart: func() {
			logger.Info().Str("kind", rc.request.ReportKind).Msg("running report")
		},
		OnError: func(message string) {
			fmt.Fprintln(cmd.ErrOrStderr(), message)
		},
	})
	if err != nil {
		return err
	}

	locale := req.Locale
	if locale == "" {
		locale = a.Locale()
	}
	title, err := reportTitle(a.Schemas, locale, req.Kind)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if rc.out != "" {
		file, err := os.Create(rc.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	reporter, err := export.NewReporter(rc.format, w)
	if err != nil {
		return err
	}
	report := export.NewReport(title, req.Kind, buf.Schema(), buf.Rows())
	if req.StartDate != nil {
		end := time.Now().In(a.Location())
		if req.EndDate != nil {
			end = *req.EndDate
		}
		period := domain.NewTimePeriod(*req.StartDate, end)
		report.Period = &period
	}
	return reporter.Handle(report)
}

func columnOverrides(show, hide []string) map[string]bool {
	if len(show) == 0 && len(hide) == 0 {
		return nil
	}
	columns := make(map[string]bool, len(show)+len(hide))
	for _, key := range show {
		columns[key] = true
	}
	for _, key := range hide {
		columns[key] = false
	}
	return columns
}

func reportTitle(catalog schema.Catalog, locale string, kind domain.ReportKind) (string, error) {
	types, err := catalog.ReportTypes(locale)
	if err != nil {
		return "", err
	}
	for _, t := range types {
		if t.Kind == kind {
			return t.Title, nil
		}
	}
	return string(kind), nil
}
