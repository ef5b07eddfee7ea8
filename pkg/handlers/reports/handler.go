package reports

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/de-tools/patient-reports/pkg/adapters"
	"github.com/de-tools/patient-reports/pkg/models/api"
	"github.com/de-tools/patient-reports/pkg/models/domain"
	"github.com/de-tools/patient-reports/pkg/services/reports"
	"github.com/de-tools/patient-reports/pkg/services/schema"
	"github.com/rs/zerolog"
)

type Runner interface {
	Run(ctx context.Context, req domain.ReportRequest, sink reports.Sink, cb reports.Callbacks) error
}

// RunnerFactory returns a fresh runner per request so concurrent requests
// never supersede each other.
type RunnerFactory func() Runner

type Handler struct {
	newRunner RunnerFactory
	catalog   schema.Catalog
	loc       *time.Location
	locale    string
}

func NewHandler(newRunner RunnerFactory, catalog schema.Catalog, loc *time.Location, locale string) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		newRunner: newRunner,
		catalog:   catalog,
		loc:       loc,
		locale:    locale,
	}
}

func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var body api.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	req, err := adapters.MapAPIRequestToDomain(body, h.loc)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	buf := reports.NewBuffer()
	err = h.newRunner().Run(ctx, req, buf, reports.Callbacks{
		OnError: func(message string) {
			logger.Warn().Str("kind", body.ReportKind).Msg(message)
		},
	})

	var ve *reports.ValidationError
	var qe *reports.QueryError
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, adapters.MapDomainReportToAPI(req.Kind, buf.Schema(), buf.Rows()))
	case errors.As(err, &ve):
		writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: ve.Reason, Field: ve.Field})
	case errors.Is(err, reports.ErrForbidden):
		writeJSON(w, r, http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
	case errors.As(err, &qe):
		writeJSON(w, r, http.StatusBadGateway, api.ErrorResponse{Error: qe.Error()})
	case errors.Is(err, reports.ErrSuperseded):
		writeJSON(w, r, http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error().Err(err).Msg("report run failed")
		writeJSON(w, r, http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func (h *Handler) ListKinds(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = h.locale
	}

	types, err := h.catalog.ReportTypes(locale)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Field: "locale"})
		return
	}

	response := make([]api.ReportType, 0, len(types))
	for _, t := range types {
		response = append(response, api.ReportType{Kind: string(t.Kind), Title: t.Title})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
