package handler

import (
	"context"
	"net/http"

	"txreport/internal/domain"
	"txreport/internal/report"
)

// ReportService computes reports for validated queries.
type ReportService interface {
	Report(ctx context.Context, q *report.ReportQuery) (*domain.Report, error)
	CountryReport(ctx context.Context, q *report.CountryQuery) (*domain.CountryReport, error)
}

// ReportHandler serves the analytics endpoints.
type ReportHandler struct {
	resolver *report.Resolver
	service  ReportService
	logger   Logger
}

func NewReportHandler(resolver *report.Resolver, service ReportService, log Logger) *ReportHandler {
	return &ReportHandler{resolver: resolver, service: service, logger: log}
}

// Report handles GET /report. Parameters are validated before any data is
// read.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q, err := h.resolver.ResolveReport(report.ReportParams{
		StartDate:         qs.Get("start_date"),
		EndDate:           qs.Get("end_date"),
		Status:            qs.Get("status"),
		Type:              qs.Get("type"),
		IncludeAvg:        qs.Get("include_avg"),
		IncludeMin:        qs.Get("include_min"),
		IncludeMax:        qs.Get("include_max"),
		IncludeDailyShift: qs.Get("include_daily_shift"),
	})
	if err != nil {
		respondErr(w, h.logger, r, err)
		return
	}

	rep, err := h.service.Report(r.Context(), q)
	if err != nil {
		respondErr(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// ByCountry handles GET /report/by-country.
func (h *ReportHandler) ByCountry(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q, err := h.resolver.ResolveCountry(report.CountryParams{
		Status: qs.Get("status"),
		SortBy: qs.Get("sort_by"),
		TopN:   qs.Get("top_n"),
	})
	if err != nil {
		respondErr(w, h.logger, r, err)
		return
	}

	rep, err := h.service.CountryReport(r.Context(), q)
	if err != nil {
		respondErr(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}
