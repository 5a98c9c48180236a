// Package handler provides the HTTP handlers of the apply-warden server.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sevigo/apply-warden/internal/jobs"
)

// ReportSource returns the report of the current or last run, nil if none.
type ReportSource interface {
	LastReport() *jobs.Report
}

type StatsHandler struct {
	reports ReportSource
	logger  *slog.Logger
}

func NewStatsHandler(reports ReportSource, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{reports: reports, logger: logger}
}

// Handle serves the statistics of the current or last run.
func (h *StatsHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	report := h.reports.LastReport()
	if report == nil {
		http.Error(w, "No run yet", http.StatusNotFound)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}
