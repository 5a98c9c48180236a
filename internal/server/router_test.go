package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/jobs"
)

type staticReports struct{ report *jobs.Report }

func (s staticReports) LastReport() *jobs.Report { return s.report }

type fakeIntake struct {
	delivered bool
	err       error
	got       map[string]core.Material
}

func (f *fakeIntake) Submit(_ context.Context, account string, m core.Material) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.got == nil {
		f.got = map[string]core.Material{}
	}
	f.got[account] = m
	return f.delivered, nil
}

func (f *fakeIntake) Pending() []string { return []string{"a@example.com"} }

func newTestRouter(reports staticReports, intake *fakeIntake) http.Handler {
	return NewRouter(reports, intake, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(staticReports{}, &fakeIntake{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_Stats(t *testing.T) {
	t.Run("no run yet", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestRouter(staticReports{}, &fakeIntake{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("last run", func(t *testing.T) {
		report := &jobs.Report{
			RunID:     "run-1",
			StartedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
			Queries:   []jobs.QueryReport{{Query: "Go", Stats: jobs.StatsSnapshot{Applied: 7}}},
			Total:     jobs.StatsSnapshot{Applied: 7},
		}
		rec := httptest.NewRecorder()
		newTestRouter(staticReports{report}, &fakeIntake{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var got jobs.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "run-1", got.RunID)
		assert.Equal(t, int64(7), got.Total.Applied)
		assert.NotContains(t, rec.Body.String(), "finished_at")
	})
}

func TestRouter_SubmitCredentials(t *testing.T) {
	tests := []struct {
		name       string
		intake     *fakeIntake
		body       string
		wantStatus int
	}{
		{"delivered", &fakeIntake{delivered: true}, `{"cookies":"hhtoken=abc; _xsrf=x"}`, http.StatusOK},
		{"stored", &fakeIntake{}, `{"cookies":"hhtoken=abc"}`, http.StatusAccepted},
		{"unknown account", &fakeIntake{err: core.ErrUnknownAccount}, `{"cookies":"hhtoken=abc"}`, http.StatusNotFound},
		{"store failure", &fakeIntake{err: errors.New("disk full")}, `{"cookies":"hhtoken=abc"}`, http.StatusInternalServerError},
		{"no cookies", &fakeIntake{}, `{"cookies":"  "}`, http.StatusBadRequest},
		{"bad json", &fakeIntake{}, `hhtoken=abc`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/credentials/me@example.com", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			newTestRouter(staticReports{}, tt.intake).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	intake := &fakeIntake{delivered: true}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/credentials/me@example.com", strings.NewReader(`{"cookies":"hhtoken=abc; _xsrf=x"}`))
	newTestRouter(staticReports{}, intake).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, core.Material{"hhtoken": "abc", "_xsrf": "x"}, intake.got["me@example.com"])
}

func TestRouter_PendingCredentials(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(staticReports{}, &fakeIntake{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/credentials/pending", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pending":["a@example.com"]}`, rec.Body.String())
}
