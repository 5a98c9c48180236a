package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/hh"
)

// CredentialIntake accepts material for an account. delivered reports
// whether a pending reauthentication consumed it; otherwise it was stored
// for later runs.
type CredentialIntake interface {
	Submit(ctx context.Context, accountID string, material core.Material) (delivered bool, err error)
	Pending() []string
}

type CredentialsHandler struct {
	intake CredentialIntake
	logger *slog.Logger
}

func NewCredentialsHandler(intake CredentialIntake, logger *slog.Logger) *CredentialsHandler {
	return &CredentialsHandler{intake: intake, logger: logger}
}

type submitRequest struct {
	// Cookies is a browser cookie header, "name=value; name2=value2".
	Cookies string `json:"cookies"`
}

type submitResponse struct {
	Account   string `json:"account"`
	Delivered bool   `json:"delivered"`
}

// Submit handles POST /api/v1/credentials/{account}.
func (h *CredentialsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	material := hh.ParseCookies(strings.TrimSpace(req.Cookies))
	if len(material) == 0 {
		http.Error(w, "No cookies in request", http.StatusBadRequest)
		return
	}

	delivered, err := h.intake.Submit(r.Context(), account, material)
	if err != nil {
		if errors.Is(err, core.ErrUnknownAccount) {
			http.Error(w, "Unknown account", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to accept credentials", "account", account, "error", err)
		http.Error(w, "Failed to accept credentials", http.StatusInternalServerError)
		return
	}

	h.logger.Info("credentials received", "account", account, "delivered", delivered)
	status := http.StatusOK
	if !delivered {
		status = http.StatusAccepted
	}
	writeJSON(w, h.logger, status, submitResponse{Account: account, Delivered: delivered})
}

// Pending handles GET /api/v1/credentials/pending.
func (h *CredentialsHandler) Pending(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string][]string{"pending": h.intake.Pending()})
}
