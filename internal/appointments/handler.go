package appointments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/wolfman30/appointment-slots/pkg/logging"
)

const maxRequestBytes = 64 << 10

// Suggester produces a slot payload for preference text.
type Suggester interface {
	Suggest(ctx context.Context, preferences string) (Response, error)
}

// Handler wires HTTP requests to the suggestion service.
type Handler struct {
	service Suggester
	logger  *logging.Logger
}

func NewHandler(service Suggester, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Suggest handles POST /appointments/suggestions.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		h.logger.Error("failed to read suggestion request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
		return
	}

	preferences, err := ParsePreferences(r.Header.Get("Content-Type"), body, r.URL.Query())
	if err != nil {
		h.logger.Error("failed to decode suggestion request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Suggest(r.Context(), preferences)
	if err != nil {
		status, msg := StatusFor(err)
		h.logger.Error("failed to suggest appointments", "status", status, "error", err)
		h.writeJSON(w, status, ErrorBody{Error: msg})
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp.Payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
