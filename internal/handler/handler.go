package handler

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"parts-desk/internal/logging"
)

// maxBodyBytes caps delete request bodies.
const maxBodyBytes = 64 << 10

// RecordService defines the store operations the handlers need.
// This allows testing handlers without a real store.
type RecordService interface {
	Delete(ctx context.Context, searchTerm string) error
	StoreName() string
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	service RecordService
}

// New creates a new Handler with the given dependencies.
func New(service RecordService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("writing response body")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, ErrorResponse{Error: message})
}
