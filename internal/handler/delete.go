package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"parts-desk/internal/domain"
	"parts-desk/internal/logging"
	"parts-desk/internal/metrics"
	"parts-desk/internal/validation"
)

// DeletePart handles DELETE requests that remove one record by search term.
func (h *Handler) DeletePart(w http.ResponseWriter, r *http.Request) {
	log := logging.Ctx(r.Context())

	var req DeleteRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Debug().Err(err).Msg("rejecting delete request body")
		metrics.RecordDeletion(metrics.OutcomeBadRequest)
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := validation.Struct(&req); err != nil {
		metrics.RecordDeletion(metrics.OutcomeBadRequest)
		h.writeError(w, r, http.StatusBadRequest, "Missing searchTerm")
		return
	}

	err := h.service.Delete(r.Context(), req.SearchTerm)
	if err != nil {
		status, message, outcome := h.deleteFailure(err)
		log.Warn().Err(err).Str("search_term", req.SearchTerm).Int("status", status).Msg("delete failed")
		metrics.RecordDeletion(outcome)
		h.writeError(w, r, status, message)
		return
	}

	log.Info().Str("search_term", req.SearchTerm).Msg("record deleted")
	metrics.RecordDeletion(metrics.OutcomeDeleted)
	h.writeJSON(w, r, http.StatusOK, DeleteResponse{
		Success: true,
		Message: "Item deleted successfully",
	})
}

// deleteFailure maps a service error to status, client message and metric outcome.
func (h *Handler) deleteFailure(err error) (int, string, string) {
	name := h.service.StoreName()

	detail := err.Error()
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		detail = storeErr.Detail()
	}

	switch {
	case errors.Is(err, domain.ErrMissingKey):
		return http.StatusBadRequest, "Missing searchTerm", metrics.OutcomeBadRequest
	case errors.Is(err, domain.ErrKeyNotFound):
		return http.StatusNotFound, "Item not found", metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrStoreNotFound):
		return http.StatusNotFound, name + " not found", metrics.OutcomeNoStore
	case errors.Is(err, domain.ErrStoreRead), errors.Is(err, domain.ErrStoreCorrupt):
		return http.StatusInternalServerError, fmt.Sprintf("Failed to read %s: %s", name, detail), metrics.OutcomeStoreError
	case errors.Is(err, domain.ErrStoreWrite):
		return http.StatusInternalServerError, fmt.Sprintf("Failed to write %s: %s", name, detail), metrics.OutcomeStoreError
	default:
		return http.StatusInternalServerError, fmt.Sprintf("Failed to update %s: %s", name, detail), metrics.OutcomeStoreError
	}
}
