package calendar

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkfeed/inkfeed/internal/rest"
	"github.com/inkfeed/inkfeed/pkg/payload"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Preview builds the calendar payload without publishing it, so the exact
// bytes the device would receive can be inspected.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.BuildPayload(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Trigger runs one publish cycle on demand.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PublishFeed(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "published"}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeError(w http.ResponseWriter, err error) {
	log.Errorf("calendar feed request failed: %v", err)

	status := http.StatusInternalServerError
	response := rest.ErrorResponse{Error: "Failed to build calendar feed"}
	if errors.Is(err, payload.ErrBudgetExceeded) {
		// Misconfiguration, not an upstream failure.
		status = http.StatusUnprocessableEntity
		response.Details = "payload metadata alone exceeds the configured byte budget"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
