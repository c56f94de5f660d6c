package weather

import (
	"encoding/json"
	"net/http"

	"github.com/inkfeed/inkfeed/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Preview builds the weather payload without publishing it.
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
	log.Errorf("weather feed request failed: %v", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Failed to build weather feed"}); encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
