package history

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultRecentLimit = 20

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type EntryDTO struct {
	Feed        string    `json:"feed"`
	Topic       string    `json:"topic"`
	Bytes       int       `json:"bytes"`
	ItemCount   int       `json:"itemCount"`
	Degraded    bool      `json:"degraded"`
	PublishedAt time.Time `json:"publishedAt"`
}

// GetRecent lists the most recent publications across feeds.
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetStatus reports the last publication of each feed, or null when a feed
// has never published.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]*EntryDTO{}
	for _, feed := range []string{"calendar", "weather"} {
		entry, err := h.repo.LastForFeed(r.Context(), feed)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if entry == nil {
			status[feed] = nil
			continue
		}
		dto := entryToDTO(*entry)
		status[feed] = &dto
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Errorf("could not encode status response: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func entryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		Feed:        entry.Feed,
		Topic:       entry.Topic,
		Bytes:       entry.Bytes,
		ItemCount:   entry.ItemCount,
		Degraded:    entry.Degraded,
		PublishedAt: entry.PublishedAt,
	}
}
