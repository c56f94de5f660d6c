package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Calendar feed
	r.HandleFunc("/api/feed/calendar/preview", deps.CalendarHandler.Preview).Methods("GET")
	r.HandleFunc("/api/feed/calendar/publish", deps.CalendarHandler.Trigger).Methods("POST")

	// Weather feed
	r.HandleFunc("/api/feed/weather/preview", deps.WeatherHandler.Preview).Methods("GET")
	r.HandleFunc("/api/feed/weather/publish", deps.WeatherHandler.Trigger).Methods("POST")

	// Publish history and status
	r.HandleFunc("/api/history", deps.HistoryHandler.GetRecent).Methods("GET")
	r.HandleFunc("/api/status", deps.HistoryHandler.GetStatus).Methods("GET")
}
