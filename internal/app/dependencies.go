package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/inkfeed/inkfeed/internal/config"
	"github.com/inkfeed/inkfeed/internal/event_bus"
	"github.com/inkfeed/inkfeed/internal/utils"
	"github.com/inkfeed/inkfeed/pkg/calendar"
	"github.com/inkfeed/inkfeed/pkg/google"
	"github.com/inkfeed/inkfeed/pkg/history"
	"github.com/inkfeed/inkfeed/pkg/iot"
	"github.com/inkfeed/inkfeed/pkg/locale"
	"github.com/inkfeed/inkfeed/pkg/payload"
	"github.com/inkfeed/inkfeed/pkg/weather"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *event_bus.EventBus
	Clock utils.Clock

	TokenRepo  google.TokenRepository
	GoogleAuth *google.Auth

	Packer    *payload.Packer
	Publisher iot.Publisher

	CalendarFetcher calendar.Fetcher
	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler

	WeatherProvider weather.Provider
	WeatherService  *weather.Service
	WeatherHandler  *weather.Handler

	HistoryRepo     history.Repository
	HistoryRecorder *history.Recorder
	HistoryHandler  *history.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, publisher iot.Publisher, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	table, err := locale.FromSlices(cfg.Locale.WeekdaysShort, cfg.Locale.WeekdaysLong, cfg.Locale.Months, cfg.Locale.AllDayLabel)
	if err != nil {
		return nil, fmt.Errorf("invalid locale configuration: %w", err)
	}
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("could not load timezone %s: %w", cfg.Timezone, err)
	}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}
	deps.Publisher = publisher

	deps.TokenRepo = google.NewTokenRepository(db)
	deps.GoogleAuth = google.NewAuth(cfg.Google, deps.TokenRepo)

	deps.Packer = payload.NewPacker(cfg.Payload.MaxBytes)

	deps.CalendarFetcher = calendar.NewGoogleFetcher(deps.GoogleAuth, cfg.Calendar)
	deps.CalendarService = calendar.NewService(
		deps.CalendarFetcher,
		deps.Packer,
		deps.Publisher,
		deps.Bus,
		table,
		cfg.Calendar.Id,
		iot.EventsTopic(cfg.MQTT.TopicPrefix, cfg.Thing),
		deps.Clock,
	)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	offsets := make([]time.Duration, 0, len(cfg.Weather.OffsetHours))
	for _, hours := range cfg.Weather.OffsetHours {
		offsets = append(offsets, time.Duration(hours)*time.Hour)
	}

	deps.WeatherProvider = weather.NewClient(cfg.Weather)
	deps.WeatherService = weather.NewService(
		deps.WeatherProvider,
		deps.Publisher,
		deps.Bus,
		table,
		cfg.Weather.City,
		offsets,
		location,
		iot.WeatherTopic(cfg.MQTT.TopicPrefix, cfg.Thing),
		cfg.Payload.MaxBytes,
		deps.Clock,
	)
	deps.WeatherHandler = weather.NewHandler(deps.WeatherService)

	deps.HistoryRepo = history.NewRepository(db)
	deps.HistoryRecorder = history.NewRecorder(deps.Bus, deps.HistoryRepo)
	deps.HistoryHandler = history.NewHandler(deps.HistoryRepo)

	return deps, nil
}
