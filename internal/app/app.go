package app

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/inkfeed/inkfeed/internal/config"
	"github.com/inkfeed/inkfeed/internal/database"
	"github.com/inkfeed/inkfeed/internal/utils"
	"github.com/inkfeed/inkfeed/pkg/iot"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Application wires configuration, storage, transport, scheduler, and the
// HTTP server lifecycle.
type Application struct {
	cfg       config.Application
	router    *mux.Router
	srv       *http.Server
	scheduler *cron.Cron
	publisher *iot.MQTTPublisher
}

// NewApplication constructs the full application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	if cfg.Log.File != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}))
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	// db and the MQTT connection live as long as the process; closing is left
	// to process exit, matching the daemon's run-forever lifecycle.

	publisher, err := iot.NewMQTTPublisher(cfg.MQTT, cfg.Thing, &utils.SystemClock{})
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(db, publisher, cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Calendar.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := deps.CalendarService.PublishFeed(ctx); err != nil {
			log.Errorf("scheduled calendar publish failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}
	if _, err := scheduler.AddFunc(cfg.Weather.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := deps.WeatherService.PublishFeed(ctx); err != nil {
			log.Errorf("scheduled weather publish failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, scheduler: scheduler, publisher: publisher}, nil
}

// Run starts the scheduler and the HTTP server and blocks.
func (a *Application) Run() error {
	a.scheduler.Start()
	log.Infof("Feeding thing %q, starting server on %s", a.cfg.Thing, a.srv.Addr)
	return a.srv.ListenAndServe()
}
