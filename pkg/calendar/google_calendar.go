package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/inkfeed/inkfeed/internal/config"
	"github.com/inkfeed/inkfeed/pkg/google"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Fetcher supplies the raw upcoming events of one calendar.
type Fetcher interface {
	FetchEvents(ctx context.Context, now time.Time) ([]RawEvent, error)
}

// GoogleFetcher reads upcoming events from the Google Calendar API.
type GoogleFetcher struct {
	auth       *google.Auth
	calendarId string
	horizon    time.Duration
	maxResults int64
}

func NewGoogleFetcher(auth *google.Auth, cfg config.Calendar) *GoogleFetcher {
	return &GoogleFetcher{
		auth:       auth,
		calendarId: cfg.Id,
		horizon:    time.Duration(cfg.HorizonDays) * 24 * time.Hour,
		maxResults: cfg.MaxResults,
	}
}

func (f *GoogleFetcher) FetchEvents(ctx context.Context, now time.Time) ([]RawEvent, error) {
	client, err := f.auth.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to build Google auth client: %w", err)
	}
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to build Calendar client: %w", err)
		log.Error(err)
		return nil, err
	}

	result, err := service.Events.List(f.calendarId).
		TimeMin(now.UTC().Format(time.RFC3339)).
		TimeMax(now.Add(f.horizon).UTC().Format(time.RFC3339)).
		MaxResults(f.maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %w", err)
		log.Error(err)
		return nil, err
	}

	log.Debugf("Google Calendar returned %d events for %s", len(result.Items), f.calendarId)

	events := make([]RawEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, RawEvent{
			Title:       item.Summary,
			Start:       eventTime(item.Start),
			End:         eventTime(item.End),
			Location:    item.Location,
			Description: item.Description,
		})
	}
	return events, nil
}

// eventTime returns the dateTime of a timed event or the date of an all-day
// event, preserving the source representation for downstream classification.
func eventTime(t *gcal.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
