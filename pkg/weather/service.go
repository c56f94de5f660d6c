package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkfeed/inkfeed/internal/event_bus"
	"github.com/inkfeed/inkfeed/internal/utils"
	"github.com/inkfeed/inkfeed/pkg/iot"
	"github.com/inkfeed/inkfeed/pkg/locale"
	log "github.com/sirupsen/logrus"
)

// FeedName identifies this feed in publish history and events.
const FeedName = "weather"

const source = "openweathermap"

// Service produces the weather payload and delivers it to the device.
type Service struct {
	provider  Provider
	publisher iot.Publisher
	bus       *event_bus.EventBus
	table     locale.Table
	city      string
	offsets   []time.Duration
	location  *time.Location
	topic     string
	maxBytes  int
	clock     utils.Clock
}

func NewService(
	provider Provider,
	publisher iot.Publisher,
	bus *event_bus.EventBus,
	table locale.Table,
	city string,
	offsets []time.Duration,
	location *time.Location,
	topic string,
	maxBytes int,
	clock utils.Clock,
) *Service {
	return &Service{
		provider:  provider,
		publisher: publisher,
		bus:       bus,
		table:     table,
		city:      city,
		offsets:   offsets,
		location:  location,
		topic:     topic,
		maxBytes:  maxBytes,
		clock:     clock,
	}
}

// BuildPayload fetches current conditions and the forecast and assembles the
// weather payload. Current conditions are required; a forecast fetch failure
// only degrades the payload (empty forecast, Degraded flag set).
func (s *Service) BuildPayload(ctx context.Context) (Payload, error) {
	current, err := s.provider.CurrentWeather(ctx)
	if err != nil {
		return Payload{}, fmt.Errorf("unable to fetch current weather for %s: %w", s.city, err)
	}

	degraded := false
	samples, err := s.provider.Forecast(ctx)
	if err != nil {
		log.Warnf("forecast fetch failed, publishing without forecast: %v", err)
		samples = nil
		degraded = true
	}

	now := s.clock.Now()
	slots := SelectSlots(samples, now, s.offsets, s.location)

	local := now.In(s.location)
	dateLabel := fmt.Sprintf("%s %d %s", s.table.WeekdayLong(local.Weekday()), local.Day(), s.table.Month(local.Month()))

	p := Payload{
		Current:   current,
		Forecast:  slots,
		Date:      dateLabel,
		Timestamp: now.UTC().Format(time.RFC3339),
		Source:    source,
		City:      s.city,
		Degraded:  degraded,
	}

	// The weather payload has a fixed shape and fits comfortably, but the
	// device buffer limit applies to it all the same; make an overrun loud.
	if data, err := json.Marshal(p); err == nil && len(data) > s.maxBytes {
		log.Warnf("weather payload is %d bytes, over the %d byte budget", len(data), s.maxBytes)
	}

	return p, nil
}

// PublishFeed builds the payload and delivers it to the data topic and the
// device shadow.
func (s *Service) PublishFeed(ctx context.Context) error {
	p, err := s.BuildPayload(ctx)
	if err != nil {
		return err
	}

	bytes, err := s.publisher.Publish(ctx, s.topic, p)
	if err != nil {
		return err
	}
	if err := s.publisher.UpdateShadow(ctx, FeedName, p); err != nil {
		return err
	}

	log.Infof("published weather for %s with %d forecast slots (%d bytes) to %s", s.city, len(p.Forecast), bytes, s.topic)

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.FeedPublishedType, event_bus.FeedPublished{
		Feed:        FeedName,
		Topic:       s.topic,
		Bytes:       bytes,
		ItemCount:   len(p.Forecast),
		Degraded:    p.Degraded,
		PublishedAt: s.clock.Now(),
	})); err != nil {
		log.Warnf("feed published event handling failed: %v", err)
	}
	return nil
}
