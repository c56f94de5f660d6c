package calendar

import (
	"context"
	"time"

	"github.com/inkfeed/inkfeed/internal/event_bus"
	"github.com/inkfeed/inkfeed/internal/utils"
	"github.com/inkfeed/inkfeed/pkg/iot"
	"github.com/inkfeed/inkfeed/pkg/locale"
	"github.com/inkfeed/inkfeed/pkg/payload"
	log "github.com/sirupsen/logrus"
)

// FeedName identifies this feed in publish history and events.
const FeedName = "calendar"

// Service produces the calendar payload and delivers it to the device.
type Service struct {
	fetcher    Fetcher
	packer     *payload.Packer
	publisher  iot.Publisher
	bus        *event_bus.EventBus
	table      locale.Table
	calendarId string
	topic      string
	clock      utils.Clock
}

func NewService(
	fetcher Fetcher,
	packer *payload.Packer,
	publisher iot.Publisher,
	bus *event_bus.EventBus,
	table locale.Table,
	calendarId string,
	topic string,
	clock utils.Clock,
) *Service {
	return &Service{
		fetcher:    fetcher,
		packer:     packer,
		publisher:  publisher,
		bus:        bus,
		table:      table,
		calendarId: calendarId,
		topic:      topic,
		clock:      clock,
	}
}

// BuildPayload fetches upcoming events, normalizes them, and packs them into
// the byte budget. Events whose timestamps cannot be parsed are skipped with
// a warning rather than failing the whole batch; that policy keeps one broken
// event from blanking the display.
func (s *Service) BuildPayload(ctx context.Context) (payload.Payload, error) {
	now := s.clock.Now()
	raw, err := s.fetcher.FetchEvents(ctx, now)
	if err != nil {
		return payload.Payload{}, err
	}

	events := make([]payload.Event, 0, len(raw))
	for _, r := range raw {
		event, err := NewDisplayEvent(r, s.table)
		if err != nil {
			log.Warnf("skipping event %q: %v", r.Title, err)
			continue
		}
		events = append(events, event)
	}

	return s.packer.Pack(events, payload.Metadata{CalendarID: s.calendarId}, now.UTC().Format(time.RFC3339))
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

	log.Infof("published %d calendar events (%d bytes) to %s", p.Count, bytes, s.topic)

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.FeedPublishedType, event_bus.FeedPublished{
		Feed:        FeedName,
		Topic:       s.topic,
		Bytes:       bytes,
		ItemCount:   p.Count,
		PublishedAt: s.clock.Now(),
	})); err != nil {
		log.Warnf("feed published event handling failed: %v", err)
	}
	return nil
}
