package history

import (
	"github.com/inkfeed/inkfeed/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Recorder subscribes to feed publication events and writes them to the
// history repository. Keeping this behind the bus means the feed services do
// not depend on the storage layer.
type Recorder struct {
	repo        Repository
	unsubscribe func()
}

func NewRecorder(bus *event_bus.EventBus, repo Repository) *Recorder {
	recorder := &Recorder{repo: repo}
	recorder.unsubscribe = event_bus.SubscribeTyped[event_bus.FeedPublished](bus, event_bus.FeedPublishedType,
		func(e event_bus.EventT[event_bus.FeedPublished]) error {
			entry := Entry{
				Feed:        e.Data.Feed,
				Topic:       e.Data.Topic,
				Bytes:       e.Data.Bytes,
				ItemCount:   e.Data.ItemCount,
				Degraded:    e.Data.Degraded,
				PublishedAt: e.Data.PublishedAt,
			}
			if err := repo.Record(e.Context(), entry); err != nil {
				// History is best-effort; the publish itself already happened.
				log.Warnf("could not record %s publication: %v", e.Data.Feed, err)
			}
			return nil
		})
	return recorder
}

func (r *Recorder) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}
