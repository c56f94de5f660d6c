package event_bus

import "time"

// FeedPublishedType is emitted after a feed payload was delivered to the
// device (data topic and shadow).
const FeedPublishedType EventType = "feed.published"

// FeedPublished describes one successful publication cycle.
type FeedPublished struct {
	// Feed is "calendar" or "weather".
	Feed      string
	Topic     string
	Bytes     int
	ItemCount int
	// Degraded is true when the payload was built from incomplete upstream
	// data (e.g. forecast fetch failed).
	Degraded    bool
	PublishedAt time.Time
}
