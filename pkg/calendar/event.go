package calendar

import (
	"github.com/inkfeed/inkfeed/pkg/locale"
	"github.com/inkfeed/inkfeed/pkg/payload"
)

const (
	// defaultTitle is used for events the source delivered without a summary.
	defaultTitle = "No Title"

	// maxDescriptionRunes is the hard cap applied to event descriptions when
	// a display event is created. The packer may shorten it further.
	maxDescriptionRunes = 100
)

// RawEvent carries the fields of a fetched calendar event before
// normalization. Start and End are either a date-only value ("2006-01-02",
// all-day convention with exclusive end) or a full RFC 3339 timestamp.
type RawEvent struct {
	Title       string
	Start       string
	End         string
	Location    string
	Description string
}

// NewDisplayEvent normalizes a raw event into the device-ready form:
// localized time label, all-day and multi-day classification, defaulted
// title, and a length-capped description.
func NewDisplayEvent(raw RawEvent, table locale.Table) (payload.Event, error) {
	label, err := NormalizeTime(raw.Start, raw.End, table)
	if err != nil {
		return payload.Event{}, err
	}

	title := raw.Title
	if title == "" {
		title = defaultTitle
	}

	return payload.Event{
		Title:       title,
		TimeLabel:   label.Label,
		Date:        raw.Start,
		Location:    raw.Location,
		Description: capRunes(raw.Description, maxDescriptionRunes),
		AllDay:      label.AllDay,
		MultiDay:    label.MultiDay,
	}, nil
}

func capRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
