package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// shortDescriptionRunes is the description length used by the intermediate
// degradation level when a full event does not fit.
const shortDescriptionRunes = 50

// ErrBudgetExceeded is returned when even a payload with no events at all is
// larger than the configured byte budget. It always indicates a configuration
// problem (budget too small or metadata too large), never a data problem.
var ErrBudgetExceeded = errors.New("payload byte budget exceeded by metadata skeleton")

// Packer fits an ordered event list into a serialized byte budget.
//
// When the full payload fits it is returned untouched. When it does not, the
// packer walks the events in order and accepts each one at the first
// degradation level that fits: full description, description cut to 50
// characters, no description. The first event that does not fit even without
// a description ends the walk, so the result is always a contiguous prefix of
// the input in its original order. Dropped events are not an error.
type Packer struct {
	maxBytes int
}

func NewPacker(maxBytes int) *Packer {
	return &Packer{maxBytes: maxBytes}
}

// Pack builds the payload for the given events and metadata, trimming it to
// the byte budget when needed. The returned payload always serializes to at
// most maxBytes, or ErrBudgetExceeded is returned.
func (p *Packer) Pack(events []Event, meta Metadata, timestamp string) (Payload, error) {
	full := newPayload(events, meta, timestamp)
	size, err := serializedSize(full)
	if err != nil {
		return Payload{}, err
	}
	if size <= p.maxBytes {
		return full, nil
	}

	skeletonSize, err := serializedSize(newPayload([]Event{}, meta, timestamp))
	if err != nil {
		return Payload{}, err
	}
	if skeletonSize > p.maxBytes {
		return Payload{}, fmt.Errorf("skeleton is %d bytes, budget is %d: %w", skeletonSize, p.maxBytes, ErrBudgetExceeded)
	}

	log.Warnf("payload too large (%d bytes, budget %d), trimming events to fit", size, p.maxBytes)

	accepted := make([]Event, 0, len(events))
	for i, event := range events {
		variant, level, ok, err := p.fit(accepted, event, meta, timestamp)
		if err != nil {
			return Payload{}, err
		}
		if !ok {
			log.Infof("event %d (%q) does not fit even without description, dropping it and %d later events",
				i+1, event.Title, len(events)-i-1)
			break
		}
		if level != levelFull {
			log.Debugf("event %d (%q) accepted with %s description", i+1, event.Title, level)
		}
		accepted = append(accepted, variant)
	}

	packed := newPayload(accepted, meta, timestamp)
	packedSize, err := serializedSize(packed)
	if err != nil {
		return Payload{}, err
	}
	log.Infof("trimmed payload to %d of %d events (%d bytes)", len(accepted), len(events), packedSize)
	return packed, nil
}

type degradationLevel string

const (
	levelFull      degradationLevel = "full"
	levelShortened degradationLevel = "shortened"
	levelStripped  degradationLevel = "stripped"
)

// fit tries the degradation levels for one candidate event against the
// already accepted prefix and returns the first variant that fits. Shortened
// and stripped are only tried when the event has a description to degrade.
func (p *Packer) fit(accepted []Event, event Event, meta Metadata, timestamp string) (Event, degradationLevel, bool, error) {
	variants := []struct {
		level degradationLevel
		event Event
	}{{levelFull, event}}

	if event.Description != "" {
		shortened := event
		shortened.Description = truncateRunes(event.Description, shortDescriptionRunes)
		stripped := event
		stripped.Description = ""
		variants = append(variants,
			struct {
				level degradationLevel
				event Event
			}{levelShortened, shortened},
			struct {
				level degradationLevel
				event Event
			}{levelStripped, stripped},
		)
	}

	for _, v := range variants {
		trial := make([]Event, 0, len(accepted)+1)
		trial = append(trial, accepted...)
		trial = append(trial, v.event)
		size, err := serializedSize(newPayload(trial, meta, timestamp))
		if err != nil {
			return Event{}, "", false, err
		}
		if size <= p.maxBytes {
			return v.event, v.level, true, nil
		}
	}
	return Event{}, "", false, nil
}

func serializedSize(p Payload) (int, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("could not serialize payload: %w", err)
	}
	return len(data), nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
