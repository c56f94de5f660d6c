package payload

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimestamp = "2024-06-10T12:00:00Z"

var testMeta = Metadata{CalendarID: "primary"}

func makeEvents(n int, descriptionLen int) []Event {
	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, Event{
			Title:       fmt.Sprintf("Event %02d", i+1),
			TimeLabel:   "Ma 10.06 12:00",
			Date:        "2024-06-10T12:00:00+03:00",
			Location:    "Helsinki",
			Description: strings.Repeat("d", descriptionLen),
		})
	}
	return events
}

func mustSize(t *testing.T, p Payload) int {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	return len(data)
}

func TestPack_ReturnsFullPayloadUnchangedWhenItFits(t *testing.T) {
	events := makeEvents(5, 100)
	packer := NewPacker(1 << 20)

	packed, err := packer.Pack(events, testMeta, testTimestamp)

	require.NoError(t, err)
	assert.Equal(t, events, packed.Events)
	assert.Equal(t, 5, packed.Count)
	assert.Equal(t, testTimestamp, packed.Timestamp)
	assert.Equal(t, testMeta, packed.Metadata)
}

func TestPack_OutputNeverExceedsBudget(t *testing.T) {
	events := makeEvents(10, 100)
	skeletonSize := mustSize(t, newPayload([]Event{}, testMeta, testTimestamp))
	fullSize := mustSize(t, newPayload(events, testMeta, testTimestamp))

	for maxBytes := skeletonSize; maxBytes <= fullSize; maxBytes += 37 {
		packer := NewPacker(maxBytes)
		packed, err := packer.Pack(events, testMeta, testTimestamp)
		require.NoError(t, err, "budget %d", maxBytes)
		assert.LessOrEqual(t, mustSize(t, packed), maxBytes, "budget %d", maxBytes)
		assert.Equal(t, len(packed.Events), packed.Count, "budget %d", maxBytes)
	}
}

func TestPack_AcceptedEventsAreContiguousPrefixInOrder(t *testing.T) {
	events := makeEvents(10, 100)
	fullSize := mustSize(t, newPayload(events, testMeta, testTimestamp))

	packer := NewPacker(fullSize / 2)
	packed, err := packer.Pack(events, testMeta, testTimestamp)
	require.NoError(t, err)
	require.NotEmpty(t, packed.Events)

	for i, event := range packed.Events {
		assert.Equal(t, events[i].Title, event.Title, "event %d out of order", i)
	}
}

func TestPack_MonotonicDegradation(t *testing.T) {
	events := makeEvents(10, 100)
	fullSize := mustSize(t, newPayload(events, testMeta, testTimestamp))

	packer := NewPacker(fullSize * 3 / 4)
	packed, err := packer.Pack(events, testMeta, testTimestamp)
	require.NoError(t, err)

	for i, event := range packed.Events {
		original := events[i].Description
		switch event.Description {
		case original, original[:shortDescriptionRunes], "":
			// one of the three permitted degradation levels
		default:
			t.Errorf("event %d has unexpected description %q", i, event.Description)
		}
	}
}

// Ten events with 100-character descriptions and a budget that holds six of
// them in full but eight when later ones are degraded: the packer must keep
// packing past the sixth event instead of stopping at the first level that
// fails.
func TestPack_DegradesToFitMoreEvents(t *testing.T) {
	events := makeEvents(10, 100)

	shortened := func(e Event) Event {
		e.Description = e.Description[:shortDescriptionRunes]
		return e
	}
	budgetEvents := make([]Event, 0, 8)
	budgetEvents = append(budgetEvents, events[:6]...)
	budgetEvents = append(budgetEvents, shortened(events[6]), shortened(events[7]))
	maxBytes := mustSize(t, newPayload(budgetEvents, testMeta, testTimestamp))

	packer := NewPacker(maxBytes)
	packed, err := packer.Pack(events, testMeta, testTimestamp)
	require.NoError(t, err)

	assert.Equal(t, 8, packed.Count)
	assert.Len(t, packed.Events, 8)
	assert.LessOrEqual(t, mustSize(t, packed), maxBytes)
	for i, event := range packed.Events[:6] {
		assert.Equal(t, events[i].Description, event.Description, "event %d should keep its full description", i)
	}
	// The tail events only fit degraded.
	assert.LessOrEqual(t, len(packed.Events[7].Description), shortDescriptionRunes)
}

func TestPack_BudgetSmallerThanSkeletonFails(t *testing.T) {
	events := makeEvents(3, 10)
	skeletonSize := mustSize(t, newPayload([]Event{}, testMeta, testTimestamp))

	packer := NewPacker(skeletonSize - 1)
	_, err := packer.Pack(events, testMeta, testTimestamp)

	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestPack_EventWithoutDescriptionIsDroppedDirectly(t *testing.T) {
	// First event fits, second has no description to degrade, so the walk
	// must stop there even though the third event is tiny.
	first := Event{Title: "first", TimeLabel: "Ma 10.06 12:00", Description: ""}
	second := Event{Title: strings.Repeat("x", 400), TimeLabel: "Ti 11.06 12:00", Description: ""}
	third := Event{Title: "third", TimeLabel: "Ke 12.06 12:00", Description: ""}
	events := []Event{first, second, third}

	maxBytes := mustSize(t, newPayload([]Event{first}, testMeta, testTimestamp)) + 10
	packer := NewPacker(maxBytes)

	packed, err := packer.Pack(events, testMeta, testTimestamp)
	require.NoError(t, err)

	require.Len(t, packed.Events, 1)
	assert.Equal(t, "first", packed.Events[0].Title)
	assert.Equal(t, 1, packed.Count)
}

func TestPack_CountAlwaysMatchesEvents(t *testing.T) {
	events := makeEvents(4, 60)
	packer := NewPacker(1 << 20)

	packed, err := packer.Pack(events, testMeta, testTimestamp)
	require.NoError(t, err)
	assert.Equal(t, len(packed.Events), packed.Count)

	empty, err := packer.Pack(nil, testMeta, testTimestamp)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
}

func TestTruncateRunes_MultibyteSafe(t *testing.T) {
	s := strings.Repeat("ä", 60)
	truncated := truncateRunes(s, shortDescriptionRunes)
	assert.Equal(t, strings.Repeat("ä", 50), truncated)
}
