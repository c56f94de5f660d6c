package calendar

import (
	"testing"

	"github.com/inkfeed/inkfeed/pkg/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-10 is a Monday.
func TestNormalizeTime(t *testing.T) {
	table := locale.Finnish()

	testCases := []struct {
		name         string
		startRaw     string
		endRaw       string
		wantLabel    string
		wantAllDay   bool
		wantMultiDay bool
	}{
		{
			name:      "Timed event on a single day",
			startRaw:  "2024-06-10T14:30:00+03:00",
			endRaw:    "2024-06-10T15:30:00+03:00",
			wantLabel: "Ma 10.06 14:30",
		},
		{
			name:         "Timed event crossing midnight",
			startRaw:     "2024-06-10T23:00:00+03:00",
			endRaw:       "2024-06-11T01:00:00+03:00",
			wantLabel:    "Ma 10.06 - Ti 11.06",
			wantMultiDay: true,
		},
		{
			name:       "Single all-day event has exclusive end on the next day",
			startRaw:   "2024-06-10",
			endRaw:     "2024-06-11",
			wantLabel:  "Ma 10.06 Koko päivä",
			wantAllDay: true,
		},
		{
			name:         "Multi-day all-day event ends one day before the exclusive end",
			startRaw:     "2024-06-10",
			endRaw:       "2024-06-12",
			wantLabel:    "Ma 10.06 - Ti 11.06",
			wantAllDay:   true,
			wantMultiDay: true,
		},
		{
			name:      "UTC timestamp",
			startRaw:  "2024-06-15T09:00:00Z",
			endRaw:    "2024-06-15T10:00:00Z",
			wantLabel: "La 15.06 09:00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			label, err := NormalizeTime(tc.startRaw, tc.endRaw, table)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLabel, label.Label)
			assert.Equal(t, tc.wantAllDay, label.AllDay)
			assert.Equal(t, tc.wantMultiDay, label.MultiDay)
		})
	}
}

func TestNormalizeTime_MalformedValues(t *testing.T) {
	table := locale.Finnish()

	testCases := []struct {
		name     string
		startRaw string
		endRaw   string
	}{
		{"Unparsable date", "not-a-date", "2024-06-11"},
		{"Unparsable end date", "2024-06-10", "still-not-a-date"},
		{"Unparsable timestamp", "2024-06-10Tnoon", "2024-06-10T15:30:00+03:00"},
		{"Timestamp without offset", "2024-06-10T14:30:00", "2024-06-10T15:30:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeTime(tc.startRaw, tc.endRaw, table)
			assert.ErrorIs(t, err, ErrMalformedTimestamp)
		})
	}
}

func TestNewDisplayEvent(t *testing.T) {
	table := locale.Finnish()

	t.Run("Defaults title and caps description", func(t *testing.T) {
		longDescription := ""
		for i := 0; i < 30; i++ {
			longDescription += "abcdefghij"
		}

		event, err := NewDisplayEvent(RawEvent{
			Start:       "2024-06-10T14:30:00+03:00",
			End:         "2024-06-10T15:30:00+03:00",
			Location:    "Helsinki",
			Description: longDescription,
		}, table)

		require.NoError(t, err)
		assert.Equal(t, "No Title", event.Title)
		assert.Equal(t, "Helsinki", event.Location)
		assert.Len(t, []rune(event.Description), maxDescriptionRunes)
		assert.Equal(t, "2024-06-10T14:30:00+03:00", event.Date)
	})

	t.Run("All-day classification is carried over", func(t *testing.T) {
		event, err := NewDisplayEvent(RawEvent{
			Title: "Juhannus",
			Start: "2024-06-21",
			End:   "2024-06-22",
		}, table)

		require.NoError(t, err)
		assert.True(t, event.AllDay)
		assert.False(t, event.MultiDay)
	})
}
