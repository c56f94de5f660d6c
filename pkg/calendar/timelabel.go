package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkfeed/inkfeed/pkg/locale"
)

const (
	dateOnlyFormat = "2006-01-02"
	dayMonthFormat = "02.01"
)

// ErrMalformedTimestamp is returned when a raw start or end value can be
// parsed neither as a date nor as an RFC 3339 timestamp.
var ErrMalformedTimestamp = errors.New("malformed event timestamp")

// TimeLabel is the normalized temporal presentation of a single event.
type TimeLabel struct {
	Label    string
	AllDay   bool
	MultiDay bool
}

// NormalizeTime turns the raw start/end values of an event into a localized
// display label and classifies the event as all-day and/or multi-day.
//
// A value containing a time component ("T" delimiter) is a timed event;
// otherwise it is all-day. All-day end dates follow the calendar convention
// of being exclusive (the day after the last included day), so one day is
// subtracted before the displayed range is computed.
func NormalizeTime(startRaw, endRaw string, table locale.Table) (TimeLabel, error) {
	if strings.Contains(startRaw, "T") {
		return normalizeTimed(startRaw, endRaw, table)
	}
	return normalizeAllDay(startRaw, endRaw, table)
}

func normalizeTimed(startRaw, endRaw string, table locale.Table) (TimeLabel, error) {
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return TimeLabel{}, fmt.Errorf("start %q: %w", startRaw, ErrMalformedTimestamp)
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return TimeLabel{}, fmt.Errorf("end %q: %w", endRaw, ErrMalformedTimestamp)
	}

	if !sameDate(start, end) {
		return TimeLabel{
			Label:    rangeLabel(start, end, table),
			MultiDay: true,
		}, nil
	}
	return TimeLabel{
		Label: fmt.Sprintf("%s %s %s", table.WeekdayShort(start.Weekday()), start.Format(dayMonthFormat), start.Format("15:04")),
	}, nil
}

func normalizeAllDay(startRaw, endRaw string, table locale.Table) (TimeLabel, error) {
	start, err := time.Parse(dateOnlyFormat, startRaw)
	if err != nil {
		return TimeLabel{}, fmt.Errorf("start %q: %w", startRaw, ErrMalformedTimestamp)
	}
	end, err := time.Parse(dateOnlyFormat, endRaw)
	if err != nil {
		return TimeLabel{}, fmt.Errorf("end %q: %w", endRaw, ErrMalformedTimestamp)
	}

	// The stored end date is exclusive; the last included day is one earlier.
	end = end.AddDate(0, 0, -1)

	if !sameDate(start, end) {
		return TimeLabel{
			Label:    rangeLabel(start, end, table),
			AllDay:   true,
			MultiDay: true,
		}, nil
	}
	return TimeLabel{
		Label:  fmt.Sprintf("%s %s %s", table.WeekdayShort(start.Weekday()), start.Format(dayMonthFormat), table.AllDayLabel),
		AllDay: true,
	}, nil
}

func rangeLabel(start, end time.Time, table locale.Table) string {
	return fmt.Sprintf("%s %s - %s %s",
		table.WeekdayShort(start.Weekday()), start.Format(dayMonthFormat),
		table.WeekdayShort(end.Weekday()), end.Format(dayMonthFormat))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
