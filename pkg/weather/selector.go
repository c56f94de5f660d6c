package weather

import "time"

// SelectSlots reduces an irregular forecast series to one slot per requested
// offset. For each offset the sample closest to now+offset in absolute
// seconds wins; on a tie the sample appearing first in the series wins, so
// the result is deterministic for a given input order.
//
// An empty sample series yields an empty result, not an error: missing
// forecast data degrades the payload, it never fails it. Otherwise the result
// has exactly one slot per offset; offsets may repeat and are resolved
// independently.
//
// The scan is linear per offset. Both dimensions are small bounded constants
// here (four offsets, a few dozen samples), so no index is warranted.
func SelectSlots(samples []Sample, now time.Time, offsets []time.Duration, loc *time.Location) []Slot {
	slots := make([]Slot, 0, len(offsets))
	if len(samples) == 0 {
		return slots
	}

	for _, offset := range offsets {
		target := now.Add(offset)

		best := samples[0]
		bestDistance := absDuration(samples[0].Timestamp.Sub(target))
		for _, sample := range samples[1:] {
			// Strict less-than keeps the earliest sample on ties.
			if distance := absDuration(sample.Timestamp.Sub(target)); distance < bestDistance {
				best = sample
				bestDistance = distance
			}
		}

		local := best.Timestamp.In(loc)
		slots = append(slots, Slot{
			TimeLabel:   local.Format("15:04"),
			Hour:        local.Hour(),
			Temperature: int(best.Temperature),
			Icon:        best.Icon,
			Description: best.Description,
		})
	}
	return slots
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
