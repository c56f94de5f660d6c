package payload

// Event is a single calendar entry in the form the display device consumes.
// The JSON field names are part of the device firmware contract and must not
// change.
type Event struct {
	Title       string `json:"title"`
	TimeLabel   string `json:"time"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	AllDay      bool   `json:"all_day"`
	MultiDay    bool   `json:"multiday"`
}

// Metadata carries the payload fields that are opaque to the packer: they are
// serialized as-is and never degraded.
type Metadata struct {
	CalendarID string `json:"calendar_id"`
}

// Payload is the complete transmission unit for one publish cycle.
type Payload struct {
	Events    []Event `json:"events"`
	Count     int     `json:"count"`
	Timestamp string  `json:"timestamp"`
	Metadata
}

func newPayload(events []Event, meta Metadata, timestamp string) Payload {
	return Payload{
		Events:    events,
		Count:     len(events),
		Timestamp: timestamp,
		Metadata:  meta,
	}
}
