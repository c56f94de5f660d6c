package weather

import "time"

// Sample is one raw forecast point as delivered by the provider. The series
// is irregular from the device's point of view: the provider decides the
// spacing (3-hourly for OpenWeatherMap).
type Sample struct {
	Timestamp   time.Time
	Temperature float64
	Icon        string
	Description string
}

// Slot is one forecast entry selected to represent a fixed future offset, in
// the shape the device consumes.
type Slot struct {
	TimeLabel   string `json:"time"`
	Hour        int    `json:"hour"`
	Temperature int    `json:"temp"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Current is the current-conditions block of the weather payload.
type Current struct {
	Temp        int    `json:"temp"`
	FeelsLike   int    `json:"feels_like"`
	Humidity    int    `json:"humidity"`
	Wind        int    `json:"wind"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Condition   string `json:"condition"`
	Pressure    int    `json:"pressure"`
	// Visibility is in kilometers.
	Visibility int `json:"visibility"`
}

// Payload is the complete weather transmission unit.
type Payload struct {
	Current   Current `json:"current"`
	Forecast  []Slot  `json:"forecast"`
	Date      string  `json:"date"`
	Timestamp string  `json:"timestamp"`
	Source    string  `json:"source"`
	City      string  `json:"city"`
	// Degraded is true when the forecast could not be fetched and the
	// payload carries current conditions only. The device renders what it
	// gets; the flag exists so a persistently failing forecast upstream is
	// distinguishable from "no forecast configured".
	Degraded bool `json:"degraded"`
}
