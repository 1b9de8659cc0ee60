// Package model holds the shared domain records persisted or exchanged over
// the API.
package model

import "time"

// Airport is a resolved airport, keyed by its IATA code.
type Airport struct {
	IATA    string  `json:"iata"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	TZ      string  `json:"tz"`

	CreatedAt time.Time `json:"created_at"`
}
