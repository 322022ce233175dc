package models

import "errors"

var (
	// ErrNotFound is returned when a stop, route or trip can't be found
	// in the current state or in a cache.
	ErrNotFound = errors.New("not found")

	// ErrNoDepartures is returned for stops that carry no departures and
	// therefore have no bearing or next departure.
	ErrNoDepartures = errors.New("stop has no departures")

	// ErrMalformed is returned when a record from the data source is
	// missing required fields.
	ErrMalformed = errors.New("malformed record")
)
