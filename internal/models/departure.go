package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Departure is a single upcoming departure from a stop.
type Departure struct {
	Time          time.Time  `json:"time"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	TripID        string     `json:"trip_id"`
	ServiceID     string     `json:"service_id"`
	Live          bool       `json:"live"`

	// CompassDir is the direction to the next stop
	CompassDir *float64 `json:"compass_dir,omitempty"`
}

// Departures holds the live and scheduled departures of a stop. The data
// source has sent two shapes over time: a flat array with a per-entry
// "live" flag, and an object with separate "live" and "scheduled" lists.
// Both decode into the same value.
type Departures struct {
	Live      []Departure `json:"live"`
	Scheduled []Departure `json:"scheduled"`
}

func NewDepartures(list ...Departure) Departures {
	var d Departures
	for _, dep := range list {
		if dep.Live {
			d.Live = append(d.Live, dep)
		} else {
			d.Scheduled = append(d.Scheduled, dep)
		}
	}
	return d
}

func (d *Departures) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = Departures{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []Departure
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("departures list: %w", err)
		}
		*d = NewDepartures(list...)
		return nil

	case '{':
		var split struct {
			Live      []Departure `json:"live"`
			Scheduled []Departure `json:"scheduled"`
		}
		if err := json.Unmarshal(trimmed, &split); err != nil {
			return fmt.Errorf("departures object: %w", err)
		}
		for i := range split.Live {
			split.Live[i].Live = true
		}
		for i := range split.Scheduled {
			split.Scheduled[i].Live = false
		}
		*d = Departures{Live: split.Live, Scheduled: split.Scheduled}
		return nil
	}

	return fmt.Errorf("%w: departures must be an array or object", ErrMalformed)
}

func (d Departures) Len() int {
	return len(d.Live) + len(d.Scheduled)
}

func (d Departures) IsEmpty() bool {
	return d.Len() == 0
}

// All returns every departure, live first, in source order.
func (d Departures) All() []Departure {
	all := make([]Departure, 0, d.Len())
	all = append(all, d.Live...)
	return append(all, d.Scheduled...)
}

// First returns the first departure in source order, which the data source
// sends as the soonest. Live entries come first when present.
func (d Departures) First() (Departure, bool) {
	if len(d.Live) > 0 {
		return d.Live[0], true
	}
	if len(d.Scheduled) > 0 {
		return d.Scheduled[0], true
	}
	return Departure{}, false
}

// SortByTime returns a copy of list ordered by departure time.
func SortByTime(list []Departure) []Departure {
	sorted := make([]Departure, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}
