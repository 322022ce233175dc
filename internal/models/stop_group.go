package models

import "time"

// StopGroup is the set of stops shown as a single row: same agency, same
// physical stop and same direction of travel, differing only by route.
type StopGroup struct {
	Key            string    `json:"key"`
	CompassDir     float64   `json:"compass_dir"`
	RouteColor     string    `json:"route_color"`
	RouteTextColor string    `json:"route_text_color"`
	Stops          []*Stop   `json:"stops"`
	DisplayNames   []string  `json:"display_names"`
	StopName       string    `json:"stop_name"`
	MinDeparture   time.Time `json:"min_departure"`
}

// First returns the member with the soonest departure.
func (g *StopGroup) First() (*Stop, bool) {
	if len(g.Stops) == 0 {
		return nil, false
	}
	return g.Stops[0], true
}
