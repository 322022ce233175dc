package app

import (
	"time"

	"busmap.org/internal/departures"
	"busmap.org/internal/models"
	"busmap.org/internal/utils"
)

// GroupView is a stop group as shown in a departures list.
type GroupView struct {
	Key            string     `json:"key"`
	StopName       string     `json:"stop_name"`
	Compass        string     `json:"compass"`
	CompassDir     float64    `json:"compass_dir"`
	RouteColor     string     `json:"route_color"`
	RouteTextColor string     `json:"route_text_color"`
	DisplayNames   []string   `json:"display_names"`
	MinDeparture   time.Time  `json:"min_departure"`
	Countdown      string     `json:"countdown"`
	Stops          []StopView `json:"stops"`
}

// StopView is one member of a group with its departures written out.
type StopView struct {
	UniqueID      string  `json:"unique_id"`
	RouteID       string  `json:"route_id"`
	DisplayName   string  `json:"display_name"`
	Headsign      string  `json:"headsign"`
	RouteColor    string  `json:"route_color"`
	Live          bool    `json:"live"`
	DepartureText string  `json:"departure_text"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
}

// GroupViews renders the current groups at now. bySoonest orders them by
// next departure instead of source order.
func (a *Application) GroupViews(now time.Time, bySoonest bool) []GroupView {
	groups := a.GetGroupedStops()
	if bySoonest {
		groups = a.GroupsByDeparture()
	}

	loc, err := a.Config.Location()
	if err != nil {
		loc = time.Local
	}

	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, NewGroupView(g, now, loc))
	}
	return views
}

func NewGroupView(g *models.StopGroup, now time.Time, loc *time.Location) GroupView {
	view := GroupView{
		Key:            g.Key,
		StopName:       g.StopName,
		Compass:        utils.BearingToCompass(g.CompassDir),
		CompassDir:     g.CompassDir,
		RouteColor:     g.RouteColor,
		RouteTextColor: g.RouteTextColor,
		DisplayNames:   g.DisplayNames,
		MinDeparture:   g.MinDeparture,
		Countdown:      departures.Countdown(g.MinDeparture, now),
		Stops:          make([]StopView, 0, len(g.Stops)),
	}

	for _, stop := range g.Stops {
		name := stop.DisplayName
		if name == "" {
			name = stop.RouteID
		}
		view.Stops = append(view.Stops, StopView{
			UniqueID:      stop.UniqueID(),
			RouteID:       stop.RouteID,
			DisplayName:   name,
			Headsign:      stop.Headsign,
			RouteColor:    stop.RouteColor,
			Live:          departures.IsLive(stop.Departures),
			DepartureText: departures.FormatDepartureText(departures.SelectDisplaySet(stop), loc),
			Lat:           stop.Lat,
			Lon:           stop.Lon,
		})
	}

	return view
}
