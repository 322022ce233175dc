package models

// Stop is a single stop for one route and direction. A physical stop that
// serves several routes shows up as several Stop records.
type Stop struct {
	AgencyID       string    `json:"agency_id" validate:"required"`
	RouteID        string    `json:"route_id" validate:"required"`
	StopID         string    `json:"stop_id" validate:"required"`
	TripID         string    `json:"trip_id"`
	DirectionID    int       `json:"direction_id"`
	StopSequence   int       `json:"stop_sequence"`
	Lat            float64   `json:"lat" validate:"latitude"`
	Lon            float64   `json:"lon" validate:"longitude"`
	CompassDir     *float64  `json:"compass_dir,omitempty"`
	Name           string    `json:"stop_name"`
	DisplayName    string    `json:"display_name"`
	Headsign       string    `json:"headsign"`
	RouteType      RouteType `json:"route_type"`
	RouteColor     string    `json:"route_color"`
	RouteTextColor string    `json:"route_text_color"`
	GroupExtraKey  string    `json:"group_extra_key"`
	WireUniqueID   string    `json:"unique_id,omitempty"`

	Departures Departures `json:"departures"`
	Vehicles   []Vehicle  `json:"vehicles,omitempty"`
}

// UniqueID identifies the stop record. The data source may qualify it with
// a trip when the same stop appears on several trips; that value wins.
func (s *Stop) UniqueID() string {
	if s.WireUniqueID != "" {
		return s.WireUniqueID
	}
	return UniqueID(s.AgencyID, s.RouteID, s.StopID)
}

func (s *Stop) RouteKey() string {
	return UniqueID(s.AgencyID, s.RouteID)
}

// DepartureTripID is the trip the stop is drawn with: its own trip_id, or
// else the trip of its first departure.
func (s *Stop) DepartureTripID() string {
	if s.TripID != "" {
		return s.TripID
	}
	if first, ok := s.Departures.First(); ok {
		return first.TripID
	}
	return ""
}

// TripKey is empty when the stop has no trip.
func (s *Stop) TripKey() string {
	tripID := s.DepartureTripID()
	if tripID == "" {
		return ""
	}
	return UniqueID(s.AgencyID, tripID)
}

func (s *Stop) Point() CoordinatePoint {
	return CoordinatePoint{Lat: s.Lat, Lon: s.Lon}
}

// Bearing returns the direction of travel at this stop. The stop's own
// compass_dir is preferred, then the first departure's.
func (s *Stop) Bearing() (float64, bool) {
	if s.CompassDir != nil {
		return *s.CompassDir, true
	}
	if first, ok := s.Departures.First(); ok && first.CompassDir != nil {
		return *first.CompassDir, true
	}
	return 0, false
}

// TripStop is a stop as listed on a route or trip, ordered by StopSequence.
type TripStop struct {
	StopID       string  `json:"stop_id" validate:"required"`
	Name         string  `json:"stop_name"`
	DisplayName  string  `json:"display_name"`
	DirectionID  int     `json:"direction_id"`
	StopSequence int     `json:"stop_sequence"`
	Lat          float64 `json:"lat" validate:"latitude"`
	Lon          float64 `json:"lon" validate:"longitude"`
}

func (s TripStop) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}
