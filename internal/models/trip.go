package models

// Trip is one run of a vehicle along a route with its own shape and stops.
type Trip struct {
	AgencyID     string       `json:"agency_id" validate:"required"`
	RouteID      string       `json:"route_id" validate:"required"`
	TripID       string       `json:"trip_id" validate:"required"`
	WireUniqueID string       `json:"unique_id,omitempty"`
	ServiceID    string       `json:"service_id"`
	ShapeID      string       `json:"shape_id"`
	Headsign     string       `json:"headsign"`
	DirectionID  int          `json:"direction_id"`
	ShapePoints  []ShapePoint `json:"shape_points"`
	Stops        []TripStop   `json:"stops" validate:"dive"`
}

func (t *Trip) UniqueID() string {
	return UniqueID(t.AgencyID, t.TripID)
}

func (t *Trip) Points() []CoordinatePoint {
	points := make([]CoordinatePoint, len(t.ShapePoints))
	for i, p := range t.ShapePoints {
		points[i] = p.Point()
	}
	return points
}
