package models

type RouteType int

// Route types as defined by GTFS.
const (
	Tram RouteType = iota
	Subway
	Rail
	Bus
	Ferry
	CableCar
	Gondola
	Funicular
)

var routeTypeNames = map[RouteType]string{
	Tram:      "tram",
	Subway:    "subway",
	Rail:      "rail",
	Bus:       "bus",
	Ferry:     "ferry",
	CableCar:  "cable_car",
	Gondola:   "gondola",
	Funicular: "funicular",
}

func (t RouteType) String() string {
	if name, ok := routeTypeNames[t]; ok {
		return name
	}
	return UnknownValue
}

type Route struct {
	RouteID      string       `json:"route_id" validate:"required"`
	AgencyID     string       `json:"agency_id" validate:"required"`
	Type         RouteType    `json:"route_type"`
	TypeName     string       `json:"route_type_name"`
	Color        string       `json:"route_color"`
	TextColor    string       `json:"route_text_color"`
	ShortName    string       `json:"route_short_name"`
	LongName     string       `json:"route_long_name"`
	WireUniqueID string       `json:"unique_id,omitempty"`
	RouteShapes  []RouteShape `json:"route_shapes" validate:"dive"`
	Stops        []TripStop   `json:"stops,omitempty" validate:"dive"`
}

// RouteShape is one shape drawn for a route in one direction.
type RouteShape struct {
	DirectionID int          `json:"direction_id"`
	Headsign    string       `json:"headsign"`
	ShapeID     string       `json:"shape_id"`
	Shapes      []ShapePoint `json:"shapes"`
}

func (r *Route) UniqueID() string {
	return UniqueID(r.AgencyID, r.RouteID)
}

// Normalize fills in derived fields the data source may leave empty.
func (r *Route) Normalize() {
	if r.TypeName == "" {
		r.TypeName = r.Type.String()
	}
	if r.Color == "" {
		r.Color = defaultColor
	}
	if r.TextColor == "" {
		r.TextColor = defaultTextColor
	}
}

// ShapesForDirection returns the route shapes travelling in direction.
func (r *Route) ShapesForDirection(direction int) []RouteShape {
	var shapes []RouteShape
	for _, shape := range r.RouteShapes {
		if shape.DirectionID == direction {
			shapes = append(shapes, shape)
		}
	}
	return shapes
}

// Points returns every shape point of the route, used for viewport tests.
func (r *Route) Points() []CoordinatePoint {
	var points []CoordinatePoint
	for _, shape := range r.RouteShapes {
		for _, p := range shape.Shapes {
			points = append(points, p.Point())
		}
	}
	return points
}
