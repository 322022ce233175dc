package models

// Polyline is a line to draw on the map. Encoded holds the same points in
// Google encoded polyline format.
type Polyline struct {
	Points  []CoordinatePoint `json:"points"`
	Encoded string            `json:"encoded"`
	Color   string            `json:"color"`
	Weight  int               `json:"weight"`
	Opacity float64           `json:"opacity"`
}

func (p Polyline) IsEmpty() bool {
	return len(p.Points) == 0
}

type MarkerKind string

const (
	MarkerStop    MarkerKind = "stop"
	MarkerHere    MarkerKind = "here"
	MarkerVehicle MarkerKind = "vehicle"
)

type VehicleIcon string

const (
	IconBus   VehicleIcon = "bus"
	IconTrain VehicleIcon = "train"
)

type Marker struct {
	Kind        MarkerKind  `json:"kind"`
	StopID      string      `json:"stop_id,omitempty"`
	Lat         float64     `json:"lat"`
	Lon         float64     `json:"lon"`
	Radius      int         `json:"radius,omitempty"`
	Color       string      `json:"color"`
	FillColor   string      `json:"fill_color,omitempty"`
	Opacity     float64     `json:"opacity"`
	FillOpacity float64     `json:"fill_opacity"`
	Icon        VehicleIcon `json:"icon,omitempty"`
}

// Label is text attached to a stop marker.
type Label struct {
	StopID string  `json:"stop_id"`
	Text   string  `json:"text"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Selection is everything drawn for a selected stop.
type Selection struct {
	StopID         string     `json:"stop_id"`
	RouteKey       string     `json:"route_key"`
	TripKey        string     `json:"trip_key,omitempty"`
	BeforeLine     Polyline   `json:"before_line"`
	AfterLine      Polyline   `json:"after_line"`
	RouteLines     []Polyline `json:"route_lines,omitempty"`
	StopMarkers    []Marker   `json:"stop_markers"`
	Labels         []Label    `json:"labels"`
	VehicleMarkers []Marker   `json:"vehicle_markers"`
}
