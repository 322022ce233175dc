package models

type CoordinatePoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is a rectangular lat/lon viewport described by its south-west and
// north-east corners.
type Bounds struct {
	SW CoordinatePoint `json:"sw"`
	NE CoordinatePoint `json:"ne"`
}

// NewBounds builds Bounds from any two opposite corners.
func NewBounds(a, b CoordinatePoint) Bounds {
	return Bounds{
		SW: CoordinatePoint{Lat: min(a.Lat, b.Lat), Lon: min(a.Lon, b.Lon)},
		NE: CoordinatePoint{Lat: max(a.Lat, b.Lat), Lon: max(a.Lon, b.Lon)},
	}
}

// Contains reports whether p lies inside the bounds, edges included.
func (b Bounds) Contains(p CoordinatePoint) bool {
	return p.Lat >= b.SW.Lat && p.Lat <= b.NE.Lat &&
		p.Lon >= b.SW.Lon && p.Lon <= b.NE.Lon
}

// Intersects reports whether the two rectangles share any area or edge.
func (b Bounds) Intersects(other Bounds) bool {
	return other.NE.Lat >= b.SW.Lat && other.SW.Lat <= b.NE.Lat &&
		other.NE.Lon >= b.SW.Lon && other.SW.Lon <= b.NE.Lon
}

func (b Bounds) Center() CoordinatePoint {
	return CoordinatePoint{
		Lat: (b.SW.Lat + b.NE.Lat) / 2,
		Lon: (b.SW.Lon + b.NE.Lon) / 2,
	}
}

// Viewport is the visible map area.
type Viewport struct {
	Center CoordinatePoint `json:"center"`
	Bounds Bounds          `json:"bounds"`
	Zoom   int             `json:"zoom"`
}
