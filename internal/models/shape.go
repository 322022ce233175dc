package models

// ShapePoint is a single point of a route or trip shape
type ShapePoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p ShapePoint) Point() CoordinatePoint {
	return CoordinatePoint{Lat: p.Lat, Lon: p.Lon}
}
