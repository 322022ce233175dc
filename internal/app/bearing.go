package app

import (
	"busmap.org/internal/cache"
	"busmap.org/internal/geometry"
	"busmap.org/internal/models"
)

// cachedBearings derives a missing stop bearing from trips and routes
// already in the session caches. It never fetches.
type cachedBearings struct {
	routes *cache.Cache[*models.Route]
	trips  *cache.Cache[*models.Trip]
}

func (c *cachedBearings) ResolveBearing(stop *models.Stop) (float64, bool) {
	if key := stop.TripKey(); key != "" {
		if trip, ok := c.trips.Get(key); ok {
			if dir, ok := geometry.StopBearing(trip.Points(), stop.Lat, stop.Lon); ok {
				return dir, true
			}
			if dir, ok := geometry.NextStopBearing(trip.Stops, stop.StopID); ok {
				return dir, true
			}
		}
	}

	route, ok := c.routes.Get(stop.RouteKey())
	if !ok {
		return 0, false
	}
	for _, shape := range route.ShapesForDirection(stop.DirectionID) {
		points := make([]models.CoordinatePoint, len(shape.Shapes))
		for i, p := range shape.Shapes {
			points[i] = p.Point()
		}
		if dir, ok := geometry.StopBearing(points, stop.Lat, stop.Lon); ok {
			return dir, true
		}
	}
	return 0, false
}
