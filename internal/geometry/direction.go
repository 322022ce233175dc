package geometry

import (
	"sort"

	"busmap.org/internal/models"
	"busmap.org/internal/utils"
)

// StopBearing returns the direction of travel at a stop along a shape: the
// bearing from the stop toward the shape point after the closest one.
func StopBearing(points []models.CoordinatePoint, lat, lon float64) (float64, bool) {
	if len(points) < 2 {
		return 0, false
	}

	closestIdx := findClosestShapePoint(points, lat, lon)
	if closestIdx < len(points)-1 {
		next := points[closestIdx+1]
		return utils.BearingBetweenPoints(lat, lon, next.Lat, next.Lon), true
	}

	prev := points[closestIdx-1]
	return utils.BearingBetweenPoints(prev.Lat, prev.Lon, lat, lon), true
}

// NextStopBearing returns the bearing from stopID toward the stop after it
// on the trip.
func NextStopBearing(stops []models.TripStop, stopID string) (float64, bool) {
	ordered := sortedStops(stops)
	for i := 0; i < len(ordered)-1; i++ {
		if ordered[i].StopID == stopID {
			cur, next := ordered[i], ordered[i+1]
			return utils.BearingBetweenPoints(cur.Lat, cur.Lon, next.Lat, next.Lon), true
		}
	}
	return 0, false
}

func findClosestShapePoint(points []models.CoordinatePoint, lat, lon float64) int {
	closestIdx := 0
	minDistance := utils.DistanceMeters(lat, lon, points[0].Lat, points[0].Lon)

	for i, point := range points[1:] {
		distance := utils.DistanceMeters(lat, lon, point.Lat, point.Lon)
		if distance < minDistance {
			minDistance = distance
			closestIdx = i + 1
		}
	}

	return closestIdx
}

func sortedStops(stops []models.TripStop) []models.TripStop {
	ordered := make([]models.TripStop, len(stops))
	copy(ordered, stops)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StopSequence < ordered[j].StopSequence
	})
	return ordered
}
