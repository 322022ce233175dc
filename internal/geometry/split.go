package geometry

import (
	"busmap.org/internal/models"
	"busmap.org/internal/utils"
)

// Tolerances, in metres, for matching a stop to a shape point. The search
// starts at MinStopLineDist and widens by StopLineDistStep up to
// MaxStopLineDist.
const (
	MinStopLineDist  = 0.0
	StopLineDistStep = 5.0
	MaxStopLineDist  = 100.0
)

// Split is a shape cut at a stop. The matched point is the first point of
// After. When nothing matched, Before is empty and After is the whole shape.
type Split struct {
	Before    []models.CoordinatePoint
	After     []models.CoordinatePoint
	Tolerance float64
	Matched   bool
}

// SplitShape cuts points at the first point closer than the current
// tolerance to at, widening the tolerance until a point matches.
func SplitShape(points []models.CoordinatePoint, at models.CoordinatePoint) Split {
	for d := MinStopLineDist; d <= MaxStopLineDist; d += StopLineDistStep {
		if idx := firstWithin(points, at, d); idx >= 0 {
			return Split{
				Before:    clonePoints(points[:idx]),
				After:     clonePoints(points[idx:]),
				Tolerance: d,
				Matched:   true,
			}
		}
	}

	return Split{
		Before: []models.CoordinatePoint{},
		After:  clonePoints(points),
	}
}

func firstWithin(points []models.CoordinatePoint, at models.CoordinatePoint, d float64) int {
	for i, p := range points {
		if utils.DistanceMeters(p.Lat, p.Lon, at.Lat, at.Lon) < d {
			return i
		}
	}
	return -1
}

func clonePoints(points []models.CoordinatePoint) []models.CoordinatePoint {
	out := make([]models.CoordinatePoint, len(points))
	copy(out, points)
	return out
}
