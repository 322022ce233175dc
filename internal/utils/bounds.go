package utils

import "busmap.org/internal/models"

// BoundsIntersectsPath reports whether any point of path lies inside bounds,
// or the bounding box of any consecutive pair of points overlaps bounds.
// Empty and single-point paths are tested for containment only.
func BoundsIntersectsPath(bounds models.Bounds, path []models.CoordinatePoint) bool {
	for _, p := range path {
		if bounds.Contains(p) {
			return true
		}
	}

	for i := 1; i < len(path); i++ {
		segment := models.NewBounds(path[i-1], path[i])
		if bounds.Intersects(segment) {
			return true
		}
	}

	return false
}
