// Package geometry turns route and trip records into the lines and markers
// drawn for a selected stop.
package geometry

import (
	"log/slog"

	"github.com/twpayne/go-polyline"

	"busmap.org/internal/models"
)

// Style holds the drawing constants for selections.
type Style struct {
	Weight          int
	BeforeOpacity   float64
	AfterOpacity    float64
	StopRadius      int
	FirstStopRadius int
	VehicleColor    string
}

func DefaultStyle() Style {
	return Style{
		Weight:          4,
		BeforeOpacity:   0.2,
		AfterOpacity:    1.0,
		StopRadius:      15,
		FirstStopRadius: 20,
		VehicleColor:    "#000000",
	}
}

type Builder struct {
	style  Style
	logger *slog.Logger
}

func NewBuilder(style Style, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		style:  style,
		logger: logger.With(slog.String("component", "geometry")),
	}
}

// TripSelection draws a selected stop using the trip it departs on. route
// only contributes its color and may be nil.
func (b *Builder) TripSelection(stop *models.Stop, route *models.Route, trip *models.Trip) models.Selection {
	color := routeColor(stop, route)

	sel := models.Selection{
		StopID:   stop.UniqueID(),
		RouteKey: stop.RouteKey(),
		TripKey:  trip.UniqueID(),
	}
	sel.BeforeLine, sel.AfterLine = b.TripLines(trip, stop, color)
	sel.StopMarkers, sel.Labels = b.TripMarkers(trip, stop, color)
	sel.VehicleMarkers = b.VehicleMarkers(stop, routeType(stop, route))

	return sel
}

// RouteSelection draws a selected stop from route data alone, used when the
// stop's trip isn't available.
func (b *Builder) RouteSelection(stop *models.Stop, route *models.Route) models.Selection {
	sel := models.Selection{
		StopID:   stop.UniqueID(),
		RouteKey: route.UniqueID(),
	}

	lines := b.RouteLines(route, stop)
	if len(lines) >= 2 {
		sel.BeforeLine, sel.AfterLine = lines[0], lines[1]
		sel.RouteLines = lines[2:]
	}
	sel.StopMarkers, sel.Labels = b.RouteMarkers(route, stop)
	sel.VehicleMarkers = b.VehicleMarkers(stop, route.Type)

	return sel
}

// TripLines splits the trip shape at the stop.
func (b *Builder) TripLines(trip *models.Trip, stop *models.Stop, color string) (models.Polyline, models.Polyline) {
	split := SplitShape(trip.Points(), stop.Point())
	if !split.Matched {
		b.logger.Debug("stop not on trip shape, drawing whole shape",
			slog.String("stop", stop.UniqueID()),
			slog.String("trip", trip.UniqueID()))
	}
	return b.line(split.Before, color, b.style.BeforeOpacity), b.line(split.After, color, b.style.AfterOpacity)
}

// RouteLines returns a before and after line for every route shape running
// in the stop's direction. Shapes of the other direction are left out.
func (b *Builder) RouteLines(route *models.Route, stop *models.Stop) []models.Polyline {
	var lines []models.Polyline
	color := routeColor(stop, route)

	for _, shape := range route.ShapesForDirection(stop.DirectionID) {
		points := make([]models.CoordinatePoint, len(shape.Shapes))
		for i, p := range shape.Shapes {
			points[i] = p.Point()
		}

		split := SplitShape(points, stop.Point())
		lines = append(lines,
			b.line(split.Before, color, b.style.BeforeOpacity),
			b.line(split.After, color, b.style.AfterOpacity),
		)
	}

	return lines
}

// TripMarkers emits markers and labels for the selected stop and every stop
// after it on the trip. Earlier stops are left out.
func (b *Builder) TripMarkers(trip *models.Trip, stop *models.Stop, color string) ([]models.Marker, []models.Label) {
	ordered := sortedStops(trip.Stops)

	start := -1
	for i, ts := range ordered {
		if ts.StopID == stop.StopID {
			start = i
			break
		}
	}
	if start < 0 {
		for i, ts := range ordered {
			if ts.StopSequence >= stop.StopSequence {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return []models.Marker{b.hereMarker(stop.StopID, stop.Lat, stop.Lon, color)}, []models.Label{}
	}

	return b.stopMarkers(ordered[start:], stop, color)
}

// RouteMarkers is TripMarkers for route stops: stops in the selected
// stop's direction from its stop_sequence on.
func (b *Builder) RouteMarkers(route *models.Route, stop *models.Stop) ([]models.Marker, []models.Label) {
	var upcoming []models.TripStop
	for _, rs := range sortedStops(route.Stops) {
		if rs.DirectionID != stop.DirectionID {
			continue
		}
		if rs.StopSequence < stop.StopSequence {
			continue
		}
		upcoming = append(upcoming, rs)
	}

	return b.stopMarkers(upcoming, stop, routeColor(stop, route))
}

func (b *Builder) stopMarkers(stops []models.TripStop, selected *models.Stop, color string) ([]models.Marker, []models.Label) {
	markers := make([]models.Marker, 0, len(stops)+1)
	labels := make([]models.Label, 0, len(stops))

	for _, ts := range stops {
		radius := b.style.StopRadius
		if ts.StopID == selected.StopID {
			radius = b.style.FirstStopRadius
			markers = append(markers, b.hereMarker(ts.StopID, ts.Lat, ts.Lon, color))
		}

		markers = append(markers, models.Marker{
			Kind:        models.MarkerStop,
			StopID:      ts.StopID,
			Lat:         ts.Lat,
			Lon:         ts.Lon,
			Radius:      radius,
			Color:       color,
			FillColor:   color,
			Opacity:     b.style.AfterOpacity,
			FillOpacity: b.style.AfterOpacity,
		})
		labels = append(labels, models.Label{
			StopID: ts.StopID,
			Text:   ts.Label(),
			Lat:    ts.Lat,
			Lon:    ts.Lon,
		})
	}

	return markers, labels
}

func (b *Builder) hereMarker(stopID string, lat, lon float64, color string) models.Marker {
	return models.Marker{
		Kind:        models.MarkerHere,
		StopID:      stopID,
		Lat:         lat,
		Lon:         lon,
		Radius:      b.style.FirstStopRadius,
		Color:       color,
		FillColor:   "#FFFFFF",
		Opacity:     b.style.AfterOpacity,
		FillOpacity: b.style.AfterOpacity,
	}
}

// VehicleMarkers emits one marker per live vehicle on the stop.
func (b *Builder) VehicleMarkers(stop *models.Stop, rt models.RouteType) []models.Marker {
	icon := VehicleIconFor(rt)

	markers := make([]models.Marker, 0, len(stop.Vehicles))
	for _, v := range stop.Vehicles {
		if !v.Live {
			continue
		}
		markers = append(markers, models.Marker{
			Kind:    models.MarkerVehicle,
			Lat:     v.Lat,
			Lon:     v.Lon,
			Color:   b.style.VehicleColor,
			Opacity: b.style.AfterOpacity,
			Icon:    icon,
		})
	}
	return markers
}

// VehicleIconFor picks the bus icon for buses and the train icon for
// everything else.
func VehicleIconFor(rt models.RouteType) models.VehicleIcon {
	if rt == models.Bus {
		return models.IconBus
	}
	return models.IconTrain
}

func (b *Builder) line(points []models.CoordinatePoint, color string, opacity float64) models.Polyline {
	return models.Polyline{
		Points:  points,
		Encoded: Encode(points),
		Color:   color,
		Weight:  b.style.Weight,
		Opacity: opacity,
	}
}

// Encode returns points in Google encoded polyline format.
func Encode(points []models.CoordinatePoint) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

func routeColor(stop *models.Stop, route *models.Route) string {
	if route != nil && route.Color != "" {
		return route.Color
	}
	return stop.RouteColor
}

func routeType(stop *models.Stop, route *models.Route) models.RouteType {
	if route != nil {
		return route.Type
	}
	return stop.RouteType
}
