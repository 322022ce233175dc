package app

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"time"

	"busmap.org/internal/logging"
	"busmap.org/internal/models"
	"busmap.org/internal/stopgroups"
	"busmap.org/internal/utils"
)

// Wider zooms only ask for trains and ferries.
var wideZoomRouteTypes = []models.RouteType{models.Tram, models.Subway, models.Rail, models.Ferry}

const (
	viewportWidthPx  = 1024
	viewportHeightPx = 768
	tileSizePx       = 256

	saveLocationTimeout = 2 * time.Second
)

// OnViewportChanged is called whenever the map stops moving. While the
// current selection is still on screen nothing is fetched; otherwise the
// selection is dropped and stops for vp are requested. It reports whether a
// fetch was started.
func (a *Application) OnViewportChanged(vp models.Viewport) bool {
	a.mu.Lock()
	if a.selection != nil {
		if utils.BoundsIntersectsPath(vp.Bounds, selectionPath(a.selection)) {
			stopID := a.selection.StopID
			a.mu.Unlock()
			a.Logger.Debug("selection still visible, keeping it",
				slog.String("component", "app"),
				slog.String("stop", stopID))
			return false
		}
		a.clearSelectionLocked()
	}
	a.mu.Unlock()

	_, started := a.viewport.Request(vp)
	if !started {
		a.observer.ObserveViewport("rejected")
	}
	return started
}

// Reload fetches the latest viewport again, or the default one when the
// map hasn't reported a viewport yet.
func (a *Application) Reload() bool {
	vp := a.viewport.Latest()
	if vp.Zoom == 0 && vp.Center == (models.CoordinatePoint{}) {
		vp = a.DefaultViewport()
	}
	_, started := a.viewport.Request(vp)
	return started
}

// RouteTypesFor returns the route type filter sent for zoom.
func (a *Application) RouteTypesFor(zoom int) []models.RouteType {
	if zoom < a.Config.Map.CloseZoom {
		return slices.Clone(wideZoomRouteTypes)
	}
	return nil
}

// DefaultViewport is where the map goes when there is nothing to show.
func (a *Application) DefaultViewport() models.Viewport {
	center := models.CoordinatePoint{Lat: a.Config.Map.DefaultLat, Lon: a.Config.Map.DefaultLon}
	return ViewportAround(center, a.Config.Map.DefaultZoom)
}

// InitialViewport centers the map on the stored location when there is one.
func (a *Application) InitialViewport(ctx context.Context) models.Viewport {
	if a.locations == nil {
		return a.DefaultViewport()
	}

	p, _, err := a.locations.Load(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logging.LogError(a.Logger, "failed to load last location", err,
				slog.String("component", "app"))
		}
		return a.DefaultViewport()
	}
	return ViewportAround(p, a.Config.Map.DefaultZoom)
}

// ViewportAround approximates the bounds a typical screen shows around
// center at zoom.
func ViewportAround(center models.CoordinatePoint, zoom int) models.Viewport {
	lonSpan := float64(viewportWidthPx) / tileSizePx * 360 / math.Exp2(float64(zoom))
	latSpan := lonSpan * viewportHeightPx / viewportWidthPx * math.Cos(center.Lat*math.Pi/180)

	return models.Viewport{
		Center: center,
		Bounds: models.NewBounds(
			models.CoordinatePoint{Lat: center.Lat - latSpan/2, Lon: center.Lon - lonSpan/2},
			models.CoordinatePoint{Lat: center.Lat + latSpan/2, Lon: center.Lon + lonSpan/2},
		),
		Zoom: zoom,
	}
}

func (a *Application) fetchHere(ctx context.Context, vp models.Viewport) (*models.HereResponse, error) {
	a.mu.RLock()
	filter := a.filter
	a.mu.RUnlock()

	return a.source.Here(ctx, models.HereQuery{
		Lat:        vp.Center.Lat,
		Lon:        vp.Center.Lon,
		Bounds:     vp.Bounds,
		RouteTypes: a.RouteTypesFor(vp.Zoom),
		Filter:     filter,
	})
}

// applyHere replaces the stop groups with those of resp. Routes and trips
// in the reply are added to the session caches first so the grouper can
// derive bearings from them.
func (a *Application) applyHere(gen uint64, vp models.Viewport, resp *models.HereResponse) {
	for _, r := range resp.Routes {
		a.routes.Add(r.UniqueID(), r)
	}
	for _, t := range resp.Trips {
		a.trips.Add(t.UniqueID(), t)
	}

	groups := a.grouper.Group(resp.Stops)

	a.mu.Lock()
	a.groups = groups
	a.applied = gen
	a.lastErr = nil
	if len(resp.Filter) > 0 {
		a.filter = resp.Filter
	}
	if groups.Len() == 0 {
		a.status = StatusEmpty
	} else {
		a.status = StatusReady
	}
	a.mu.Unlock()

	a.observer.ObserveViewport("applied")
	a.observer.SetGroups(groups.Len())
	a.recordCaches()

	logging.LogOperation(a.Logger, "viewport_applied",
		slog.String("component", "app"),
		slog.Uint64("generation", gen),
		slog.Int("stops", len(resp.Stops)),
		slog.Int("groups", groups.Len()))

	a.saveLocation(vp.Center)
}

// failHere shows the empty state. The next viewport change or a reload is
// the retry.
func (a *Application) failHere(gen uint64, vp models.Viewport, err error) {
	a.mu.Lock()
	a.groups = stopgroups.Empty()
	a.applied = gen
	a.status = StatusFailed
	a.lastErr = err
	a.mu.Unlock()

	a.observer.ObserveViewport("failed")
	a.observer.SetGroups(0)
}

func (a *Application) saveLocation(p models.CoordinatePoint) {
	if a.locations == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveLocationTimeout)
	defer cancel()

	if err := a.locations.Save(ctx, p); err != nil {
		logging.LogError(a.Logger, "failed to save last location", err,
			slog.String("component", "app"))
	}
}
