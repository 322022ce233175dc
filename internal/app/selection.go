package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"busmap.org/internal/logging"
	"busmap.org/internal/models"
	"busmap.org/internal/stopgroups"
)

// OnStopSelected draws the route of the stop with the given unique id. The
// route and trip are fetched together, from the session caches when
// possible. Without a trip the route's own shapes and stops are drawn; with
// neither the selection fails. A newer selection cancels this one, which
// then returns context.Canceled.
func (a *Application) OnStopSelected(ctx context.Context, stopID string) (*models.Selection, error) {
	a.mu.Lock()
	stop, _, ok := a.groups.FindStop(stopID)
	if !ok {
		a.mu.Unlock()
		return nil, fmt.Errorf("stop %s: %w", stopID, models.ErrNotFound)
	}

	if a.selectCancel != nil {
		a.selectCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	a.selectGen++
	gen := a.selectGen
	a.selectCancel = cancel
	a.mu.Unlock()
	defer cancel()

	var (
		route             *models.Route
		trip              *models.Trip
		routeErr, tripErr error
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		route, routeErr = a.routeFor(ctx, stop)
	}()
	go func() {
		defer wg.Done()
		trip, tripErr = a.tripFor(ctx, stop)
	}()
	wg.Wait()
	a.recordCaches()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sel models.Selection
	switch {
	case tripErr == nil:
		if routeErr != nil {
			route = nil
		}
		sel = a.builder.TripSelection(stop, route, trip)
		a.observer.ObserveSelection("trip")
	case routeErr == nil:
		a.Logger.Debug("trip unavailable, drawing route",
			slog.String("component", "app"),
			slog.String("stop", stopID),
			slog.String("error", tripErr.Error()))
		sel = a.builder.RouteSelection(stop, route)
		a.observer.ObserveSelection("route")
	default:
		a.observer.ObserveSelection("failed")
		err := fmt.Errorf("stop %s: %w", stopID, errors.Join(routeErr, tripErr))
		logging.LogError(a.Logger, "failed to select stop", err,
			slog.String("component", "app"))
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.selectGen {
		return nil, context.Canceled
	}
	a.selection = &sel
	a.selectCancel = nil

	return &sel, nil
}

// OnGroupSelected selects the soonest departing stop of a group.
func (a *Application) OnGroupSelected(ctx context.Context, key string) (*models.Selection, error) {
	a.mu.RLock()
	group, ok := a.groups.Get(key)
	a.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("group %s: %w", key, models.ErrNotFound)
	}

	stop, ok := group.First()
	if !ok {
		return nil, fmt.Errorf("group %s: %w", key, models.ErrNoDepartures)
	}
	return a.OnStopSelected(ctx, stop.UniqueID())
}

// Selection returns the current selection.
func (a *Application) Selection() (*models.Selection, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.selection, a.selection != nil
}

func (a *Application) ClearSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearSelectionLocked()
}

func (a *Application) clearSelectionLocked() {
	if a.selectCancel != nil {
		a.selectCancel()
		a.selectCancel = nil
	}
	a.selectGen++
	a.selection = nil
}

// GetGroupedStops returns the groups of the current viewport in the order
// the data source listed their stops.
func (a *Application) GetGroupedStops() []*models.StopGroup {
	return a.snapshot().List()
}

// GroupsByDeparture returns the groups soonest first.
func (a *Application) GroupsByDeparture() []*models.StopGroup {
	return a.snapshot().ByDeparture()
}

func (a *Application) snapshot() *stopgroups.Groups {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.groups
}

func (a *Application) routeFor(ctx context.Context, stop *models.Stop) (*models.Route, error) {
	return a.routes.GetOrFetch(ctx, stop.RouteKey(), func(ctx context.Context) (*models.Route, error) {
		return a.source.Route(ctx, stop.AgencyID, stop.RouteID)
	})
}

func (a *Application) tripFor(ctx context.Context, stop *models.Stop) (*models.Trip, error) {
	tripID := stop.DepartureTripID()
	if tripID == "" {
		return nil, fmt.Errorf("stop %s has no trip: %w", stop.UniqueID(), models.ErrNotFound)
	}
	return a.trips.GetOrFetch(ctx, stop.TripKey(), func(ctx context.Context) (*models.Trip, error) {
		return a.source.Trip(ctx, stop.AgencyID, stop.RouteID, tripID)
	})
}

// selectionPath is every point drawn for sel, used to tell whether the
// selection is still on screen.
func selectionPath(sel *models.Selection) []models.CoordinatePoint {
	var path []models.CoordinatePoint
	path = append(path, sel.BeforeLine.Points...)
	path = append(path, sel.AfterLine.Points...)
	for _, line := range sel.RouteLines {
		path = append(path, line.Points...)
	}
	return path
}
