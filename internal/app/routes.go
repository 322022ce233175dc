package app

import (
	"context"
	"log/slog"
	"time"

	"busmap.org/internal/logging"
	"busmap.org/internal/models"
)

// LoadInitialRoutes fills the route cache with every route the data source
// knows about.
func (a *Application) LoadInitialRoutes(ctx context.Context) (int, error) {
	start := time.Now()

	routes, err := a.source.Routes(ctx)
	if err != nil {
		logging.LogError(a.Logger, "failed to load routes", err,
			slog.String("component", "app"))
		return 0, err
	}

	added := 0
	for _, r := range routes {
		if a.routes.Add(r.UniqueID(), r) {
			added++
		}
	}
	a.recordCaches()

	logging.LogOperation(a.Logger, "routes_loaded",
		slog.String("component", "app"),
		slog.Int("routes_count", len(routes)),
		slog.Int("added", added),
		slog.Duration("duration", time.Since(start)))

	return added, nil
}

// Route returns a cached route.
func (a *Application) Route(agencyID, routeID string) (*models.Route, bool) {
	return a.routes.Get(models.UniqueID(agencyID, routeID))
}

// Trip returns a cached trip.
func (a *Application) Trip(agencyID, tripID string) (*models.Trip, bool) {
	return a.trips.Get(models.UniqueID(agencyID, tripID))
}

// CachedRoutes returns every route in the session cache.
func (a *Application) CachedRoutes() []*models.Route {
	return a.routes.Values()
}

// CachedTrips returns every trip in the session cache.
func (a *Application) CachedTrips() []*models.Trip {
	return a.trips.Values()
}
