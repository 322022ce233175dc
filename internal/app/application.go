// Package app holds the state of one map session: the stop groups of the
// current viewport, the session caches and the current selection.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"busmap.org/internal/appconf"
	"busmap.org/internal/cache"
	"busmap.org/internal/geometry"
	"busmap.org/internal/models"
	"busmap.org/internal/stopgroups"
	"busmap.org/internal/viewport"
)

// DataSource is the transit data API. *busapi.Client implements it.
type DataSource interface {
	Here(ctx context.Context, q models.HereQuery) (*models.HereResponse, error)
	Route(ctx context.Context, agencyID, routeID string) (*models.Route, error)
	Trip(ctx context.Context, agencyID, routeID, tripID string) (*models.Trip, error)
	Routes(ctx context.Context) ([]*models.Route, error)
}

// LocationStore persists the last known map center.
type LocationStore interface {
	Save(ctx context.Context, p models.CoordinatePoint) error
	Load(ctx context.Context) (models.CoordinatePoint, time.Time, error)
}

// Observer receives session events. *metrics.Collector implements it.
type Observer interface {
	ObserveViewport(result string)
	ObserveSelection(mode string)
	SetCacheEntries(cache string, n int)
	SetGroups(n int)
}

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// Application holds the dependencies and state of one map session. Any
// number of them can run side by side.
type Application struct {
	Config appconf.Config
	Logger *slog.Logger

	source    DataSource
	observer  Observer
	locations LocationStore

	routes   *cache.Cache[*models.Route]
	trips    *cache.Cache[*models.Trip]
	grouper  *stopgroups.Grouper
	builder  *geometry.Builder
	viewport *viewport.Coordinator[*models.HereResponse]

	mu           sync.RWMutex
	groups       *stopgroups.Groups
	status       Status
	lastErr      error
	applied      uint64
	filter       json.RawMessage
	selection    *models.Selection
	selectGen    uint64
	selectCancel context.CancelFunc
}

type Option func(*Application)

func WithObserver(o Observer) Option {
	return func(a *Application) {
		a.observer = o
	}
}

func WithLocationStore(s LocationStore) Option {
	return func(a *Application) {
		a.locations = s
	}
}

// WithStyle overrides the drawing constants of selections.
func WithStyle(style geometry.Style) Option {
	return func(a *Application) {
		a.builder = geometry.NewBuilder(style, a.Logger)
	}
}

func New(config appconf.Config, source DataSource, logger *slog.Logger, opts ...Option) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	policy, err := viewport.ParsePolicy(config.Map.ViewportPolicy)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:   config,
		Logger:   logger,
		source:   source,
		observer: nopObserver{},
		routes:   cache.New[*models.Route](),
		trips:    cache.New[*models.Trip](),
		groups:   stopgroups.Empty(),
		status:   StatusLoading,
	}
	a.builder = geometry.NewBuilder(geometry.DefaultStyle(), logger)
	for _, opt := range opts {
		opt(a)
	}

	a.grouper = stopgroups.New(logger, &cachedBearings{routes: a.routes, trips: a.trips})
	a.viewport = viewport.New(viewport.Config[*models.HereResponse]{
		Policy: policy,
		Fetch:  a.fetchHere,
		Apply:  a.applyHere,
		Fail:   a.failHere,
		Logger: logger,
	})

	return a, nil
}

// Close stops outstanding work. The location store is owned by the caller.
func (a *Application) Close() {
	a.viewport.Close()

	a.mu.Lock()
	if a.selectCancel != nil {
		a.selectCancel()
		a.selectCancel = nil
	}
	a.mu.Unlock()
}

// StatusReport is a snapshot of the session for display.
type StatusReport struct {
	Status     Status          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Groups     int             `json:"groups"`
	Generation uint64          `json:"generation"`
	Updating   bool            `json:"updating"`
	Viewport   models.Viewport `json:"viewport"`
	Routes     cache.Stats     `json:"routes_cache"`
	Trips      cache.Stats     `json:"trips_cache"`
}

func (a *Application) Status() StatusReport {
	a.mu.RLock()
	report := StatusReport{
		Status:     a.status,
		Groups:     a.groups.Len(),
		Generation: a.applied,
	}
	if a.lastErr != nil {
		report.Error = a.lastErr.Error()
	}
	a.mu.RUnlock()

	report.Updating = a.viewport.Busy()
	report.Viewport = a.viewport.Latest()
	report.Routes = a.routes.Stats()
	report.Trips = a.trips.Stats()
	return report
}

// Wait blocks until no viewport fetch is running.
func (a *Application) Wait() {
	a.viewport.Wait()
}

func (a *Application) recordCaches() {
	a.observer.SetCacheEntries("route", a.routes.Len())
	a.observer.SetCacheEntries("trip", a.trips.Len())
}

type nopObserver struct{}

func (nopObserver) ObserveViewport(string) {}
func (nopObserver) ObserveSelection(string) {}
func (nopObserver) SetCacheEntries(string, int) {}
func (nopObserver) SetGroups(int) {}
