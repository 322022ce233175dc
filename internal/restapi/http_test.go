package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"busmap.org/internal/app"
	"busmap.org/internal/appconf"
	"busmap.org/internal/metrics"
	"busmap.org/internal/models"
)

type stubSource struct {
	stops []*models.Stop
	trips map[string]*models.Trip
}

func (s *stubSource) Here(ctx context.Context, q models.HereQuery) (*models.HereResponse, error) {
	return &models.HereResponse{Stops: s.stops}, nil
}

func (s *stubSource) Route(ctx context.Context, agencyID, routeID string) (*models.Route, error) {
	return nil, fmt.Errorf("route %s: %w", routeID, models.ErrNotFound)
}

func (s *stubSource) Trip(ctx context.Context, agencyID, routeID, tripID string) (*models.Trip, error) {
	if t, ok := s.trips[models.UniqueID(agencyID, tripID)]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
}

func (s *stubSource) Routes(ctx context.Context) ([]*models.Route, error) {
	return nil, nil
}

func testStops() []*models.Stop {
	dir := 0.0
	return []*models.Stop{{
		AgencyID:   "MTA",
		RouteID:    "M1",
		StopID:     "S1",
		TripID:     "T1",
		Lat:        40.76,
		Lon:        -73.99,
		CompassDir: &dir,
		Name:       "5 Av/W 42 St",
		RouteColor: "#EE352E",
		Departures: models.NewDepartures(models.Departure{Time: time.Now().Add(3 * time.Minute), Live: true}),
	}}
}

func testTrips() map[string]*models.Trip {
	return map[string]*models.Trip{
		"MTA|T1": {
			AgencyID: "MTA",
			RouteID:  "M1",
			TripID:   "T1",
			ShapePoints: []models.ShapePoint{
				{Lat: 40.75, Lon: -73.99}, {Lat: 40.76, Lon: -73.99}, {Lat: 40.77, Lon: -73.99},
			},
			Stops: []models.TripStop{
				{StopID: "S1", StopSequence: 1, Lat: 40.76, Lon: -73.99},
				{StopID: "S2", StopSequence: 2, Lat: 40.77, Lon: -73.99},
			},
		},
	}
}

// createTestApi builds a RestAPI over a stub data source. The API key is "test".
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()

	cfg := appconf.Default()
	cfg.Env = appconf.Test
	cfg.ApiKeys = []string{"test"}

	collector := metrics.NewCollector()
	application, err := app.New(cfg, &stubSource{stops: testStops(), trips: testTrips()}, nil, app.WithObserver(collector))
	require.NoError(t, err)

	api := NewRestAPI(application, collector.Handler())
	t.Cleanup(func() {
		api.Stop()
		application.Close()
	})
	return api
}

func serveRequest(t *testing.T, api *RestAPI, method, endpoint, body string) (*httptest.ResponseRecorder, models.ResponseModel) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, endpoint, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, endpoint, nil)
	}

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	var model models.ResponseModel
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &model)
	}
	return rec, model
}

const viewportBody = `{"lat":40.76,"lon":-73.99,"sw_lat":40.75,"sw_lon":-74.0,"ne_lat":40.77,"ne_lon":-73.98,"zoom":16}`

// loadViewport posts the test viewport and waits for it to be applied.
func loadViewport(t *testing.T, api *RestAPI) {
	t.Helper()
	rec, _ := serveRequest(t, api, http.MethodPost, "/api/viewport?key=test&wait=true", viewportBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
