package restapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRequired(t *testing.T) {
	api := createTestApi(t)

	rec, model := serveRequest(t, api, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "permission denied", model.Text)

	rec, _ = serveRequest(t, api, http.MethodGet, "/api/status?key=test", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestViewportHandler(t *testing.T) {
	api := createTestApi(t)

	rec, model := serveRequest(t, api, http.MethodPost, "/api/viewport?key=test&wait=true", viewportBody)
	require.Equal(t, http.StatusOK, rec.Code)

	entry := model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.Equal(t, true, entry["started"])
	status := entry["status"].(map[string]interface{})
	assert.Equal(t, "ready", status["status"])
	assert.Equal(t, float64(1), status["groups"])
}

func TestViewportHandlerValidation(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "latitude out of range",
			body:  `{"lat":100,"lon":-73.99,"sw_lat":40.75,"sw_lon":-74.0,"ne_lat":40.77,"ne_lon":-73.98,"zoom":16}`,
			field: "lat",
		},
		{
			name:  "zoom out of range",
			body:  `{"lat":40.76,"lon":-73.99,"sw_lat":40.75,"sw_lon":-74.0,"ne_lat":40.77,"ne_lon":-73.98,"zoom":40}`,
			field: "zoom",
		},
		{
			name:  "unknown field",
			body:  `{"lat":40.76,"center":1}`,
			field: "body",
		},
		{
			name:  "not json",
			body:  `lat=40.76`,
			field: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serveRequest(t, api, http.MethodPost, "/api/viewport?key=test", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"`+tt.field+`"`)
		})
	}
}

func TestAroundHandler(t *testing.T) {
	api := createTestApi(t)

	rec, model := serveRequest(t, api, http.MethodPost, "/api/viewport/around?key=test&lat=40.76&lon=-73.99", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.Equal(t, true, entry["started"])
	api.Wait()

	status := api.Status()
	assert.Equal(t, 16, status.Viewport.Zoom)
	assert.InDelta(t, 40.76, status.Viewport.Center.Lat, 1e-9)
	assert.Less(t, status.Viewport.Bounds.SW.Lat, 40.76)
	assert.Greater(t, status.Viewport.Bounds.NE.Lon, -73.99)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{name: "missing lat", query: "lon=-73.99", field: "lat"},
		{name: "bad lon", query: "lat=40.76&lon=west", field: "lon"},
		{name: "bad zoom", query: "lat=40.76&lon=-73.99&zoom=close", field: "zoom"},
		{name: "zoom out of range", query: "lat=40.76&lon=-73.99&zoom=30", field: "zoom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serveRequest(t, api, http.MethodPost, "/api/viewport/around?key=test&"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"`+tt.field+`"`)
		})
	}
}

func TestGroupsHandler(t *testing.T) {
	api := createTestApi(t)
	loadViewport(t, api)

	rec, model := serveRequest(t, api, http.MethodGet, "/api/groups?key=test&order=soonest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := model.Data.(map[string]interface{})["list"].([]interface{})
	require.Len(t, list, 1)
	group := list[0].(map[string]interface{})
	assert.Equal(t, "MTA|S1|0|", group["key"])
	assert.Equal(t, "N", group["compass"])
	assert.Equal(t, "5 Av/W 42 St", group["stop_name"])
	assert.Contains(t, []string{"2 min", "3 min"}, group["countdown"])

	rec, _ = serveRequest(t, api, http.MethodGet, "/api/groups?key=test&order=alphabetical", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStopSelectionHandler(t *testing.T) {
	api := createTestApi(t)
	loadViewport(t, api)

	rec, model := serveRequest(t, api, http.MethodGet, "/api/stops/MTA%7CM1%7CS1/selection?key=test", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entry := model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.Equal(t, "MTA|M1|S1", entry["stop_id"])
	assert.Equal(t, "MTA|T1", entry["trip_key"])

	rec, _ = serveRequest(t, api, http.MethodGet, "/api/selection?key=test", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serveRequest(t, api, http.MethodDelete, "/api/selection?key=test", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = serveRequest(t, api, http.MethodGet, "/api/selection?key=test", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectionNotFound(t *testing.T) {
	api := createTestApi(t)
	loadViewport(t, api)

	tests := []struct {
		name     string
		endpoint string
		status   int
	}{
		{name: "unknown stop", endpoint: "/api/stops/MTA%7CM9%7CS9/selection?key=test", status: http.StatusNotFound},
		{name: "unknown group", endpoint: "/api/groups/MTA%7CS9%7C0%7C/selection?key=test", status: http.StatusNotFound},
		{name: "unknown stop with opaque id", endpoint: "/api/stops/SNCF%7C%C5%BBoliborz%20(Quai%202)/selection?key=test", status: http.StatusNotFound},
		{name: "control character in id", endpoint: "/api/stops/MTA%7C%01S1/selection?key=test", status: http.StatusBadRequest},
		{name: "id too long", endpoint: "/api/stops/" + strings.Repeat("a", 201) + "/selection?key=test", status: http.StatusBadRequest},
		{name: "unknown route", endpoint: "/api/nothing?key=test", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serveRequest(t, api, http.MethodGet, tt.endpoint, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGroupSelectionHandler(t *testing.T) {
	api := createTestApi(t)
	loadViewport(t, api)

	rec, model := serveRequest(t, api, http.MethodGet, "/api/groups/MTA%7CS1%7C0%7C/selection?key=test", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entry := model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.Equal(t, "MTA|M1|S1", entry["stop_id"])
}

func TestReloadAndDefaultViewport(t *testing.T) {
	api := createTestApi(t)

	rec, model := serveRequest(t, api, http.MethodPost, "/api/reload?key=test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entry := model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.Equal(t, true, entry["started"])
	api.Wait()

	rec, model = serveRequest(t, api, http.MethodGet, "/api/viewport/default?key=test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entry = model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.Equal(t, float64(16), entry["zoom"])
}

func TestCurrentTimeHandler(t *testing.T) {
	api := createTestApi(t)

	rec, model := serveRequest(t, api, http.MethodGet, "/api/current-time?key=test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	entry := model.Data.(map[string]interface{})["entry"].(map[string]interface{})
	assert.NotEmpty(t, entry["readableTime"])
	assert.NotZero(t, entry["time"])
}

func TestMetricsEndpoint(t *testing.T) {
	api := createTestApi(t)
	loadViewport(t, api)

	rec, _ := serveRequest(t, api, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `busmap_viewport_results_total{result="applied"} 1`)
	assert.Contains(t, rec.Body.String(), "busmap_stop_groups 1")
}
