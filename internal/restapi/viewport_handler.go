package restapi

import (
	"encoding/json"
	"net/http"

	"busmap.org/internal/app"
	"busmap.org/internal/models"
	"busmap.org/internal/utils"
)

const maxViewportBody = 4 << 10

type viewportRequest struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	SWLat float64 `json:"sw_lat"`
	SWLon float64 `json:"sw_lon"`
	NELat float64 `json:"ne_lat"`
	NELon float64 `json:"ne_lon"`
	Zoom  int     `json:"zoom"`
}

func (v viewportRequest) viewport() models.Viewport {
	return models.Viewport{
		Center: models.CoordinatePoint{Lat: v.Lat, Lon: v.Lon},
		Bounds: models.Bounds{
			SW: models.CoordinatePoint{Lat: v.SWLat, Lon: v.SWLon},
			NE: models.CoordinatePoint{Lat: v.NELat, Lon: v.NELon},
		},
		Zoom: v.Zoom,
	}
}

type viewportResult struct {
	Started bool             `json:"started"`
	Status  app.StatusReport `json:"status"`
}

// viewportHandler takes the map's new viewport. With wait=true it answers
// once the fetch has been applied.
func (api *RestAPI) viewportHandler(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxViewportBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {"Invalid viewport: " + err.Error()},
		})
		return
	}

	fieldErrors := utils.ValidateViewportParams(req.Lat, req.Lon, req.SWLat, req.SWLon, req.NELat, req.NELon, req.Zoom)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	started := api.OnViewportChanged(req.viewport())

	if r.URL.Query().Get("wait") == "true" {
		done := make(chan struct{})
		go func() {
			api.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-r.Context().Done():
			return
		}
	}

	api.sendResponse(w, r, models.NewEntryResponse(viewportResult{
		Started: started,
		Status:  api.Status(),
	}))
}

// aroundHandler moves the map to lat and lon, keeping the current zoom
// unless one is given.
func (api *RestAPI) aroundHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, fieldErrors := utils.ParseFloatParam(query, "lat", nil)
	lon, fieldErrors := utils.ParseFloatParam(query, "lon", fieldErrors)
	zoom, fieldErrors := utils.ParseIntParam(query, "zoom", fieldErrors)
	for _, key := range []string{"lat", "lon"} {
		if !query.Has(key) {
			fieldErrors[key] = append(fieldErrors[key], "Missing required field "+key+".")
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if !query.Has("zoom") {
		zoom = api.Config.Map.DefaultZoom
		if current := api.Status().Viewport; current.Zoom > 0 {
			zoom = current.Zoom
		}
	}

	vp := app.ViewportAround(models.CoordinatePoint{Lat: lat, Lon: lon}, zoom)
	fieldErrors = utils.ValidateViewportParams(lat, lon, vp.Bounds.SW.Lat, vp.Bounds.SW.Lon, vp.Bounds.NE.Lat, vp.Bounds.NE.Lon, zoom)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	started := api.OnViewportChanged(vp)
	api.sendResponse(w, r, models.NewEntryResponse(viewportResult{
		Started: started,
		Status:  api.Status(),
	}))
}

// defaultViewportHandler tells an empty map where to go.
func (api *RestAPI) defaultViewportHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(api.DefaultViewport()))
}

func (api *RestAPI) reloadHandler(w http.ResponseWriter, r *http.Request) {
	started := api.Reload()
	api.sendResponse(w, r, models.NewEntryResponse(viewportResult{
		Started: started,
		Status:  api.Status(),
	}))
}

func (api *RestAPI) statusHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(api.Status()))
}
