package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodPost, "/api/viewport", validateAPIKey(api, api.viewportHandler))
	router.Handler(http.MethodPost, "/api/viewport/around", validateAPIKey(api, api.aroundHandler))
	router.Handler(http.MethodGet, "/api/viewport/default", validateAPIKey(api, api.defaultViewportHandler))
	router.Handler(http.MethodGet, "/api/groups", validateAPIKey(api, api.groupsHandler))
	router.Handler(http.MethodGet, "/api/groups/:key/selection", validateAPIKey(api, api.groupSelectionHandler))
	router.Handler(http.MethodGet, "/api/stops/:id/selection", validateAPIKey(api, api.stopSelectionHandler))
	router.Handler(http.MethodGet, "/api/selection", validateAPIKey(api, api.currentSelectionHandler))
	router.Handler(http.MethodDelete, "/api/selection", validateAPIKey(api, api.clearSelectionHandler))
	router.Handler(http.MethodPost, "/api/reload", validateAPIKey(api, api.reloadHandler))
	router.Handler(http.MethodGet, "/api/status", validateAPIKey(api, api.statusHandler))
	router.Handler(http.MethodGet, "/api/current-time", validateAPIKey(api, api.currentTimeHandler))

	if api.metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.metrics)
	}

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}
