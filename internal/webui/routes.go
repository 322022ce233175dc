// Package webui serves a plain HTML dump of session state for debugging.
package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"busmap.org/internal/app"
)

type WebUI struct {
	App *app.Application
}

// SetWebUIRoutes mounts the debug pages. They are only served outside
// production.
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
