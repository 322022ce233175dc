// Package restapi serves a map session over JSON for a browser map.
package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"busmap.org/internal/app"
)

type RestAPI struct {
	*app.Application
	metrics     http.Handler
	rateLimiter *RateLimitMiddleware
	mounts      []func(*httprouter.Router)
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter.
// metrics may be nil.
func NewRestAPI(app *app.Application, metrics http.Handler) *RestAPI {
	return &RestAPI{
		Application: app,
		metrics:     metrics,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Handler returns the router wrapped in the middleware stack.
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	for _, mount := range api.mounts {
		mount(router)
	}

	var handler http.Handler = router
	handler = api.rateLimiter.Handler(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = CompressionMiddleware(handler)
	return api.WithSecurityHeaders(handler)
}

// Mount registers extra routes, such as the debug pages. They get the same
// middleware as the API.
func (api *RestAPI) Mount(fn func(*httprouter.Router)) {
	api.mounts = append(api.mounts, fn)
}

// Stop releases the rate limiter's cleanup goroutine.
func (api *RestAPI) Stop() {
	api.rateLimiter.Stop()
}
