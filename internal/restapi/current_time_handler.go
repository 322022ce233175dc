package restapi

import (
	"net/http"
	"time"

	"busmap.org/internal/models"
)

// currentTimeHandler lets the map align its countdowns with the server clock.
func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if loc, err := api.Config.Location(); err == nil {
		now = now.In(loc)
	}
	api.sendResponse(w, r, models.NewEntryResponse(models.NewCurrentTimeModel(now)))
}
