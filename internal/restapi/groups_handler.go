package restapi

import (
	"net/http"
	"time"

	"busmap.org/internal/models"
)

// groupsHandler lists the stop groups of the current viewport. order=soonest
// sorts them by next departure.
func (api *RestAPI) groupsHandler(w http.ResponseWriter, r *http.Request) {
	order := r.URL.Query().Get("order")
	if order != "" && order != "source" && order != "soonest" {
		api.validationErrorResponse(w, r, map[string][]string{
			"order": {`order must be "source" or "soonest"`},
		})
		return
	}

	views := api.GroupViews(time.Now(), order == "soonest")
	api.sendResponse(w, r, models.NewListResponse(views))
}
