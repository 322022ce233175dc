package restapi

import (
	"net/http"

	"busmap.org/internal/models"
	"busmap.org/internal/utils"
)

func (api *RestAPI) stopSelectionHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.PathParam(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	sel, err := api.OnStopSelected(r.Context(), id)
	if err != nil {
		api.selectionErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(sel))
}

func (api *RestAPI) groupSelectionHandler(w http.ResponseWriter, r *http.Request) {
	key := utils.PathParam(r, "key")
	if err := utils.ValidateID(key); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"key": {err.Error()}})
		return
	}

	sel, err := api.OnGroupSelected(r.Context(), key)
	if err != nil {
		api.selectionErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(sel))
}

func (api *RestAPI) currentSelectionHandler(w http.ResponseWriter, r *http.Request) {
	sel, ok := api.Selection()
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(sel))
}

func (api *RestAPI) clearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	api.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}
