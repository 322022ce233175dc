package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"status", "groups", "selection", "routes", "trips", "config"}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// debugIndexHandler dumps a piece of session state chosen by ?dataType=.
func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "status":
		data = webUI.App.Status()
		title = "Session - Status"
	case "groups":
		data = webUI.App.GetGroupedStops()
		title = "Session - Stop Groups"
	case "selection":
		data, _ = webUI.App.Selection()
		title = "Session - Selection"
	case "routes":
		data = webUI.App.CachedRoutes()
		title = "Cache - Routes"
	case "trips":
		data = webUI.App.CachedTrips()
		title = "Cache - Trips"
	case "config":
		cfg := webUI.App.Config
		cfg.ApiKeys = nil
		cfg.DataSource.AuthHeaderValue = ""
		data = cfg
		title = "Configuration"
	default:
		data = map[string][]string{
			"Please use one of the following": dataTypes,
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
