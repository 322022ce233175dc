package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busmap.org/internal/models"
)

func TestParseCenter(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lon     string
		wantErr bool
	}{
		{name: "times square", lat: "40.758895", lon: "-73.9873197"},
		{name: "not a number", lat: "north", lon: "-73.98", wantErr: true},
		{name: "latitude out of range", lat: "91", lon: "0", wantErr: true},
		{name: "longitude out of range", lat: "0", lon: "181", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parseCenter(tt.lat, tt.lon)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, 40.758895, p.Lat, 1e-9)
		})
	}
}

func TestParseCenterArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    models.CoordinatePoint
		wantErr bool
	}{
		{name: "western longitude", arg: "40.76,-73.99", want: models.CoordinatePoint{Lat: 40.76, Lon: -73.99}},
		{name: "spaces around parts", arg: "-33.87, 151.21", want: models.CoordinatePoint{Lat: -33.87, Lon: 151.21}},
		{name: "missing comma", arg: "40.76", wantErr: true},
		{name: "bad longitude", arg: "40.76,west", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parseCenterArg(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Lat, p.Lat, 1e-9)
			assert.InDelta(t, tt.want.Lon, p.Lon, 1e-9)
		})
	}
}

func TestNearCommand(t *testing.T) {
	departure := time.Now().Add(6 * time.Minute).Format(time.RFC3339)

	var (
		mu        sync.Mutex
		hereQuery string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/here", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hereQuery = r.URL.RawQuery
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"stops":[{
			"agency_id":"MTA","route_id":"M1","stop_id":"S1","trip_id":"T1",
			"lat":40.76,"lon":-73.99,"compass_dir":0,
			"stop_name":"5 Av/W 42 St","display_name":"M1","headsign":"Harlem",
			"route_color":"#EE352E","route_text_color":"#FFFFFF",
			"departures":[{"time":%q,"live":true}]
		}]}`, departure)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"near", "--source", srv.URL, "--zoom", "16", "40.76,-73.99"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "5 Av/W 42 St")
	assert.Contains(t, out.String(), "to Harlem")
	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, hereQuery, "lat=40.76")
	assert.Contains(t, hereQuery, "lon=-73.99")
	assert.NotContains(t, hereQuery, "route_type", "zoom 16 asks for every route type")
}
