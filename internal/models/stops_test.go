package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopTripKey(t *testing.T) {
	tests := []struct {
		name       string
		stop       Stop
		wantTripID string
		wantKey    string
	}{
		{
			name:       "own trip",
			stop:       Stop{AgencyID: "MTA", TripID: "T1", Departures: NewDepartures(Departure{TripID: "T2", Live: true})},
			wantTripID: "T1",
			wantKey:    "MTA|T1",
		},
		{
			name:       "first live departure",
			stop:       Stop{AgencyID: "MTA", Departures: NewDepartures(Departure{TripID: "T3"}, Departure{TripID: "T2", Live: true})},
			wantTripID: "T2",
			wantKey:    "MTA|T2",
		},
		{
			name:       "first scheduled departure",
			stop:       Stop{AgencyID: "MTA", Departures: NewDepartures(Departure{TripID: "T3"}, Departure{TripID: "T4"})},
			wantTripID: "T3",
			wantKey:    "MTA|T3",
		},
		{
			name: "no trip at all",
			stop: Stop{AgencyID: "MTA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTripID, tt.stop.DepartureTripID())
			assert.Equal(t, tt.wantKey, tt.stop.TripKey())
		})
	}
}
