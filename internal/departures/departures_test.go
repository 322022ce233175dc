package departures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busmap.org/internal/models"
)

var base = time.Date(2016, 3, 4, 13, 5, 0, 0, time.UTC)

func dep(offset time.Duration, live bool) models.Departure {
	return models.Departure{Time: base.Add(offset), Live: live}
}

func TestIsLive(t *testing.T) {
	assert.False(t, IsLive(models.Departures{}))
	assert.False(t, IsLive(models.NewDepartures(dep(0, false), dep(time.Minute, false))))
	assert.True(t, IsLive(models.NewDepartures(dep(0, false), dep(time.Minute, true))))
}

func TestSelectDisplaySet(t *testing.T) {
	t.Run("single live departure hides every scheduled one", func(t *testing.T) {
		stop := &models.Stop{Departures: models.NewDepartures(
			dep(0, false),
			dep(5*time.Minute, true),
			dep(10*time.Minute, false),
		)}

		set := SelectDisplaySet(stop)
		require.Len(t, set, 1)
		assert.True(t, set[0].Live)
		assert.Equal(t, base.Add(5*time.Minute), set[0].Time)
	})

	t.Run("scheduled fallback", func(t *testing.T) {
		stop := &models.Stop{Departures: models.NewDepartures(dep(0, false), dep(time.Minute, false))}

		set := SelectDisplaySet(stop)
		assert.Len(t, set, 2)
		for _, d := range set {
			assert.False(t, d.Live)
		}
	})

	t.Run("nil stop", func(t *testing.T) {
		assert.Nil(t, SelectDisplaySet(nil))
	})
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		hour, minute int
		expected     string
	}{
		{0, 0, "12:00"},
		{0, 7, "12:07"},
		{9, 5, "9:05"},
		{12, 30, "12:30"},
		{13, 5, "1:05"},
		{23, 59, "11:59"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			tm := time.Date(2016, 3, 4, tt.hour, tt.minute, 0, 0, time.UTC)
			assert.Equal(t, tt.expected, FormatTime(tm, time.UTC))
		})
	}
}

func TestFormatTimeUsesLocation(t *testing.T) {
	ny := time.FixedZone("EST", -5*60*60)
	assert.Equal(t, "8:05", FormatTime(base, ny))
}

func TestFormatDepartureText(t *testing.T) {
	assert.Equal(t, "", FormatDepartureText(nil, time.UTC))

	list := []models.Departure{dep(0, true), dep(12*time.Minute, true)}
	assert.Equal(t, "1:05 1:17", FormatDepartureText(list, time.UTC))
}

func TestSoonest(t *testing.T) {
	stop := &models.Stop{Departures: models.NewDepartures(dep(3*time.Minute, true), dep(0, false))}
	next, err := Soonest(stop)
	require.NoError(t, err)
	assert.Equal(t, base.Add(3*time.Minute), next)

	_, err = Soonest(&models.Stop{})
	assert.ErrorIs(t, err, models.ErrNoDepartures)
}

func TestCountdown(t *testing.T) {
	assert.Equal(t, "now", Countdown(base.Add(59*time.Second), base))
	assert.Equal(t, "now", Countdown(base.Add(-time.Minute), base))
	assert.Equal(t, "1 min", Countdown(base.Add(time.Minute), base))
	assert.Equal(t, "7 min", Countdown(base.Add(7*time.Minute+30*time.Second), base))
}
