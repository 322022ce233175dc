// Package departures decides which departures of a stop are shown and how
// they are written out.
package departures

import (
	"fmt"
	"strings"
	"time"

	"busmap.org/internal/models"
)

// IsLive reports whether at least one departure comes from a live feed.
func IsLive(d models.Departures) bool {
	for _, dep := range d.Live {
		if dep.Live {
			return true
		}
	}
	return false
}

// SelectDisplaySet returns the live departures of a stop when any exist and
// the scheduled ones otherwise. The two are never merged.
func SelectDisplaySet(stop *models.Stop) []models.Departure {
	if stop == nil {
		return nil
	}
	if IsLive(stop.Departures) {
		return stop.Departures.Live
	}
	return stop.Departures.Scheduled
}

// FormatTime renders t as a 12-hour wall clock time in loc, e.g. "1:05".
func FormatTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}

	hour := t.Hour()
	switch {
	case hour == 0:
		hour = 12
	case hour > 12:
		hour -= 12
	}

	return fmt.Sprintf("%d:%02d", hour, t.Minute())
}

// FormatDepartureText joins the formatted times of list with spaces.
func FormatDepartureText(list []models.Departure, loc *time.Location) string {
	if len(list) == 0 {
		return ""
	}

	parts := make([]string, len(list))
	for i, dep := range list {
		parts[i] = FormatTime(dep.Time, loc)
	}
	return strings.Join(parts, " ")
}

// Soonest returns the first departure of the stop's display set.
func Soonest(stop *models.Stop) (time.Time, error) {
	set := SelectDisplaySet(stop)
	if len(set) == 0 {
		return time.Time{}, models.ErrNoDepartures
	}
	return set[0].Time, nil
}

// Countdown renders the wait until next as "now" or "N min".
func Countdown(next, now time.Time) string {
	wait := next.Sub(now)
	if wait < time.Minute {
		return "now"
	}
	return fmt.Sprintf("%d min", int(wait/time.Minute))
}
