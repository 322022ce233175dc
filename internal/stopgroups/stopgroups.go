// Package stopgroups clusters stop records into the rows of a "departures
// near you" list. Stops that share agency, physical stop and direction of
// travel become one group.
package stopgroups

import (
	"log/slog"
	"sort"
	"strconv"
	"time"

	"busmap.org/internal/departures"
	"busmap.org/internal/models"
	"busmap.org/internal/utils"
)

// BearingResolver derives a direction of travel for a stop that doesn't
// carry one, typically from a cached trip shape.
type BearingResolver interface {
	ResolveBearing(stop *models.Stop) (float64, bool)
}

type Grouper struct {
	logger   *slog.Logger
	resolver BearingResolver
}

// New returns a Grouper. resolver may be nil.
func New(logger *slog.Logger, resolver BearingResolver) *Grouper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grouper{
		logger:   logger.With(slog.String("component", "stopgroups")),
		resolver: resolver,
	}
}

// Key builds the grouping key of a stop whose rounded bearing is compass.
func Key(stop *models.Stop, compass float64) string {
	return stop.AgencyID + "|" + stop.StopID + "|" +
		strconv.FormatFloat(compass, 'f', -1, 64) + "|" + stop.GroupExtraKey
}

// Group builds a fresh set of groups from stops. Groups are listed in the
// order their first stop appears. Stops without departures are skipped.
func (g *Grouper) Group(stops []*models.Stop) *Groups {
	groups := newGroups()
	soonest := make(map[*models.Stop]time.Time, len(stops))

	for _, stop := range stops {
		if stop == nil {
			continue
		}

		next, err := departures.Soonest(stop)
		if err != nil {
			g.logger.Debug("skipping stop without departures",
				slog.String("stop", stop.UniqueID()))
			continue
		}
		soonest[stop] = next

		compass := utils.RoundCompass(g.bearing(stop))
		key := Key(stop, compass)

		group, ok := groups.byKey[key]
		if !ok {
			group = &models.StopGroup{
				Key:            key,
				CompassDir:     compass,
				RouteColor:     stop.RouteColor,
				RouteTextColor: stop.RouteTextColor,
			}
			groups.byKey[key] = group
			groups.keys = append(groups.keys, key)
		}
		group.Stops = append(group.Stops, stop)
	}

	for _, key := range groups.keys {
		finalize(groups.byKey[key], soonest)
		for _, stop := range groups.byKey[key].Stops {
			groups.byStop[stop.UniqueID()] = key
		}
	}

	return groups
}

func (g *Grouper) bearing(stop *models.Stop) float64 {
	if dir, ok := stop.Bearing(); ok {
		return dir
	}
	if g.resolver != nil {
		if dir, ok := g.resolver.ResolveBearing(stop); ok {
			return dir
		}
	}
	// The data source reports a missing bearing as 0.
	g.logger.Debug("no bearing for stop", slog.String("stop", stop.UniqueID()))
	return 0
}

func finalize(group *models.StopGroup, soonest map[*models.Stop]time.Time) {
	seen := make(map[string]bool)
	group.DisplayNames = group.DisplayNames[:0]
	for i, stop := range group.Stops {
		name := stop.DisplayName
		if name == "" {
			name = stop.RouteID
		}
		if !seen[name] {
			seen[name] = true
			group.DisplayNames = append(group.DisplayNames, name)
		}

		next := soonest[stop]
		if i == 0 || next.Before(group.MinDeparture) {
			group.MinDeparture = next
		}
	}

	group.StopName = group.Stops[0].Name

	sort.SliceStable(group.Stops, func(i, j int) bool {
		return soonest[group.Stops[i]].Before(soonest[group.Stops[j]])
	})
}
