package stopgroups

import (
	"sort"

	"busmap.org/internal/models"
)

// Groups is an immutable snapshot of grouped stops.
type Groups struct {
	keys   []string
	byKey  map[string]*models.StopGroup
	byStop map[string]string
}

func newGroups() *Groups {
	return &Groups{
		byKey:  make(map[string]*models.StopGroup),
		byStop: make(map[string]string),
	}
}

// Empty returns a Groups with no entries.
func Empty() *Groups {
	return newGroups()
}

func (g *Groups) Len() int {
	return len(g.keys)
}

// List returns the groups in first-seen order.
func (g *Groups) List() []*models.StopGroup {
	list := make([]*models.StopGroup, 0, len(g.keys))
	for _, key := range g.keys {
		list = append(list, g.byKey[key])
	}
	return list
}

func (g *Groups) Get(key string) (*models.StopGroup, bool) {
	group, ok := g.byKey[key]
	return group, ok
}

// FindStop looks up a grouped stop by its unique id.
func (g *Groups) FindStop(uniqueID string) (*models.Stop, *models.StopGroup, bool) {
	key, ok := g.byStop[uniqueID]
	if !ok {
		return nil, nil, false
	}
	group := g.byKey[key]
	for _, stop := range group.Stops {
		if stop.UniqueID() == uniqueID {
			return stop, group, true
		}
	}
	return nil, nil, false
}

// Stops returns every grouped stop, group by group.
func (g *Groups) Stops() []*models.Stop {
	var stops []*models.Stop
	for _, key := range g.keys {
		stops = append(stops, g.byKey[key].Stops...)
	}
	return stops
}

// ByDeparture returns the groups ordered by their soonest departure. Ties
// keep first-seen order.
func (g *Groups) ByDeparture() []*models.StopGroup {
	list := g.List()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].MinDeparture.Before(list[j].MinDeparture)
	})
	return list
}
