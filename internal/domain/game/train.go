package game

import "time"

// Train rarity and era discriminants (static definitions taxonomy)
const (
	RarityCommon    = 1
	RarityRare      = 2
	RarityEpic      = 3
	RarityLegendary = 4
)

const (
	EraSteam  = 1
	EraDiesel = 2
	EraElectr = 3
)

// Route types a train can be committed to
const (
	RouteNone        = ""
	RouteDestination = "destination"
	RouteJob         = "job"
)

// TrainDefinition is the static template a player-owned train instantiates
type TrainDefinition struct {
	ID              int
	Name            string
	Rarity          int
	Era             int
	Region          int
	ContentCategory int
	// Capacity at level 1; each level adds CapacityPerLevel
	BaseCapacity     int
	CapacityPerLevel int
	Power            int
}

// CapacityAtLevel returns the carrying capacity of this definition at a level
func (d *TrainDefinition) CapacityAtLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return d.BaseCapacity + (level-1)*d.CapacityPerLevel
}

// Train is one player-owned train instance, scoped to a run version
type Train struct {
	InstanceID   int
	DefinitionID int
	Level        int
	// Region override; 0 means the definition's region applies
	Region int

	RouteType         string
	RouteDefinitionID int
	RouteDepartureAt  *time.Time
	RouteArrivalAt    *time.Time

	HasLoad       bool
	LoadArticleID int
	LoadAmount    int

	Definition *TrainDefinition
}

// EffectiveRegion returns the override region if set, otherwise the definition region
func (t *Train) EffectiveRegion() int {
	if t.Region != 0 {
		return t.Region
	}
	if t.Definition != nil {
		return t.Definition.Region
	}
	return 0
}

// Capacity returns the train's carrying capacity at its current level
func (t *Train) Capacity() int {
	if t.Definition == nil {
		return 0
	}
	return t.Definition.CapacityAtLevel(t.Level)
}

// IsIdle reports whether the train has no active route. A train keeps its route
// until unloaded, so an arrived-but-loaded train is not idle.
func (t *Train) IsIdle() bool {
	return t.RouteType == RouteNone
}

// IsWorking is the exact negation of IsIdle
func (t *Train) IsWorking() bool {
	return !t.IsIdle()
}

// HasArrived reports whether an en-route train has reached its route target by now
func (t *Train) HasArrived(now time.Time) bool {
	return t.RouteType != RouteNone && t.RouteArrivalAt != nil && !t.RouteArrivalAt.After(now)
}

// AssignRoute commits the train to a route. Fails if a route is already active.
func (t *Train) AssignRoute(routeType string, definitionID int, departure time.Time, duration time.Duration) error {
	if t.RouteType != RouteNone {
		return errTrainBusy(t.InstanceID)
	}
	arrival := departure.Add(duration)
	t.RouteType = routeType
	t.RouteDefinitionID = definitionID
	t.RouteDepartureAt = &departure
	t.RouteArrivalAt = &arrival
	return nil
}

// ClearRoute resets the train to idle and drops any carried load
func (t *Train) ClearRoute() {
	t.RouteType = RouteNone
	t.RouteDefinitionID = 0
	t.RouteDepartureAt = nil
	t.RouteArrivalAt = nil
	t.HasLoad = false
	t.LoadArticleID = 0
	t.LoadAmount = 0
}

// SetLoad records the article the train will carry back
func (t *Train) SetLoad(articleID, amount int) {
	t.HasLoad = true
	t.LoadArticleID = articleID
	t.LoadAmount = amount
}
