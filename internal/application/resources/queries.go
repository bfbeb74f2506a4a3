package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// Queries is the read-only resource layer over the store. Every call re-reads;
// nothing is cached between calls, so results always reflect the latest
// post-processing mutations.
type Queries struct {
	store *persistence.Store
}

// NewQueries creates a resource query layer over a store
func NewQueries(store *persistence.Store) *Queries {
	return &Queries{store: store}
}

// TrainFilter narrows TrainsFind results. Nil sets mean "any".
// Filters apply in a fixed precedence: capability sets (region, rarity, era,
// content category) first, then state flags (idle, load), then minimum power.
type TrainFilter struct {
	Regions           map[int]bool
	Rarities          map[int]bool
	Eras              map[int]bool
	ContentCategories map[int]bool
	MinPower          int
	Idle              *bool
	HasLoad           *bool
}

// TrainsFind returns the version's trains matching the filter, ordered by
// instance id. Pure read: identical arguments against unchanged state return an
// identical ordered result set.
func (q *Queries) TrainsFind(ctx context.Context, versionID int, f TrainFilter) ([]*game.Train, error) {
	trains, err := q.store.Trains.FindAll(ctx, versionID)
	if err != nil {
		return nil, err
	}

	var out []*game.Train
	for _, t := range trains {
		if f.Regions != nil && !f.Regions[t.EffectiveRegion()] {
			continue
		}
		if t.Definition == nil {
			continue
		}
		if f.Rarities != nil && !f.Rarities[t.Definition.Rarity] {
			continue
		}
		if f.Eras != nil && !f.Eras[t.Definition.Era] {
			continue
		}
		if f.ContentCategories != nil && !f.ContentCategories[t.Definition.ContentCategory] {
			continue
		}
		if f.Idle != nil && t.IsIdle() != *f.Idle {
			continue
		}
		if f.HasLoad != nil && t.HasLoad != *f.HasLoad {
			continue
		}
		if f.MinPower > 0 && t.Definition.Power < f.MinPower {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// JobFilter narrows JobsFind results. Classification applies first, then the
// temporal state flags evaluated against the session's server time.
type JobFilter struct {
	Kind        game.JobKind
	Unlocked    *bool
	Collectable *bool
	Completed   *bool
	Expired     *bool
}

// JobsFind returns the version's jobs matching the filter, ordered by job id
func (q *Queries) JobsFind(ctx context.Context, versionID int, now time.Time, f JobFilter) ([]*game.Job, error) {
	jobs, err := q.store.Jobs.FindAll(ctx, versionID)
	if err != nil {
		return nil, err
	}

	var out []*game.Job
	for _, j := range jobs {
		if f.Kind != "" && j.Kind() != f.Kind {
			continue
		}
		if f.Unlocked != nil && j.IsUnlocked(now) != *f.Unlocked {
			continue
		}
		if f.Collectable != nil && j.IsCollectable(now) != *f.Collectable {
			continue
		}
		if f.Completed != nil && j.IsCompleted() != *f.Completed {
			continue
		}
		if f.Expired != nil && j.IsExpired(now) != *f.Expired {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

// WarehouseUsedCapacity sums the stock of space-consuming article types only
func (q *Queries) WarehouseUsedCapacity(ctx context.Context, versionID int) (int, error) {
	entries, err := q.store.Warehouse.All(ctx, versionID)
	if err != nil {
		return 0, err
	}
	articles, err := q.store.Articles.AllByID(ctx)
	if err != nil {
		return 0, err
	}

	used := 0
	for _, e := range entries {
		article, ok := articles[e.ArticleID]
		if !ok {
			return 0, fmt.Errorf("warehouse entry references unknown article %d", e.ArticleID)
		}
		if article.ConsumesSpace() {
			used += e.Amount
		}
	}
	return used, nil
}

// WarehouseMaxCapacity looks up the capacity for a version's warehouse level
func (q *Queries) WarehouseMaxCapacity(v *game.RunVersion) int {
	return game.WarehouseCapacityForLevel(v.WarehouseLevel)
}

// WarehouseAmounts returns the full stock as an article->amount map
func (q *Queries) WarehouseAmounts(ctx context.Context, versionID int) (game.ArticleAmounts, error) {
	entries, err := q.store.Warehouse.All(ctx, versionID)
	if err != nil {
		return nil, err
	}
	amounts := make(game.ArticleAmounts, len(entries))
	for _, e := range entries {
		amounts[e.ArticleID] = e.Amount
	}
	return amounts, nil
}

// EnRouteCount counts trains currently committed to the given route type
func (q *Queries) EnRouteCount(ctx context.Context, versionID int, routeType string) (int, error) {
	trains, err := q.store.Trains.FindAll(ctx, versionID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, t := range trains {
		if t.RouteType == routeType {
			count++
		}
	}
	return count, nil
}
