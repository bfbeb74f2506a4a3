package resources

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// FactorySource is one recipe a player factory can run for an article
type FactorySource struct {
	Factory *game.Factory
	Product game.Product
}

// ArticleSourcesContract builds a one-shot article -> available contracts map.
// Availability applies the one-minute expiry buffer via Contract.IsAvailable.
// Candidate order within a list follows (list id, slot) insertion order.
func (q *Queries) ArticleSourcesContract(ctx context.Context, versionID int, now time.Time) (map[int][]*game.Contract, error) {
	contracts, err := q.store.Contracts.FindAll(ctx, versionID)
	if err != nil {
		return nil, err
	}
	sources := make(map[int][]*game.Contract)
	for _, c := range contracts {
		if !c.IsAvailable(now) {
			continue
		}
		sources[c.ArticleID] = append(sources[c.ArticleID], c)
	}
	return sources, nil
}

// ArticleSourcesDestination builds a one-shot article -> destination map, gated
// by the player's level and visited-region membership
func (q *Queries) ArticleSourcesDestination(ctx context.Context, versionID, playerLevel int) (map[int][]game.Destination, error) {
	dests, err := q.store.Destinations.All(ctx)
	if err != nil {
		return nil, err
	}
	visited, err := q.store.Destinations.VisitedRegions(ctx, versionID)
	if err != nil {
		return nil, err
	}
	sources := make(map[int][]game.Destination)
	for _, d := range dests {
		if d.RequiredLevel > playerLevel {
			continue
		}
		if !visited[d.RegionID] {
			continue
		}
		sources[d.ArticleID] = append(sources[d.ArticleID], d)
	}
	return sources, nil
}

// ArticleSourcesFactory builds a one-shot article -> producible recipe map for
// the player's factories, gated by recipe level
func (q *Queries) ArticleSourcesFactory(ctx context.Context, versionID, playerLevel int) (map[int][]FactorySource, error) {
	factories, err := q.store.Factories.FindFactories(ctx, versionID)
	if err != nil {
		return nil, err
	}
	sources := make(map[int][]FactorySource)
	for _, f := range factories {
		products, err := q.store.Factories.ProductsByFactory(ctx, f.DefinitionID)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			if p.Level > playerLevel {
				continue
			}
			sources[p.ArticleID] = append(sources[p.ArticleID], FactorySource{Factory: f, Product: p})
		}
	}
	return sources, nil
}

// FactoryOrderPartition classifies one factory's orders at the given time
func (q *Queries) FactoryOrderPartition(ctx context.Context, versionID, factoryID int, now time.Time) (game.OrderPartition, error) {
	orders, err := q.store.Factories.FindOrders(ctx, versionID, factoryID)
	if err != nil {
		return game.OrderPartition{}, err
	}
	return game.PartitionOrders(orders, now), nil
}

// FactoryFreeSlots recomputes slot availability from live order counts; the
// command layer never mutates a slot counter.
func (q *Queries) FactoryFreeSlots(ctx context.Context, versionID int, f *game.Factory, now time.Time) (int, error) {
	orders, err := q.store.Factories.FindOrders(ctx, versionID, f.DefinitionID)
	if err != nil {
		return 0, err
	}
	active := 0
	for _, o := range orders {
		if !o.IsCompleted(now) {
			active++
		}
	}
	free := f.Slots() - active
	if free < 0 {
		free = 0
	}
	return free, nil
}
