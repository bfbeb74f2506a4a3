package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// SessionStart is the fixed server time test sessions begin at
var SessionStart = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// SeedVersion creates a processing run version with generous capacity and
// dispatcher headroom
func SeedVersion(t *testing.T, store *persistence.Store) *game.RunVersion {
	t.Helper()
	version := &game.RunVersion{
		Status:            game.RunStatusProcessing,
		Now:               SessionStart,
		PlayerID:          42,
		PlayerLevel:       25,
		WarehouseLevel:    30,
		DispatchersNormal: 4,
		DispatchersUnion:  3,
	}
	require.NoError(t, store.Versions.Create(context.Background(), version))
	return version
}

// SeedArticles persists the article reference data the scenarios use. These
// articles are all space-consuming materials except gold.
func SeedArticles(t *testing.T, store *persistence.Store) {
	t.Helper()
	articles := []game.Article{
		{ID: game.ArticleGold, Name: "Gold", Type: game.ArticleTypeCurrency},
		{ID: 100, Name: "Coal", Type: game.ArticleTypeMaterial},
		{ID: 104, Name: "Iron Ore", Type: game.ArticleTypeMaterial},
		{ID: 105, Name: "Iron", Type: game.ArticleTypeMaterial},
		{ID: 111, Name: "Timber", Type: game.ArticleTypeMaterial},
		{ID: 100004, Name: "Steel", Type: game.ArticleTypeMaterial},
	}
	require.NoError(t, store.Articles.SaveAll(context.Background(), articles))
}

// SeedStock sets warehouse amounts for a version
func SeedStock(t *testing.T, store *persistence.Store, versionID int, stock map[int]int) {
	t.Helper()
	entries := make([]game.WarehouseEntry, 0, len(stock))
	for articleID, amount := range stock {
		entries = append(entries, game.WarehouseEntry{ArticleID: articleID, Amount: amount})
	}
	require.NoError(t, store.Warehouse.BulkSet(context.Background(), versionID, entries))
}

// SeedTrain persists one train with its definition and returns the loaded
// instance
func SeedTrain(t *testing.T, store *persistence.Store, versionID int, def game.TrainDefinition, train *game.Train) *game.Train {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Trains.SaveDefinitions(ctx, []game.TrainDefinition{def}))
	train.DefinitionID = def.ID
	require.NoError(t, store.Trains.BulkCreate(ctx, versionID, []*game.Train{train}))
	loaded, err := store.Trains.FindByInstanceID(ctx, versionID, train.InstanceID)
	require.NoError(t, err)
	return loaded
}
