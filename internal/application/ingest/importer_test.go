package ingest_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/ingest"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

const definitionsPayload = `{
	"Articles": [
		{"Id": 1, "Name": "Gold", "Type": 2},
		{"Id": 104, "Name": "Iron Ore", "Type": 3}
	],
	"Trains": [
		{"Id": 5, "Name": "Crampton", "Rarity": 2, "Era": 1, "Region": 1, "Capacity": 20, "CapacityPerLevel": 3, "Power": 40}
	],
	"Regions": [
		{"Id": 1, "ContentCategory": 1},
		{"Id": 2, "ContentCategory": 3}
	],
	"JobLocations": [
		{"Id": 10, "Region": 1}
	],
	"Factories": [
		{"Id": 7, "Name": "Smelting Plant", "SlotCount": 2, "Level": 8}
	],
	"Products": [
		{"FactoryId": 7, "ArticleId": 104, "ArticleAmount": 40, "CraftTime": 3600, "Level": 8,
		 "Requirements": [{"Id": 100, "Amount": 10}]}
	],
	"Destinations": [
		{"Id": 3, "LocationId": 30, "Region": 1, "ArticleId": 104, "TravelDuration": 1800, "Multiplier": 2}
	]
}`

const initDataPayload = `{
	"Player": {"PlayerId": 42, "Level": 25, "WarehouseLevel": 30, "Dispatchers": 4, "GuildDispatchers": 3},
	"Trains": [
		{"InstanceId": 1, "TrainId": 5, "Level": 4},
		{"InstanceId": 2, "TrainId": 5, "Level": 1,
		 "Route": {"RouteType": "destination", "DefinitionId": 3,
		           "DepartureTime": "2024-05-01T09:00:00Z", "ArrivalTime": "2024-05-01T09:30:00Z"},
		 "Load": {"Id": 104, "Amount": 20}}
	],
	"Warehouse": [
		{"Id": 104, "Amount": 75}
	],
	"Jobs": [
		{"Id": "j-1", "JobLocationId": 10, "Duration": 1800, "RequiredArticleId": 104,
		 "RequiredAmount": 120, "CurrentArticleAmount": 30}
	],
	"Factories": [
		{"DefinitionId": 7, "Level": 1,
		 "ProductOrders": [{"ArticleId": 104, "Amount": 40, "FinishTime": "2024-05-01T11:00:00Z"}]}
	],
	"ContractLists": [
		{"Id": 3, "NextReplaceAt": "2024-05-01T16:00:00Z"}
	],
	"Contracts": [
		{"Slot": 0, "ContractListId": 3, "RewardArticleId": 104, "RewardArticleAmount": 40,
		 "Conditions": {"Items": [{"Id": 8, "Value": {"Id": 100, "Amount": 85}}]},
		 "AvailableTo": "2024-05-01T12:00:00Z"}
	],
	"VisitedRegions": [1],
	"Whistles": [
		{"Id": 9, "Category": 1, "Position": 2, "SpawnTime": "2024-05-01T10:00:00Z",
		 "CollectableFrom": "2024-05-01T10:02:00Z",
		 "Reward": {"Items": [{"Id": 8, "Value": {"Id": 104, "Amount": 5}}]}}
	],
	"DailyReward": {"Day": 2, "AvailableFrom": "2024-05-01T08:00:00Z", "ExpireDate": "2024-05-02T08:00:00Z",
		"Rewards": [
			{"Items": [{"Id": 8, "Value": {"Id": 104, "Amount": 5}}]},
			{"Items": [{"Id": 8, "Value": {"Id": 104, "Amount": 10}}]},
			{"Items": [{"Id": 8, "Value": {"Id": 104, "Amount": 15}}]},
			{"Items": [{"Id": 8, "Value": {"Id": 104, "Amount": 20}}]},
			{"Items": [{"Id": 8, "Value": {"Id": 104, "Amount": 30}}]}
		]}
}`

func newImportFixture(t *testing.T) (*ingest.Importer, *persistence.Store, *game.RunVersion) {
	t.Helper()
	store := persistence.NewStore(helpers.NewTestDB(t))
	version := helpers.SeedVersion(t, store)
	return ingest.NewImporter(store), store, version
}

func TestImportDefinitions_PersistsReferenceData(t *testing.T) {
	importer, store, _ := newImportFixture(t)
	ctx := context.Background()

	require.NoError(t, importer.ImportDefinitions(ctx, json.RawMessage(definitionsPayload)))

	articles, err := store.Articles.AllByID(ctx)
	require.NoError(t, err)
	assert.Len(t, articles, 2)

	products, err := store.Factories.ProductsByFactory(ctx, 7)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, time.Hour, products[0].CraftTime)
	require.Len(t, products[0].Requirements, 1)
	assert.Equal(t, 100, products[0].Requirements[0].ArticleID)

	dests, err := store.Destinations.ByArticle(ctx, 104)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.Equal(t, 30*time.Minute, dests[0].Duration)
	assert.Equal(t, 2, dests[0].Multiplier)
}

func TestImportInitData_FillsVersionAndSnapshot(t *testing.T) {
	importer, store, version := newImportFixture(t)
	ctx := context.Background()
	require.NoError(t, importer.ImportDefinitions(ctx, json.RawMessage(definitionsPayload)))

	require.NoError(t, importer.ImportInitData(ctx, version, json.RawMessage(initDataPayload)))

	assert.Equal(t, 42, version.PlayerID)
	assert.Equal(t, 25, version.PlayerLevel)
	assert.Equal(t, 30, version.WarehouseLevel)
	assert.Equal(t, 4, version.DispatchersNormal)
	assert.Equal(t, 3, version.DispatchersUnion)

	trains, err := store.Trains.FindAll(ctx, version.ID)
	require.NoError(t, err)
	require.Len(t, trains, 2)

	enRoute, err := store.Trains.FindByInstanceID(ctx, version.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, game.RouteDestination, enRoute.RouteType)
	assert.True(t, enRoute.HasLoad)
	assert.Equal(t, 104, enRoute.LoadArticleID)
	assert.Equal(t, 20, enRoute.LoadAmount)

	amount, err := store.Warehouse.Amount(ctx, version.ID, 104)
	require.NoError(t, err)
	assert.Equal(t, 75, amount)

	job, err := store.Jobs.FindByID(ctx, version.ID, "j-1")
	require.NoError(t, err)
	assert.Equal(t, 30, job.CurrentAmount)
	assert.Equal(t, 30*time.Minute, job.Duration)

	orders, err := store.Factories.FindOrders(ctx, version.ID, 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].FinishesAt)

	contracts, err := store.Contracts.FindAll(ctx, version.ID)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	require.Len(t, contracts[0].Conditions, 1)
	assert.Equal(t, 85, contracts[0].Conditions[0].Amount)

	visited, err := store.Destinations.VisitedRegions(ctx, version.ID)
	require.NoError(t, err)
	assert.True(t, visited[1])

	whistles, err := store.Rewards.Whistles(ctx, version.ID)
	require.NoError(t, err)
	require.Len(t, whistles, 1)
	assert.False(t, whistles[0].IsForVideo)

	daily, err := store.Rewards.DailyReward(ctx, version.ID)
	require.NoError(t, err)
	require.NotNil(t, daily)
	assert.Equal(t, 2, daily.Day)
}

func TestImportInitData_RejectsMalformedPayload(t *testing.T) {
	importer, _, version := newImportFixture(t)

	err := importer.ImportInitData(context.Background(), version, json.RawMessage(`{"Player": [`))
	assert.Error(t, err)
}
