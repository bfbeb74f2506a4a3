package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/commands"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

type fixture struct {
	store    *persistence.Store
	queries  *resources.Queries
	sender   *helpers.FakeSender
	executor *commands.Executor
	version  *game.RunVersion
}

func newFixture(t *testing.T) *fixture {
	db := helpers.NewTestDB(t)
	store := persistence.NewStore(db)
	queries := resources.NewQueries(store)
	helpers.SeedArticles(t, store)
	version := helpers.SeedVersion(t, store)

	sender := helpers.NewFakeSender(helpers.SessionStart)
	clock := shared.NewMockClock(helpers.SessionStart)
	executor := commands.NewExecutor(sender, store, queries, clock, nil, commands.Pacing{})

	return &fixture{store: store, queries: queries, sender: sender, executor: executor, version: version}
}

func (f *fixture) run(t *testing.T, cmd commands.Command) {
	t.Helper()
	require.NoError(t, f.executor.Run(context.Background(), f.version, []commands.Command{cmd}))
}

func (f *fixture) stock(t *testing.T, articleID int) int {
	t.Helper()
	amount, err := f.store.Warehouse.Amount(context.Background(), f.version.ID, articleID)
	require.NoError(t, err)
	return amount
}

func TestContractAccept_DebitsConditionsAndCreditsReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	helpers.SeedStock(t, f.store, f.version.ID, map[int]int{111: 200})

	deadline := helpers.SessionStart.Add(time.Hour)
	require.NoError(t, f.store.Contracts.SaveList(ctx, f.version.ID, &game.ContractList{ID: 1}))
	contract := &game.Contract{
		Slot:           0,
		ContractListID: 1,
		ArticleID:      100004,
		ArticleAmount:  40,
		Conditions:     []game.RewardItem{{ArticleID: 111, Amount: 85}},
		AvailableTo:    &deadline,
	}
	require.NoError(t, f.store.Contracts.BulkCreate(ctx, f.version.ID, []*game.Contract{contract}))

	f.run(t, commands.NewContractAccept(contract))

	assert.Equal(t, 115, f.stock(t, 111))
	assert.Equal(t, 40, f.stock(t, 100004))

	saved, err := f.store.Contracts.FindAll(ctx, f.version.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Used)
}

func TestTrainDispatchToJob_DebitsStockAndRoutesTrain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	helpers.SeedStock(t, f.store, f.version.ID, map[int]int{105: 150})

	require.NoError(t, f.store.Jobs.SaveRegions(ctx, []game.Region{{ID: 1, ContentCategory: game.RegionContentStory}}))
	require.NoError(t, f.store.Jobs.SaveLocations(ctx, []game.JobLocation{{ID: 10, RegionID: 1}}))
	job := &game.Job{
		ID:                "job-105",
		JobLocationID:     10,
		RequiredArticleID: 105,
		RequiredAmount:    80,
		Duration:          45 * time.Minute,
	}
	require.NoError(t, f.store.Jobs.BulkCreate(ctx, f.version.ID, []*game.Job{job}))

	train := helpers.SeedTrain(t, f.store, f.version.ID,
		game.TrainDefinition{ID: 1, BaseCapacity: 80, CapacityPerLevel: 10},
		&game.Train{InstanceID: 1, Level: 1})

	f.run(t, commands.NewTrainDispatchToJob(train, job, 80))

	assert.Equal(t, 70, f.stock(t, 105))

	routed, err := f.store.Trains.FindByInstanceID(ctx, f.version.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, game.RouteJob, routed.RouteType)
	require.NotNil(t, routed.RouteArrivalAt)
	assert.Equal(t, routed.RouteDepartureAt.Add(45*time.Minute), *routed.RouteArrivalAt)
	assert.True(t, routed.HasLoad)
	assert.Equal(t, 105, routed.LoadArticleID)
	assert.Equal(t, 80, routed.LoadAmount)

	updated, err := f.store.Jobs.FindByID(ctx, f.version.ID, "job-105")
	require.NoError(t, err)
	assert.Equal(t, 80, updated.DispatchedAmount)
	assert.Equal(t, 0, updated.RemainingAmount())
}

func TestDailyRewardClaim_RollsCycleForward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	availableFrom := helpers.SessionStart.Add(-time.Hour)
	require.NoError(t, f.store.Rewards.SaveDailyReward(ctx, f.version.ID, &game.DailyReward{
		Day:           3,
		AvailableFrom: availableFrom,
		ExpireAt:      helpers.SessionStart.Add(time.Hour),
		Rewards: [][]game.RewardItem{
			{{ArticleID: 100, Amount: 1}},
			{{ArticleID: 100, Amount: 2}},
			{{ArticleID: 100, Amount: 5}},
			{{ArticleID: 100, Amount: 10}},
			{{ArticleID: 100, Amount: 20}},
		},
	}))

	f.run(t, commands.NewDailyRewardClaim())

	assert.Equal(t, 10, f.stock(t, 100))

	reward, err := f.store.Rewards.DailyReward(ctx, f.version.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reward.Day)
	assert.Equal(t, availableFrom.Add(24*time.Hour), reward.AvailableFrom)
}

func TestDailyRewardClaimWithVideo_DoublesTheReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Rewards.SaveDailyReward(ctx, f.version.ID, &game.DailyReward{
		Day:           0,
		AvailableFrom: helpers.SessionStart.Add(-time.Hour),
		ExpireAt:      helpers.SessionStart.Add(time.Hour),
		Rewards:       [][]game.RewardItem{{{ArticleID: 100, Amount: 7}}},
	}))

	f.run(t, commands.NewDailyRewardClaimWithVideo())

	assert.Equal(t, 14, f.stock(t, 100))
}

func TestTrainUnload_CreditsLoadAndClearsRoute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	train := helpers.SeedTrain(t, f.store, f.version.ID,
		game.TrainDefinition{ID: 1, BaseCapacity: 50},
		&game.Train{
			InstanceID:    1,
			Level:         1,
			RouteType:     game.RouteDestination,
			HasLoad:       true,
			LoadArticleID: 111,
			LoadAmount:    40,
		})

	f.run(t, commands.NewTrainUnload(train))

	assert.Equal(t, 40, f.stock(t, 111))

	unloaded, err := f.store.Trains.FindByInstanceID(ctx, f.version.ID, 1)
	require.NoError(t, err)
	assert.True(t, unloaded.IsIdle())
	assert.False(t, unloaded.HasLoad)
}

func TestTrainUnload_JobDeliveryClearsRouteWithoutCrediting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	train := helpers.SeedTrain(t, f.store, f.version.ID,
		game.TrainDefinition{ID: 1, BaseCapacity: 50},
		&game.Train{
			InstanceID:    1,
			Level:         1,
			RouteType:     game.RouteJob,
			HasLoad:       true,
			LoadArticleID: 105,
			LoadAmount:    40,
		})

	f.run(t, commands.NewTrainUnload(train))

	// The cargo was debited at dispatch and belongs to the job
	assert.Equal(t, 0, f.stock(t, 105))

	unloaded, err := f.store.Trains.FindByInstanceID(ctx, f.version.ID, 1)
	require.NoError(t, err)
	assert.True(t, unloaded.IsIdle())
	assert.False(t, unloaded.HasLoad)
}

func TestCreditBeyondCapacity_FailsInsteadOfClamping(t *testing.T) {
	f := newFixture(t)
	// Level 1 warehouse holds 60 units
	f.version.WarehouseLevel = 1
	require.NoError(t, f.store.Versions.Save(context.Background(), f.version))
	helpers.SeedStock(t, f.store, f.version.ID, map[int]int{111: 50})

	train := helpers.SeedTrain(t, f.store, f.version.ID,
		game.TrainDefinition{ID: 1, BaseCapacity: 50},
		&game.Train{
			InstanceID:    1,
			Level:         1,
			RouteType:     game.RouteDestination,
			HasLoad:       true,
			LoadArticleID: 111,
			LoadAmount:    40,
		})

	err := f.executor.Run(context.Background(), f.version, []commands.Command{commands.NewTrainUnload(train)})
	require.Error(t, err)

	var warehouseErr *shared.WarehouseError
	assert.ErrorAs(t, err, &warehouseErr)
}

func TestFactoryOrderProduct_DebitsInputsAndStartsWhenSlotFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	helpers.SeedStock(t, f.store, f.version.ID, map[int]int{100: 10})

	require.NoError(t, f.store.Factories.SaveDefinitions(ctx, []game.FactoryDefinition{{ID: 1, SlotCount: 2}}))
	require.NoError(t, f.store.Factories.BulkCreateFactories(ctx, f.version.ID, []*game.Factory{{DefinitionID: 1}}))
	product := game.Product{
		FactoryID:     1,
		ArticleID:     104,
		ArticleAmount: 40,
		CraftTime:     time.Hour,
		Requirements:  []game.RewardItem{{ArticleID: 100, Amount: 10}},
	}
	require.NoError(t, f.store.Factories.SaveProducts(ctx, []game.Product{product}))

	f.run(t, commands.NewFactoryOrderProduct(&product))

	assert.Equal(t, 0, f.stock(t, 100))

	orders, err := f.store.Factories.FindOrders(ctx, f.version.ID, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].FinishesAt)
	assert.Equal(t, f.version.Now.Add(time.Hour), *orders[0].FinishesAt)
}

func TestFactoryCollectProduct_CreditsButKeepsLocalOrderRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Factories.SaveDefinitions(ctx, []game.FactoryDefinition{{ID: 1, SlotCount: 2}}))
	require.NoError(t, f.store.Factories.BulkCreateFactories(ctx, f.version.ID, []*game.Factory{{DefinitionID: 1}}))

	finished := helpers.SessionStart.Add(-time.Minute)
	order := &game.ProductOrder{FactoryID: 1, ArticleID: 104, Amount: 40, FinishesAt: &finished}
	require.NoError(t, f.store.Factories.CreateOrder(ctx, f.version.ID, order))

	f.run(t, commands.NewFactoryCollectProduct(order))

	assert.Equal(t, 40, f.stock(t, 104))

	// Collection relies on the next reconciliation pass; the row survives
	orders, err := f.store.Factories.FindOrders(ctx, f.version.ID, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestExecutor_BatchWireFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.executor.Run(ctx, f.version, []commands.Command{
		commands.NewHeartbeat(),
		commands.NewGameWakeup(),
	}))

	require.Len(t, f.sender.Batches, 2)
	first, second := f.sender.Batches[0], f.sender.Batches[1]

	// One command per batch, monotonically increasing sequence ids
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	require.Len(t, first.Commands, 1)
	assert.Equal(t, "Game:Heartbeat", first.Commands[0].Command)
	assert.False(t, first.Transactional)
	assert.Nil(t, first.Debug)

	// ISO8601 with second precision, no fractional part
	parsed, err := time.Parse("2006-01-02T15:04:05Z", first.Time)
	require.NoError(t, err)
	assert.Equal(t, helpers.SessionStart, parsed)
}

func TestExecutor_ConfiguredPacingAppliesToDeferringCommands(t *testing.T) {
	db := helpers.NewTestDB(t)
	store := persistence.NewStore(db)
	queries := resources.NewQueries(store)
	helpers.SeedArticles(t, store)
	version := helpers.SeedVersion(t, store)

	sender := helpers.NewFakeSender(helpers.SessionStart)
	clock := shared.NewMockClock(helpers.SessionStart)
	pacing := commands.Pacing{Min: 5 * time.Second, Max: 5 * time.Second}
	executor := commands.NewExecutor(sender, store, queries, clock, nil, pacing)
	ctx := context.Background()

	// Game:WakeUp declares no range of its own and takes the configured bounds
	require.NoError(t, executor.Run(ctx, version, []commands.Command{commands.NewGameWakeup()}))
	assert.Equal(t, helpers.SessionStart.Add(5*time.Second), clock.CurrentTime)

	// Heartbeat narrows its own pacing and ignores the configured bounds
	before := clock.CurrentTime
	require.NoError(t, executor.Run(ctx, version, []commands.Command{commands.NewHeartbeat()}))
	slept := clock.CurrentTime.Sub(before)
	assert.GreaterOrEqual(t, slept, 100*time.Millisecond)
	assert.Less(t, slept, 300*time.Millisecond)
}

func TestExecutor_AttachesDebugForVideoCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Rewards.SaveWhistle(ctx, f.version.ID, &game.Whistle{
		ID:              9,
		Category:        2,
		Position:        1,
		CollectableFrom: helpers.SessionStart.Add(-time.Minute),
		IsForVideo:      true,
		Rewards:         []game.RewardItem{{ArticleID: 100, Amount: 3}},
	}))

	f.run(t, commands.NewCollectOfferContainer(9, 2, 1))

	batch := f.sender.LastBatch()
	require.NotNil(t, batch.Debug)
	assert.Equal(t, 1, batch.Debug.CollectionsInQueue)
	assert.Equal(t, "9-1", batch.Debug.CollectionsInQueueIDs)

	// Video-gated collection pays double
	assert.Equal(t, 6, f.stock(t, 100))
}
