package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/commands"
	"github.com/andrescamacho/railbot-go/internal/application/dispatch"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

type dispatcherFixture struct {
	store      *persistence.Store
	queries    *resources.Queries
	sender     *helpers.FakeSender
	dispatcher *dispatch.Dispatcher
	version    *game.RunVersion
}

func newDispatcherFixture(t *testing.T, budget int) *dispatcherFixture {
	db := helpers.NewTestDB(t)
	store := persistence.NewStore(db)
	queries := resources.NewQueries(store)
	helpers.SeedArticles(t, store)
	version := helpers.SeedVersion(t, store)

	sender := helpers.NewFakeSender(helpers.SessionStart)
	clock := shared.NewMockClock(helpers.SessionStart)
	executor := commands.NewExecutor(sender, store, queries, clock, nil, commands.Pacing{})

	return &dispatcherFixture{
		store:      store,
		queries:    queries,
		sender:     sender,
		dispatcher: dispatch.NewDispatcher(store, queries, executor, budget),
		version:    version,
	}
}

func (f *dispatcherFixture) seedUnionJob(t *testing.T, id string, articleID, required, current int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Jobs.SaveRegions(ctx, []game.Region{{ID: 3, ContentCategory: game.RegionContentUnion}}))
	require.NoError(t, f.store.Jobs.SaveLocations(ctx, []game.JobLocation{{ID: 30, RegionID: 3}}))
	require.NoError(t, f.store.Jobs.BulkCreate(ctx, f.version.ID, []*game.Job{{
		ID:                id,
		JobLocationID:     30,
		RequiredArticleID: articleID,
		RequiredAmount:    required,
		CurrentAmount:     current,
		Duration:          45 * time.Minute,
	}}))
}

func (f *dispatcherFixture) unionTrain(t *testing.T, instanceID, capacity int) {
	t.Helper()
	helpers.SeedTrain(t, f.store, f.version.ID,
		game.TrainDefinition{ID: instanceID, BaseCapacity: capacity, ContentCategory: game.RegionContentUnion},
		&game.Train{InstanceID: instanceID, Level: 1})
}

func (f *dispatcherFixture) jobDispatches(t *testing.T) int {
	t.Helper()
	count := 0
	for _, batch := range f.sender.Batches {
		for _, cmd := range batch.Commands {
			if cmd.Command == "Train:DispatchToJob" {
				count++
			}
		}
	}
	return count
}

func TestDispatcher_GuildProgressLowersTheAssignedAmount(t *testing.T) {
	f := newDispatcherFixture(t, 5)
	ctx := context.Background()

	f.seedUnionJob(t, "u1", 105, 100, 10)
	f.unionTrain(t, 1, 60)
	helpers.SeedStock(t, f.store, f.version.ID, map[int]int{105: 200})

	require.NoError(t, f.store.Rewards.SaveLeaderBoard(ctx, f.version.ID, &game.LeaderBoard{
		ID: "lb-1", GroupID: "g-1", JobLocationID: 30,
	}))
	require.NoError(t, f.store.Rewards.SaveProgress(ctx, f.version.ID, &game.LeaderBoardProgress{
		GroupID: "g-1", PlayerID: 7, Progress: 40,
	}))
	require.NoError(t, f.store.Rewards.SaveProgress(ctx, f.version.ID, &game.LeaderBoardProgress{
		GroupID: "g-1", PlayerID: 8, Progress: 30,
	}))

	require.NoError(t, f.dispatcher.Run(ctx, f.version))

	// Guild-wide progress is 70, so only 30 of the required 100 is still open
	job, err := f.store.Jobs.FindByID(ctx, f.version.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 30, job.DispatchedAmount)
	assert.Equal(t, 1, f.jobDispatches(t))
}

func TestDispatcher_UnionDispatcherCountCapsTheBudget(t *testing.T) {
	f := newDispatcherFixture(t, 5)
	ctx := context.Background()

	f.version.DispatchersUnion = 1
	require.NoError(t, f.store.Versions.Save(ctx, f.version))

	f.seedUnionJob(t, "u1", 105, 1000, 0)
	f.unionTrain(t, 1, 50)
	f.unionTrain(t, 2, 50)
	helpers.SeedStock(t, f.store, f.version.ID, map[int]int{105: 500})

	require.NoError(t, f.dispatcher.Run(ctx, f.version))

	assert.Equal(t, 1, f.jobDispatches(t))
}

func TestDispatcher_EnRouteJobTrainsConsumeThePool(t *testing.T) {
	f := newDispatcherFixture(t, 5)
	ctx := context.Background()

	f.version.DispatchersUnion = 1
	require.NoError(t, f.store.Versions.Save(ctx, f.version))

	f.seedUnionJob(t, "u1", 105, 1000, 0)
	f.unionTrain(t, 1, 50)
	helpers.SeedStock(t, f.store, f.version.ID, map[int]int{105: 500})

	// A train already committed to a job occupies the single union dispatcher
	arrival := helpers.SessionStart.Add(time.Hour)
	helpers.SeedTrain(t, f.store, f.version.ID,
		game.TrainDefinition{ID: 2, BaseCapacity: 50, ContentCategory: game.RegionContentUnion},
		&game.Train{
			InstanceID:       2,
			Level:            1,
			RouteType:        game.RouteJob,
			RouteArrivalAt:   &arrival,
			RouteDepartureAt: &helpers.SessionStart,
			HasLoad:          true,
			LoadArticleID:    105,
			LoadAmount:       50,
		})

	require.NoError(t, f.dispatcher.Run(ctx, f.version))

	assert.Zero(t, f.jobDispatches(t))
}
