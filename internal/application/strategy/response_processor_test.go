package strategy

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

func newProcessorFixture(t *testing.T) (*ResponseProcessor, *persistence.Store, *game.RunVersion) {
	t.Helper()
	store := persistence.NewStore(helpers.NewTestDB(t))
	helpers.SeedArticles(t, store)
	version := helpers.SeedVersion(t, store)
	return NewResponseProcessor(store), store, version
}

func delta(command, payload string) api.DeltaCommand {
	return api.DeltaCommand{Command: command, Data: json.RawMessage(payload)}
}

func TestApply_WhistleSpawnIsPersisted(t *testing.T) {
	processor, store, version := newProcessorFixture(t)
	ctx := context.Background()

	err := processor.Apply(ctx, version, []api.DeltaCommand{delta("Whistle:Spawn", `{
		"Whistle": {
			"Id": 17,
			"Category": 1,
			"Position": 3,
			"SpawnTime": "2024-05-01T10:00:00Z",
			"CollectableFrom": "2024-05-01T10:05:00Z",
			"IsForVideoReward": true,
			"Reward": {"Items": [{"Id": 8, "Value": {"Id": 100, "Amount": 10}}]}
		}
	}`)})
	require.NoError(t, err)

	whistles, err := store.Rewards.Whistles(ctx, version.ID)
	require.NoError(t, err)
	require.Len(t, whistles, 1)
	assert.Equal(t, 17, whistles[0].ID)
	assert.True(t, whistles[0].IsForVideo)
	require.Len(t, whistles[0].Rewards, 1)
	assert.Equal(t, 100, whistles[0].Rewards[0].ArticleID)
	assert.Equal(t, 10, whistles[0].Rewards[0].Amount)
}

func TestApply_ContractNewUpsertsBySlot(t *testing.T) {
	processor, store, version := newProcessorFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Contracts.SaveList(ctx, version.ID, &game.ContractList{ID: 3}))

	payload := `{
		"Contract": {
			"Slot": 2,
			"ContractListId": 3,
			"RewardArticleId": 100004,
			"RewardArticleAmount": 40,
			"Conditions": {"Items": [{"Id": 8, "Value": {"Id": 111, "Amount": 85}}]},
			"AvailableTo": "2024-05-01T12:00:00Z"
		}
	}`
	require.NoError(t, processor.Apply(ctx, version, []api.DeltaCommand{delta("Contract:New", payload)}))

	// A second push for the same slot replaces, it does not duplicate
	replacement := `{
		"Contract": {
			"Slot": 2,
			"ContractListId": 3,
			"RewardArticleId": 100004,
			"RewardArticleAmount": 60,
			"Conditions": {"Items": [{"Id": 8, "Value": {"Id": 111, "Amount": 120}}]},
			"AvailableTo": "2024-05-01T14:00:00Z"
		}
	}`
	require.NoError(t, processor.Apply(ctx, version, []api.DeltaCommand{delta("Contract:New", replacement)}))

	contracts, err := store.Contracts.FindAll(ctx, version.ID)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, 60, contracts[0].ArticleAmount)
	require.Len(t, contracts[0].Conditions, 1)
	assert.Equal(t, 120, contracts[0].Conditions[0].Amount)
}

func TestApply_NewJobIsPersisted(t *testing.T) {
	processor, store, version := newProcessorFixture(t)
	ctx := context.Background()

	err := processor.Apply(ctx, version, []api.DeltaCommand{delta("Map:NewJob", `{
		"Job": {
			"Id": "j-77",
			"JobLocationId": 12,
			"Duration": 1800,
			"RequiredArticleId": 104,
			"RequiredAmount": 120,
			"CurrentArticleAmount": 0
		}
	}`)})
	require.NoError(t, err)

	job, err := store.Jobs.FindByID(ctx, version.ID, "j-77")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, 12, job.JobLocationID)
	assert.Equal(t, 120, job.RequiredAmount)
}

func TestApply_QuestChangeUpdatesJobProgress(t *testing.T) {
	processor, store, version := newProcessorFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Jobs.BulkCreate(ctx, version.ID, []*game.Job{{
		ID: "j-1", JobLocationID: 12, RequiredArticleID: 104, RequiredAmount: 120,
	}}))

	err := processor.Apply(ctx, version, []api.DeltaCommand{delta("Region:Quest:Change", `{
		"Quest": {"JobLocationId": 12, "Progress": 45}
	}`)})
	require.NoError(t, err)

	job, err := store.Jobs.FindByID(ctx, version.ID, "j-1")
	require.NoError(t, err)
	assert.Equal(t, 45, job.CurrentAmount)
}

func TestApply_QuestChangeForUnknownLocationIsIgnored(t *testing.T) {
	processor, _, version := newProcessorFixture(t)

	err := processor.Apply(context.Background(), version, []api.DeltaCommand{delta("Region:Quest:Change", `{
		"Quest": {"JobLocationId": 999, "Progress": 45}
	}`)})
	assert.NoError(t, err)
}

func TestApply_ContractListUpdateIsPersisted(t *testing.T) {
	processor, store, version := newProcessorFixture(t)
	ctx := context.Background()

	err := processor.Apply(ctx, version, []api.DeltaCommand{delta("ContractList:Update", `{
		"ContractList": {"Id": 3, "NextReplaceAt": "2024-05-01T16:00:00Z"}
	}`)})
	require.NoError(t, err)

	list, err := store.Contracts.FindList(ctx, version.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.NotNil(t, list.NextReplaceAt)
	assert.Equal(t, "2024-05-01T16:00:00Z", list.NextReplaceAt.UTC().Format("2006-01-02T15:04:05Z"))
}

func TestApply_UnrecognizedCommandIsANoOp(t *testing.T) {
	processor, _, version := newProcessorFixture(t)

	err := processor.Apply(context.Background(), version, []api.DeltaCommand{
		delta("Achievement:Unlock", `{"Achievement": {"Id": 1}}`),
	})
	assert.NoError(t, err)
}
