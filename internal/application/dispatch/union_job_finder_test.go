package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/application/dispatch"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

func unionTrain(id, capacity int) *game.Train {
	return &game.Train{
		InstanceID: id,
		Definition: &game.TrainDefinition{ID: id, BaseCapacity: capacity},
	}
}

func unionJob(id string, articleID, required, current int) *game.Job {
	return &game.Job{
		ID:                id,
		RequiredArticleID: articleID,
		RequiredAmount:    required,
		CurrentAmount:     current,
	}
}

func TestDispatching_AssignsEveryTrainWithinBudget(t *testing.T) {
	job := unionJob("u1", 104, 300, 0)
	trains := []*game.Train{unionTrain(1, 40), unionTrain(2, 60)}

	finder := dispatch.NewUnionJobFinder(trains, game.ArticleAmounts{})
	for _, tr := range trains {
		finder.AddJobTrain(job, tr)
	}
	best := finder.Dispatching(3, false)

	require.Len(t, best, 2)
	assert.Equal(t, 60, best[2].Amount)
	assert.Equal(t, 40, best[1].Amount)
}

func TestDispatching_NeverExceedsBudget(t *testing.T) {
	job := unionJob("u1", 104, 1000, 0)
	trains := []*game.Train{unionTrain(1, 40), unionTrain(2, 60), unionTrain(3, 50)}

	finder := dispatch.NewUnionJobFinder(trains, game.ArticleAmounts{})
	for _, tr := range trains {
		finder.AddJobTrain(job, tr)
	}
	best := finder.Dispatching(2, false)

	assert.LessOrEqual(t, len(best), 2)
}

func TestDispatching_OnlyRegisteredPairsAreExplored(t *testing.T) {
	jobA := unionJob("a", 104, 100, 0)
	jobB := unionJob("b", 111, 100, 0)
	trains := []*game.Train{unionTrain(1, 40), unionTrain(2, 60)}

	finder := dispatch.NewUnionJobFinder(trains, game.ArticleAmounts{})
	finder.AddJobTrain(jobA, trains[0])
	finder.AddJobTrain(jobB, trains[1])
	best := finder.Dispatching(2, false)

	require.Len(t, best, 2)
	assert.Equal(t, "a", best[1].Job.ID)
	assert.Equal(t, "b", best[2].Job.ID)
}

func TestDispatching_WarehouseLimitCapsCommitments(t *testing.T) {
	job := unionJob("u1", 104, 500, 0)
	trains := []*game.Train{unionTrain(1, 60), unionTrain(2, 60)}

	finder := dispatch.NewUnionJobFinder(trains, game.ArticleAmounts{104: 75})
	for _, tr := range trains {
		finder.AddJobTrain(job, tr)
	}
	best := finder.Dispatching(2, true)

	total := 0
	for _, a := range best {
		total += a.Amount
	}
	assert.Equal(t, 75, total)
}

func TestDispatching_CommitmentClampedToRemainingNeed(t *testing.T) {
	job := unionJob("u1", 104, 100, 70)
	train := unionTrain(1, 60)

	finder := dispatch.NewUnionJobFinder([]*game.Train{train}, game.ArticleAmounts{})
	finder.AddJobTrain(job, train)
	best := finder.Dispatching(1, false)

	require.Len(t, best, 1)
	assert.Equal(t, 30, best[1].Amount)
}

func TestDispatching_PrefersTheNeedierJob(t *testing.T) {
	nearlyDone := unionJob("near", 104, 100, 90)
	untouched := unionJob("far", 111, 100, 0)
	train := unionTrain(1, 50)

	finder := dispatch.NewUnionJobFinder([]*game.Train{train}, game.ArticleAmounts{})
	finder.AddJobTrain(nearlyDone, train)
	finder.AddJobTrain(untouched, train)
	best := finder.Dispatching(1, false)

	require.Len(t, best, 1)
	assert.Equal(t, "far", best[1].Job.ID)
}

func TestDispatching_SpreadsAcrossJobsWhenThatScoresBetter(t *testing.T) {
	jobA := unionJob("a", 104, 60, 0)
	jobB := unionJob("b", 111, 60, 0)
	trains := []*game.Train{unionTrain(1, 60), unionTrain(2, 60)}

	finder := dispatch.NewUnionJobFinder(trains, game.ArticleAmounts{})
	for _, tr := range trains {
		finder.AddJobTrain(jobA, tr)
		finder.AddJobTrain(jobB, tr)
	}
	best := finder.Dispatching(2, false)

	require.Len(t, best, 2)
	assert.NotEqual(t, best[1].Job.ID, best[2].Job.ID, "both jobs should be served")
	for _, a := range best {
		assert.Equal(t, 60, a.Amount)
	}
}

func TestDispatching_NoCandidatesReturnsNoAssignments(t *testing.T) {
	finder := dispatch.NewUnionJobFinder(nil, game.ArticleAmounts{})
	best := finder.Dispatching(2, false)
	assert.Empty(t, best)
}
