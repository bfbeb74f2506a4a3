package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

func TestTrainIdleIsExactNegationOfWorking(t *testing.T) {
	train := &game.Train{InstanceID: 1}
	assert.True(t, train.IsIdle())
	assert.False(t, train.IsWorking())

	departure := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, train.AssignRoute(game.RouteJob, 7, departure, time.Hour))
	assert.False(t, train.IsIdle())
	assert.True(t, train.IsWorking())
}

func TestTrainAssignRoute_SecondRouteFails(t *testing.T) {
	train := &game.Train{InstanceID: 1}
	departure := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, train.AssignRoute(game.RouteDestination, 3, departure, 30*time.Minute))
	assert.Equal(t, departure.Add(30*time.Minute), *train.RouteArrivalAt)

	err := train.AssignRoute(game.RouteJob, 9, departure, time.Hour)
	assert.Error(t, err)
}

func TestTrainArrivalAndUnloadCycle(t *testing.T) {
	departure := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	train := &game.Train{InstanceID: 1}
	require.NoError(t, train.AssignRoute(game.RouteDestination, 3, departure, time.Hour))
	train.SetLoad(111, 40)

	assert.False(t, train.HasArrived(departure.Add(59*time.Minute)))
	assert.True(t, train.HasArrived(departure.Add(time.Hour)))

	train.ClearRoute()
	assert.True(t, train.IsIdle())
	assert.False(t, train.HasLoad)
	assert.Zero(t, train.LoadAmount)
}

func TestTrainCapacityFollowsDefinitionLevel(t *testing.T) {
	def := &game.TrainDefinition{ID: 5, BaseCapacity: 20, CapacityPerLevel: 5}
	train := &game.Train{InstanceID: 1, Level: 4, Definition: def}
	assert.Equal(t, 35, train.Capacity())
}

func TestTrainEffectiveRegion_OverrideWins(t *testing.T) {
	def := &game.TrainDefinition{ID: 5, Region: 1}
	train := &game.Train{InstanceID: 1, Definition: def}
	assert.Equal(t, 1, train.EffectiveRegion())

	train.Region = 3
	assert.Equal(t, 3, train.EffectiveRegion())
}
