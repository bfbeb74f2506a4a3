package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

func TestPartitionOrders_MovesForwardOnly(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	finish := start.Add(time.Hour)

	processing := &game.ProductOrder{ID: 1, ArticleID: 104, Amount: 40, FinishesAt: &finish}
	waiting := &game.ProductOrder{ID: 2, ArticleID: 104, Amount: 40}
	orders := []*game.ProductOrder{processing, waiting}

	before := game.PartitionOrders(orders, start)
	assert.Equal(t, []*game.ProductOrder{processing}, before.Processing)
	assert.Equal(t, []*game.ProductOrder{waiting}, before.Waiting)
	assert.Empty(t, before.Completed)

	// Once the finish time passes, the order moves to completed and never back
	after := game.PartitionOrders(orders, finish)
	assert.Equal(t, []*game.ProductOrder{processing}, after.Completed)
	assert.Empty(t, after.Processing)

	muchLater := game.PartitionOrders(orders, finish.Add(24*time.Hour))
	assert.Equal(t, []*game.ProductOrder{processing}, muchLater.Completed)
}

func TestFactorySlots_InstanceOverridesDefinition(t *testing.T) {
	def := &game.FactoryDefinition{ID: 1, SlotCount: 2}
	factory := &game.Factory{DefinitionID: 1, Definition: def}
	assert.Equal(t, 2, factory.Slots())

	factory.SlotCount = 4
	assert.Equal(t, 4, factory.Slots())
}

func TestDailyRewardAdvance_RollsWindowsAndWrapsDay(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	expire := from.Add(24 * time.Hour)
	reward := &game.DailyReward{
		Day:           game.DailyRewardDays - 1,
		AvailableFrom: from,
		ExpireAt:      expire,
	}

	reward.Advance()
	assert.Equal(t, 0, reward.Day)
	assert.Equal(t, from.Add(24*time.Hour), reward.AvailableFrom)
	assert.Equal(t, expire.Add(24*time.Hour), reward.ExpireAt)
}

func TestWarehouseCapacityForLevel(t *testing.T) {
	assert.Equal(t, 0, game.WarehouseCapacityForLevel(0))
	assert.Equal(t, 60, game.WarehouseCapacityForLevel(1))
	assert.Greater(t, game.WarehouseCapacityForLevel(30), game.WarehouseCapacityForLevel(29))
	// Levels past the table stay at the top tier
	assert.Equal(t, game.WarehouseCapacityForLevel(35), game.WarehouseCapacityForLevel(100))
}
