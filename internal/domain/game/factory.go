package game

import "time"

// FactoryDefinition is the static template for a factory building
type FactoryDefinition struct {
	ID        int
	Name      string
	SlotCount int
	Level     int
}

// Factory is a player-owned factory instance
type Factory struct {
	DefinitionID int
	Level        int
	SlotCount    int

	Definition *FactoryDefinition
}

// Slots returns the number of production slots, falling back to the definition
func (f *Factory) Slots() int {
	if f.SlotCount > 0 {
		return f.SlotCount
	}
	if f.Definition != nil {
		return f.Definition.SlotCount
	}
	return 0
}

// Product is a static recipe: which article a factory produces, in what lot size,
// and what inputs one lot consumes
type Product struct {
	FactoryID     int
	ArticleID     int
	ArticleAmount int
	CraftTime     time.Duration
	Level         int
	Requirements  []RewardItem
}

// ProductOrder is one in-flight production lot occupying a factory slot
type ProductOrder struct {
	ID        int
	FactoryID int
	ArticleID int
	Amount    int
	CreatedAt time.Time
	// Nil while the order is still waiting for a processing slot
	FinishesAt *time.Time
}

// IsCompleted reports whether the order has finished producing by now.
// Completion is monotonic: once FinishesAt has passed an order never moves back.
func (o *ProductOrder) IsCompleted(now time.Time) bool {
	return o.FinishesAt != nil && !o.FinishesAt.After(now)
}

// IsProcessing reports whether the order is actively producing
func (o *ProductOrder) IsProcessing(now time.Time) bool {
	return o.FinishesAt != nil && o.FinishesAt.After(now)
}

// IsWaiting reports whether the order has not started yet
func (o *ProductOrder) IsWaiting() bool {
	return o.FinishesAt == nil
}

// OrderPartition splits a factory's orders into completed, processing and waiting
// sets at the given time, preserving input order within each set.
type OrderPartition struct {
	Completed  []*ProductOrder
	Processing []*ProductOrder
	Waiting    []*ProductOrder
}

// PartitionOrders classifies orders against now
func PartitionOrders(orders []*ProductOrder, now time.Time) OrderPartition {
	var p OrderPartition
	for _, o := range orders {
		switch {
		case o.IsCompleted(now):
			p.Completed = append(p.Completed, o)
		case o.IsProcessing(now):
			p.Processing = append(p.Processing, o)
		default:
			p.Waiting = append(p.Waiting, o)
		}
	}
	return p
}
