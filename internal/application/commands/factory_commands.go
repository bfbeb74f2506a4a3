package commands

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// FactoryOrderProductCommand queues one production lot in a factory slot
type FactoryOrderProductCommand struct {
	factoryID    int
	articleID    int
	amount       int
	craftTime    time.Duration
	requirements []game.RewardItem
}

// NewFactoryOrderProduct captures the recipe at construction time. One command
// orders exactly one lot.
func NewFactoryOrderProduct(product *game.Product) *FactoryOrderProductCommand {
	return &FactoryOrderProductCommand{
		factoryID:    product.FactoryID,
		articleID:    product.ArticleID,
		amount:       product.ArticleAmount,
		craftTime:    product.CraftTime,
		requirements: product.Requirements,
	}
}

func (c *FactoryOrderProductCommand) Name() string { return "Factory:OrderProduct" }

func (c *FactoryOrderProductCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"FactoryId": c.factoryID,
		"ArticleId": c.articleID,
	}
}

func (c *FactoryOrderProductCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *FactoryOrderProductCommand) PostProcessing(ctx context.Context, env *Env) error {
	for _, req := range c.requirements {
		if err := env.Store.Warehouse.Debit(ctx, env.Version.ID, req.ArticleID, req.Amount); err != nil {
			return err
		}
	}

	// Slot availability is always recomputed from live order counts. A free
	// processing slot starts the lot immediately; otherwise it waits.
	orders, err := env.Store.Factories.FindOrders(ctx, env.Version.ID, c.factoryID)
	if err != nil {
		return err
	}
	slots, err := factorySlots(ctx, env, c.factoryID)
	if err != nil {
		return err
	}
	partition := game.PartitionOrders(orders, env.Version.Now)

	order := &game.ProductOrder{
		FactoryID: c.factoryID,
		ArticleID: c.articleID,
		Amount:    c.amount,
		CreatedAt: env.Version.Now,
	}
	if len(partition.Processing)+len(partition.Waiting) < slots {
		finishes := env.Version.Now.Add(c.craftTime)
		order.FinishesAt = &finishes
	}
	return env.Store.Factories.CreateOrder(ctx, env.Version.ID, order)
}

// FactoryCollectProductCommand collects a completed production lot.
//
// The local order row is intentionally left in place: collection is reflected
// by the next reconciliation or ingestion pass, so a stale local row can never
// be double-collected against diverged state.
type FactoryCollectProductCommand struct {
	factoryID int
	orderID   int
	articleID int
	amount    int
}

func NewFactoryCollectProduct(order *game.ProductOrder) *FactoryCollectProductCommand {
	return &FactoryCollectProductCommand{
		factoryID: order.FactoryID,
		orderID:   order.ID,
		articleID: order.ArticleID,
		amount:    order.Amount,
	}
}

func (c *FactoryCollectProductCommand) Name() string { return "Factory:CollectProduct" }

func (c *FactoryCollectProductCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"FactoryId": c.factoryID,
		"OrderId":   c.orderID,
	}
}

func (c *FactoryCollectProductCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *FactoryCollectProductCommand) PostProcessing(ctx context.Context, env *Env) error {
	return creditWarehouse(ctx, env, c.articleID, c.amount)
}

func factorySlots(ctx context.Context, env *Env, factoryID int) (int, error) {
	factories, err := env.Store.Factories.FindFactories(ctx, env.Version.ID)
	if err != nil {
		return 0, err
	}
	for _, f := range factories {
		if f.DefinitionID == factoryID {
			return f.Slots(), nil
		}
	}
	return 0, nil
}
