package commands

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Env is what post-processing may touch: the store, the read layer over it,
// the run version being mutated and the server response that confirmed the
// command.
type Env struct {
	Store    *persistence.Store
	Queries  *resources.Queries
	Version  *game.RunVersion
	Response *api.BatchResponse
}

// Command is one game action. Parameters derive purely from arguments captured
// at construction; nothing is re-queried at send time, so the request stays
// stable even if local state changes between construction and send.
//
// PostProcessing applies the expected local effect assuming the server accepted
// the command. It is optimistic: the authoritative correction path is the
// separate server-delta reconciliation.
// SleepRange returns the command's own pacing bounds; zero values defer to the
// executor's configured pacing.
type Command interface {
	Name() string
	Parameters() map[string]interface{}
	SleepRange() (min, max time.Duration)
	PostProcessing(ctx context.Context, env *Env) error
}

// DebugProvider is implemented by commands that queue ad-watch simulations;
// their metadata is attached at the batch top level.
type DebugProvider interface {
	Debug() *api.BatchDebug
}

// Default pacing bounds for commands that do not narrow them
const (
	defaultSleepMin = 500 * time.Millisecond
	defaultSleepMax = 2 * time.Second
)

// creditWarehouse credits stock and then re-checks the capacity invariant for
// space-consuming articles. Overflow fails loudly; the store never clamps.
func creditWarehouse(ctx context.Context, env *Env, articleID, amount int) error {
	if err := env.Store.Warehouse.Credit(ctx, env.Version.ID, articleID, amount); err != nil {
		return err
	}
	article, err := env.Store.Articles.FindByID(ctx, articleID)
	if err != nil {
		return err
	}
	if !article.ConsumesSpace() {
		return nil
	}
	used, err := env.Queries.WarehouseUsedCapacity(ctx, env.Version.ID)
	if err != nil {
		return err
	}
	if max := env.Queries.WarehouseMaxCapacity(env.Version); used > max {
		return shared.NewWarehouseOverflowError(used, max)
	}
	return nil
}

// creditRewardItems credits every reward line, with an optional multiplier for
// video-doubled claims
func creditRewardItems(ctx context.Context, env *Env, items []game.RewardItem, multiplier int) error {
	for _, item := range items {
		if err := creditWarehouse(ctx, env, item.ArticleID, item.Amount*multiplier); err != nil {
			return err
		}
	}
	return nil
}
