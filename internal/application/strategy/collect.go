package strategy

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/commands"
	"github.com/andrescamacho/railbot-go/internal/application/logging"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// collector drives the collect phase: daily reward, whistles and offer
// containers, then unloading arrived trains. Every step returns the next time
// it becomes relevant again; zero means nothing is pending.
type collector struct {
	store    *persistence.Store
	queries  *resources.Queries
	executor *commands.Executor
}

// run executes every collect step in fixed order and folds their next times
// into the version's schedule
func (c *collector) run(ctx context.Context, version *game.RunVersion) error {
	next, err := c.collectDailyReward(ctx, version)
	if err != nil {
		return err
	}
	version.ScheduleNextEvent(next)

	next, err = c.collectWhistles(ctx, version)
	if err != nil {
		return err
	}
	version.ScheduleNextEvent(next)

	next, err = c.unloadArrivedTrains(ctx, version)
	if err != nil {
		return err
	}
	version.ScheduleNextEvent(next)
	return nil
}

// collectDailyReward claims today's login reward when its window is open.
// The next relevant time is the start of the following day's window.
func (c *collector) collectDailyReward(ctx context.Context, version *game.RunVersion) (time.Time, error) {
	reward, err := c.store.Rewards.DailyReward(ctx, version.ID)
	if err != nil {
		return time.Time{}, err
	}
	if reward == nil {
		return time.Time{}, nil
	}
	if !reward.IsClaimable(version.Now) {
		return reward.AvailableFrom, nil
	}

	cmd := commands.NewDailyRewardClaim()
	if err := c.executor.Run(ctx, version, []commands.Command{cmd}); err != nil {
		return time.Time{}, err
	}
	// PostProcessing advanced the cycle; the stored window is the next claim time
	claimed, err := c.store.Rewards.DailyReward(ctx, version.ID)
	if err != nil {
		return time.Time{}, err
	}
	return claimed.AvailableFrom, nil
}

// collectWhistles collects every open whistle, routing video-gated containers
// through the ad-watch command. Returns the earliest future collectable time.
func (c *collector) collectWhistles(ctx context.Context, version *game.RunVersion) (time.Time, error) {
	logger := logging.FromContext(ctx)

	whistles, err := c.store.Rewards.Whistles(ctx, version.ID)
	if err != nil {
		return time.Time{}, err
	}

	var next time.Time
	for _, w := range whistles {
		if w.Collected {
			continue
		}
		if !w.IsCollectable(version.Now) {
			if next.IsZero() || w.CollectableFrom.Before(next) {
				next = w.CollectableFrom
			}
			continue
		}

		var cmd commands.Command
		if w.IsForVideo {
			cmd = commands.NewCollectOfferContainer(w.ID, w.Category, w.Position)
		} else {
			cmd = commands.NewWhistleCollect(w.ID, w.Category, w.Position)
		}
		if err := c.executor.Run(ctx, version, []commands.Command{cmd}); err != nil {
			return time.Time{}, err
		}
		logger.Log("INFO", "collected whistle", map[string]interface{}{
			"whistle": w.ID,
			"video":   w.IsForVideo,
		})
	}
	return next, nil
}

// unloadArrivedTrains frees every arrived train. Destination cargo is unloaded
// into the warehouse when it fits; trains whose cargo would overflow stay
// loaded until stock is spent. Returns the earliest pending arrival.
func (c *collector) unloadArrivedTrains(ctx context.Context, version *game.RunVersion) (time.Time, error) {
	trains, err := c.store.Trains.FindAll(ctx, version.ID)
	if err != nil {
		return time.Time{}, err
	}
	articles, err := c.store.Articles.AllByID(ctx)
	if err != nil {
		return time.Time{}, err
	}

	var next time.Time
	for _, t := range trains {
		if t.IsIdle() {
			continue
		}
		if !t.HasArrived(version.Now) {
			if t.RouteArrivalAt != nil && (next.IsZero() || t.RouteArrivalAt.Before(next)) {
				next = *t.RouteArrivalAt
			}
			continue
		}
		// Only destination cargo enters the warehouse; job deliveries just
		// free the train
		if t.HasLoad && t.RouteType == game.RouteDestination {
			fits, err := c.loadFits(ctx, version, articles, t)
			if err != nil {
				return time.Time{}, err
			}
			if !fits {
				continue
			}
		}
		cmd := commands.NewTrainUnload(t)
		if err := c.executor.Run(ctx, version, []commands.Command{cmd}); err != nil {
			return time.Time{}, err
		}
	}
	return next, nil
}

func (c *collector) loadFits(ctx context.Context, version *game.RunVersion, articles map[int]*game.Article, t *game.Train) (bool, error) {
	article, ok := articles[t.LoadArticleID]
	if !ok || !article.ConsumesSpace() {
		return true, nil
	}
	used, err := c.queries.WarehouseUsedCapacity(ctx, version.ID)
	if err != nil {
		return false, err
	}
	return used+t.LoadAmount <= c.queries.WarehouseMaxCapacity(version), nil
}
