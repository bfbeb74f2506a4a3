package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// DailyRewardClaimCommand claims the current day of the login reward cycle.
// The video variant doubles the credited amounts.
type DailyRewardClaimCommand struct {
	withVideo bool
}

func NewDailyRewardClaim() *DailyRewardClaimCommand {
	return &DailyRewardClaimCommand{}
}

func NewDailyRewardClaimWithVideo() *DailyRewardClaimCommand {
	return &DailyRewardClaimCommand{withVideo: true}
}

func (c *DailyRewardClaimCommand) Name() string {
	if c.withVideo {
		return "DailyReward:ClaimWithVideoReward"
	}
	return "DailyReward:Claim"
}

func (c *DailyRewardClaimCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{}
}

func (c *DailyRewardClaimCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *DailyRewardClaimCommand) PostProcessing(ctx context.Context, env *Env) error {
	reward, err := env.Store.Rewards.DailyReward(ctx, env.Version.ID)
	if err != nil {
		return err
	}
	multiplier := 1
	if c.withVideo {
		multiplier = 2
	}
	if err := creditRewardItems(ctx, env, reward.TodayReward(), multiplier); err != nil {
		return err
	}
	// The rolling-window advance is the claimed-state transition
	reward.Advance()
	return env.Store.Rewards.SaveDailyReward(ctx, env.Version.ID, reward)
}

// WhistleCollectCommand collects one spawned whistle reward
type WhistleCollectCommand struct {
	whistleID int
	category  int
	position  int
}

func NewWhistleCollect(whistleID, category, position int) *WhistleCollectCommand {
	return &WhistleCollectCommand{whistleID: whistleID, category: category, position: position}
}

func (c *WhistleCollectCommand) Name() string { return "Whistle:Collect" }

func (c *WhistleCollectCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"Category": c.category,
		"Position": c.position,
	}
}

func (c *WhistleCollectCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *WhistleCollectCommand) PostProcessing(ctx context.Context, env *Env) error {
	whistle, err := findWhistle(ctx, env, c.whistleID)
	if err != nil {
		return err
	}
	if err := creditRewardItems(ctx, env, whistle.Rewards, 1); err != nil {
		return err
	}
	whistle.Collected = true
	return env.Store.Rewards.SaveWhistle(ctx, env.Version.ID, whistle)
}

// CollectOfferContainerCommand collects a video-gated offer container. The
// queued ad-watch is signalled to the server through the batch debug block.
type CollectOfferContainerCommand struct {
	whistleID int
	category  int
	position  int
}

func NewCollectOfferContainer(whistleID, category, position int) *CollectOfferContainerCommand {
	return &CollectOfferContainerCommand{whistleID: whistleID, category: category, position: position}
}

func (c *CollectOfferContainerCommand) Name() string { return "Whistle:CollectWithVideoReward" }

func (c *CollectOfferContainerCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"Category": c.category,
		"Position": c.position,
	}
}

func (c *CollectOfferContainerCommand) SleepRange() (time.Duration, time.Duration) {
	// Watching the ad takes a while; pace accordingly
	return 25 * time.Second, 40 * time.Second
}

func (c *CollectOfferContainerCommand) Debug() *api.BatchDebug {
	return &api.BatchDebug{
		CollectionsInQueue:    1,
		CollectionsInQueueIDs: fmt.Sprintf("%d-1", c.whistleID),
	}
}

func (c *CollectOfferContainerCommand) PostProcessing(ctx context.Context, env *Env) error {
	whistle, err := findWhistle(ctx, env, c.whistleID)
	if err != nil {
		return err
	}
	// Video-gated containers pay out double
	if err := creditRewardItems(ctx, env, whistle.Rewards, 2); err != nil {
		return err
	}
	whistle.Collected = true
	return env.Store.Rewards.SaveWhistle(ctx, env.Version.ID, whistle)
}

func findWhistle(ctx context.Context, env *Env, whistleID int) (*game.Whistle, error) {
	whistles, err := env.Store.Rewards.Whistles(ctx, env.Version.ID)
	if err != nil {
		return nil, err
	}
	for _, w := range whistles {
		if w.ID == whistleID {
			return w, nil
		}
	}
	return nil, fmt.Errorf("whistle %d not found", whistleID)
}
