package game

import "time"

// DailyRewardDays is the length of the rolling daily-reward cycle
const DailyRewardDays = 5

// DailyReward tracks the player's position in the 5-day login reward cycle.
// Claiming advances Day modulo 5 and rolls both window fields forward one day;
// that rolling advance is the claimed-state transition.
type DailyReward struct {
	Day           int
	AvailableFrom time.Time
	ExpireAt      time.Time
	// Rewards[d] holds the reward lines for cycle day d
	Rewards [][]RewardItem
}

// IsClaimable reports whether today's reward window is open
func (d *DailyReward) IsClaimable(now time.Time) bool {
	return !d.AvailableFrom.After(now) && d.ExpireAt.After(now)
}

// TodayReward returns the reward lines for the current day
func (d *DailyReward) TodayReward() []RewardItem {
	if d.Day < 0 || d.Day >= len(d.Rewards) {
		return nil
	}
	return d.Rewards[d.Day]
}

// Advance applies the post-claim rollover
func (d *DailyReward) Advance() {
	d.Day = (d.Day + 1) % DailyRewardDays
	d.AvailableFrom = d.AvailableFrom.Add(24 * time.Hour)
	d.ExpireAt = d.ExpireAt.Add(24 * time.Hour)
}

// Whistle is a periodically spawning free-reward container
type Whistle struct {
	ID              int
	Category        int
	Position        int
	SpawnTime       time.Time
	CollectableFrom time.Time
	IsForVideo      bool
	Rewards         []RewardItem
	Collected       bool
}

// IsCollectable reports whether the whistle can be collected now
func (w *Whistle) IsCollectable(now time.Time) bool {
	return !w.Collected && !w.CollectableFrom.After(now)
}

// LeaderBoard links a union job to its guild progress group
type LeaderBoard struct {
	ID            string
	GroupID       string
	JobLocationID int
}

// LeaderBoardProgress is one member's cumulative contribution to a union job
type LeaderBoardProgress struct {
	GroupID  string
	PlayerID int
	Progress int
}
