package game

import "time"

// ContractExpiryBuffer is subtracted from every contract availability deadline so a
// contract is never accepted mid-expiry while the command is in flight.
const ContractExpiryBuffer = time.Minute

// ContractList groups the contracts offered by one trader
type ContractList struct {
	ID            int
	NextReplaceAt *time.Time
	AvailableTo   *time.Time
	ExpiresAt     *time.Time
}

// Contract is one tradeable offer: pay the condition articles, receive the reward
type Contract struct {
	Slot           int
	ContractListID int

	// Reward
	ArticleID     int
	ArticleAmount int

	// Cost articles to spend before the reward is granted
	Conditions []RewardItem

	UsableFrom  *time.Time
	AvailableTo *time.Time
	ExpiresAt   *time.Time

	Used bool

	List *ContractList
}

// IsAvailable reports whether the contract can still be accepted at the given
// time, applying the one-minute buffer before every deadline.
func (c *Contract) IsAvailable(now time.Time) bool {
	if c.Used {
		return false
	}
	if c.UsableFrom != nil && c.UsableFrom.After(now) {
		return false
	}
	deadline := c.AvailableTo
	if deadline == nil {
		deadline = c.ExpiresAt
	}
	if deadline != nil && !now.Add(ContractExpiryBuffer).Before(*deadline) {
		return false
	}
	if c.List != nil && c.List.AvailableTo != nil && !now.Add(ContractExpiryBuffer).Before(*c.List.AvailableTo) {
		return false
	}
	return true
}

// Destination is a static article source reachable by a train run
type Destination struct {
	ID         int
	LocationID int
	RegionID   int
	ArticleID  int
	Duration   time.Duration
	Multiplier int
	// Minimum player level gate
	RequiredLevel int
	// Rarity/era capability gates for the dispatched train; zero means unconstrained
	RequiredRarity int
	RequiredEra    int
	RefreshAt      *time.Time
	TrainLimit     int
}

// IsGold reports whether runs to this destination pay out plain gold
func (d *Destination) IsGold() bool {
	return d.ArticleID == ArticleGold
}
