package config

import "time"

// AgentConfig holds decision-loop configuration
type AgentConfig struct {
	// Player account identifier used for login
	PlayerID int `mapstructure:"player_id"`

	// Remember-me token from a previous login; empty forces a device login
	RememberToken string `mapstructure:"remember_token"`

	// Randomized human-pacing sleep bounds between commands in one batch.
	// Individual commands may narrow this range but never widen it.
	SleepMin time.Duration `mapstructure:"sleep_min"`
	SleepMax time.Duration `mapstructure:"sleep_max"`

	// Hard cap on trains simultaneously committed to union jobs in one pass
	UnionDispatcherBudget int `mapstructure:"union_dispatcher_budget" validate:"min=0"`

	// How far material-requirement expansion may recurse through contract costs
	// and factory inputs before giving up on an article
	MaterialDepthLimit int `mapstructure:"material_depth_limit" validate:"min=1"`
}
