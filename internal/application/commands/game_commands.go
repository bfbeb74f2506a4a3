package commands

import (
	"context"
	"time"
)

// noopCommand is a server-side-only action with no local effect
type noopCommand struct {
	name       string
	sleepMin   time.Duration
	sleepMax   time.Duration
	parameters map[string]interface{}
}

func (c *noopCommand) Name() string { return c.name }

func (c *noopCommand) Parameters() map[string]interface{} {
	if c.parameters == nil {
		return map[string]interface{}{}
	}
	return c.parameters
}

func (c *noopCommand) SleepRange() (time.Duration, time.Duration) {
	return c.sleepMin, c.sleepMax
}

func (c *noopCommand) PostProcessing(ctx context.Context, env *Env) error { return nil }

// NewHeartbeat keeps the session alive at the start of a decision pass
func NewHeartbeat() Command {
	return &noopCommand{name: "Game:Heartbeat", sleepMin: 100 * time.Millisecond, sleepMax: 300 * time.Millisecond}
}

// NewGameSleep announces the client is backgrounding between passes
func NewGameSleep() Command {
	return &noopCommand{
		name: "Game:Sleep",
		parameters: map[string]interface{}{
			"Debug": false,
		},
	}
}

// NewGameWakeup announces the client is resuming a session
func NewGameWakeup() Command {
	return &noopCommand{name: "Game:WakeUp"}
}
