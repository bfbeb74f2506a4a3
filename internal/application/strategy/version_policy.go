package strategy

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// recentVersionWindow is how many trailing versions the error-recovery check
// inspects before refusing to start a new session.
const recentVersionWindow = 5

// ensureVersion applies the session-creation policy. It returns the version to
// drive this invocation, or nil when nothing is due yet.
//
// A fresh version is started when no prior one exists, when the latest errored
// but some version in the recent window did not (a transient failure, not a
// systematic one), when a processing version stalled across an hour boundary,
// or when a completed version's cooldown has elapsed. A queued or live
// processing version is resumed as-is.
func (o *Orchestrator) ensureVersion(ctx context.Context) (*game.RunVersion, error) {
	latest, err := o.store.Versions.Latest(ctx, o.cfg.Agent.PlayerID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return o.newVersion(ctx)
	}

	switch latest.Status {
	case game.RunStatusQueued:
		return latest, nil

	case game.RunStatusProcessing:
		if hourBoundaryCrossed(latest.UpdatedAt, o.clock.Now()) {
			return o.newVersion(ctx)
		}
		return latest, nil

	case game.RunStatusCompleted:
		if latest.NextEventAt == nil || !latest.NextEventAt.After(o.clock.Now()) {
			return o.newVersion(ctx)
		}
		return nil, nil

	case game.RunStatusError:
		recent, err := o.store.Versions.LatestN(ctx, o.cfg.Agent.PlayerID, recentVersionWindow)
		if err != nil {
			return nil, err
		}
		for _, v := range recent {
			if v.Status != game.RunStatusError {
				return o.newVersion(ctx)
			}
		}
		// Every recent session failed; stay down until an operator intervenes
		return nil, nil
	}
	return nil, nil
}

func (o *Orchestrator) newVersion(ctx context.Context) (*game.RunVersion, error) {
	version := &game.RunVersion{
		Status:   game.RunStatusQueued,
		PlayerID: o.cfg.Agent.PlayerID,
		Now:      o.clock.Now().UTC(),
	}
	if err := o.store.Versions.Create(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}

// hourBoundaryCrossed reports whether now lies in a later wall-clock hour than
// the last recorded progress
func hourBoundaryCrossed(lastProgress, now time.Time) bool {
	return now.Truncate(time.Hour).After(lastProgress.Truncate(time.Hour))
}
