package commands

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/logging"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// wireTimeLayout is ISO8601 with second precision, no fractional part
const wireTimeLayout = "2006-01-02T15:04:05Z"

// Sender posts one command batch; implemented by the API client, mocked in tests
type Sender interface {
	SendCommandBatch(ctx context.Context, batch *api.CommandBatch) (*api.BatchResponse, error)
}

// DeltaHandler reconciles server-pushed delta commands into the store
type DeltaHandler interface {
	Apply(ctx context.Context, version *game.RunVersion, deltas []api.DeltaCommand) error
}

// Pacing bounds the randomized inter-command sleep for commands that do not
// narrow it themselves. Zero values fall back to the built-in defaults.
type Pacing struct {
	Min time.Duration
	Max time.Duration
}

// Executor issues commands strictly sequentially: randomized pacing sleep, HTTP
// round trip, then synchronous post-processing before the next command runs.
// Later commands may query state mutated by earlier ones within the same pass.
type Executor struct {
	sender  Sender
	store   *persistence.Store
	queries *resources.Queries
	clock   shared.Clock
	deltas  DeltaHandler
	paceMin time.Duration
	paceMax time.Duration
	rng     *rand.Rand
}

// NewExecutor creates a command executor. The delta handler may be nil; pushed
// deltas are then ignored.
func NewExecutor(sender Sender, store *persistence.Store, queries *resources.Queries, clock shared.Clock, deltas DeltaHandler, pacing Pacing) *Executor {
	if pacing.Min <= 0 {
		pacing.Min = defaultSleepMin
	}
	if pacing.Max < pacing.Min {
		pacing.Max = defaultSleepMax
	}
	if pacing.Max < pacing.Min {
		pacing.Max = pacing.Min
	}
	return &Executor{
		sender:  sender,
		store:   store,
		queries: queries,
		clock:   clock,
		deltas:  deltas,
		paceMin: pacing.Min,
		paceMax: pacing.Max,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes every command in order against the given run version
func (e *Executor) Run(ctx context.Context, version *game.RunVersion, cmds []Command) error {
	for _, cmd := range cmds {
		if err := e.runOne(ctx, version, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runOne(ctx context.Context, version *game.RunVersion, cmd Command) error {
	logger := logging.FromContext(ctx)

	e.clock.Sleep(e.pacing(cmd))

	batch := BuildBatch(version, cmd)
	logger.Log("DEBUG", "sending command", map[string]interface{}{
		"command": cmd.Name(),
		"batch":   batch.ID,
	})

	resp, err := e.sender.SendCommandBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("command %s failed: %w", cmd.Name(), err)
	}

	// Re-sync the session clock from the server before applying local effects
	if resp.Time != "" {
		if serverNow, perr := time.Parse(time.RFC3339, resp.Time); perr == nil {
			version.Now = serverNow.UTC()
		}
	}

	env := &Env{Store: e.store, Queries: e.queries, Version: version, Response: resp}
	if err := cmd.PostProcessing(ctx, env); err != nil {
		return fmt.Errorf("post-processing of %s failed: %w", cmd.Name(), err)
	}

	if err := e.store.Versions.Save(ctx, version); err != nil {
		return err
	}

	if e.deltas != nil && len(resp.Commands) > 0 {
		if err := e.deltas.Apply(ctx, version, resp.Commands); err != nil {
			return fmt.Errorf("delta reconciliation after %s failed: %w", cmd.Name(), err)
		}
	}
	return nil
}

// pacing picks a random sleep within the command's declared range; commands
// that declare no range get the executor's configured bounds
func (e *Executor) pacing(cmd Command) time.Duration {
	min, max := cmd.SleepRange()
	if min == 0 && max == 0 {
		min, max = e.paceMin, e.paceMax
	}
	if max <= min {
		return min
	}
	return min + time.Duration(e.rng.Int63n(int64(max-min)))
}

// BuildBatch constructs the wire envelope for one command. The batch sequence
// id comes from the version's monotonically increasing command counter; debug
// metadata is attached only when the command supplies it.
func BuildBatch(version *game.RunVersion, cmd Command) *api.CommandBatch {
	now := version.Now.UTC().Format(wireTimeLayout)
	batch := &api.CommandBatch{
		ID:   version.NextCommandNo(),
		Time: now,
		Commands: []api.WireCommand{
			{
				Command:    cmd.Name(),
				Time:       now,
				Parameters: cmd.Parameters(),
			},
		},
		Transactional: false,
	}
	if dp, ok := cmd.(DebugProvider); ok {
		if debug := dp.Debug(); debug != nil {
			batch.Debug = debug
		}
	}
	return batch
}
