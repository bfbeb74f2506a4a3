package strategy

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/commands"
	"github.com/andrescamacho/railbot-go/internal/application/dispatch"
	"github.com/andrescamacho/railbot-go/internal/application/ingest"
	"github.com/andrescamacho/railbot-go/internal/application/logging"
	"github.com/andrescamacho/railbot-go/internal/application/materials"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
)

// Orchestrator drives one RunVersion through its state machine: queued
// sessions bootstrap, processing sessions run one full decision pass, and the
// result is a completed version carrying the next wake-up time.
type Orchestrator struct {
	cfg     *config.Config
	store   *persistence.Store
	queries *resources.Queries
	client  *api.Client
	clock   shared.Clock

	importer   *ingest.Importer
	executor   *commands.Executor
	collector  *collector
	dispatcher *dispatch.Dispatcher
	planner    *materials.Planner
	runner     *materials.Runner
}

// NewOrchestrator wires the full decision engine over one store and client
func NewOrchestrator(cfg *config.Config, store *persistence.Store, client *api.Client, clock shared.Clock) *Orchestrator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	queries := resources.NewQueries(store)
	processor := NewResponseProcessor(store)
	executor := commands.NewExecutor(client, store, queries, clock, processor, commands.Pacing{Min: cfg.Agent.SleepMin, Max: cfg.Agent.SleepMax})
	return &Orchestrator{
		cfg:        cfg,
		store:      store,
		queries:    queries,
		client:     client,
		clock:      clock,
		importer:   ingest.NewImporter(store),
		executor:   executor,
		collector:  &collector{store: store, queries: queries, executor: executor},
		dispatcher: dispatch.NewDispatcher(store, queries, executor, cfg.Agent.UnionDispatcherBudget),
		planner:    materials.NewPlanner(store, queries, cfg.Agent.MaterialDepthLimit),
		runner:     materials.NewRunner(store, queries, executor),
	}
}

// Run executes one orchestrator invocation. This is the only catch boundary in
// the engine: an expired session parks the version behind a fixed cooldown,
// anything else marks the version failed and propagates.
func (o *Orchestrator) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	version, err := o.ensureVersion(ctx)
	if err != nil {
		return err
	}
	if version == nil {
		logger.Log("DEBUG", "no session due", nil)
		return nil
	}

	err = o.process(ctx, version)
	switch {
	case err == nil:
		return nil

	case shared.IsSessionExpired(err):
		logger.Log("WARN", "session expired, cooling down", map[string]interface{}{
			"version": version.ID,
		})
		version.Status = game.RunStatusCompleted
		retryAt := o.clock.Now().Add(game.SessionRetryCooldown)
		version.NextEventAt = &retryAt
		return o.store.Versions.Save(ctx, version)

	default:
		version.Status = game.RunStatusError
		version.ErrorMessage = err.Error()
		if saveErr := o.store.Versions.Save(ctx, version); saveErr != nil {
			logger.Log("ERROR", "failed to persist error state", map[string]interface{}{
				"version": version.ID,
				"error":   saveErr.Error(),
			})
		}
		return err
	}
}

func (o *Orchestrator) process(ctx context.Context, version *game.RunVersion) error {
	if version.Status == game.RunStatusQueued {
		if err := o.bootstrap(ctx, version); err != nil {
			return err
		}
	}
	return o.decisionPass(ctx, version)
}

// bootstrap performs the one-time session setup: login, static definitions,
// account snapshot, start-game announcement.
func (o *Orchestrator) bootstrap(ctx context.Context, version *game.RunVersion) error {
	logger := logging.FromContext(ctx)

	login, err := o.client.Login(ctx, o.cfg.Agent.PlayerID, o.cfg.Agent.RememberToken)
	if err != nil {
		return err
	}
	logger.Log("INFO", "logged in", map[string]interface{}{
		"player": login.PlayerID,
	})

	definitions, err := o.client.GetDefinitions(ctx)
	if err != nil {
		return err
	}
	if err := o.importer.ImportDefinitions(ctx, definitions); err != nil {
		return err
	}

	initData, serverTime, err := o.client.GetInitData(ctx)
	if err != nil {
		return err
	}
	if serverNow, perr := time.Parse(time.RFC3339, serverTime); perr == nil {
		version.Now = serverNow.UTC()
	}
	if err := o.importer.ImportInitData(ctx, version, initData); err != nil {
		return err
	}

	if err := o.client.StartGame(ctx); err != nil {
		return err
	}

	version.Status = game.RunStatusProcessing
	return o.store.Versions.Save(ctx, version)
}

// decisionPass runs the fixed phase order: heartbeat, collect, dispatch,
// materials, then the final scheduling reduction over en-route arrivals.
func (o *Orchestrator) decisionPass(ctx context.Context, version *game.RunVersion) error {
	version.NextEventAt = nil

	warmup := []commands.Command{commands.NewHeartbeat(), commands.NewGameWakeup()}
	if err := o.executor.Run(ctx, version, warmup); err != nil {
		return err
	}

	if err := o.collector.run(ctx, version); err != nil {
		return err
	}
	if err := o.dispatcher.Run(ctx, version); err != nil {
		return err
	}
	if err := o.materialsPhase(ctx, version); err != nil {
		return err
	}

	if err := o.executor.Run(ctx, version, []commands.Command{commands.NewGameSleep()}); err != nil {
		return err
	}

	arrival, err := o.store.Trains.EarliestArrival(ctx, version.ID)
	if err != nil {
		return err
	}
	version.ScheduleNextEvent(arrival)

	version.Status = game.RunStatusCompleted
	return o.store.Versions.Save(ctx, version)
}

// materialsPhase sources whatever the open story and event jobs still need
func (o *Orchestrator) materialsPhase(ctx context.Context, version *game.RunVersion) error {
	required, err := o.jobRequirements(ctx, version)
	if err != nil {
		return err
	}
	if len(required) == 0 {
		return nil
	}
	plan, err := o.planner.Expand(ctx, version, required)
	if err != nil {
		return err
	}
	return o.runner.Execute(ctx, version, plan)
}

// jobRequirements sums the remaining demand of unlocked, unexpired story and
// event jobs per article
func (o *Orchestrator) jobRequirements(ctx context.Context, version *game.RunVersion) (map[int]int, error) {
	unlocked := true
	expired := false
	completed := false

	required := map[int]int{}
	for _, kind := range []game.JobKind{game.JobKindStory, game.JobKindEvent} {
		jobs, err := o.queries.JobsFind(ctx, version.ID, version.Now, resources.JobFilter{
			Kind:      kind,
			Unlocked:  &unlocked,
			Expired:   &expired,
			Completed: &completed,
		})
		if err != nil {
			return nil, err
		}
		for _, job := range jobs {
			if remaining := job.RemainingAmount(); remaining > 0 {
				required[job.RequiredArticleID] += remaining
			}
		}
	}
	return required, nil
}
