package dispatch

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/commands"
	"github.com/andrescamacho/railbot-go/internal/application/logging"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// Dispatcher drives the dispatch phase: gold destination runs first, then the
// union job assignment search.
type Dispatcher struct {
	store    *persistence.Store
	queries  *resources.Queries
	executor *commands.Executor
	budget   int
}

// NewDispatcher creates the dispatch phase driver. budget caps trains committed
// to union jobs in one pass.
func NewDispatcher(store *persistence.Store, queries *resources.Queries, executor *commands.Executor, budget int) *Dispatcher {
	return &Dispatcher{store: store, queries: queries, executor: executor, budget: budget}
}

// Run executes both dispatch stages against the current state
func (d *Dispatcher) Run(ctx context.Context, version *game.RunVersion) error {
	if err := d.dispatchGold(ctx, version); err != nil {
		return err
	}
	return d.dispatchUnionJobs(ctx, version)
}

// dispatchGold sends remaining idle story trains on gold destination runs.
// Gold is not space-consuming, so runs are purely dispatcher-limited.
func (d *Dispatcher) dispatchGold(ctx context.Context, version *game.RunVersion) error {
	dests, err := d.store.Destinations.ByArticle(ctx, game.ArticleGold)
	if err != nil {
		return err
	}
	if len(dests) == 0 {
		return nil
	}
	visited, err := d.store.Destinations.VisitedRegions(ctx, version.ID)
	if err != nil {
		return err
	}

	var reachable []game.Destination
	for _, dest := range dests {
		if dest.RequiredLevel > version.PlayerLevel {
			continue
		}
		if !visited[dest.RegionID] {
			continue
		}
		reachable = append(reachable, dest)
	}
	if len(reachable) == 0 {
		return nil
	}

	idle := true
	unloaded := false
	trains, err := d.queries.TrainsFind(ctx, version.ID, resources.TrainFilter{Idle: &idle, HasLoad: &unloaded})
	if err != nil {
		return err
	}
	enRoute, err := d.enRoute(ctx, version.ID)
	if err != nil {
		return err
	}

	for _, train := range trains {
		if !version.CanDispatch(enRoute) {
			break
		}
		dest := pickGoldDestination(reachable, train)
		if dest == nil {
			continue
		}
		amount := train.Capacity() * multiplier(dest)
		cmd := commands.NewTrainDispatchToDestination(train, dest, amount)
		if err := d.executor.Run(ctx, version, []commands.Command{cmd}); err != nil {
			return err
		}
		enRoute++
	}
	return nil
}

// pickGoldDestination returns the first reachable destination whose gates the
// train satisfies
func pickGoldDestination(dests []game.Destination, train *game.Train) *game.Destination {
	for i := range dests {
		if trainQualifies(train, &dests[i]) {
			return &dests[i]
		}
	}
	return nil
}

func multiplier(d *game.Destination) int {
	if d.Multiplier > 0 {
		return d.Multiplier
	}
	return 1
}

func trainQualifies(t *game.Train, d *game.Destination) bool {
	if t.Definition == nil {
		return false
	}
	if d.RequiredRarity != 0 && t.Definition.Rarity != d.RequiredRarity {
		return false
	}
	if d.RequiredEra != 0 && t.Definition.Era != d.RequiredEra {
		return false
	}
	return true
}

// dispatchUnionJobs plans train->job assignments with the bounded search and
// issues one dispatch per mapped pair. Each pair is re-checked at dispatch time
// since earlier commands in the pass may have changed train state.
func (d *Dispatcher) dispatchUnionJobs(ctx context.Context, version *game.RunVersion) error {
	logger := logging.FromContext(ctx)

	budget, err := d.unionBudget(ctx, version)
	if err != nil {
		return err
	}
	if budget <= 0 {
		return nil
	}

	unlocked := true
	expired := false
	completed := false
	jobs, err := d.queries.JobsFind(ctx, version.ID, version.Now, resources.JobFilter{
		Kind:      game.JobKindUnion,
		Unlocked:  &unlocked,
		Expired:   &expired,
		Completed: &completed,
	})
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	idle := true
	unloadedFlag := false
	trains, err := d.queries.TrainsFind(ctx, version.ID, resources.TrainFilter{
		ContentCategories: map[int]bool{game.RegionContentUnion: true},
		Idle:              &idle,
		HasLoad:           &unloadedFlag,
	})
	if err != nil {
		return err
	}
	if len(trains) == 0 {
		return nil
	}

	warehouse, err := d.queries.WarehouseAmounts(ctx, version.ID)
	if err != nil {
		return err
	}

	finder := NewUnionJobFinder(trains, warehouse)
	for _, job := range jobs {
		if err := d.foldGuildProgress(ctx, version.ID, job); err != nil {
			return err
		}
		if job.RemainingAmount() <= 0 {
			continue
		}
		for _, train := range trains {
			finder.AddJobTrain(job, train)
		}
	}

	assignments := finder.Dispatching(budget, true)
	if len(assignments) == 0 {
		return nil
	}
	logger.Log("INFO", "union dispatch plan ready", map[string]interface{}{
		"assignments": len(assignments),
	})

	for _, train := range trains {
		assignment, ok := assignments[train.InstanceID]
		if !ok {
			continue
		}
		// Re-check: the plan may be stale by the time this pair is reached
		fresh, err := d.store.Trains.FindByInstanceID(ctx, version.ID, train.InstanceID)
		if err != nil {
			return err
		}
		if !fresh.IsIdle() || fresh.HasLoad {
			continue
		}
		cmd := commands.NewTrainDispatchToJob(fresh, assignment.Job, assignment.Amount)
		if err := d.executor.Run(ctx, version, []commands.Command{cmd}); err != nil {
			return err
		}
	}
	return nil
}

// unionBudget is the union dispatcher pool left this pass: the account's union
// dispatcher count, capped by the configured budget, net of trains already
// committed to jobs
func (d *Dispatcher) unionBudget(ctx context.Context, version *game.RunVersion) (int, error) {
	budget := d.budget
	if version.DispatchersUnion > 0 && version.DispatchersUnion < budget {
		budget = version.DispatchersUnion
	}
	toJob, err := d.queries.EnRouteCount(ctx, version.ID, game.RouteJob)
	if err != nil {
		return 0, err
	}
	return budget - toJob, nil
}

// foldGuildProgress lifts the job's progress to the guild-wide leaderboard
// total when one is linked to its location. Union requirements are filled by
// the whole guild, not just this account's deliveries.
func (d *Dispatcher) foldGuildProgress(ctx context.Context, versionID int, job *game.Job) error {
	lb, err := d.store.Rewards.LeaderBoardByLocation(ctx, versionID, job.JobLocationID)
	if err != nil {
		return err
	}
	if lb == nil {
		return nil
	}
	progress, err := d.store.Rewards.GroupProgress(ctx, versionID, lb.GroupID)
	if err != nil {
		return err
	}
	if progress > job.CurrentAmount {
		job.CurrentAmount = progress
	}
	return nil
}

func (d *Dispatcher) enRoute(ctx context.Context, versionID int) (int, error) {
	toDest, err := d.queries.EnRouteCount(ctx, versionID, game.RouteDestination)
	if err != nil {
		return 0, err
	}
	toJob, err := d.queries.EnRouteCount(ctx, versionID, game.RouteJob)
	if err != nil {
		return 0, err
	}
	return toDest + toJob, nil
}
