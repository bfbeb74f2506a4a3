package materials

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/commands"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// Runner turns a plan into issued commands. Emission order is fixed:
// destination dispatches, factory orders, factory collects, contract accepts.
type Runner struct {
	store    *persistence.Store
	queries  *resources.Queries
	executor *commands.Executor
}

// NewRunner creates a plan runner over the shared executor
func NewRunner(store *persistence.Store, queries *resources.Queries, executor *commands.Executor) *Runner {
	return &Runner{store: store, queries: queries, executor: executor}
}

// Execute issues the plan's commands. Each command round-trips and
// post-processes before the next is built, so later stages see the stock and
// route mutations of earlier ones.
func (r *Runner) Execute(ctx context.Context, version *game.RunVersion, plan *Plan) error {
	if err := r.dispatchDestinations(ctx, version, plan.Destinations); err != nil {
		return err
	}
	if err := r.orderProduction(ctx, version, plan.Factories); err != nil {
		return err
	}
	if err := r.collectProduction(ctx, version, plan.Factories); err != nil {
		return err
	}
	return r.acceptContracts(ctx, version, plan.Contracts)
}

// dispatchDestinations sends idle trains on destination runs, capacity-limited
// per train and capped by the remaining dispatcher budget
func (r *Runner) dispatchDestinations(ctx context.Context, version *game.RunVersion, intents []DestinationIntent) error {
	if len(intents) == 0 {
		return nil
	}

	idle := true
	unloaded := false
	trains, err := r.queries.TrainsFind(ctx, version.ID, resources.TrainFilter{Idle: &idle, HasLoad: &unloaded})
	if err != nil {
		return err
	}
	enRoute, err := r.enRoute(ctx, version.ID)
	if err != nil {
		return err
	}

	next := 0
	for _, intent := range intents {
		remaining := intent.Amount
		for remaining > 0 && next < len(trains) && version.CanDispatch(enRoute) {
			train := trains[next]
			next++
			if !trainQualifies(train, &intent.Destination) {
				continue
			}
			haul := min(train.Capacity(), remaining)
			if haul <= 0 {
				continue
			}
			cmd := commands.NewTrainDispatchToDestination(train, &intent.Destination, haul)
			if err := r.executor.Run(ctx, version, []commands.Command{cmd}); err != nil {
				return err
			}
			remaining -= haul
			enRoute++
		}
	}
	return nil
}

// trainQualifies checks the destination's rarity and era gates; zero gates
// accept any train
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

func (r *Runner) enRoute(ctx context.Context, versionID int) (int, error) {
	toDest, err := r.queries.EnRouteCount(ctx, versionID, game.RouteDestination)
	if err != nil {
		return 0, err
	}
	toJob, err := r.queries.EnRouteCount(ctx, versionID, game.RouteJob)
	if err != nil {
		return 0, err
	}
	return toDest + toJob, nil
}

// orderProduction queues every planned fresh lot
func (r *Runner) orderProduction(ctx context.Context, version *game.RunVersion, intents []FactoryIntent) error {
	for _, intent := range intents {
		for lot := 0; lot < intent.Lots; lot++ {
			cmd := commands.NewFactoryOrderProduct(&intent.Source.Product)
			if err := r.executor.Run(ctx, version, []commands.Command{cmd}); err != nil {
				return err
			}
		}
	}
	return nil
}

// collectProduction collects completed orders until each intent's drawn-down
// coverage is met
func (r *Runner) collectProduction(ctx context.Context, version *game.RunVersion, intents []FactoryIntent) error {
	for _, intent := range intents {
		if intent.CollectableAmount <= 0 {
			continue
		}
		partition, err := r.queries.FactoryOrderPartition(ctx, version.ID, intent.Source.Factory.DefinitionID, version.Now)
		if err != nil {
			return err
		}
		collected := 0
		for _, order := range partition.Completed {
			if collected >= intent.CollectableAmount {
				break
			}
			if order.ArticleID != intent.Source.Product.ArticleID {
				continue
			}
			cmd := commands.NewFactoryCollectProduct(order)
			if err := r.executor.Run(ctx, version, []commands.Command{cmd}); err != nil {
				return err
			}
			collected += order.Amount
		}
	}
	return nil
}

// acceptContracts activates and accepts every contract the pass found payable.
// Availability is re-checked against the session clock at emission time.
func (r *Runner) acceptContracts(ctx context.Context, version *game.RunVersion, intents []ContractIntent) error {
	for _, intent := range intents {
		if !intent.Collectable {
			continue
		}
		if !intent.Contract.IsAvailable(version.Now) {
			continue
		}
		batch := []commands.Command{
			commands.NewContractActivate(intent.Contract),
			commands.NewContractAccept(intent.Contract),
		}
		if err := r.executor.Run(ctx, version, batch); err != nil {
			return err
		}
	}
	return nil
}
