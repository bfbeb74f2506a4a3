package materials

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/resources"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// ContractIntent is one trader offer the plan wants accepted. Collectable means
// the warehouse, net of amounts already earmarked by this planning pass, covers
// every condition article right now.
type ContractIntent struct {
	Contract    *game.Contract
	Collectable bool
}

// DestinationIntent is an amount of one article to haul in by destination runs
type DestinationIntent struct {
	Destination game.Destination
	Amount      int
}

// FactoryIntent is the production answer for one article: how much existing
// order coverage to draw down and how many fresh lots to queue.
type FactoryIntent struct {
	Source            resources.FactorySource
	CollectableAmount int
	ProducingAmount   int
	Lots              int
}

// Plan is the ordered output of one expansion pass
type Plan struct {
	Contracts    []ContractIntent
	Destinations []DestinationIntent
	Factories    []FactoryIntent
}

// Planner turns article requirements into a sourcing plan. Source category
// priority is contract, then destination, then factory; the first category
// with candidates wins permanently for that article.
type Planner struct {
	store      *persistence.Store
	queries    *resources.Queries
	depthLimit int
}

// NewPlanner creates a material planner. depthLimit bounds recursive
// cost-article expansion of contracts and factory recipes.
func NewPlanner(store *persistence.Store, queries *resources.Queries, depthLimit int) *Planner {
	return &Planner{store: store, queries: queries, depthLimit: depthLimit}
}

// requirement is one queued demand line during expansion
type requirement struct {
	articleID int
	amount    int
	depth     int
}

// sourceCategory identifies which sourcing path won an article this pass
type sourceCategory int

const (
	sourceNone sourceCategory = iota
	sourceContract
	sourceDestination
	sourceFactory
)

// expansion carries the working state of one Expand call
type expansion struct {
	plan  Plan
	queue []requirement

	stock game.ArticleAmounts
	// stock already promised to an earlier requirement in this pass
	earmarked game.ArticleAmounts
	// source category locked in per article; later demand for the same article
	// is routed through the same category, never a different one
	resolved map[int]sourceCategory
	// contract reward already planned but not yet charged against demand
	contractSurplus game.ArticleAmounts
	// existing factory order coverage already claimed by earlier demand
	orderDrawn game.ArticleAmounts

	contracts    map[int][]*game.Contract
	destinations map[int][]game.Destination
	factories    map[int][]resources.FactorySource
}

// free returns the un-earmarked stock of an article, never negative
func (e *expansion) free(articleID int) int {
	free := e.stock[articleID] - e.earmarked[articleID]
	if free < 0 {
		return 0
	}
	return free
}

// Expand resolves every required article into plan intents. The queue is
// processed first-in first-out; cost articles of contracts and factory lots are
// appended back onto the same queue one depth level down.
func (p *Planner) Expand(ctx context.Context, version *game.RunVersion, required map[int]int) (*Plan, error) {
	e := &expansion{
		stock:           game.ArticleAmounts{},
		earmarked:       game.ArticleAmounts{},
		resolved:        map[int]sourceCategory{},
		contractSurplus: game.ArticleAmounts{},
		orderDrawn:      game.ArticleAmounts{},
	}

	var err error
	if e.stock, err = p.queries.WarehouseAmounts(ctx, version.ID); err != nil {
		return nil, err
	}
	if e.contracts, err = p.queries.ArticleSourcesContract(ctx, version.ID, version.Now); err != nil {
		return nil, err
	}
	if e.destinations, err = p.queries.ArticleSourcesDestination(ctx, version.ID, version.PlayerLevel); err != nil {
		return nil, err
	}
	if e.factories, err = p.queries.ArticleSourcesFactory(ctx, version.ID, version.PlayerLevel); err != nil {
		return nil, err
	}

	for articleID, amount := range required {
		if amount > 0 {
			e.queue = append(e.queue, requirement{articleID: articleID, amount: amount})
		}
	}

	for len(e.queue) > 0 {
		req := e.queue[0]
		e.queue = e.queue[1:]
		if err := p.resolve(ctx, version, e, req); err != nil {
			return nil, err
		}
	}
	return &e.plan, nil
}

// resolve routes one requirement through its article's source category. The
// category is decided on first contact and locked in; later demand for the same
// article accumulates through the same category instead of being dropped.
func (p *Planner) resolve(ctx context.Context, version *game.RunVersion, e *expansion, req requirement) error {
	if req.amount <= 0 {
		return nil
	}

	category, decided := e.resolved[req.articleID]
	if !decided {
		// A later category is never consulted once an earlier one has commitments
		switch {
		case len(e.contracts[req.articleID]) > 0:
			category = sourceContract
		case len(e.destinations[req.articleID]) > 0:
			category = sourceDestination
		case len(e.factories[req.articleID]) > 0:
			category = sourceFactory
		default:
			category = sourceNone
		}
		e.resolved[req.articleID] = category
	}

	switch category {
	case sourceContract:
		p.resolveContracts(e, req)
	case sourceDestination:
		p.resolveDestination(e, req, e.destinations[req.articleID][0])
	case sourceFactory:
		return p.resolveFactory(ctx, version, e, req, e.factories[req.articleID][0])
	}
	return nil
}

// resolveContracts enqueues candidates in input order until their summed reward
// covers the requirement. Reward planned beyond the current demand is kept as
// surplus for later demand lines; consumed candidates are never re-planned.
// Stock at twice the requirement or more skips trading entirely.
func (p *Planner) resolveContracts(e *expansion, req requirement) {
	if e.stock[req.articleID] >= 2*req.amount {
		return
	}

	needed := req.amount
	if surplus := e.contractSurplus[req.articleID]; surplus > 0 {
		drawn := min(surplus, needed)
		e.contractSurplus.Add(req.articleID, -drawn)
		needed -= drawn
	}

	candidates := e.contracts[req.articleID]
	used := 0
	for _, c := range candidates {
		if needed <= 0 {
			break
		}
		used++
		take := min(c.ArticleAmount, needed)
		needed -= take
		if c.ArticleAmount > take {
			e.contractSurplus.Add(req.articleID, c.ArticleAmount-take)
		}
		e.plan.Contracts = append(e.plan.Contracts, p.evaluateContract(e, c, req.depth))
	}
	e.contracts[req.articleID] = candidates[used:]
}

// evaluateContract decides whether a contract's costs are payable from
// un-earmarked stock. Payable costs are earmarked; unpayable ones are pushed
// back into the requirement queue one level deeper, subject to the depth limit.
func (p *Planner) evaluateContract(e *expansion, c *game.Contract, depth int) ContractIntent {
	payable := true
	for _, cond := range c.Conditions {
		if e.free(cond.ArticleID) < cond.Amount {
			payable = false
			break
		}
	}
	if payable {
		for _, cond := range c.Conditions {
			e.earmarked.Add(cond.ArticleID, cond.Amount)
		}
		return ContractIntent{Contract: c, Collectable: true}
	}

	if depth < p.depthLimit {
		for _, cond := range c.Conditions {
			missing := cond.Amount - e.free(cond.ArticleID)
			if missing > 0 {
				e.queue = append(e.queue, requirement{articleID: cond.ArticleID, amount: missing, depth: depth + 1})
			}
		}
	}
	return ContractIntent{Contract: c, Collectable: false}
}

// resolveDestination queues the amount not already covered by free stock
// against the first destination candidate
func (p *Planner) resolveDestination(e *expansion, req requirement, dest game.Destination) {
	free := e.free(req.articleID)
	if free >= req.amount {
		e.earmarked.Add(req.articleID, req.amount)
		return
	}
	e.earmarked.Add(req.articleID, free)
	e.plan.Destinations = append(e.plan.Destinations, DestinationIntent{
		Destination: dest,
		Amount:      req.amount - free,
	})
}

// resolveFactory draws down completed-then-processing order coverage, then
// sizes fresh lots by ceiling division and folds each lot's inputs back into
// the queue.
func (p *Planner) resolveFactory(ctx context.Context, version *game.RunVersion, e *expansion, req requirement, source resources.FactorySource) error {
	remaining := req.amount - e.free(req.articleID)
	if remaining <= 0 {
		e.earmarked.Add(req.articleID, req.amount)
		return nil
	}
	e.earmarked.Add(req.articleID, e.free(req.articleID))

	partition, err := p.queries.FactoryOrderPartition(ctx, version.ID, source.Factory.DefinitionID, version.Now)
	if err != nil {
		return err
	}

	intent := FactoryIntent{Source: source}
	// Units claimed by earlier demand lines are skipped, not drawn twice.
	// Completed then processing orders are visited in the same order every call,
	// so the skip counter lines up with previous draws.
	skip := e.orderDrawn[req.articleID]
	draw := func(orders []*game.ProductOrder, counter *int) {
		for _, o := range orders {
			if remaining <= 0 {
				return
			}
			if o.ArticleID != req.articleID {
				continue
			}
			available := o.Amount
			if skip > 0 {
				skipped := min(skip, available)
				skip -= skipped
				available -= skipped
			}
			if available <= 0 {
				continue
			}
			drawn := min(available, remaining)
			*counter += drawn
			remaining -= drawn
			e.orderDrawn.Add(req.articleID, drawn)
		}
	}
	draw(partition.Completed, &intent.CollectableAmount)
	draw(partition.Processing, &intent.ProducingAmount)

	if remaining > 0 {
		perOrder := source.Product.ArticleAmount
		if perOrder > 0 {
			intent.Lots = (remaining + perOrder - 1) / perOrder
		}
	}
	e.plan.Factories = append(e.plan.Factories, intent)

	if intent.Lots > 0 && req.depth < p.depthLimit {
		for _, input := range source.Product.Requirements {
			e.queue = append(e.queue, requirement{
				articleID: input.ArticleID,
				amount:    input.Amount * intent.Lots,
				depth:     req.depth + 1,
			})
		}
	}
	return nil
}
