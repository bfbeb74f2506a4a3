package strategy

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/ingest"
	"github.com/andrescamacho/railbot-go/internal/application/logging"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// ResponseProcessor reconciles server-pushed delta commands into the store.
// Recognized deltas are merged by upsert on their natural key; unrecognized
// command types are a forward-compatible no-op.
type ResponseProcessor struct {
	store *persistence.Store
}

// NewResponseProcessor creates a delta reconciler over the store
func NewResponseProcessor(store *persistence.Store) *ResponseProcessor {
	return &ResponseProcessor{store: store}
}

// Apply merges every recognized delta from one batch response
func (p *ResponseProcessor) Apply(ctx context.Context, version *game.RunVersion, deltas []api.DeltaCommand) error {
	logger := logging.FromContext(ctx)

	for _, delta := range deltas {
		var err error
		switch delta.Command {
		case "Whistle:Spawn":
			err = p.applyWhistleSpawn(ctx, version, delta)
		case "Contract:New":
			err = p.applyContractNew(ctx, version, delta)
		case "Map:NewJob":
			err = p.applyNewJob(ctx, version, delta)
		case "Region:Quest:Change":
			err = p.applyQuestChange(ctx, version, delta)
		case "ContractList:Update":
			err = p.applyContractListUpdate(ctx, version, delta)
		default:
			logger.Log("DEBUG", "ignoring unrecognized server delta", map[string]interface{}{
				"command": delta.Command,
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *ResponseProcessor) applyWhistleSpawn(ctx context.Context, version *game.RunVersion, delta api.DeltaCommand) error {
	whistle, err := ingest.DecodeWhistle(delta.Data)
	if err != nil {
		return err
	}
	return p.store.Rewards.SaveWhistle(ctx, version.ID, whistle)
}

func (p *ResponseProcessor) applyContractNew(ctx context.Context, version *game.RunVersion, delta api.DeltaCommand) error {
	contract, err := ingest.DecodeContract(delta.Data)
	if err != nil {
		return err
	}
	return p.store.Contracts.Save(ctx, version.ID, contract)
}

func (p *ResponseProcessor) applyNewJob(ctx context.Context, version *game.RunVersion, delta api.DeltaCommand) error {
	job, err := ingest.DecodeJob(delta.Data)
	if err != nil {
		return err
	}
	return p.store.Jobs.Save(ctx, version.ID, job)
}

// applyQuestChange updates the progress of the job at the quest's location.
// A quest for a location without a known job is ignored.
func (p *ResponseProcessor) applyQuestChange(ctx context.Context, version *game.RunVersion, delta api.DeltaCommand) error {
	quest, err := ingest.DecodeQuestChange(delta.Data)
	if err != nil {
		return err
	}
	job, err := p.store.Jobs.FindByLocation(ctx, version.ID, quest.JobLocationID)
	if err != nil {
		return err
	}
	if job == nil {
		return nil
	}
	job.CurrentAmount = quest.Progress
	return p.store.Jobs.Save(ctx, version.ID, job)
}

func (p *ResponseProcessor) applyContractListUpdate(ctx context.Context, version *game.RunVersion, delta api.DeltaCommand) error {
	list, err := ingest.DecodeContractList(delta.Data)
	if err != nil {
		return err
	}
	return p.store.Contracts.SaveList(ctx, version.ID, list)
}
