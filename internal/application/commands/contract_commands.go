package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// ContractActivateCommand flags a trader offer as active on the server. The
// server tracks activation; there is no local state to mutate.
type ContractActivateCommand struct {
	contractListID int
	slot           int
}

func NewContractActivate(contract *game.Contract) *ContractActivateCommand {
	return &ContractActivateCommand{contractListID: contract.ContractListID, slot: contract.Slot}
}

func (c *ContractActivateCommand) Name() string { return "Contract:Activate" }

func (c *ContractActivateCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"ContractListId": c.contractListID,
		"Slot":           c.slot,
	}
}

func (c *ContractActivateCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *ContractActivateCommand) PostProcessing(ctx context.Context, env *Env) error {
	return nil
}

// ContractAcceptCommand trades the condition articles for the reward article
type ContractAcceptCommand struct {
	contractListID int
	slot           int
}

func NewContractAccept(contract *game.Contract) *ContractAcceptCommand {
	return &ContractAcceptCommand{contractListID: contract.ContractListID, slot: contract.Slot}
}

func (c *ContractAcceptCommand) Name() string { return "Contract:Accept" }

func (c *ContractAcceptCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"ContractListId": c.contractListID,
		"Slot":           c.slot,
	}
}

func (c *ContractAcceptCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *ContractAcceptCommand) PostProcessing(ctx context.Context, env *Env) error {
	contract, err := findContract(ctx, env, c.contractListID, c.slot)
	if err != nil {
		return err
	}
	for _, cond := range contract.Conditions {
		if err := env.Store.Warehouse.Debit(ctx, env.Version.ID, cond.ArticleID, cond.Amount); err != nil {
			return err
		}
	}
	if err := creditWarehouse(ctx, env, contract.ArticleID, contract.ArticleAmount); err != nil {
		return err
	}
	contract.Used = true
	return env.Store.Contracts.Save(ctx, env.Version.ID, contract)
}

func findContract(ctx context.Context, env *Env, listID, slot int) (*game.Contract, error) {
	contracts, err := env.Store.Contracts.FindAll(ctx, env.Version.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range contracts {
		if c.ContractListID == listID && c.Slot == slot {
			return c, nil
		}
	}
	return nil, fmt.Errorf("contract %d/%d not found", listID, slot)
}
