package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/logging"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// Importer turns raw server payloads into store rows. Reward and condition
// blobs are decoded exactly once here; downstream layers only ever see typed
// values.
type Importer struct {
	store *persistence.Store
}

// NewImporter creates an importer over the store
func NewImporter(store *persistence.Store) *Importer {
	return &Importer{store: store}
}

// ImportDefinitions persists the static reference data shared by all versions
func (i *Importer) ImportDefinitions(ctx context.Context, raw json.RawMessage) error {
	var payload definitionsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("malformed definitions payload: %w", err)
	}

	articles := make([]game.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, game.Article{ID: a.ID, Name: a.Name, Level: a.Level, Type: a.Type, Era: a.Era})
	}
	if err := i.store.Articles.SaveAll(ctx, articles); err != nil {
		return err
	}

	trainDefs := make([]game.TrainDefinition, 0, len(payload.Trains))
	for _, t := range payload.Trains {
		trainDefs = append(trainDefs, game.TrainDefinition{
			ID:               t.ID,
			Name:             t.Name,
			Rarity:           t.Rarity,
			Era:              t.Era,
			Region:           t.Region,
			ContentCategory:  t.ContentCategory,
			BaseCapacity:     t.Capacity,
			CapacityPerLevel: t.CapacityPerLevel,
			Power:            t.Power,
		})
	}
	if err := i.store.Trains.SaveDefinitions(ctx, trainDefs); err != nil {
		return err
	}

	regions := make([]game.Region, 0, len(payload.Regions))
	for _, r := range payload.Regions {
		regions = append(regions, game.Region{ID: r.ID, ContentCategory: r.ContentCategory})
	}
	if err := i.store.Jobs.SaveRegions(ctx, regions); err != nil {
		return err
	}

	locations := make([]game.JobLocation, 0, len(payload.JobLocations))
	for _, l := range payload.JobLocations {
		locations = append(locations, game.JobLocation{ID: l.ID, RegionID: l.Region})
	}
	if err := i.store.Jobs.SaveLocations(ctx, locations); err != nil {
		return err
	}

	factoryDefs := make([]game.FactoryDefinition, 0, len(payload.Factories))
	for _, f := range payload.Factories {
		factoryDefs = append(factoryDefs, game.FactoryDefinition{ID: f.ID, Name: f.Name, SlotCount: f.SlotCount, Level: f.Level})
	}
	if err := i.store.Factories.SaveDefinitions(ctx, factoryDefs); err != nil {
		return err
	}

	products := make([]game.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, game.Product{
			FactoryID:     p.FactoryID,
			ArticleID:     p.ArticleID,
			ArticleAmount: p.ArticleAmount,
			CraftTime:     time.Duration(p.CraftTime) * time.Second,
			Level:         p.Level,
			Requirements:  toRewardItems(p.Requirements),
		})
	}
	if err := i.store.Factories.SaveProducts(ctx, products); err != nil {
		return err
	}

	dests := make([]game.Destination, 0, len(payload.Destinations))
	for _, d := range payload.Destinations {
		dests = append(dests, game.Destination{
			ID:             d.ID,
			LocationID:     d.LocationID,
			RegionID:       d.Region,
			ArticleID:      d.ArticleID,
			Duration:       time.Duration(d.Duration) * time.Second,
			Multiplier:     d.Multiplier,
			RequiredLevel:  d.RequiredLevel,
			RequiredRarity: d.RequiredRarity,
			RequiredEra:    d.RequiredEra,
			TrainLimit:     d.TrainLimit,
		})
	}
	return i.store.Destinations.SaveDestinations(ctx, dests)
}

// ImportInitData persists the full account snapshot into the given run version
// and fills the version's player-derived fields
func (i *Importer) ImportInitData(ctx context.Context, version *game.RunVersion, raw json.RawMessage) error {
	logger := logging.FromContext(ctx)

	var payload initDataPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("malformed init data payload: %w", err)
	}

	version.PlayerID = payload.Player.PlayerID
	version.PlayerLevel = payload.Player.Level
	version.WarehouseLevel = payload.Player.WarehouseLevel
	version.DispatchersNormal = payload.Player.DispatchersNormal
	version.DispatchersUnion = payload.Player.DispatchersUnion
	if err := i.store.Versions.Save(ctx, version); err != nil {
		return err
	}

	if err := i.importTrains(ctx, version.ID, payload.Trains); err != nil {
		return err
	}

	entries := make([]game.WarehouseEntry, 0, len(payload.Warehouse))
	for _, w := range payload.Warehouse {
		entries = append(entries, game.WarehouseEntry{ArticleID: w.ID, Amount: w.Amount})
	}
	if err := i.store.Warehouse.BulkSet(ctx, version.ID, entries); err != nil {
		return err
	}

	if err := i.importJobs(ctx, version.ID, payload.Jobs); err != nil {
		return err
	}
	if err := i.importFactories(ctx, version.ID, payload.Factories); err != nil {
		return err
	}
	if err := i.importContracts(ctx, version.ID, payload.ContractLists, payload.Contracts); err != nil {
		return err
	}
	if err := i.store.Destinations.MarkVisited(ctx, version.ID, payload.VisitedRegions); err != nil {
		return err
	}
	if err := i.importWhistles(ctx, version.ID, payload.Whistles); err != nil {
		return err
	}
	if err := i.importDailyReward(ctx, version.ID, payload.DailyReward); err != nil {
		return err
	}
	if err := i.importLeaderBoards(ctx, version.ID, payload.LeaderBoards); err != nil {
		return err
	}

	logger.Log("INFO", "init data imported", map[string]interface{}{
		"version":   version.ID,
		"trains":    len(payload.Trains),
		"jobs":      len(payload.Jobs),
		"contracts": len(payload.Contracts),
	})
	return nil
}

func (i *Importer) importTrains(ctx context.Context, versionID int, dtos []trainDTO) error {
	trains := make([]*game.Train, 0, len(dtos))
	for _, t := range dtos {
		train := &game.Train{
			InstanceID:   t.InstanceID,
			DefinitionID: t.DefinitionID,
			Level:        t.Level,
			Region:       t.Region,
		}
		if t.Route != nil {
			train.RouteType = t.Route.Type
			train.RouteDefinitionID = t.Route.DefinitionID
			train.RouteDepartureAt = parseTime(t.Route.DepartureAt)
			train.RouteArrivalAt = parseTime(t.Route.ArrivalAt)
		}
		if t.Load != nil {
			train.SetLoad(t.Load.ID, t.Load.Amount)
		}
		trains = append(trains, train)
	}
	return i.store.Trains.BulkCreate(ctx, versionID, trains)
}

func (i *Importer) importJobs(ctx context.Context, versionID int, dtos []jobDTO) error {
	jobs := make([]*game.Job, 0, len(dtos))
	for _, j := range dtos {
		jobs = append(jobs, &game.Job{
			ID:                j.ID,
			JobLocationID:     j.JobLocationID,
			JobType:           j.JobType,
			RequiredArticleID: j.RequiredArticleID,
			RequiredAmount:    j.RequiredAmount,
			CurrentAmount:     j.CurrentAmount,
			Duration:          time.Duration(j.Duration) * time.Second,
			UnlockAt:          parseTime(j.UnlocksAt),
			ExpiresAt:         parseTime(j.ExpiresAt),
			CollectableFrom:   parseTime(j.CollectableFrom),
			CompletedAt:       parseTime(j.CompletedAt),
			Reward:            decodeReward(j.Reward),
		})
	}
	return i.store.Jobs.BulkCreate(ctx, versionID, jobs)
}

func (i *Importer) importFactories(ctx context.Context, versionID int, dtos []factoryDTO) error {
	factories := make([]*game.Factory, 0, len(dtos))
	for _, f := range dtos {
		factories = append(factories, &game.Factory{
			DefinitionID: f.DefinitionID,
			Level:        f.Level,
			SlotCount:    f.SlotCount,
		})
	}
	if err := i.store.Factories.BulkCreateFactories(ctx, versionID, factories); err != nil {
		return err
	}
	for _, f := range dtos {
		for _, o := range f.Orders {
			order := &game.ProductOrder{
				FactoryID:  f.DefinitionID,
				ArticleID:  o.ArticleID,
				Amount:     o.Amount,
				FinishesAt: parseTime(o.FinishesAt),
			}
			if created := parseTime(o.CreatedAt); created != nil {
				order.CreatedAt = *created
			}
			if err := i.store.Factories.CreateOrder(ctx, versionID, order); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *Importer) importContracts(ctx context.Context, versionID int, listDTOs []contractListDTO, contractDTOs []contractDTO) error {
	for _, l := range listDTOs {
		list := &game.ContractList{
			ID:            l.ID,
			NextReplaceAt: parseTime(l.NextReplaceAt),
			AvailableTo:   parseTime(l.AvailableTo),
			ExpiresAt:     parseTime(l.ExpiresAt),
		}
		if err := i.store.Contracts.SaveList(ctx, versionID, list); err != nil {
			return err
		}
	}
	contracts := make([]*game.Contract, 0, len(contractDTOs))
	for _, c := range contractDTOs {
		contracts = append(contracts, &game.Contract{
			Slot:           c.Slot,
			ContractListID: c.ContractListID,
			ArticleID:      c.ArticleID,
			ArticleAmount:  c.ArticleAmount,
			Conditions:     decodeReward(c.Conditions),
			UsableFrom:     parseTime(c.UsableFrom),
			AvailableTo:    parseTime(c.AvailableTo),
			ExpiresAt:      parseTime(c.ExpiresAt),
		})
	}
	return i.store.Contracts.BulkCreate(ctx, versionID, contracts)
}

func (i *Importer) importWhistles(ctx context.Context, versionID int, dtos []whistleDTO) error {
	for _, w := range dtos {
		whistle := &game.Whistle{
			ID:         w.ID,
			Category:   w.Category,
			Position:   w.Position,
			IsForVideo: w.IsForVideo,
			Rewards:    decodeReward(w.Reward),
		}
		if spawn := parseTime(w.SpawnTime); spawn != nil {
			whistle.SpawnTime = *spawn
		}
		if from := parseTime(w.CollectableFrom); from != nil {
			whistle.CollectableFrom = *from
		}
		if err := i.store.Rewards.SaveWhistle(ctx, versionID, whistle); err != nil {
			return err
		}
	}
	return nil
}

func (i *Importer) importDailyReward(ctx context.Context, versionID int, dto *dailyRewardDTO) error {
	if dto == nil {
		return nil
	}
	reward := &game.DailyReward{Day: dto.Day}
	if from := parseTime(dto.AvailableFrom); from != nil {
		reward.AvailableFrom = *from
	}
	if expire := parseTime(dto.ExpireAt); expire != nil {
		reward.ExpireAt = *expire
	}
	reward.Rewards = make([][]game.RewardItem, 0, len(dto.Rewards))
	for _, blob := range dto.Rewards {
		reward.Rewards = append(reward.Rewards, decodeReward(blob))
	}
	return i.store.Rewards.SaveDailyReward(ctx, versionID, reward)
}

func (i *Importer) importLeaderBoards(ctx context.Context, versionID int, dtos []leaderBoardDTO) error {
	for _, lb := range dtos {
		if err := i.store.Rewards.SaveLeaderBoard(ctx, versionID, &game.LeaderBoard{
			ID:            lb.ID,
			GroupID:       lb.GroupID,
			JobLocationID: lb.JobLocationID,
		}); err != nil {
			return err
		}
		for _, p := range lb.Progresses {
			if err := i.store.Rewards.SaveProgress(ctx, versionID, &game.LeaderBoardProgress{
				GroupID:  lb.GroupID,
				PlayerID: p.PlayerID,
				Progress: p.Progress,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// toRewardItems maps plain article/amount lines; recipe requirements arrive
// without the envelope wrapping
func toRewardItems(items []amountItem) []game.RewardItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]game.RewardItem, 0, len(items))
	for _, item := range items {
		out = append(out, game.RewardItem{ArticleID: item.ID, Amount: item.Amount})
	}
	return out
}

// decodeReward filters a reward envelope down to its article lines. Non-article
// discriminants are dropped; a malformed blob decodes to nil rather than
// failing the whole import.
func decodeReward(raw json.RawMessage) []game.RewardItem {
	if len(raw) == 0 {
		return nil
	}
	var envelope rewardEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}
	var items []game.RewardItem
	for _, item := range envelope.Items {
		if item.ID != rewardItemArticle {
			continue
		}
		items = append(items, game.RewardItem{ArticleID: item.Value.ID, Amount: item.Value.Amount})
	}
	return items
}

// parseTime decodes an RFC3339 timestamp; empty or malformed values map to nil
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
