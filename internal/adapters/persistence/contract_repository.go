package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// GormContractRepository implements contract persistence using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GORM contract repository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// SaveList upserts a contract list by its natural key
func (r *GormContractRepository) SaveList(ctx context.Context, versionID int, l *game.ContractList) error {
	model := ContractListModel{
		VersionID:      versionID,
		ContractListID: l.ID,
		NextReplaceAt:  l.NextReplaceAt,
		AvailableTo:    l.AvailableTo,
		ExpiresAt:      l.ExpiresAt,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save contract list %d: %w", l.ID, result.Error)
	}
	return nil
}

// FindList retrieves one contract list, nil when absent
func (r *GormContractRepository) FindList(ctx context.Context, versionID, listID int) (*game.ContractList, error) {
	var model ContractListModel
	result := r.db.WithContext(ctx).
		Where("version_id = ? AND contract_list_id = ?", versionID, listID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contract list: %w", result.Error)
	}
	return listToEntity(&model), nil
}

// Save upserts a contract by its natural key (version, list, slot)
func (r *GormContractRepository) Save(ctx context.Context, versionID int, c *game.Contract) error {
	model, err := contractToModel(versionID, c)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save contract %d/%d: %w", c.ContractListID, c.Slot, result.Error)
	}
	return nil
}

// BulkCreate inserts contracts for a version (used by ingestion)
func (r *GormContractRepository) BulkCreate(ctx context.Context, versionID int, contracts []*game.Contract) error {
	if len(contracts) == 0 {
		return nil
	}
	models := make([]ContractModel, 0, len(contracts))
	for _, c := range contracts {
		m, err := contractToModel(versionID, c)
		if err != nil {
			return err
		}
		models = append(models, *m)
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to bulk create contracts: %w", result.Error)
	}
	return nil
}

// FindAll returns every contract of a version with lists attached, ordered by
// (list, slot) so source candidates keep a stable input order
func (r *GormContractRepository) FindAll(ctx context.Context, versionID int) ([]*game.Contract, error) {
	var models []ContractModel
	result := r.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		Order("contract_list_id, slot").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", result.Error)
	}

	var listModels []ContractListModel
	result = r.db.WithContext(ctx).Where("version_id = ?", versionID).Find(&listModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list contract lists: %w", result.Error)
	}
	lists := make(map[int]*game.ContractList, len(listModels))
	for i := range listModels {
		lists[listModels[i].ContractListID] = listToEntity(&listModels[i])
	}

	contracts := make([]*game.Contract, 0, len(models))
	for i := range models {
		c, err := contractToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		c.List = lists[c.ContractListID]
		contracts = append(contracts, c)
	}
	return contracts, nil
}

func contractToModel(versionID int, c *game.Contract) (*ContractModel, error) {
	condJSON, err := json.Marshal(c.Conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contract conditions: %w", err)
	}
	return &ContractModel{
		VersionID:      versionID,
		ContractListID: c.ContractListID,
		Slot:           c.Slot,
		ArticleID:      c.ArticleID,
		ArticleAmount:  c.ArticleAmount,
		ConditionsJSON: string(condJSON),
		UsableFrom:     c.UsableFrom,
		AvailableTo:    c.AvailableTo,
		ExpiresAt:      c.ExpiresAt,
		Used:           c.Used,
	}, nil
}

func contractToEntity(m *ContractModel) (*game.Contract, error) {
	var conditions []game.RewardItem
	if err := json.Unmarshal([]byte(m.ConditionsJSON), &conditions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conditions for contract %d/%d: %w", m.ContractListID, m.Slot, err)
	}
	return &game.Contract{
		Slot:           m.Slot,
		ContractListID: m.ContractListID,
		ArticleID:      m.ArticleID,
		ArticleAmount:  m.ArticleAmount,
		Conditions:     conditions,
		UsableFrom:     m.UsableFrom,
		AvailableTo:    m.AvailableTo,
		ExpiresAt:      m.ExpiresAt,
		Used:           m.Used,
	}, nil
}

func listToEntity(m *ContractListModel) *game.ContractList {
	return &game.ContractList{
		ID:            m.ContractListID,
		NextReplaceAt: m.NextReplaceAt,
		AvailableTo:   m.AvailableTo,
		ExpiresAt:     m.ExpiresAt,
	}
}
