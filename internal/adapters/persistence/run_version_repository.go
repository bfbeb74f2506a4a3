package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// GormRunVersionRepository implements run-version persistence using GORM
type GormRunVersionRepository struct {
	db *gorm.DB
}

// NewGormRunVersionRepository creates a new GORM run version repository
func NewGormRunVersionRepository(db *gorm.DB) *GormRunVersionRepository {
	return &GormRunVersionRepository{db: db}
}

// Create persists a fresh run version and fills in its assigned id
func (r *GormRunVersionRepository) Create(ctx context.Context, v *game.RunVersion) error {
	model := runVersionToModel(v)
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("failed to create run version: %w", result.Error)
	}
	v.ID = model.ID
	return nil
}

// Save upserts the run version row
func (r *GormRunVersionRepository) Save(ctx context.Context, v *game.RunVersion) error {
	if result := r.db.WithContext(ctx).Save(runVersionToModel(v)); result.Error != nil {
		return fmt.Errorf("failed to save run version %d: %w", v.ID, result.Error)
	}
	return nil
}

// FindByID retrieves one run version
func (r *GormRunVersionRepository) FindByID(ctx context.Context, id int) (*game.RunVersion, error) {
	var model RunVersionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run version not found: %d", id)
		}
		return nil, fmt.Errorf("failed to find run version: %w", result.Error)
	}
	return runVersionToEntity(&model), nil
}

// Latest returns the most recent run version for a player, or nil if none exists
func (r *GormRunVersionRepository) Latest(ctx context.Context, playerID int) (*game.RunVersion, error) {
	var model RunVersionModel
	result := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("id DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest run version: %w", result.Error)
	}
	return runVersionToEntity(&model), nil
}

// LatestN returns up to n most recent run versions for a player, newest first
func (r *GormRunVersionRepository) LatestN(ctx context.Context, playerID, n int) ([]*game.RunVersion, error) {
	var models []RunVersionModel
	result := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("id DESC").
		Limit(n).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list run versions: %w", result.Error)
	}
	versions := make([]*game.RunVersion, 0, len(models))
	for i := range models {
		versions = append(versions, runVersionToEntity(&models[i]))
	}
	return versions, nil
}

func runVersionToModel(v *game.RunVersion) *RunVersionModel {
	return &RunVersionModel{
		ID:                v.ID,
		Status:            v.Status,
		Now:               v.Now,
		DispatchersNormal: v.DispatchersNormal,
		DispatchersUnion:  v.DispatchersUnion,
		WarehouseLevel:    v.WarehouseLevel,
		PlayerLevel:       v.PlayerLevel,
		PlayerID:          v.PlayerID,
		CommandNo:         v.CommandNo,
		NextEventAt:       v.NextEventAt,
		ErrorMessage:      v.ErrorMessage,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func runVersionToEntity(m *RunVersionModel) *game.RunVersion {
	return &game.RunVersion{
		ID:                m.ID,
		Status:            m.Status,
		Now:               m.Now,
		DispatchersNormal: m.DispatchersNormal,
		DispatchersUnion:  m.DispatchersUnion,
		WarehouseLevel:    m.WarehouseLevel,
		PlayerLevel:       m.PlayerLevel,
		PlayerID:          m.PlayerID,
		CommandNo:         m.CommandNo,
		NextEventAt:       m.NextEventAt,
		ErrorMessage:      m.ErrorMessage,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
