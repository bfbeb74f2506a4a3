package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// GormTrainRepository implements train persistence using GORM
type GormTrainRepository struct {
	db *gorm.DB
}

// NewGormTrainRepository creates a new GORM train repository
func NewGormTrainRepository(db *gorm.DB) *GormTrainRepository {
	return &GormTrainRepository{db: db}
}

// SaveDefinitions bulk-upserts static train definitions
func (r *GormTrainRepository) SaveDefinitions(ctx context.Context, defs []game.TrainDefinition) error {
	if len(defs) == 0 {
		return nil
	}
	models := make([]TrainDefinitionModel, 0, len(defs))
	for _, d := range defs {
		models = append(models, TrainDefinitionModel{
			ID:               d.ID,
			Name:             d.Name,
			Rarity:           d.Rarity,
			Era:              d.Era,
			Region:           d.Region,
			ContentCategory:  d.ContentCategory,
			BaseCapacity:     d.BaseCapacity,
			CapacityPerLevel: d.CapacityPerLevel,
			Power:            d.Power,
		})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save train definitions: %w", result.Error)
	}
	return nil
}

// BulkCreate inserts player trains for a version (used by ingestion)
func (r *GormTrainRepository) BulkCreate(ctx context.Context, versionID int, trains []*game.Train) error {
	if len(trains) == 0 {
		return nil
	}
	models := make([]TrainModel, 0, len(trains))
	for _, t := range trains {
		models = append(models, *trainToModel(versionID, t))
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to bulk create trains: %w", result.Error)
	}
	return nil
}

// FindAll returns every train of a version with definitions preloaded,
// ordered by instance id
func (r *GormTrainRepository) FindAll(ctx context.Context, versionID int) ([]*game.Train, error) {
	var models []TrainModel
	result := r.db.WithContext(ctx).
		Preload("Definition").
		Where("version_id = ?", versionID).
		Order("instance_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list trains: %w", result.Error)
	}
	trains := make([]*game.Train, 0, len(models))
	for i := range models {
		trains = append(trains, trainToEntity(&models[i]))
	}
	return trains, nil
}

// FindByInstanceID retrieves one train
func (r *GormTrainRepository) FindByInstanceID(ctx context.Context, versionID, instanceID int) (*game.Train, error) {
	var model TrainModel
	result := r.db.WithContext(ctx).
		Preload("Definition").
		Where("version_id = ? AND instance_id = ?", versionID, instanceID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("train not found: %d", instanceID)
		}
		return nil, fmt.Errorf("failed to find train: %w", result.Error)
	}
	return trainToEntity(&model), nil
}

// Save upserts one train's mutable state
func (r *GormTrainRepository) Save(ctx context.Context, versionID int, t *game.Train) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(trainToModel(versionID, t))
	if result.Error != nil {
		return fmt.Errorf("failed to save train %d: %w", t.InstanceID, result.Error)
	}
	return nil
}

// EarliestArrival returns the soonest route arrival among en-route trains of a
// version, or the zero time when no train is en route.
func (r *GormTrainRepository) EarliestArrival(ctx context.Context, versionID int) (time.Time, error) {
	var model TrainModel
	result := r.db.WithContext(ctx).
		Where("version_id = ? AND route_type <> '' AND route_arrival_at IS NOT NULL", versionID).
		Order("route_arrival_at").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to find earliest arrival: %w", result.Error)
	}
	if model.RouteArrivalAt == nil {
		return time.Time{}, nil
	}
	return *model.RouteArrivalAt, nil
}

func trainToModel(versionID int, t *game.Train) *TrainModel {
	return &TrainModel{
		VersionID:         versionID,
		InstanceID:        t.InstanceID,
		DefinitionID:      t.DefinitionID,
		Level:             t.Level,
		Region:            t.Region,
		RouteType:         t.RouteType,
		RouteDefinitionID: t.RouteDefinitionID,
		RouteDepartureAt:  t.RouteDepartureAt,
		RouteArrivalAt:    t.RouteArrivalAt,
		HasLoad:           t.HasLoad,
		LoadArticleID:     t.LoadArticleID,
		LoadAmount:        t.LoadAmount,
	}
}

func trainToEntity(m *TrainModel) *game.Train {
	t := &game.Train{
		InstanceID:        m.InstanceID,
		DefinitionID:      m.DefinitionID,
		Level:             m.Level,
		Region:            m.Region,
		RouteType:         m.RouteType,
		RouteDefinitionID: m.RouteDefinitionID,
		RouteDepartureAt:  m.RouteDepartureAt,
		RouteArrivalAt:    m.RouteArrivalAt,
		HasLoad:           m.HasLoad,
		LoadArticleID:     m.LoadArticleID,
		LoadAmount:        m.LoadAmount,
	}
	if m.Definition != nil {
		t.Definition = &game.TrainDefinition{
			ID:               m.Definition.ID,
			Name:             m.Definition.Name,
			Rarity:           m.Definition.Rarity,
			Era:              m.Definition.Era,
			Region:           m.Definition.Region,
			ContentCategory:  m.Definition.ContentCategory,
			BaseCapacity:     m.Definition.BaseCapacity,
			CapacityPerLevel: m.Definition.CapacityPerLevel,
			Power:            m.Definition.Power,
		}
	}
	return t
}
