package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// GormDestinationRepository implements destination and visited-region persistence
type GormDestinationRepository struct {
	db *gorm.DB
}

// NewGormDestinationRepository creates a new GORM destination repository
func NewGormDestinationRepository(db *gorm.DB) *GormDestinationRepository {
	return &GormDestinationRepository{db: db}
}

// SaveDestinations bulk-upserts static destinations
func (r *GormDestinationRepository) SaveDestinations(ctx context.Context, dests []game.Destination) error {
	if len(dests) == 0 {
		return nil
	}
	models := make([]DestinationModel, 0, len(dests))
	for _, d := range dests {
		models = append(models, DestinationModel{
			ID:              d.ID,
			LocationID:      d.LocationID,
			RegionID:        d.RegionID,
			ArticleID:       d.ArticleID,
			DurationSeconds: int(d.Duration / time.Second),
			Multiplier:      d.Multiplier,
			RequiredLevel:   d.RequiredLevel,
			RequiredRarity:  d.RequiredRarity,
			RequiredEra:     d.RequiredEra,
			RefreshAt:       d.RefreshAt,
			TrainLimit:      d.TrainLimit,
		})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save destinations: %w", result.Error)
	}
	return nil
}

// All returns every static destination ordered by id
func (r *GormDestinationRepository) All(ctx context.Context) ([]game.Destination, error) {
	var models []DestinationModel
	result := r.db.WithContext(ctx).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", result.Error)
	}
	return destinationsToEntities(models), nil
}

// ByArticle returns destinations yielding the given article, ordered by id
func (r *GormDestinationRepository) ByArticle(ctx context.Context, articleID int) ([]game.Destination, error) {
	var models []DestinationModel
	result := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list destinations by article: %w", result.Error)
	}
	return destinationsToEntities(models), nil
}

// VisitedRegions returns the set of regions the player has unlocked
func (r *GormDestinationRepository) VisitedRegions(ctx context.Context, versionID int) (map[int]bool, error) {
	var models []VisitedRegionModel
	result := r.db.WithContext(ctx).Where("version_id = ?", versionID).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list visited regions: %w", result.Error)
	}
	visited := make(map[int]bool, len(models))
	for _, m := range models {
		visited[m.RegionID] = true
	}
	return visited, nil
}

// MarkVisited records region membership for a version
func (r *GormDestinationRepository) MarkVisited(ctx context.Context, versionID int, regionIDs []int) error {
	if len(regionIDs) == 0 {
		return nil
	}
	models := make([]VisitedRegionModel, 0, len(regionIDs))
	for _, id := range regionIDs {
		models = append(models, VisitedRegionModel{VersionID: versionID, RegionID: id})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to mark visited regions: %w", result.Error)
	}
	return nil
}

func destinationsToEntities(models []DestinationModel) []game.Destination {
	dests := make([]game.Destination, 0, len(models))
	for _, m := range models {
		dests = append(dests, game.Destination{
			ID:             m.ID,
			LocationID:     m.LocationID,
			RegionID:       m.RegionID,
			ArticleID:      m.ArticleID,
			Duration:       time.Duration(m.DurationSeconds) * time.Second,
			Multiplier:     m.Multiplier,
			RequiredLevel:  m.RequiredLevel,
			RequiredRarity: m.RequiredRarity,
			RequiredEra:    m.RequiredEra,
			RefreshAt:      m.RefreshAt,
			TrainLimit:     m.TrainLimit,
		})
	}
	return dests
}
