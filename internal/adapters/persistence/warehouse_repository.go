package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// GormWarehouseRepository implements warehouse stock persistence using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GORM warehouse repository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// Amount returns the stock of one article, zero if no row exists
func (r *GormWarehouseRepository) Amount(ctx context.Context, versionID, articleID int) (int, error) {
	var model WarehouseEntryModel
	result := r.db.WithContext(ctx).
		Where("version_id = ? AND article_id = ?", versionID, articleID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read warehouse entry: %w", result.Error)
	}
	return model.Amount, nil
}

// All returns every stock entry of a version, ordered by article id
func (r *GormWarehouseRepository) All(ctx context.Context, versionID int) ([]game.WarehouseEntry, error) {
	var models []WarehouseEntryModel
	result := r.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		Order("article_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list warehouse entries: %w", result.Error)
	}
	entries := make([]game.WarehouseEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, game.WarehouseEntry{ArticleID: m.ArticleID, Amount: m.Amount})
	}
	return entries, nil
}

// Credit adds amount to an article's stock, creating the row if needed
func (r *GormWarehouseRepository) Credit(ctx context.Context, versionID, articleID, amount int) error {
	if amount == 0 {
		return nil
	}
	current, err := r.Amount(ctx, versionID, articleID)
	if err != nil {
		return err
	}
	return r.set(ctx, versionID, articleID, current+amount)
}

// Debit subtracts amount from an article's stock. The store never clamps:
// taking an article negative is an upstream planning bug and fails loudly.
func (r *GormWarehouseRepository) Debit(ctx context.Context, versionID, articleID, amount int) error {
	if amount == 0 {
		return nil
	}
	current, err := r.Amount(ctx, versionID, articleID)
	if err != nil {
		return err
	}
	if current < amount {
		return shared.NewInsufficientStockError(articleID, amount, current)
	}
	return r.set(ctx, versionID, articleID, current-amount)
}

// BulkSet replaces stock entries wholesale (used by ingestion)
func (r *GormWarehouseRepository) BulkSet(ctx context.Context, versionID int, entries []game.WarehouseEntry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]WarehouseEntryModel, 0, len(entries))
	for _, e := range entries {
		models = append(models, WarehouseEntryModel{
			VersionID: versionID,
			ArticleID: e.ArticleID,
			Amount:    e.Amount,
		})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to bulk set warehouse entries: %w", result.Error)
	}
	return nil
}

func (r *GormWarehouseRepository) set(ctx context.Context, versionID, articleID, amount int) error {
	model := WarehouseEntryModel{VersionID: versionID, ArticleID: articleID, Amount: amount}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to write warehouse entry: %w", result.Error)
	}
	return nil
}
