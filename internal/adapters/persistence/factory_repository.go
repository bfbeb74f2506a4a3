package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// GormFactoryRepository implements factory, product and order persistence using GORM
type GormFactoryRepository struct {
	db *gorm.DB
}

// NewGormFactoryRepository creates a new GORM factory repository
func NewGormFactoryRepository(db *gorm.DB) *GormFactoryRepository {
	return &GormFactoryRepository{db: db}
}

// SaveDefinitions bulk-upserts static factory definitions
func (r *GormFactoryRepository) SaveDefinitions(ctx context.Context, defs []game.FactoryDefinition) error {
	if len(defs) == 0 {
		return nil
	}
	models := make([]FactoryDefinitionModel, 0, len(defs))
	for _, d := range defs {
		models = append(models, FactoryDefinitionModel{
			ID:        d.ID,
			Name:      d.Name,
			SlotCount: d.SlotCount,
			Level:     d.Level,
		})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save factory definitions: %w", result.Error)
	}
	return nil
}

// SaveProducts bulk-upserts static product recipes
func (r *GormFactoryRepository) SaveProducts(ctx context.Context, products []game.Product) error {
	if len(products) == 0 {
		return nil
	}
	models := make([]ProductModel, 0, len(products))
	for _, p := range products {
		reqJSON, err := json.Marshal(p.Requirements)
		if err != nil {
			return fmt.Errorf("failed to marshal product requirements: %w", err)
		}
		models = append(models, ProductModel{
			FactoryID:        p.FactoryID,
			ArticleID:        p.ArticleID,
			ArticleAmount:    p.ArticleAmount,
			CraftTimeSeconds: int(p.CraftTime / time.Second),
			Level:            p.Level,
			RequirementsJSON: string(reqJSON),
		})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save products: %w", result.Error)
	}
	return nil
}

// BulkCreateFactories inserts player factories for a version
func (r *GormFactoryRepository) BulkCreateFactories(ctx context.Context, versionID int, factories []*game.Factory) error {
	if len(factories) == 0 {
		return nil
	}
	models := make([]FactoryModel, 0, len(factories))
	for _, f := range factories {
		models = append(models, FactoryModel{
			VersionID:    versionID,
			DefinitionID: f.DefinitionID,
			Level:        f.Level,
			SlotCount:    f.SlotCount,
		})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to bulk create factories: %w", result.Error)
	}
	return nil
}

// FindFactories returns the player factories of a version with definitions preloaded
func (r *GormFactoryRepository) FindFactories(ctx context.Context, versionID int) ([]*game.Factory, error) {
	var models []FactoryModel
	result := r.db.WithContext(ctx).
		Preload("Definition").
		Where("version_id = ?", versionID).
		Order("definition_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list factories: %w", result.Error)
	}
	factories := make([]*game.Factory, 0, len(models))
	for i := range models {
		f := &game.Factory{
			DefinitionID: models[i].DefinitionID,
			Level:        models[i].Level,
			SlotCount:    models[i].SlotCount,
		}
		if models[i].Definition != nil {
			f.Definition = &game.FactoryDefinition{
				ID:        models[i].Definition.ID,
				Name:      models[i].Definition.Name,
				SlotCount: models[i].Definition.SlotCount,
				Level:     models[i].Definition.Level,
			}
		}
		factories = append(factories, f)
	}
	return factories, nil
}

// ProductsByFactory returns every recipe of one factory
func (r *GormFactoryRepository) ProductsByFactory(ctx context.Context, factoryID int) ([]game.Product, error) {
	var models []ProductModel
	result := r.db.WithContext(ctx).
		Where("factory_id = ?", factoryID).
		Order("article_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list factory products: %w", result.Error)
	}
	return productsToEntities(models)
}

// FindOrders returns the in-flight orders of one factory, oldest first
func (r *GormFactoryRepository) FindOrders(ctx context.Context, versionID, factoryID int) ([]*game.ProductOrder, error) {
	var models []ProductOrderModel
	result := r.db.WithContext(ctx).
		Where("version_id = ? AND factory_id = ?", versionID, factoryID).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list product orders: %w", result.Error)
	}
	return ordersToEntities(models), nil
}

// CreateOrder inserts a new production order and fills in its assigned id
func (r *GormFactoryRepository) CreateOrder(ctx context.Context, versionID int, o *game.ProductOrder) error {
	model := ProductOrderModel{
		VersionID:  versionID,
		FactoryID:  o.FactoryID,
		ArticleID:  o.ArticleID,
		Amount:     o.Amount,
		CreatedAt:  o.CreatedAt,
		FinishesAt: o.FinishesAt,
	}
	if result := r.db.WithContext(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("failed to create product order: %w", result.Error)
	}
	o.ID = model.ID
	return nil
}

func productsToEntities(models []ProductModel) ([]game.Product, error) {
	products := make([]game.Product, 0, len(models))
	for _, m := range models {
		var reqs []game.RewardItem
		if err := json.Unmarshal([]byte(m.RequirementsJSON), &reqs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal requirements for product %d/%d: %w", m.FactoryID, m.ArticleID, err)
		}
		products = append(products, game.Product{
			FactoryID:     m.FactoryID,
			ArticleID:     m.ArticleID,
			ArticleAmount: m.ArticleAmount,
			CraftTime:     time.Duration(m.CraftTimeSeconds) * time.Second,
			Level:         m.Level,
			Requirements:  reqs,
		})
	}
	return products, nil
}

func ordersToEntities(models []ProductOrderModel) []*game.ProductOrder {
	orders := make([]*game.ProductOrder, 0, len(models))
	for _, m := range models {
		orders = append(orders, &game.ProductOrder{
			ID:         m.ID,
			FactoryID:  m.FactoryID,
			ArticleID:  m.ArticleID,
			Amount:     m.Amount,
			CreatedAt:  m.CreatedAt,
			FinishesAt: m.FinishesAt,
		})
	}
	return orders
}
