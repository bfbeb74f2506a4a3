package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// GormArticleRepository implements static article persistence using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GORM article repository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// SaveAll bulk-upserts static articles
func (r *GormArticleRepository) SaveAll(ctx context.Context, articles []game.Article) error {
	if len(articles) == 0 {
		return nil
	}
	models := make([]ArticleModel, 0, len(articles))
	for _, a := range articles {
		models = append(models, ArticleModel{
			ID:    a.ID,
			Name:  a.Name,
			Level: a.Level,
			Type:  a.Type,
			Era:   a.Era,
		})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save articles: %w", result.Error)
	}
	return nil
}

// FindByID retrieves one article
func (r *GormArticleRepository) FindByID(ctx context.Context, id int) (*game.Article, error) {
	var model ArticleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article not found: %d", id)
		}
		return nil, fmt.Errorf("failed to find article: %w", result.Error)
	}
	return articleToEntity(&model), nil
}

// AllByID returns every article keyed by id
func (r *GormArticleRepository) AllByID(ctx context.Context) (map[int]*game.Article, error) {
	var models []ArticleModel
	result := r.db.WithContext(ctx).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list articles: %w", result.Error)
	}
	articles := make(map[int]*game.Article, len(models))
	for i := range models {
		articles[models[i].ID] = articleToEntity(&models[i])
	}
	return articles, nil
}

func articleToEntity(m *ArticleModel) *game.Article {
	return &game.Article{
		ID:    m.ID,
		Name:  m.Name,
		Level: m.Level,
		Type:  m.Type,
		Era:   m.Era,
	}
}
