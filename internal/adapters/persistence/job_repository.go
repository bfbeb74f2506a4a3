package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// GormJobRepository implements job persistence using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GORM job repository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// SaveRegions bulk-upserts static regions
func (r *GormJobRepository) SaveRegions(ctx context.Context, regions []game.Region) error {
	if len(regions) == 0 {
		return nil
	}
	models := make([]RegionModel, 0, len(regions))
	for _, reg := range regions {
		models = append(models, RegionModel{ID: reg.ID, ContentCategory: reg.ContentCategory})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save regions: %w", result.Error)
	}
	return nil
}

// SaveLocations bulk-upserts static job locations
func (r *GormJobRepository) SaveLocations(ctx context.Context, locations []game.JobLocation) error {
	if len(locations) == 0 {
		return nil
	}
	models := make([]JobLocationModel, 0, len(locations))
	for _, loc := range locations {
		models = append(models, JobLocationModel{ID: loc.ID, RegionID: loc.RegionID})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save job locations: %w", result.Error)
	}
	return nil
}

// BulkCreate inserts jobs for a version (used by ingestion)
func (r *GormJobRepository) BulkCreate(ctx context.Context, versionID int, jobs []*game.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	models := make([]JobModel, 0, len(jobs))
	for _, j := range jobs {
		m, err := jobToModel(versionID, j)
		if err != nil {
			return err
		}
		models = append(models, *m)
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to bulk create jobs: %w", result.Error)
	}
	return nil
}

// FindAll returns every job of a version with location and region preloaded
func (r *GormJobRepository) FindAll(ctx context.Context, versionID int) ([]*game.Job, error) {
	var models []JobModel
	result := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Location.Region").
		Where("version_id = ?", versionID).
		Order("job_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", result.Error)
	}
	jobs := make([]*game.Job, 0, len(models))
	for i := range models {
		j, err := jobToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// FindByID retrieves one job
func (r *GormJobRepository) FindByID(ctx context.Context, versionID int, jobID string) (*game.Job, error) {
	var model JobModel
	result := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Location.Region").
		Where("version_id = ? AND job_id = ?", versionID, jobID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %s", jobID)
		}
		return nil, fmt.Errorf("failed to find job: %w", result.Error)
	}
	return jobToEntity(&model)
}

// FindByLocation retrieves the job bound to a map location, nil when absent
func (r *GormJobRepository) FindByLocation(ctx context.Context, versionID, locationID int) (*game.Job, error) {
	var model JobModel
	result := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Location.Region").
		Where("version_id = ? AND job_location_id = ?", versionID, locationID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find job by location: %w", result.Error)
	}
	return jobToEntity(&model)
}

// Save upserts one job
func (r *GormJobRepository) Save(ctx context.Context, versionID int, j *game.Job) error {
	model, err := jobToModel(versionID, j)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save job %s: %w", j.ID, result.Error)
	}
	return nil
}

func jobToModel(versionID int, j *game.Job) (*JobModel, error) {
	rewardJSON, err := json.Marshal(j.Reward)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job reward: %w", err)
	}
	return &JobModel{
		VersionID:         versionID,
		JobID:             j.ID,
		JobLocationID:     j.JobLocationID,
		JobType:           j.JobType,
		RequiredArticleID: j.RequiredArticleID,
		RequiredAmount:    j.RequiredAmount,
		CurrentAmount:     j.CurrentAmount,
		DispatchedAmount:  j.DispatchedAmount,
		DurationSeconds:   int(j.Duration / time.Second),
		UnlockAt:          j.UnlockAt,
		ExpiresAt:         j.ExpiresAt,
		CollectableFrom:   j.CollectableFrom,
		CompletedAt:       j.CompletedAt,
		RewardJSON:        string(rewardJSON),
	}, nil
}

func jobToEntity(m *JobModel) (*game.Job, error) {
	var reward []game.RewardItem
	if err := json.Unmarshal([]byte(m.RewardJSON), &reward); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reward for job %s: %w", m.JobID, err)
	}
	j := &game.Job{
		ID:                m.JobID,
		JobLocationID:     m.JobLocationID,
		JobType:           m.JobType,
		RequiredArticleID: m.RequiredArticleID,
		RequiredAmount:    m.RequiredAmount,
		CurrentAmount:     m.CurrentAmount,
		DispatchedAmount:  m.DispatchedAmount,
		Duration:          time.Duration(m.DurationSeconds) * time.Second,
		UnlockAt:          m.UnlockAt,
		ExpiresAt:         m.ExpiresAt,
		CollectableFrom:   m.CollectableFrom,
		CompletedAt:       m.CompletedAt,
		Reward:            reward,
	}
	if m.Location != nil {
		j.Location = &game.JobLocation{ID: m.Location.ID, RegionID: m.Location.RegionID}
		if m.Location.Region != nil {
			j.Location.Region = &game.Region{
				ID:              m.Location.Region.ID,
				ContentCategory: m.Location.Region.ContentCategory,
			}
		}
	}
	return j, nil
}
