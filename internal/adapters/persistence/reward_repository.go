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

// GormRewardRepository covers daily rewards, whistles and union leaderboards
type GormRewardRepository struct {
	db *gorm.DB
}

// NewGormRewardRepository creates a new GORM reward repository
func NewGormRewardRepository(db *gorm.DB) *GormRewardRepository {
	return &GormRewardRepository{db: db}
}

// DailyReward returns the version's daily reward row, nil when absent
func (r *GormRewardRepository) DailyReward(ctx context.Context, versionID int) (*game.DailyReward, error) {
	var model DailyRewardModel
	result := r.db.WithContext(ctx).Where("version_id = ?", versionID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find daily reward: %w", result.Error)
	}
	var rewards [][]game.RewardItem
	if err := json.Unmarshal([]byte(model.RewardsJSON), &rewards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily rewards: %w", err)
	}
	return &game.DailyReward{
		Day:           model.Day,
		AvailableFrom: model.AvailableFrom,
		ExpireAt:      model.ExpireAt,
		Rewards:       rewards,
	}, nil
}

// SaveDailyReward upserts the version's daily reward row
func (r *GormRewardRepository) SaveDailyReward(ctx context.Context, versionID int, d *game.DailyReward) error {
	rewardsJSON, err := json.Marshal(d.Rewards)
	if err != nil {
		return fmt.Errorf("failed to marshal daily rewards: %w", err)
	}
	model := DailyRewardModel{
		VersionID:     versionID,
		Day:           d.Day,
		AvailableFrom: d.AvailableFrom,
		ExpireAt:      d.ExpireAt,
		RewardsJSON:   string(rewardsJSON),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save daily reward: %w", result.Error)
	}
	return nil
}

// Whistles returns every whistle of a version ordered by id
func (r *GormRewardRepository) Whistles(ctx context.Context, versionID int) ([]*game.Whistle, error) {
	var models []WhistleModel
	result := r.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		Order("whistle_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list whistles: %w", result.Error)
	}
	whistles := make([]*game.Whistle, 0, len(models))
	for i := range models {
		w, err := whistleToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		whistles = append(whistles, w)
	}
	return whistles, nil
}

// SaveWhistle upserts a whistle by its natural key
func (r *GormRewardRepository) SaveWhistle(ctx context.Context, versionID int, w *game.Whistle) error {
	rewardsJSON, err := json.Marshal(w.Rewards)
	if err != nil {
		return fmt.Errorf("failed to marshal whistle rewards: %w", err)
	}
	model := WhistleModel{
		VersionID:       versionID,
		WhistleID:       w.ID,
		Category:        w.Category,
		Position:        w.Position,
		SpawnTime:       w.SpawnTime,
		CollectableFrom: w.CollectableFrom,
		IsForVideo:      w.IsForVideo,
		RewardsJSON:     string(rewardsJSON),
		Collected:       w.Collected,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save whistle %d: %w", w.ID, result.Error)
	}
	return nil
}

// SaveLeaderBoard upserts a leaderboard row
func (r *GormRewardRepository) SaveLeaderBoard(ctx context.Context, versionID int, lb *game.LeaderBoard) error {
	model := LeaderBoardModel{
		VersionID:     versionID,
		LeaderBoardID: lb.ID,
		GroupID:       lb.GroupID,
		JobLocationID: lb.JobLocationID,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save leader board %s: %w", lb.ID, result.Error)
	}
	return nil
}

// LeaderBoardByLocation returns the leaderboard bound to a job location, nil when absent
func (r *GormRewardRepository) LeaderBoardByLocation(ctx context.Context, versionID, locationID int) (*game.LeaderBoard, error) {
	var model LeaderBoardModel
	result := r.db.WithContext(ctx).
		Where("version_id = ? AND job_location_id = ?", versionID, locationID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find leader board: %w", result.Error)
	}
	return &game.LeaderBoard{
		ID:            model.LeaderBoardID,
		GroupID:       model.GroupID,
		JobLocationID: model.JobLocationID,
	}, nil
}

// SaveProgress upserts one member's union contribution
func (r *GormRewardRepository) SaveProgress(ctx context.Context, versionID int, p *game.LeaderBoardProgress) error {
	model := LeaderBoardProgressModel{
		VersionID: versionID,
		GroupID:   p.GroupID,
		PlayerID:  p.PlayerID,
		Progress:  p.Progress,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save leader board progress: %w", result.Error)
	}
	return nil
}

// GroupProgress sums the cumulative union contribution of a leaderboard group
func (r *GormRewardRepository) GroupProgress(ctx context.Context, versionID int, groupID string) (int, error) {
	var total int64
	result := r.db.WithContext(ctx).
		Model(&LeaderBoardProgressModel{}).
		Where("version_id = ? AND group_id = ?", versionID, groupID).
		Select("COALESCE(SUM(progress), 0)").
		Scan(&total)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sum group progress: %w", result.Error)
	}
	return int(total), nil
}

func whistleToEntity(m *WhistleModel) (*game.Whistle, error) {
	var rewards []game.RewardItem
	if err := json.Unmarshal([]byte(m.RewardsJSON), &rewards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rewards for whistle %d: %w", m.WhistleID, err)
	}
	return &game.Whistle{
		ID:              m.WhistleID,
		Category:        m.Category,
		Position:        m.Position,
		SpawnTime:       m.SpawnTime,
		CollectableFrom: m.CollectableFrom,
		IsForVideo:      m.IsForVideo,
		Rewards:         rewards,
		Collected:       m.Collected,
	}, nil
}
