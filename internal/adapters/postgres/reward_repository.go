package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
	"gorm.io/gorm"
)

type rewardRepository struct {
	db *gorm.DB
}

func (r *rewardRepository) Create(ctx context.Context, params ports.CreateRewardParams) (domain.LoyaltyReward, error) {
	rec := loyaltyRewardModel{
		ProgramID:  params.ProgramID,
		Name:       params.Name,
		PointsCost: params.PointsCost,
		VisitsCost: params.VisitsCost,
		Active:     params.Active,
		CreatedAt:  params.CreatedAt,
		UpdatedAt:  params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.LoyaltyReward{}, err
	}
	return toDomainReward(rec), nil
}

func (r *rewardRepository) Update(ctx context.Context, params ports.UpdateRewardParams) (domain.LoyaltyReward, error) {
	updates := map[string]any{
		"updated_at": params.UpdatedAt,
	}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.PointsCost != nil {
		updates["points_cost"] = *params.PointsCost
	}
	if params.VisitsCost != nil {
		updates["visits_cost"] = *params.VisitsCost
	}
	if params.Active != nil {
		updates["active"] = *params.Active
	}
	res := r.db.WithContext(ctx).Model(&loyaltyRewardModel{}).
		Where("program_id = ? AND reward_id = ?", params.ProgramID, params.RewardID).
		Updates(updates)
	if res.Error != nil {
		return domain.LoyaltyReward{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.LoyaltyReward{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.ProgramID, params.RewardID)
}

func (r *rewardRepository) GetByID(ctx context.Context, programID, rewardID uuid.UUID) (domain.LoyaltyReward, error) {
	var rec loyaltyRewardModel
	if err := r.db.WithContext(ctx).
		Where("program_id = ? AND reward_id = ?", programID, rewardID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoyaltyReward{}, domain.ErrNotFound
		}
		return domain.LoyaltyReward{}, err
	}
	return toDomainReward(rec), nil
}

func (r *rewardRepository) ListByProgram(ctx context.Context, programID uuid.UUID) ([]domain.LoyaltyReward, error) {
	var rows []loyaltyRewardModel
	if err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.LoyaltyReward, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainReward(row))
	}
	return out, nil
}

var _ ports.RewardRepository = (*rewardRepository)(nil)
