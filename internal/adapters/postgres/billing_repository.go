package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
	"gorm.io/gorm"
)

type billingRepository struct {
	db *gorm.DB
}

func (r *billingRepository) ListPlans(ctx context.Context) ([]domain.BillingPlan, error) {
	var rows []billingPlanModel
	if err := r.db.WithContext(ctx).Order("price_monthly asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BillingPlan, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainPlan(row))
	}
	return out, nil
}

func (r *billingRepository) GetPlan(ctx context.Context, planID string) (domain.BillingPlan, error) {
	var rec billingPlanModel
	if err := r.db.WithContext(ctx).Where("plan_id = ?", planID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BillingPlan{}, domain.ErrNotFound
		}
		return domain.BillingPlan{}, err
	}
	return toDomainPlan(rec), nil
}

func (r *billingRepository) UpsertSubscription(ctx context.Context, params ports.SubscribeParams) (domain.Subscription, error) {
	var out subscriptionModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing subscriptionModel
		err := tx.Where("business_id = ?", params.BusinessID).Take(&existing).Error
		switch {
		case err == nil:
			if updErr := tx.Model(&subscriptionModel{}).
				Where("subscription_id = ?", existing.SubscriptionID).
				Updates(map[string]any{
					"plan_id":              params.PlanID,
					"status":               string(domain.SubscriptionStatusActive),
					"current_period_start": params.PeriodStart,
					"current_period_end":   params.PeriodEnd,
					"cancelled_at":         nil,
					"updated_at":           params.PeriodStart,
				}).Error; updErr != nil {
				return updErr
			}
			return tx.Where("subscription_id = ?", existing.SubscriptionID).Take(&out).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = subscriptionModel{
				BusinessID:         params.BusinessID,
				PlanID:             params.PlanID,
				Status:             string(domain.SubscriptionStatusActive),
				CurrentPeriodStart: params.PeriodStart,
				CurrentPeriodEnd:   params.PeriodEnd,
				CreatedAt:          params.PeriodStart,
				UpdatedAt:          params.PeriodStart,
			}
			if createErr := tx.Create(&out).Error; createErr != nil {
				if isUniqueViolation(createErr) {
					return domain.ErrConflict
				}
				return createErr
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return domain.Subscription{}, err
	}
	return toDomainSubscription(out), nil
}

func (r *billingRepository) GetSubscription(ctx context.Context, businessID uuid.UUID) (domain.Subscription, error) {
	var rec subscriptionModel
	if err := r.db.WithContext(ctx).Where("business_id = ?", businessID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Subscription{}, domain.ErrNotFound
		}
		return domain.Subscription{}, err
	}
	return toDomainSubscription(rec), nil
}

func (r *billingRepository) SetSubscriptionStatus(ctx context.Context, businessID uuid.UUID, status domain.SubscriptionStatus, at time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": at,
	}
	if status == domain.SubscriptionStatusCancelled {
		updates["cancelled_at"] = at
	}
	res := r.db.WithContext(ctx).Model(&subscriptionModel{}).
		Where("business_id = ?", businessID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
