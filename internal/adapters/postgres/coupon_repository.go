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

type couponRepository struct {
	db *gorm.DB
}

func (r *couponRepository) Create(ctx context.Context, params ports.CreateCouponParams) (domain.Coupon, error) {
	rec := couponModel{
		BusinessID:    params.BusinessID,
		CustomerID:    params.CustomerID,
		RewardID:      params.RewardID,
		Code:          params.Code,
		Description:   params.Description,
		DiscountType:  params.DiscountType,
		DiscountValue: params.DiscountValue,
		Status:        string(domain.CouponStatusActive),
		ExpiresAt:     params.ExpiresAt,
		CreatedAt:     params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Coupon{}, domain.ErrConflict
		}
		return domain.Coupon{}, err
	}
	return toDomainCoupon(rec), nil
}

func (r *couponRepository) GetByCode(ctx context.Context, businessID uuid.UUID, code string) (domain.Coupon, error) {
	var rec couponModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND code = ?", businessID, code).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Coupon{}, domain.ErrNotFound
		}
		return domain.Coupon{}, err
	}
	return toDomainCoupon(rec), nil
}

func (r *couponRepository) ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID) ([]domain.Coupon, error) {
	var rows []couponModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Coupon, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainCoupon(row))
	}
	return out, nil
}

func (r *couponRepository) CountActiveByCustomer(ctx context.Context, businessID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&couponModel{}).
		Where("business_id = ? AND customer_id = ? AND status = ?", businessID, customerID, string(domain.CouponStatusActive)).
		Count(&count).Error
	return count, err
}

// MarkRedeemed only flips active coupons; a second redemption attempt finds
// zero rows and reports a conflict.
func (r *couponRepository) MarkRedeemed(ctx context.Context, couponID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&couponModel{}).
		Where("coupon_id = ? AND status = ?", couponID, string(domain.CouponStatusActive)).
		Updates(map[string]any{
			"status":      string(domain.CouponStatusRedeemed),
			"redeemed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}
