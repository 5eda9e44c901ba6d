package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

func (r *customerRepository) Create(ctx context.Context, params ports.CreateCustomerParams) (domain.Customer, error) {
	rec := customerModel{
		BusinessID:       params.BusinessID,
		FirstName:        strings.TrimSpace(params.FirstName),
		LastName:         strings.TrimSpace(params.LastName),
		Email:            strings.TrimSpace(params.Email),
		Phone:            strings.TrimSpace(params.Phone),
		PhoneNormalized:  params.PhoneNormalized,
		LoyaltyProgramID: params.ProgramID,
		UserID:           params.UserID,
		CreatedAt:        params.CreatedAt,
		UpdatedAt:        params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, domain.ErrConflict
		}
		return domain.Customer{}, err
	}
	return toDomainCustomer(rec), nil
}

func (r *customerRepository) GetByID(ctx context.Context, businessID, customerID uuid.UUID) (domain.Customer, error) {
	var rec customerModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, err
	}
	return toDomainCustomer(rec), nil
}

func (r *customerRepository) FindByPhone(ctx context.Context, businessID uuid.UUID, candidate, normalizedCandidate string) (domain.Customer, error) {
	// Rows stored without a phone carry an empty phone_normalized; a
	// digit-less candidate must not exact-match them.
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if normalizedCandidate == "" {
		query = query.Where("phone = ?", candidate)
	} else {
		query = query.Where("phone = ? OR phone_normalized = ?", candidate, normalizedCandidate)
	}
	var rec customerModel
	if err := query.
		Order("created_at asc").
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, err
	}
	return toDomainCustomer(rec), nil
}

func (r *customerRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]domain.Customer, error) {
	var rows []customerModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at asc").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainCustomer(row))
	}
	return out, nil
}

func (r *customerRepository) Update(ctx context.Context, params ports.UpdateCustomerParams) (domain.Customer, error) {
	updates := map[string]any{
		"updated_at": params.UpdatedAt,
	}
	if params.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*params.FirstName)
	}
	if params.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*params.LastName)
	}
	if params.Email != nil {
		updates["email"] = strings.TrimSpace(*params.Email)
	}
	if params.Phone != nil {
		updates["phone"] = strings.TrimSpace(*params.Phone)
	}
	if params.PhoneNormalized != nil {
		updates["phone_normalized"] = *params.PhoneNormalized
	}

	res := r.db.WithContext(ctx).Model(&customerModel{}).
		Where("business_id = ? AND customer_id = ?", params.BusinessID, params.CustomerID).
		Updates(updates)
	if res.Error != nil {
		return domain.Customer{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Customer{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.BusinessID, params.CustomerID)
}

// ApplyVisit bumps the running counters in a single UPDATE so concurrent
// visits never lose increments.
func (r *customerRepository) ApplyVisit(ctx context.Context, params ports.ApplyVisitParams) (domain.Customer, error) {
	res := r.db.WithContext(ctx).Model(&customerModel{}).
		Where("business_id = ? AND customer_id = ?", params.BusinessID, params.CustomerID).
		Updates(map[string]any{
			"loyalty_points": gorm.Expr("loyalty_points + ?", params.PointsDelta),
			"total_visits":   gorm.Expr("total_visits + ?", params.VisitsDelta),
			"total_spent":    gorm.Expr("total_spent + ?", params.SpentDelta),
			"updated_at":     params.UpdatedAt,
		})
	if res.Error != nil {
		return domain.Customer{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Customer{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.BusinessID, params.CustomerID)
}

func (r *customerRepository) AdjustPoints(ctx context.Context, businessID, customerID uuid.UUID, delta int, at time.Time) (domain.Customer, error) {
	query := r.db.WithContext(ctx).Model(&customerModel{}).
		Where("business_id = ? AND customer_id = ?", businessID, customerID)
	if delta < 0 {
		// Guard against concurrent redemptions driving the balance negative.
		query = query.Where("loyalty_points >= ?", -delta)
	}
	res := query.Updates(map[string]any{
		"loyalty_points": gorm.Expr("loyalty_points + ?", delta),
		"updated_at":     at,
	})
	if res.Error != nil {
		return domain.Customer{}, res.Error
	}
	if res.RowsAffected == 0 {
		if delta < 0 {
			return domain.Customer{}, domain.ErrConflict
		}
		return domain.Customer{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, businessID, customerID)
}

func (r *customerRepository) LinkUser(ctx context.Context, businessID, customerID, userID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&customerModel{}).
		Where("business_id = ? AND customer_id = ? AND user_id IS NULL", businessID, customerID).
		Updates(map[string]any{
			"user_id":    userID,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&customerModel{}).
			Where("business_id = ? AND customer_id = ?", businessID, customerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		// Already linked; linking is idempotent per customer.
	}
	return nil
}
