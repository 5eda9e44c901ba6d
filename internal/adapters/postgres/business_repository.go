package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
	"gorm.io/gorm"
)

type businessRepository struct {
	db *gorm.DB
}

func (r *businessRepository) Create(ctx context.Context, params ports.CreateBusinessParams) (domain.Business, error) {
	rec := businessModel{
		OwnerUserID: params.OwnerUserID,
		Name:        strings.TrimSpace(params.Name),
		Email:       strings.TrimSpace(params.Email),
		Phone:       strings.TrimSpace(params.Phone),
		CountryCode: params.CountryCode,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Business{}, domain.ErrConflict
		}
		return domain.Business{}, err
	}
	return toDomainBusiness(rec), nil
}

func (r *businessRepository) GetByID(ctx context.Context, businessID uuid.UUID) (domain.Business, error) {
	var rec businessModel
	if err := r.db.WithContext(ctx).Where("business_id = ?", businessID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Business{}, domain.ErrNotFound
		}
		return domain.Business{}, err
	}
	return toDomainBusiness(rec), nil
}
