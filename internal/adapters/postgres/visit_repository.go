package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
	"gorm.io/gorm"
)

type visitRepository struct {
	db *gorm.DB
}

func (r *visitRepository) Create(ctx context.Context, params ports.CreateVisitParams) (domain.Visit, error) {
	rec := visitModel{
		BusinessID:   params.BusinessID,
		CustomerID:   params.CustomerID,
		Amount:       params.Amount,
		PointsEarned: params.PointsEarned,
		VisitNumber:  params.VisitNumber,
		Source:       string(params.Source),
		RecordedAt:   params.RecordedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Visit{}, err
	}
	return toDomainVisit(rec), nil
}

func (r *visitRepository) ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID, limit int) ([]domain.Visit, error) {
	var rows []visitModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Order("recorded_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Visit, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainVisit(row))
	}
	return out, nil
}
