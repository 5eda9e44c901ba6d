package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
	"gorm.io/gorm"
)

type programRepository struct {
	db *gorm.DB
}

// Upsert keeps the one-program-per-business invariant: an existing row for
// the business is updated in place, otherwise a new row is inserted. The
// unique index on business_id backs this up under concurrency.
func (r *programRepository) Upsert(ctx context.Context, params ports.UpsertProgramParams) (domain.LoyaltyProgram, error) {
	var out loyaltyProgramModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing loyaltyProgramModel
		err := tx.Where("business_id = ?", params.BusinessID).Take(&existing).Error
		switch {
		case err == nil:
			if updErr := tx.Model(&loyaltyProgramModel{}).
				Where("program_id = ?", existing.ProgramID).
				Updates(map[string]any{
					"name":              params.Name,
					"type":              string(params.Type),
					"points_per_amount": params.PointsPerAmount,
					"amount_per_point":  params.AmountPerPoint,
					"visits_required":   params.VisitsRequired,
					"tiers":             encodeTiers(params.Tiers),
					"active":            params.Active,
					"updated_at":        params.Now,
				}).Error; updErr != nil {
				return updErr
			}
			return tx.Where("program_id = ?", existing.ProgramID).Take(&out).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = loyaltyProgramModel{
				BusinessID:      params.BusinessID,
				Name:            params.Name,
				Type:            string(params.Type),
				PointsPerAmount: params.PointsPerAmount,
				AmountPerPoint:  params.AmountPerPoint,
				VisitsRequired:  params.VisitsRequired,
				Tiers:           encodeTiers(params.Tiers),
				Active:          params.Active,
				CreatedAt:       params.Now,
				UpdatedAt:       params.Now,
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
		return domain.LoyaltyProgram{}, err
	}
	return toDomainProgram(out), nil
}

func (r *programRepository) GetByBusiness(ctx context.Context, businessID uuid.UUID) (domain.LoyaltyProgram, error) {
	var rec loyaltyProgramModel
	if err := r.db.WithContext(ctx).Where("business_id = ?", businessID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoyaltyProgram{}, domain.ErrNotFound
		}
		return domain.LoyaltyProgram{}, err
	}
	return toDomainProgram(rec), nil
}

func (r *programRepository) GetByID(ctx context.Context, programID uuid.UUID) (domain.LoyaltyProgram, error) {
	var rec loyaltyProgramModel
	if err := r.db.WithContext(ctx).Where("program_id = ?", programID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoyaltyProgram{}, domain.ErrNotFound
		}
		return domain.LoyaltyProgram{}, err
	}
	return toDomainProgram(rec), nil
}
