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

type templateRepository struct {
	db *gorm.DB
}

func (r *templateRepository) Put(ctx context.Context, params ports.PutTemplateParams) (domain.MessageTemplate, error) {
	if params.TemplateID == nil {
		rec := messageTemplateModel{
			BusinessID: params.BusinessID,
			Name:       strings.TrimSpace(params.Name),
			Channel:    params.Channel,
			Subject:    params.Subject,
			Body:       params.Body,
			CreatedAt:  params.Now,
			UpdatedAt:  params.Now,
		}
		if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.MessageTemplate{}, domain.ErrConflict
			}
			return domain.MessageTemplate{}, err
		}
		return toDomainTemplate(rec), nil
	}

	res := r.db.WithContext(ctx).Model(&messageTemplateModel{}).
		Where("business_id = ? AND template_id = ?", params.BusinessID, *params.TemplateID).
		Updates(map[string]any{
			"name":       strings.TrimSpace(params.Name),
			"channel":    params.Channel,
			"subject":    params.Subject,
			"body":       params.Body,
			"updated_at": params.Now,
		})
	if res.Error != nil {
		return domain.MessageTemplate{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.MessageTemplate{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.BusinessID, *params.TemplateID)
}

func (r *templateRepository) GetByID(ctx context.Context, businessID, templateID uuid.UUID) (domain.MessageTemplate, error) {
	var rec messageTemplateModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND template_id = ?", businessID, templateID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MessageTemplate{}, domain.ErrNotFound
		}
		return domain.MessageTemplate{}, err
	}
	return toDomainTemplate(rec), nil
}

func (r *templateRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.MessageTemplate, error) {
	var rows []messageTemplateModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.MessageTemplate, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTemplate(row))
	}
	return out, nil
}

func (r *templateRepository) Delete(ctx context.Context, businessID, templateID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND template_id = ?", businessID, templateID).
		Delete(&messageTemplateModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
