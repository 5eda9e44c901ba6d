package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

func (s *Service) RegisterBusiness(ctx context.Context, ownerUserID uuid.UUID, req RegisterBusinessRequest) (BusinessResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return BusinessResponse{}, fmt.Errorf("%w: business name is required", domain.ErrInvalidInput)
	}
	countryCode := strings.TrimSpace(req.CountryCode)
	if countryCode == "" {
		countryCode = s.cfg.DefaultCountryCode
	}
	business, err := s.businesses.Create(ctx, ports.CreateBusinessParams{
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		CountryCode: countryCode,
		CreatedAt:   s.nowFn(),
	})
	if err != nil {
		return BusinessResponse{}, err
	}
	return toBusinessResponse(business), nil
}

func (s *Service) GetBusiness(ctx context.Context, businessID uuid.UUID) (BusinessResponse, error) {
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return BusinessResponse{}, err
	}
	return toBusinessResponse(business), nil
}

func toBusinessResponse(b domain.Business) BusinessResponse {
	return BusinessResponse{
		BusinessID:  b.BusinessID.String(),
		Name:        b.Name,
		Email:       b.Email,
		Phone:       b.Phone,
		CountryCode: b.CountryCode,
		CreatedAt:   b.CreatedAt,
	}
}
