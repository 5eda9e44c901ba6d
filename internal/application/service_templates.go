package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

func (s *Service) CreateTemplate(ctx context.Context, businessID uuid.UUID, req PutTemplateRequest) (TemplateView, error) {
	return s.putTemplate(ctx, businessID, nil, req)
}

func (s *Service) UpdateTemplate(ctx context.Context, businessID, templateID uuid.UUID, req PutTemplateRequest) (TemplateView, error) {
	return s.putTemplate(ctx, businessID, &templateID, req)
}

func (s *Service) putTemplate(ctx context.Context, businessID uuid.UUID, templateID *uuid.UUID, req PutTemplateRequest) (TemplateView, error) {
	if err := domain.ValidateTemplateInput(req.Name, req.Channel, req.Body); err != nil {
		return TemplateView{}, err
	}
	template, err := s.templates.Put(ctx, ports.PutTemplateParams{
		TemplateID: templateID,
		BusinessID: businessID,
		Name:       req.Name,
		Channel:    req.Channel,
		Subject:    req.Subject,
		Body:       req.Body,
		Now:        s.nowFn(),
	})
	if err != nil {
		return TemplateView{}, err
	}
	return toTemplateView(template), nil
}

func (s *Service) ListTemplates(ctx context.Context, businessID uuid.UUID) ([]TemplateView, error) {
	templates, err := s.templates.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateView, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateView(t))
	}
	return out, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, businessID, templateID uuid.UUID) error {
	return s.templates.Delete(ctx, businessID, templateID)
}

// RenderTemplate fills a template's placeholders from a customer record.
// The service never sends the message; delivery belongs to the channel
// integrations outside this service.
func (s *Service) RenderTemplate(ctx context.Context, businessID, templateID uuid.UUID, req RenderTemplateRequest) (RenderedTemplateResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return RenderedTemplateResponse{}, fmt.Errorf("%w: invalid customer_id", domain.ErrInvalidInput)
	}
	template, err := s.templates.GetByID(ctx, businessID, templateID)
	if err != nil {
		return RenderedTemplateResponse{}, err
	}
	customer, err := s.customers.GetByID(ctx, businessID, customerID)
	if err != nil {
		return RenderedTemplateResponse{}, err
	}
	businessName := ""
	if business, bErr := s.businesses.GetByID(ctx, businessID); bErr == nil {
		businessName = business.Name
	}

	values := map[string]string{
		"first_name":    customer.FirstName,
		"last_name":     customer.LastName,
		"points":        strconv.Itoa(customer.LoyaltyPoints),
		"visits":        strconv.Itoa(customer.TotalVisits),
		"business_name": businessName,
	}
	return RenderedTemplateResponse{
		TemplateID: template.TemplateID.String(),
		Channel:    template.Channel,
		Subject:    domain.RenderTemplate(template.Subject, values),
		Body:       domain.RenderTemplate(template.Body, values),
	}, nil
}

func toTemplateView(t domain.MessageTemplate) TemplateView {
	return TemplateView{
		TemplateID: t.TemplateID.String(),
		Name:       t.Name,
		Channel:    t.Channel,
		Subject:    t.Subject,
		Body:       t.Body,
		UpdatedAt:  t.UpdatedAt,
	}
}
