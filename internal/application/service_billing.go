package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

const (
	planCacheKey = "loyalty:billing-plans"
	planCacheTTL = 10 * time.Minute
)

// ListPlans serves the plan catalog from cache when possible; the seeded
// catalog changes through migrations, not at runtime.
func (s *Service) ListPlans(ctx context.Context) ([]PlanView, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, planCacheKey); err == nil {
			var cached []PlanView
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}
	plans, err := s.billing.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanView{
			PlanID:        p.PlanID,
			Name:          p.Name,
			PriceMonthly:  p.PriceMonthly,
			CustomerLimit: p.CustomerLimit,
			Features:      p.Features,
		})
	}
	if s.cache != nil {
		if blob, err := json.Marshal(out); err == nil {
			_ = s.cache.Set(ctx, planCacheKey, string(blob), planCacheTTL)
		}
	}
	return out, nil
}

// Subscribe puts a business on a plan. Payment collection happens at the
// payment processor; this service only tracks the resulting state.
func (s *Service) Subscribe(ctx context.Context, businessID uuid.UUID, req SubscribeRequest, idempotencyKey string) (SubscriptionView, error) {
	if req.PlanID == "" {
		return SubscriptionView{}, fmt.Errorf("%w: plan_id is required", domain.ErrInvalidInput)
	}
	if _, err := s.billing.GetPlan(ctx, req.PlanID); err != nil {
		return SubscriptionView{}, err
	}

	cached, err := s.reserveIdempotency(ctx, idempotencyKey, req)
	if err != nil {
		return SubscriptionView{}, err
	}
	if cached != nil {
		var replay SubscriptionView
		if err := json.Unmarshal(cached, &replay); err != nil {
			return SubscriptionView{}, err
		}
		return replay, nil
	}

	now := s.nowFn()
	sub, err := s.billing.UpsertSubscription(ctx, ports.SubscribeParams{
		BusinessID:  businessID,
		PlanID:      req.PlanID,
		PeriodStart: now,
		PeriodEnd:   now.AddDate(0, 1, 0),
	})
	if err != nil {
		return SubscriptionView{}, err
	}
	s.enqueueEvent(ctx, "subscription.updated", businessID.String(), map[string]any{
		"business_id": businessID.String(),
		"plan_id":     sub.PlanID,
		"status":      string(sub.Status),
		"updated_at":  now,
	})

	resp := toSubscriptionView(sub)
	s.completeIdempotency(ctx, idempotencyKey, 201, resp)
	return resp, nil
}

func (s *Service) GetSubscription(ctx context.Context, businessID uuid.UUID) (SubscriptionView, error) {
	sub, err := s.billing.GetSubscription(ctx, businessID)
	if err != nil {
		return SubscriptionView{}, err
	}
	return toSubscriptionView(sub), nil
}

func (s *Service) CancelSubscription(ctx context.Context, businessID uuid.UUID) (SubscriptionView, error) {
	if err := s.billing.SetSubscriptionStatus(ctx, businessID, domain.SubscriptionStatusCancelled, s.nowFn()); err != nil {
		return SubscriptionView{}, err
	}
	sub, err := s.billing.GetSubscription(ctx, businessID)
	if err != nil {
		return SubscriptionView{}, err
	}
	s.enqueueEvent(ctx, "subscription.updated", businessID.String(), map[string]any{
		"business_id": businessID.String(),
		"plan_id":     sub.PlanID,
		"status":      string(sub.Status),
		"updated_at":  s.nowFn(),
	})
	return toSubscriptionView(sub), nil
}
