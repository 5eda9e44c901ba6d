package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/patronpoint/loyalty-service/internal/domain"
)

func hashPayload(value any) string {
	blob, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

// reserveIdempotency claims an idempotency key for a request payload. It
// returns the cached response when the same request was already completed,
// and ErrIdempotencyConflict when the key was used with a different payload.
func (s *Service) reserveIdempotency(ctx context.Context, key string, payload any) (cached []byte, err error) {
	if key == "" {
		return nil, nil
	}
	requestHash := hashPayload(payload)
	existing, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.RequestHash != requestHash {
			return nil, domain.ErrIdempotencyConflict
		}
		if existing.Status == "completed" {
			return existing.ResponseBody, nil
		}
		return nil, fmt.Errorf("%w: request in flight", domain.ErrIdempotencyConflict)
	}
	if err := s.idempotency.Reserve(ctx, key, requestHash, s.nowFn().Add(s.cfg.IdempotencyTTL)); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Service) completeIdempotency(ctx context.Context, key string, code int, response any) {
	if key == "" {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	_ = s.idempotency.Complete(ctx, key, code, payload, s.nowFn())
}

func toCustomerResponse(c domain.Customer) CustomerResponse {
	resp := CustomerResponse{
		CustomerID:    c.CustomerID.String(),
		BusinessID:    c.BusinessID.String(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		Phone:         c.Phone,
		LoyaltyPoints: c.LoyaltyPoints,
		TotalVisits:   c.TotalVisits,
		TotalSpent:    c.TotalSpent,
		CreatedAt:     c.CreatedAt,
	}
	if c.UserID != nil {
		resp.UserID = c.UserID.String()
	}
	return resp
}

func toRewardView(r domain.LoyaltyReward) RewardView {
	return RewardView{
		RewardID:   r.RewardID.String(),
		Name:       r.Name,
		PointsCost: r.PointsCost,
		VisitsCost: r.VisitsCost,
		Active:     r.Active,
	}
}

func toProgramResponse(p domain.LoyaltyProgram, rewards []domain.LoyaltyReward) ProgramResponse {
	resp := ProgramResponse{
		ProgramID:       p.ProgramID.String(),
		BusinessID:      p.BusinessID.String(),
		Name:            p.Name,
		Type:            string(p.Type),
		PointsPerAmount: p.PointsPerAmount,
		AmountPerPoint:  p.AmountPerPoint,
		VisitsRequired:  p.VisitsRequired,
		Tiers:           p.Tiers,
		Active:          p.Active,
	}
	for _, r := range rewards {
		resp.Rewards = append(resp.Rewards, toRewardView(r))
	}
	return resp
}

func toCouponView(c domain.Coupon) CouponView {
	return CouponView{
		CouponID:      c.CouponID.String(),
		CustomerID:    c.CustomerID.String(),
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		Status:        string(c.Status),
		ExpiresAt:     c.ExpiresAt,
		RedeemedAt:    c.RedeemedAt,
		CreatedAt:     c.CreatedAt,
	}
}

func toVisitResponse(v domain.Visit, progress domain.ProgressResult) VisitResponse {
	return VisitResponse{
		VisitID:      v.VisitID.String(),
		CustomerID:   v.CustomerID.String(),
		Amount:       v.Amount,
		PointsEarned: v.PointsEarned,
		VisitNumber:  v.VisitNumber,
		Source:       string(v.Source),
		RecordedAt:   v.RecordedAt,
		Progress:     progress,
	}
}

func toSubscriptionView(sub domain.Subscription) SubscriptionView {
	return SubscriptionView{
		SubscriptionID:     sub.SubscriptionID.String(),
		PlanID:             sub.PlanID,
		Status:             string(sub.Status),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
	}
}
