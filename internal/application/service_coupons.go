package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

func (s *Service) IssueCoupon(ctx context.Context, businessID uuid.UUID, req IssueCouponRequest, idempotencyKey string) (CouponView, error) {
	if err := domain.ValidateCouponInput(req.DiscountType, req.DiscountValue); err != nil {
		return CouponView{}, err
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return CouponView{}, fmt.Errorf("%w: invalid customer_id", domain.ErrInvalidInput)
	}
	if _, err := s.customers.GetByID(ctx, businessID, customerID); err != nil {
		return CouponView{}, err
	}

	cached, err := s.reserveIdempotency(ctx, idempotencyKey, req)
	if err != nil {
		return CouponView{}, err
	}
	if cached != nil {
		var replay CouponView
		if err := json.Unmarshal(cached, &replay); err != nil {
			return CouponView{}, err
		}
		return replay, nil
	}

	now := s.nowFn()
	validity := s.cfg.CouponValidity
	if req.ValidDays > 0 {
		validity = time.Duration(req.ValidDays) * 24 * time.Hour
	}
	expiresAt := now.Add(validity)

	coupon, err := s.coupons.Create(ctx, ports.CreateCouponParams{
		BusinessID:    businessID,
		CustomerID:    customerID,
		Code:          newCouponCode(),
		Description:   strings.TrimSpace(req.Description),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		ExpiresAt:     &expiresAt,
		CreatedAt:     now,
	})
	if err != nil {
		return CouponView{}, err
	}
	s.enqueueEvent(ctx, "coupon.issued", customerID.String(), map[string]any{
		"coupon_id":   coupon.CouponID.String(),
		"business_id": businessID.String(),
		"customer_id": customerID.String(),
		"code":        coupon.Code,
		"issued_at":   now,
	})

	resp := toCouponView(coupon)
	s.completeIdempotency(ctx, idempotencyKey, 201, resp)
	return resp, nil
}

func (s *Service) ListCustomerCoupons(ctx context.Context, businessID, customerID uuid.UUID) ([]CouponView, error) {
	coupons, err := s.coupons.ListByCustomer(ctx, businessID, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]CouponView, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, toCouponView(c))
	}
	return out, nil
}

func (s *Service) RedeemCoupon(ctx context.Context, businessID uuid.UUID, req RedeemCouponRequest) (CouponView, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return CouponView{}, fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}
	coupon, err := s.coupons.GetByCode(ctx, businessID, code)
	if err != nil {
		return CouponView{}, err
	}
	now := s.nowFn()
	if coupon.Status == domain.CouponStatusRedeemed {
		return CouponView{}, fmt.Errorf("%w: coupon already redeemed", domain.ErrConflict)
	}
	if coupon.Status == domain.CouponStatusExpired || (coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now)) {
		return CouponView{}, fmt.Errorf("%w: coupon expired", domain.ErrConflict)
	}
	if err := s.coupons.MarkRedeemed(ctx, coupon.CouponID, now); err != nil {
		return CouponView{}, err
	}
	coupon.Status = domain.CouponStatusRedeemed
	coupon.RedeemedAt = &now

	s.enqueueEvent(ctx, "coupon.redeemed", coupon.CustomerID.String(), map[string]any{
		"coupon_id":   coupon.CouponID.String(),
		"business_id": businessID.String(),
		"customer_id": coupon.CustomerID.String(),
		"redeemed_at": now,
	})
	return toCouponView(coupon), nil
}

// RedeemReward spends a customer's balance on a reward and hands back a
// coupon the business can honor at the till. Points-gated rewards deduct
// points; visit-gated rewards rely on the cycle arithmetic and only check
// the counter.
func (s *Service) RedeemReward(ctx context.Context, businessID, rewardID uuid.UUID, req RedeemRewardRequest, idempotencyKey string) (RedeemRewardResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return RedeemRewardResponse{}, fmt.Errorf("%w: invalid customer_id", domain.ErrInvalidInput)
	}
	program, err := s.programs.GetByBusiness(ctx, businessID)
	if err != nil {
		return RedeemRewardResponse{}, err
	}
	reward, err := s.rewards.GetByID(ctx, program.ProgramID, rewardID)
	if err != nil {
		return RedeemRewardResponse{}, err
	}
	if !reward.Active {
		return RedeemRewardResponse{}, fmt.Errorf("%w: reward is not active", domain.ErrConflict)
	}
	customer, err := s.customers.GetByID(ctx, businessID, customerID)
	if err != nil {
		return RedeemRewardResponse{}, err
	}

	switch {
	case reward.PointsCost != nil:
		if customer.LoyaltyPoints < *reward.PointsCost {
			return RedeemRewardResponse{}, fmt.Errorf("%w: insufficient points", domain.ErrConflict)
		}
	case reward.VisitsCost != nil:
		if customer.TotalVisits < *reward.VisitsCost {
			return RedeemRewardResponse{}, fmt.Errorf("%w: insufficient visits", domain.ErrConflict)
		}
	default:
		return RedeemRewardResponse{}, fmt.Errorf("%w: reward has no cost configured", domain.ErrInvalidInput)
	}

	cached, err := s.reserveIdempotency(ctx, idempotencyKey, map[string]string{
		"reward_id": rewardID.String(), "customer_id": customerID.String(),
	})
	if err != nil {
		return RedeemRewardResponse{}, err
	}
	if cached != nil {
		var replay RedeemRewardResponse
		if err := json.Unmarshal(cached, &replay); err != nil {
			return RedeemRewardResponse{}, err
		}
		return replay, nil
	}

	now := s.nowFn()
	if reward.PointsCost != nil {
		customer, err = s.customers.AdjustPoints(ctx, businessID, customerID, -*reward.PointsCost, now)
		if err != nil {
			return RedeemRewardResponse{}, err
		}
	}

	expiresAt := now.Add(s.cfg.CouponValidity)
	coupon, err := s.coupons.Create(ctx, ports.CreateCouponParams{
		BusinessID:    businessID,
		CustomerID:    customerID,
		RewardID:      &reward.RewardID,
		Code:          newCouponCode(),
		Description:   reward.Name,
		DiscountType:  "flat",
		DiscountValue: 0,
		ExpiresAt:     &expiresAt,
		CreatedAt:     now,
	})
	if err != nil {
		return RedeemRewardResponse{}, err
	}

	rewards, err := s.rewards.ListByProgram(ctx, program.ProgramID)
	if err != nil {
		return RedeemRewardResponse{}, err
	}
	progress := domain.ComputeProgress(program, rewards, customer)

	s.enqueueEvent(ctx, "reward.redeemed", customerID.String(), map[string]any{
		"reward_id":   reward.RewardID.String(),
		"coupon_id":   coupon.CouponID.String(),
		"business_id": businessID.String(),
		"customer_id": customerID.String(),
		"redeemed_at": now,
	})

	resp := RedeemRewardResponse{
		Reward:   toRewardView(reward),
		Coupon:   toCouponView(coupon),
		Customer: toCustomerResponse(customer),
		Progress: progress,
	}
	s.completeIdempotency(ctx, idempotencyKey, 201, resp)
	return resp, nil
}

// newCouponCode derives a short human-readable code from a UUID. Collisions
// are caught by the unique index on coupons.code.
func newCouponCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:4] + "-" + raw[4:8] + "-" + raw[8:12]
}
