package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

// visitTokenRateLimit caps token issuance per business per minute. A counter
// running away usually means a reconnect loop on the till display.
const visitTokenRateLimit = 30

// IssueVisitToken mints a one-time token a business renders as a QR code at
// the counter. The token lives in Redis only; losing it just means printing
// a new code.
func (s *Service) IssueVisitToken(ctx context.Context, businessID uuid.UUID) (VisitTokenResponse, error) {
	if s.cache != nil {
		key := "loyalty:token-rate:" + businessID.String()
		if n, err := s.cache.IncrWithTTL(ctx, key, time.Minute); err == nil && n > visitTokenRateLimit {
			return VisitTokenResponse{}, fmt.Errorf("%w: visit token issue rate exceeded", domain.ErrConflict)
		}
	}
	token := uuid.NewString()
	if err := s.visitTokens.Issue(ctx, token, businessID, s.cfg.VisitTokenTTL); err != nil {
		return VisitTokenResponse{}, err
	}
	return VisitTokenResponse{
		Token:     token,
		ExpiresAt: s.nowFn().Add(s.cfg.VisitTokenTTL),
	}, nil
}

func (s *Service) RecordVisit(ctx context.Context, businessID uuid.UUID, req RecordVisitRequest, idempotencyKey string) (VisitResponse, error) {
	return s.recordVisit(ctx, businessID, req, domain.VisitSourceManual, idempotencyKey)
}

// RedeemVisitToken records a visit initiated by a customer scanning the
// business QR code. The token is consumed on first use.
func (s *Service) RedeemVisitToken(ctx context.Context, req RedeemVisitTokenRequest, idempotencyKey string) (VisitResponse, error) {
	businessID, ok, err := s.visitTokens.Redeem(ctx, req.Token)
	if err != nil {
		return VisitResponse{}, err
	}
	if !ok {
		return VisitResponse{}, domain.ErrTokenExpired
	}
	return s.recordVisit(ctx, businessID, RecordVisitRequest{
		CustomerID: req.CustomerID,
		Phone:      req.Phone,
		Amount:     req.Amount,
	}, domain.VisitSourceQR, idempotencyKey)
}

func (s *Service) recordVisit(ctx context.Context, businessID uuid.UUID, req RecordVisitRequest, source domain.VisitSource, idempotencyKey string) (VisitResponse, error) {
	if req.Amount < 0 {
		return VisitResponse{}, fmt.Errorf("%w: amount cannot be negative", domain.ErrInvalidInput)
	}

	customer, err := s.lookupVisitCustomer(ctx, businessID, req)
	if err != nil {
		return VisitResponse{}, err
	}

	cached, err := s.reserveIdempotency(ctx, idempotencyKey, req)
	if err != nil {
		return VisitResponse{}, err
	}
	if cached != nil {
		var replay VisitResponse
		if err := json.Unmarshal(cached, &replay); err != nil {
			return VisitResponse{}, err
		}
		return replay, nil
	}

	var program domain.LoyaltyProgram
	var rewards []domain.LoyaltyReward
	hasProgram := false
	program, err = s.programs.GetByBusiness(ctx, businessID)
	switch {
	case err == nil:
		hasProgram = true
		rewards, err = s.rewards.ListByProgram(ctx, program.ProgramID)
		if err != nil {
			return VisitResponse{}, err
		}
	case errors.Is(err, domain.ErrNotFound):
		// Visits are still worth tracking before a program is configured.
	default:
		return VisitResponse{}, err
	}

	points := 0
	if hasProgram {
		points = pointsForVisit(program, customer, req.Amount)
	}

	now := s.nowFn()
	updated, err := s.customers.ApplyVisit(ctx, ports.ApplyVisitParams{
		CustomerID:  customer.CustomerID,
		BusinessID:  businessID,
		PointsDelta: points,
		VisitsDelta: 1,
		SpentDelta:  req.Amount,
		UpdatedAt:   now,
	})
	if err != nil {
		return VisitResponse{}, err
	}

	visit, err := s.visits.Create(ctx, ports.CreateVisitParams{
		BusinessID:   businessID,
		CustomerID:   customer.CustomerID,
		Amount:       req.Amount,
		PointsEarned: points,
		VisitNumber:  updated.TotalVisits,
		Source:       source,
		RecordedAt:   now,
	})
	if err != nil {
		return VisitResponse{}, err
	}

	var progress domain.ProgressResult
	if hasProgram {
		if err := s.memberships.Enroll(ctx, businessID, program.ProgramID, customer.CustomerID, now); err != nil {
			return VisitResponse{}, err
		}
		progress = domain.ComputeProgress(program, rewards, updated)
	}

	s.enqueueEvent(ctx, "visit.recorded", customer.CustomerID.String(), map[string]any{
		"visit_id":      visit.VisitID.String(),
		"business_id":   businessID.String(),
		"customer_id":   customer.CustomerID.String(),
		"amount":        req.Amount,
		"points_earned": points,
		"visit_number":  visit.VisitNumber,
		"source":        string(source),
		"recorded_at":   now,
	})
	if hasProgram && rewardUnlocked(program, updated, progress) {
		s.enqueueEvent(ctx, "reward.unlocked", customer.CustomerID.String(), map[string]any{
			"business_id":      businessID.String(),
			"customer_id":      customer.CustomerID.String(),
			"next_reward_name": progress.NextRewardName,
			"unlocked_at":      now,
		})
	}

	resp := toVisitResponse(visit, progress)
	s.completeIdempotency(ctx, idempotencyKey, 201, resp)
	return resp, nil
}

func (s *Service) lookupVisitCustomer(ctx context.Context, businessID uuid.UUID, req RecordVisitRequest) (domain.Customer, error) {
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("%w: invalid customer_id", domain.ErrInvalidInput)
		}
		return s.customers.GetByID(ctx, businessID, customerID)
	}
	if req.Phone != "" {
		customer, _, err := s.resolveCustomerByPhone(ctx, businessID, req.Phone)
		return customer, err
	}
	return domain.Customer{}, fmt.Errorf("%w: customer_id or phone is required", domain.ErrInvalidInput)
}

func pointsForVisit(program domain.LoyaltyProgram, customer domain.Customer, amount float64) int {
	switch program.Type {
	case domain.ProgramTypePoints:
		return int(math.Round(amount * program.PointsPerAmount))
	case domain.ProgramTypeTiered:
		perAmount := program.PointsPerAmount
		if perAmount <= 0 {
			perAmount = 1
		}
		base := amount * perAmount
		if tier := domain.CurrentTier(program.Tiers, customer.LoyaltyPoints); tier != nil && tier.Multiplier > 0 {
			base *= tier.Multiplier
		}
		return int(math.Round(base))
	default:
		return 0
	}
}

func rewardUnlocked(program domain.LoyaltyProgram, customer domain.Customer, progress domain.ProgressResult) bool {
	if program.Type == domain.ProgramTypeVisits {
		required := program.VisitsRequired
		if required <= 0 {
			required = 10
		}
		return customer.TotalVisits > 0 && customer.TotalVisits%required == 0
	}
	return progress.NextRewardAt > 0 && progress.Progress >= 100
}
