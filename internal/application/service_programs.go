package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

func (s *Service) UpsertProgram(ctx context.Context, businessID uuid.UUID, req UpsertProgramRequest) (ProgramResponse, error) {
	tiers := make([]domain.Tier, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		multiplier := t.Multiplier
		if multiplier <= 0 {
			multiplier = 1
		}
		tiers = append(tiers, domain.Tier{
			Name: t.Name, Threshold: t.Threshold, Multiplier: multiplier, Benefits: t.Benefits,
		})
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	candidate := domain.LoyaltyProgram{
		BusinessID:      businessID,
		Name:            req.Name,
		Type:            domain.ProgramType(req.Type),
		PointsPerAmount: req.PointsPerAmount,
		AmountPerPoint:  req.AmountPerPoint,
		VisitsRequired:  req.VisitsRequired,
		Tiers:           tiers,
		Active:          active,
	}
	if err := domain.ValidateProgramInput(candidate); err != nil {
		return ProgramResponse{}, err
	}

	program, err := s.programs.Upsert(ctx, ports.UpsertProgramParams{
		BusinessID:      businessID,
		Name:            candidate.Name,
		Type:            candidate.Type,
		PointsPerAmount: candidate.PointsPerAmount,
		AmountPerPoint:  candidate.AmountPerPoint,
		VisitsRequired:  candidate.VisitsRequired,
		Tiers:           candidate.Tiers,
		Active:          candidate.Active,
		Now:             s.nowFn(),
	})
	if err != nil {
		return ProgramResponse{}, err
	}
	rewards, err := s.rewards.ListByProgram(ctx, program.ProgramID)
	if err != nil {
		return ProgramResponse{}, err
	}
	return toProgramResponse(program, rewards), nil
}

func (s *Service) GetProgram(ctx context.Context, businessID uuid.UUID) (ProgramResponse, error) {
	program, err := s.programs.GetByBusiness(ctx, businessID)
	if err != nil {
		return ProgramResponse{}, err
	}
	rewards, err := s.rewards.ListByProgram(ctx, program.ProgramID)
	if err != nil {
		return ProgramResponse{}, err
	}
	return toProgramResponse(program, rewards), nil
}

func (s *Service) AddReward(ctx context.Context, businessID uuid.UUID, req CreateRewardRequest) (RewardView, error) {
	if err := domain.ValidateRewardInput(req.Name, req.PointsCost, req.VisitsCost); err != nil {
		return RewardView{}, err
	}
	program, err := s.programs.GetByBusiness(ctx, businessID)
	if err != nil {
		return RewardView{}, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	reward, err := s.rewards.Create(ctx, ports.CreateRewardParams{
		ProgramID:  program.ProgramID,
		Name:       req.Name,
		PointsCost: req.PointsCost,
		VisitsCost: req.VisitsCost,
		Active:     active,
		CreatedAt:  s.nowFn(),
	})
	if err != nil {
		return RewardView{}, err
	}
	return toRewardView(reward), nil
}

func (s *Service) UpdateReward(ctx context.Context, businessID, rewardID uuid.UUID, req UpdateRewardRequest) (RewardView, error) {
	program, err := s.programs.GetByBusiness(ctx, businessID)
	if err != nil {
		return RewardView{}, err
	}
	reward, err := s.rewards.Update(ctx, ports.UpdateRewardParams{
		RewardID:   rewardID,
		ProgramID:  program.ProgramID,
		Name:       req.Name,
		PointsCost: req.PointsCost,
		VisitsCost: req.VisitsCost,
		Active:     req.Active,
		UpdatedAt:  s.nowFn(),
	})
	if err != nil {
		return RewardView{}, err
	}
	return toRewardView(reward), nil
}

// GetCustomerProgress recomputes progress from the live program and customer
// records; nothing is cached so the progress bar always reflects the latest
// recorded visit.
func (s *Service) GetCustomerProgress(ctx context.Context, businessID, customerID uuid.UUID) (domain.ProgressResult, error) {
	customer, err := s.customers.GetByID(ctx, businessID, customerID)
	if err != nil {
		return domain.ProgressResult{}, err
	}
	program, err := s.programs.GetByBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ProgressResult{}, nil
		}
		return domain.ProgressResult{}, err
	}
	rewards, err := s.rewards.ListByProgram(ctx, program.ProgramID)
	if err != nil {
		return domain.ProgressResult{}, err
	}
	return domain.ComputeProgress(program, rewards, customer), nil
}

// ListMyPrograms is the customer-facing view: every program the platform
// user is enrolled in across businesses, with live progress.
func (s *Service) ListMyPrograms(ctx context.Context, userID uuid.UUID) ([]MyProgramView, error) {
	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]MyProgramView, 0, len(memberships))
	for _, m := range memberships {
		program, err := s.programs.GetByID(ctx, m.ProgramID)
		if err != nil {
			continue
		}
		customer, err := s.customers.GetByID(ctx, m.BusinessID, m.CustomerID)
		if err != nil {
			continue
		}
		rewards, _ := s.rewards.ListByProgram(ctx, program.ProgramID)
		out = append(out, MyProgramView{
			BusinessID:  m.BusinessID.String(),
			ProgramID:   program.ProgramID.String(),
			ProgramName: program.Name,
			ProgramType: string(program.Type),
			Progress:    domain.ComputeProgress(program, rewards, customer),
		})
	}
	return out, nil
}
