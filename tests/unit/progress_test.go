package unit

import (
	"testing"

	"github.com/patronpoint/loyalty-service/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestComputeProgress_PointsTowardNextReward(t *testing.T) {
	t.Parallel()

	program := domain.LoyaltyProgram{Type: domain.ProgramTypePoints}
	rewards := []domain.LoyaltyReward{
		{Name: "Free Meal", PointsCost: intPtr(500), Active: true},
		{Name: "Free Coffee", PointsCost: intPtr(100), Active: true},
		{Name: "Retired Reward", PointsCost: intPtr(50), Active: false},
	}
	got := domain.ComputeProgress(program, rewards, domain.Customer{LoyaltyPoints: 250})

	if got.NextRewardName != "Free Meal" || got.NextRewardAt != 500 {
		t.Fatalf("expected next reward Free Meal at 500, got %+v", got)
	}
	if got.Progress != 50 {
		t.Fatalf("expected 50%% progress, got %v", got.Progress)
	}
	if got.VisitsOrPoints != 250 {
		t.Fatalf("expected balance 250, got %d", got.VisitsOrPoints)
	}
}

func TestComputeProgress_PointsPastTopReward(t *testing.T) {
	t.Parallel()

	program := domain.LoyaltyProgram{Type: domain.ProgramTypePoints}
	rewards := []domain.LoyaltyReward{
		{Name: "Free Coffee", PointsCost: intPtr(100), Active: true},
	}
	got := domain.ComputeProgress(program, rewards, domain.Customer{LoyaltyPoints: 600})

	if got.Progress != 100 || got.NextRewardName != "Free Coffee" {
		t.Fatalf("expected capped progress at top reward, got %+v", got)
	}
}

func TestComputeProgress_PointsWithoutRewards(t *testing.T) {
	t.Parallel()

	program := domain.LoyaltyProgram{Type: domain.ProgramTypePoints}
	got := domain.ComputeProgress(program, nil, domain.Customer{LoyaltyPoints: 40})

	if got.Progress != 0 || got.NextRewardAt != 0 {
		t.Fatalf("expected empty progress without rewards, got %+v", got)
	}
}

func TestComputeProgress_VisitsCycleResets(t *testing.T) {
	t.Parallel()

	program := domain.LoyaltyProgram{Type: domain.ProgramTypeVisits, VisitsRequired: 10}
	rewards := []domain.LoyaltyReward{
		{Name: "Free Wash", VisitsCost: intPtr(10), Active: true},
	}
	got := domain.ComputeProgress(program, rewards, domain.Customer{TotalVisits: 23})

	if got.Progress != 30 {
		t.Fatalf("expected 30%% into the current cycle, got %v", got.Progress)
	}
	if got.NextRewardAt != 10 || got.NextRewardName != "Free Wash" {
		t.Fatalf("unexpected reward target: %+v", got)
	}
}

func TestComputeProgress_VisitsSkipsInactiveRewardName(t *testing.T) {
	t.Parallel()

	program := domain.LoyaltyProgram{Type: domain.ProgramTypeVisits, VisitsRequired: 10}
	rewards := []domain.LoyaltyReward{
		{Name: "Retired Wash", VisitsCost: intPtr(10), Active: false},
	}
	got := domain.ComputeProgress(program, rewards, domain.Customer{TotalVisits: 3})

	if got.NextRewardName != "" {
		t.Fatalf("expected no reward name from a deactivated reward, got %q", got.NextRewardName)
	}
	if got.NextRewardAt != 10 || got.Progress != 30 {
		t.Fatalf("expected cycle math to be unaffected, got %+v", got)
	}
}

func TestComputeProgress_VisitsDefaultRequirement(t *testing.T) {
	t.Parallel()

	program := domain.LoyaltyProgram{Type: domain.ProgramTypeVisits}
	got := domain.ComputeProgress(program, nil, domain.Customer{TotalVisits: 5})

	if got.NextRewardAt != 10 || got.Progress != 50 {
		t.Fatalf("expected default 10-visit cycle, got %+v", got)
	}
}

func TestComputeProgress_TieredBetweenTiers(t *testing.T) {
	t.Parallel()

	program := domain.LoyaltyProgram{
		Type: domain.ProgramTypeTiered,
		Tiers: []domain.Tier{
			{Name: "Gold", Threshold: 200},
			{Name: "Bronze", Threshold: 0},
			{Name: "Silver", Threshold: 100},
		},
	}
	got := domain.ComputeProgress(program, nil, domain.Customer{LoyaltyPoints: 150})

	if got.NextRewardName != "Gold Tier" || got.NextRewardAt != 200 {
		t.Fatalf("expected progress toward Gold Tier, got %+v", got)
	}
	if got.Progress != 50 {
		t.Fatalf("expected 50%% between Silver and Gold, got %v", got.Progress)
	}
}

func TestComputeProgress_TieredAtTop(t *testing.T) {
	t.Parallel()

	program := domain.LoyaltyProgram{
		Type: domain.ProgramTypeTiered,
		Tiers: []domain.Tier{
			{Name: "Bronze", Threshold: 0},
			{Name: "Silver", Threshold: 100},
		},
	}
	got := domain.ComputeProgress(program, nil, domain.Customer{LoyaltyPoints: 250})

	if got.Progress != 100 || got.NextRewardName != "Highest Tier Achieved" {
		t.Fatalf("expected top-tier result, got %+v", got)
	}
}

func TestCurrentTier_BoundaryBelongsToTier(t *testing.T) {
	t.Parallel()

	tiers := []domain.Tier{
		{Name: "Bronze", Threshold: 0, Multiplier: 1},
		{Name: "Silver", Threshold: 100, Multiplier: 1.5},
	}
	tier := domain.CurrentTier(tiers, 100)
	if tier == nil || tier.Name != "Silver" {
		t.Fatalf("expected exact threshold to land in Silver, got %+v", tier)
	}
	if below := domain.CurrentTier(tiers, -1); below != nil {
		t.Fatalf("expected no tier below every threshold, got %+v", below)
	}
}
