package unit

import (
	"errors"
	"testing"

	"github.com/patronpoint/loyalty-service/internal/domain"
)

func TestValidateCustomerInput(t *testing.T) {
	t.Parallel()

	if err := domain.ValidateCustomerInput("Thandi", "thandi@example.com", "082 123 4567"); err != nil {
		t.Fatalf("expected valid customer input, got %v", err)
	}
	if err := domain.ValidateCustomerInput("  ", "", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected missing first name error, got %v", err)
	}
	if err := domain.ValidateCustomerInput("Thandi", "not-an-email", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid email error, got %v", err)
	}
	if err := domain.ValidateCustomerInput("Thandi", "", "12"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected short phone error, got %v", err)
	}
}

func TestValidateProgramInput(t *testing.T) {
	t.Parallel()

	valid := domain.LoyaltyProgram{Name: "Coffee Club", Type: domain.ProgramTypePoints, PointsPerAmount: 1}
	if err := domain.ValidateProgramInput(valid); err != nil {
		t.Fatalf("expected valid program, got %v", err)
	}

	noRate := domain.LoyaltyProgram{Name: "Coffee Club", Type: domain.ProgramTypePoints}
	if err := domain.ValidateProgramInput(noRate); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected missing earn rate error, got %v", err)
	}

	noTiers := domain.LoyaltyProgram{Name: "VIP", Type: domain.ProgramTypeTiered}
	if err := domain.ValidateProgramInput(noTiers); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected missing tiers error, got %v", err)
	}

	badType := domain.LoyaltyProgram{Name: "Club", Type: domain.ProgramType("stamps")}
	if err := domain.ValidateProgramInput(badType); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unknown program type error, got %v", err)
	}
}

func TestValidateRewardInput(t *testing.T) {
	t.Parallel()

	if err := domain.ValidateRewardInput("Free Coffee", intPtr(100), nil); err != nil {
		t.Fatalf("expected valid reward, got %v", err)
	}
	if err := domain.ValidateRewardInput("Free Coffee", nil, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected missing cost error, got %v", err)
	}
	if err := domain.ValidateRewardInput("Free Coffee", intPtr(0), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected non-positive cost error, got %v", err)
	}
}

func TestValidateCouponInput(t *testing.T) {
	t.Parallel()

	if err := domain.ValidateCouponInput("percentage", 15); err != nil {
		t.Fatalf("expected valid coupon, got %v", err)
	}
	if err := domain.ValidateCouponInput("percentage", 120); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected percentage cap error, got %v", err)
	}
	if err := domain.ValidateCouponInput("bogo", 10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unknown discount type error, got %v", err)
	}
}

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	body := "Hi {{first_name}}, you have {{points}} points at {{business_name}}."
	got := domain.RenderTemplate(body, map[string]string{
		"first_name":    "Thandi",
		"points":        "250",
		"business_name": "Bean There",
	})
	want := "Hi Thandi, you have 250 points at Bean There."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := domain.RenderTemplate("No placeholders", nil); got != "No placeholders" {
		t.Fatalf("expected untouched body, got %q", got)
	}
}
