package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

var validChannels = map[string]struct{}{
	"email":    {},
	"sms":      {},
	"whatsapp": {},
}

var validDiscountTypes = map[string]struct{}{
	"flat":       {},
	"percentage": {},
}

func ValidateProgramType(v ProgramType) error {
	switch v {
	case ProgramTypePoints, ProgramTypeVisits, ProgramTypeTiered:
		return nil
	default:
		return fmt.Errorf("%w: program type must be one of points, visits, tiered", ErrInvalidInput)
	}
}

func ValidateCustomerInput(firstName, email, phone string) error {
	if strings.TrimSpace(firstName) == "" {
		return fmt.Errorf("%w: first_name is required", ErrInvalidInput)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}
	if phone != "" && len(NormalizePhone(phone)) < MinSuffixLen {
		return fmt.Errorf("%w: phone must contain at least %d digits", ErrInvalidInput, MinSuffixLen)
	}
	return nil
}

func ValidateProgramInput(p LoyaltyProgram) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: program name is required", ErrInvalidInput)
	}
	if err := ValidateProgramType(p.Type); err != nil {
		return err
	}
	switch p.Type {
	case ProgramTypePoints:
		if p.PointsPerAmount <= 0 {
			return fmt.Errorf("%w: points_per_amount must be positive for a points program", ErrInvalidInput)
		}
	case ProgramTypeVisits:
		if p.VisitsRequired <= 0 {
			return fmt.Errorf("%w: visits_required must be positive for a visits program", ErrInvalidInput)
		}
	case ProgramTypeTiered:
		if len(p.Tiers) == 0 {
			return fmt.Errorf("%w: a tiered program needs at least one tier", ErrInvalidInput)
		}
		for _, t := range p.Tiers {
			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("%w: tier name is required", ErrInvalidInput)
			}
			if t.Threshold < 0 {
				return fmt.Errorf("%w: tier threshold must be >= 0", ErrInvalidInput)
			}
		}
	}
	return nil
}

func ValidateRewardInput(name string, pointsCost, visitsCost *int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: reward name is required", ErrInvalidInput)
	}
	if pointsCost == nil && visitsCost == nil {
		return fmt.Errorf("%w: reward needs a points_cost or visits_cost", ErrInvalidInput)
	}
	if pointsCost != nil && *pointsCost <= 0 {
		return fmt.Errorf("%w: points_cost must be positive", ErrInvalidInput)
	}
	if visitsCost != nil && *visitsCost <= 0 {
		return fmt.Errorf("%w: visits_cost must be positive", ErrInvalidInput)
	}
	return nil
}

func ValidateTemplateInput(name, channel, body string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: template name is required", ErrInvalidInput)
	}
	if _, ok := validChannels[channel]; !ok {
		return fmt.Errorf("%w: channel must be one of email, sms, whatsapp", ErrInvalidInput)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: template body is required", ErrInvalidInput)
	}
	return nil
}

func ValidateCouponInput(discountType string, discountValue float64) error {
	if _, ok := validDiscountTypes[discountType]; !ok {
		return fmt.Errorf("%w: discount_type must be flat or percentage", ErrInvalidInput)
	}
	if discountValue <= 0 {
		return fmt.Errorf("%w: discount_value must be positive", ErrInvalidInput)
	}
	if discountType == "percentage" && discountValue > 100 {
		return fmt.Errorf("%w: percentage discount cannot exceed 100", ErrInvalidInput)
	}
	return nil
}

// RenderTemplate substitutes the supported placeholders into a template body.
func RenderTemplate(body string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(body)
}
