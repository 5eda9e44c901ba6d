package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

const (
	matchedByExact = "exact"
	matchedByFuzzy = "fuzzy"
)

func (s *Service) CreateCustomer(ctx context.Context, businessID uuid.UUID, req CreateCustomerRequest) (CustomerResponse, error) {
	if err := domain.ValidateCustomerInput(req.FirstName, req.Email, req.Phone); err != nil {
		return CustomerResponse{}, err
	}

	var userID *uuid.UUID
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			return CustomerResponse{}, fmt.Errorf("%w: invalid user_id", domain.ErrInvalidInput)
		}
		userID = &parsed
	}

	var programID *uuid.UUID
	program, err := s.programs.GetByBusiness(ctx, businessID)
	switch {
	case err == nil:
		programID = &program.ProgramID
	case errors.Is(err, domain.ErrNotFound):
		// Business has not configured a program yet; customer joins later.
	default:
		return CustomerResponse{}, err
	}

	now := s.nowFn()
	customer, err := s.customers.Create(ctx, ports.CreateCustomerParams{
		BusinessID:      businessID,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		PhoneNormalized: domain.NormalizePhone(req.Phone),
		ProgramID:       programID,
		UserID:          userID,
		CreatedAt:       now,
	})
	if err != nil {
		return CustomerResponse{}, err
	}
	if programID != nil {
		if err := s.memberships.Enroll(ctx, businessID, *programID, customer.CustomerID, now); err != nil {
			return CustomerResponse{}, err
		}
	}
	s.enqueueEvent(ctx, "customer.created", customer.CustomerID.String(), map[string]any{
		"customer_id": customer.CustomerID.String(),
		"business_id": businessID.String(),
		"created_at":  now,
	})
	return toCustomerResponse(customer), nil
}

func (s *Service) GetCustomer(ctx context.Context, businessID, customerID uuid.UUID) (CustomerResponse, error) {
	customer, err := s.customers.GetByID(ctx, businessID, customerID)
	if err != nil {
		return CustomerResponse{}, err
	}
	resp := toCustomerResponse(customer)
	s.enrichCustomer(ctx, customer, &resp)

	if program, pErr := s.programs.GetByBusiness(ctx, businessID); pErr == nil {
		rewards, _ := s.rewards.ListByProgram(ctx, program.ProgramID)
		progress := domain.ComputeProgress(program, rewards, customer)
		resp.Progress = &progress
	}
	return resp, nil
}

func (s *Service) ListCustomers(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]CustomerResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	customers, err := s.customers.ListByBusiness(ctx, businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, businessID, customerID uuid.UUID, req UpdateCustomerRequest) (CustomerResponse, error) {
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return CustomerResponse{}, fmt.Errorf("%w: first_name cannot be empty", domain.ErrInvalidInput)
	}
	if req.Phone != nil {
		if err := domain.ValidateCustomerInput("x", "", *req.Phone); err != nil {
			return CustomerResponse{}, err
		}
	}

	params := ports.UpdateCustomerParams{
		CustomerID: customerID,
		BusinessID: businessID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		UpdatedAt:  s.nowFn(),
	}
	if req.Phone != nil {
		normalized := domain.NormalizePhone(*req.Phone)
		params.PhoneNormalized = &normalized
	}
	updated, err := s.customers.Update(ctx, params)
	if err != nil {
		return CustomerResponse{}, err
	}
	return toCustomerResponse(updated), nil
}

// FindCustomerByPhone locates a customer from a possibly inconsistently
// formatted phone number. Store failures on this read path are logged and
// reported as "no match" so a search box never surfaces an internal error.
func (s *Service) FindCustomerByPhone(ctx context.Context, businessID uuid.UUID, rawPhone string) (*CustomerResponse, error) {
	customer, matchedBy, err := s.resolveCustomerByPhone(ctx, businessID, rawPhone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		s.logger.WarnContext(ctx, "phone search failed, reporting no match",
			"business_id", businessID.String(),
			"error", err,
		)
		return nil, nil
	}

	resp := toCustomerResponse(customer)
	resp.MatchedBy = matchedBy
	s.enrichCustomer(ctx, customer, &resp)
	return &resp, nil
}

// resolveCustomerByPhone is the strict variant: store errors propagate.
// Write paths (visit recording, account linking) depend on that.
func (s *Service) resolveCustomerByPhone(ctx context.Context, businessID uuid.UUID, rawPhone string) (domain.Customer, string, error) {
	trimmed := strings.TrimSpace(rawPhone)
	if trimmed == "" {
		return domain.Customer{}, "", domain.ErrNotFound
	}
	normalized := domain.NormalizePhone(trimmed)

	countryCode := s.cfg.DefaultCountryCode
	if business, err := s.businesses.GetByID(ctx, businessID); err == nil && business.CountryCode != "" {
		countryCode = business.CountryCode
	}

	// Exact formats first: they are cheap indexed lookups and every exact hit
	// avoids a fuzzy false positive.
	for _, candidate := range domain.PhoneCandidates(trimmed, countryCode) {
		customer, err := s.customers.FindByPhone(ctx, businessID, candidate, domain.NormalizePhone(candidate))
		if err == nil {
			return customer, matchedByExact, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Customer{}, "", err
		}
	}

	// Fallback scan, oldest customers first so repeated searches resolve to
	// the same record.
	customers, err := s.customers.ListByBusiness(ctx, businessID, s.cfg.PhoneSearchScanLimit, 0)
	if err != nil {
		return domain.Customer{}, "", err
	}
	for _, c := range customers {
		stored := c.PhoneNormalized
		if stored == "" {
			stored = c.Phone
		}
		if domain.PhonesMatch(normalized, stored) {
			return c, matchedByFuzzy, nil
		}
	}
	return domain.Customer{}, "", domain.ErrNotFound
}

// LinkCustomerAccount attaches a platform user account to a customer record.
// Unlike search, failures here must propagate: silently dropping the link
// would strand the registration flow.
func (s *Service) LinkCustomerAccount(ctx context.Context, businessID, customerID, userID uuid.UUID) (CustomerResponse, error) {
	if userID == uuid.Nil {
		return CustomerResponse{}, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	if err := s.customers.LinkUser(ctx, businessID, customerID, userID, s.nowFn()); err != nil {
		return CustomerResponse{}, err
	}
	customer, err := s.customers.GetByID(ctx, businessID, customerID)
	if err != nil {
		return CustomerResponse{}, err
	}
	return toCustomerResponse(customer), nil
}

// enrichCustomer adds derived counts. Enrichment lookups are best-effort on
// read paths; a failed count never hides the customer itself.
func (s *Service) enrichCustomer(ctx context.Context, customer domain.Customer, resp *CustomerResponse) {
	if count, err := s.coupons.CountActiveByCustomer(ctx, customer.BusinessID, customer.CustomerID); err == nil {
		resp.CouponCount = count
	}
	memberships, err := s.memberships.ListByCustomer(ctx, customer.BusinessID, customer.CustomerID)
	if err != nil {
		return
	}
	for _, m := range memberships {
		view := MembershipView{ProgramID: m.ProgramID.String(), JoinedAt: m.JoinedAt}
		if program, pErr := s.programs.GetByID(ctx, m.ProgramID); pErr == nil {
			view.ProgramName = program.Name
			view.ProgramType = string(program.Type)
		}
		resp.Memberships = append(resp.Memberships, view)
	}
}
