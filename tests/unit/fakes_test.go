package unit

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/application"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

// In-memory implementations of the repository ports. Error fields let tests
// inject store failures on specific paths.

type fakeStores struct {
	businesses  *fakeBusinessRepo
	customers   *fakeCustomerRepo
	programs    *fakeProgramRepo
	rewards     *fakeRewardRepo
	memberships *fakeMembershipRepo
	visits      *fakeVisitRepo
	coupons     *fakeCouponRepo
	templates   *fakeTemplateRepo
	billing     *fakeBillingRepo
	outbox      *fakeOutboxRepo
	dedup       *fakeDedupRepo
	idempotency *fakeIdempotencyRepo
	tokens      *fakeTokenStore
	cache       *fakeCache
}

func newTestService() (*application.Service, *fakeStores) {
	f := &fakeStores{
		businesses:  &fakeBusinessRepo{items: map[uuid.UUID]domain.Business{}},
		customers:   &fakeCustomerRepo{},
		programs:    &fakeProgramRepo{items: map[uuid.UUID]domain.LoyaltyProgram{}},
		rewards:     &fakeRewardRepo{},
		visits:      &fakeVisitRepo{},
		coupons:     &fakeCouponRepo{},
		templates:   &fakeTemplateRepo{items: map[uuid.UUID]domain.MessageTemplate{}},
		billing:     &fakeBillingRepo{subs: map[uuid.UUID]domain.Subscription{}},
		outbox:      &fakeOutboxRepo{},
		dedup:       &fakeDedupRepo{seen: map[string]bool{}},
		idempotency: &fakeIdempotencyRepo{recs: map[string]*ports.IdempotencyRecord{}},
		tokens:      &fakeTokenStore{items: map[string]uuid.UUID{}},
		cache:       &fakeCache{values: map[string]string{}, counters: map[string]int64{}},
	}
	f.memberships = &fakeMembershipRepo{customers: f.customers}

	svc := application.NewService(application.Dependencies{
		Config:      application.Config{DefaultCountryCode: "27"},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Businesses:  f.businesses,
		Customers:   f.customers,
		Programs:    f.programs,
		Rewards:     f.rewards,
		Memberships: f.memberships,
		Visits:      f.visits,
		Coupons:     f.coupons,
		Templates:   f.templates,
		Billing:     f.billing,
		Outbox:      f.outbox,
		EventDedup:  f.dedup,
		Idempotency: f.idempotency,
		VisitTokens: f.tokens,
		Cache:       f.cache,
	})
	return svc, f
}

type fakeBusinessRepo struct {
	items map[uuid.UUID]domain.Business
}

func (r *fakeBusinessRepo) Create(_ context.Context, params ports.CreateBusinessParams) (domain.Business, error) {
	b := domain.Business{
		BusinessID:  uuid.New(),
		OwnerUserID: params.OwnerUserID,
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		CountryCode: params.CountryCode,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.CreatedAt,
	}
	r.items[b.BusinessID] = b
	return b, nil
}

func (r *fakeBusinessRepo) GetByID(_ context.Context, businessID uuid.UUID) (domain.Business, error) {
	if b, ok := r.items[businessID]; ok {
		return b, nil
	}
	return domain.Business{}, domain.ErrNotFound
}

type fakeCustomerRepo struct {
	items   []domain.Customer
	findErr error
	listErr error
	linkErr error
}

func (r *fakeCustomerRepo) Create(_ context.Context, params ports.CreateCustomerParams) (domain.Customer, error) {
	c := domain.Customer{
		CustomerID:       uuid.New(),
		BusinessID:       params.BusinessID,
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		Email:            params.Email,
		Phone:            params.Phone,
		PhoneNormalized:  params.PhoneNormalized,
		LoyaltyProgramID: params.ProgramID,
		UserID:           params.UserID,
		CreatedAt:        params.CreatedAt,
		UpdatedAt:        params.CreatedAt,
	}
	r.items = append(r.items, c)
	return c, nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, businessID, customerID uuid.UUID) (domain.Customer, error) {
	for _, c := range r.items {
		if c.BusinessID == businessID && c.CustomerID == customerID {
			return c, nil
		}
	}
	return domain.Customer{}, domain.ErrNotFound
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, businessID uuid.UUID, candidate, normalizedCandidate string) (domain.Customer, error) {
	if r.findErr != nil {
		return domain.Customer{}, r.findErr
	}
	for _, c := range r.items {
		if c.BusinessID != businessID {
			continue
		}
		if c.Phone == candidate {
			return c, nil
		}
		if normalizedCandidate != "" && c.PhoneNormalized == normalizedCandidate {
			return c, nil
		}
	}
	return domain.Customer{}, domain.ErrNotFound
}

func (r *fakeCustomerRepo) ListByBusiness(_ context.Context, businessID uuid.UUID, limit, offset int) ([]domain.Customer, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Customer
	for _, c := range r.items {
		if c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, params ports.UpdateCustomerParams) (domain.Customer, error) {
	for i := range r.items {
		c := &r.items[i]
		if c.BusinessID != params.BusinessID || c.CustomerID != params.CustomerID {
			continue
		}
		if params.FirstName != nil {
			c.FirstName = *params.FirstName
		}
		if params.LastName != nil {
			c.LastName = *params.LastName
		}
		if params.Email != nil {
			c.Email = *params.Email
		}
		if params.Phone != nil {
			c.Phone = *params.Phone
		}
		if params.PhoneNormalized != nil {
			c.PhoneNormalized = *params.PhoneNormalized
		}
		c.UpdatedAt = params.UpdatedAt
		return *c, nil
	}
	return domain.Customer{}, domain.ErrNotFound
}

func (r *fakeCustomerRepo) ApplyVisit(_ context.Context, params ports.ApplyVisitParams) (domain.Customer, error) {
	for i := range r.items {
		c := &r.items[i]
		if c.BusinessID != params.BusinessID || c.CustomerID != params.CustomerID {
			continue
		}
		c.LoyaltyPoints += params.PointsDelta
		c.TotalVisits += params.VisitsDelta
		c.TotalSpent += params.SpentDelta
		c.UpdatedAt = params.UpdatedAt
		return *c, nil
	}
	return domain.Customer{}, domain.ErrNotFound
}

func (r *fakeCustomerRepo) AdjustPoints(_ context.Context, businessID, customerID uuid.UUID, delta int, at time.Time) (domain.Customer, error) {
	for i := range r.items {
		c := &r.items[i]
		if c.BusinessID != businessID || c.CustomerID != customerID {
			continue
		}
		if delta < 0 && c.LoyaltyPoints+delta < 0 {
			return domain.Customer{}, domain.ErrConflict
		}
		c.LoyaltyPoints += delta
		c.UpdatedAt = at
		return *c, nil
	}
	return domain.Customer{}, domain.ErrNotFound
}

func (r *fakeCustomerRepo) LinkUser(_ context.Context, businessID, customerID, userID uuid.UUID, at time.Time) error {
	if r.linkErr != nil {
		return r.linkErr
	}
	for i := range r.items {
		c := &r.items[i]
		if c.BusinessID != businessID || c.CustomerID != customerID {
			continue
		}
		if c.UserID == nil {
			c.UserID = &userID
			c.UpdatedAt = at
		}
		return nil
	}
	return domain.ErrNotFound
}

type fakeProgramRepo struct {
	items map[uuid.UUID]domain.LoyaltyProgram
}

func (r *fakeProgramRepo) Upsert(_ context.Context, params ports.UpsertProgramParams) (domain.LoyaltyProgram, error) {
	for id, p := range r.items {
		if p.BusinessID == params.BusinessID {
			p.Name = params.Name
			p.Type = params.Type
			p.PointsPerAmount = params.PointsPerAmount
			p.AmountPerPoint = params.AmountPerPoint
			p.VisitsRequired = params.VisitsRequired
			p.Tiers = params.Tiers
			p.Active = params.Active
			p.UpdatedAt = params.Now
			r.items[id] = p
			return p, nil
		}
	}
	p := domain.LoyaltyProgram{
		ProgramID:       uuid.New(),
		BusinessID:      params.BusinessID,
		Name:            params.Name,
		Type:            params.Type,
		PointsPerAmount: params.PointsPerAmount,
		AmountPerPoint:  params.AmountPerPoint,
		VisitsRequired:  params.VisitsRequired,
		Tiers:           params.Tiers,
		Active:          params.Active,
		CreatedAt:       params.Now,
		UpdatedAt:       params.Now,
	}
	r.items[p.ProgramID] = p
	return p, nil
}

func (r *fakeProgramRepo) GetByBusiness(_ context.Context, businessID uuid.UUID) (domain.LoyaltyProgram, error) {
	for _, p := range r.items {
		if p.BusinessID == businessID {
			return p, nil
		}
	}
	return domain.LoyaltyProgram{}, domain.ErrNotFound
}

func (r *fakeProgramRepo) GetByID(_ context.Context, programID uuid.UUID) (domain.LoyaltyProgram, error) {
	if p, ok := r.items[programID]; ok {
		return p, nil
	}
	return domain.LoyaltyProgram{}, domain.ErrNotFound
}

type fakeRewardRepo struct {
	items []domain.LoyaltyReward
}

func (r *fakeRewardRepo) Create(_ context.Context, params ports.CreateRewardParams) (domain.LoyaltyReward, error) {
	reward := domain.LoyaltyReward{
		RewardID:   uuid.New(),
		ProgramID:  params.ProgramID,
		Name:       params.Name,
		PointsCost: params.PointsCost,
		VisitsCost: params.VisitsCost,
		Active:     params.Active,
		CreatedAt:  params.CreatedAt,
		UpdatedAt:  params.CreatedAt,
	}
	r.items = append(r.items, reward)
	return reward, nil
}

func (r *fakeRewardRepo) Update(_ context.Context, params ports.UpdateRewardParams) (domain.LoyaltyReward, error) {
	for i := range r.items {
		reward := &r.items[i]
		if reward.RewardID != params.RewardID || reward.ProgramID != params.ProgramID {
			continue
		}
		if params.Name != nil {
			reward.Name = *params.Name
		}
		if params.PointsCost != nil {
			reward.PointsCost = params.PointsCost
		}
		if params.VisitsCost != nil {
			reward.VisitsCost = params.VisitsCost
		}
		if params.Active != nil {
			reward.Active = *params.Active
		}
		reward.UpdatedAt = params.UpdatedAt
		return *reward, nil
	}
	return domain.LoyaltyReward{}, domain.ErrNotFound
}

func (r *fakeRewardRepo) GetByID(_ context.Context, programID, rewardID uuid.UUID) (domain.LoyaltyReward, error) {
	for _, reward := range r.items {
		if reward.ProgramID == programID && reward.RewardID == rewardID {
			return reward, nil
		}
	}
	return domain.LoyaltyReward{}, domain.ErrNotFound
}

func (r *fakeRewardRepo) ListByProgram(_ context.Context, programID uuid.UUID) ([]domain.LoyaltyReward, error) {
	var out []domain.LoyaltyReward
	for _, reward := range r.items {
		if reward.ProgramID == programID {
			out = append(out, reward)
		}
	}
	return out, nil
}

type fakeMembershipRepo struct {
	items     []domain.ProgramMembership
	customers *fakeCustomerRepo
}

func (r *fakeMembershipRepo) Enroll(_ context.Context, businessID, programID, customerID uuid.UUID, at time.Time) error {
	for _, m := range r.items {
		if m.ProgramID == programID && m.CustomerID == customerID {
			return nil
		}
	}
	r.items = append(r.items, domain.ProgramMembership{
		MembershipID: uuid.New(),
		BusinessID:   businessID,
		ProgramID:    programID,
		CustomerID:   customerID,
		JoinedAt:     at,
	})
	return nil
}

func (r *fakeMembershipRepo) ListByCustomer(_ context.Context, businessID, customerID uuid.UUID) ([]domain.ProgramMembership, error) {
	var out []domain.ProgramMembership
	for _, m := range r.items {
		if m.BusinessID == businessID && m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ProgramMembership, error) {
	var out []domain.ProgramMembership
	for _, m := range r.items {
		c, err := r.customers.GetByID(ctx, m.BusinessID, m.CustomerID)
		if err != nil {
			continue
		}
		if c.UserID != nil && *c.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeVisitRepo struct {
	items []domain.Visit
}

func (r *fakeVisitRepo) Create(_ context.Context, params ports.CreateVisitParams) (domain.Visit, error) {
	v := domain.Visit{
		VisitID:      uuid.New(),
		BusinessID:   params.BusinessID,
		CustomerID:   params.CustomerID,
		Amount:       params.Amount,
		PointsEarned: params.PointsEarned,
		VisitNumber:  params.VisitNumber,
		Source:       params.Source,
		RecordedAt:   params.RecordedAt,
	}
	r.items = append(r.items, v)
	return v, nil
}

func (r *fakeVisitRepo) ListByCustomer(_ context.Context, businessID, customerID uuid.UUID, limit int) ([]domain.Visit, error) {
	var out []domain.Visit
	for _, v := range r.items {
		if v.BusinessID == businessID && v.CustomerID == customerID {
			out = append(out, v)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCouponRepo struct {
	items []domain.Coupon
}

func (r *fakeCouponRepo) Create(_ context.Context, params ports.CreateCouponParams) (domain.Coupon, error) {
	for _, c := range r.items {
		if c.Code == params.Code {
			return domain.Coupon{}, domain.ErrConflict
		}
	}
	c := domain.Coupon{
		CouponID:      uuid.New(),
		BusinessID:    params.BusinessID,
		CustomerID:    params.CustomerID,
		RewardID:      params.RewardID,
		Code:          params.Code,
		Description:   params.Description,
		DiscountType:  params.DiscountType,
		DiscountValue: params.DiscountValue,
		Status:        domain.CouponStatusActive,
		ExpiresAt:     params.ExpiresAt,
		CreatedAt:     params.CreatedAt,
	}
	r.items = append(r.items, c)
	return c, nil
}

func (r *fakeCouponRepo) GetByCode(_ context.Context, businessID uuid.UUID, code string) (domain.Coupon, error) {
	for _, c := range r.items {
		if c.BusinessID == businessID && c.Code == code {
			return c, nil
		}
	}
	return domain.Coupon{}, domain.ErrNotFound
}

func (r *fakeCouponRepo) ListByCustomer(_ context.Context, businessID, customerID uuid.UUID) ([]domain.Coupon, error) {
	var out []domain.Coupon
	for _, c := range r.items {
		if c.BusinessID == businessID && c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCouponRepo) CountActiveByCustomer(_ context.Context, businessID, customerID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.items {
		if c.BusinessID == businessID && c.CustomerID == customerID && c.Status == domain.CouponStatusActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeCouponRepo) MarkRedeemed(_ context.Context, couponID uuid.UUID, at time.Time) error {
	for i := range r.items {
		c := &r.items[i]
		if c.CouponID != couponID {
			continue
		}
		if c.Status != domain.CouponStatusActive {
			return domain.ErrConflict
		}
		c.Status = domain.CouponStatusRedeemed
		c.RedeemedAt = &at
		return nil
	}
	return domain.ErrNotFound
}

type fakeTemplateRepo struct {
	items map[uuid.UUID]domain.MessageTemplate
}

func (r *fakeTemplateRepo) Put(_ context.Context, params ports.PutTemplateParams) (domain.MessageTemplate, error) {
	if params.TemplateID != nil {
		tpl, ok := r.items[*params.TemplateID]
		if !ok || tpl.BusinessID != params.BusinessID {
			return domain.MessageTemplate{}, domain.ErrNotFound
		}
		tpl.Name = params.Name
		tpl.Channel = params.Channel
		tpl.Subject = params.Subject
		tpl.Body = params.Body
		tpl.UpdatedAt = params.Now
		r.items[tpl.TemplateID] = tpl
		return tpl, nil
	}
	tpl := domain.MessageTemplate{
		TemplateID: uuid.New(),
		BusinessID: params.BusinessID,
		Name:       params.Name,
		Channel:    params.Channel,
		Subject:    params.Subject,
		Body:       params.Body,
		CreatedAt:  params.Now,
		UpdatedAt:  params.Now,
	}
	r.items[tpl.TemplateID] = tpl
	return tpl, nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, businessID, templateID uuid.UUID) (domain.MessageTemplate, error) {
	tpl, ok := r.items[templateID]
	if !ok || tpl.BusinessID != businessID {
		return domain.MessageTemplate{}, domain.ErrNotFound
	}
	return tpl, nil
}

func (r *fakeTemplateRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]domain.MessageTemplate, error) {
	var out []domain.MessageTemplate
	for _, tpl := range r.items {
		if tpl.BusinessID == businessID {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, businessID, templateID uuid.UUID) error {
	tpl, ok := r.items[templateID]
	if !ok || tpl.BusinessID != businessID {
		return domain.ErrNotFound
	}
	delete(r.items, templateID)
	return nil
}

type fakeBillingRepo struct {
	plans     []domain.BillingPlan
	subs      map[uuid.UUID]domain.Subscription
	listCalls int
}

func (r *fakeBillingRepo) ListPlans(_ context.Context) ([]domain.BillingPlan, error) {
	r.listCalls++
	return r.plans, nil
}

func (r *fakeBillingRepo) GetPlan(_ context.Context, planID string) (domain.BillingPlan, error) {
	for _, p := range r.plans {
		if p.PlanID == planID {
			return p, nil
		}
	}
	return domain.BillingPlan{}, domain.ErrNotFound
}

func (r *fakeBillingRepo) UpsertSubscription(_ context.Context, params ports.SubscribeParams) (domain.Subscription, error) {
	sub, ok := r.subs[params.BusinessID]
	if !ok {
		sub = domain.Subscription{SubscriptionID: uuid.New(), BusinessID: params.BusinessID, CreatedAt: params.PeriodStart}
	}
	sub.PlanID = params.PlanID
	sub.Status = domain.SubscriptionStatusActive
	sub.CurrentPeriodStart = params.PeriodStart
	sub.CurrentPeriodEnd = params.PeriodEnd
	sub.CancelledAt = nil
	sub.UpdatedAt = params.PeriodStart
	r.subs[params.BusinessID] = sub
	return sub, nil
}

func (r *fakeBillingRepo) GetSubscription(_ context.Context, businessID uuid.UUID) (domain.Subscription, error) {
	if sub, ok := r.subs[businessID]; ok {
		return sub, nil
	}
	return domain.Subscription{}, domain.ErrNotFound
}

func (r *fakeBillingRepo) SetSubscriptionStatus(_ context.Context, businessID uuid.UUID, status domain.SubscriptionStatus, at time.Time) error {
	sub, ok := r.subs[businessID]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Status = status
	if status == domain.SubscriptionStatusCancelled {
		sub.CancelledAt = &at
	}
	sub.UpdatedAt = at
	r.subs[businessID] = sub
	return nil
}

type fakeOutboxRepo struct {
	events []ports.OutboxEvent
}

func (r *fakeOutboxRepo) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	out := make([]ports.OutboxRecord, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, ports.OutboxRecord{
			OutboxID:     e.EventID,
			EventType:    e.EventType,
			PartitionKey: e.PartitionKey,
			Payload:      e.Payload,
			FirstSeenAt:  e.OccurredAt,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) MarkPublished(_ context.Context, _ uuid.UUID, _ time.Time) error { return nil }

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func (r *fakeOutboxRepo) eventTypes() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type fakeDedupRepo struct {
	seen map[string]bool
}

func (r *fakeDedupRepo) IsDuplicate(_ context.Context, eventID string, _ time.Time) (bool, error) {
	return r.seen[eventID], nil
}

func (r *fakeDedupRepo) MarkProcessed(_ context.Context, eventID, _ string, _ time.Time) error {
	r.seen[eventID] = true
	return nil
}

type fakeIdempotencyRepo struct {
	recs map[string]*ports.IdempotencyRecord
}

func (r *fakeIdempotencyRepo) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	if rec, ok := r.recs[key]; ok {
		clone := *rec
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeIdempotencyRepo) Reserve(_ context.Context, key, requestHash string, expiresAt time.Time) error {
	if _, ok := r.recs[key]; ok {
		return domain.ErrConflict
	}
	r.recs[key] = &ports.IdempotencyRecord{Key: key, RequestHash: requestHash, Status: "reserved", ExpiresAt: expiresAt}
	return nil
}

func (r *fakeIdempotencyRepo) Complete(_ context.Context, key string, responseCode int, responseBody []byte, _ time.Time) error {
	rec, ok := r.recs[key]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = "completed"
	rec.ResponseCode = responseCode
	rec.ResponseBody = responseBody
	return nil
}

type fakeTokenStore struct {
	items map[string]uuid.UUID
}

func (s *fakeTokenStore) Issue(_ context.Context, token string, businessID uuid.UUID, _ time.Duration) error {
	s.items[token] = businessID
	return nil
}

func (s *fakeTokenStore) Redeem(_ context.Context, token string) (uuid.UUID, bool, error) {
	businessID, ok := s.items[token]
	if !ok {
		return uuid.Nil, false, nil
	}
	delete(s.items, token)
	return businessID, true, nil
}

type fakeCache struct {
	values   map[string]string
	counters map[string]int64
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	return "", domain.ErrNotFound
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.counters[key]++
	return c.counters[key], nil
}
