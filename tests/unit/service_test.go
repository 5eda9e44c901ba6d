package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/application"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

func seedCustomer(t *testing.T, f *fakeStores, businessID uuid.UUID, phone string, points, visits int) domain.Customer {
	t.Helper()
	customer, err := f.customers.Create(context.Background(), ports.CreateCustomerParams{
		BusinessID:      businessID,
		FirstName:       "Thandi",
		Phone:           phone,
		PhoneNormalized: domain.NormalizePhone(phone),
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	for i := range f.customers.items {
		if f.customers.items[i].CustomerID == customer.CustomerID {
			f.customers.items[i].LoyaltyPoints = points
			f.customers.items[i].TotalVisits = visits
			return f.customers.items[i]
		}
	}
	return customer
}

func hasEvent(f *fakeStores, eventType string) bool {
	for _, et := range f.outbox.eventTypes() {
		if et == eventType {
			return true
		}
	}
	return false
}

func TestRegisterBusinessAndCreateCustomer(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()

	biz, err := svc.RegisterBusiness(ctx, uuid.New(), application.RegisterBusinessRequest{Name: "Bean There"})
	if err != nil {
		t.Fatalf("RegisterBusiness error: %v", err)
	}
	if biz.CountryCode != "27" {
		t.Fatalf("expected default country code, got %q", biz.CountryCode)
	}
	businessID := uuid.MustParse(biz.BusinessID)

	if _, err := svc.UpsertProgram(ctx, businessID, application.UpsertProgramRequest{
		Name: "Coffee Club", Type: "points", PointsPerAmount: 1,
	}); err != nil {
		t.Fatalf("UpsertProgram error: %v", err)
	}

	customer, err := svc.CreateCustomer(ctx, businessID, application.CreateCustomerRequest{
		FirstName: "Thandi", Phone: "082 123 4567",
	})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}
	if customer.CustomerID == "" {
		t.Fatalf("expected customer id, got %+v", customer)
	}
	if len(f.memberships.items) != 1 {
		t.Fatalf("expected automatic program enrollment, got %d memberships", len(f.memberships.items))
	}
	if !hasEvent(f, "customer.created") {
		t.Fatalf("expected customer.created event, got %v", f.outbox.eventTypes())
	}
}

func TestFindCustomerByPhone_ExactMatch(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seeded := seedCustomer(t, f, businessID, "+27821234567", 0, 0)

	found, err := svc.FindCustomerByPhone(ctx, businessID, "082 123 4567")
	if err != nil {
		t.Fatalf("FindCustomerByPhone error: %v", err)
	}
	if found == nil || found.CustomerID != seeded.CustomerID.String() {
		t.Fatalf("expected exact match on seeded customer, got %+v", found)
	}
	if found.MatchedBy != "exact" {
		t.Fatalf("expected exact match marker, got %q", found.MatchedBy)
	}
}

func TestFindCustomerByPhone_FuzzyFallback(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seeded := seedCustomer(t, f, businessID, "555 123 9876", 0, 0)

	found, err := svc.FindCustomerByPhone(ctx, businessID, "83-9876")
	if err != nil {
		t.Fatalf("FindCustomerByPhone error: %v", err)
	}
	if found == nil || found.CustomerID != seeded.CustomerID.String() {
		t.Fatalf("expected fuzzy match on seeded customer, got %+v", found)
	}
	if found.MatchedBy != "fuzzy" {
		t.Fatalf("expected fuzzy match marker, got %q", found.MatchedBy)
	}
}

func TestFindCustomerByPhone_DigitlessSearchSkipsPhonelessCustomers(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seedCustomer(t, f, businessID, "", 0, 0)

	found, err := svc.FindCustomerByPhone(ctx, businessID, "hello")
	if err != nil || found != nil {
		t.Fatalf("expected no match for a digit-less search, got %+v / %v", found, err)
	}

	_, err = svc.RecordVisit(ctx, businessID, application.RecordVisitRequest{
		Phone: "hello", Amount: 10,
	}, "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found for a digit-less visit phone, got %v", err)
	}
	if len(f.visits.items) != 0 {
		t.Fatalf("expected no visit recorded, got %d", len(f.visits.items))
	}
}

func TestFindCustomerByPhone_NoMatchAndStoreFailure(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()

	found, err := svc.FindCustomerByPhone(ctx, businessID, "082 000 0000")
	if err != nil || found != nil {
		t.Fatalf("expected clean no-match, got %+v / %v", found, err)
	}

	f.customers.findErr = errors.New("connection reset")
	found, err = svc.FindCustomerByPhone(ctx, businessID, "082 000 0000")
	if err != nil || found != nil {
		t.Fatalf("expected store failure to read as no-match, got %+v / %v", found, err)
	}
}

func TestRecordVisit_StoreFailurePropagatesOnPhoneLookup(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seedCustomer(t, f, businessID, "0821234567", 0, 0)
	f.customers.findErr = errors.New("connection reset")

	_, err := svc.RecordVisit(ctx, businessID, application.RecordVisitRequest{Phone: "0821234567", Amount: 10}, "")
	if err == nil {
		t.Fatalf("expected store failure to propagate on the visit path")
	}
}

func TestRecordVisit_AwardsPointsAndReplaysIdempotently(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seeded := seedCustomer(t, f, businessID, "0821234567", 0, 0)

	if _, err := svc.UpsertProgram(ctx, businessID, application.UpsertProgramRequest{
		Name: "Coffee Club", Type: "points", PointsPerAmount: 1,
	}); err != nil {
		t.Fatalf("UpsertProgram error: %v", err)
	}

	req := application.RecordVisitRequest{CustomerID: seeded.CustomerID.String(), Amount: 100}
	first, err := svc.RecordVisit(ctx, businessID, req, "visit-key-1")
	if err != nil {
		t.Fatalf("RecordVisit error: %v", err)
	}
	if first.PointsEarned != 100 || first.VisitNumber != 1 {
		t.Fatalf("unexpected visit result: %+v", first)
	}

	replay, err := svc.RecordVisit(ctx, businessID, req, "visit-key-1")
	if err != nil {
		t.Fatalf("RecordVisit replay error: %v", err)
	}
	if replay.VisitID != first.VisitID {
		t.Fatalf("expected replayed response, got %+v vs %+v", replay, first)
	}
	if len(f.visits.items) != 1 {
		t.Fatalf("expected a single stored visit, got %d", len(f.visits.items))
	}

	updated, err := f.customers.GetByID(ctx, businessID, seeded.CustomerID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if updated.LoyaltyPoints != 100 || updated.TotalVisits != 1 {
		t.Fatalf("expected counters applied once, got %+v", updated)
	}

	_, err = svc.RecordVisit(ctx, businessID, application.RecordVisitRequest{
		CustomerID: seeded.CustomerID.String(), Amount: 50,
	}, "visit-key-1")
	if !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict on payload mismatch, got %v", err)
	}
}

func TestRedeemVisitToken_ConsumedOnFirstUse(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seeded := seedCustomer(t, f, businessID, "0821234567", 0, 0)

	issued, err := svc.IssueVisitToken(ctx, businessID)
	if err != nil {
		t.Fatalf("IssueVisitToken error: %v", err)
	}

	visit, err := svc.RedeemVisitToken(ctx, application.RedeemVisitTokenRequest{
		Token: issued.Token, CustomerID: seeded.CustomerID.String(),
	}, "")
	if err != nil {
		t.Fatalf("RedeemVisitToken error: %v", err)
	}
	if visit.Source != string(domain.VisitSourceQR) {
		t.Fatalf("expected qr visit source, got %q", visit.Source)
	}

	_, err = svc.RedeemVisitToken(ctx, application.RedeemVisitTokenRequest{
		Token: issued.Token, CustomerID: seeded.CustomerID.String(),
	}, "")
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected consumed token to be rejected, got %v", err)
	}
}

func TestRedeemReward_DeductsPointsAndIssuesCoupon(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seeded := seedCustomer(t, f, businessID, "0821234567", 250, 0)

	if _, err := svc.UpsertProgram(ctx, businessID, application.UpsertProgramRequest{
		Name: "Coffee Club", Type: "points", PointsPerAmount: 1,
	}); err != nil {
		t.Fatalf("UpsertProgram error: %v", err)
	}
	reward, err := svc.AddReward(ctx, businessID, application.CreateRewardRequest{
		Name: "Free Coffee", PointsCost: intPtr(100),
	})
	if err != nil {
		t.Fatalf("AddReward error: %v", err)
	}

	resp, err := svc.RedeemReward(ctx, businessID, uuid.MustParse(reward.RewardID), application.RedeemRewardRequest{
		CustomerID: seeded.CustomerID.String(),
	}, "redeem-key-1")
	if err != nil {
		t.Fatalf("RedeemReward error: %v", err)
	}
	if resp.Customer.LoyaltyPoints != 150 {
		t.Fatalf("expected 150 points after deduction, got %d", resp.Customer.LoyaltyPoints)
	}
	if resp.Coupon.Status != string(domain.CouponStatusActive) || resp.Coupon.Code == "" {
		t.Fatalf("expected an active coupon, got %+v", resp.Coupon)
	}
	if !hasEvent(f, "reward.redeemed") {
		t.Fatalf("expected reward.redeemed event, got %v", f.outbox.eventTypes())
	}

	expensive, err := svc.AddReward(ctx, businessID, application.CreateRewardRequest{
		Name: "Free Meal", PointsCost: intPtr(500),
	})
	if err != nil {
		t.Fatalf("AddReward error: %v", err)
	}
	_, err = svc.RedeemReward(ctx, businessID, uuid.MustParse(expensive.RewardID), application.RedeemRewardRequest{
		CustomerID: seeded.CustomerID.String(),
	}, "redeem-key-2")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected insufficient points conflict, got %v", err)
	}
}

func TestRedeemCoupon_RejectsReplayAndExpiry(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seeded := seedCustomer(t, f, businessID, "0821234567", 0, 0)

	coupon, err := svc.IssueCoupon(ctx, businessID, application.IssueCouponRequest{
		CustomerID: seeded.CustomerID.String(), DiscountType: "percentage", DiscountValue: 10,
	}, "")
	if err != nil {
		t.Fatalf("IssueCoupon error: %v", err)
	}

	if _, err := svc.RedeemCoupon(ctx, businessID, application.RedeemCouponRequest{Code: coupon.Code}); err != nil {
		t.Fatalf("RedeemCoupon error: %v", err)
	}
	_, err = svc.RedeemCoupon(ctx, businessID, application.RedeemCouponRequest{Code: coupon.Code})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected already-redeemed conflict, got %v", err)
	}

	past := time.Now().UTC().Add(-time.Hour)
	expired, err := f.coupons.Create(ctx, ports.CreateCouponParams{
		BusinessID: businessID, CustomerID: seeded.CustomerID,
		Code: "OLD-CODE-0001", DiscountType: "flat", DiscountValue: 5,
		ExpiresAt: &past, CreatedAt: past.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("seed expired coupon: %v", err)
	}
	_, err = svc.RedeemCoupon(ctx, businessID, application.RedeemCouponRequest{Code: expired.Code})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected expired coupon conflict, got %v", err)
	}
}

func TestHandleUserRegistered_LinksByPhoneOnce(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	seeded := seedCustomer(t, f, businessID, "082 123 4567", 0, 0)
	userID := uuid.New()

	payload, _ := json.Marshal(map[string]string{
		"event_id":    "evt-reg-1",
		"user_id":     userID.String(),
		"phone":       "27821234567",
		"business_id": businessID.String(),
	})
	if err := svc.HandleUserRegistered(ctx, payload); err != nil {
		t.Fatalf("HandleUserRegistered error: %v", err)
	}

	linked, err := f.customers.GetByID(ctx, businessID, seeded.CustomerID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if linked.UserID == nil || *linked.UserID != userID {
		t.Fatalf("expected customer linked to %s, got %+v", userID, linked.UserID)
	}

	if err := svc.HandleUserRegistered(ctx, payload); err != nil {
		t.Fatalf("expected duplicate delivery to be ignored, got %v", err)
	}

	if err := svc.HandleUserRegistered(ctx, []byte("{not json")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected malformed payload error, got %v", err)
	}
}

func TestHandlePaymentFailed_MarksSubscriptionPastDue(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	businessID := uuid.New()
	f.billing.plans = []domain.BillingPlan{{PlanID: "starter", Name: "Starter", PriceMonthly: 29}}

	if _, err := svc.Subscribe(ctx, businessID, application.SubscribeRequest{PlanID: "starter"}, ""); err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}

	payload, _ := json.Marshal(map[string]string{
		"event_id":    "evt-pay-1",
		"business_id": businessID.String(),
		"reason":      "card_declined",
	})
	if err := svc.HandlePaymentFailed(ctx, payload); err != nil {
		t.Fatalf("HandlePaymentFailed error: %v", err)
	}

	sub, err := svc.GetSubscription(ctx, businessID)
	if err != nil {
		t.Fatalf("GetSubscription error: %v", err)
	}
	if sub.Status != string(domain.SubscriptionStatusPastDue) {
		t.Fatalf("expected past_due subscription, got %q", sub.Status)
	}

	orphan, _ := json.Marshal(map[string]string{
		"event_id":    "evt-pay-2",
		"business_id": uuid.NewString(),
	})
	if err := svc.HandlePaymentFailed(ctx, orphan); err != nil {
		t.Fatalf("expected missing subscription to be ignored, got %v", err)
	}
}

func TestListPlans_ServedFromCacheAfterFirstLoad(t *testing.T) {
	svc, f := newTestService()
	ctx := context.Background()
	f.billing.plans = []domain.BillingPlan{
		{PlanID: "free", Name: "Free"},
		{PlanID: "starter", Name: "Starter", PriceMonthly: 29},
	}

	first, err := svc.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans error: %v", err)
	}
	second, err := svc.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans error: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("unexpected plan counts: %d / %d", len(first), len(second))
	}
	if f.billing.listCalls != 1 {
		t.Fatalf("expected the second read to come from cache, got %d store reads", f.billing.listCalls)
	}
}

func TestListMyPrograms_SpansBusinesses(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	for _, name := range []string{"Bean There", "Chop Shop"} {
		biz, err := svc.RegisterBusiness(ctx, uuid.New(), application.RegisterBusinessRequest{Name: name})
		if err != nil {
			t.Fatalf("RegisterBusiness error: %v", err)
		}
		businessID := uuid.MustParse(biz.BusinessID)
		if _, err := svc.UpsertProgram(ctx, businessID, application.UpsertProgramRequest{
			Name: name + " Rewards", Type: "visits", VisitsRequired: 10,
		}); err != nil {
			t.Fatalf("UpsertProgram error: %v", err)
		}
		if _, err := svc.CreateCustomer(ctx, businessID, application.CreateCustomerRequest{
			FirstName: "Thandi", Phone: "0821234567", UserID: userID.String(),
		}); err != nil {
			t.Fatalf("CreateCustomer error: %v", err)
		}
	}

	programs, err := svc.ListMyPrograms(ctx, userID)
	if err != nil {
		t.Fatalf("ListMyPrograms error: %v", err)
	}
	if len(programs) != 2 {
		t.Fatalf("expected enrollment across both businesses, got %d", len(programs))
	}
}
