package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
)

type CreateCustomerParams struct {
	BusinessID      uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	PhoneNormalized string
	ProgramID       *uuid.UUID
	UserID          *uuid.UUID
	CreatedAt       time.Time
}

type UpdateCustomerParams struct {
	CustomerID      uuid.UUID
	BusinessID      uuid.UUID
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	PhoneNormalized *string
	UpdatedAt       time.Time
}

// ApplyVisitParams carries the counter deltas a recorded visit applies to a
// customer row in one update.
type ApplyVisitParams struct {
	CustomerID  uuid.UUID
	BusinessID  uuid.UUID
	PointsDelta int
	VisitsDelta int
	SpentDelta  float64
	UpdatedAt   time.Time
}

type CustomerRepository interface {
	Create(ctx context.Context, params CreateCustomerParams) (domain.Customer, error)
	GetByID(ctx context.Context, businessID, customerID uuid.UUID) (domain.Customer, error)
	// FindByPhone matches the stored phone exactly as entered, or the stored
	// normalized form, against a single candidate string.
	FindByPhone(ctx context.Context, businessID uuid.UUID, candidate, normalizedCandidate string) (domain.Customer, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]domain.Customer, error)
	Update(ctx context.Context, params UpdateCustomerParams) (domain.Customer, error)
	ApplyVisit(ctx context.Context, params ApplyVisitParams) (domain.Customer, error)
	AdjustPoints(ctx context.Context, businessID, customerID uuid.UUID, delta int, at time.Time) (domain.Customer, error)
	LinkUser(ctx context.Context, businessID, customerID, userID uuid.UUID, at time.Time) error
}

type UpsertProgramParams struct {
	BusinessID      uuid.UUID
	Name            string
	Type            domain.ProgramType
	PointsPerAmount float64
	AmountPerPoint  float64
	VisitsRequired  int
	Tiers           []domain.Tier
	Active          bool
	Now             time.Time
}

type CreateRewardParams struct {
	ProgramID  uuid.UUID
	Name       string
	PointsCost *int
	VisitsCost *int
	Active     bool
	CreatedAt  time.Time
}

type UpdateRewardParams struct {
	RewardID   uuid.UUID
	ProgramID  uuid.UUID
	Name       *string
	PointsCost *int
	VisitsCost *int
	Active     *bool
	UpdatedAt  time.Time
}

type ProgramRepository interface {
	Upsert(ctx context.Context, params UpsertProgramParams) (domain.LoyaltyProgram, error)
	GetByBusiness(ctx context.Context, businessID uuid.UUID) (domain.LoyaltyProgram, error)
	GetByID(ctx context.Context, programID uuid.UUID) (domain.LoyaltyProgram, error)
}

type RewardRepository interface {
	Create(ctx context.Context, params CreateRewardParams) (domain.LoyaltyReward, error)
	Update(ctx context.Context, params UpdateRewardParams) (domain.LoyaltyReward, error)
	GetByID(ctx context.Context, programID, rewardID uuid.UUID) (domain.LoyaltyReward, error)
	ListByProgram(ctx context.Context, programID uuid.UUID) ([]domain.LoyaltyReward, error)
}

type MembershipRepository interface {
	Enroll(ctx context.Context, businessID, programID, customerID uuid.UUID, at time.Time) error
	ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID) ([]domain.ProgramMembership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ProgramMembership, error)
}

type CreateVisitParams struct {
	BusinessID   uuid.UUID
	CustomerID   uuid.UUID
	Amount       float64
	PointsEarned int
	VisitNumber  int
	Source       domain.VisitSource
	RecordedAt   time.Time
}

type VisitRepository interface {
	Create(ctx context.Context, params CreateVisitParams) (domain.Visit, error)
	ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID, limit int) ([]domain.Visit, error)
}

type CreateCouponParams struct {
	BusinessID    uuid.UUID
	CustomerID    uuid.UUID
	RewardID      *uuid.UUID
	Code          string
	Description   string
	DiscountType  string
	DiscountValue float64
	ExpiresAt     *time.Time
	CreatedAt     time.Time
}

type CouponRepository interface {
	Create(ctx context.Context, params CreateCouponParams) (domain.Coupon, error)
	GetByCode(ctx context.Context, businessID uuid.UUID, code string) (domain.Coupon, error)
	ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID) ([]domain.Coupon, error)
	CountActiveByCustomer(ctx context.Context, businessID, customerID uuid.UUID) (int64, error)
	MarkRedeemed(ctx context.Context, couponID uuid.UUID, at time.Time) error
}

type PutTemplateParams struct {
	TemplateID *uuid.UUID
	BusinessID uuid.UUID
	Name       string
	Channel    string
	Subject    string
	Body       string
	Now        time.Time
}

type TemplateRepository interface {
	Put(ctx context.Context, params PutTemplateParams) (domain.MessageTemplate, error)
	GetByID(ctx context.Context, businessID, templateID uuid.UUID) (domain.MessageTemplate, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.MessageTemplate, error)
	Delete(ctx context.Context, businessID, templateID uuid.UUID) error
}

type CreateBusinessParams struct {
	OwnerUserID uuid.UUID
	Name        string
	Email       string
	Phone       string
	CountryCode string
	CreatedAt   time.Time
}

type BusinessRepository interface {
	Create(ctx context.Context, params CreateBusinessParams) (domain.Business, error)
	GetByID(ctx context.Context, businessID uuid.UUID) (domain.Business, error)
}

type SubscribeParams struct {
	BusinessID  uuid.UUID
	PlanID      string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

type BillingRepository interface {
	ListPlans(ctx context.Context) ([]domain.BillingPlan, error)
	GetPlan(ctx context.Context, planID string) (domain.BillingPlan, error)
	UpsertSubscription(ctx context.Context, params SubscribeParams) (domain.Subscription, error)
	GetSubscription(ctx context.Context, businessID uuid.UUID) (domain.Subscription, error)
	SetSubscriptionStatus(ctx context.Context, businessID uuid.UUID, status domain.SubscriptionStatus, at time.Time) error
}

type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}

type EventDedupRepository interface {
	IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string, expiresAt time.Time) error
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}
