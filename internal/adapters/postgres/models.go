package postgres

import (
	"time"

	"github.com/google/uuid"
)

type businessModel struct {
	BusinessID  uuid.UUID `gorm:"column:business_id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID uuid.UUID `gorm:"column:owner_user_id"`
	Name        string    `gorm:"column:name"`
	Email       string    `gorm:"column:email"`
	Phone       string    `gorm:"column:phone"`
	CountryCode string    `gorm:"column:country_code"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (businessModel) TableName() string { return "businesses" }

type customerModel struct {
	CustomerID       uuid.UUID  `gorm:"column:customer_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID       uuid.UUID  `gorm:"column:business_id"`
	FirstName        string     `gorm:"column:first_name"`
	LastName         string     `gorm:"column:last_name"`
	Email            string     `gorm:"column:email"`
	Phone            string     `gorm:"column:phone"`
	PhoneNormalized  string     `gorm:"column:phone_normalized"`
	LoyaltyProgramID *uuid.UUID `gorm:"column:loyalty_program_id"`
	LoyaltyPoints    int        `gorm:"column:loyalty_points"`
	TotalVisits      int        `gorm:"column:total_visits"`
	TotalSpent       float64    `gorm:"column:total_spent"`
	UserID           *uuid.UUID `gorm:"column:user_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (customerModel) TableName() string { return "customers" }

type loyaltyProgramModel struct {
	ProgramID       uuid.UUID `gorm:"column:program_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID      uuid.UUID `gorm:"column:business_id"`
	Name            string    `gorm:"column:name"`
	Type            string    `gorm:"column:type"`
	PointsPerAmount float64   `gorm:"column:points_per_amount"`
	AmountPerPoint  float64   `gorm:"column:amount_per_point"`
	VisitsRequired  int       `gorm:"column:visits_required"`
	Tiers           string    `gorm:"column:tiers"`
	Active          bool      `gorm:"column:active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (loyaltyProgramModel) TableName() string { return "loyalty_programs" }

type loyaltyRewardModel struct {
	RewardID   uuid.UUID `gorm:"column:reward_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProgramID  uuid.UUID `gorm:"column:program_id"`
	Name       string    `gorm:"column:name"`
	PointsCost *int      `gorm:"column:points_cost"`
	VisitsCost *int      `gorm:"column:visits_cost"`
	Active     bool      `gorm:"column:active"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (loyaltyRewardModel) TableName() string { return "loyalty_rewards" }

type programMembershipModel struct {
	MembershipID uuid.UUID `gorm:"column:membership_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID   uuid.UUID `gorm:"column:business_id"`
	ProgramID    uuid.UUID `gorm:"column:program_id"`
	CustomerID   uuid.UUID `gorm:"column:customer_id"`
	JoinedAt     time.Time `gorm:"column:joined_at"`
}

func (programMembershipModel) TableName() string { return "program_memberships" }

type visitModel struct {
	VisitID      uuid.UUID `gorm:"column:visit_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID   uuid.UUID `gorm:"column:business_id"`
	CustomerID   uuid.UUID `gorm:"column:customer_id"`
	Amount       float64   `gorm:"column:amount"`
	PointsEarned int       `gorm:"column:points_earned"`
	VisitNumber  int       `gorm:"column:visit_number"`
	Source       string    `gorm:"column:source"`
	RecordedAt   time.Time `gorm:"column:recorded_at"`
}

func (visitModel) TableName() string { return "visits" }

type couponModel struct {
	CouponID      uuid.UUID  `gorm:"column:coupon_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID    uuid.UUID  `gorm:"column:business_id"`
	CustomerID    uuid.UUID  `gorm:"column:customer_id"`
	RewardID      *uuid.UUID `gorm:"column:reward_id"`
	Code          string     `gorm:"column:code"`
	Description   string     `gorm:"column:description"`
	DiscountType  string     `gorm:"column:discount_type"`
	DiscountValue float64    `gorm:"column:discount_value"`
	Status        string     `gorm:"column:status"`
	ExpiresAt     *time.Time `gorm:"column:expires_at"`
	RedeemedAt    *time.Time `gorm:"column:redeemed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
}

func (couponModel) TableName() string { return "coupons" }

type messageTemplateModel struct {
	TemplateID uuid.UUID `gorm:"column:template_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID `gorm:"column:business_id"`
	Name       string    `gorm:"column:name"`
	Channel    string    `gorm:"column:channel"`
	Subject    string    `gorm:"column:subject"`
	Body       string    `gorm:"column:body"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (messageTemplateModel) TableName() string { return "message_templates" }

type billingPlanModel struct {
	PlanID        string  `gorm:"column:plan_id;primaryKey"`
	Name          string  `gorm:"column:name"`
	PriceMonthly  float64 `gorm:"column:price_monthly"`
	CustomerLimit int     `gorm:"column:customer_limit"`
	Features      string  `gorm:"column:features"`
}

func (billingPlanModel) TableName() string { return "billing_plans" }

type subscriptionModel struct {
	SubscriptionID     uuid.UUID  `gorm:"column:subscription_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID         uuid.UUID  `gorm:"column:business_id"`
	PlanID             string     `gorm:"column:plan_id"`
	Status             string     `gorm:"column:status"`
	CurrentPeriodStart time.Time  `gorm:"column:current_period_start"`
	CurrentPeriodEnd   time.Time  `gorm:"column:current_period_end"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (subscriptionModel) TableName() string { return "subscriptions" }

type loyaltyOutboxModel struct {
	OutboxID     uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	FirstSeenAt  time.Time  `gorm:"column:first_seen_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	RetryCount   int        `gorm:"column:retry_count"`
	LastError    *string    `gorm:"column:last_error"`
	LastErrorAt  *time.Time `gorm:"column:last_error_at"`
}

func (loyaltyOutboxModel) TableName() string { return "loyalty_outbox" }

type loyaltyIdempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Status         string    `gorm:"column:status"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (loyaltyIdempotencyModel) TableName() string { return "loyalty_idempotency" }

type loyaltyEventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	EventType   string    `gorm:"column:event_type"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (loyaltyEventDedupModel) TableName() string { return "loyalty_event_dedup" }
