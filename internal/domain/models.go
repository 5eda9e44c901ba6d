package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProgramType string

const (
	ProgramTypePoints ProgramType = "points"
	ProgramTypeVisits ProgramType = "visits"
	ProgramTypeTiered ProgramType = "tiered"
)

type VisitSource string

const (
	VisitSourceManual VisitSource = "manual"
	VisitSourceQR     VisitSource = "qr"
)

type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusRedeemed CouponStatus = "redeemed"
	CouponStatusExpired  CouponStatus = "expired"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

type Business struct {
	BusinessID  uuid.UUID
	OwnerUserID uuid.UUID
	Name        string
	Email       string
	Phone       string
	CountryCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Customer struct {
	CustomerID       uuid.UUID
	BusinessID       uuid.UUID
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	PhoneNormalized  string
	LoyaltyProgramID *uuid.UUID
	LoyaltyPoints    int
	TotalVisits      int
	TotalSpent       float64
	UserID           *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Tier struct {
	Name       string   `json:"name"`
	Threshold  int      `json:"threshold"`
	Multiplier float64  `json:"multiplier"`
	Benefits   []string `json:"benefits,omitempty"`
}

type LoyaltyProgram struct {
	ProgramID       uuid.UUID
	BusinessID      uuid.UUID
	Name            string
	Type            ProgramType
	PointsPerAmount float64
	AmountPerPoint  float64
	VisitsRequired  int
	Tiers           []Tier
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type LoyaltyReward struct {
	RewardID   uuid.UUID
	ProgramID  uuid.UUID
	Name       string
	PointsCost *int
	VisitsCost *int
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ProgramMembership struct {
	MembershipID uuid.UUID
	BusinessID   uuid.UUID
	ProgramID    uuid.UUID
	CustomerID   uuid.UUID
	JoinedAt     time.Time
}

type Visit struct {
	VisitID      uuid.UUID
	BusinessID   uuid.UUID
	CustomerID   uuid.UUID
	Amount       float64
	PointsEarned int
	VisitNumber  int
	Source       VisitSource
	RecordedAt   time.Time
}

type Coupon struct {
	CouponID      uuid.UUID
	BusinessID    uuid.UUID
	CustomerID    uuid.UUID
	RewardID      *uuid.UUID
	Code          string
	Description   string
	DiscountType  string
	DiscountValue float64
	Status        CouponStatus
	ExpiresAt     *time.Time
	RedeemedAt    *time.Time
	CreatedAt     time.Time
}

type MessageTemplate struct {
	TemplateID uuid.UUID
	BusinessID uuid.UUID
	Name       string
	Channel    string
	Subject    string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type BillingPlan struct {
	PlanID        string
	Name          string
	PriceMonthly  float64
	CustomerLimit int
	Features      []string
}

type Subscription struct {
	SubscriptionID     uuid.UUID
	BusinessID         uuid.UUID
	PlanID             string
	Status             SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProgressResult is derived on every read and never persisted.
type ProgressResult struct {
	VisitsOrPoints int     `json:"visits_or_points"`
	Progress       float64 `json:"progress"`
	NextRewardAt   int     `json:"next_reward_at"`
	NextRewardName string  `json:"next_reward_name,omitempty"`
}
