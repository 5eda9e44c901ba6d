package application

import (
	"time"

	"github.com/patronpoint/loyalty-service/internal/domain"
)

type Config struct {
	ServiceName          string
	DefaultCountryCode   string
	VisitTokenTTL        time.Duration
	CouponValidity       time.Duration
	IdempotencyTTL       time.Duration
	EventDedupTTL        time.Duration
	PhoneSearchScanLimit int
}

type RegisterBusinessRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

type BusinessResponse struct {
	BusinessID  string    `json:"business_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CountryCode string    `json:"country_code"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type MembershipView struct {
	ProgramID   string    `json:"program_id"`
	ProgramName string    `json:"program_name,omitempty"`
	ProgramType string    `json:"program_type,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

type CustomerResponse struct {
	CustomerID    string                 `json:"customer_id"`
	BusinessID    string                 `json:"business_id"`
	FirstName     string                 `json:"first_name"`
	LastName      string                 `json:"last_name,omitempty"`
	Email         string                 `json:"email,omitempty"`
	Phone         string                 `json:"phone,omitempty"`
	LoyaltyPoints int                    `json:"loyalty_points"`
	TotalVisits   int                    `json:"total_visits"`
	TotalSpent    float64                `json:"total_spent"`
	UserID        string                 `json:"user_id,omitempty"`
	CouponCount   int64                  `json:"coupon_count"`
	Memberships   []MembershipView       `json:"memberships,omitempty"`
	Progress      *domain.ProgressResult `json:"progress,omitempty"`
	MatchedBy     string                 `json:"matched_by,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type LinkCustomerRequest struct {
	UserID string `json:"user_id"`
}

type TierRequest struct {
	Name       string   `json:"name"`
	Threshold  int      `json:"threshold"`
	Multiplier float64  `json:"multiplier,omitempty"`
	Benefits   []string `json:"benefits,omitempty"`
}

type UpsertProgramRequest struct {
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	PointsPerAmount float64       `json:"points_per_amount,omitempty"`
	AmountPerPoint  float64       `json:"amount_per_point,omitempty"`
	VisitsRequired  int           `json:"visits_required,omitempty"`
	Tiers           []TierRequest `json:"tiers,omitempty"`
	Active          *bool         `json:"active,omitempty"`
}

type RewardView struct {
	RewardID   string `json:"reward_id"`
	Name       string `json:"name"`
	PointsCost *int   `json:"points_cost,omitempty"`
	VisitsCost *int   `json:"visits_cost,omitempty"`
	Active     bool   `json:"active"`
}

type ProgramResponse struct {
	ProgramID       string        `json:"program_id"`
	BusinessID      string        `json:"business_id"`
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	PointsPerAmount float64       `json:"points_per_amount,omitempty"`
	AmountPerPoint  float64       `json:"amount_per_point,omitempty"`
	VisitsRequired  int           `json:"visits_required,omitempty"`
	Tiers           []domain.Tier `json:"tiers,omitempty"`
	Rewards         []RewardView  `json:"rewards,omitempty"`
	Active          bool          `json:"active"`
}

type CreateRewardRequest struct {
	Name       string `json:"name"`
	PointsCost *int   `json:"points_cost,omitempty"`
	VisitsCost *int   `json:"visits_cost,omitempty"`
	Active     *bool  `json:"active,omitempty"`
}

type UpdateRewardRequest struct {
	Name       *string `json:"name,omitempty"`
	PointsCost *int    `json:"points_cost,omitempty"`
	VisitsCost *int    `json:"visits_cost,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

type RecordVisitRequest struct {
	CustomerID string  `json:"customer_id,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
}

type RedeemVisitTokenRequest struct {
	Token      string  `json:"token"`
	CustomerID string  `json:"customer_id,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
}

type VisitTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VisitResponse struct {
	VisitID      string                `json:"visit_id"`
	CustomerID   string                `json:"customer_id"`
	Amount       float64               `json:"amount,omitempty"`
	PointsEarned int                   `json:"points_earned"`
	VisitNumber  int                   `json:"visit_number"`
	Source       string                `json:"source"`
	RecordedAt   time.Time             `json:"recorded_at"`
	Progress     domain.ProgressResult `json:"progress"`
}

type IssueCouponRequest struct {
	CustomerID    string  `json:"customer_id"`
	Description   string  `json:"description,omitempty"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	ValidDays     int     `json:"valid_days,omitempty"`
}

type RedeemCouponRequest struct {
	Code string `json:"code"`
}

type CouponView struct {
	CouponID      string     `json:"coupon_id"`
	CustomerID    string     `json:"customer_id"`
	Code          string     `json:"code"`
	Description   string     `json:"description,omitempty"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue float64    `json:"discount_value"`
	Status        string     `json:"status"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	RedeemedAt    *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type RedeemRewardRequest struct {
	CustomerID string `json:"customer_id"`
}

type RedeemRewardResponse struct {
	Reward   RewardView            `json:"reward"`
	Coupon   CouponView            `json:"coupon"`
	Customer CustomerResponse      `json:"customer"`
	Progress domain.ProgressResult `json:"progress"`
}

type PutTemplateRequest struct {
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

type TemplateView struct {
	TemplateID string    `json:"template_id"`
	Name       string    `json:"name"`
	Channel    string    `json:"channel"`
	Subject    string    `json:"subject,omitempty"`
	Body       string    `json:"body"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RenderTemplateRequest struct {
	CustomerID string `json:"customer_id"`
}

type RenderedTemplateResponse struct {
	TemplateID string `json:"template_id"`
	Channel    string `json:"channel"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body"`
}

type PlanView struct {
	PlanID        string   `json:"plan_id"`
	Name          string   `json:"name"`
	PriceMonthly  float64  `json:"price_monthly"`
	CustomerLimit int      `json:"customer_limit,omitempty"`
	Features      []string `json:"features,omitempty"`
}

type SubscribeRequest struct {
	PlanID string `json:"plan_id"`
}

type SubscriptionView struct {
	SubscriptionID     string    `json:"subscription_id"`
	PlanID             string    `json:"plan_id"`
	Status             string    `json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
}

type MyProgramView struct {
	BusinessID  string                `json:"business_id"`
	ProgramID   string                `json:"program_id"`
	ProgramName string                `json:"program_name"`
	ProgramType string                `json:"program_type"`
	Progress    domain.ProgressResult `json:"progress"`
}
