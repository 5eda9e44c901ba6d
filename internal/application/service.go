package application

import (
	"log/slog"
	"time"

	"github.com/patronpoint/loyalty-service/internal/ports"
)

type Service struct {
	cfg         Config
	logger      *slog.Logger
	businesses  ports.BusinessRepository
	customers   ports.CustomerRepository
	programs    ports.ProgramRepository
	rewards     ports.RewardRepository
	memberships ports.MembershipRepository
	visits      ports.VisitRepository
	coupons     ports.CouponRepository
	templates   ports.TemplateRepository
	billing     ports.BillingRepository
	outbox      ports.OutboxRepository
	eventDedup  ports.EventDedupRepository
	idempotency ports.IdempotencyRepository
	visitTokens ports.VisitTokenStore
	cache       ports.Cache
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Logger      *slog.Logger
	Businesses  ports.BusinessRepository
	Customers   ports.CustomerRepository
	Programs    ports.ProgramRepository
	Rewards     ports.RewardRepository
	Memberships ports.MembershipRepository
	Visits      ports.VisitRepository
	Coupons     ports.CouponRepository
	Templates   ports.TemplateRepository
	Billing     ports.BillingRepository
	Outbox      ports.OutboxRepository
	EventDedup  ports.EventDedupRepository
	Idempotency ports.IdempotencyRepository
	VisitTokens ports.VisitTokenStore
	Cache       ports.Cache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "Loyalty-Service"
	}
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "27"
	}
	if cfg.VisitTokenTTL <= 0 {
		cfg.VisitTokenTTL = 5 * time.Minute
	}
	if cfg.CouponValidity <= 0 {
		cfg.CouponValidity = 30 * 24 * time.Hour
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.EventDedupTTL <= 0 {
		cfg.EventDedupTTL = 7 * 24 * time.Hour
	}
	if cfg.PhoneSearchScanLimit <= 0 {
		cfg.PhoneSearchScanLimit = 5000
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:         cfg,
		logger:      logger,
		businesses:  deps.Businesses,
		customers:   deps.Customers,
		programs:    deps.Programs,
		rewards:     deps.Rewards,
		memberships: deps.Memberships,
		visits:      deps.Visits,
		coupons:     deps.Coupons,
		templates:   deps.Templates,
		billing:     deps.Billing,
		outbox:      deps.Outbox,
		eventDedup:  deps.EventDedup,
		idempotency: deps.Idempotency,
		visitTokens: deps.VisitTokens,
		cache:       deps.Cache,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}
