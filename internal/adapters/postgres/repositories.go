package postgres

import (
	"github.com/patronpoint/loyalty-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
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
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Businesses:  &businessRepository{db: db},
		Customers:   &customerRepository{db: db},
		Programs:    &programRepository{db: db},
		Rewards:     &rewardRepository{db: db},
		Memberships: &membershipRepository{db: db},
		Visits:      &visitRepository{db: db},
		Coupons:     &couponRepository{db: db},
		Templates:   &templateRepository{db: db},
		Billing:     &billingRepository{db: db},
		Outbox:      &outboxRepository{db: db},
		EventDedup:  &eventDedupRepository{db: db},
		Idempotency: &idempotencyRepository{db: db},
	}
}
