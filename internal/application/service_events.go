package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

// enqueueEvent writes an event into the transactional outbox. The outbox
// worker publishes it to the broker; a failed enqueue is logged but never
// fails the request that produced it.
func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal outbox event", "event_type", eventType, "error", err)
		return
	}
	err = s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      body,
		OccurredAt:   s.nowFn(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "enqueue outbox event", "event_type", eventType, "error", err)
	}
}

type userRegisteredEvent struct {
	EventID    string `json:"event_id"`
	UserID     string `json:"user_id"`
	Phone      string `json:"phone"`
	BusinessID string `json:"business_id"`
}

// HandleUserRegistered links a freshly registered platform account to any
// existing customer record carrying the same phone number. Lookup and
// linking failures are returned to the consumer so the message is retried;
// a genuinely unmatched phone is not an error.
func (s *Service) HandleUserRegistered(ctx context.Context, payload []byte) error {
	var event userRegisteredEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: malformed user.registered payload: %v", domain.ErrInvalidInput, err)
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user_id in user.registered", domain.ErrInvalidInput)
	}
	if event.Phone == "" {
		return nil
	}

	if event.EventID != "" {
		duplicate, err := s.eventDedup.IsDuplicate(ctx, event.EventID, s.nowFn())
		if err != nil {
			return err
		}
		if duplicate {
			return nil
		}
	}

	if event.BusinessID != "" {
		businessID, err := uuid.Parse(event.BusinessID)
		if err != nil {
			return fmt.Errorf("%w: invalid business_id in user.registered", domain.ErrInvalidInput)
		}
		if err := s.linkUserByPhone(ctx, businessID, userID, event.Phone); err != nil {
			return err
		}
	}

	if event.EventID != "" {
		return s.eventDedup.MarkProcessed(ctx, event.EventID, "user.registered", s.nowFn().Add(s.cfg.EventDedupTTL))
	}
	return nil
}

func (s *Service) linkUserByPhone(ctx context.Context, businessID, userID uuid.UUID, phone string) error {
	customer, _, err := s.resolveCustomerByPhone(ctx, businessID, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if customer.UserID != nil {
		return nil
	}
	if err := s.customers.LinkUser(ctx, businessID, customer.CustomerID, userID, s.nowFn()); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "linked customer to platform account",
		"business_id", businessID.String(),
		"customer_id", customer.CustomerID.String(),
		"user_id", userID.String(),
	)
	return nil
}

type paymentFailedEvent struct {
	EventID    string `json:"event_id"`
	BusinessID string `json:"business_id"`
	Reason     string `json:"reason"`
}

// HandlePaymentFailed flags the business subscription as past due. The
// business keeps operating; dunning and lockout are the billing
// provider's problem.
func (s *Service) HandlePaymentFailed(ctx context.Context, payload []byte) error {
	var event paymentFailedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: malformed billing.payment_failed payload: %v", domain.ErrInvalidInput, err)
	}
	businessID, err := uuid.Parse(event.BusinessID)
	if err != nil {
		return fmt.Errorf("%w: invalid business_id in billing.payment_failed", domain.ErrInvalidInput)
	}

	if event.EventID != "" {
		duplicate, err := s.eventDedup.IsDuplicate(ctx, event.EventID, s.nowFn())
		if err != nil {
			return err
		}
		if duplicate {
			return nil
		}
	}

	now := s.nowFn()
	if err := s.billing.SetSubscriptionStatus(ctx, businessID, domain.SubscriptionStatusPastDue, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	s.logger.WarnContext(ctx, "subscription marked past due",
		"business_id", businessID.String(),
		"reason", event.Reason,
	)
	s.enqueueEvent(ctx, "subscription.updated", businessID.String(), map[string]any{
		"business_id": businessID.String(),
		"status":      string(domain.SubscriptionStatusPastDue),
		"updated_at":  now,
	})

	if event.EventID != "" {
		return s.eventDedup.MarkProcessed(ctx, event.EventID, "billing.payment_failed", s.nowFn().Add(s.cfg.EventDedupTTL))
	}
	return nil
}
