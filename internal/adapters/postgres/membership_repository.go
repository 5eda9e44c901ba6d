package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/domain"
	"gorm.io/gorm"
)

type membershipRepository struct {
	db *gorm.DB
}

// Enroll is idempotent: the unique index on (program_id, customer_id)
// swallows repeat enrollments.
func (r *membershipRepository) Enroll(ctx context.Context, businessID, programID, customerID uuid.UUID, at time.Time) error {
	rec := programMembershipModel{
		BusinessID: businessID,
		ProgramID:  programID,
		CustomerID: customerID,
		JoinedAt:   at,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *membershipRepository) ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID) ([]domain.ProgramMembership, error) {
	var rows []programMembershipModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Order("joined_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ProgramMembership, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainMembership(row))
	}
	return out, nil
}

// ListByUser resolves memberships through the customers table so the
// customer-facing view covers every business where the account is linked.
func (r *membershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ProgramMembership, error) {
	var rows []programMembershipModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN customers ON customers.customer_id = program_memberships.customer_id").
		Where("customers.user_id = ?", userID).
		Order("program_memberships.joined_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ProgramMembership, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainMembership(row))
	}
	return out, nil
}
