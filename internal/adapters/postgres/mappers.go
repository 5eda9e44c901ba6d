package postgres

import (
	"encoding/json"
	"strings"

	"github.com/patronpoint/loyalty-service/internal/domain"
)

func toDomainBusiness(m businessModel) domain.Business {
	return domain.Business{
		BusinessID: m.BusinessID, OwnerUserID: m.OwnerUserID, Name: m.Name, Email: m.Email,
		Phone: m.Phone, CountryCode: m.CountryCode, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainCustomer(m customerModel) domain.Customer {
	return domain.Customer{
		CustomerID: m.CustomerID, BusinessID: m.BusinessID, FirstName: m.FirstName, LastName: m.LastName,
		Email: m.Email, Phone: m.Phone, PhoneNormalized: m.PhoneNormalized,
		LoyaltyProgramID: m.LoyaltyProgramID, LoyaltyPoints: m.LoyaltyPoints,
		TotalVisits: m.TotalVisits, TotalSpent: m.TotalSpent, UserID: m.UserID,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainProgram(m loyaltyProgramModel) domain.LoyaltyProgram {
	var tiers []domain.Tier
	if m.Tiers != "" {
		_ = json.Unmarshal([]byte(m.Tiers), &tiers)
	}
	return domain.LoyaltyProgram{
		ProgramID: m.ProgramID, BusinessID: m.BusinessID, Name: m.Name,
		Type: domain.ProgramType(m.Type), PointsPerAmount: m.PointsPerAmount,
		AmountPerPoint: m.AmountPerPoint, VisitsRequired: m.VisitsRequired,
		Tiers: tiers, Active: m.Active, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func encodeTiers(tiers []domain.Tier) string {
	if len(tiers) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(tiers)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func toDomainReward(m loyaltyRewardModel) domain.LoyaltyReward {
	return domain.LoyaltyReward{
		RewardID: m.RewardID, ProgramID: m.ProgramID, Name: m.Name,
		PointsCost: m.PointsCost, VisitsCost: m.VisitsCost, Active: m.Active,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainMembership(m programMembershipModel) domain.ProgramMembership {
	return domain.ProgramMembership{
		MembershipID: m.MembershipID, BusinessID: m.BusinessID, ProgramID: m.ProgramID,
		CustomerID: m.CustomerID, JoinedAt: m.JoinedAt,
	}
}

func toDomainVisit(m visitModel) domain.Visit {
	return domain.Visit{
		VisitID: m.VisitID, BusinessID: m.BusinessID, CustomerID: m.CustomerID,
		Amount: m.Amount, PointsEarned: m.PointsEarned, VisitNumber: m.VisitNumber,
		Source: domain.VisitSource(m.Source), RecordedAt: m.RecordedAt,
	}
}

func toDomainCoupon(m couponModel) domain.Coupon {
	return domain.Coupon{
		CouponID: m.CouponID, BusinessID: m.BusinessID, CustomerID: m.CustomerID,
		RewardID: m.RewardID, Code: m.Code, Description: m.Description,
		DiscountType: m.DiscountType, DiscountValue: m.DiscountValue,
		Status: domain.CouponStatus(m.Status), ExpiresAt: m.ExpiresAt,
		RedeemedAt: m.RedeemedAt, CreatedAt: m.CreatedAt,
	}
}

func toDomainTemplate(m messageTemplateModel) domain.MessageTemplate {
	return domain.MessageTemplate{
		TemplateID: m.TemplateID, BusinessID: m.BusinessID, Name: m.Name, Channel: m.Channel,
		Subject: m.Subject, Body: m.Body, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainPlan(m billingPlanModel) domain.BillingPlan {
	var features []string
	if m.Features != "" {
		if err := json.Unmarshal([]byte(m.Features), &features); err != nil {
			features = strings.Split(m.Features, ",")
		}
	}
	return domain.BillingPlan{
		PlanID: m.PlanID, Name: m.Name, PriceMonthly: m.PriceMonthly,
		CustomerLimit: m.CustomerLimit, Features: features,
	}
}

func toDomainSubscription(m subscriptionModel) domain.Subscription {
	return domain.Subscription{
		SubscriptionID: m.SubscriptionID, BusinessID: m.BusinessID, PlanID: m.PlanID,
		Status: domain.SubscriptionStatus(m.Status), CurrentPeriodStart: m.CurrentPeriodStart,
		CurrentPeriodEnd: m.CurrentPeriodEnd, CancelledAt: m.CancelledAt,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}
