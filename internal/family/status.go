package family

import (
	"github.com/dugsihub/dugsi/internal/model"
	"github.com/dugsihub/dugsi/internal/pricing"
)

// FamilyStatus is the derived status of a whole family.
type FamilyStatus string

const (
	StatusActive    FamilyStatus = "active"
	StatusPaused    FamilyStatus = "paused"
	StatusChurned   FamilyStatus = "churned"
	StatusInactive  FamilyStatus = "inactive"
	StatusNoPayment FamilyStatus = "no-payment"
)

// Status classifies a family. The checks run in priority order and the first
// match wins: active > paused > churned > inactive > no-payment.
func Status(f model.Family) FamilyStatus {
	if f.HasSubscription {
		return StatusActive
	}
	for _, m := range f.Members {
		if m.Status.Active() && m.SubscriptionStatus != nil && *m.SubscriptionStatus == model.SubPaused {
			return StatusPaused
		}
	}
	if f.HasChurned {
		return StatusChurned
	}
	allWithdrawn := len(f.Members) > 0
	for _, m := range f.Members {
		if m.Status != model.LifecycleWithdrawn {
			allWithdrawn = false
			break
		}
	}
	if allWithdrawn {
		return StatusInactive
	}
	return StatusNoPayment
}

// BillingStatus compares a member's actual subscription amount to the tiered
// expected amount for the family size.
type BillingStatus string

const (
	BillingNoSubscription BillingStatus = "no-subscription"
	BillingMatch          BillingStatus = "match"
	BillingOverpaying     BillingStatus = "overpaying"
	BillingUnderpaying    BillingStatus = "underpaying"
)

// BillingResult is the outcome of a billing classification for one member.
// Actual and Difference are nil when there is no subscription amount.
type BillingResult struct {
	Status     BillingStatus `json:"status"`
	Actual     *int64        `json:"actual"`
	Expected   int64         `json:"expected"`
	Difference *int64        `json:"difference"`
}

// Billing classifies one member's subscription amount against the expected
// tiered rate for familyChildCount children (clamped to at least 1). A nil or
// zero amount is a valid input and yields BillingNoSubscription.
func Billing(subscriptionAmount *int64, familyChildCount int) BillingResult {
	if familyChildCount < 1 {
		familyChildCount = 1
	}
	expected := pricing.MonthlyRate(familyChildCount)

	if subscriptionAmount == nil || *subscriptionAmount == 0 {
		return BillingResult{Status: BillingNoSubscription, Expected: expected}
	}

	actual := *subscriptionAmount
	diff := actual - expected
	res := BillingResult{Actual: &actual, Expected: expected, Difference: &diff}
	switch {
	case diff == 0:
		res.Status = BillingMatch
	case diff > 0:
		res.Status = BillingOverpaying
	default:
		res.Status = BillingUnderpaying
	}
	return res
}

// HasBillingMismatch reports whether any member of the family is paying more
// or less than the expected tiered rate.
func HasBillingMismatch(f model.Family) bool {
	for _, m := range f.Members {
		switch Billing(m.SubscriptionAmount, len(f.Members)).Status {
		case BillingOverpaying, BillingUnderpaying:
			return true
		}
	}
	return false
}
