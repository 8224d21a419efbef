package model

import "time"

// Lifecycle is a registration's enrollment lifecycle state.
type Lifecycle string

const (
	LifecycleEnrolled   Lifecycle = "ENROLLED"
	LifecycleRegistered Lifecycle = "REGISTERED"
	LifecycleWithdrawn  Lifecycle = "WITHDRAWN"
)

// Active reports whether the lifecycle state counts as an active member.
func (l Lifecycle) Active() bool {
	return l == LifecycleEnrolled || l == LifecycleRegistered
}

// SubscriptionStatus mirrors the payment processor's subscription states.
type SubscriptionStatus string

const (
	SubIncomplete        SubscriptionStatus = "incomplete"
	SubIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubTrialing          SubscriptionStatus = "trialing"
	SubActive            SubscriptionStatus = "active"
	SubPastDue           SubscriptionStatus = "past_due"
	SubCanceled          SubscriptionStatus = "canceled"
	SubUnpaid            SubscriptionStatus = "unpaid"
	SubPaused            SubscriptionStatus = "paused"
)

// ParentContact is one parent's contact block embedded in a registration.
type ParentContact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Registration is one child's enrollment record. Billing fields are kept
// current by the Stripe webhook handler; everything else is edited by admins.
type Registration struct {
	ID             string     `json:"id"`
	StudentName    string     `json:"student_name"`
	Gender         string     `json:"gender"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	EducationLevel string     `json:"education_level"`
	GradeLevel     string     `json:"grade_level"`
	SchoolName     string     `json:"school_name"`
	HealthInfo     *string    `json:"health_info"`
	Shift          string     `json:"shift"`
	ClassID        *int64     `json:"class_id"`

	Parent1 ParentContact  `json:"parent1"`
	Parent2 *ParentContact `json:"parent2"`

	PaymentCaptured   bool       `json:"payment_captured"`
	PaymentCapturedAt *time.Time `json:"payment_captured_at"`

	StripeCustomerID     *string             `json:"stripe_customer_id"`
	StripeSubscriptionID *string             `json:"stripe_subscription_id"`
	PaymentIntentID      *string             `json:"payment_intent_id"`
	SubscriptionStatus   *SubscriptionStatus `json:"subscription_status"`
	SubscriptionAmount   *int64              `json:"subscription_amount"`
	PeriodStart          *time.Time          `json:"period_start"`
	PeriodEnd            *time.Time          `json:"period_end"`

	FamilyReferenceID *string   `json:"family_reference_id"`
	AccountType       string    `json:"account_type"`
	PrimaryPayer      *int      `json:"primary_payer"`
	Status            Lifecycle `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
