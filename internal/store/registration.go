package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dugsihub/dugsi/internal/model"
)

type RegistrationStore struct {
	db *sql.DB
}

func NewRegistrationStore(db *sql.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

const registrationCols = `id, student_name, gender, date_of_birth, education_level, grade_level,
	school_name, health_info, shift, class_id,
	parent1_first_name, parent1_last_name, parent1_email, parent1_phone,
	parent2_first_name, parent2_last_name, parent2_email, parent2_phone,
	payment_captured, payment_captured_at,
	stripe_customer_id, stripe_subscription_id, payment_intent_id,
	subscription_status, subscription_amount, period_start, period_end,
	family_reference_id, account_type, primary_payer, status,
	created_at, updated_at`

func scanRegistration(scanner interface{ Scan(...any) error }) (*model.Registration, error) {
	var r model.Registration
	var dob, capturedAt, periodStart, periodEnd sql.NullTime
	var healthInfo, custID, subID, intentID, subStatus, famRef sql.NullString
	var p2First, p2Last, p2Email, p2Phone sql.NullString
	var classID, subAmount sql.NullInt64
	var primaryPayer sql.NullInt64
	var captured int

	err := scanner.Scan(
		&r.ID, &r.StudentName, &r.Gender, &dob, &r.EducationLevel, &r.GradeLevel,
		&r.SchoolName, &healthInfo, &r.Shift, &classID,
		&r.Parent1.FirstName, &r.Parent1.LastName, &r.Parent1.Email, &r.Parent1.Phone,
		&p2First, &p2Last, &p2Email, &p2Phone,
		&captured, &capturedAt,
		&custID, &subID, &intentID,
		&subStatus, &subAmount, &periodStart, &periodEnd,
		&famRef, &r.AccountType, &primaryPayer, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.PaymentCaptured = captured != 0
	if dob.Valid {
		r.DateOfBirth = &dob.Time
	}
	if capturedAt.Valid {
		r.PaymentCapturedAt = &capturedAt.Time
	}
	if periodStart.Valid {
		r.PeriodStart = &periodStart.Time
	}
	if periodEnd.Valid {
		r.PeriodEnd = &periodEnd.Time
	}
	if healthInfo.Valid {
		r.HealthInfo = &healthInfo.String
	}
	if custID.Valid {
		r.StripeCustomerID = &custID.String
	}
	if subID.Valid {
		r.StripeSubscriptionID = &subID.String
	}
	if intentID.Valid {
		r.PaymentIntentID = &intentID.String
	}
	if subStatus.Valid {
		status := model.SubscriptionStatus(subStatus.String)
		r.SubscriptionStatus = &status
	}
	if famRef.Valid {
		r.FamilyReferenceID = &famRef.String
	}
	if classID.Valid {
		r.ClassID = &classID.Int64
	}
	if subAmount.Valid {
		r.SubscriptionAmount = &subAmount.Int64
	}
	if primaryPayer.Valid {
		payer := int(primaryPayer.Int64)
		r.PrimaryPayer = &payer
	}
	if p2First.Valid || p2Last.Valid || p2Email.Valid || p2Phone.Valid {
		r.Parent2 = &model.ParentContact{
			FirstName: p2First.String,
			LastName:  p2Last.String,
			Email:     p2Email.String,
			Phone:     p2Phone.String,
		}
	}
	return &r, nil
}

// CreateParams carries the admin-editable fields of a new registration.
type CreateParams struct {
	StudentName       string
	Gender            string
	DateOfBirth       *time.Time
	EducationLevel    string
	GradeLevel        string
	SchoolName        string
	HealthInfo        *string
	Shift             string
	Parent1           model.ParentContact
	Parent2           *model.ParentContact
	FamilyReferenceID *string
	AccountType       string
	PrimaryPayer      *int
}

func (s *RegistrationStore) Create(p CreateParams) (*model.Registration, error) {
	id := uuid.NewString()
	if p.AccountType == "" {
		p.AccountType = "standard"
	}

	var p2First, p2Last, p2Email, p2Phone *string
	if p.Parent2 != nil {
		p2First, p2Last = &p.Parent2.FirstName, &p.Parent2.LastName
		p2Email, p2Phone = &p.Parent2.Email, &p.Parent2.Phone
	}

	_, err := s.db.Exec(
		`INSERT INTO registrations (
			id, student_name, gender, date_of_birth, education_level, grade_level,
			school_name, health_info, shift,
			parent1_first_name, parent1_last_name, parent1_email, parent1_phone,
			parent2_first_name, parent2_last_name, parent2_email, parent2_phone,
			family_reference_id, account_type, primary_payer, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.StudentName, p.Gender, p.DateOfBirth, p.EducationLevel, p.GradeLevel,
		p.SchoolName, p.HealthInfo, p.Shift,
		p.Parent1.FirstName, p.Parent1.LastName, p.Parent1.Email, p.Parent1.Phone,
		p2First, p2Last, p2Email, p2Phone,
		p.FamilyReferenceID, p.AccountType, p.PrimaryPayer, model.LifecycleRegistered,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return s.GetByID(id)
}

func (s *RegistrationStore) GetByID(id string) (*model.Registration, error) {
	row := s.db.QueryRow(`SELECT `+registrationCols+` FROM registrations WHERE id = ?`, id)
	r, err := scanRegistration(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return r, nil
}

// List returns all registrations oldest-first, the order the family
// aggregator expects.
func (s *RegistrationStore) List() ([]model.Registration, error) {
	rows, err := s.db.Query(`SELECT ` + registrationCols + ` FROM registrations ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *r)
	}
	return regs, rows.Err()
}

func (s *RegistrationStore) Update(id string, p CreateParams) (*model.Registration, error) {
	var p2First, p2Last, p2Email, p2Phone *string
	if p.Parent2 != nil {
		p2First, p2Last = &p.Parent2.FirstName, &p.Parent2.LastName
		p2Email, p2Phone = &p.Parent2.Email, &p.Parent2.Phone
	}

	_, err := s.db.Exec(
		`UPDATE registrations SET
			student_name = ?, gender = ?, date_of_birth = ?, education_level = ?, grade_level = ?,
			school_name = ?, health_info = ?, shift = ?,
			parent1_first_name = ?, parent1_last_name = ?, parent1_email = ?, parent1_phone = ?,
			parent2_first_name = ?, parent2_last_name = ?, parent2_email = ?, parent2_phone = ?,
			family_reference_id = ?, account_type = ?, primary_payer = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.StudentName, p.Gender, p.DateOfBirth, p.EducationLevel, p.GradeLevel,
		p.SchoolName, p.HealthInfo, p.Shift,
		p.Parent1.FirstName, p.Parent1.LastName, p.Parent1.Email, p.Parent1.Phone,
		p2First, p2Last, p2Email, p2Phone,
		p.FamilyReferenceID, p.AccountType, p.PrimaryPayer,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return s.GetByID(id)
}

func (s *RegistrationStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM registrations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// SetLifecycle moves a registration between enrollment states. Withdrawal and
// re-enrollment both go through here.
func (s *RegistrationStore) SetLifecycle(id string, status model.Lifecycle) error {
	_, err := s.db.Exec(
		`UPDATE registrations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("set lifecycle: %w", err)
	}
	return nil
}

func (s *RegistrationStore) AssignClass(id string, classID *int64) error {
	_, err := s.db.Exec(
		`UPDATE registrations SET class_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		classID, id,
	)
	if err != nil {
		return fmt.Errorf("assign class: %w", err)
	}
	return nil
}

func (s *RegistrationStore) GetBySubscriptionID(subID string) (*model.Registration, error) {
	row := s.db.QueryRow(`SELECT `+registrationCols+` FROM registrations WHERE stripe_subscription_id = ?`, subID)
	r, err := scanRegistration(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get registration by subscription: %w", err)
	}
	return r, nil
}

// BillingUpdate is the slice of registration fields the Stripe webhook
// handler keeps in sync.
type BillingUpdate struct {
	StripeCustomerID     *string
	StripeSubscriptionID *string
	PaymentIntentID      *string
	SubscriptionStatus   *model.SubscriptionStatus
	SubscriptionAmount   *int64
	PeriodStart          *time.Time
	PeriodEnd            *time.Time
}

// ApplyBillingBySubscription updates billing fields on every registration
// carrying the given Stripe subscription id and returns how many rows
// changed. Nil fields keep their stored value, so a status-only event never
// wipes amounts or period bounds.
func (s *RegistrationStore) ApplyBillingBySubscription(subID string, u BillingUpdate) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE registrations SET
			stripe_customer_id = COALESCE(?, stripe_customer_id),
			payment_intent_id = COALESCE(?, payment_intent_id),
			subscription_status = COALESCE(?, subscription_status),
			subscription_amount = COALESCE(?, subscription_amount),
			period_start = COALESCE(?, period_start),
			period_end = COALESCE(?, period_end),
			updated_at = CURRENT_TIMESTAMP
		WHERE stripe_subscription_id = ?`,
		u.StripeCustomerID, u.PaymentIntentID,
		u.SubscriptionStatus, u.SubscriptionAmount, u.PeriodStart, u.PeriodEnd,
		subID,
	)
	if err != nil {
		return 0, fmt.Errorf("apply billing by subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// AttachSubscriptionByEmail links a new subscription to every registration
// whose parent 1 email matches, used when a checkout completes before the
// admin has recorded any Stripe identifiers.
func (s *RegistrationStore) AttachSubscriptionByEmail(email string, custID, subID string) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE registrations SET
			stripe_customer_id = ?,
			stripe_subscription_id = ?,
			payment_captured = 1,
			payment_captured_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE lower(parent1_email) = lower(?)`,
		custID, subID, email,
	)
	if err != nil {
		return 0, fmt.Errorf("attach subscription by email: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
