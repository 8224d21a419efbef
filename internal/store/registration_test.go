package store

import (
	"testing"
	"time"

	"github.com/dugsihub/dugsi/internal/database"
	"github.com/dugsihub/dugsi/internal/model"
)

func setupTestDB(t *testing.T) *RegistrationStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRegistrationStore(db)
}

func testParams(name, email string) CreateParams {
	return CreateParams{
		StudentName: name,
		Gender:      "F",
		GradeLevel:  "3",
		SchoolName:  "Northgate Elementary",
		Shift:       "morning",
		Parent1: model.ParentContact{
			FirstName: "Amina", LastName: "Warsame",
			Email: email, Phone: "206-555-0100",
		},
	}
}

func TestRegistrationCreateAndGet(t *testing.T) {
	rs := setupTestDB(t)

	created, err := rs.Create(testParams("Sagal", "amina@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Status != model.LifecycleRegistered {
		t.Errorf("status = %q, want REGISTERED", created.Status)
	}
	if created.Parent2 != nil {
		t.Error("parent2 should be nil when not provided")
	}
	if created.SubscriptionStatus != nil || created.SubscriptionAmount != nil {
		t.Error("billing fields should start empty")
	}

	got, err := rs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.StudentName != "Sagal" {
		t.Fatalf("got %+v", got)
	}
}

func TestRegistrationGetByIDNotFound(t *testing.T) {
	rs := setupTestDB(t)
	got, err := rs.GetByID("missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing registration")
	}
}

func TestRegistrationParentTwoRoundTrip(t *testing.T) {
	rs := setupTestDB(t)

	p := testParams("Khalid", "amina@example.com")
	p.Parent2 = &model.ParentContact{
		FirstName: "Omar", LastName: "Warsame",
		Email: "omar@example.com", Phone: "206-555-0111",
	}
	created, err := rs.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Parent2 == nil {
		t.Fatal("parent2 missing after round trip")
	}
	if created.Parent2.Email != "omar@example.com" {
		t.Errorf("parent2 email = %q", created.Parent2.Email)
	}
}

func TestRegistrationListOldestFirst(t *testing.T) {
	rs := setupTestDB(t)

	first, err := rs.Create(testParams("First", "a@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Push the second row's created_at forward so ordering is deterministic.
	second, err := rs.Create(testParams("Second", "b@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := rs.db.Exec(
		`UPDATE registrations SET created_at = ? WHERE id = ?`,
		time.Now().Add(time.Hour), second.ID,
	); err != nil {
		t.Fatalf("bump created_at: %v", err)
	}

	regs, err := rs.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("got %d registrations, want 2", len(regs))
	}
	if regs[0].ID != first.ID {
		t.Errorf("first listed = %q, want %q", regs[0].ID, first.ID)
	}
}

func TestRegistrationLifecycle(t *testing.T) {
	rs := setupTestDB(t)

	created, err := rs.Create(testParams("Sagal", "amina@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := rs.SetLifecycle(created.ID, model.LifecycleWithdrawn); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	got, _ := rs.GetByID(created.ID)
	if got.Status != model.LifecycleWithdrawn {
		t.Errorf("status = %q, want WITHDRAWN", got.Status)
	}

	if err := rs.SetLifecycle(created.ID, model.LifecycleEnrolled); err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	got, _ = rs.GetByID(created.ID)
	if got.Status != model.LifecycleEnrolled {
		t.Errorf("status = %q, want ENROLLED", got.Status)
	}
}

func TestRegistrationBillingSync(t *testing.T) {
	rs := setupTestDB(t)

	created, err := rs.Create(testParams("Sagal", "amina@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Checkout completion links the subscription by parent email.
	n, err := rs.AttachSubscriptionByEmail("AMINA@example.com", "cus_123", "sub_123")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if n != 1 {
		t.Fatalf("attached %d rows, want 1", n)
	}

	got, _ := rs.GetByID(created.ID)
	if got.StripeSubscriptionID == nil || *got.StripeSubscriptionID != "sub_123" {
		t.Fatalf("subscription id = %v", got.StripeSubscriptionID)
	}
	if !got.PaymentCaptured || got.PaymentCapturedAt == nil {
		t.Error("payment capture flag not set")
	}

	// Subsequent subscription events update status, amount and period.
	status := model.SubActive
	amount := int64(16000)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	n, err = rs.ApplyBillingBySubscription("sub_123", BillingUpdate{
		SubscriptionStatus: &status,
		SubscriptionAmount: &amount,
		PeriodStart:        &start,
		PeriodEnd:          &end,
	})
	if err != nil {
		t.Fatalf("apply billing: %v", err)
	}
	if n != 1 {
		t.Fatalf("updated %d rows, want 1", n)
	}

	got, _ = rs.GetBySubscriptionID("sub_123")
	if got == nil {
		t.Fatal("lookup by subscription id failed")
	}
	if got.SubscriptionStatus == nil || *got.SubscriptionStatus != model.SubActive {
		t.Errorf("subscription status = %v", got.SubscriptionStatus)
	}
	if got.SubscriptionAmount == nil || *got.SubscriptionAmount != 16000 {
		t.Errorf("subscription amount = %v", got.SubscriptionAmount)
	}

	// A status-only event (cancellation) must not wipe the stored amount.
	canceled := model.SubCanceled
	if _, err := rs.ApplyBillingBySubscription("sub_123", BillingUpdate{
		SubscriptionStatus: &canceled,
	}); err != nil {
		t.Fatalf("apply cancel: %v", err)
	}
	got, _ = rs.GetBySubscriptionID("sub_123")
	if got.SubscriptionStatus == nil || *got.SubscriptionStatus != model.SubCanceled {
		t.Errorf("subscription status = %v", got.SubscriptionStatus)
	}
	if got.SubscriptionAmount == nil || *got.SubscriptionAmount != 16000 {
		t.Errorf("amount after cancel = %v, want preserved 16000", got.SubscriptionAmount)
	}
}

func TestRegistrationDelete(t *testing.T) {
	rs := setupTestDB(t)

	created, err := rs.Create(testParams("Sagal", "amina@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := rs.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := rs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted registration")
	}
}
