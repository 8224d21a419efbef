package family

import (
	"testing"
	"time"

	"github.com/dugsihub/dugsi/internal/model"
)

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func subPtr(s model.SubscriptionStatus) *model.SubscriptionStatus { return &s }

func reg(id, email string, created time.Time) model.Registration {
	return model.Registration{
		ID:          id,
		StudentName: "Student " + id,
		Parent1:     model.ParentContact{FirstName: "Parent", LastName: id, Email: email, Phone: "206-555-0100"},
		Status:      model.LifecycleEnrolled,
		CreatedAt:   created,
	}
}

func TestGroupEmptyInput(t *testing.T) {
	families := Group(nil)
	if len(families) != 0 {
		t.Fatalf("expected 0 families, got %d", len(families))
	}
}

func TestGroupByParentEmail(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	regs := []model.Registration{
		reg("a", "warsame@example.com", base),
		reg("b", "warsame@example.com", base.Add(time.Hour)),
		reg("c", "hassan@example.com", base.Add(2*time.Hour)),
	}

	families := Group(regs)
	if len(families) != 2 {
		t.Fatalf("expected 2 families, got %d", len(families))
	}
	if families[0].FamilyKey != "warsame@example.com" {
		t.Errorf("family key = %q, want %q", families[0].FamilyKey, "warsame@example.com")
	}
	if len(families[0].Members) != 2 {
		t.Errorf("first family has %d members, want 2", len(families[0].Members))
	}
}

func TestGroupReferenceIDBeatsEmail(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := reg("a", "shared@example.com", base)
	a.FamilyReferenceID = strPtr("fam-001")
	b := reg("b", "shared@example.com", base.Add(time.Hour))

	families := Group([]model.Registration{a, b})
	// Reference id resolves per registration, so these split into two
	// families even though the emails match.
	if len(families) != 2 {
		t.Fatalf("expected 2 families, got %d", len(families))
	}
	if families[0].FamilyKey != "fam-001" {
		t.Errorf("first key = %q, want %q", families[0].FamilyKey, "fam-001")
	}
	if families[1].FamilyKey != "shared@example.com" {
		t.Errorf("second key = %q, want %q", families[1].FamilyKey, "shared@example.com")
	}
}

func TestGroupSingletonFallsBackToID(t *testing.T) {
	r := reg("orphan-1", "", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	families := Group([]model.Registration{r})
	if len(families) != 1 {
		t.Fatalf("expected 1 family, got %d", len(families))
	}
	if families[0].FamilyKey != "orphan-1" {
		t.Errorf("key = %q, want registration id", families[0].FamilyKey)
	}
}

func TestGroupEmailCanonicalized(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	regs := []model.Registration{
		reg("a", "Warsame@Example.com", base),
		reg("b", " warsame@example.com ", base.Add(time.Hour)),
	}

	families := Group(regs)
	if len(families) != 1 {
		t.Fatalf("expected 1 family, got %d", len(families))
	}
}

func TestGroupMembersSortedByCreation(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	regs := []model.Registration{
		reg("late", "fam@example.com", base.Add(48*time.Hour)),
		reg("early", "fam@example.com", base),
		reg("middle", "fam@example.com", base.Add(time.Hour)),
	}

	families := Group(regs)
	if len(families) != 1 {
		t.Fatalf("expected 1 family, got %d", len(families))
	}
	order := []string{"early", "middle", "late"}
	for i, want := range order {
		if families[0].Members[i].ID != want {
			t.Errorf("member[%d] = %q, want %q", i, families[0].Members[i].ID, want)
		}
	}
	// Convenience contacts come from the chronologically first member.
	if families[0].ParentPhone != "206-555-0100" {
		t.Errorf("parent phone = %q", families[0].ParentPhone)
	}
}

func TestGroupEveryRegistrationInExactlyOneFamily(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	regs := []model.Registration{
		reg("a", "x@example.com", base),
		reg("b", "", base),
		reg("c", "x@example.com", base),
		reg("d", "y@example.com", base),
	}

	families := Group(regs)
	seen := make(map[string]int)
	for _, f := range families {
		for _, m := range f.Members {
			seen[m.ID]++
		}
	}
	if len(seen) != len(regs) {
		t.Fatalf("saw %d distinct registrations, want %d", len(seen), len(regs))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("registration %q appears %d times", id, n)
		}
	}
}

func TestGroupIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	regs := []model.Registration{
		reg("b", "fam@example.com", base.Add(time.Hour)),
		reg("a", "fam@example.com", base),
		reg("c", "solo@example.com", base),
	}

	first := Group(regs)

	var flattened []model.Registration
	for _, f := range first {
		flattened = append(flattened, f.Members...)
	}
	second := Group(flattened)

	if len(first) != len(second) {
		t.Fatalf("re-aggregation changed family count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].FamilyKey != second[i].FamilyKey {
			t.Errorf("family[%d] key %q vs %q", i, first[i].FamilyKey, second[i].FamilyKey)
		}
		if len(first[i].Members) != len(second[i].Members) {
			t.Errorf("family[%d] member count %d vs %d", i, len(first[i].Members), len(second[i].Members))
		}
	}
}

func TestGroupDerivedFlags(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	active := reg("a", "fam@example.com", base)
	active.PaymentCaptured = true
	active.StripeSubscriptionID = strPtr("sub_1")
	active.SubscriptionStatus = subPtr(model.SubActive)

	churned := reg("b", "fam@example.com", base.Add(time.Hour))
	churned.StripeSubscriptionID = strPtr("sub_2")
	churned.SubscriptionStatus = subPtr(model.SubCanceled)

	// Canceled status without a subscription id must not count as churned.
	noID := reg("c", "other@example.com", base)
	noID.SubscriptionStatus = subPtr(model.SubCanceled)

	families := Group([]model.Registration{active, churned, noID})
	if len(families) != 2 {
		t.Fatalf("expected 2 families, got %d", len(families))
	}

	f := families[0]
	if !f.HasPayment || !f.HasSubscription || !f.HasChurned {
		t.Errorf("flags = payment:%v subscription:%v churned:%v, want all true",
			f.HasPayment, f.HasSubscription, f.HasChurned)
	}
	if families[1].HasChurned {
		t.Error("canceled status without subscription id should not set HasChurned")
	}
}
