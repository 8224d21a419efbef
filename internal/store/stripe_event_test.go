package store

import (
	"testing"

	"github.com/dugsihub/dugsi/internal/database"
)

func TestStripeEventDedupe(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	es := NewStripeEventStore(db)

	seen, err := es.AlreadyProcessed("evt_1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if seen {
		t.Error("fresh event reported as processed")
	}

	if err := es.MarkProcessed("evt_1", "invoice.paid"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	// Marking twice is fine; Stripe redelivers.
	if err := es.MarkProcessed("evt_1", "invoice.paid"); err != nil {
		t.Fatalf("re-mark: %v", err)
	}

	seen, err = es.AlreadyProcessed("evt_1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !seen {
		t.Error("processed event not found")
	}
}
