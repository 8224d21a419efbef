package store

import (
	"database/sql"
	"fmt"
)

// StripeEventStore is the webhook idempotency ledger. Stripe retries
// deliveries, so the handler records every event id it has fully processed.
type StripeEventStore struct {
	db *sql.DB
}

func NewStripeEventStore(db *sql.DB) *StripeEventStore {
	return &StripeEventStore{db: db}
}

func (s *StripeEventStore) AlreadyProcessed(eventID string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM stripe_events WHERE id = ?`, eventID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check stripe event: %w", err)
	}
	return count > 0, nil
}

func (s *StripeEventStore) MarkProcessed(eventID, eventType string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO stripe_events (id, type) VALUES (?, ?)`,
		eventID, eventType,
	)
	if err != nil {
		return fmt.Errorf("mark stripe event: %w", err)
	}
	return nil
}
