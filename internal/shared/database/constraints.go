package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for settlement correctness
func MigrateConstraints(db *gorm.DB) error {
	// A replayed verification callback must converge on the existing rows, so the
	// gateway order id is the uniqueness anchor for both stores.
	err := db.Exec(`
		ALTER TABLE payment_intents
		ADD CONSTRAINT IF NOT EXISTS unique_payment_intent_order
		UNIQUE (order_id);
	`).Error
	if err != nil {
		return err
	}

	// At most one ticket per paid order
	err = db.Exec(`
		ALTER TABLE tickets
		ADD CONSTRAINT IF NOT EXISTS unique_ticket_order
		UNIQUE (order_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for ticket lookups by visitor email (admin listing, re-delivery)
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_tickets_email
		ON tickets (email);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
