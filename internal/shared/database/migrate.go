package database

import (
	"musetix/internal/operators"
	"musetix/internal/orders"
	"musetix/internal/tickets"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&operators.Operator{},
		&orders.PaymentIntent{},
		&tickets.Ticket{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
