package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"musetix/internal/operators"
	"musetix/internal/orders"
	"musetix/internal/shared/config"
	"musetix/internal/shared/database"
	"musetix/internal/tickets"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Musetix Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"tickets",
		"payment_intents",
		"operators",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds operator accounts and a few settled bookings
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedOperators(); err != nil {
		return fmt.Errorf("failed to seed operators: %w", err)
	}

	if err := s.SeedBookings(); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// Clear Redis so stale dialogue sessions don't survive a reseed
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedOperators creates one admin and one staff account
func (s *Seeder) SeedOperators() error {
	fmt.Println("  👤 Seeding operators...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	accounts := []struct {
		firstName string
		lastName  string
		email     string
		role      operators.Role
	}{
		{"Museum", "Admin", "admin@museum.example", operators.RoleAdmin},
		{"Front", "Desk", "frontdesk@museum.example", operators.RoleStaff},
	}

	for _, op := range accounts {
		account := operators.Operator{
			ID:        uuid.New(),
			FirstName: op.firstName,
			LastName:  op.lastName,
			Email:     op.email,
			Password:  string(hashedPassword),
			Role:      op.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&account).Error; err != nil {
			return fmt.Errorf("failed to create operator %s: %w", op.email, err)
		}

		fmt.Printf("    ✅ Created operator: %s (%s)\n", account.Email, account.Role)
	}

	return nil
}

// SeedBookings creates settled payment intents with their confirmed tickets
func (s *Seeder) SeedBookings() error {
	fmt.Println("  🎟️ Seeding settled bookings...")

	bookings := []struct {
		email      string
		ticketType tickets.TicketType
		quantity   int
		daysAhead  int
	}{
		{"visitor1@example.com", tickets.TypeAdult, 2, 1},
		{"visitor2@example.com", tickets.TypeChild, 3, 2},
		{"visitor3@example.com", tickets.TypeSenior, 1, 7},
		{"visitor4@example.com", tickets.TypeStudent, 4, 3},
	}

	for i, b := range bookings {
		entry, ok := tickets.Lookup(b.ticketType)
		if !ok {
			return fmt.Errorf("unknown ticket type %s", b.ticketType)
		}

		orderID := fmt.Sprintf("order_seed_%03d", i+1)
		paymentID := fmt.Sprintf("pay_seed_%03d", i+1)

		visit := time.Now().AddDate(0, 0, b.daysAhead)
		visitDate := time.Date(visit.Year(), visit.Month(), visit.Day(), 10, 0, 0, 0, visit.Location())

		intent := orders.PaymentIntent{
			OrderID:   orderID,
			PaymentID: paymentID,
			Amount:    entry.Price * int64(b.quantity) * 100,
			Currency:  "INR",
			Email:     b.email,
			Status:    orders.StatusPaid,
		}
		if err := s.db.PostgreSQL.Create(&intent).Error; err != nil {
			return fmt.Errorf("failed to create payment intent %s: %w", orderID, err)
		}

		ticket := tickets.Ticket{
			Email:          b.email,
			Type:           b.ticketType,
			UnitPrice:      entry.Price,
			Quantity:       b.quantity,
			AgeRange:       entry.AgeRange,
			AgeDescription: entry.Description,
			VisitDate:      visitDate,
			PurchaseDate:   time.Now(),
			OrderID:        orderID,
			PaymentID:      paymentID,
			Status:         tickets.StatusConfirmed,
		}
		if err := s.db.PostgreSQL.Create(&ticket).Error; err != nil {
			return fmt.Errorf("failed to create ticket %s: %w", orderID, err)
		}

		fmt.Printf("    ✅ Created booking: %s (%s x%d)\n", orderID, b.ticketType, b.quantity)
	}

	return nil
}
