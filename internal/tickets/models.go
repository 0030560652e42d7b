package tickets

import (
	"time"

	"github.com/google/uuid"
)

// TicketType enumerates the ticket categories sold at the counter and by the
// booking dialogue. Each type fixes the unit price and the eligibility text
// printed on the ticket.
type TicketType string

const (
	TypeAdult   TicketType = "Adult"
	TypeChild   TicketType = "Child"
	TypeSenior  TicketType = "Senior"
	TypeStudent TicketType = "Student"
)

// CatalogEntry describes one purchasable ticket type
type CatalogEntry struct {
	Type        TicketType `json:"type"`
	Price       int64      `json:"price"` // whole rupees
	AgeRange    string     `json:"age_range"`
	Description string     `json:"description"`
}

// Catalog returns the fixed ticket catalog in display order
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{Type: TypeAdult, Price: 200, AgeRange: "18+ years", Description: "Full access to all exhibits"},
		{Type: TypeChild, Price: 100, AgeRange: "5-17 years", Description: "Kid-friendly tour included"},
		{Type: TypeSenior, Price: 150, AgeRange: "60+ years", Description: "Guided tour included"},
		{Type: TypeStudent, Price: 150, AgeRange: "Valid Student ID", Description: "Special student benefits"},
	}
}

// Lookup returns the catalog entry for a ticket type
func Lookup(t TicketType) (CatalogEntry, bool) {
	for _, entry := range Catalog() {
		if entry.Type == t {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// UnitPrice returns the price of a single ticket of the given type, or 0 for
// an unknown type.
func UnitPrice(t TicketType) int64 {
	entry, ok := Lookup(t)
	if !ok {
		return 0
	}
	return entry.Price
}

// Ticket is the durable proof of a settled payment. A row exists iff the
// referenced order id carries a paid payment intent; the relation is 1:1,
// enforced by the unique index on order_id.
type Ticket struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email          string     `gorm:"index;not null" json:"email"`
	Type           TicketType `gorm:"type:varchar(20);not null" json:"type"`
	UnitPrice      int64      `gorm:"not null" json:"unit_price"`
	Quantity       int        `gorm:"not null;check:quantity >= 1" json:"quantity"`
	AgeRange       string     `gorm:"type:varchar(40);not null" json:"age_range"`
	AgeDescription string     `json:"age_description"`
	VisitDate      time.Time  `gorm:"not null" json:"visit_date"`
	PurchaseDate   time.Time  `gorm:"not null" json:"purchase_date"`
	OrderID        string     `gorm:"unique;not null" json:"order_id"`
	PaymentID      string     `gorm:"not null" json:"payment_id"`
	Status         string     `gorm:"type:varchar(20);check:status IN ('pending', 'confirmed', 'cancelled');default:'pending'" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

func (t *Ticket) IsConfirmed() bool {
	return t.Status == StatusConfirmed
}

func (t *Ticket) IsCancelled() bool {
	return t.Status == StatusCancelled
}

// TotalPrice returns the price of the whole booking, in whole rupees
func (t *Ticket) TotalPrice() int64 {
	return t.UnitPrice * int64(t.Quantity)
}

// Summary is the machine-readable payload embedded in the ticket document's
// scannable code.
type Summary struct {
	TicketType      TicketType `json:"ticketType"`
	OrderID         string     `json:"orderId"`
	Email           string     `json:"email"`
	AgeRange        string     `json:"ageRange"`
	VisitDate       string     `json:"visitDate"`
	NumberOfTickets int        `json:"numberOfTickets"`
	Status          string     `json:"status"`
}

// ToSummary converts a ticket to its scannable summary
func (t *Ticket) ToSummary() Summary {
	return Summary{
		TicketType:      t.Type,
		OrderID:         t.OrderID,
		Email:           t.Email,
		AgeRange:        t.AgeRange,
		VisitDate:       t.VisitDate.Format("02/01/2006 15:04"),
		NumberOfTickets: t.Quantity,
		Status:          t.Status,
	}
}
