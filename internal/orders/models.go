package orders

import (
	"time"

	"github.com/google/uuid"
)

// Payment intent lifecycle. An intent is created once per booking attempt and
// transitions exactly once to paid or failed when the gateway callback is
// verified; it never reverts.
const (
	StatusCreated = "created"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// PaymentIntent is the server record of a requested charge prior to
// confirmation, keyed by the gateway-issued order id.
type PaymentIntent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID   string    `gorm:"unique;not null" json:"order_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	Amount    int64     `gorm:"not null" json:"amount"` // minor currency units
	Currency  string    `gorm:"type:varchar(3);not null" json:"currency"`
	Email     string    `gorm:"not null" json:"email"`
	Status    string    `gorm:"type:varchar(20);check:status IN ('created', 'paid', 'failed');default:'created'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for PaymentIntent
func (PaymentIntent) TableName() string {
	return "payment_intents"
}

func (p *PaymentIntent) IsCreated() bool {
	return p.Status == StatusCreated
}

func (p *PaymentIntent) IsPaid() bool {
	return p.Status == StatusPaid
}

func (p *PaymentIntent) IsFailed() bool {
	return p.Status == StatusFailed
}

// BookingMeta carries optional booking parameters collected by the dialogue,
// echoed back to the verifier through the payment widget.
type BookingMeta struct {
	VisitDate string `json:"visit_date,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// CreateOrderRequest represents the order-creation payload
type CreateOrderRequest struct {
	Amount      int64        `json:"amount" binding:"required"`
	Receipt     string       `json:"receipt" binding:"required"`
	Email       string       `json:"email" binding:"required"`
	BookingMeta *BookingMeta `json:"booking_meta,omitempty"`
}

// OrderResponse represents the created payment intent handed to the widget
type OrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
