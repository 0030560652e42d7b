package settlement

import "musetix/internal/tickets"

// TicketDetails is the booking summary the dialogue hands to the payment
// widget and the widget echoes back on completion.
type TicketDetails struct {
	Type            tickets.TicketType `json:"type" binding:"required"`
	Price           int64              `json:"price" binding:"required"`
	AgeRange        string             `json:"ageRange"`
	AgeDescription  string             `json:"ageDescription,omitempty"`
	VisitDate       string             `json:"visitDate,omitempty"` // DD/MM/YYYY HH:MM or DD/MM/YYYY
	NumberOfTickets int                `json:"numberOfTickets,omitempty"`
}

// VerifyRequest is the payment-completion callback payload
type VerifyRequest struct {
	OrderID       string        `json:"orderId" binding:"required"`
	PaymentID     string        `json:"paymentId" binding:"required"`
	Signature     string        `json:"signature" binding:"required"`
	TicketDetails TicketDetails `json:"ticketDetails" binding:"required"`
	Email         string        `json:"email" binding:"required"`
}

// VerifyResult reports the outcome of a verification callback
type VerifyResult struct {
	Verified bool            `json:"verified"`
	Ticket   *tickets.Ticket `json:"-"`
	Replayed bool            `json:"-"`
}
