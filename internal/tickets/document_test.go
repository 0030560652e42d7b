package tickets

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedTicket() *Ticket {
	return &Ticket{
		Email:          "visitor@example.com",
		Type:           TypeAdult,
		UnitPrice:      200,
		Quantity:       2,
		AgeRange:       "18+ years",
		AgeDescription: "Full access to all exhibits",
		VisitDate:      time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		PurchaseDate:   time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC),
		OrderID:        "order_abc123",
		PaymentID:      "pay_xyz789",
		Status:         StatusConfirmed,
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	generator := NewDocumentGenerator()

	document, err := generator.Render(confirmedTicket())
	require.NoError(t, err)

	require.NotEmpty(t, document)
	assert.True(t, bytes.HasPrefix(document, []byte("%PDF-")), "document must start with the PDF magic")
}

func TestRender_IsDeterministic(t *testing.T) {
	generator := NewDocumentGenerator()

	first, err := generator.Render(confirmedTicket())
	require.NoError(t, err)
	second, err := generator.Render(confirmedTicket())
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical tickets must render identical bytes")
}

func TestRender_RejectsMalformedTickets(t *testing.T) {
	generator := NewDocumentGenerator()

	tests := []struct {
		name   string
		mutate func(*Ticket)
	}{
		{"missing email", func(tk *Ticket) { tk.Email = "" }},
		{"missing order id", func(tk *Ticket) { tk.OrderID = "" }},
		{"missing payment id", func(tk *Ticket) { tk.PaymentID = "" }},
		{"zero quantity", func(tk *Ticket) { tk.Quantity = 0 }},
		{"unknown ticket type", func(tk *Ticket) { tk.Type = "VIP" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := confirmedTicket()
			tt.mutate(ticket)

			_, err := generator.Render(ticket)
			assert.ErrorIs(t, err, ErrRender)
		})
	}
}

func TestRender_NilTicket(t *testing.T) {
	generator := NewDocumentGenerator()

	_, err := generator.Render(nil)
	assert.ErrorIs(t, err, ErrRender)
}
