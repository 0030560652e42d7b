package tickets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Prices(t *testing.T) {
	tests := []struct {
		ticketType TicketType
		price      int64
		ageRange   string
	}{
		{TypeAdult, 200, "18+ years"},
		{TypeChild, 100, "5-17 years"},
		{TypeSenior, 150, "60+ years"},
		{TypeStudent, 150, "Valid Student ID"},
	}

	for _, tt := range tests {
		t.Run(string(tt.ticketType), func(t *testing.T) {
			entry, ok := Lookup(tt.ticketType)
			require.True(t, ok)
			assert.Equal(t, tt.price, entry.Price)
			assert.Equal(t, tt.ageRange, entry.AgeRange)
			assert.Equal(t, tt.price, UnitPrice(tt.ticketType))
		})
	}
}

func TestLookup_UnknownType(t *testing.T) {
	_, ok := Lookup("VIP")
	assert.False(t, ok)
	assert.Zero(t, UnitPrice("VIP"))
}

func TestTicket_TotalPrice(t *testing.T) {
	ticket := &Ticket{UnitPrice: 150, Quantity: 4}
	assert.Equal(t, int64(600), ticket.TotalPrice())
}

func TestTicket_ToSummary(t *testing.T) {
	ticket := &Ticket{
		Email:     "visitor@example.com",
		Type:      TypeChild,
		Quantity:  3,
		AgeRange:  "5-17 years",
		VisitDate: time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		OrderID:   "order_abc123",
		Status:    StatusConfirmed,
	}

	summary := ticket.ToSummary()

	assert.Equal(t, TypeChild, summary.TicketType)
	assert.Equal(t, "order_abc123", summary.OrderID)
	assert.Equal(t, "visitor@example.com", summary.Email)
	assert.Equal(t, "20/03/2026 10:00", summary.VisitDate)
	assert.Equal(t, 3, summary.NumberOfTickets)
	assert.Equal(t, StatusConfirmed, summary.Status)
}
