package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musetix/internal/tickets"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestNewSession(t *testing.T) {
	s := NewSession(testNow)

	assert.Equal(t, StepMain, s.Step)
	assert.Equal(t, InputNone, s.InputMode())
	require.Len(t, s.Messages, 1)
	assert.Equal(t, RoleAssistant, s.Messages[0].Role)
	assert.NotEmpty(t, s.Messages[0].Options)
}

func TestTransition_FullBookingPath(t *testing.T) {
	s := NewSession(testNow)

	s, effects := Transition(s, Action{Kind: ActionBookTickets}, testNow)
	require.Empty(t, effects)
	assert.Equal(t, StepTicketSelect, s.Step)

	s, effects = Transition(s, Action{Kind: ActionSelectTicket, TicketType: tickets.TypeAdult}, testNow)
	require.Empty(t, effects)
	assert.Equal(t, StepDateSelect, s.Step)
	assert.Equal(t, InputDateText, s.InputMode())
	assert.Equal(t, int64(200), s.Draft.UnitPrice)
	assert.Equal(t, "18+ years", s.Draft.AgeRange)

	s, effects = Transition(s, Action{Kind: ActionSelectDate, DateChoice: "tomorrow"}, testNow)
	require.Empty(t, effects)
	assert.Equal(t, StepQuantitySelect, s.Step)
	require.NotNil(t, s.Draft.VisitDate)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), *s.Draft.VisitDate)

	s, effects = Transition(s, Action{Kind: ActionSelectQuantity, Quantity: 2}, testNow)
	require.Empty(t, effects)
	assert.Equal(t, StepEmailInput, s.Step)
	assert.Equal(t, InputEmail, s.InputMode())

	s, effects = Transition(s, Action{Kind: ActionSubmitText, Text: "visitor@example.com"}, testNow)
	assert.Equal(t, StepAwaitingPayment, s.Step)
	require.Len(t, effects, 1)
	assert.Equal(t, EffectCreateOrder, effects[0].Kind)
	assert.Equal(t, "visitor@example.com", effects[0].Draft.Email)
	// 2 adult tickets at 200 rupees, amount in paise
	assert.Equal(t, int64(40000), effects[0].Draft.Amount())

	s, effects = Transition(s, Action{Kind: ActionPaymentSucceeded}, testNow)
	require.Empty(t, effects)
	assert.Equal(t, StepDone, s.Step)
	assert.Equal(t, BookingDraft{}, s.Draft)
	assert.Contains(t, s.LastMessage().Content, "visitor@example.com")
}

func TestTransition_InvalidActionReRendersStep(t *testing.T) {
	s := NewSession(testNow)
	s, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)
	require.Equal(t, StepTicketSelect, s.Step)

	before := len(s.Messages)
	next, effects := Transition(s, Action{Kind: ActionSelectQuantity, Quantity: 2}, testNow)

	assert.Empty(t, effects)
	assert.Equal(t, StepTicketSelect, next.Step)
	assert.Len(t, next.Messages, before+1)
	assert.NotEmpty(t, next.LastMessage().Options)
}

func TestTransition_UnknownTicketTypeStaysOnTicketSelect(t *testing.T) {
	s := NewSession(testNow)
	s, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)

	next, _ := Transition(s, Action{Kind: ActionSelectTicket, TicketType: "VIP"}, testNow)

	assert.Equal(t, StepTicketSelect, next.Step)
	assert.Empty(t, next.Draft.TicketType)
}

func TestTransition_DateValidation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantStep Step
	}{
		{"garbage input stays on date select", "not a date", StepDateSelect},
		{"past date stays on date select", "01/01/2020", StepDateSelect},
		{"today is accepted", "14/03/2026", StepQuantitySelect},
		{"future date is accepted", "20/03/2026", StepQuantitySelect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testNow)
			s, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)
			s, _ = Transition(s, Action{Kind: ActionSelectTicket, TicketType: tickets.TypeChild}, testNow)
			require.Equal(t, StepDateSelect, s.Step)

			next, _ := Transition(s, Action{Kind: ActionSubmitText, Text: tt.text}, testNow)
			assert.Equal(t, tt.wantStep, next.Step)
		})
	}
}

func TestTransition_QuantityBounds(t *testing.T) {
	toCustomQuantity := func(t *testing.T) Session {
		t.Helper()
		s := NewSession(testNow)
		s, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)
		s, _ = Transition(s, Action{Kind: ActionSelectTicket, TicketType: tickets.TypeStudent}, testNow)
		s, _ = Transition(s, Action{Kind: ActionSelectDate, DateChoice: "today"}, testNow)
		s, _ = Transition(s, Action{Kind: ActionCustomQuantity}, testNow)
		require.Equal(t, StepCustomQuantity, s.Step)
		assert.Equal(t, InputInteger, s.InputMode())
		return s
	}

	tests := []struct {
		name     string
		text     string
		wantStep Step
		wantQty  int
	}{
		{"zero rejected", "0", StepCustomQuantity, 0},
		{"eleven rejected", "11", StepCustomQuantity, 0},
		{"negative rejected", "-3", StepCustomQuantity, 0},
		{"not a number rejected", "five", StepCustomQuantity, 0},
		{"lower bound accepted", "1", StepEmailInput, 1},
		{"upper bound accepted", "10", StepEmailInput, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := toCustomQuantity(t)
			next, _ := Transition(s, Action{Kind: ActionSubmitText, Text: tt.text}, testNow)
			assert.Equal(t, tt.wantStep, next.Step)
			assert.Equal(t, tt.wantQty, next.Draft.Quantity)
		})
	}
}

func TestTransition_PresetQuantityOutOfRange(t *testing.T) {
	s := NewSession(testNow)
	s, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectTicket, TicketType: tickets.TypeSenior}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectDate, DateChoice: "today"}, testNow)

	next, _ := Transition(s, Action{Kind: ActionSelectQuantity, Quantity: 7}, testNow)
	assert.Equal(t, StepQuantitySelect, next.Step)
	assert.Zero(t, next.Draft.Quantity)
}

func TestTransition_EmailValidation(t *testing.T) {
	s := NewSession(testNow)
	s, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectTicket, TicketType: tickets.TypeAdult}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectDate, DateChoice: "today"}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectQuantity, Quantity: 1}, testNow)
	require.Equal(t, StepEmailInput, s.Step)

	next, effects := Transition(s, Action{Kind: ActionSubmitText, Text: "no-at-sign"}, testNow)
	assert.Empty(t, effects)
	assert.Equal(t, StepEmailInput, next.Step)

	next, effects = Transition(next, Action{Kind: ActionSubmitText, Text: "a@b.c"}, testNow)
	assert.Len(t, effects, 1)
	assert.Equal(t, StepAwaitingPayment, next.Step)
}

func TestTransition_PaymentFailureOffersRetry(t *testing.T) {
	s := NewSession(testNow)
	s, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectTicket, TicketType: tickets.TypeAdult}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectDate, DateChoice: "today"}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectQuantity, Quantity: 1}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSubmitText, Text: "a@b.c"}, testNow)
	require.Equal(t, StepAwaitingPayment, s.Step)

	for _, kind := range []ActionKind{ActionPaymentFailed, ActionPaymentCancelled} {
		next, _ := Transition(s, Action{Kind: kind}, testNow)
		assert.Equal(t, StepTicketSelect, next.Step)
		require.NotEmpty(t, next.LastMessage().Options)

		labels := make([]string, 0, len(next.LastMessage().Options))
		for _, opt := range next.LastMessage().Options {
			labels = append(labels, opt.Label)
		}
		assert.Contains(t, labels, "Try Again")
		assert.Contains(t, labels, "Main Menu")
	}
}

func TestTransition_ExitClearsDraft(t *testing.T) {
	s := NewSession(testNow)
	s, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)
	s, _ = Transition(s, Action{Kind: ActionSelectTicket, TicketType: tickets.TypeAdult}, testNow)
	require.NotEmpty(t, s.Draft.TicketType)

	next, _ := Transition(s, Action{Kind: ActionExit}, testNow)
	assert.Equal(t, StepMain, next.Step)
	assert.Equal(t, BookingDraft{}, next.Draft)
}

func TestTransition_MainMenuInfoActionsStayOnMain(t *testing.T) {
	for _, kind := range []ActionKind{ActionCheckPrices, ActionMuseumInfo, ActionExhibitions, ActionGuidedTours} {
		s := NewSession(testNow)
		before := len(s.Messages)

		next, effects := Transition(s, Action{Kind: kind}, testNow)
		assert.Empty(t, effects)
		assert.Equal(t, StepMain, next.Step)
		assert.Len(t, next.Messages, before+1)
	}
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	s := NewSession(testNow)
	originalLen := len(s.Messages)
	originalStep := s.Step

	_, _ = Transition(s, Action{Kind: ActionBookTickets}, testNow)

	assert.Len(t, s.Messages, originalLen)
	assert.Equal(t, originalStep, s.Step)
}

func TestSession_MessageLogIsAppendOnly(t *testing.T) {
	s := NewSession(testNow)

	steps := []Action{
		{Kind: ActionBookTickets},
		{Kind: ActionSelectTicket, TicketType: tickets.TypeAdult},
		{Kind: ActionSelectDate, DateChoice: "today"},
	}

	prev := len(s.Messages)
	for _, act := range steps {
		s, _ = Transition(s, act, testNow)
		assert.Greater(t, len(s.Messages), prev)
		prev = len(s.Messages)
	}
}
