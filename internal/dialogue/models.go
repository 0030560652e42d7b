package dialogue

import (
	"time"

	"github.com/google/uuid"

	"musetix/internal/orders"
	"musetix/internal/tickets"
)

// Step is one state in the booking finite-state machine. Each step has a
// defined input schema and transition set; a step only advances when the
// input for it passes validation, and it never skips a step.
type Step string

const (
	StepMain            Step = "main"
	StepTicketSelect    Step = "ticket_select"
	StepDateSelect      Step = "date_select"
	StepQuantitySelect  Step = "quantity_select"
	StepCustomQuantity  Step = "custom_quantity"
	StepEmailInput      Step = "email_input"
	StepAwaitingPayment Step = "awaiting_payment"
	StepDone            Step = "done"
)

// InputMode tells the host UI which input affordance to render for the
// current step.
type InputMode string

const (
	InputNone     InputMode = "none"
	InputEmail    InputMode = "email"
	InputInteger  InputMode = "integer"
	InputDateText InputMode = "date-text"
)

// ActionKind is the closed set of actions the dialogue accepts. Validity of
// an action for the current step is checked against a per-step table; an
// invalid combination re-renders the step instead of erroring.
type ActionKind string

const (
	ActionBookTickets      ActionKind = "BOOK_TICKETS"
	ActionSelectTicket     ActionKind = "SELECT_TICKET"
	ActionSelectDate       ActionKind = "SELECT_DATE"
	ActionSelectQuantity   ActionKind = "SELECT_QUANTITY"
	ActionCustomQuantity   ActionKind = "CUSTOM_QUANTITY"
	ActionSubmitText       ActionKind = "SUBMIT_TEXT"
	ActionCheckPrices      ActionKind = "CHECK_PRICES"
	ActionMuseumInfo       ActionKind = "MUSEUM_INFO"
	ActionExhibitions      ActionKind = "EXHIBITIONS"
	ActionGuidedTours      ActionKind = "GUIDED_TOURS"
	ActionMainMenu         ActionKind = "SHOW_MAIN_MENU"
	ActionExit             ActionKind = "EXIT"
	ActionPaymentSucceeded ActionKind = "PAYMENT_SUCCEEDED"
	ActionPaymentFailed    ActionKind = "PAYMENT_FAILED"
	ActionPaymentCancelled ActionKind = "PAYMENT_CANCELLED"
)

// Action is one dispatched dialogue action with its typed payload. Only the
// fields relevant to the kind are set.
type Action struct {
	Kind       ActionKind         `json:"kind"`
	TicketType tickets.TicketType `json:"ticket_type,omitempty"` // SELECT_TICKET
	DateChoice string             `json:"date_choice,omitempty"` // SELECT_DATE: "today" | "tomorrow"
	Quantity   int                `json:"quantity,omitempty"`    // SELECT_QUANTITY: 1..4
	Text       string             `json:"text,omitempty"`        // SUBMIT_TEXT
}

// Option is one selectable choice attached to an assistant message
type Option struct {
	Label      string             `json:"label"`
	Subtext    string             `json:"subtext,omitempty"`
	Action     ActionKind         `json:"action"`
	TicketType tickets.TicketType `json:"ticket_type,omitempty"`
	DateChoice string             `json:"date_choice,omitempty"`
	Quantity   int                `json:"quantity,omitempty"`
}

// Message roles
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Message is one entry in the append-only message log
type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Options []Option `json:"options,omitempty"`

	// Order carries the freshly minted payment intent on the awaiting-payment
	// message so the host UI can open the payment widget.
	Order *orders.OrderResponse `json:"order,omitempty"`
}

// BookingDraft holds the parameters collected so far. It is owned by the
// active session and discarded on exit or reset.
type BookingDraft struct {
	TicketType  tickets.TicketType `json:"ticket_type,omitempty"`
	UnitPrice   int64              `json:"unit_price,omitempty"`
	AgeRange    string             `json:"age_range,omitempty"`
	Description string             `json:"description,omitempty"`
	VisitDate   *time.Time         `json:"visit_date,omitempty"`
	Quantity    int                `json:"quantity,omitempty"`
	Email       string             `json:"email,omitempty"`
}

// Amount returns the order amount in minor currency units. Catalog prices
// are whole rupees, the gateway wants paise.
func (d *BookingDraft) Amount() int64 {
	return d.UnitPrice * int64(d.Quantity) * 100
}

// Session is the serializable dialogue state: the append-only message log,
// the current step and the booking draft. It is the sole input and output of
// the transition function, so the machine stays deterministic and testable
// without a rendering surface.
type Session struct {
	ID        uuid.UUID    `json:"id"`
	Step      Step         `json:"step"`
	Draft     BookingDraft `json:"draft"`
	Messages  []Message    `json:"messages"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// InputMode returns the input affordance for the session's current step
func (s *Session) InputMode() InputMode {
	switch s.Step {
	case StepDateSelect:
		return InputDateText
	case StepCustomQuantity:
		return InputInteger
	case StepEmailInput:
		return InputEmail
	default:
		return InputNone
	}
}

// LastMessage returns the newest log entry, or nil for an empty log
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// EffectKind enumerates side effects requested by a transition. The machine
// never performs effects itself; the service layer interprets them after the
// state change is applied.
type EffectKind string

const (
	EffectCreateOrder EffectKind = "create_order"
)

// Effect is one side effect requested by a transition
type Effect struct {
	Kind  EffectKind
	Draft BookingDraft
}
