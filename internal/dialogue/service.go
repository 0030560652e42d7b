package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"musetix/internal/orders"
	"musetix/internal/shared/constants"
	"musetix/internal/tickets"
	"musetix/pkg/cache"
	"musetix/pkg/logger"
)

// Errors surfaced to the HTTP layer
var (
	ErrSessionNotFound = errors.New("dialogue session not found")
	ErrUnknownAction   = errors.New("unknown dialogue action")
)

// DispatchRequest is the wire form of one dispatched action
type DispatchRequest struct {
	Action  string          `json:"action" binding:"required"`
	Payload DispatchPayload `json:"payload"`
}

// DispatchPayload carries the optional typed payload of an action
type DispatchPayload struct {
	TicketType string `json:"ticket_type,omitempty"`
	DateChoice string `json:"date_choice,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Service hosts dialogue sessions for the presentation layer: sessions live
// in Redis under a TTL, transitions run through the pure machine, and
// requested effects (order creation) are interpreted here.
type Service interface {
	CreateSession(ctx context.Context) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	Dispatch(ctx context.Context, id string, req DispatchRequest) (*Session, error)
	ResetSession(ctx context.Context, id string) error
}

type service struct {
	store      cache.Service
	orders     orders.Service
	sessionTTL time.Duration
	now        func() time.Time
	log        *logger.Logger
}

func NewService(store cache.Service, orderService orders.Service, sessionTTL time.Duration) Service {
	return &service{
		store:      store,
		orders:     orderService,
		sessionTTL: sessionTTL,
		now:        time.Now,
		log:        logger.GetDefault(),
	}
}

func (s *service) CreateSession(ctx context.Context) (*Session, error) {
	session := NewSession(s.now())
	if err := s.save(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *service) GetSession(ctx context.Context, id string) (*Session, error) {
	var session Session
	err := s.store.Get(ctx, constants.BuildDialogueSessionKey(id), &session)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Dispatch applies one action to the session. Exactly one action is in
// flight per session at a time; the dialogue is strictly sequential, so the
// read-transition-write cycle needs no locking.
func (s *service) Dispatch(ctx context.Context, id string, req DispatchRequest) (*Session, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	action, err := parseAction(req)
	if err != nil {
		return nil, err
	}

	next, effects := Transition(*session, action, s.now())

	for _, effect := range effects {
		switch effect.Kind {
		case EffectCreateOrder:
			s.runCreateOrder(ctx, &next, effect)
		}
	}

	if err := s.save(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) ResetSession(ctx context.Context, id string) error {
	return s.store.Delete(ctx, constants.BuildDialogueSessionKey(id))
}

// runCreateOrder performs the order-creation effect: mint a payment intent
// for the collected draft and attach it to the awaiting-payment message so
// the host UI can open the widget. A gateway failure is folded back into the
// machine as a payment failure so the visitor gets the standard recovery
// options.
func (s *service) runCreateOrder(ctx context.Context, session *Session, effect Effect) {
	draft := effect.Draft

	req := orders.CreateOrderRequest{
		Amount:  draft.Amount(),
		Receipt: fmt.Sprintf("ticket_%d", s.now().UnixNano()),
		Email:   draft.Email,
	}
	if draft.VisitDate != nil {
		req.BookingMeta = &orders.BookingMeta{
			VisitDate: draft.VisitDate.Format("02/01/2006 15:04"),
			Quantity:  draft.Quantity,
		}
	}

	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		s.log.Error("dialogue order creation failed",
			slog.String("session_id", session.ID.String()),
			slog.Any("error", err),
		)
		failed, _ := Transition(*session, Action{Kind: ActionPaymentFailed}, s.now())
		*session = failed
		return
	}

	appendAssistant(session, Message{
		Content: "Your order is ready. Complete the payment to confirm your booking.",
		Order:   order,
	})
}

func (s *service) save(ctx context.Context, session *Session) error {
	return s.store.Set(ctx, constants.BuildDialogueSessionKey(session.ID.String()), session, s.sessionTTL)
}

// parseAction converts the wire form into the closed action set. Unknown
// action names are a client contract violation, not a dialogue input error.
func parseAction(req DispatchRequest) (Action, error) {
	kind := ActionKind(req.Action)
	switch kind {
	case ActionBookTickets, ActionCheckPrices, ActionMuseumInfo, ActionExhibitions,
		ActionGuidedTours, ActionMainMenu, ActionExit, ActionCustomQuantity,
		ActionPaymentSucceeded, ActionPaymentFailed, ActionPaymentCancelled:
		return Action{Kind: kind}, nil
	case ActionSelectTicket:
		return Action{Kind: kind, TicketType: ticketTypeFromString(req.Payload.TicketType)}, nil
	case ActionSelectDate:
		return Action{Kind: kind, DateChoice: req.Payload.DateChoice}, nil
	case ActionSelectQuantity:
		return Action{Kind: kind, Quantity: req.Payload.Quantity}, nil
	case ActionSubmitText:
		return Action{Kind: kind, Text: req.Payload.Text}, nil
	default:
		return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}
}

func ticketTypeFromString(raw string) tickets.TicketType {
	return tickets.TicketType(raw)
}
