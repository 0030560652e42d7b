package settlement

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"musetix/internal/orders"
	"musetix/internal/tickets"
	"musetix/pkg/logger"
)

// Error taxonomy for settlement
var (
	// ErrSignatureMismatch signals an integrity failure on the callback; the
	// payment intent is marked failed and no ticket is created
	ErrSignatureMismatch = errors.New("payment signature mismatch")

	// ErrDeliveryFailed signals a post-payment document or email fault. The
	// payment is already settled, so the ticket stays confirmed; the fault is
	// retriable and must never be confused with a payment failure.
	ErrDeliveryFailed = errors.New("ticket delivery failed")

	// ErrUnknownOrder signals a callback for an order we never created
	ErrUnknownOrder = errors.New("unknown order")
)

// Dispatcher delivers the rendered ticket artifact to the visitor
type Dispatcher interface {
	SendTicketConfirmation(ctx context.Context, ticket *tickets.Ticket, document []byte) error
}

// Verifier authenticates payment-completion callbacks and commits the ticket.
// The created -> paid intent transition is the commit point; ticket creation
// and delivery are ordered follow-ups that can be retried independently.
type Verifier struct {
	secret     []byte
	intents    orders.Repository
	tickets    tickets.Repository
	generator  tickets.DocumentGenerator
	dispatcher Dispatcher
	log        *logger.Logger
}

func NewVerifier(secret string, intents orders.Repository, ticketRepo tickets.Repository,
	generator tickets.DocumentGenerator, dispatcher Dispatcher) *Verifier {
	return &Verifier{
		secret:     []byte(secret),
		intents:    intents,
		tickets:    ticketRepo,
		generator:  generator,
		dispatcher: dispatcher,
		log:        logger.GetDefault(),
	}
}

// Verify recomputes the callback signature and, on a match, settles the
// payment: intent -> paid, ticket created confirmed, document rendered and
// dispatched. Verifying the same callback twice converges on the same single
// ticket and re-sends the artifact instead of erroring.
func (v *Verifier) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if !v.signatureValid(req.OrderID, req.PaymentID, req.Signature) {
		if _, err := v.intents.MarkFailed(ctx, req.OrderID); err != nil {
			v.log.Error("failed to mark intent failed", slog.String("order_id", req.OrderID), slog.Any("error", err))
		}
		return &VerifyResult{Verified: false}, nil
	}

	won, err := v.intents.MarkPaid(ctx, req.OrderID, req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment intent: %w", err)
	}
	if won {
		v.log.LogPaymentVerified(ctx, req.OrderID, req.PaymentID)
	}

	if !won {
		// Either a replayed callback for a paid order, a callback for an order
		// that already failed verification, or an order we never minted.
		intent, err := v.intents.GetByOrderID(ctx, req.OrderID)
		if err != nil {
			if errors.Is(err, orders.ErrNotFound) {
				return nil, ErrUnknownOrder
			}
			return nil, err
		}
		if !intent.IsPaid() {
			return &VerifyResult{Verified: false}, nil
		}

		// Replay of a settled payment: short-circuit to re-delivery.
		ticket, err := v.tickets.GetByOrderID(ctx, req.OrderID)
		if err != nil {
			if errors.Is(err, tickets.ErrNotFound) {
				// Paid but the ticket follow-up never landed; finish it now.
				return v.commitTicket(ctx, req, true)
			}
			return nil, err
		}
		result := &VerifyResult{Verified: true, Ticket: ticket, Replayed: true}
		if err := v.deliver(ctx, ticket); err != nil {
			return result, err
		}
		return result, nil
	}

	return v.commitTicket(ctx, req, false)
}

func (v *Verifier) commitTicket(ctx context.Context, req VerifyRequest, replayed bool) (*VerifyResult, error) {
	ticket := v.buildTicket(req)

	if err := v.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, tickets.ErrDuplicateOrder) {
			// A concurrent verification of the same callback won the insert;
			// the existing row is authoritative.
			existing, getErr := v.tickets.GetByOrderID(ctx, req.OrderID)
			if getErr != nil {
				return nil, getErr
			}
			ticket = existing
			replayed = true
		} else {
			// Payment is settled but the ticket write failed; the callback can
			// be retried and will land in the paid-without-ticket branch.
			return &VerifyResult{Verified: true}, fmt.Errorf("%w: storing ticket: %v", ErrDeliveryFailed, err)
		}
	}

	v.log.LogTicketIssued(ctx, ticket.OrderID, ticket.Email, replayed)

	result := &VerifyResult{Verified: true, Ticket: ticket, Replayed: replayed}
	if err := v.deliver(ctx, ticket); err != nil {
		return result, err
	}
	return result, nil
}

func (v *Verifier) deliver(ctx context.Context, ticket *tickets.Ticket) error {
	document, err := v.generator.Render(ticket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if err := v.dispatcher.SendTicketConfirmation(ctx, ticket, document); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// signatureValid recomputes the HMAC over "orderId|paymentId" and compares it
// to the callback signature in constant time.
func (v *Verifier) signatureValid(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (v *Verifier) buildTicket(req VerifyRequest) *tickets.Ticket {
	details := req.TicketDetails

	quantity := details.NumberOfTickets
	if quantity < 1 {
		quantity = 1
	}

	unitPrice := details.Price
	if unitPrice <= 0 {
		unitPrice = tickets.UnitPrice(details.Type)
	}

	ageRange := details.AgeRange
	ageDescription := details.AgeDescription
	if entry, ok := tickets.Lookup(details.Type); ok {
		if ageRange == "" {
			ageRange = entry.AgeRange
		}
		if ageDescription == "" {
			ageDescription = entry.Description
		}
	}

	return &tickets.Ticket{
		Email:          req.Email,
		Type:           details.Type,
		UnitPrice:      unitPrice,
		Quantity:       quantity,
		AgeRange:       ageRange,
		AgeDescription: ageDescription,
		VisitDate:      parseVisitDate(details.VisitDate),
		PurchaseDate:   time.Now(),
		OrderID:        req.OrderID,
		PaymentID:      req.PaymentID,
		Status:         tickets.StatusConfirmed,
	}
}

// parseVisitDate parses the dialogue's visit date. A missing or malformed
// value falls back to tomorrow 10:00, matching what misbehaving clients get
// instead of a hard error.
func parseVisitDate(raw string) time.Time {
	for _, layout := range []string{"02/01/2006 15:04", "02/01/2006", time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	tomorrow := time.Now().AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 10, 0, 0, 0, tomorrow.Location())
}
