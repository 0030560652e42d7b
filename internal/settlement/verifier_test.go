package settlement

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musetix/internal/orders"
	"musetix/internal/tickets"
)

const testSecret = "test-gateway-secret"

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// fakeIntentRepo is an in-memory orders.Repository with the same guarded
// transition semantics as the SQL implementation.
type fakeIntentRepo struct {
	intents map[string]*orders.PaymentIntent
}

func newFakeIntentRepo() *fakeIntentRepo {
	return &fakeIntentRepo{intents: make(map[string]*orders.PaymentIntent)}
}

func (f *fakeIntentRepo) Create(ctx context.Context, intent *orders.PaymentIntent) error {
	if _, ok := f.intents[intent.OrderID]; ok {
		return orders.ErrStoreConflict
	}
	f.intents[intent.OrderID] = intent
	return nil
}

func (f *fakeIntentRepo) GetByOrderID(ctx context.Context, orderID string) (*orders.PaymentIntent, error) {
	intent, ok := f.intents[orderID]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return intent, nil
}

func (f *fakeIntentRepo) List(ctx context.Context, limit, offset int) ([]orders.PaymentIntent, int64, error) {
	out := make([]orders.PaymentIntent, 0, len(f.intents))
	for _, intent := range f.intents {
		out = append(out, *intent)
	}
	return out, int64(len(out)), nil
}

func (f *fakeIntentRepo) MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error) {
	intent, ok := f.intents[orderID]
	if !ok || intent.Status != orders.StatusCreated {
		return false, nil
	}
	intent.Status = orders.StatusPaid
	intent.PaymentID = paymentID
	return true, nil
}

func (f *fakeIntentRepo) MarkFailed(ctx context.Context, orderID string) (bool, error) {
	intent, ok := f.intents[orderID]
	if !ok || intent.Status != orders.StatusCreated {
		return false, nil
	}
	intent.Status = orders.StatusFailed
	return true, nil
}

// fakeTicketRepo enforces the one-ticket-per-order unique index in memory
type fakeTicketRepo struct {
	byOrder map[string]*tickets.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byOrder: make(map[string]*tickets.Ticket)}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *tickets.Ticket) error {
	if _, ok := f.byOrder[ticket.OrderID]; ok {
		return tickets.ErrDuplicateOrder
	}
	f.byOrder[ticket.OrderID] = ticket
	return nil
}

func (f *fakeTicketRepo) GetByOrderID(ctx context.Context, orderID string) (*tickets.Ticket, error) {
	ticket, ok := f.byOrder[orderID]
	if !ok {
		return nil, tickets.ErrNotFound
	}
	return ticket, nil
}

func (f *fakeTicketRepo) GetByEmail(ctx context.Context, email string) ([]tickets.Ticket, error) {
	var out []tickets.Ticket
	for _, ticket := range f.byOrder {
		if ticket.Email == email {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) List(ctx context.Context, limit, offset int) ([]tickets.Ticket, int64, error) {
	out := make([]tickets.Ticket, 0, len(f.byOrder))
	for _, ticket := range f.byOrder {
		out = append(out, *ticket)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTicketRepo) UpdateStatus(ctx context.Context, orderID string, status string) error {
	ticket, ok := f.byOrder[orderID]
	if !ok {
		return tickets.ErrNotFound
	}
	ticket.Status = status
	return nil
}

type fakeGenerator struct {
	err     error
	renders int
}

func (f *fakeGenerator) Render(ticket *tickets.Ticket) ([]byte, error) {
	f.renders++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

type fakeDispatcher struct {
	err   error
	sends int
	last  *tickets.Ticket
}

func (f *fakeDispatcher) SendTicketConfirmation(ctx context.Context, ticket *tickets.Ticket, document []byte) error {
	f.sends++
	f.last = ticket
	if f.err != nil {
		return f.err
	}
	return nil
}

type fixture struct {
	verifier   *Verifier
	intents    *fakeIntentRepo
	tickets    *fakeTicketRepo
	generator  *fakeGenerator
	dispatcher *fakeDispatcher
}

func newFixture() *fixture {
	f := &fixture{
		intents:    newFakeIntentRepo(),
		tickets:    newFakeTicketRepo(),
		generator:  &fakeGenerator{},
		dispatcher: &fakeDispatcher{},
	}
	f.verifier = NewVerifier(testSecret, f.intents, f.tickets, f.generator, f.dispatcher)
	return f
}

func (f *fixture) seedIntent(orderID string, amount int64) {
	f.intents.intents[orderID] = &orders.PaymentIntent{
		OrderID:  orderID,
		Amount:   amount,
		Currency: "INR",
		Email:    "visitor@example.com",
		Status:   orders.StatusCreated,
	}
}

func adultRequest(orderID, paymentID string) VerifyRequest {
	return VerifyRequest{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: sign(orderID, paymentID),
		Email:     "visitor@example.com",
		TicketDetails: TicketDetails{
			Type:            tickets.TypeAdult,
			Price:           200,
			AgeRange:        "18+ years",
			VisitDate:       "20/03/2026 10:00",
			NumberOfTickets: 2,
		},
	}
}

func TestVerify_Success(t *testing.T) {
	f := newFixture()
	f.seedIntent("order_1", 40000)

	result, err := f.verifier.Verify(context.Background(), adultRequest("order_1", "pay_1"))
	require.NoError(t, err)

	assert.True(t, result.Verified)
	assert.False(t, result.Replayed)
	require.NotNil(t, result.Ticket)
	assert.Equal(t, tickets.TypeAdult, result.Ticket.Type)
	assert.Equal(t, 2, result.Ticket.Quantity)
	assert.Equal(t, int64(400), result.Ticket.TotalPrice())
	assert.Equal(t, tickets.StatusConfirmed, result.Ticket.Status)

	intent := f.intents.intents["order_1"]
	assert.Equal(t, orders.StatusPaid, intent.Status)
	assert.Equal(t, "pay_1", intent.PaymentID)

	assert.Equal(t, 1, f.dispatcher.sends)
	assert.Equal(t, "visitor@example.com", f.dispatcher.last.Email)
}

func TestVerify_InvalidSignature(t *testing.T) {
	f := newFixture()
	f.seedIntent("order_1", 40000)

	req := adultRequest("order_1", "pay_1")
	req.Signature = "deadbeef"

	result, err := f.verifier.Verify(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, result.Verified)
	assert.Equal(t, orders.StatusFailed, f.intents.intents["order_1"].Status)
	assert.Empty(t, f.tickets.byOrder)
	assert.Zero(t, f.dispatcher.sends)
}

func TestVerify_ReplayedCallbackIsIdempotent(t *testing.T) {
	f := newFixture()
	f.seedIntent("order_1", 40000)
	req := adultRequest("order_1", "pay_1")

	first, err := f.verifier.Verify(context.Background(), req)
	require.NoError(t, err)
	require.True(t, first.Verified)

	second, err := f.verifier.Verify(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, second.Verified)
	assert.True(t, second.Replayed)
	assert.Len(t, f.tickets.byOrder, 1)
	assert.Equal(t, first.Ticket.OrderID, second.Ticket.OrderID)
	// The replay re-sends the artifact
	assert.Equal(t, 2, f.dispatcher.sends)
}

func TestVerify_UnknownOrder(t *testing.T) {
	f := newFixture()

	_, err := f.verifier.Verify(context.Background(), adultRequest("order_missing", "pay_1"))
	assert.ErrorIs(t, err, ErrUnknownOrder)
}

func TestVerify_CallbackAfterFailedVerification(t *testing.T) {
	f := newFixture()
	f.seedIntent("order_1", 40000)

	bad := adultRequest("order_1", "pay_1")
	bad.Signature = "deadbeef"
	_, err := f.verifier.Verify(context.Background(), bad)
	require.NoError(t, err)

	// A later valid-looking callback cannot resurrect a failed intent
	result, err := f.verifier.Verify(context.Background(), adultRequest("order_1", "pay_1"))
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Empty(t, f.tickets.byOrder)
}

func TestVerify_DeliveryFailureKeepsSettlement(t *testing.T) {
	f := newFixture()
	f.seedIntent("order_1", 40000)
	f.dispatcher.err = errors.New("smtp connection refused")

	result, err := f.verifier.Verify(context.Background(), adultRequest("order_1", "pay_1"))

	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.True(t, result.Verified)

	// Payment stays settled and the ticket stays confirmed
	assert.Equal(t, orders.StatusPaid, f.intents.intents["order_1"].Status)
	ticket := f.tickets.byOrder["order_1"]
	require.NotNil(t, ticket)
	assert.Equal(t, tickets.StatusConfirmed, ticket.Status)

	// A retry after the fault clears re-delivers the same ticket
	f.dispatcher.err = nil
	retry, err := f.verifier.Verify(context.Background(), adultRequest("order_1", "pay_1"))
	require.NoError(t, err)
	assert.True(t, retry.Verified)
	assert.True(t, retry.Replayed)
	assert.Len(t, f.tickets.byOrder, 1)
}

func TestVerify_RenderFailureKeepsSettlement(t *testing.T) {
	f := newFixture()
	f.seedIntent("order_1", 40000)
	f.generator.err = errors.New("font table corrupt")

	result, err := f.verifier.Verify(context.Background(), adultRequest("order_1", "pay_1"))

	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.True(t, result.Verified)
	assert.Zero(t, f.dispatcher.sends)
	assert.Equal(t, orders.StatusPaid, f.intents.intents["order_1"].Status)
}

func TestVerify_DefaultsForSparseDetails(t *testing.T) {
	f := newFixture()
	f.seedIntent("order_1", 20000)

	req := VerifyRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: sign("order_1", "pay_1"),
		Email:     "visitor@example.com",
		TicketDetails: TicketDetails{
			Type: tickets.TypeSenior,
			// no price, quantity, age range or visit date
		},
	}

	result, err := f.verifier.Verify(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Ticket)

	assert.Equal(t, 1, result.Ticket.Quantity)
	assert.Equal(t, int64(150), result.Ticket.UnitPrice)
	assert.Equal(t, "60+ years", result.Ticket.AgeRange)
	// Malformed visit date falls back to tomorrow 10:00
	assert.Equal(t, 10, result.Ticket.VisitDate.Hour())
	assert.True(t, result.Ticket.VisitDate.After(result.Ticket.PurchaseDate))
}
