package orders

import (
	"context"
	"errors"
	"fmt"

	"musetix/pkg/logger"
)

// Error taxonomy for order creation
var (
	// ErrInvalidRequest signals a malformed order request (non-positive amount
	// or missing email)
	ErrInvalidRequest = errors.New("invalid order request")

	// ErrGatewayUnavailable signals that the payment gateway could not mint an
	// order; no local state is written in that case
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrStoreConflict signals a duplicate order id insert. The gateway issues
	// globally unique ids, so this indicates a replay or a bug; the existing
	// record is authoritative.
	ErrStoreConflict = errors.New("payment intent already exists for order")
)

// Service interface defines the contract for order creation
type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error)
	GetIntent(ctx context.Context, orderID string) (*PaymentIntent, error)
	ListIntents(ctx context.Context, limit, offset int) ([]PaymentIntent, int64, error)
}

type service struct {
	repo    Repository
	gateway Gateway
	log     *logger.Logger
}

func NewService(repo Repository, gateway Gateway) Service {
	return &service{repo: repo, gateway: gateway, log: logger.GetDefault()}
}

// CreateOrder mints a gateway order for the priced amount and persists the
// pending payment intent. Exactly one intent row is written per successful
// call; a gateway failure leaves no local state behind.
func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidRequest)
	}

	order, err := s.gateway.CreateOrder(ctx, req.Amount, req.Receipt, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	intent := &PaymentIntent{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Email:    req.Email,
		Status:   StatusCreated,
	}
	if err := s.repo.Create(ctx, intent); err != nil {
		// A duplicate insert means the gateway re-issued an order id we have
		// already recorded, which should be impossible. Fail loudly rather
		// than silently overwrite.
		return nil, err
	}

	s.log.LogOrderCreated(ctx, order.ID, req.Email)

	return &OrderResponse{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}, nil
}

func (s *service) GetIntent(ctx context.Context, orderID string) (*PaymentIntent, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

func (s *service) ListIntents(ctx context.Context, limit, offset int) ([]PaymentIntent, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
