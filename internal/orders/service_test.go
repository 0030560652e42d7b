package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, intent *PaymentIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *mockRepository) GetByOrderID(ctx context.Context, orderID string) (*PaymentIntent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentIntent), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]PaymentIntent, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]PaymentIntent), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error) {
	args := m.Called(ctx, orderID, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) MarkFailed(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount int64, receipt, email string) (*GatewayOrder, error) {
	args := m.Called(ctx, amount, receipt, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GatewayOrder), args.Error(1)
}

func validRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Amount:  40000,
		Receipt: "museum_ticket_1742000000",
		Email:   "visitor@example.com",
	}
}

func TestCreateOrder_Success(t *testing.T) {
	repo := new(mockRepository)
	gateway := new(mockGateway)
	svc := NewService(repo, gateway)

	gateway.On("CreateOrder", mock.Anything, int64(40000), "museum_ticket_1742000000", "visitor@example.com").
		Return(&GatewayOrder{ID: "order_abc123", Amount: 40000, Currency: "INR", Status: "created"}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(intent *PaymentIntent) bool {
		return intent.OrderID == "order_abc123" &&
			intent.Amount == 40000 &&
			intent.Email == "visitor@example.com" &&
			intent.Status == StatusCreated
	})).Return(nil)

	resp, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "order_abc123", resp.ID)
	assert.Equal(t, int64(40000), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)

	gateway.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCreateOrder_ValidatesRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOrderRequest)
	}{
		{"zero amount", func(r *CreateOrderRequest) { r.Amount = 0 }},
		{"negative amount", func(r *CreateOrderRequest) { r.Amount = -100 }},
		{"missing email", func(r *CreateOrderRequest) { r.Email = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			gateway := new(mockGateway)
			svc := NewService(repo, gateway)

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.CreateOrder(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			gateway.AssertNotCalled(t, "CreateOrder")
			repo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateOrder_GatewayFailureWritesNothing(t *testing.T) {
	repo := new(mockRepository)
	gateway := new(mockGateway)
	svc := NewService(repo, gateway)

	gateway.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := svc.CreateOrder(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateOrder_StoreConflictSurfaces(t *testing.T) {
	repo := new(mockRepository)
	gateway := new(mockGateway)
	svc := NewService(repo, gateway)

	gateway.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&GatewayOrder{ID: "order_abc123", Amount: 40000, Currency: "INR"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(ErrStoreConflict)

	_, err := svc.CreateOrder(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStoreConflict)
}

func TestListIntents_ClampsPagination(t *testing.T) {
	repo := new(mockRepository)
	gateway := new(mockGateway)
	svc := NewService(repo, gateway)

	repo.On("List", mock.Anything, 20, 0).Return([]PaymentIntent{}, int64(0), nil)

	_, _, err := svc.ListIntents(context.Background(), -5, -1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
