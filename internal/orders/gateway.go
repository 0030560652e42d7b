package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"musetix/internal/shared/config"
)

// GatewayOrder is the gateway's view of a minted order
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Gateway mints payment orders with the external payment provider
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, receipt, email string) (*GatewayOrder, error)
}

type gatewayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// httpGateway talks to a Razorpay-compatible orders API over HTTPS with
// key/secret basic auth.
type httpGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	currency  string
	client    *http.Client
}

// NewHTTPGateway creates the HTTP payment gateway client from config
func NewHTTPGateway(cfg config.GatewayConfig) Gateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &httpGateway{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
		client:    &http.Client{Timeout: timeout},
	}
}

func (g *httpGateway) CreateOrder(ctx context.Context, amount int64, receipt, email string) (*GatewayOrder, error) {
	body, err := json.Marshal(gatewayOrderRequest{
		Amount:   amount,
		Currency: g.currency,
		Receipt:  receipt,
		Notes:    map[string]string{"email": email},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}
	return &order, nil
}
