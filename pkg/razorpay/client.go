package razorpay

import (
	"fmt"
	"strings"

	razorpaygo "github.com/razorpay/razorpay-go"

	"github.com/schoolkart/storefront-backend/pkg/config"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
)

// GatewayOrder is the subset of the gateway's order resource we persist.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// OrderCreator is the narrow gateway surface the checkout flow depends on.
// Services accept this interface so tests can substitute a fake.
type OrderCreator interface {
	CreateOrder(amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
}

// Client wraps the Razorpay SDK behind the storefront's error taxonomy.
type Client struct {
	sdk      *razorpaygo.Client
	currency string
}

// New builds a Razorpay client from configuration.
func New(cfg config.RazorpayConfig) (*Client, error) {
	if strings.TrimSpace(cfg.KeyID) == "" {
		return nil, fmt.Errorf("razorpay key id is required")
	}
	if strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, fmt.Errorf("razorpay key secret is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "INR"
	}

	return &Client{
		sdk:      razorpaygo.NewClient(cfg.KeyID, cfg.KeySecret),
		currency: currency,
	}, nil
}

// CreateOrder registers an order with the gateway. Amount is in minor units
// (paise for INR).
func (c *Client) CreateOrder(amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	if amountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order amount must be positive")
	}
	if currency == "" {
		currency = c.currency
	}

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		noteData := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			noteData[k] = v
		}
		data["notes"] = noteData
	}

	body, err := c.sdk.Order.Create(data, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating gateway order")
	}

	order, err := orderFromResponse(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding gateway order response")
	}
	return order, nil
}

func orderFromResponse(body map[string]interface{}) (*GatewayOrder, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}

	order := &GatewayOrder{ID: id}
	switch amount := body["amount"].(type) {
	case float64:
		order.Amount = int64(amount)
	case int64:
		order.Amount = amount
	case int:
		order.Amount = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}
	return order, nil
}
