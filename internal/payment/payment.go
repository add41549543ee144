// Package payment talks to the external payment processor. The service only
// asks it to create checkout orders; capture confirmations, declines and
// cancellations come back through the HTTP surface as processor signals.
package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/designdesk/designdesk/internal/apperrors"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const createOrderPath = "/v2/checkout/orders"

type OrderDescriptor struct {
	OrderID    string `json:"id"`
	Status     string `json:"status"`
	ApproveURL string `json:"approve_url"`
}

type Processor interface {
	CreateOrder(ctx context.Context, referenceID string, description string, amount decimal.Decimal) (OrderDescriptor, error)
}

type Client struct {
	apiAddress string
	client     *resty.Client
}

func NewClient(apiAddress string) *Client {
	client := resty.New()

	client.
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	return &Client{
		apiAddress: apiAddress,
		client:     client,
	}
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type purchaseUnit struct {
	ReferenceID string      `json:"reference_id"`
	Description string      `json:"description"`
	Amount      orderAmount `json:"amount"`
}

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

func (c *Client) CreateOrder(ctx context.Context, referenceID string, description string, amount decimal.Decimal) (OrderDescriptor, error) {
	orderURL, err := url.JoinPath(c.apiAddress, createOrderPath)
	if err != nil {
		return OrderDescriptor{}, err
	}

	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{
			{
				ReferenceID: referenceID,
				Description: description,
				Amount: orderAmount{
					CurrencyCode: "USD",
					Value:        amount.StringFixed(2),
				},
			},
		},
	}

	var descriptor OrderDescriptor

	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&descriptor).
		Post(orderURL)

	if err != nil {
		return OrderDescriptor{}, &apperrors.ExternalServiceError{Service: "payment processor", Err: err}
	}

	if response.StatusCode() != http.StatusOK && response.StatusCode() != http.StatusCreated {
		return OrderDescriptor{}, &apperrors.ExternalServiceError{
			Service: "payment processor",
			Err:     fmt.Errorf("unexpected status: %v", response.Status()),
		}
	}

	return descriptor, nil
}
