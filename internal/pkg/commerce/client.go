package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/HanaSeol/CardMoa/internal/pkg/env"
)

// Typed verification failures. Handlers map these to client-visible errors;
// anything else from Verify is an infrastructure problem.
var (
	ErrOrderNotFound  = errors.New("commerce: order not found")
	ErrOrderCanceled  = errors.New("commerce: order canceled")
	ErrOrderUnpaid    = errors.New("commerce: order not paid")
	ErrMalformedReply = errors.New("commerce: malformed provider response")
)

// Order holds the normalized facts of a verified commerce order.
type Order struct {
	OrderID     string
	PaymentType string
	Amount      int
	ProductName string
}

// Client verifies product orders against the Naver Commerce API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClientFromEnv builds a client from COMMERCE_API_URL / COMMERCE_API_TOKEN.
func NewClientFromEnv() *Client {
	return &Client{
		baseURL: strings.TrimRight(env.GetEnv("COMMERCE_API_URL", "https://api.commerce.naver.com"), "/"),
		token:   env.GetEnv("COMMERCE_API_TOKEN", ""),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClient builds a client against an explicit endpoint (tests).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// productOrderReply mirrors the subset of the provider response we consume.
// Pointers distinguish "absent" from zero values so schema drift is caught
// instead of silently accepted.
type productOrderReply struct {
	ProductOrder *struct {
		ProductOrderID     string `json:"productOrderId"`
		ProductOrderStatus string `json:"productOrderStatus"`
		ProductName        string `json:"productName"`
		SellerCustomCode   string `json:"sellerCustomCode"`
		TotalPaymentAmount *int   `json:"totalPaymentAmount"`
	} `json:"productOrder"`
}

// Verify looks up an external order id and returns its normalized facts.
// Read-only against the provider.
func (c *Client) Verify(ctx context.Context, productOrderID string) (*Order, error) {
	if strings.TrimSpace(productOrderID) == "" {
		return nil, ErrOrderNotFound
	}

	url := fmt.Sprintf("%s/v1/pay-order/seller/product-orders/%s", c.baseURL, productOrderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commerce: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrOrderNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("commerce: provider returned status %d", resp.StatusCode)
	}

	var reply productOrderReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, ErrMalformedReply
	}
	po := reply.ProductOrder
	if po == nil || po.ProductOrderID == "" || po.TotalPaymentAmount == nil || po.SellerCustomCode == "" {
		return nil, ErrMalformedReply
	}

	switch strings.ToUpper(po.ProductOrderStatus) {
	case "CANCELED", "CANCELED_BY_NOPAYMENT", "RETURNED":
		return nil, ErrOrderCanceled
	case "PAYED", "DELIVERING", "DELIVERED", "PURCHASE_DECIDED":
		// paid states, continue
	default:
		return nil, ErrOrderUnpaid
	}

	return &Order{
		OrderID:     po.ProductOrderID,
		PaymentType: po.SellerCustomCode,
		Amount:      *po.TotalPaymentAmount,
		ProductName: po.ProductName,
	}, nil
}

// Dispatch reports the order as fulfilled to the provider. Called from the
// background dispatch job, never from the activation request path.
func (c *Client) Dispatch(ctx context.Context, productOrderID string) error {
	if strings.TrimSpace(productOrderID) == "" {
		return ErrOrderNotFound
	}

	url := fmt.Sprintf("%s/v1/pay-order/seller/product-orders/dispatch", c.baseURL)
	body := strings.NewReader(fmt.Sprintf(`{"productOrderIds":[%q]}`, productOrderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commerce: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("commerce: dispatch returned status %d", resp.StatusCode)
	}
	return nil
}

// IsVerificationError reports whether err is an order-level failure that the
// buyer can act on, as opposed to provider/infrastructure trouble.
func IsVerificationError(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrOrderCanceled) ||
		errors.Is(err, ErrOrderUnpaid) ||
		errors.Is(err, ErrMalformedReply)
}
