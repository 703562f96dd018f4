// Package gateway talks to the external payment processor over its REST API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
)

// Client is a minimal payment gateway client covering order creation and
// refunds. Requests authenticate with HTTP basic auth using the key pair
// issued by the gateway dashboard.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers a pending charge and returns the gateway order id.
// Amount is in minor units.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	var resp orderResponse
	err := c.post(ctx, "/v1/orders", orderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create order: gateway returned no order id")
	}
	return resp.ID, nil
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

type refundResponse struct {
	ID string `json:"id"`
}

// RefundPayment reverses a captured payment and returns the refund id.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amountMinor int64) (string, error) {
	var resp refundResponse
	err := c.post(ctx, "/v1/payments/"+paymentID+"/refund", refundRequest{Amount: amountMinor}, &resp)
	if err != nil {
		return "", fmt.Errorf("refund payment %s: %w", paymentID, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("refund payment %s: gateway returned no refund id", paymentID)
	}
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, truncate(data, 256))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
