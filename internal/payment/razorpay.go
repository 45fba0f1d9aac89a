package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Order is the gateway-side handle returned when a payment is opened.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Gateway abstracts the payment provider so services and tests do not talk
// HTTP directly.
type Gateway interface {
	// CreateOrder opens a transaction for the given amount in minor units
	// (paise) and returns the provider's order handle.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)

	// VerifySignature reports whether the checkout signature matches
	// HMAC-SHA256(orderID + "|" + paymentID, keySecret).
	VerifySignature(orderID, paymentID, signature string) bool
}

type razorpayClient struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

// NewRazorpayGateway returns a Gateway backed by the Razorpay Orders API.
func NewRazorpayGateway(keyID, keySecret string) Gateway {
	return &razorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   "https://api.razorpay.com/v1",
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *razorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gwErr struct {
			Error struct {
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&gwErr)
		return nil, fmt.Errorf("payment gateway rejected order (%d): %s", resp.StatusCode, gwErr.Error.Description)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return &order, nil
}

func (c *razorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
