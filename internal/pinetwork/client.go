package pinetwork

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	PiMainnetURL = "https://api.minepi.com/v2"
	PiSandboxURL = "https://api.sandbox.minepi.com/v2"
)

// ErrNotConfigured is returned when no server API key is configured. The
// caller decides whether to degrade or fail; the client never blocks waiting
// for an integration that is not there.
var ErrNotConfigured = errors.New("pi platform client not configured")

// Client talks to the Pi Network platform API on behalf of the server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// AuthResult is the identity the platform reports for a wallet access token.
type AuthResult struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// PaymentStatus mirrors the platform's view of a payment lifecycle.
type PaymentStatus struct {
	DeveloperApproved  bool `json:"developer_approved"`
	TransactionVerified bool `json:"transaction_verified"`
	DeveloperCompleted bool `json:"developer_completed"`
	Cancelled          bool `json:"cancelled"`
	UserCancelled      bool `json:"user_cancelled"`
}

// PaymentTransaction is the on-chain transaction attached to a payment.
type PaymentTransaction struct {
	TxID     string `json:"txid"`
	Verified bool   `json:"verified"`
}

// Payment is the platform's record of a payment.
type Payment struct {
	Identifier  string                 `json:"identifier"`
	UserUID     string                 `json:"user_uid"`
	Amount      float64                `json:"amount"`
	Memo        string                 `json:"memo"`
	Metadata    map[string]interface{} `json:"metadata"`
	Status      PaymentStatus          `json:"status"`
	Transaction *PaymentTransaction    `json:"transaction,omitempty"`
}

// NewClient creates a Pi platform client. With sandbox true it targets the
// sandbox payment network.
func NewClient(apiKey string, sandbox bool) *Client {
	baseURL := PiMainnetURL
	if sandbox {
		baseURL = PiSandboxURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Available reports whether the client has credentials to reach the platform.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Me verifies a wallet access token and returns the user it belongs to.
func (c *Client) Me(accessToken string) (*AuthResult, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	req, err := http.NewRequest("GET", c.baseURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pi platform API error: %d - %s", resp.StatusCode, string(body))
	}

	var result AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// GetPayment fetches the platform's record of a payment.
func (c *Client) GetPayment(paymentID string) (*Payment, error) {
	if !c.Available() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/payments/%s", c.baseURL, paymentID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.addKeyHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pi platform API error: %d - %s", resp.StatusCode, string(body))
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &payment, nil
}

// ApprovePayment tells the platform the server approves the payment.
func (c *Client) ApprovePayment(paymentID string) error {
	return c.post(fmt.Sprintf("/payments/%s/approve", paymentID), nil)
}

// CompletePayment tells the platform the server completed the payment.
func (c *Client) CompletePayment(paymentID, txid string) error {
	return c.post(fmt.Sprintf("/payments/%s/complete", paymentID), map[string]string{"txid": txid})
}

// CancelPayment tells the platform the payment was abandoned server-side.
func (c *Client) CancelPayment(paymentID string) error {
	return c.post(fmt.Sprintf("/payments/%s/cancel", paymentID), nil)
}

func (c *Client) post(path string, payload interface{}) error {
	if !c.Available() {
		return ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.addKeyHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pi platform request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pi platform API error: %d - %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func (c *Client) addKeyHeader(req *http.Request) {
	req.Header.Set("Authorization", "Key "+c.apiKey)
}
