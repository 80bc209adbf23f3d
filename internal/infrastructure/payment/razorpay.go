package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/pkg/crypto"
	"givora.backend/pkg/logger"
)

// ErrMissingCredentials indicates that the client was configured without keys.
var ErrMissingCredentials = errors.New("razorpay: key id and secret are required")

const defaultBaseURL = "https://api.razorpay.com"

// Options configures the Razorpay client.
type Options struct {
	KeyID      string
	KeySecret  string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// RazorpayClient creates orders and verifies checkout signatures.
type RazorpayClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewRazorpayClient constructs a client with defaults applied.
func NewRazorpayClient(opts Options) (*RazorpayClient, error) {
	keyID := strings.TrimSpace(opts.KeyID)
	keySecret := strings.TrimSpace(opts.KeySecret)
	if keyID == "" || keySecret == "" {
		return nil, ErrMissingCredentials
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &RazorpayClient{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

// KeyID returns the public key handed to checkout clients.
func (c *RazorpayClient) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order of amountMinor paise. A failed dial is
// retried once since the request never reached the gateway; any other failure
// is returned as is so an order is never created twice.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*entities.Order, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("razorpay: amount must be positive, got %d", amountMinor)
	}
	body, err := json.Marshal(createOrderRequest{Amount: amountMinor, Currency: currency, Receipt: receipt})
	if err != nil {
		return nil, fmt.Errorf("razorpay: encode order: %w", err)
	}

	order, err := c.createOrder(ctx, body)
	if err != nil && isDialError(err) && ctx.Err() == nil {
		logger.Warn(ctx, "Razorpay dial failed, retrying once", zap.String("receipt", receipt), zap.Error(err))
		order, err = c.createOrder(ctx, body)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (c *RazorpayClient) createOrder(ctx context.Context, body []byte) (*entities.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("razorpay: build request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("razorpay: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay: create order: status %d: %s: %s", resp.StatusCode, apiErr.Error.Code, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay: create order: status %d", resp.StatusCode)
	}

	var out orderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("razorpay: decode order: %w", err)
	}
	if out.ID == "" {
		return nil, errors.New("razorpay: order response missing id")
	}
	return &entities.Order{ID: out.ID, Amount: out.Amount, Currency: out.Currency, Receipt: out.Receipt}, nil
}

// VerifySignature checks the checkout signature, hex HMAC-SHA256 of
// "order_id|payment_id" keyed with the key secret.
func (c *RazorpayClient) VerifySignature(_ context.Context, proof entities.PaymentProof) error {
	if !crypto.VerifyHMACSHA256(c.keySecret, proof.OrderID+"|"+proof.PaymentID, proof.Signature) {
		return domainerrors.ErrInvalidSignature
	}
	return nil
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
