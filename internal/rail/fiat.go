package rail

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/Optus-development-team/optsms-backend/internal/models"
	"github.com/shopspring/decimal"
)

// FiatClient wraps the bank-QR automation backend. The backend works
// asynchronously: QR generation and verification results come back later on
// the bank webhook, so these calls only enqueue work.
type FiatClient struct {
	client  *http.Client
	baseURL string
}

// NewFiatClient creates a FiatClient for the given backend address.
func NewFiatClient(baseURL string) *FiatClient {
	return &FiatClient{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type qrRequest struct {
	OrderID   string          `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
	Currency  string          `json:"currency"`
}

// GenerateQR asks the bank automation to produce a payment QR for the order.
// The image itself arrives later via the QR_GENERATED webhook.
func (c *FiatClient) GenerateQR(ctx context.Context, orderID string, amount decimal.Decimal, reference, currency string) error {
	body := qrRequest{OrderID: orderID, Amount: amount, Reference: reference, Currency: currency}
	return c.post(ctx, body, "api", "qr")
}

type verifyRequest struct {
	OrderID   string `json:"orderId"`
	Reference string `json:"reference"`
}

// Verify asks the bank automation to check whether the order's payment has
// landed. The verdict arrives via the VERIFICATION_RESULT webhook.
func (c *FiatClient) Verify(ctx context.Context, orderID, reference string) error {
	return c.post(ctx, verifyRequest{OrderID: orderID, Reference: reference}, "api", "verify")
}

type secondFactorRequest struct {
	TenantID string `json:"tenantId"`
	Code     string `json:"code"`
}

// SubmitSecondFactor forwards an admin-supplied code to the bank session.
// Returns ErrCodeRejected when the bank refuses the code.
func (c *FiatClient) SubmitSecondFactor(ctx context.Context, tenantID, code string) error {
	u, err := url.JoinPath(c.baseURL, "api", "second-factor")
	if err != nil {
		return err
	}

	buf, err := json.Marshal(secondFactorRequest{TenantID: tenantID, Code: code})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return models.ErrRailUnavailable
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return nil
	case http.StatusUnprocessableEntity:
		return models.ErrCodeRejected
	default:
		return models.ErrRailUnavailable
	}
}

func (c *FiatClient) post(ctx context.Context, body any, elem ...string) error {
	u, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return err
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return models.ErrRailUnavailable
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return models.ErrRailUnavailable
	}

	return nil
}
