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

// NegotiationRequest opens a settlement negotiation for one order.
type NegotiationRequest struct {
	OrderID   string          `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
	Currency  string          `json:"currency"`
	Symbol    string          `json:"symbol"`
}

// PaymentOption is one way the rail offers to settle: a scannable fiat QR
// or a crypto challenge with a payable address and atomic amount.
type PaymentOption struct {
	Type       string `json:"type"` // fiat | crypto
	Amount     string `json:"amount"`
	QRImageB64 string `json:"qrImageB64,omitempty"`
	Challenge  string `json:"challenge,omitempty"`
	Address    string `json:"address,omitempty"`
}

// NegotiationResponse carries the rail's job id and the options it offered.
// Whatever the rail returned is surfaced as-is; the engine never synthesizes
// a method the rail didn't offer.
type NegotiationResponse struct {
	RailJobID  string          `json:"railJobId"`
	Options    []PaymentOption `json:"options"`
	PaymentURL string          `json:"paymentUrl,omitempty"`
}

// UnifiedClient wraps the challenge/response settlement protocol that offers
// fiat and crypto in the same negotiation.
type UnifiedClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewUnifiedClient creates a UnifiedClient.
func NewUnifiedClient(baseURL, apiKey string) *UnifiedClient {
	return &UnifiedClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Negotiate opens (or re-opens) a settlement negotiation. Transport and
// non-2xx failures surface as ErrRailUnavailable so that callers keep the
// order in its current state and prompt a retry.
func (c *UnifiedClient) Negotiate(ctx context.Context, nr NegotiationRequest) (*NegotiationResponse, error) {
	u, err := url.JoinPath(c.baseURL, "api", "negotiations")
	if err != nil {
		return nil, err
	}

	buf, err := json.Marshal(nr)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, models.ErrRailUnavailable
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		nresp := NegotiationResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&nresp); err != nil {
			return nil, err
		}
		return &nresp, nil
	default:
		return nil, models.ErrRailUnavailable
	}
}
