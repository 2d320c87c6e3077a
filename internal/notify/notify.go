// Package notify is the outbound messaging boundary. The engine only emits
// declarative effects; this package carries them to the external delivery
// component and the tenant admin directory.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/Optus-development-team/optsms-backend/internal/models"
)

// Notifier delivers outbound messages to buyers and admins.
type Notifier interface {
	SendText(ctx context.Context, recipient, text string) error
	SendImage(ctx context.Context, recipient, imageB64, mimeType, caption string) error
}

// Directory resolves tenant administrators and maintains the tenant's
// "needs attention" mark shown in the admin-facing integration record.
type Directory interface {
	TenantAdmins(ctx context.Context, tenantID string) ([]string, error)
	SetTenantAttention(ctx context.Context, tenantID string, needs bool) error
}

// Client posts messages to the delivery component over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a delivery client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

type textMessage struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}

type imageMessage struct {
	Recipient string `json:"recipient"`
	Image     string `json:"image"`
	MimeType  string `json:"mimeType,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

// SendText delivers a plain text message.
func (c *Client) SendText(ctx context.Context, recipient, text string) error {
	return c.post(ctx, textMessage{Recipient: recipient, Text: text}, "api", "messages", "text")
}

// SendImage delivers an image with an optional caption.
func (c *Client) SendImage(ctx context.Context, recipient, imageB64, mimeType, caption string) error {
	msg := imageMessage{Recipient: recipient, Image: imageB64, MimeType: mimeType, Caption: caption}
	return c.post(ctx, msg, "api", "messages", "image")
}

func (c *Client) post(ctx context.Context, body any, elem ...string) error {
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
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return models.ErrInternalError
	}

	return nil
}
