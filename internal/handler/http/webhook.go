package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Optus-development-team/optsms-backend/internal/models"
)

// ReconcileService resolves inbound webhooks to canonical orders.
type ReconcileService interface {
	Bank(ctx context.Context, wh models.BankWebhook)
	Settlement(ctx context.Context, wh models.SettlementWebhook)
	Page(ctx context.Context, pc models.PageConfirmation)
}

// WebhookHandler represents HTTP handlers for the inbound notifier channels.
// Acknowledgment contract: 200 once the event is accepted for processing,
// even when it resolves to nothing or the transition is a no-op; only a
// malformed payload reports failure to the sender.
type WebhookHandler struct {
	svc ReconcileService
}

// NewWebhookHandler creates new WebhookHandler instance
func NewWebhookHandler(svc ReconcileService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// BankWebhook receives the legacy rail notification
// 200 — event accepted;
// 400 — malformed payload.
func (wh *WebhookHandler) BankWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.BankWebhook
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if payload.OrderID == "" || payload.EventType == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		wh.svc.Bank(r.Context(), payload)
		w.WriteHeader(http.StatusOK)
	}
}

// SettlementWebhook receives the unified rail notification
// 200 — event accepted;
// 400 — malformed payload.
func (wh *WebhookHandler) SettlementWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.SettlementWebhook
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if payload.RailJobID == "" || payload.Event == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		wh.svc.Settlement(r.Context(), payload)
		w.WriteHeader(http.StatusOK)
	}
}

// PageConfirmation receives the payment-page confirmation proxy
// 200 — event accepted;
// 400 — malformed payload.
func (wh *WebhookHandler) PageConfirmation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.PageConfirmation
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if payload.OrderID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		wh.svc.Page(r.Context(), payload)
		w.WriteHeader(http.StatusOK)
	}
}
