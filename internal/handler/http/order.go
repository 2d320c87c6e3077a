package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Optus-development-team/optsms-backend/internal/models"
	"github.com/Optus-development-team/optsms-backend/internal/service"
)

// OrderService drives buyer purchase triggers through the engine.
type OrderService interface {
	Checkout(ctx context.Context, req models.CheckoutRequest) (*service.CheckoutResult, error)
	BuyerPaid(ctx context.Context, tenantID, buyerID string) (models.StepResult, error)
}

// OrderHandler represents HTTP handlers for buyer-trigger requests coming
// from the conversation layer.
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type checkoutResp struct {
	OrderID    string `json:"orderId"`
	State      string `json:"state"`
	Reference  string `json:"reference"`
	PaymentURL string `json:"paymentUrl,omitempty"`
	NeedAmount bool   `json:"needAmount,omitempty"`
}

// Checkout handles the buyer purchase trigger
// 200 — order advanced or existing artifacts returned;
// 400 — malformed payload;
// 503 — payment rail unavailable, order stays in cart;
// 500 — internal error.
func (oh *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.TenantID == "" || req.BuyerID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		res, err := oh.svc.Checkout(r.Context(), req)
		if err != nil {
			if errors.Is(err, models.ErrRailUnavailable) {
				http.Error(w, "payment rail unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(checkoutResp{
			OrderID:    res.OrderID,
			State:      res.State,
			Reference:  res.Reference,
			PaymentURL: res.PaymentURL,
			NeedAmount: res.NeedAmount,
		})
	}
}

type paidRequest struct {
	TenantID string `json:"tenantId"`
	BuyerID  string `json:"buyerId"`
}

// Paid handles the buyer's "I paid" trigger
// 200 — trigger processed;
// 400 — malformed payload;
// 404 — no order for the buyer;
// 500 — internal error.
func (oh *OrderHandler) Paid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paidRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.TenantID == "" || req.BuyerID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		res, err := oh.svc.BuyerPaid(r.Context(), req.TenantID, req.BuyerID)
		if err != nil {
			if errors.Is(err, models.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"outcome": res.Outcome})
	}
}
