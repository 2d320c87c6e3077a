package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Optus-development-team/optsms-backend/internal/models"
)

// SecondFactorService relays admin-supplied codes to the bank session.
type SecondFactorService interface {
	SubmitSecondFactor(ctx context.Context, tenantID, code string) error
}

// AdminHandler represents HTTP handlers for tenant-admin requests.
type AdminHandler struct {
	svc SecondFactorService
}

// NewAdminHandler creates new AdminHandler instance
func NewAdminHandler(svc SecondFactorService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type secondFactorRequest struct {
	TenantID string `json:"tenantId"`
	Code     string `json:"code"`
}

// SubmitSecondFactor applies an admin's code to the tenant's awaiting order
// 200 — code accepted, verification resumes;
// 400 — malformed payload;
// 404 — no order awaiting a code for the tenant;
// 422 — the bank rejected the code, admin should retry;
// 503 — payment rail unavailable.
func (ah *AdminHandler) SubmitSecondFactor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req secondFactorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.TenantID == "" || req.Code == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		err := ah.svc.SubmitSecondFactor(r.Context(), req.TenantID, req.Code)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, models.ErrNoPendingCode):
			http.Error(w, "no order awaiting code", http.StatusNotFound)
		case errors.Is(err, models.ErrCodeRejected):
			http.Error(w, "code rejected", http.StatusUnprocessableEntity)
		case errors.Is(err, models.ErrRailUnavailable):
			http.Error(w, "payment rail unavailable", http.StatusServiceUnavailable)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
