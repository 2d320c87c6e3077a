package service

import (
	"context"
	"errors"

	"github.com/Optus-development-team/optsms-backend/internal/models"
	"go.uber.org/zap"
)

// SubmitSecondFactor forwards an admin-supplied numeric code to the bank
// session of the tenant's order awaiting it. The admin's reply carries no
// order reference, so the awaiting order is found through the tenant index;
// with more than one candidate the oldest wins and the ambiguity is logged.
func (os *OrderService) SubmitSecondFactor(ctx context.Context, tenantID, code string) error {
	orderID, n := os.ledger.PendingSecondFactor(tenantID)
	if orderID == "" {
		return models.ErrNoPendingCode
	}
	if n > 1 {
		os.logger.Warn("multiple orders awaiting second factor, applying to oldest",
			zap.String("tenant_id", tenantID), zap.Int("count", n))
	}

	// rail call outside the per-order lock
	if err := os.fiat.SubmitSecondFactor(ctx, tenantID, code); err != nil {
		if errors.Is(err, models.ErrCodeRejected) {
			// flag stays set; the admin is asked to retry
			return models.ErrCodeRejected
		}
		return models.ErrRailUnavailable
	}

	res := os.applyTrigger(ctx, orderID, models.TriggerEvent{Trigger: models.Trigger2FAResolved})
	if !res.Applied() {
		os.logger.Debug("second factor resolution found nothing to clear",
			zap.String("order_id", orderID))
	}

	if err := os.dir.SetTenantAttention(ctx, tenantID, false); err != nil {
		os.logger.Warn("attention flag clear failed", zap.String("tenant_id", tenantID), zap.Error(err))
	}

	return nil
}
