// Package reconcile maps the three inbound notification shapes onto the
// single canonical order and routes the mapped trigger through the engine.
// Every event is acknowledged; an unresolvable one is logged and dropped so
// the sender stops retrying.
package reconcile

import (
	"context"
	"errors"

	"github.com/Optus-development-team/optsms-backend/internal/ledger"
	"github.com/Optus-development-team/optsms-backend/internal/models"
	"go.uber.org/zap"
)

// Engine applies a reconciled trigger to an order.
type Engine interface {
	ApplyRailEvent(ctx context.Context, orderID string, ev models.TriggerEvent) (models.StepResult, error)
}

// DurableLookup is the durable-store fallback for orders that have rolled
// out of the in-memory ledger.
type DurableLookup interface {
	GetByRailJobID(ctx context.Context, railJobID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
}

// Reconciler resolves inbound webhooks to canonical orders.
type Reconciler struct {
	ledger *ledger.Ledger
	engine Engine
	repo   DurableLookup
	logger *zap.Logger
}

// NewReconciler creates new Reconciler instance
func NewReconciler(lg *ledger.Ledger, engine Engine, repo DurableLookup, logger *zap.Logger) *Reconciler {
	return &Reconciler{ledger: lg, engine: engine, repo: repo, logger: logger}
}

// Bank handles the legacy rail webhook, keyed by order id.
func (r *Reconciler) Bank(ctx context.Context, wh models.BankWebhook) {
	var ev models.TriggerEvent
	switch wh.EventType {
	case models.BankEventQRGenerated:
		ev = models.TriggerEvent{
			Trigger:    models.TriggerQRReady,
			QRImageB64: wh.QRImage,
			MimeType:   wh.MimeType,
		}
	case models.BankEventVerification:
		if wh.Success != nil && *wh.Success {
			ev = models.TriggerEvent{Trigger: models.TriggerVerifyOK, Method: models.SettlementFiat}
		} else {
			ev = models.TriggerEvent{Trigger: models.TriggerVerifyFail, Method: models.SettlementFiat}
		}
	case models.BankEvent2FARequired:
		ev = models.TriggerEvent{Trigger: models.Trigger2FARequired}
	default:
		r.logger.Warn("unknown bank webhook event, ignored",
			zap.String("order_id", wh.OrderID), zap.String("event_type", wh.EventType))
		return
	}

	if order := r.ledger.GetByID(wh.OrderID); order == nil {
		r.unresolved("bank", zap.String("order_id", wh.OrderID))
		return
	}

	if _, err := r.engine.ApplyRailEvent(ctx, wh.OrderID, ev); err != nil {
		r.unresolved("bank", zap.String("order_id", wh.OrderID), zap.Error(err))
	}
}

// Settlement handles the unified rail webhook. Resolution order: rail job
// id, then the order id when the payload carries one, then the durable store
// by rail job id before giving up.
func (r *Reconciler) Settlement(ctx context.Context, wh models.SettlementWebhook) {
	var ev models.TriggerEvent
	switch wh.Event {
	case models.SettlementEventVerified, models.SettlementEventSettled, models.SettlementEventConfirmed:
		ev = models.TriggerEvent{
			Trigger: models.TriggerRailConfirmed,
			Method:  wh.Type,
			TxRef:   wh.Transaction,
		}
	case models.SettlementEventFailed, models.SettlementEventExpired:
		ev = models.TriggerEvent{
			Trigger: models.TriggerVerifyFail,
			Method:  wh.Type,
			Reason:  wh.ErrorReason,
		}
	default:
		r.logger.Warn("unknown settlement webhook event, ignored",
			zap.String("rail_job_id", wh.RailJobID), zap.String("event", wh.Event))
		return
	}

	if order := r.ledger.GetByRailJobID(wh.RailJobID); order != nil {
		r.apply(ctx, order.OrderID, ev, "settlement")
		return
	}

	if wh.OrderID != "" {
		if order := r.ledger.GetByID(wh.OrderID); order != nil {
			r.apply(ctx, order.OrderID, ev, "settlement")
			return
		}
	}

	// the order may exist only durably: merge the settlement record there
	durable, err := r.repo.GetByRailJobID(ctx, wh.RailJobID)
	if err != nil {
		if !errors.Is(err, models.ErrDataNotFound) {
			r.logger.Warn("durable lookup failed", zap.String("rail_job_id", wh.RailJobID), zap.Error(err))
		}
		r.unresolved("settlement",
			zap.String("rail_job_id", wh.RailJobID), zap.String("order_id", wh.OrderID))
		return
	}

	durable.Settlement = &models.Settlement{
		Type:    wh.Type,
		TxRef:   wh.Transaction,
		Success: ev.Trigger == models.TriggerRailConfirmed,
		Reason:  wh.ErrorReason,
	}
	if err := r.repo.UpdateStatus(ctx, durable); err != nil {
		r.logger.Warn("durable settlement merge failed",
			zap.String("rail_job_id", wh.RailJobID), zap.Error(err))
		return
	}
	r.logger.Info("settlement recorded against durable order only",
		zap.String("rail_job_id", wh.RailJobID), zap.String("order_id", durable.OrderID))
}

// Page handles the payment-page confirmation proxy, keyed by order id with a
// fallback match on the order reference. The COMPLETED short-circuit in the
// state machine keeps re-confirmation silent.
func (r *Reconciler) Page(ctx context.Context, pc models.PageConfirmation) {
	orderID := pc.OrderID
	if order := r.ledger.GetByID(orderID); order == nil {
		ref := r.ledger.GetByReference(pc.OrderID)
		if ref == nil {
			r.unresolved("payment_page", zap.String("order_id", pc.OrderID))
			return
		}
		orderID = ref.OrderID
	}

	ev := models.TriggerEvent{Trigger: models.TriggerPageConfirmed, TxRef: pc.Details}
	r.apply(ctx, orderID, ev, "payment_page")
}

func (r *Reconciler) apply(ctx context.Context, orderID string, ev models.TriggerEvent, channel string) {
	if _, err := r.engine.ApplyRailEvent(ctx, orderID, ev); err != nil {
		r.unresolved(channel, zap.String("order_id", orderID), zap.Error(err))
	}
}

func (r *Reconciler) unresolved(channel string, fields ...zap.Field) {
	fields = append(fields, zap.String("channel", channel))
	r.logger.Warn("webhook did not resolve to an order, acknowledged and dropped", fields...)
}
