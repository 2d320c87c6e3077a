// Package machine holds the order state machine as a pure transition
// function. Step never performs I/O; it mutates the order in place (the
// caller holds the per-order lock) and returns declarative effects.
package machine

import (
	"fmt"
	"time"

	"github.com/Optus-development-team/optsms-backend/internal/models"
)

// buyer-facing texts
const (
	msgNeedAmount      = "Casi listo. ¿Por cuánto es tu compra? Indícame el monto para generar tu código de pago."
	msgQRCaption       = "Escanea este código para pagar. Referencia: %s"
	msgVerifying       = "Gracias, estamos verificando tu pago. Te aviso en cuanto se confirme."
	msgConfirmed       = "¡Pago confirmado! Gracias por tu compra."
	msgVerifyFailed    = "No pudimos confirmar tu pago. Revisa el monto y la referencia %s e intenta de nuevo."
	msgAdminNeedsCode  = "El banco pide un código de verificación para %s. Responde con el código numérico para continuar."
)

// Step applies one trigger to the order and returns the outcome plus the
// ordered side effects for the caller to dispatch.
func Step(order *models.Order, ev models.TriggerEvent, now time.Time) models.StepResult {
	// COMPLETED is absorbing: no mutation, no LastUpdate touch, zero
	// effects. This is what makes re-delivery across channels safe.
	if order.Terminal() {
		return models.StepResult{Outcome: models.OutcomeCompletedNoop}
	}

	switch ev.Trigger {
	case models.TriggerCheckout:
		return stepCheckout(order, now)
	case models.TriggerQRReady:
		return stepQRReady(order, ev, now)
	case models.TriggerBuyerPaid:
		return stepBuyerPaid(order, now)
	case models.TriggerVerifyOK, models.TriggerRailConfirmed, models.TriggerPageConfirmed:
		return stepSettled(order, ev, now)
	case models.TriggerVerifyFail:
		return stepVerifyFail(order, ev, now)
	case models.Trigger2FARequired:
		return step2FARequired(order, now)
	case models.Trigger2FAResolved:
		return step2FAResolved(order, now)
	}
	return models.StepResult{Outcome: models.OutcomeNotApplicable}
}

func stepCheckout(order *models.Order, now time.Time) models.StepResult {
	if order.State != models.OrderStateCart {
		// negotiation already issued; the caller re-serves the
		// existing artifacts instead of minting new ones
		return models.StepResult{Outcome: models.OutcomeNotApplicable}
	}
	if order.Amount == nil || order.Amount.Sign() <= 0 {
		return models.StepResult{
			Outcome: models.OutcomeNeedAmount,
			Effects: []models.Effect{{Kind: models.EffectBuyerText, Text: msgNeedAmount}},
		}
	}
	order.State = models.OrderStateAwaitingQR
	order.LastUpdate = now
	return models.StepResult{
		Outcome: models.OutcomeApplied,
		Effects: []models.Effect{{Kind: models.EffectSyncDraft}},
	}
}

func stepQRReady(order *models.Order, ev models.TriggerEvent, now time.Time) models.StepResult {
	if order.State != models.OrderStateAwaitingQR {
		return models.StepResult{Outcome: models.OutcomeNotApplicable}
	}
	order.State = models.OrderStateQRSent
	order.LastUpdate = now
	return models.StepResult{
		Outcome: models.OutcomeApplied,
		Effects: []models.Effect{
			{
				Kind:     models.EffectBuyerImage,
				ImageB64: ev.QRImageB64,
				MimeType: ev.MimeType,
				Caption:  fmt.Sprintf(msgQRCaption, order.Reference),
			},
			{Kind: models.EffectSyncStatus},
		},
	}
}

func stepBuyerPaid(order *models.Order, now time.Time) models.StepResult {
	if order.State != models.OrderStateQRSent {
		return models.StepResult{Outcome: models.OutcomeNotApplicable}
	}
	order.State = models.OrderStateVerifying
	order.LastUpdate = now
	return models.StepResult{
		Outcome: models.OutcomeApplied,
		Effects: []models.Effect{
			{Kind: models.EffectBuyerText, Text: msgVerifying},
			{Kind: models.EffectSyncStatus},
		},
	}
}

// stepSettled handles a successful settlement report from any channel. The
// first rail to settle locks the method; the other rail's later reports are
// acknowledged but inert.
func stepSettled(order *models.Order, ev models.TriggerEvent, now time.Time) models.StepResult {
	if order.MethodLocked() && ev.Method != "" && ev.Method != order.SettlementMethod {
		return models.StepResult{Outcome: models.OutcomeConflict}
	}
	// settlement is only creditable once a QR/negotiation was delivered
	if order.State != models.OrderStateQRSent && order.State != models.OrderStateVerifying {
		return models.StepResult{Outcome: models.OutcomeNotApplicable}
	}
	if ev.Method != "" {
		order.SettlementMethod = ev.Method
	}
	order.State = models.OrderStateCompleted
	order.AwaitingCode = false
	order.Settlement = &models.Settlement{Type: ev.Method, TxRef: ev.TxRef, Success: true}
	order.LastUpdate = now
	return models.StepResult{
		Outcome: models.OutcomeApplied,
		Effects: []models.Effect{
			{Kind: models.EffectBuyerText, Text: msgConfirmed},
			{Kind: models.EffectSyncStatus},
		},
	}
}

func stepVerifyFail(order *models.Order, ev models.TriggerEvent, now time.Time) models.StepResult {
	if order.MethodLocked() && ev.Method != "" && ev.Method != order.SettlementMethod {
		return models.StepResult{Outcome: models.OutcomeConflict}
	}
	if order.State != models.OrderStateVerifying {
		return models.StepResult{Outcome: models.OutcomeNotApplicable}
	}
	// retry edge: back to CART with the amount kept, 2FA wait resolved
	// by the rail's own verdict
	order.State = models.OrderStateCart
	order.AwaitingCode = false
	order.Settlement = &models.Settlement{Type: ev.Method, TxRef: ev.TxRef, Reason: ev.Reason}
	order.LastUpdate = now
	return models.StepResult{
		Outcome: models.OutcomeApplied,
		Effects: []models.Effect{
			{Kind: models.EffectBuyerText, Text: fmt.Sprintf(msgVerifyFailed, order.Reference)},
			{Kind: models.EffectSyncStatus},
		},
	}
}

func step2FARequired(order *models.Order, now time.Time) models.StepResult {
	if order.State != models.OrderStateVerifying {
		return models.StepResult{Outcome: models.OutcomeNotApplicable}
	}
	order.AwaitingCode = true
	order.LastUpdate = now
	return models.StepResult{
		Outcome: models.OutcomeApplied,
		Effects: []models.Effect{
			{Kind: models.EffectAdminAlert, Text: fmt.Sprintf(msgAdminNeedsCode, order.TenantID)},
			{Kind: models.EffectSyncStatus},
		},
	}
}

func step2FAResolved(order *models.Order, now time.Time) models.StepResult {
	if !order.AwaitingCode {
		return models.StepResult{Outcome: models.OutcomeNotApplicable}
	}
	order.State = models.OrderStateVerifying
	order.AwaitingCode = false
	order.LastUpdate = now
	return models.StepResult{
		Outcome: models.OutcomeApplied,
		Effects: []models.Effect{{Kind: models.EffectSyncStatus}},
	}
}
