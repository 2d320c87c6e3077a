package models

import "github.com/shopspring/decimal"

// Trigger identifies the cause of a state machine step.
type Trigger string

const (
	TriggerCheckout      Trigger = "checkout"
	TriggerBuyerPaid     Trigger = "buyer_paid"
	TriggerQRReady       Trigger = "qr_ready"
	TriggerVerifyOK      Trigger = "verify_ok"
	TriggerVerifyFail    Trigger = "verify_fail"
	Trigger2FARequired   Trigger = "second_factor_required"
	Trigger2FAResolved   Trigger = "second_factor_resolved"
	TriggerRailConfirmed Trigger = "rail_confirmed"
	TriggerPageConfirmed Trigger = "page_confirmed"
)

// TriggerEvent carries a trigger plus the channel payload the step may need.
type TriggerEvent struct {
	Trigger    Trigger
	Method     string // settlement method the reporting rail speaks for
	TxRef      string
	Reason     string
	QRImageB64 string
	MimeType   string
}

// effect kinds
const (
	EffectBuyerText  = "buyer_text"
	EffectBuyerImage = "buyer_image"
	EffectAdminAlert = "admin_alert"
	EffectSyncDraft  = "sync_draft"
	EffectSyncStatus = "sync_status"
)

// Effect is a declarative side effect produced by a state machine step.
// The machine never performs I/O; the caller dispatches these in order.
type Effect struct {
	Kind     string
	Text     string
	ImageB64 string
	MimeType string
	Caption  string
}

// step outcomes
const (
	OutcomeApplied       = "applied"
	OutcomeCompletedNoop = "completed_noop"
	OutcomeConflict      = "method_conflict"
	OutcomeNotApplicable = "not_applicable"
	OutcomeNeedAmount    = "need_amount"
)

// StepResult is the machine's verdict for one trigger.
type StepResult struct {
	Outcome string
	Effects []Effect
}

// Applied reports whether the order was mutated.
func (r StepResult) Applied() bool { return r.Outcome == OutcomeApplied }

// BankWebhook is the legacy rail notification, keyed by order id.
type BankWebhook struct {
	OrderID   string `json:"orderId"`
	EventType string `json:"eventType"` // QR_GENERATED | VERIFICATION_RESULT | LOGIN_2FA_REQUIRED
	Success   *bool  `json:"success,omitempty"`
	QRImage   string `json:"qrImage,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
}

// legacy rail event tags
const (
	BankEventQRGenerated  = "QR_GENERATED"
	BankEventVerification = "VERIFICATION_RESULT"
	BankEvent2FARequired  = "LOGIN_2FA_REQUIRED"
)

// SettlementWebhook is the unified rail notification, keyed by rail job id.
type SettlementWebhook struct {
	RailJobID   string `json:"railJobId"`
	OrderID     string `json:"orderId,omitempty"`
	Event       string `json:"event"` // VERIFIED | SETTLED | CONFIRMED | FAILED | EXPIRED
	Type        string `json:"type"`  // fiat | crypto
	Transaction string `json:"transaction,omitempty"`
	ErrorReason string `json:"errorReason,omitempty"`
}

// unified rail event tags
const (
	SettlementEventVerified  = "VERIFIED"
	SettlementEventSettled   = "SETTLED"
	SettlementEventConfirmed = "CONFIRMED"
	SettlementEventFailed    = "FAILED"
	SettlementEventExpired   = "EXPIRED"
)

// PageConfirmation is the payment-page confirmation proxy, keyed by order id
// with a fallback match on the order reference.
type PageConfirmation struct {
	OrderID string `json:"orderId"`
	Details string `json:"details,omitempty"`
}

// CheckoutRequest is the buyer trigger produced by the external
// intent/amount extractor.
type CheckoutRequest struct {
	TenantID string           `json:"tenantId"`
	BuyerID  string           `json:"buyerId"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Intent   string           `json:"intent,omitempty"`
}
