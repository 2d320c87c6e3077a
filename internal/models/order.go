package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/shopspring/decimal"
)

// order state
const (
	OrderStateCart       = "CART"
	OrderStateAwaitingQR = "AWAITING_QR"
	OrderStateQRSent     = "QR_SENT"
	OrderStateVerifying  = "VERIFYING"
	OrderStateCompleted  = "COMPLETED"

	// persisted-only variants, never held by an in-memory order
	OrderStateFailed      = "FAILED"
	OrderStateRequires2FA = "REQUIRES_2FA"
)

// settlement method, write-once per order
const (
	SettlementUnset  = ""
	SettlementFiat   = "fiat"
	SettlementCrypto = "crypto"
)

// Settlement is the rail's confirmation record, merged additively
// into the durable row and never wholesale-replaced.
type Settlement struct {
	Type    string
	TxRef   string
	Success bool
	Reason  string
}

// Order is the canonical purchase record. All events about one purchase,
// regardless of which channel reported them, must resolve to one Order.
type Order struct {
	OrderID          string
	TenantID         string
	BuyerID          string
	State            string
	Amount           *decimal.Decimal
	Reference        string
	SettlementMethod string
	RailJobID        string
	PaymentURL       string
	AwaitingCode     bool
	Settlement       *Settlement
	LastUpdate       time.Time
	CreatedAt        time.Time
	DurableID        *int64
}

// Terminal reports whether the order can no longer transition.
func (o *Order) Terminal() bool {
	return o.State == OrderStateCompleted
}

// MethodLocked reports whether a rail has already won settlement.
func (o *Order) MethodLocked() bool {
	return o.SettlementMethod != SettlementUnset
}

// NewReference derives the tenant-scoped memo string that the external rail
// embeds in its bank records. It is stable for the life of the order and
// unique within the tenant.
func NewReference(tenantID string, createdAt time.Time) string {
	sum := sha256.Sum256([]byte(tenantID + createdAt.UTC().Format(time.RFC3339Nano)))
	return "OP-" + hex.EncodeToString(sum[:4])
}
