package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/Optus-development-team/optsms-backend/internal/ledger"
	"github.com/Optus-development-team/optsms-backend/internal/machine"
	"github.com/Optus-development-team/optsms-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type appliedEvent struct {
	orderID string
	ev      models.TriggerEvent
}

// testEngine applies triggers through the real state machine under the
// ledger's per-order lock, recording every call.
type testEngine struct {
	l     *ledger.Ledger
	calls []appliedEvent
}

func (e *testEngine) ApplyRailEvent(_ context.Context, orderID string, ev models.TriggerEvent) (models.StepResult, error) {
	e.calls = append(e.calls, appliedEvent{orderID: orderID, ev: ev})
	var res models.StepResult
	err := e.l.Do(orderID, func(o *models.Order) error {
		res = machine.Step(o, ev, time.Now())
		return nil
	})
	return res, err
}

type stubDurable struct {
	order   *models.Order
	lookups int
	updates []models.Order
}

func (s *stubDurable) GetByRailJobID(_ context.Context, _ string) (*models.Order, error) {
	s.lookups++
	if s.order == nil {
		return nil, models.ErrDataNotFound
	}
	cp := *s.order
	return &cp, nil
}

func (s *stubDurable) UpdateStatus(_ context.Context, order *models.Order) error {
	s.updates = append(s.updates, *order)
	return nil
}

func setup(t *testing.T) (*Reconciler, *ledger.Ledger, *testEngine, *stubDurable) {
	t.Helper()
	l := ledger.New()
	engine := &testEngine{l: l}
	durable := &stubDurable{}
	return NewReconciler(l, engine, durable, zap.NewNop()), l, engine, durable
}

func advance(t *testing.T, l *ledger.Ledger, orderID, state string) {
	t.Helper()
	require.NoError(t, l.Do(orderID, func(o *models.Order) error {
		o.State = state
		return nil
	}))
}

func TestBank_ResolvesByOrderID(t *testing.T) {
	r, l, engine, _ := setup(t)
	order := l.CreateOrder("tenant-1", "buyer-1")
	advance(t, l, order.OrderID, models.OrderStateAwaitingQR)

	r.Bank(context.Background(), models.BankWebhook{
		OrderID:   order.OrderID,
		EventType: models.BankEventQRGenerated,
		QRImage:   "aW1hZ2U=",
		MimeType:  "image/png",
	})

	require.Len(t, engine.calls, 1)
	assert.Equal(t, models.TriggerQRReady, engine.calls[0].ev.Trigger)
	assert.Equal(t, "aW1hZ2U=", engine.calls[0].ev.QRImageB64)

	got := l.GetByID(order.OrderID)
	require.NotNil(t, got)
	assert.Equal(t, models.OrderStateQRSent, got.State)
}

func TestBank_VerificationResultMapsSuccess(t *testing.T) {
	tests := []struct {
		name        string
		success     bool
		wantTrigger models.Trigger
	}{
		{name: "success", success: true, wantTrigger: models.TriggerVerifyOK},
		{name: "failure", success: false, wantTrigger: models.TriggerVerifyFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, l, engine, _ := setup(t)
			order := l.CreateOrder("tenant-1", "buyer-1")
			advance(t, l, order.OrderID, models.OrderStateVerifying)

			r.Bank(context.Background(), models.BankWebhook{
				OrderID:   order.OrderID,
				EventType: models.BankEventVerification,
				Success:   &tt.success,
			})

			require.Len(t, engine.calls, 1)
			assert.Equal(t, tt.wantTrigger, engine.calls[0].ev.Trigger)
			assert.Equal(t, models.SettlementFiat, engine.calls[0].ev.Method)
		})
	}
}

func TestBank_UnknownOrderIsDropped(t *testing.T) {
	r, _, engine, _ := setup(t)

	r.Bank(context.Background(), models.BankWebhook{
		OrderID:   "no-such-order",
		EventType: models.BankEventQRGenerated,
	})

	assert.Empty(t, engine.calls)
}

func TestSettlement_ResolvesByRailJobID(t *testing.T) {
	r, l, engine, _ := setup(t)
	order := l.CreateOrder("tenant-1", "buyer-1")
	advance(t, l, order.OrderID, models.OrderStateVerifying)
	require.NoError(t, l.Do(order.OrderID, func(o *models.Order) error {
		o.RailJobID = "job-77"
		return nil
	}))

	// no orderId in the payload at all
	r.Settlement(context.Background(), models.SettlementWebhook{
		RailJobID:   "job-77",
		Event:       models.SettlementEventConfirmed,
		Type:        models.SettlementCrypto,
		Transaction: "0xdeadbeef",
	})

	require.Len(t, engine.calls, 1)
	assert.Equal(t, order.OrderID, engine.calls[0].orderID)

	got := l.GetByID(order.OrderID)
	require.NotNil(t, got)
	assert.Equal(t, models.OrderStateCompleted, got.State)
	assert.Equal(t, models.SettlementCrypto, got.SettlementMethod)
}

func TestSettlement_FallsBackToOrderID(t *testing.T) {
	r, l, engine, _ := setup(t)
	order := l.CreateOrder("tenant-1", "buyer-1")
	advance(t, l, order.OrderID, models.OrderStateVerifying)

	// the ledger never saw this job id, but the payload carries the order id
	r.Settlement(context.Background(), models.SettlementWebhook{
		RailJobID: "job-unseen",
		OrderID:   order.OrderID,
		Event:     models.SettlementEventSettled,
		Type:      models.SettlementFiat,
	})

	require.Len(t, engine.calls, 1)
	assert.Equal(t, order.OrderID, engine.calls[0].orderID)
}

func TestSettlement_DurableFallbackMergesRecord(t *testing.T) {
	r, _, engine, durable := setup(t)
	id := int64(7)
	durable.order = &models.Order{
		OrderID:   "rolled-out",
		TenantID:  "tenant-1",
		BuyerID:   "buyer-1",
		State:     models.OrderStateVerifying,
		RailJobID: "job-old",
		DurableID: &id,
	}

	r.Settlement(context.Background(), models.SettlementWebhook{
		RailJobID:   "job-old",
		Event:       models.SettlementEventConfirmed,
		Type:        models.SettlementFiat,
		Transaction: "tx-55",
	})

	// no in-memory transition, but the settlement record lands durably
	assert.Empty(t, engine.calls)
	assert.Equal(t, 1, durable.lookups)
	require.Len(t, durable.updates, 1)
	require.NotNil(t, durable.updates[0].Settlement)
	assert.True(t, durable.updates[0].Settlement.Success)
	assert.Equal(t, "tx-55", durable.updates[0].Settlement.TxRef)
}

func TestSettlement_UnresolvedIsDropped(t *testing.T) {
	r, _, engine, durable := setup(t)

	r.Settlement(context.Background(), models.SettlementWebhook{
		RailJobID: "job-nowhere",
		Event:     models.SettlementEventConfirmed,
		Type:      models.SettlementCrypto,
	})

	assert.Empty(t, engine.calls)
	assert.Equal(t, 1, durable.lookups)
	assert.Empty(t, durable.updates)
}

func TestSettlement_FailureMapsToRetryEdge(t *testing.T) {
	r, l, engine, _ := setup(t)
	order := l.CreateOrder("tenant-1", "buyer-1")
	advance(t, l, order.OrderID, models.OrderStateVerifying)
	require.NoError(t, l.Do(order.OrderID, func(o *models.Order) error {
		o.RailJobID = "job-77"
		return nil
	}))

	r.Settlement(context.Background(), models.SettlementWebhook{
		RailJobID:   "job-77",
		Event:       models.SettlementEventExpired,
		Type:        models.SettlementCrypto,
		ErrorReason: "challenge expired",
	})

	require.Len(t, engine.calls, 1)
	assert.Equal(t, models.TriggerVerifyFail, engine.calls[0].ev.Trigger)
	assert.Equal(t, "challenge expired", engine.calls[0].ev.Reason)

	got := l.GetByID(order.OrderID)
	require.NotNil(t, got)
	assert.Equal(t, models.OrderStateCart, got.State)
}

func TestPage_ResolvesByOrderID(t *testing.T) {
	r, l, engine, _ := setup(t)
	order := l.CreateOrder("tenant-1", "buyer-1")
	advance(t, l, order.OrderID, models.OrderStateVerifying)

	r.Page(context.Background(), models.PageConfirmation{OrderID: order.OrderID, Details: "paid at 14:02"})

	require.Len(t, engine.calls, 1)
	assert.Equal(t, models.TriggerPageConfirmed, engine.calls[0].ev.Trigger)

	got := l.GetByID(order.OrderID)
	require.NotNil(t, got)
	assert.Equal(t, models.OrderStateCompleted, got.State)
}

func TestPage_FallsBackToReference(t *testing.T) {
	r, l, engine, _ := setup(t)
	order := l.CreateOrder("tenant-1", "buyer-1")
	advance(t, l, order.OrderID, models.OrderStateVerifying)

	// the page relays the reference, not a valid order id
	r.Page(context.Background(), models.PageConfirmation{OrderID: order.Reference})

	require.Len(t, engine.calls, 1)
	assert.Equal(t, order.OrderID, engine.calls[0].orderID)
}

func TestPage_CompletedOrderStaysSilent(t *testing.T) {
	r, l, engine, _ := setup(t)
	order := l.CreateOrder("tenant-1", "buyer-1")
	advance(t, l, order.OrderID, models.OrderStateCompleted)

	r.Page(context.Background(), models.PageConfirmation{OrderID: order.OrderID})

	// routed, but the machine absorbs it with zero effects
	require.Len(t, engine.calls, 1)
	got := l.GetByID(order.OrderID)
	require.NotNil(t, got)
	assert.Equal(t, models.OrderStateCompleted, got.State)
}

func TestPage_UnresolvedIsDropped(t *testing.T) {
	r, _, engine, _ := setup(t)
	r.Page(context.Background(), models.PageConfirmation{OrderID: "nothing"})
	assert.Empty(t, engine.calls)
}

func TestUnknownEventTagsAreIgnored(t *testing.T) {
	r, l, engine, _ := setup(t)
	order := l.CreateOrder("tenant-1", "buyer-1")

	r.Bank(context.Background(), models.BankWebhook{OrderID: order.OrderID, EventType: "SOMETHING_ELSE"})
	r.Settlement(context.Background(), models.SettlementWebhook{RailJobID: "job-1", Event: "BOGUS"})

	assert.Empty(t, engine.calls)
}
