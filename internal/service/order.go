package service

import (
	"context"
	"time"

	"github.com/Optus-development-team/optsms-backend/internal/ledger"
	"github.com/Optus-development-team/optsms-backend/internal/machine"
	"github.com/Optus-development-team/optsms-backend/internal/models"
	"github.com/Optus-development-team/optsms-backend/internal/notify"
	"github.com/Optus-development-team/optsms-backend/internal/rail"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FiatRail is the bank-QR automation boundary.
type FiatRail interface {
	// GenerateQR asks the bank automation to produce a payment QR
	GenerateQR(ctx context.Context, orderID string, amount decimal.Decimal, reference, currency string) error
	// Verify asks the bank automation to check the order's payment
	Verify(ctx context.Context, orderID, reference string) error
	// SubmitSecondFactor forwards an admin code to the bank session
	SubmitSecondFactor(ctx context.Context, tenantID, code string) error
}

// UnifiedRail is the challenge/response settlement protocol boundary.
type UnifiedRail interface {
	// Negotiate opens a settlement negotiation for the order
	Negotiate(ctx context.Context, nr rail.NegotiationRequest) (*rail.NegotiationResponse, error)
}

// SyncRepository is the durable store boundary for Persistence Sync.
type SyncRepository interface {
	// SyncDraft upserts the order row and returns the durable id
	SyncDraft(ctx context.Context, order *models.Order) (int64, error)
	// UpdateStatus refreshes state and settlement metadata
	UpdateStatus(ctx context.Context, order *models.Order) error
	// GetByRailJobID looks up a durably stored order by rail job id
	GetByRailJobID(ctx context.Context, railJobID string) (*models.Order, error)
}

// SyncJob instructs the sync worker to mirror one order.
type SyncJob struct {
	OrderID string
	Draft   bool
}

// CheckoutResult is what the conversation layer relays back to the buyer.
type CheckoutResult struct {
	OrderID    string
	State      string
	Reference  string
	PaymentURL string
	NeedAmount bool
	Options    []rail.PaymentOption
}

// OrderService drives orders through the purchase state machine. All
// mutations for one order run under the ledger's per-order lock; rail HTTP
// calls are issued outside the critical section and the lock is re-acquired
// only to apply the resulting transition.
type OrderService struct {
	ledger   *ledger.Ledger
	fiat     FiatRail
	unified  UnifiedRail
	notifier notify.Notifier
	dir      notify.Directory
	repo     SyncRepository
	syncCh   chan SyncJob
	logger   *zap.Logger
	currency string
	symbol   string
}

// NewOrderService creates new OrderService instance
func NewOrderService(lg *ledger.Ledger, fiat FiatRail, unified UnifiedRail, notifier notify.Notifier, dir notify.Directory, repo SyncRepository, logger *zap.Logger, currency, symbol string) *OrderService {
	return &OrderService{
		ledger:   lg,
		fiat:     fiat,
		unified:  unified,
		notifier: notifier,
		dir:      dir,
		repo:     repo,
		syncCh:   make(chan SyncJob, 256),
		logger:   logger,
		currency: currency,
		symbol:   symbol,
	}
}

// SyncJobs exposes the queue the sync worker drains.
func (os *OrderService) SyncJobs() <-chan SyncJob { return os.syncCh }

// Checkout handles a buyer purchase trigger. It reuses the buyer's active
// order, enforces the amount guard, negotiates with the rails outside the
// order lock and applies the transition under it. A re-sent checkout while a
// negotiation is already out returns the existing artifacts unchanged.
func (os *OrderService) Checkout(ctx context.Context, req models.CheckoutRequest) (*CheckoutResult, error) {
	order := os.ledger.CreateOrder(req.TenantID, req.BuyerID)

	if req.Amount != nil {
		err := os.ledger.Do(order.OrderID, func(o *models.Order) error {
			if o.State == models.OrderStateCart {
				amt := *req.Amount
				o.Amount = &amt
				o.LastUpdate = time.Now()
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	snap := os.ledger.GetByID(order.OrderID)
	if snap == nil {
		return nil, models.ErrOrderNotFound
	}

	// negotiation already issued: no-op, hand back what exists instead of
	// minting a second conflicting QR
	if snap.State != models.OrderStateCart {
		return &CheckoutResult{
			OrderID:    snap.OrderID,
			State:      snap.State,
			Reference:  snap.Reference,
			PaymentURL: snap.PaymentURL,
		}, nil
	}

	if snap.Amount == nil || snap.Amount.Sign() <= 0 {
		res := os.applyTrigger(ctx, snap.OrderID, models.TriggerEvent{Trigger: models.TriggerCheckout})
		return &CheckoutResult{
			OrderID:    snap.OrderID,
			State:      models.OrderStateCart,
			Reference:  snap.Reference,
			NeedAmount: res.Outcome == models.OutcomeNeedAmount,
		}, nil
	}

	// rail calls happen outside the per-order lock
	nresp, err := os.unified.Negotiate(ctx, rail.NegotiationRequest{
		OrderID:   snap.OrderID,
		Amount:    *snap.Amount,
		Reference: snap.Reference,
		Currency:  os.currency,
		Symbol:    os.symbol,
	})
	if err != nil {
		os.logger.Warn("negotiation failed, order stays in cart",
			zap.String("order_id", snap.OrderID), zap.Error(err))
		return nil, models.ErrRailUnavailable
	}

	if err := os.fiat.GenerateQR(ctx, snap.OrderID, *snap.Amount, snap.Reference, os.currency); err != nil {
		// legacy rail down is not fatal; the unified negotiation stands
		os.logger.Warn("bank qr request failed", zap.String("order_id", snap.OrderID), zap.Error(err))
	}

	var (
		effects []models.Effect
		after   models.Order
	)
	err = os.ledger.Do(snap.OrderID, func(o *models.Order) error {
		// a concurrent trigger may have advanced the order meanwhile
		res := machine.Step(o, models.TriggerEvent{Trigger: models.TriggerCheckout}, time.Now())
		if !res.Applied() {
			os.logger.Debug("discarding negotiation, order moved concurrently",
				zap.String("order_id", o.OrderID), zap.String("state", o.State))
			after = *o
			return nil
		}
		o.RailJobID = nresp.RailJobID
		o.PaymentURL = nresp.PaymentURL
		effects = append(effects, res.Effects...)

		if opt := fiatOption(nresp.Options); opt != nil {
			qr := machine.Step(o, models.TriggerEvent{
				Trigger:    models.TriggerQRReady,
				QRImageB64: opt.QRImageB64,
				MimeType:   "image/png",
			}, time.Now())
			effects = append(effects, qr.Effects...)
		}
		after = *o
		return nil
	})
	if err != nil {
		return nil, err
	}

	os.dispatch(ctx, &after, effects)

	return &CheckoutResult{
		OrderID:    after.OrderID,
		State:      after.State,
		Reference:  after.Reference,
		PaymentURL: after.PaymentURL,
		Options:    nresp.Options,
	}, nil
}

func fiatOption(opts []rail.PaymentOption) *rail.PaymentOption {
	for i := range opts {
		if opts[i].Type == models.SettlementFiat && opts[i].QRImageB64 != "" {
			return &opts[i]
		}
	}
	return nil
}

// BuyerPaid handles the buyer's "I paid" message: QR_SENT moves to VERIFYING
// and the fiat rail is asked to verify. The verdict arrives later by webhook.
func (os *OrderService) BuyerPaid(ctx context.Context, tenantID, buyerID string) (models.StepResult, error) {
	cur := os.ledger.GetCurrentForBuyer(tenantID, buyerID)
	if cur == nil {
		return models.StepResult{}, models.ErrOrderNotFound
	}

	res := os.applyTrigger(ctx, cur.OrderID, models.TriggerEvent{Trigger: models.TriggerBuyerPaid})
	if res.Applied() {
		if err := os.fiat.Verify(ctx, cur.OrderID, cur.Reference); err != nil {
			// order stays in VERIFYING; the next webhook decides
			os.logger.Warn("verification request failed",
				zap.String("order_id", cur.OrderID), zap.Error(err))
		}
	}

	return res, nil
}

// ApplyRailEvent routes a reconciled webhook trigger through the state
// machine and dispatches its effects.
func (os *OrderService) ApplyRailEvent(ctx context.Context, orderID string, ev models.TriggerEvent) (models.StepResult, error) {
	e := os.ledger.GetByID(orderID)
	if e == nil {
		return models.StepResult{}, models.ErrOrderNotFound
	}
	return os.applyTrigger(ctx, orderID, ev), nil
}

// applyTrigger runs one machine step under the per-order lock, then
// dispatches the resulting effects outside it.
func (os *OrderService) applyTrigger(ctx context.Context, orderID string, ev models.TriggerEvent) models.StepResult {
	var (
		res  models.StepResult
		snap models.Order
	)
	err := os.ledger.Do(orderID, func(o *models.Order) error {
		res = machine.Step(o, ev, time.Now())
		snap = *o
		return nil
	})
	if err != nil {
		return models.StepResult{Outcome: models.OutcomeNotApplicable}
	}

	switch res.Outcome {
	case models.OutcomeConflict:
		os.logger.Info("settlement report after method lock, ignored",
			zap.String("order_id", orderID),
			zap.String("locked_method", snap.SettlementMethod),
			zap.String("reported_method", ev.Method))
	case models.OutcomeCompletedNoop:
		os.logger.Debug("event for completed order, absorbed",
			zap.String("order_id", orderID), zap.String("trigger", string(ev.Trigger)))
	case models.OutcomeNotApplicable:
		os.logger.Debug("trigger not applicable in current state",
			zap.String("order_id", orderID),
			zap.String("trigger", string(ev.Trigger)),
			zap.String("state", snap.State))
	}

	os.dispatch(ctx, &snap, res.Effects)
	return res
}

// dispatch performs the machine's declarative effects in order. Delivery
// failures are logged, never propagated: the transition has already been
// applied.
func (os *OrderService) dispatch(ctx context.Context, order *models.Order, effects []models.Effect) {
	for _, ef := range effects {
		switch ef.Kind {
		case models.EffectBuyerText:
			if err := os.notifier.SendText(ctx, order.BuyerID, ef.Text); err != nil {
				os.logger.Warn("buyer message delivery failed",
					zap.String("order_id", order.OrderID), zap.Error(err))
			}
		case models.EffectBuyerImage:
			if err := os.notifier.SendImage(ctx, order.BuyerID, ef.ImageB64, ef.MimeType, ef.Caption); err != nil {
				os.logger.Warn("buyer image delivery failed",
					zap.String("order_id", order.OrderID), zap.Error(err))
			}
		case models.EffectAdminAlert:
			os.alertAdmins(ctx, order, ef.Text)
		case models.EffectSyncDraft:
			os.enqueueSync(SyncJob{OrderID: order.OrderID, Draft: true})
		case models.EffectSyncStatus:
			os.enqueueSync(SyncJob{OrderID: order.OrderID})
		}
	}
}

func (os *OrderService) alertAdmins(ctx context.Context, order *models.Order, text string) {
	admins, err := os.dir.TenantAdmins(ctx, order.TenantID)
	if err != nil {
		os.logger.Error("admin directory lookup failed",
			zap.String("tenant_id", order.TenantID), zap.Error(err))
		return
	}
	for _, admin := range admins {
		if err := os.notifier.SendText(ctx, admin, text); err != nil {
			os.logger.Warn("admin alert delivery failed",
				zap.String("tenant_id", order.TenantID), zap.String("admin", admin), zap.Error(err))
		}
	}
	if err := os.dir.SetTenantAttention(ctx, order.TenantID, true); err != nil {
		os.logger.Warn("attention flag update failed",
			zap.String("tenant_id", order.TenantID), zap.Error(err))
	}
}

func (os *OrderService) enqueueSync(job SyncJob) {
	select {
	case os.syncCh <- job:
	default:
		os.logger.Warn("sync queue full, dropping job", zap.String("order_id", job.OrderID))
	}
}

// SyncOrder mirrors one order into the durable store. Store failures are
// warnings; in-memory authority continues either way.
func (os *OrderService) SyncOrder(ctx context.Context, job SyncJob) {
	snap := os.ledger.GetByID(job.OrderID)
	if snap == nil {
		return
	}

	if job.Draft || snap.DurableID == nil {
		id, err := os.repo.SyncDraft(ctx, snap)
		if err != nil {
			os.logger.Warn("draft sync failed", zap.String("order_id", job.OrderID), zap.Error(err))
			return
		}
		_ = os.ledger.Do(job.OrderID, func(o *models.Order) error {
			if o.DurableID == nil {
				o.DurableID = &id
			}
			return nil
		})
		snap = os.ledger.GetByID(job.OrderID)
		if snap == nil {
			return
		}
	}

	if !job.Draft {
		if err := os.repo.UpdateStatus(ctx, snap); err != nil {
			os.logger.Warn("status sync failed", zap.String("order_id", job.OrderID), zap.Error(err))
		}
	}
}

// NotifyStaleVerifying tells buyers whose orders sat in VERIFYING past the
// threshold that the check is still running. The engine never times an order
// out by itself.
func (os *OrderService) NotifyStaleVerifying(ctx context.Context, olderThan time.Duration) {
	stale := os.ledger.StaleVerifying(time.Now().Add(-olderThan))
	for _, o := range stale {
		if err := os.notifier.SendText(ctx, o.BuyerID, "Seguimos verificando tu pago. Si ya pagaste, no necesitas hacer nada más."); err != nil {
			os.logger.Warn("stale notice delivery failed", zap.String("order_id", o.OrderID), zap.Error(err))
		}
	}
}

// EvictSynced drops terminal, durably synced orders untouched for the
// retention window out of memory.
func (os *OrderService) EvictSynced(retention time.Duration) {
	if n := os.ledger.SweepCompleted(time.Now().Add(-retention)); n > 0 {
		os.logger.Debug("evicted synced terminal orders", zap.Int("count", n))
	}
}
