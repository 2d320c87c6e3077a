package repository

import (
	"context"
	"errors"

	"github.com/Optus-development-team/optsms-backend/internal/models"
	"github.com/Optus-development-team/optsms-backend/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	upsertDraftQuery = `
						INSERT INTO orders (order_id, tenant_id, buyer_id, reference, state, amount)
						VALUES ($1, $2, $3, $4, $5, $6)
						ON CONFLICT (tenant_id, reference) DO UPDATE
						SET state      = EXCLUDED.state,
						    amount     = EXCLUDED.amount,
						    updated_at = now()
						RETURNING id
`
	// settlement metadata is merged, never wholesale-replaced: an empty
	// incoming field keeps whatever an earlier update wrote
	updateStatusQuery = `
						UPDATE orders
						SET state             = $2,
						    settlement_method = CASE WHEN $3 <> '' THEN $3 ELSE settlement_method END,
						    rail_job_id       = CASE WHEN $4 <> '' THEN $4 ELSE rail_job_id END,
						    payment_url       = CASE WHEN $5 <> '' THEN $5 ELSE payment_url END,
						    settlement_type   = CASE WHEN $6 <> '' THEN $6 ELSE settlement_type END,
						    settlement_txref  = CASE WHEN $7 <> '' THEN $7 ELSE settlement_txref END,
						    settlement_ok     = COALESCE($8, settlement_ok),
						    settlement_reason = CASE WHEN $9 <> '' THEN $9 ELSE settlement_reason END,
						    updated_at        = now()
						WHERE id = $1
`
	selectByRailJobQuery = `
						SELECT id, order_id, tenant_id, buyer_id, reference, state
						FROM orders
						WHERE rail_job_id = $1
`
)

// OrderRepository mirrors ledger state into the durable store. All calls are
// best-effort: the in-memory ledger stays authoritative when the store is
// down.
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// persistedState maps the in-memory state plus flags onto the persisted
// schema, which reserves REQUIRES_2FA and FAILED variants.
func persistedState(order *models.Order) string {
	if order.AwaitingCode {
		return models.OrderStateRequires2FA
	}
	if order.State == models.OrderStateCart && order.Settlement != nil && !order.Settlement.Success {
		return models.OrderStateFailed
	}
	return order.State
}

// SyncDraft upserts the order row, keyed by tenant and reference, and
// returns the durable row id.
func (or *OrderRepository) SyncDraft(ctx context.Context, order *models.Order) (int64, error) {
	var id int64
	err := or.db.QueryRow(ctx, upsertDraftQuery,
		order.OrderID, order.TenantID, order.BuyerID, order.Reference,
		persistedState(order), order.Amount,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateStatus refreshes state and settlement metadata for an order that
// already has a durable row. Fire-and-forget from the engine's perspective.
func (or *OrderRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	if order.DurableID == nil {
		return models.ErrDataNotFound
	}

	var (
		stype, stxref, sreason string
		sok                    *bool
	)
	if s := order.Settlement; s != nil {
		stype, stxref, sreason = s.Type, s.TxRef, s.Reason
		ok := s.Success
		sok = &ok
	}

	cmd, err := or.db.Exec(ctx, updateStatusQuery,
		*order.DurableID, persistedState(order), order.SettlementMethod,
		order.RailJobID, order.PaymentURL, stype, stxref, sok, sreason,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// GetByRailJobID looks up a durably stored order by the rail's job id. Used
// as the last reconciliation fallback when an order is no longer in memory.
func (or *OrderRepository) GetByRailJobID(ctx context.Context, railJobID string) (*models.Order, error) {
	order := models.Order{}
	var id int64
	err := or.db.QueryRow(ctx, selectByRailJobQuery, railJobID).Scan(
		&id, &order.OrderID, &order.TenantID, &order.BuyerID, &order.Reference, &order.State,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	order.DurableID = &id
	order.RailJobID = railJobID

	return &order, nil
}
