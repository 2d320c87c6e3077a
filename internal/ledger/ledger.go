package ledger

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/Optus-development-team/optsms-backend/internal/models"
	"github.com/google/uuid"
)

const numShards = 32

type entry struct {
	mu    sync.Mutex
	order *models.Order
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// Ledger is the in-memory authoritative store of active orders. Entries are
// sharded by order id so that operations on different orders do not contend;
// all mutations to a single order run under that order's own mutex via Do.
type Ledger struct {
	shards [numShards]*shard

	// secondary indexes, maintained incrementally on every mutation
	idxMu     sync.RWMutex
	byBuyer   map[string]string              // tenant+buyer -> current order id
	byRailJob map[string]string              // rail job id -> order id
	byRef     map[string]string              // reference -> order id
	pending   map[string]map[string]time.Time // tenant -> order ids awaiting 2FA
}

// New creates an empty ledger.
func New() *Ledger {
	l := &Ledger{
		byBuyer:   make(map[string]string),
		byRailJob: make(map[string]string),
		byRef:     make(map[string]string),
		pending:   make(map[string]map[string]time.Time),
	}
	for i := range l.shards {
		l.shards[i] = &shard{entries: make(map[string]*entry)}
	}
	return l
}

func buyerKey(tenantID, buyerID string) string {
	return tenantID + "|" + buyerID
}

func (l *Ledger) shardFor(orderID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(orderID))
	return l.shards[h.Sum32()%numShards]
}

// CreateOrder returns the buyer's current active order, creating a fresh one
// when none exists or the previous one is terminal. Exactly one order per
// (tenant, buyer) pair is ever non-terminal.
func (l *Ledger) CreateOrder(tenantID, buyerID string) *models.Order {
	l.idxMu.Lock()
	defer l.idxMu.Unlock()

	key := buyerKey(tenantID, buyerID)
	if id, ok := l.byBuyer[key]; ok {
		if cur := l.getCopy(id); cur != nil && !cur.Terminal() {
			return cur
		}
	}

	now := time.Now()
	order := &models.Order{
		OrderID:    uuid.NewString(),
		TenantID:   tenantID,
		BuyerID:    buyerID,
		State:      models.OrderStateCart,
		Reference:  models.NewReference(tenantID, now),
		CreatedAt:  now,
		LastUpdate: now,
	}

	sh := l.shardFor(order.OrderID)
	sh.mu.Lock()
	sh.entries[order.OrderID] = &entry{order: order}
	sh.mu.Unlock()

	// supersede the current-cart pointer; the previous order stays in the
	// ledger, resolvable by id, until swept
	l.byBuyer[key] = order.OrderID
	l.byRef[order.Reference] = order.OrderID

	cp := *order
	return &cp
}

func (l *Ledger) lookup(orderID string) *entry {
	sh := l.shardFor(orderID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.entries[orderID]
}

func (l *Ledger) getCopy(orderID string) *models.Order {
	e := l.lookup(orderID)
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := *e.order
	return &cp
}

// GetByID returns a snapshot of the order, or nil when the id is unknown.
// Absence is not an error; the order may exist only in the durable store.
func (l *Ledger) GetByID(orderID string) *models.Order {
	return l.getCopy(orderID)
}

// GetCurrentForBuyer returns a snapshot of the buyer's current order, or nil.
func (l *Ledger) GetCurrentForBuyer(tenantID, buyerID string) *models.Order {
	l.idxMu.RLock()
	id, ok := l.byBuyer[buyerKey(tenantID, buyerID)]
	l.idxMu.RUnlock()
	if !ok {
		return nil
	}
	return l.getCopy(id)
}

// GetByRailJobID resolves an order through the rail's own job identifier.
func (l *Ledger) GetByRailJobID(railJobID string) *models.Order {
	l.idxMu.RLock()
	id, ok := l.byRailJob[railJobID]
	l.idxMu.RUnlock()
	if !ok {
		return nil
	}
	return l.getCopy(id)
}

// GetByReference resolves an order through its reconciliation memo string.
func (l *Ledger) GetByReference(ref string) *models.Order {
	l.idxMu.RLock()
	id, ok := l.byRef[ref]
	l.idxMu.RUnlock()
	if !ok {
		return nil
	}
	return l.getCopy(id)
}

// PendingSecondFactor returns the id of the tenant's order awaiting a second
// factor code. With more than one candidate the oldest wins; the caller is
// expected to log the ambiguity.
func (l *Ledger) PendingSecondFactor(tenantID string) (orderID string, n int) {
	l.idxMu.RLock()
	defer l.idxMu.RUnlock()

	set := l.pending[tenantID]
	var oldest time.Time
	for id, at := range set {
		if orderID == "" || at.Before(oldest) {
			orderID, oldest = id, at
		}
	}
	return orderID, len(set)
}

// Do runs fn on the order under its per-order mutex. Secondary indexes are
// reconciled after fn returns. Returns ErrOrderNotFound for unknown ids.
func (l *Ledger) Do(orderID string, fn func(*models.Order) error) error {
	e := l.lookup(orderID)
	if e == nil {
		return models.ErrOrderNotFound
	}

	e.mu.Lock()
	preJob := e.order.RailJobID
	preAwaiting := e.order.AwaitingCode
	err := fn(e.order)
	postJob := e.order.RailJobID
	postAwaiting := e.order.AwaitingCode
	tenantID := e.order.TenantID
	createdAt := e.order.CreatedAt
	e.mu.Unlock()

	if preJob != postJob || preAwaiting != postAwaiting {
		l.idxMu.Lock()
		if preJob != postJob {
			if preJob != "" {
				delete(l.byRailJob, preJob)
			}
			if postJob != "" {
				l.byRailJob[postJob] = orderID
			}
		}
		if preAwaiting != postAwaiting {
			if postAwaiting {
				if l.pending[tenantID] == nil {
					l.pending[tenantID] = make(map[string]time.Time)
				}
				l.pending[tenantID][orderID] = createdAt
			} else {
				delete(l.pending[tenantID], orderID)
				if len(l.pending[tenantID]) == 0 {
					delete(l.pending, tenantID)
				}
			}
		}
		l.idxMu.Unlock()
	}

	return err
}

// StaleVerifying returns snapshots of orders sitting in VERIFYING whose last
// update is older than the cutoff. Used by the expiry sweep.
func (l *Ledger) StaleVerifying(cutoff time.Time) []models.Order {
	var stale []models.Order
	for _, sh := range l.shards {
		sh.mu.RLock()
		ids := make([]string, 0, len(sh.entries))
		for id := range sh.entries {
			ids = append(ids, id)
		}
		sh.mu.RUnlock()

		for _, id := range ids {
			o := l.getCopy(id)
			if o != nil && o.State == models.OrderStateVerifying && o.LastUpdate.Before(cutoff) {
				stale = append(stale, *o)
			}
		}
	}
	return stale
}

// SweepCompleted evicts terminal orders untouched since the cutoff, provided
// they have been durably synced. Returns the number evicted.
func (l *Ledger) SweepCompleted(cutoff time.Time) int {
	var evicted int
	for _, sh := range l.shards {
		var victims []models.Order
		sh.mu.Lock()
		for id, e := range sh.entries {
			e.mu.Lock()
			o := *e.order
			e.mu.Unlock()
			if o.Terminal() && o.DurableID != nil && o.LastUpdate.Before(cutoff) {
				delete(sh.entries, id)
				victims = append(victims, o)
			}
		}
		sh.mu.Unlock()

		if len(victims) == 0 {
			continue
		}
		l.idxMu.Lock()
		for _, o := range victims {
			if l.byBuyer[buyerKey(o.TenantID, o.BuyerID)] == o.OrderID {
				delete(l.byBuyer, buyerKey(o.TenantID, o.BuyerID))
			}
			delete(l.byRef, o.Reference)
			if o.RailJobID != "" {
				delete(l.byRailJob, o.RailJobID)
			}
		}
		l.idxMu.Unlock()
		evicted += len(victims)
	}
	return evicted
}
