package worker

import (
	"context"
	"time"

	"github.com/Optus-development-team/optsms-backend/internal/service"
	"go.uber.org/zap"
)

type OrderService interface {
	SyncJobs() <-chan service.SyncJob
	SyncOrder(ctx context.Context, job service.SyncJob)
	NotifyStaleVerifying(ctx context.Context, olderThan time.Duration)
	EvictSynced(retention time.Duration)
}

// SyncProcessor drains the engine's persistence-sync queue and runs the
// periodic staleness and retention sweeps. Transitions never wait for it.
type SyncProcessor struct {
	svc           OrderService
	logger        *zap.Logger
	staleAfter    time.Duration
	retention     time.Duration
	sweepInterval time.Duration
}

// NewSyncProcessor creates new sync processor
func NewSyncProcessor(svc OrderService, logger *zap.Logger, staleAfter, retention, sweepInterval time.Duration) *SyncProcessor {
	return &SyncProcessor{
		svc:           svc,
		logger:        logger,
		staleAfter:    staleAfter,
		retention:     retention,
		sweepInterval: sweepInterval,
	}
}

// ProcessSync mirrors ledger mutations into the durable store.
func (sp *SyncProcessor) ProcessSync(ctx context.Context) {
	jobs := sp.svc.SyncJobs()
	for {
		select {
		case <-ctx.Done():
			sp.logger.Debug("sync processor is done")
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			sp.svc.SyncOrder(ctx, job)
		}
	}
}

// ProcessSweeps runs the expiry notice and memory-retention sweeps.
func (sp *SyncProcessor) ProcessSweeps(ctx context.Context) {
	ticker := time.NewTicker(sp.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sp.logger.Debug("sweep processor is done")
			return
		case <-ticker.C:
			sp.svc.NotifyStaleVerifying(ctx, sp.staleAfter)
			sp.svc.EvictSynced(sp.retention)
		}
	}
}
