package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EngagementRefresher defines the interface for refreshing stale engagement counters
type EngagementRefresher interface {
	ProcessStaleEngagement(ctx context.Context) error
}

// MetricPruner defines the interface for deleting expired daily metric rows
type MetricPruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler periodically refreshes engagement counters for stale posts and
// prunes daily metric rows past the retention window
type Scheduler struct {
	refresher EngagementRefresher
	pruner    MetricPruner
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// New creates a new scheduler. The pruner may be nil or retention zero to
// disable the retention pass.
func New(refresher EngagementRefresher, pruner MetricPruner, interval, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		pruner:    pruner,
		interval:  interval,
		retention: retention,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("maintenance scheduler started", "interval", s.interval)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("maintenance scheduler stopped")
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	s.logger.Debug("refreshing stale engagement counters")

	if err := s.refresher.ProcessStaleEngagement(ctx); err != nil {
		s.logger.Error("failed to refresh engagement counters", "error", err)
	}

	if s.pruner == nil || s.retention <= 0 {
		return
	}

	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.pruner.PruneOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to prune expired metrics", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("pruned expired metrics", "deleted", deleted)
	}
}
