package metrics

import (
	"context"
	"log/slog"
	"time"
)

// RetentionWorker periodically prunes attendance records past the retention
// period.
type RetentionWorker struct {
	repo      *Repository
	logger    *slog.Logger
	interval  time.Duration
	retention time.Duration
	done      chan struct{}
}

// NewRetentionWorker creates a retention worker. Interval defaults to one
// hour when zero.
func NewRetentionWorker(repo *Repository, logger *slog.Logger, interval, retention time.Duration) *RetentionWorker {
	if interval == 0 {
		interval = 1 * time.Hour
	}

	return &RetentionWorker{
		repo:      repo,
		logger:    logger,
		interval:  interval,
		retention: retention,
		done:      make(chan struct{}),
	}
}

// Start begins the retention worker
func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("retention worker started",
		"interval", w.interval,
		"retention", w.retention,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("retention worker stopped")
			return
		case <-w.done:
			w.logger.Info("retention worker stopped")
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

// Stop gracefully shuts down the worker
func (w *RetentionWorker) Stop() {
	close(w.done)
}

func (w *RetentionWorker) prune(ctx context.Context) {
	deleted, err := w.repo.DeleteOldRecords(ctx, w.retention)
	if err != nil {
		w.logger.Error("failed to delete old attendance records", "error", err)
		return
	}

	if deleted > 0 {
		w.logger.Info("deleted old attendance records", "count", deleted)
	}
}
