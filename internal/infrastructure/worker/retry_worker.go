package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
)

// RetryWorkerConfig holds configuration for the notification retry worker
type RetryWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	SendTimeout  time.Duration
}

// DefaultRetryWorkerConfig returns default configuration
func DefaultRetryWorkerConfig() RetryWorkerConfig {
	return RetryWorkerConfig{
		PollInterval: 30 * time.Second,
		BatchSize:    20,
		SendTimeout:  10 * time.Second,
	}
}

// RetryWorker periodically re-attempts delivery of failed outbox
// notifications. Lifecycle transitions swallow delivery errors, so a
// transient outage leaves FAILED rows behind; this worker is the only
// path that drains them.
type RetryWorker struct {
	config        RetryWorkerConfig
	notifications port.NotificationRepository
	notifier      port.Notifier
	logger        *zap.Logger

	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool

	retriedCount int
	failedCount  int
}

// NewRetryWorker creates a notification retry worker
func NewRetryWorker(
	config RetryWorkerConfig,
	notifications port.NotificationRepository,
	notifier port.Notifier,
	logger *zap.Logger,
) *RetryWorker {
	return &RetryWorker{
		config:        config,
		notifications: notifications,
		notifier:      notifier,
		logger:        logger,
	}
}

// Start begins the worker polling loop
func (w *RetryWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("retry worker already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("RetryWorker started",
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.Int("batch_size", w.config.BatchSize))

	go w.pollLoop()

	return nil
}

// Stop gracefully terminates the worker
func (w *RetryWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}

	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	w.logger.Info("RetryWorker stopped",
		zap.Int("retried_count", w.retriedCount),
		zap.Int("failed_count", w.failedCount))

	return nil
}

// Name returns the worker name for identification
func (w *RetryWorker) Name() string {
	return "NotificationRetryWorker"
}

func (w *RetryWorker) pollLoop() {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			if err := w.retryBatch(); err != nil {
				w.logger.Error("Failed to retry notification batch", zap.Error(err))
			}
		}
	}
}

// retryBatch re-sends one batch of failed notifications. Rows that fail
// again keep their FAILED status with the latest error recorded.
func (w *RetryWorker) retryBatch() error {
	ctx := w.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	failed, err := w.notifications.ListFailed(ctx, w.config.BatchSize)
	if err != nil {
		return fmt.Errorf("list failed notifications: %w", err)
	}
	if len(failed) == 0 {
		return nil
	}

	w.logger.Info("Retrying failed notifications", zap.Int("count", len(failed)))

	for _, n := range failed {
		sendCtx, cancel := context.WithTimeout(ctx, w.config.SendTimeout)
		err := w.notifier.Notify(sendCtx, n.UserID, n.Kind, n.RequestID, n.Message)
		cancel()

		if err != nil {
			w.mu.Lock()
			w.failedCount++
			w.mu.Unlock()
			if markErr := w.notifications.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
				w.logger.Error("Failed to record retry failure",
					zap.Int64("notification_id", n.ID), zap.Error(markErr))
			}
			continue
		}

		if err := w.notifications.MarkSent(ctx, n.ID); err != nil {
			w.logger.Error("Failed to mark notification sent",
				zap.Int64("notification_id", n.ID), zap.Error(err))
			continue
		}
		w.mu.Lock()
		w.retriedCount++
		w.mu.Unlock()
	}

	return nil
}
