package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adhocore/gronx"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/core/ports/driving"
	"github.com/custodia-labs/lexcore/internal/versioning"
)

const (
	// MonitorLockName is the distributed lock held during a check pass
	MonitorLockName = "change-monitor"

	// DefaultMonitorSchedule runs a check pass every fifteen minutes
	DefaultMonitorSchedule = "*/15 * * * *"
)

// ChangeMonitor polls the sources of documents whose next check date has
// passed. Documents found changed are queued for refresh, or refreshed
// inline when no task queue is configured.
//
// For multi-instance deployments configure a DistributedLock so each pass
// runs on one instance only.
type ChangeMonitor struct {
	checks    driven.ChangeDetectionStore
	checker   driven.ChangeChecker
	taskQueue driven.TaskQueue
	lineage   driving.LineageService
	lock      driven.DistributedLock
	clock     domain.Clock
	logger    *slog.Logger

	schedule string
	lockTTL  time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// ChangeMonitorConfig holds configuration for the change monitor.
type ChangeMonitorConfig struct {
	Checks  driven.ChangeDetectionStore
	Checker driven.ChangeChecker

	// At least one of TaskQueue and Lineage should be set for changes to
	// have an effect. TaskQueue wins when both are.
	TaskQueue driven.TaskQueue
	Lineage   driving.LineageService

	Lock     driven.DistributedLock // Optional
	Clock    domain.Clock
	Logger   *slog.Logger
	Schedule string        // cron expression (default: every 15 minutes)
	LockTTL  time.Duration // default: 5m
}

// NewChangeMonitor creates a change monitor. An invalid cron schedule is
// rejected.
func NewChangeMonitor(cfg ChangeMonitorConfig) (*ChangeMonitor, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = domain.SystemClock{}
	}

	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultMonitorSchedule
	}
	cron := gronx.New()
	if !cron.IsValid(schedule) {
		return nil, fmt.Errorf("%w: invalid monitor schedule %q", domain.ErrInvalidInput, schedule)
	}

	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = 5 * time.Minute
	}

	return &ChangeMonitor{
		checks:    cfg.Checks,
		checker:   cfg.Checker,
		taskQueue: cfg.TaskQueue,
		lineage:   cfg.Lineage,
		lock:      cfg.Lock,
		clock:     clock,
		logger:    logger,
		schedule:  schedule,
		lockTTL:   lockTTL,
	}, nil
}

// Start begins the monitor loop in the background. It runs until Stop is
// called or ctx is cancelled.
func (m *ChangeMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	m.logger.Info("change monitor starting", "schedule", m.schedule)

	go m.run(ctx)
	return nil
}

// Stop stops the loop and waits for an in-flight pass to finish.
func (m *ChangeMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	close(m.stopCh)
	m.mu.Unlock()

	<-m.doneCh

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	m.logger.Info("change monitor stopped")
}

func (m *ChangeMonitor) run(ctx context.Context) {
	defer close(m.doneCh)

	m.pass(ctx)

	for {
		next, err := gronx.NextTickAfter(m.schedule, m.clock.Now(), false)
		if err != nil {
			m.logger.Error("failed to compute next monitor tick", "error", err)
			return
		}
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info("change monitor context cancelled")
			return
		case <-m.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			m.pass(ctx)
		}
	}
}

// lockHolder is implemented by locks that can name the current holder.
type lockHolder interface {
	Holder(ctx context.Context, name string) (string, error)
}

func (m *ChangeMonitor) pass(ctx context.Context) {
	summary, err := m.RunOnce(ctx)
	switch {
	case errors.Is(err, domain.ErrLockNotAcquired) && summary.Checked == 0:
		holder := ""
		if h, ok := m.lock.(lockHolder); ok {
			holder, _ = h.Holder(ctx, MonitorLockName)
		}
		m.logger.Debug("change monitor pass skipped", "holder", holder)
		return
	case err != nil:
		m.logger.Warn("change monitor pass stopped",
			"checked", summary.Checked,
			"error", err,
		)
		return
	}
	if summary.Checked > 0 {
		m.logger.Info("change monitor pass complete",
			"checked", summary.Checked,
			"changed", summary.Changed,
			"failed", summary.Failed,
			"refreshed", summary.Refreshed,
		)
	}
}

// RunOnce checks every due document once. It returns ErrLockNotAcquired
// when another instance holds the monitor lock.
func (m *ChangeMonitor) RunOnce(ctx context.Context) (domain.CheckRunSummary, error) {
	var summary domain.CheckRunSummary

	if m.lock != nil {
		acquired, err := m.lock.Acquire(ctx, MonitorLockName, m.lockTTL)
		if err != nil {
			return summary, fmt.Errorf("acquire monitor lock: %w", err)
		}
		if !acquired {
			return summary, domain.ErrLockNotAcquired
		}
		defer func() {
			if err := m.lock.Release(ctx, MonitorLockName); err != nil {
				m.logger.Warn("failed to release monitor lock", "error", err)
			}
		}()
	}

	now := m.clock.Now().UTC()
	due, err := m.checks.ListDue(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("list due checks: %w", err)
	}

	for i, record := range due {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		// renew the lease per document so a long pass never overlaps another
		// instance's; once it is lost the rest waits for the next pass
		if m.lock != nil && i > 0 {
			if err := m.lock.Extend(ctx, MonitorLockName, m.lockTTL); err != nil {
				return summary, fmt.Errorf("renew monitor lock: %w", err)
			}
		}

		updated, checkErr := versioning.RunCheck(ctx, *record, m.checker, now)
		summary.Checked++
		if checkErr != nil {
			summary.Failed++
			m.logger.Warn("change check failed",
				"document_id", record.DocumentID,
				"error", checkErr,
			)
		}

		// saved before refreshing: recording the new edition clears the
		// changed flag on the stored record
		if err := m.checks.Save(ctx, &updated); err != nil {
			m.logger.Error("failed to save change detection",
				"document_id", updated.DocumentID,
				"error", err,
			)
		}

		if updated.ChangesDetected && checkErr == nil {
			summary.Changed++
			if m.refresh(ctx, updated.DocumentID) {
				summary.Refreshed++
			}
		}
	}

	return summary, nil
}

// refresh queues or performs the refresh of a changed document and reports
// whether it went through.
func (m *ChangeMonitor) refresh(ctx context.Context, documentID string) bool {
	switch {
	case m.taskQueue != nil:
		task := domain.NewRefreshTask(documentID)
		if err := m.taskQueue.Enqueue(ctx, task); err != nil {
			m.logger.Error("failed to enqueue refresh",
				"document_id", documentID,
				"error", err,
			)
			return false
		}
		m.logger.Info("enqueued refresh", "document_id", documentID, "task_id", task.ID)
		return true

	case m.lineage != nil:
		record, err := m.lineage.RefreshFromSource(ctx, documentID)
		if err != nil {
			m.logger.Error("refresh failed", "document_id", documentID, "error", err)
			return false
		}
		if record == nil {
			return false
		}
		m.logger.Info("new edition recorded",
			"document_id", documentID,
			"version", record.Version.VersionNumber,
		)
		return true

	default:
		m.logger.Warn("change detected but no refresh target configured", "document_id", documentID)
		return false
	}
}
