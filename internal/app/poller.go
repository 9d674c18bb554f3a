package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/five82/stormctl/internal/state"
	"github.com/five82/stormctl/scrapestorm"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// Poller refreshes a state.Store from the ScrapeStorm API on a fixed cadence,
// backing off exponentially while the server is unreachable.
type Poller struct {
	store    *state.Store
	api      scrapestorm.API
	interval time.Duration
	logger   *zap.Logger
	trigger  chan struct{}
}

// NewPoller builds a Poller. A non-positive interval uses the 2s default.
func NewPoller(store *state.Store, api scrapestorm.API, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		store:    store,
		api:      api,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the background goroutine. It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		failures := 0
		for {
			if err := p.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
			} else {
				failures = 0
			}

			timer := time.NewTimer(calculateBackoff(failures, p.interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-p.trigger:
				timer.Stop()
			case <-timer.C:
			}
		}
	}()
}

// Trigger requests an immediate refresh. Extra requests while one is pending
// are dropped.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Refresh runs one poll cycle: list tasks, then fetch each task's status.
// Only a list failure counts as a poll failure; status errors are stored per task.
func (p *Poller) Refresh(ctx context.Context) error {
	resp, err := p.api.ListTasks(ctx)
	if err != nil {
		p.store.Update(nil, nil, err)
		if !errors.Is(err, context.Canceled) {
			p.logger.Warn("task poll failed", zap.Error(err))
		}
		return err
	}

	statuses := make(map[int64]state.TaskStatus, len(resp.List))
	for _, task := range resp.List {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		st := state.TaskStatus{CheckedAt: time.Now()}
		status, err := p.api.TaskStatus(ctx, task.TaskID)
		if err != nil {
			st.Err = err
			p.logger.Debug("status poll failed", zap.Int64("task_id", task.TaskID), zap.Error(err))
		} else {
			st.Response = *status
		}
		statuses[task.TaskID] = st
	}
	p.store.Update(resp.List, statuses, nil)
	return nil
}

// calculateBackoff doubles the interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
