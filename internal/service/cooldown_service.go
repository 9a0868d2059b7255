package service

import (
	"context"
	"time"

	"career-compass-be/internal/dto"
	"career-compass-be/internal/pkg/logger"
	"career-compass-be/internal/repository/unitofwork"
	"career-compass-be/pkg/events"
	"career-compass-be/pkg/quota"
)

// CooldownWatcher periodically settles expired cooldowns so clients get
// their "cooldown ended" push without having to poll. Requests settle
// lazily on their own, so the watcher is a liveness aid, not a
// correctness requirement.
type CooldownWatcher struct {
	uowFactory unitofwork.RepositoryFactory
	tracker    *quota.Tracker
	notifier   IUsageNotifier
	logger     logger.ILogger
	interval   time.Duration
	stop       chan struct{}
	done       chan struct{}
}

func NewCooldownWatcher(
	uowFactory unitofwork.RepositoryFactory,
	tracker *quota.Tracker,
	notifier IUsageNotifier,
	log logger.ILogger,
	interval time.Duration,
) *CooldownWatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &CooldownWatcher{
		uowFactory: uowFactory,
		tracker:    tracker,
		notifier:   notifier,
		logger:     log,
		interval:   interval,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the watcher loop in its own goroutine.
func (w *CooldownWatcher) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-w.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop and waits for the current sweep to finish.
func (w *CooldownWatcher) Stop() {
	close(w.stop)
	<-w.done
}

func (w *CooldownWatcher) sweep(ctx context.Context) {
	uow := w.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.DailyUsageRepository().FindActiveCooldowns(ctx)
	if err != nil {
		w.logger.Error("CooldownWatcher", "Failed to load cooldown rows", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, row := range rows {
		snapshot := quota.DailySnapshot{TokensUsed: row.TokensUsed, CooldownEndsAt: row.CooldownEndsAt}
		settled, changed := w.tracker.Settle(snapshot)
		if !changed {
			continue
		}

		row.TokensUsed = settled.TokensUsed
		row.CooldownEndsAt = settled.CooldownEndsAt
		if err := uow.DailyUsageRepository().Update(ctx, row); err != nil {
			w.logger.Error("CooldownWatcher", "Failed to settle cooldown", map[string]interface{}{
				"user_id": row.UserId,
				"error":   err.Error(),
			})
			continue
		}

		if w.notifier != nil {
			w.notifier.Send(row.UserId, dto.UsageEventPayload{
				Type:       events.TypeCooldownEnded,
				UserId:     row.UserId.String(),
				TokensUsed: settled.TokensUsed,
				OccurredAt: time.Now(),
			})
		}
	}
}
