package scheduler

import (
	"context"
	"time"

	"github.com/financialtrack/backend/src/logger"
)

// ReminderChecker is the entry point the scheduler drives on each tick.
type ReminderChecker interface {
	CheckDueDebts(ctx context.Context) error
}

// DebtReminderScheduler invokes the reminder sweep on a fixed cadence
// (15 minutes by default) for as long as the process runs. The cadence
// affects timeliness only, not correctness: a missed or late tick is
// recovered on the next one, and the one-shot flags plus the notification
// dedup constraint make overlapping runs harmless.
type DebtReminderScheduler struct {
	reminders ReminderChecker
	interval  time.Duration
}

func NewDebtReminderScheduler(reminders ReminderChecker, interval time.Duration) *DebtReminderScheduler {
	return &DebtReminderScheduler{reminders: reminders, interval: interval}
}

// Start launches the periodic sweep in a goroutine. The first check runs
// immediately so reminders missed while the process was down fire at
// startup. Returns after launching; cancel ctx to stop.
func (s *DebtReminderScheduler) Start(ctx context.Context) {
	go func() {
		logger.L.Info("Debt reminder scheduler started", "interval", s.interval.String())

		s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.L.Info("Debt reminder scheduler stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *DebtReminderScheduler) runOnce(ctx context.Context) {
	if err := s.reminders.CheckDueDebts(ctx); err != nil {
		// Leave the failing sweep to the next tick; no in-process retry.
		logger.L.Error("Debt reminder sweep failed", "error", err)
	}
}
