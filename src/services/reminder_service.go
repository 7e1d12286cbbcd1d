package services

import (
	"context"
	"errors"
	"time"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/store"
)

// reminderBands maps remaining time until the due date to a threshold.
// The list is intentionally ordered by urgency and evaluated top to bottom,
// first match wins: a debt that skipped straight from "more than 5 days out"
// to past-due fires only the overdue reminder, not a backlog of all seven.
// Every bound is inclusive: exactly 0 is overdue, exactly 5 days is the
// 5-day band.
var reminderBands = []struct {
	threshold models.ReminderThreshold
	within    time.Duration
}{
	{models.ThresholdOverdue, 0},
	{models.ThresholdOneHour, time.Hour},
	{models.ThresholdThreeHours, 3 * time.Hour},
	{models.ThresholdFiveHours, 5 * time.Hour},
	{models.ThresholdOneDay, 24 * time.Hour},
	{models.ThresholdThreeDays, 3 * 24 * time.Hour},
	{models.ThresholdFiveDays, 5 * 24 * time.Hour},
}

// classifyThreshold picks the band for the given remaining duration.
// Returns false when the due date is more than 5 days out.
func classifyThreshold(remaining time.Duration) (models.ReminderThreshold, bool) {
	for _, band := range reminderBands {
		if remaining <= band.within {
			return band.threshold, true
		}
	}
	return 0, false
}

// ReminderService evaluates active debts against the clock and fires
// due-date reminders through the dedup sink, persisting a one-shot flag per
// fired threshold so each threshold fires at most once per debt.
type ReminderService struct {
	debts store.DebtStore
	sink  *NotificationService
	clock Clock
}

func NewReminderService(debts store.DebtStore, sink *NotificationService, clock Clock) *ReminderService {
	return &ReminderService{debts: debts, sink: sink, clock: clock}
}

// CheckDueDebts sweeps every user's active debts. Called by the background
// scheduler and by debt screens on load.
func (s *ReminderService) CheckDueDebts(ctx context.Context) error {
	debts, err := s.debts.GetAllActiveDebts(ctx)
	if err != nil {
		return err
	}
	s.EvaluateAndNotify(ctx, debts, s.clock.Now())
	return nil
}

// EvaluateAndNotify evaluates each debt in the snapshot independently.
// A persistence failure on one debt never aborts the rest of the batch;
// the failing debt is retried on the next sweep. Concurrent invocations
// are tolerated: a lost race on a flag update only risks a duplicate sink
// attempt, which the (user, debt) constraint absorbs.
func (s *ReminderService) EvaluateAndNotify(ctx context.Context, debts []models.Debt, now time.Time) {
	for i := range debts {
		if err := s.evaluateDebt(ctx, &debts[i], now); err != nil {
			logger.FromContext(ctx).Error("reminder evaluation failed for debt",
				"debtID", debts[i].ID, "userID", debts[i].UserID, "error", err)
		}
	}
}

func (s *ReminderService) evaluateDebt(ctx context.Context, debt *models.Debt, now time.Time) error {
	if !debt.IsActive {
		return nil
	}

	remaining := debt.DueDate.Sub(now)
	threshold, ok := classifyThreshold(remaining)
	if !ok {
		return nil
	}
	if debt.NotifiedFor(threshold) {
		return nil
	}

	result, err := s.sink.Insert(ctx, NewDebtReminder(debt, threshold))
	if err != nil {
		return err
	}
	if result.DuplicatePrevented {
		// A notification for this debt already exists; nothing was
		// inserted, so the flag stays unset.
		return nil
	}

	debt.SetNotified(threshold)
	if err := s.debts.UpdateDebt(ctx, debt); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("debt reminder fired",
		"debtID", debt.ID, "userID", debt.UserID, "threshold", threshold.String())
	return nil
}

// ClearAllFlags resets all seven one-shot flags on a debt. Invoked when a
// debt is manually marked paid or reactivated, so the reminder cycle starts
// fresh. This is the only path that returns a flag to false.
func (s *ReminderService) ClearAllFlags(ctx context.Context, debtID int64) error {
	debt, err := s.debts.GetDebtByID(ctx, debtID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	debt.ClearNotificationFlags()
	return s.debts.UpdateDebt(ctx, debt)
}
