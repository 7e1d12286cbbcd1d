package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/store"
)

// InsertResult reports the outcome of a deduplicating insert. A prevented
// duplicate is a normal outcome, not an error; callers branch on it but
// never log it as a failure.
type InsertResult struct {
	ID                 int64
	DuplicatePrevented bool
}

// NotificationService is the deduplicating sink in front of the
// notification store. For notifications carrying a DebtID it guarantees at
// most one stored row per (user, debt) pair:
//
//  1. check for an existing row before writing, and
//  2. write with an ignore-on-conflict insert keyed by the uniqueness
//     constraint, so two callers racing past the check still produce one row.
//
// Notifications without a DebtID are never deduplicated.
type NotificationService struct {
	store store.NotificationStore
	clock Clock
}

func NewNotificationService(st store.NotificationStore, clock Clock) *NotificationService {
	return &NotificationService{store: st, clock: clock}
}

// Insert stores the notification, applying the two-layer dedup for
// debt-linked notifications.
func (s *NotificationService) Insert(ctx context.Context, n *models.Notification) (InsertResult, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock.Now()
	}
	if n.NavigationType == "" {
		n.NavigationType = models.NavigateNone
	}

	if n.DebtID != nil {
		existing, err := s.store.FindByUserAndDebt(ctx, n.UserID, *n.DebtID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return InsertResult{}, err
		}
		if existing != nil {
			return InsertResult{DuplicatePrevented: true}, nil
		}
	}

	id, err := s.store.InsertIgnoreOnConflict(ctx, n)
	if err != nil {
		return InsertResult{}, err
	}
	if id == 0 && n.DebtID != nil {
		// Lost the race between the existence check and the write; the
		// constraint swallowed the row.
		return InsertResult{DuplicatePrevented: true}, nil
	}
	return InsertResult{ID: id}, nil
}

func reminderMessage(debt *models.Debt, threshold models.ReminderThreshold) string {
	dueDate := debt.DueDate.Format("Jan 2, 2006")
	switch threshold {
	case models.ThresholdOverdue:
		return fmt.Sprintf("Your %s was due on %s and is now overdue", debt.CreditorName, dueDate)
	case models.ThresholdOneHour:
		return fmt.Sprintf("Your %s is due in 1 hour (%s)", debt.CreditorName, dueDate)
	case models.ThresholdThreeHours:
		return fmt.Sprintf("Your %s is due in 3 hours (%s)", debt.CreditorName, dueDate)
	case models.ThresholdFiveHours:
		return fmt.Sprintf("Your %s is due in 5 hours (%s)", debt.CreditorName, dueDate)
	case models.ThresholdOneDay:
		return fmt.Sprintf("Your %s is due tomorrow (%s)", debt.CreditorName, dueDate)
	case models.ThresholdThreeDays:
		return fmt.Sprintf("Your %s is due in 3 days (%s)", debt.CreditorName, dueDate)
	case models.ThresholdFiveDays:
		return fmt.Sprintf("Your %s is due in 5 days (%s)", debt.CreditorName, dueDate)
	}
	return fmt.Sprintf("Your %s is due on %s", debt.CreditorName, dueDate)
}

// NewDebtReminder builds a due-date reminder carrying the debt id as its
// deduplication key.
func NewDebtReminder(debt *models.Debt, threshold models.ReminderThreshold) *models.Notification {
	debtID := debt.ID
	return &models.Notification{
		UserID:         debt.UserID,
		Title:          "Bill Reminder",
		Message:        reminderMessage(debt, threshold),
		Type:           models.NotificationDebtReminder,
		NavigationType: models.NavigateDebts,
		DebtID:         &debtID,
	}
}

// NewLoanAdded builds the confirmation notification for a freshly created
// loan, deduplicated per loan.
func NewLoanAdded(debt *models.Debt) *models.Notification {
	debtID := debt.ID
	return &models.Notification{
		UserID: debt.UserID,
		Title:  "Loan Added",
		Message: fmt.Sprintf("New loan '%s' for ₱%.2f due on %s",
			debt.CreditorName, debt.Amount, debt.DueDate.Format("Jan 2, 2006")),
		Type:           models.NotificationDebtReminder,
		NavigationType: models.NavigateDebts,
		DebtID:         &debtID,
	}
}

// NewLoanDeleted builds the notice for a removed loan. No debt id: the row
// the key would point at is gone.
func NewLoanDeleted(debt *models.Debt) *models.Notification {
	return &models.Notification{
		UserID:         debt.UserID,
		Title:          "Loan Deleted",
		Message:        fmt.Sprintf("Loan '%s' for ₱%.2f was deleted", debt.CreditorName, debt.Amount),
		Type:           models.NotificationDebtReminder,
		NavigationType: models.NavigateDebts,
	}
}

// NewBudgetAlert builds a budget utilization warning.
func NewBudgetAlert(userID int64, category string, percentUsed int) *models.Notification {
	return &models.Notification{
		UserID:         userID,
		Title:          "Budget Alert",
		Message:        fmt.Sprintf("%s budget is %d%% utilized", category, percentUsed),
		Type:           models.NotificationBudgetAlert,
		NavigationType: models.NavigateNone,
	}
}

// NewLargeTransactionAlert builds an unusual-transaction notice.
func NewLargeTransactionAlert(userID int64, amount float64, description string) *models.Notification {
	return &models.Notification{
		UserID:         userID,
		Title:          "Unusual Transaction",
		Message:        fmt.Sprintf("Large transaction detected: ₱%.2f - %s", amount, description),
		Type:           models.NotificationTransactionAlert,
		NavigationType: models.NavigateTransactions,
	}
}

// NewGoalProgress builds a savings goal progress update.
func NewGoalProgress(goal *models.FinancialGoal) *models.Notification {
	return &models.Notification{
		UserID:         goal.UserID,
		Title:          "Goal Progress",
		Message:        fmt.Sprintf("%s is now %d%% complete", goal.GoalName, goal.Progress()),
		Type:           models.NotificationGeneral,
		NavigationType: models.NavigateProfile,
	}
}
