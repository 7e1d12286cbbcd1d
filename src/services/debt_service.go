package services

import (
	"context"
	"errors"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/store"
)

// DebtService owns the debt lifecycle: creation, manual paid/reactivate
// transitions, and deletion, with the matching notifications. Payment
// application lives in the ledger service; reminder evaluation in the
// reminder service.
type DebtService struct {
	debts         store.DebtStore
	notifications *NotificationService
	clock         Clock
}

func NewDebtService(debts store.DebtStore, notifications *NotificationService, clock Clock) *DebtService {
	return &DebtService{debts: debts, notifications: notifications, clock: clock}
}

// Create inserts a new debt with the remaining balance initialized from the
// full amount, and fires a deduplicated loan-added notification.
func (s *DebtService) Create(ctx context.Context, debt *models.Debt) (int64, error) {
	debt.IsActive = true
	debt.CreatedAt = s.clock.Now()
	remaining := debt.Amount - debt.AmountPaid
	if remaining < 0 {
		remaining = 0
	}
	debt.RemainingBalance = remaining

	id, err := s.debts.InsertDebt(ctx, debt)
	if err != nil {
		return 0, err
	}

	if _, err := s.notifications.Insert(ctx, NewLoanAdded(debt)); err != nil {
		logger.FromContext(ctx).Error("failed to insert loan added notification", "debtID", id, "error", err)
	}
	return id, nil
}

// Update persists user edits to a debt, keeping the remaining balance
// invariant in sync with amount and amount paid.
func (s *DebtService) Update(ctx context.Context, debt *models.Debt) error {
	remaining := debt.Amount - debt.AmountPaid
	if remaining < 0 {
		remaining = 0
	}
	debt.RemainingBalance = remaining
	return s.debts.UpdateDebt(ctx, debt)
}

// MarkPaid manually closes a debt: balance to zero, paid timestamp set, and
// all reminder flags cleared so a later reactivation starts fresh.
func (s *DebtService) MarkPaid(ctx context.Context, debtID, userID int64) error {
	debt, err := s.debts.GetDebtByID(ctx, debtID)
	if err != nil {
		return err
	}
	if debt.UserID != userID {
		return store.ErrNotFound
	}

	debt.AmountPaid = debt.Amount
	debt.RemainingBalance = 0
	debt.IsActive = false
	debt.PaidAt = models.NullTime{Time: s.clock.Now(), Valid: true}
	debt.ClearNotificationFlags()

	return s.debts.UpdateDebt(ctx, debt)
}

// Reactivate reopens a closed debt with a fresh reminder cycle.
func (s *DebtService) Reactivate(ctx context.Context, debtID, userID int64) error {
	debt, err := s.debts.GetDebtByID(ctx, debtID)
	if err != nil {
		return err
	}
	if debt.UserID != userID {
		return store.ErrNotFound
	}

	debt.IsActive = true
	debt.PaidAt = models.NullTime{}
	debt.ClearNotificationFlags()

	return s.debts.UpdateDebt(ctx, debt)
}

// Delete removes a debt and leaves a non-deduplicated deletion notice.
func (s *DebtService) Delete(ctx context.Context, debtID, userID int64) error {
	debt, err := s.debts.GetDebtByID(ctx, debtID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if debt.UserID != userID {
		return store.ErrNotFound
	}

	if err := s.debts.DeleteDebt(ctx, debtID, userID); err != nil {
		return err
	}

	if _, err := s.notifications.Insert(ctx, NewLoanDeleted(debt)); err != nil {
		logger.FromContext(ctx).Error("failed to insert loan deleted notification", "debtID", debtID, "error", err)
	}
	return nil
}
