package services

import (
	"context"
	"errors"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/store"
)

// BalanceDirection selects whether a transaction's signed effect is applied
// or reversed. Remove is the exact inverse of Add for the same transaction.
type BalanceDirection int

const (
	DirectionAdd BalanceDirection = iota
	DirectionRemove
)

// LedgerService keeps every account's balance equal to the signed sum of
// its live transactions, and applies loan payments to debt balances. All
// balance mutations in the application route through here; nothing else
// writes the balance column.
type LedgerService struct {
	accounts store.AccountStore
	goals    store.GoalStore
	debts    store.DebtStore
	clock    Clock
}

func NewLedgerService(accounts store.AccountStore, goals store.GoalStore, debts store.DebtStore, clock Clock) *LedgerService {
	return &LedgerService{accounts: accounts, goals: goals, debts: debts, clock: clock}
}

// ApplyBalanceDelta applies (or reverses) the signed effect of one
// transaction: +amount for income, -amount for expense, and for transfers
// -amount on the source plus +amount on the target account, or +amount on
// the target goal's saved-amount projection. A missing account or goal is a
// silent no-op: the entity may have been concurrently deleted, and the UI
// re-reads current state afterwards.
func (s *LedgerService) ApplyBalanceDelta(ctx context.Context, tx *models.Transaction, direction BalanceDirection) error {
	sign := 1.0
	if direction == DirectionRemove {
		sign = -1.0
	}

	switch tx.Type {
	case models.TransactionIncome:
		return s.adjustAccount(ctx, tx.AccountID, sign*tx.Amount)
	case models.TransactionExpense:
		return s.adjustAccount(ctx, tx.AccountID, -sign*tx.Amount)
	case models.TransactionTransfer:
		if err := s.adjustAccount(ctx, tx.AccountID, -sign*tx.Amount); err != nil {
			return err
		}
		switch tx.TransferToType {
		case models.TransferTargetAccount:
			return s.adjustAccount(ctx, tx.TransferToID, sign*tx.Amount)
		case models.TransferTargetGoal:
			return s.adjustGoal(ctx, tx.TransferToID, sign*tx.Amount)
		}
	}
	return nil
}

// EditTransaction reconciles an edit as remove-old followed by add-new.
// Never a direct diff: this handles an edit that also changes the account
// id (or the type, or the transfer target) correctly by construction.
func (s *LedgerService) EditTransaction(ctx context.Context, oldTx, newTx *models.Transaction) error {
	if err := s.ApplyBalanceDelta(ctx, oldTx, DirectionRemove); err != nil {
		return err
	}
	return s.ApplyBalanceDelta(ctx, newTx, DirectionAdd)
}

// ApplyLoanPayment deducts a payment from a debt's remaining balance and
// auto-closes the debt when the balance reaches zero. Overpayment clamps to
// zero. Auto-close never refires on an already-closed debt, and a missing
// debt is a silent no-op.
func (s *LedgerService) ApplyLoanPayment(ctx context.Context, debtID int64, paymentAmount float64) error {
	if paymentAmount <= 0 {
		return nil
	}

	debt, err := s.debts.GetDebtByID(ctx, debtID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.FromContext(ctx).Debug("loan payment target missing, skipping", "debtID", debtID)
			return nil
		}
		return err
	}

	debt.AmountPaid += paymentAmount
	remaining := debt.Amount - debt.AmountPaid
	if remaining < 0 {
		remaining = 0
	}
	debt.RemainingBalance = remaining

	if debt.RemainingBalance == 0 && debt.IsActive {
		debt.IsActive = false
		debt.PaidAt = models.NullTime{Time: s.clock.Now(), Valid: true}
		logger.FromContext(ctx).Info("loan fully paid, auto-closing",
			"debtID", debt.ID, "userID", debt.UserID)
	}

	return s.debts.UpdateDebt(ctx, debt)
}

func (s *LedgerService) adjustAccount(ctx context.Context, accountID int64, delta float64) error {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.FromContext(ctx).Debug("balance target account missing, skipping", "accountID", accountID)
			return nil
		}
		return err
	}
	account.Balance += delta
	return s.accounts.UpdateAccount(ctx, account)
}

func (s *LedgerService) adjustGoal(ctx context.Context, goalID int64, delta float64) error {
	goal, err := s.goals.GetGoalByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.FromContext(ctx).Debug("transfer target goal missing, skipping", "goalID", goalID)
			return nil
		}
		return err
	}
	// Symmetric on purpose: removing a transfer must undo exactly what
	// adding it did, so the projection follows history without clamping.
	goal.SavedAmount += delta
	return s.goals.UpdateGoal(ctx, goal)
}
