package services

import (
	"context"
	"errors"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/store"
)

var (
	ErrInvalidAmount = errors.New("transaction amount must be positive")
	ErrInvalidType   = errors.New("invalid transaction type")
)

// TransactionService is the entry flow for money movements. Every create,
// edit, and delete routes through the ledger so account balances always
// equal the signed sum of live transactions; a new expense tagged with a
// loan additionally feeds the loan payment path.
type TransactionService struct {
	txs           store.TransactionStore
	budgets       store.BudgetStore
	goals         store.GoalStore
	ledger        *LedgerService
	notifications *NotificationService
	reports       *ReportService
	clock         Clock

	largeTxThreshold   float64
	budgetAlertPercent int
}

func NewTransactionService(
	txs store.TransactionStore,
	budgets store.BudgetStore,
	goals store.GoalStore,
	ledger *LedgerService,
	notifications *NotificationService,
	reports *ReportService,
	clock Clock,
	largeTxThreshold float64,
	budgetAlertPercent int,
) *TransactionService {
	return &TransactionService{
		txs:                txs,
		budgets:            budgets,
		goals:              goals,
		ledger:             ledger,
		notifications:      notifications,
		reports:            reports,
		clock:              clock,
		largeTxThreshold:   largeTxThreshold,
		budgetAlertPercent: budgetAlertPercent,
	}
}

func validateTransaction(tx *models.Transaction) error {
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch tx.Type {
	case models.TransactionIncome, models.TransactionExpense, models.TransactionTransfer:
		return nil
	}
	return ErrInvalidType
}

// Create inserts the transaction, applies its balance effect, and, only for
// an expense the user explicitly tagged with a loan at entry time, deducts
// the loan payment. Alerting failures are logged but never fail the create.
func (s *TransactionService) Create(ctx context.Context, tx *models.Transaction, loanID *int64) (int64, error) {
	if err := validateTransaction(tx); err != nil {
		return 0, err
	}
	if tx.Date.IsZero() {
		tx.Date = s.clock.Now()
	}

	id, err := s.txs.InsertTransaction(ctx, tx)
	if err != nil {
		return 0, err
	}

	if err := s.ledger.ApplyBalanceDelta(ctx, tx, DirectionAdd); err != nil {
		return 0, err
	}

	if tx.Type == models.TransactionExpense && loanID != nil && *loanID > 0 {
		if err := s.ledger.ApplyLoanPayment(ctx, *loanID, tx.Amount); err != nil {
			return 0, err
		}
	}

	s.fireAlerts(ctx, tx)
	s.reports.InvalidateUser(tx.UserID)
	return id, nil
}

// Update persists the edit and reconciles balances as remove-old + add-new.
func (s *TransactionService) Update(ctx context.Context, tx *models.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}

	oldTx, err := s.txs.GetTransactionByID(ctx, tx.ID)
	if err != nil {
		return err
	}

	if err := s.txs.UpdateTransaction(ctx, tx); err != nil {
		return err
	}
	if err := s.ledger.EditTransaction(ctx, oldTx, tx); err != nil {
		return err
	}

	s.reports.InvalidateUser(tx.UserID)
	return nil
}

// Delete removes the transaction and reverses its balance effect. Deleting
// a transaction that is already gone is a no-op.
func (s *TransactionService) Delete(ctx context.Context, id, userID int64) error {
	tx, err := s.txs.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if tx.UserID != userID {
		return store.ErrNotFound
	}

	if err := s.txs.DeleteTransaction(ctx, id, userID); err != nil {
		return err
	}
	if err := s.ledger.ApplyBalanceDelta(ctx, tx, DirectionRemove); err != nil {
		return err
	}

	s.reports.InvalidateUser(userID)
	return nil
}

// fireAlerts raises large-transaction, budget, and goal-progress
// notifications for a newly created transaction.
func (s *TransactionService) fireAlerts(ctx context.Context, tx *models.Transaction) {
	log := logger.FromContext(ctx)

	if s.largeTxThreshold > 0 && tx.Amount >= s.largeTxThreshold {
		if _, err := s.notifications.Insert(ctx, NewLargeTransactionAlert(tx.UserID, tx.Amount, tx.Description)); err != nil {
			log.Error("failed to insert large transaction alert", "userID", tx.UserID, "error", err)
		}
	}

	if tx.Type == models.TransactionExpense {
		s.checkBudget(ctx, tx)
	}

	if tx.Type == models.TransactionTransfer && tx.TransferToType == models.TransferTargetGoal {
		goal, err := s.goals.GetGoalByID(ctx, tx.TransferToID)
		if err == nil {
			if _, err := s.notifications.Insert(ctx, NewGoalProgress(goal)); err != nil {
				log.Error("failed to insert goal progress notification", "goalID", goal.ID, "error", err)
			}
		}
	}
}

// checkBudget fires a budget alert when this expense pushes the category's
// monthly utilization across the configured percentage. Only the crossing
// fires, so routine spending under an already-breached budget stays quiet.
func (s *TransactionService) checkBudget(ctx context.Context, tx *models.Transaction) {
	log := logger.FromContext(ctx)
	month := tx.Date.Format("2006-01")

	budget, err := s.budgets.GetBudgetByCategory(ctx, tx.UserID, tx.Category, month)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("budget lookup failed", "userID", tx.UserID, "category", tx.Category, "error", err)
		}
		return
	}
	if budget.LimitAmount <= 0 {
		return
	}

	spent, err := s.txs.SumExpensesByCategory(ctx, tx.UserID, tx.Category, month)
	if err != nil {
		log.Error("budget spend total failed", "userID", tx.UserID, "category", tx.Category, "error", err)
		return
	}

	percent := int(spent / budget.LimitAmount * 100)
	previousPercent := int((spent - tx.Amount) / budget.LimitAmount * 100)
	if percent >= s.budgetAlertPercent && previousPercent < s.budgetAlertPercent {
		if _, err := s.notifications.Insert(ctx, NewBudgetAlert(tx.UserID, tx.Category, percent)); err != nil {
			log.Error("failed to insert budget alert", "userID", tx.UserID, "error", err)
		}
	}
}
