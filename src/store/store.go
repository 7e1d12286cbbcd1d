package store

import (
	"context"
	"errors"

	"github.com/financialtrack/backend/src/models"
)

// ErrNotFound is returned when a row referenced by id does not exist.
// Services translate it into a silent no-op: the referenced entity may have
// been concurrently deleted by the user.
var ErrNotFound = errors.New("store: not found")

// DebtStore is the port the reminder and ledger engines read and write
// debts through.
type DebtStore interface {
	GetActiveDebts(ctx context.Context, userID int64) ([]models.Debt, error)
	// GetAllActiveDebts returns active debts across every user, for the
	// background reminder sweep.
	GetAllActiveDebts(ctx context.Context) ([]models.Debt, error)
	GetPaidDebts(ctx context.Context, userID int64) ([]models.Debt, error)
	GetDebtByID(ctx context.Context, id int64) (*models.Debt, error)
	InsertDebt(ctx context.Context, debt *models.Debt) (int64, error)
	UpdateDebt(ctx context.Context, debt *models.Debt) error
	DeleteDebt(ctx context.Context, id, userID int64) error
}

// AccountStore provides accounts; the balance column is only ever written
// through the ledger service.
type AccountStore interface {
	GetAccountsByUser(ctx context.Context, userID int64) ([]models.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	InsertAccount(ctx context.Context, account *models.Account) (int64, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, id, userID int64) error
}

// TransactionStore persists money movements.
type TransactionStore interface {
	GetTransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	GetTransactionsByType(ctx context.Context, userID int64, txType models.TransactionType) ([]models.Transaction, error)
	GetTransactionByID(ctx context.Context, id int64) (*models.Transaction, error)
	InsertTransaction(ctx context.Context, tx *models.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, id, userID int64) error
	// SumExpensesByCategory totals live expenses for one category in a
	// month ("2006-01"), for budget utilization checks.
	SumExpensesByCategory(ctx context.Context, userID int64, category, month string) (float64, error)
	// MonthlyTotals returns summed income and expense magnitudes for a month.
	MonthlyTotals(ctx context.Context, userID int64, month string) (income, expense float64, err error)
	// CategoryBreakdown returns per-category expense totals for a month.
	CategoryBreakdown(ctx context.Context, userID int64, month string) (map[string]float64, error)
}

// NotificationStore backs the dedup sink. InsertIgnoreOnConflict performs
// the constraint-guarded write: it returns id 0 with a nil error when the
// (user, debt) uniqueness constraint swallowed the insert.
type NotificationStore interface {
	GetNotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	GetUnreadNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	FindByUserAndDebt(ctx context.Context, userID, debtID int64) (*models.Notification, error)
	InsertIgnoreOnConflict(ctx context.Context, n *models.Notification) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	DeleteNotification(ctx context.Context, id, userID int64) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// GoalStore persists savings goals; saved_amount moves with transfers.
type GoalStore interface {
	GetGoalsByUser(ctx context.Context, userID int64) ([]models.FinancialGoal, error)
	GetGoalByID(ctx context.Context, id int64) (*models.FinancialGoal, error)
	InsertGoal(ctx context.Context, goal *models.FinancialGoal) (int64, error)
	UpdateGoal(ctx context.Context, goal *models.FinancialGoal) error
	DeleteGoal(ctx context.Context, id, userID int64) error
}

// BudgetStore persists per-category monthly limits.
type BudgetStore interface {
	GetBudgetsByUser(ctx context.Context, userID int64) ([]models.Budget, error)
	GetBudgetByCategory(ctx context.Context, userID int64, category, month string) (*models.Budget, error)
	InsertBudget(ctx context.Context, budget *models.Budget) (int64, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, id, userID int64) error
}
