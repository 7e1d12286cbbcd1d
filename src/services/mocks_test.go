package services

import (
	"context"
	"time"

	"github.com/financialtrack/backend/src/models"
	"github.com/financialtrack/backend/src/store"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type mockDebtStore struct {
	debts map[int64]*models.Debt
	// updateErr fails UpdateDebt for the named debt id.
	updateErr map[int64]error
	nextID    int64
}

func newMockDebtStore() *mockDebtStore {
	return &mockDebtStore{debts: make(map[int64]*models.Debt), updateErr: make(map[int64]error), nextID: 1}
}

func (m *mockDebtStore) add(debt models.Debt) *models.Debt {
	if debt.ID == 0 {
		debt.ID = m.nextID
		m.nextID++
	}
	copied := debt
	m.debts[copied.ID] = &copied
	return m.debts[copied.ID]
}

func (m *mockDebtStore) GetActiveDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	var out []models.Debt
	for _, d := range m.debts {
		if d.UserID == userID && d.IsActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDebtStore) GetAllActiveDebts(ctx context.Context) ([]models.Debt, error) {
	var out []models.Debt
	for _, d := range m.debts {
		if d.IsActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDebtStore) GetPaidDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	var out []models.Debt
	for _, d := range m.debts {
		if d.UserID == userID && !d.IsActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDebtStore) GetDebtByID(ctx context.Context, id int64) (*models.Debt, error) {
	d, ok := m.debts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (m *mockDebtStore) InsertDebt(ctx context.Context, debt *models.Debt) (int64, error) {
	inserted := m.add(*debt)
	debt.ID = inserted.ID
	return inserted.ID, nil
}

func (m *mockDebtStore) UpdateDebt(ctx context.Context, debt *models.Debt) error {
	if err := m.updateErr[debt.ID]; err != nil {
		return err
	}
	if _, ok := m.debts[debt.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *debt
	m.debts[debt.ID] = &copied
	return nil
}

func (m *mockDebtStore) DeleteDebt(ctx context.Context, id, userID int64) error {
	delete(m.debts, id)
	return nil
}

type mockNotificationStore struct {
	notifications []models.Notification
	insertErr     error
	// raceInsertConflict simulates a concurrent writer landing between the
	// existence check and the insert: the conflict guard swallows the row.
	raceInsertConflict bool
	nextID             int64
}

func newMockNotificationStore() *mockNotificationStore {
	return &mockNotificationStore{nextID: 1}
}

func (m *mockNotificationStore) GetNotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationStore) GetUnreadNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationStore) FindByUserAndDebt(ctx context.Context, userID, debtID int64) (*models.Notification, error) {
	for i := range m.notifications {
		n := &m.notifications[i]
		if n.UserID == userID && n.DebtID != nil && *n.DebtID == debtID {
			copied := *n
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockNotificationStore) InsertIgnoreOnConflict(ctx context.Context, n *models.Notification) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	if n.DebtID != nil {
		if m.raceInsertConflict {
			return 0, nil
		}
		for _, existing := range m.notifications {
			if existing.UserID == n.UserID && existing.DebtID != nil && *existing.DebtID == *n.DebtID {
				return 0, nil
			}
		}
	}
	stored := *n
	stored.ID = m.nextID
	m.nextID++
	m.notifications = append(m.notifications, stored)
	return stored.ID, nil
}

func (m *mockNotificationStore) MarkAsRead(ctx context.Context, id, userID int64) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockNotificationStore) DeleteNotification(ctx context.Context, id, userID int64) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].UserID == userID {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockNotificationStore) DeleteAllForUser(ctx context.Context, userID int64) error {
	var kept []models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	m.notifications = kept
	return nil
}

type mockAccountStore struct {
	accounts map[int64]*models.Account
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[int64]*models.Account)}
}

func (m *mockAccountStore) add(account models.Account) *models.Account {
	copied := account
	m.accounts[copied.ID] = &copied
	return m.accounts[copied.ID]
}

func (m *mockAccountStore) GetAccountsByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	var out []models.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAccountStore) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockAccountStore) InsertAccount(ctx context.Context, account *models.Account) (int64, error) {
	m.add(*account)
	return account.ID, nil
}

func (m *mockAccountStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	if _, ok := m.accounts[account.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *mockAccountStore) DeleteAccount(ctx context.Context, id, userID int64) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountStore) balance(id int64) float64 {
	return m.accounts[id].Balance
}

type mockGoalStore struct {
	goals map[int64]*models.FinancialGoal
}

func newMockGoalStore() *mockGoalStore {
	return &mockGoalStore{goals: make(map[int64]*models.FinancialGoal)}
}

func (m *mockGoalStore) add(goal models.FinancialGoal) *models.FinancialGoal {
	copied := goal
	m.goals[copied.ID] = &copied
	return m.goals[copied.ID]
}

func (m *mockGoalStore) GetGoalsByUser(ctx context.Context, userID int64) ([]models.FinancialGoal, error) {
	var out []models.FinancialGoal
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *mockGoalStore) GetGoalByID(ctx context.Context, id int64) (*models.FinancialGoal, error) {
	g, ok := m.goals[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (m *mockGoalStore) InsertGoal(ctx context.Context, goal *models.FinancialGoal) (int64, error) {
	m.add(*goal)
	return goal.ID, nil
}

func (m *mockGoalStore) UpdateGoal(ctx context.Context, goal *models.FinancialGoal) error {
	if _, ok := m.goals[goal.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *goal
	m.goals[goal.ID] = &copied
	return nil
}

func (m *mockGoalStore) DeleteGoal(ctx context.Context, id, userID int64) error {
	delete(m.goals, id)
	return nil
}

type mockTransactionStore struct {
	txs    map[int64]*models.Transaction
	nextID int64
}

func newMockTransactionStore() *mockTransactionStore {
	return &mockTransactionStore{txs: make(map[int64]*models.Transaction), nextID: 1}
}

func (m *mockTransactionStore) GetTransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range m.txs {
		if tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (m *mockTransactionStore) GetTransactionsByType(ctx context.Context, userID int64, txType models.TransactionType) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range m.txs {
		if tx.UserID == userID && tx.Type == txType {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (m *mockTransactionStore) GetTransactionByID(ctx context.Context, id int64) (*models.Transaction, error) {
	tx, ok := m.txs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *tx
	return &copied, nil
}

func (m *mockTransactionStore) InsertTransaction(ctx context.Context, tx *models.Transaction) (int64, error) {
	copied := *tx
	copied.ID = m.nextID
	m.nextID++
	m.txs[copied.ID] = &copied
	return copied.ID, nil
}

func (m *mockTransactionStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	if _, ok := m.txs[tx.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *tx
	m.txs[tx.ID] = &copied
	return nil
}

func (m *mockTransactionStore) DeleteTransaction(ctx context.Context, id, userID int64) error {
	delete(m.txs, id)
	return nil
}

func (m *mockTransactionStore) SumExpensesByCategory(ctx context.Context, userID int64, category, month string) (float64, error) {
	var total float64
	for _, tx := range m.txs {
		if tx.UserID == userID && tx.Type == models.TransactionExpense &&
			tx.Category == category && tx.Date.Format("2006-01") == month {
			total += tx.Amount
		}
	}
	return total, nil
}

func (m *mockTransactionStore) MonthlyTotals(ctx context.Context, userID int64, month string) (float64, float64, error) {
	var income, expense float64
	for _, tx := range m.txs {
		if tx.UserID != userID || tx.Date.Format("2006-01") != month {
			continue
		}
		switch tx.Type {
		case models.TransactionIncome:
			income += tx.Amount
		case models.TransactionExpense:
			expense += tx.Amount
		}
	}
	return income, expense, nil
}

func (m *mockTransactionStore) CategoryBreakdown(ctx context.Context, userID int64, month string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, tx := range m.txs {
		if tx.UserID == userID && tx.Type == models.TransactionExpense && tx.Date.Format("2006-01") == month {
			out[tx.Category] += tx.Amount
		}
	}
	return out, nil
}

type mockBudgetStore struct {
	budgets map[int64]*models.Budget
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{budgets: make(map[int64]*models.Budget)}
}

func (m *mockBudgetStore) add(budget models.Budget) *models.Budget {
	copied := budget
	m.budgets[copied.ID] = &copied
	return m.budgets[copied.ID]
}

func (m *mockBudgetStore) GetBudgetsByUser(ctx context.Context, userID int64) ([]models.Budget, error) {
	var out []models.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBudgetStore) GetBudgetByCategory(ctx context.Context, userID int64, category, month string) (*models.Budget, error) {
	for _, b := range m.budgets {
		if b.UserID == userID && b.Category == category && b.Month == month {
			copied := *b
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockBudgetStore) InsertBudget(ctx context.Context, budget *models.Budget) (int64, error) {
	m.add(*budget)
	return budget.ID, nil
}

func (m *mockBudgetStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	copied := *budget
	m.budgets[budget.ID] = &copied
	return nil
}

func (m *mockBudgetStore) DeleteBudget(ctx context.Context, id, userID int64) error {
	delete(m.budgets, id)
	return nil
}
