package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/financialtrack/backend/src/models"
)

// SQLBudgetStore implements BudgetStore over a *sql.DB.
type SQLBudgetStore struct {
	db *sql.DB
}

func NewSQLBudgetStore(db *sql.DB) *SQLBudgetStore {
	return &SQLBudgetStore{db: db}
}

func (s *SQLBudgetStore) GetBudgetsByUser(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, limit_amount, month, created_at
		 FROM budgets WHERE user_id = ? ORDER BY month DESC, category`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.LimitAmount, &b.Month, &b.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *SQLBudgetStore) GetBudgetByCategory(ctx context.Context, userID int64, category, month string) (*models.Budget, error) {
	var b models.Budget
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, limit_amount, month, created_at
		 FROM budgets WHERE user_id = ? AND category = ? AND month = ?`,
		userID, category, month).
		Scan(&b.ID, &b.UserID, &b.Category, &b.LimitAmount, &b.Month, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLBudgetStore) InsertBudget(ctx context.Context, budget *models.Budget) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, limit_amount, month, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		budget.UserID, budget.Category, budget.LimitAmount, budget.Month, budget.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	budget.ID = id
	return id, nil
}

func (s *SQLBudgetStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE budgets SET category = ?, limit_amount = ?, month = ?
		WHERE id = ? AND user_id = ?`,
		budget.Category, budget.LimitAmount, budget.Month, budget.ID, budget.UserID)
	return err
}

func (s *SQLBudgetStore) DeleteBudget(ctx context.Context, id, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	return err
}
