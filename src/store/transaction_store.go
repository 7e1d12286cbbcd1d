package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/financialtrack/backend/src/models"
)

const transactionColumns = `id, user_id, account_id, type, category, description, amount, date,
	transfer_to_id, transfer_to_type`

// SQLTransactionStore implements TransactionStore over a *sql.DB.
type SQLTransactionStore struct {
	db *sql.DB
}

func NewSQLTransactionStore(db *sql.DB) *SQLTransactionStore {
	return &SQLTransactionStore{db: db}
}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var targetType sql.NullString
	err := row.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Category, &t.Description,
		&t.Amount, &t.Date, &t.TransferToID, &targetType,
	)
	if err != nil {
		return nil, err
	}
	t.TransferToType = models.TransferTargetType(targetType.String)
	return &t, nil
}

func (s *SQLTransactionStore) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

func (s *SQLTransactionStore) GetTransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, id DESC`,
		userID)
}

func (s *SQLTransactionStore) GetTransactionsByType(ctx context.Context, userID int64, txType models.TransactionType) ([]models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? AND type = ? ORDER BY date DESC, id DESC`,
		userID, txType)
}

func (s *SQLTransactionStore) GetTransactionByID(ctx context.Context, id int64) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *SQLTransactionStore) InsertTransaction(ctx context.Context, tx *models.Transaction) (int64, error) {
	var targetType any
	if tx.TransferToType != "" {
		targetType = string(tx.TransferToType)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, account_id, type, category, description, amount, date, transfer_to_id, transfer_to_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.AccountID, tx.Type, tx.Category, tx.Description, tx.Amount, tx.Date,
		tx.TransferToID, targetType)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	tx.ID = id
	return id, nil
}

func (s *SQLTransactionStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	var targetType any
	if tx.TransferToType != "" {
		targetType = string(tx.TransferToType)
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET account_id = ?, type = ?, category = ?, description = ?,
			amount = ?, date = ?, transfer_to_id = ?, transfer_to_type = ?
		WHERE id = ? AND user_id = ?`,
		tx.AccountID, tx.Type, tx.Category, tx.Description, tx.Amount, tx.Date,
		tx.TransferToID, targetType, tx.ID, tx.UserID)
	return err
}

func (s *SQLTransactionStore) DeleteTransaction(ctx context.Context, id, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

func (s *SQLTransactionStore) SumExpensesByCategory(ctx context.Context, userID int64, category, month string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = ? AND type = ? AND category = ? AND strftime('%Y-%m', date) = ?`,
		userID, models.TransactionExpense, category, month).Scan(&total)
	return total, err
}

func (s *SQLTransactionStore) MonthlyTotals(ctx context.Context, userID int64, month string) (float64, float64, error) {
	var income, expense float64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND strftime('%Y-%m', date) = ?`,
		models.TransactionIncome, models.TransactionExpense, userID, month).
		Scan(&income, &expense)
	return income, expense, err
}

func (s *SQLTransactionStore) CategoryBreakdown(ctx context.Context, userID int64, month string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(amount) FROM transactions
		WHERE user_id = ? AND type = ? AND strftime('%Y-%m', date) = ?
		GROUP BY category`,
		userID, models.TransactionExpense, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		breakdown[category] = total
	}
	return breakdown, rows.Err()
}
