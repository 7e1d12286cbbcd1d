package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/financialtrack/backend/src/models"
)

const debtColumns = `id, user_id, creditor_name, amount, amount_paid, remaining_balance,
	interest_rate, due_date, type, description, is_active,
	notified_5_days, notified_3_days, notified_1_day,
	notified_5_hours, notified_3_hours, notified_1_hour, notified_overdue,
	created_at, paid_at`

// SQLDebtStore implements DebtStore over a *sql.DB.
type SQLDebtStore struct {
	db *sql.DB
}

func NewSQLDebtStore(db *sql.DB) *SQLDebtStore {
	return &SQLDebtStore{db: db}
}

func scanDebt(row interface{ Scan(...any) error }) (*models.Debt, error) {
	var d models.Debt
	var paidAt sql.NullTime
	err := row.Scan(
		&d.ID, &d.UserID, &d.CreditorName, &d.Amount, &d.AmountPaid, &d.RemainingBalance,
		&d.InterestRate, &d.DueDate, &d.Type, &d.Description, &d.IsActive,
		&d.Notified5Days, &d.Notified3Days, &d.Notified1Day,
		&d.Notified5Hours, &d.Notified3Hours, &d.Notified1Hour, &d.NotifiedOverdue,
		&d.CreatedAt, &paidAt,
	)
	if err != nil {
		return nil, err
	}
	d.PaidAt = models.NullTime(paidAt)
	return &d, nil
}

func (s *SQLDebtStore) queryDebts(ctx context.Context, query string, args ...any) ([]models.Debt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, *d)
	}
	return debts, rows.Err()
}

func (s *SQLDebtStore) GetActiveDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	return s.queryDebts(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE user_id = ? AND is_active = TRUE ORDER BY created_at DESC`,
		userID)
}

func (s *SQLDebtStore) GetAllActiveDebts(ctx context.Context) ([]models.Debt, error) {
	return s.queryDebts(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE is_active = TRUE ORDER BY user_id, due_date ASC`)
}

func (s *SQLDebtStore) GetPaidDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	return s.queryDebts(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE user_id = ? AND is_active = FALSE ORDER BY paid_at DESC`,
		userID)
}

func (s *SQLDebtStore) GetDebtByID(ctx context.Context, id int64) (*models.Debt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = ?`, id)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (s *SQLDebtStore) InsertDebt(ctx context.Context, debt *models.Debt) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO debts (user_id, creditor_name, amount, amount_paid, remaining_balance,
			interest_rate, due_date, type, description, is_active,
			notified_5_days, notified_3_days, notified_1_day,
			notified_5_hours, notified_3_hours, notified_1_hour, notified_overdue,
			created_at, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debt.UserID, debt.CreditorName, debt.Amount, debt.AmountPaid, debt.RemainingBalance,
		debt.InterestRate, debt.DueDate, debt.Type, debt.Description, debt.IsActive,
		debt.Notified5Days, debt.Notified3Days, debt.Notified1Day,
		debt.Notified5Hours, debt.Notified3Hours, debt.Notified1Hour, debt.NotifiedOverdue,
		debt.CreatedAt, sql.NullTime(debt.PaidAt),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	debt.ID = id
	return id, nil
}

func (s *SQLDebtStore) UpdateDebt(ctx context.Context, debt *models.Debt) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE debts SET creditor_name = ?, amount = ?, amount_paid = ?, remaining_balance = ?,
			interest_rate = ?, due_date = ?, type = ?, description = ?, is_active = ?,
			notified_5_days = ?, notified_3_days = ?, notified_1_day = ?,
			notified_5_hours = ?, notified_3_hours = ?, notified_1_hour = ?, notified_overdue = ?,
			paid_at = ?
		WHERE id = ? AND user_id = ?`,
		debt.CreditorName, debt.Amount, debt.AmountPaid, debt.RemainingBalance,
		debt.InterestRate, debt.DueDate, debt.Type, debt.Description, debt.IsActive,
		debt.Notified5Days, debt.Notified3Days, debt.Notified1Day,
		debt.Notified5Hours, debt.Notified3Hours, debt.Notified1Hour, debt.NotifiedOverdue,
		sql.NullTime(debt.PaidAt),
		debt.ID, debt.UserID,
	)
	return err
}

func (s *SQLDebtStore) DeleteDebt(ctx context.Context, id, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ? AND user_id = ?`, id, userID)
	return err
}
