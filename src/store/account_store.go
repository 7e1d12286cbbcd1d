package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/financialtrack/backend/src/models"
)

// SQLAccountStore implements AccountStore over a *sql.DB.
type SQLAccountStore struct {
	db *sql.DB
}

func NewSQLAccountStore(db *sql.DB) *SQLAccountStore {
	return &SQLAccountStore{db: db}
}

func (s *SQLAccountStore) GetAccountsByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, balance FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *SQLAccountStore) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, balance FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *SQLAccountStore) InsertAccount(ctx context.Context, account *models.Account) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, name, type, balance) VALUES (?, ?, ?, ?)`,
		account.UserID, account.Name, account.Type, account.Balance)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	account.ID = id
	return id, nil
}

func (s *SQLAccountStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, type = ?, balance = ? WHERE id = ? AND user_id = ?`,
		account.Name, account.Type, account.Balance, account.ID, account.UserID)
	return err
}

func (s *SQLAccountStore) DeleteAccount(ctx context.Context, id, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	return err
}
