package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/financialtrack/backend/src/models"
)

const notificationColumns = `id, user_id, title, message, type, is_read, navigation_type, debt_id, created_at`

// SQLNotificationStore implements NotificationStore over a *sql.DB.
type SQLNotificationStore struct {
	db *sql.DB
}

func NewSQLNotificationStore(db *sql.DB) *SQLNotificationStore {
	return &SQLNotificationStore{db: db}
}

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	var n models.Notification
	var debtID sql.NullInt64
	err := row.Scan(
		&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead,
		&n.NavigationType, &debtID, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if debtID.Valid {
		n.DebtID = &debtID.Int64
	}
	return &n, nil
}

func (s *SQLNotificationStore) queryNotifications(ctx context.Context, query string, args ...any) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func (s *SQLNotificationStore) GetNotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.queryNotifications(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
}

func (s *SQLNotificationStore) GetUnreadNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.queryNotifications(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = ? AND is_read = FALSE ORDER BY created_at DESC`,
		userID)
}

func (s *SQLNotificationStore) FindByUserAndDebt(ctx context.Context, userID, debtID int64) (*models.Notification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = ? AND debt_id = ? LIMIT 1`,
		userID, debtID)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

// InsertIgnoreOnConflict writes the notification with INSERT OR IGNORE so a
// concurrent duplicate for the same (user, debt) pair degrades to a no-op.
// Returns 0 when the uniqueness constraint swallowed the row.
func (s *SQLNotificationStore) InsertIgnoreOnConflict(ctx context.Context, n *models.Notification) (int64, error) {
	var debtID any
	if n.DebtID != nil {
		debtID = *n.DebtID
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO notifications (user_id, title, message, type, is_read, navigation_type, debt_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.NavigationType, debtID, n.CreatedAt)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	n.ID = id
	return id, nil
}

func (s *SQLNotificationStore) MarkAsRead(ctx context.Context, id, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

func (s *SQLNotificationStore) DeleteNotification(ctx context.Context, id, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

func (s *SQLNotificationStore) DeleteAllForUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID)
	return err
}
