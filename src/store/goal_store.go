package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/financialtrack/backend/src/models"
)

const goalColumns = `id, user_id, goal_name, target_amount, saved_amount, deadline, is_completed, created_at`

// SQLGoalStore implements GoalStore over a *sql.DB.
type SQLGoalStore struct {
	db *sql.DB
}

func NewSQLGoalStore(db *sql.DB) *SQLGoalStore {
	return &SQLGoalStore{db: db}
}

func scanGoal(row interface{ Scan(...any) error }) (*models.FinancialGoal, error) {
	var g models.FinancialGoal
	var deadline sql.NullTime
	err := row.Scan(
		&g.ID, &g.UserID, &g.GoalName, &g.TargetAmount, &g.SavedAmount,
		&deadline, &g.IsCompleted, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Deadline = models.NullTime(deadline)
	return &g, nil
}

func (s *SQLGoalStore) GetGoalsByUser(ctx context.Context, userID int64) ([]models.FinancialGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM financial_goals WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.FinancialGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *SQLGoalStore) GetGoalByID(ctx context.Context, id int64) (*models.FinancialGoal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM financial_goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func (s *SQLGoalStore) InsertGoal(ctx context.Context, goal *models.FinancialGoal) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO financial_goals (user_id, goal_name, target_amount, saved_amount, deadline, is_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		goal.UserID, goal.GoalName, goal.TargetAmount, goal.SavedAmount,
		sql.NullTime(goal.Deadline), goal.IsCompleted, goal.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	goal.ID = id
	return id, nil
}

func (s *SQLGoalStore) UpdateGoal(ctx context.Context, goal *models.FinancialGoal) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE financial_goals SET goal_name = ?, target_amount = ?, saved_amount = ?,
			deadline = ?, is_completed = ?
		WHERE id = ? AND user_id = ?`,
		goal.GoalName, goal.TargetAmount, goal.SavedAmount,
		sql.NullTime(goal.Deadline), goal.IsCompleted, goal.ID, goal.UserID)
	return err
}

func (s *SQLGoalStore) DeleteGoal(ctx context.Context, id, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM financial_goals WHERE id = ? AND user_id = ?`, id, userID)
	return err
}
