package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/financialtrack/backend/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newDebtTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE debts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			creditor_name TEXT NOT NULL,
			amount REAL NOT NULL,
			amount_paid REAL NOT NULL DEFAULT 0,
			remaining_balance REAL NOT NULL DEFAULT 0,
			interest_rate REAL NOT NULL DEFAULT 0,
			due_date TIMESTAMP NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			notified_5_days BOOLEAN NOT NULL DEFAULT FALSE,
			notified_3_days BOOLEAN NOT NULL DEFAULT FALSE,
			notified_1_day BOOLEAN NOT NULL DEFAULT FALSE,
			notified_5_hours BOOLEAN NOT NULL DEFAULT FALSE,
			notified_3_hours BOOLEAN NOT NULL DEFAULT FALSE,
			notified_1_hour BOOLEAN NOT NULL DEFAULT FALSE,
			notified_overdue BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			paid_at TIMESTAMP
		);
	`)
	require.NoError(t, err)
	return db
}

func testDebt(userID int64) *models.Debt {
	return &models.Debt{
		UserID:           userID,
		CreditorName:     "Car Loan",
		Amount:           5000,
		RemainingBalance: 5000,
		DueDate:          time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC),
		Type:             models.DebtTypeLoan,
		IsActive:         true,
		CreatedAt:        time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestDebtInsertAndGetByID(t *testing.T) {
	store := NewSQLDebtStore(newDebtTestDB(t))
	ctx := context.Background()

	debt := testDebt(1)
	id, err := store.InsertDebt(ctx, debt)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.GetDebtByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Car Loan", got.CreditorName)
	assert.InDelta(t, 5000, got.RemainingBalance, 1e-9)
	assert.True(t, got.IsActive)
	assert.False(t, got.PaidAt.Valid)
}

func TestDebtGetByIDMissing(t *testing.T) {
	store := NewSQLDebtStore(newDebtTestDB(t))

	_, err := store.GetDebtByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDebtUpdatePersistsFlags(t *testing.T) {
	store := NewSQLDebtStore(newDebtTestDB(t))
	ctx := context.Background()

	debt := testDebt(1)
	id, err := store.InsertDebt(ctx, debt)
	require.NoError(t, err)

	debt.SetNotified(models.ThresholdThreeDays)
	debt.AmountPaid = 1000
	debt.RemainingBalance = 4000
	require.NoError(t, store.UpdateDebt(ctx, debt))

	got, err := store.GetDebtByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Notified3Days)
	assert.False(t, got.Notified5Days)
	assert.InDelta(t, 4000, got.RemainingBalance, 1e-9)
}

func TestDebtActiveAndPaidListings(t *testing.T) {
	store := NewSQLDebtStore(newDebtTestDB(t))
	ctx := context.Background()

	open := testDebt(1)
	_, err := store.InsertDebt(ctx, open)
	require.NoError(t, err)

	closed := testDebt(1)
	closed.IsActive = false
	closed.PaidAt = models.NullTime{Time: time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), Valid: true}
	_, err = store.InsertDebt(ctx, closed)
	require.NoError(t, err)

	// Another user's debt never leaks into the listings.
	_, err = store.InsertDebt(ctx, testDebt(2))
	require.NoError(t, err)

	active, err := store.GetActiveDebts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	paid, err := store.GetPaidDebts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, closed.ID, paid[0].ID)
	assert.True(t, paid[0].PaidAt.Valid)

	all, err := store.GetAllActiveDebts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDebtDeleteScopedToUser(t *testing.T) {
	store := NewSQLDebtStore(newDebtTestDB(t))
	ctx := context.Background()

	debt := testDebt(1)
	id, err := store.InsertDebt(ctx, debt)
	require.NoError(t, err)

	require.NoError(t, store.DeleteDebt(ctx, id, 2))
	_, err = store.GetDebtByID(ctx, id)
	assert.NoError(t, err)

	require.NoError(t, store.DeleteDebt(ctx, id, 1))
	_, err = store.GetDebtByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
