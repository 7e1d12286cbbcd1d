package services

import (
	"context"
	"testing"
	"time"

	"github.com/financialtrack/backend/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSinkFixture() (*NotificationService, *mockNotificationStore) {
	store := newMockNotificationStore()
	clock := &fixedClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewNotificationService(store, clock), store
}

func debtNotification(userID, debtID int64) *models.Notification {
	return &models.Notification{
		UserID:         userID,
		Title:          "Bill Reminder",
		Message:        "Your Car Loan is due in 1 hour",
		Type:           models.NotificationDebtReminder,
		NavigationType: models.NavigateDebts,
		DebtID:         &debtID,
	}
}

func TestInsertDebtNotification(t *testing.T) {
	sink, store := newSinkFixture()

	result, err := sink.Insert(context.Background(), debtNotification(1, 10))
	require.NoError(t, err)
	assert.False(t, result.DuplicatePrevented)
	assert.NotZero(t, result.ID)
	assert.Len(t, store.notifications, 1)
}

func TestInsertDuplicateDebtNotificationPrevented(t *testing.T) {
	sink, store := newSinkFixture()

	first, err := sink.Insert(context.Background(), debtNotification(1, 10))
	require.NoError(t, err)
	require.False(t, first.DuplicatePrevented)

	second, err := sink.Insert(context.Background(), debtNotification(1, 10))
	require.NoError(t, err)
	assert.True(t, second.DuplicatePrevented)
	assert.Zero(t, second.ID)
	assert.Len(t, store.notifications, 1)
}

func TestInsertSameDebtDifferentUsers(t *testing.T) {
	sink, store := newSinkFixture()

	_, err := sink.Insert(context.Background(), debtNotification(1, 10))
	require.NoError(t, err)
	result, err := sink.Insert(context.Background(), debtNotification(2, 10))
	require.NoError(t, err)

	assert.False(t, result.DuplicatePrevented)
	assert.Len(t, store.notifications, 2)
}

func TestInsertWithoutDebtIDNeverDeduplicated(t *testing.T) {
	sink, store := newSinkFixture()

	for i := 0; i < 3; i++ {
		result, err := sink.Insert(context.Background(), &models.Notification{
			UserID:  1,
			Title:   "Budget Alert",
			Message: "Food budget is 85% utilized",
			Type:    models.NotificationBudgetAlert,
		})
		require.NoError(t, err)
		assert.False(t, result.DuplicatePrevented)
	}
	assert.Len(t, store.notifications, 3)
}

func TestInsertLostRaceReportedAsDuplicate(t *testing.T) {
	sink, store := newSinkFixture()
	// The existence check sees nothing, but the constraint-guarded insert
	// still swallows the row.
	store.raceInsertConflict = true

	result, err := sink.Insert(context.Background(), debtNotification(1, 10))
	require.NoError(t, err)
	assert.True(t, result.DuplicatePrevented)
	assert.Zero(t, result.ID)
}

func TestInsertFillsDefaults(t *testing.T) {
	sink, store := newSinkFixture()

	_, err := sink.Insert(context.Background(), &models.Notification{
		UserID:  1,
		Title:   "Goal Progress",
		Message: "Vacation is now 40% complete",
		Type:    models.NotificationGeneral,
	})
	require.NoError(t, err)

	stored := store.notifications[0]
	assert.Equal(t, models.NavigateNone, stored.NavigationType)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestReminderMessagePerThreshold(t *testing.T) {
	debt := &models.Debt{
		UserID:       1,
		CreditorName: "Car Loan",
		DueDate:      time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		threshold models.ReminderThreshold
		contains  string
	}{
		{models.ThresholdOverdue, "overdue"},
		{models.ThresholdOneHour, "due in 1 hour"},
		{models.ThresholdThreeHours, "due in 3 hours"},
		{models.ThresholdFiveHours, "due in 5 hours"},
		{models.ThresholdOneDay, "due tomorrow"},
		{models.ThresholdThreeDays, "due in 3 days"},
		{models.ThresholdFiveDays, "due in 5 days"},
	}

	for _, tc := range tests {
		t.Run(tc.threshold.String(), func(t *testing.T) {
			n := NewDebtReminder(debt, tc.threshold)
			assert.Contains(t, n.Message, tc.contains)
			assert.Contains(t, n.Message, "Mar 15, 2026")
			assert.Equal(t, models.NavigateDebts, n.NavigationType)
		})
	}
}
