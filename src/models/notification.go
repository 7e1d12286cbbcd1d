package models

import "time"

// NotificationType tags the category of an in-app notification.
type NotificationType string

const (
	NotificationBudgetAlert      NotificationType = "BUDGET_ALERT"
	NotificationDebtReminder     NotificationType = "DEBT_REMINDER"
	NotificationTransactionAlert NotificationType = "TRANSACTION_ALERT"
	NotificationGeneral          NotificationType = "GENERAL"
)

// Navigation hints telling the client which screen to open on tap.
const (
	NavigateNone         = "none"
	NavigateTransactions = "transactions"
	NavigateDebts        = "debts"
	NavigateProfile      = "profile"
	NavigateReports      = "reports"
)

// Notification is a lightweight record of a message shown to the user.
// DebtID, when set, is the deduplication key: at most one notification per
// (user, debt) pair ever exists.
type Notification struct {
	ID             int64            `json:"id"`
	UserID         int64            `json:"user_id"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	IsRead         bool             `json:"is_read"`
	NavigationType string           `json:"navigation_type"`
	DebtID         *int64           `json:"debt_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
