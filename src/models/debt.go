package models

import "time"

// DebtType classifies a tracked obligation.
type DebtType string

const (
	DebtTypeLoan       DebtType = "LOAN"
	DebtTypeDebt       DebtType = "DEBT"
	DebtTypeCreditCard DebtType = "CREDIT_CARD"
)

// ReminderThreshold identifies one of the seven urgency windows relative to
// a debt's due date. The zero value is the most urgent (overdue).
type ReminderThreshold int

const (
	ThresholdOverdue ReminderThreshold = iota
	ThresholdOneHour
	ThresholdThreeHours
	ThresholdFiveHours
	ThresholdOneDay
	ThresholdThreeDays
	ThresholdFiveDays
)

func (t ReminderThreshold) String() string {
	switch t {
	case ThresholdOverdue:
		return "overdue"
	case ThresholdOneHour:
		return "1_hour"
	case ThresholdThreeHours:
		return "3_hours"
	case ThresholdFiveHours:
		return "5_hours"
	case ThresholdOneDay:
		return "1_day"
	case ThresholdThreeDays:
		return "3_days"
	case ThresholdFiveDays:
		return "5_days"
	}
	return "unknown"
}

// Debt represents a loan or debt obligation with a due date, a remaining
// balance, and one-shot reminder flags per threshold.
type Debt struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	CreditorName     string    `json:"creditor_name"`
	Amount           float64   `json:"amount"`
	AmountPaid       float64   `json:"amount_paid"`
	RemainingBalance float64   `json:"remaining_balance"`
	InterestRate     float64   `json:"interest_rate"`
	DueDate          time.Time `json:"due_date"`
	Type             DebtType  `json:"type"`
	Description      string    `json:"description"`
	IsActive         bool      `json:"is_active"`

	// One-shot reminder flags. Once true they stay true until
	// ClearNotificationFlags; that is the mechanism guaranteeing each
	// threshold fires at most once per debt.
	Notified5Days   bool `json:"notified_5_days"`
	Notified3Days   bool `json:"notified_3_days"`
	Notified1Day    bool `json:"notified_1_day"`
	Notified5Hours  bool `json:"notified_5_hours"`
	Notified3Hours  bool `json:"notified_3_hours"`
	Notified1Hour   bool `json:"notified_1_hour"`
	NotifiedOverdue bool `json:"notified_overdue"`

	CreatedAt time.Time `json:"created_at"`
	PaidAt    NullTime  `json:"paid_at"`
}

// NotifiedFor reports whether the one-shot flag for the given threshold is set.
func (d *Debt) NotifiedFor(t ReminderThreshold) bool {
	switch t {
	case ThresholdOverdue:
		return d.NotifiedOverdue
	case ThresholdOneHour:
		return d.Notified1Hour
	case ThresholdThreeHours:
		return d.Notified3Hours
	case ThresholdFiveHours:
		return d.Notified5Hours
	case ThresholdOneDay:
		return d.Notified1Day
	case ThresholdThreeDays:
		return d.Notified3Days
	case ThresholdFiveDays:
		return d.Notified5Days
	}
	return false
}

// SetNotified sets the one-shot flag for the given threshold.
func (d *Debt) SetNotified(t ReminderThreshold) {
	switch t {
	case ThresholdOverdue:
		d.NotifiedOverdue = true
	case ThresholdOneHour:
		d.Notified1Hour = true
	case ThresholdThreeHours:
		d.Notified3Hours = true
	case ThresholdFiveHours:
		d.Notified5Hours = true
	case ThresholdOneDay:
		d.Notified1Day = true
	case ThresholdThreeDays:
		d.Notified3Days = true
	case ThresholdFiveDays:
		d.Notified5Days = true
	}
}

// ClearNotificationFlags resets all seven flags. This is the only legal way
// a flag returns to false; it runs when a debt is marked paid or reactivated
// so a reopened debt starts its reminder cycle fresh.
func (d *Debt) ClearNotificationFlags() {
	d.Notified5Days = false
	d.Notified3Days = false
	d.Notified1Day = false
	d.Notified5Hours = false
	d.Notified3Hours = false
	d.Notified1Hour = false
	d.NotifiedOverdue = false
}
