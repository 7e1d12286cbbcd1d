package models

import "time"

// TransactionType determines the signed effect of a transaction on the
// source account: income adds, expense subtracts, transfer moves.
type TransactionType string

const (
	TransactionIncome   TransactionType = "INCOME"
	TransactionExpense  TransactionType = "EXPENSE"
	TransactionTransfer TransactionType = "TRANSFER"
)

// TransferTargetType says what a transfer's target id points at.
type TransferTargetType string

const (
	TransferTargetAccount TransferTargetType = "ACCOUNT"
	TransferTargetGoal    TransferTargetType = "GOAL"
)

// Transaction is a single money movement. Amount is always a positive
// magnitude; the sign is derived from Type, never stored.
type Transaction struct {
	ID             int64              `json:"id"`
	UserID         int64              `json:"user_id"`
	AccountID      int64              `json:"account_id"`
	Type           TransactionType    `json:"type"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	Amount         float64            `json:"amount"`
	Date           time.Time          `json:"date"`
	TransferToID   int64              `json:"transfer_to_id,omitempty"`
	TransferToType TransferTargetType `json:"transfer_to_type,omitempty"`
}
