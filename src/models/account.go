package models

// AccountType classifies a money container.
type AccountType string

const (
	AccountTypeBank   AccountType = "BANK"
	AccountTypeCash   AccountType = "CASH"
	AccountTypeWallet AccountType = "WALLET"
	AccountTypeOther  AccountType = "OTHER"
)

// Account is a money container with a scalar balance. The balance is
// mutated only by the ledger service so it always equals the signed sum of
// the account's live transactions.
type Account struct {
	ID      int64       `json:"id"`
	UserID  int64       `json:"user_id"`
	Name    string      `json:"name"`
	Type    AccountType `json:"type"`
	Balance float64     `json:"balance"`
}
