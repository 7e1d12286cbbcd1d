package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/financialtrack/backend/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture() (*LedgerService, *mockAccountStore, *mockGoalStore, *mockDebtStore) {
	accounts := newMockAccountStore()
	goals := newMockGoalStore()
	debts := newMockDebtStore()
	clock := &fixedClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewLedgerService(accounts, goals, debts, clock), accounts, goals, debts
}

func TestBalanceDeltaSequence(t *testing.T) {
	ledger, accounts, _, _ := newLedgerFixture()
	accounts.add(models.Account{ID: 1, UserID: 1, Balance: 1000})
	ctx := context.Background()

	expense := &models.Transaction{UserID: 1, AccountID: 1, Type: models.TransactionExpense, Amount: 200}
	require.NoError(t, ledger.ApplyBalanceDelta(ctx, expense, DirectionAdd))
	assert.InDelta(t, 800, accounts.balance(1), 1e-9)

	expense2 := &models.Transaction{UserID: 1, AccountID: 1, Type: models.TransactionExpense, Amount: 100}
	require.NoError(t, ledger.ApplyBalanceDelta(ctx, expense2, DirectionAdd))
	assert.InDelta(t, 700, accounts.balance(1), 1e-9)

	// Removing the first expense restores exactly its effect.
	require.NoError(t, ledger.ApplyBalanceDelta(ctx, expense, DirectionRemove))
	assert.InDelta(t, 900, accounts.balance(1), 1e-9)

	require.NoError(t, ledger.ApplyBalanceDelta(ctx, expense2, DirectionRemove))
	assert.InDelta(t, 1000, accounts.balance(1), 1e-9)
}

func TestIncomeAddsAndRemoveReverses(t *testing.T) {
	ledger, accounts, _, _ := newLedgerFixture()
	accounts.add(models.Account{ID: 1, UserID: 1, Balance: 500})
	ctx := context.Background()

	income := &models.Transaction{UserID: 1, AccountID: 1, Type: models.TransactionIncome, Amount: 300}
	require.NoError(t, ledger.ApplyBalanceDelta(ctx, income, DirectionAdd))
	assert.InDelta(t, 800, accounts.balance(1), 1e-9)

	require.NoError(t, ledger.ApplyBalanceDelta(ctx, income, DirectionRemove))
	assert.InDelta(t, 500, accounts.balance(1), 1e-9)
}

func TestTransferBetweenAccounts(t *testing.T) {
	ledger, accounts, _, _ := newLedgerFixture()
	accounts.add(models.Account{ID: 1, UserID: 1, Balance: 1000})
	accounts.add(models.Account{ID: 2, UserID: 1, Balance: 100})
	ctx := context.Background()

	transfer := &models.Transaction{
		UserID: 1, AccountID: 1, Type: models.TransactionTransfer, Amount: 250,
		TransferToID: 2, TransferToType: models.TransferTargetAccount,
	}
	require.NoError(t, ledger.ApplyBalanceDelta(ctx, transfer, DirectionAdd))
	assert.InDelta(t, 750, accounts.balance(1), 1e-9)
	assert.InDelta(t, 350, accounts.balance(2), 1e-9)

	require.NoError(t, ledger.ApplyBalanceDelta(ctx, transfer, DirectionRemove))
	assert.InDelta(t, 1000, accounts.balance(1), 1e-9)
	assert.InDelta(t, 100, accounts.balance(2), 1e-9)
}

func TestTransferToGoalMovesProjection(t *testing.T) {
	ledger, accounts, goals, _ := newLedgerFixture()
	accounts.add(models.Account{ID: 1, UserID: 1, Balance: 1000})
	goals.add(models.FinancialGoal{ID: 7, UserID: 1, GoalName: "Vacation", TargetAmount: 2000, SavedAmount: 400})
	ctx := context.Background()

	transfer := &models.Transaction{
		UserID: 1, AccountID: 1, Type: models.TransactionTransfer, Amount: 100,
		TransferToID: 7, TransferToType: models.TransferTargetGoal,
	}
	require.NoError(t, ledger.ApplyBalanceDelta(ctx, transfer, DirectionAdd))
	assert.InDelta(t, 900, accounts.balance(1), 1e-9)
	assert.InDelta(t, 500, goals.goals[7].SavedAmount, 1e-9)

	require.NoError(t, ledger.ApplyBalanceDelta(ctx, transfer, DirectionRemove))
	assert.InDelta(t, 1000, accounts.balance(1), 1e-9)
	assert.InDelta(t, 400, goals.goals[7].SavedAmount, 1e-9)
}

func TestEditReconcilesAcrossAccounts(t *testing.T) {
	ledger, accounts, _, _ := newLedgerFixture()
	accounts.add(models.Account{ID: 1, UserID: 1, Balance: 1000})
	accounts.add(models.Account{ID: 2, UserID: 1, Balance: 1000})
	ctx := context.Background()

	oldTx := &models.Transaction{UserID: 1, AccountID: 1, Type: models.TransactionExpense, Amount: 200}
	require.NoError(t, ledger.ApplyBalanceDelta(ctx, oldTx, DirectionAdd))

	// Edit moves the expense to the other account and changes the amount.
	newTx := &models.Transaction{UserID: 1, AccountID: 2, Type: models.TransactionExpense, Amount: 150}
	require.NoError(t, ledger.EditTransaction(ctx, oldTx, newTx))

	assert.InDelta(t, 1000, accounts.balance(1), 1e-9)
	assert.InDelta(t, 850, accounts.balance(2), 1e-9)
}

func TestMissingAccountIsSilentNoOp(t *testing.T) {
	ledger, _, _, _ := newLedgerFixture()

	tx := &models.Transaction{UserID: 1, AccountID: 404, Type: models.TransactionExpense, Amount: 50}
	assert.NoError(t, ledger.ApplyBalanceDelta(context.Background(), tx, DirectionAdd))
}

func TestLoanPaymentDeductsRemainingBalance(t *testing.T) {
	ledger, _, _, debts := newLedgerFixture()
	debt := debts.add(models.Debt{
		UserID: 1, CreditorName: "Car Loan", Amount: 5000, AmountPaid: 0,
		RemainingBalance: 5000, IsActive: true,
	})

	require.NoError(t, ledger.ApplyLoanPayment(context.Background(), debt.ID, 1500))

	stored := debts.debts[debt.ID]
	assert.InDelta(t, 1500, stored.AmountPaid, 1e-9)
	assert.InDelta(t, 3500, stored.RemainingBalance, 1e-9)
	assert.True(t, stored.IsActive)
	assert.False(t, stored.PaidAt.Valid)
}

func TestLoanPaymentAutoClosesAtZero(t *testing.T) {
	ledger, _, _, debts := newLedgerFixture()
	debt := debts.add(models.Debt{
		UserID: 1, CreditorName: "Car Loan", Amount: 5000, AmountPaid: 4000,
		RemainingBalance: 1000, IsActive: true,
	})

	require.NoError(t, ledger.ApplyLoanPayment(context.Background(), debt.ID, 1000))

	stored := debts.debts[debt.ID]
	assert.InDelta(t, 0, stored.RemainingBalance, 1e-9)
	assert.False(t, stored.IsActive)
	assert.True(t, stored.PaidAt.Valid)
}

func TestLoanOverpaymentClampsToZero(t *testing.T) {
	ledger, _, _, debts := newLedgerFixture()
	debt := debts.add(models.Debt{
		UserID: 1, CreditorName: "Car Loan", Amount: 5000, AmountPaid: 4500,
		RemainingBalance: 500, IsActive: true,
	})

	require.NoError(t, ledger.ApplyLoanPayment(context.Background(), debt.ID, 2000))

	stored := debts.debts[debt.ID]
	assert.InDelta(t, 0, stored.RemainingBalance, 1e-9)
	assert.InDelta(t, 6500, stored.AmountPaid, 1e-9)
	assert.False(t, stored.IsActive)
}

func TestLoanAutoCloseDoesNotRefire(t *testing.T) {
	ledger, _, _, debts := newLedgerFixture()
	debt := debts.add(models.Debt{
		UserID: 1, CreditorName: "Car Loan", Amount: 5000, AmountPaid: 5000,
		RemainingBalance: 0, IsActive: false,
		PaidAt: models.NullTime{Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true},
	})

	require.NoError(t, ledger.ApplyLoanPayment(context.Background(), debt.ID, 100))

	stored := debts.debts[debt.ID]
	assert.False(t, stored.IsActive)
	// The original close timestamp survives a stray later payment.
	assert.Equal(t, 2026, stored.PaidAt.Time.Year())
	assert.Equal(t, time.January, stored.PaidAt.Time.Month())
}

func TestLoanPaymentNonPositiveIgnored(t *testing.T) {
	ledger, _, _, debts := newLedgerFixture()
	debt := debts.add(models.Debt{
		UserID: 1, Amount: 5000, RemainingBalance: 5000, IsActive: true,
	})

	require.NoError(t, ledger.ApplyLoanPayment(context.Background(), debt.ID, 0))
	require.NoError(t, ledger.ApplyLoanPayment(context.Background(), debt.ID, -50))

	assert.InDelta(t, 5000, debts.debts[debt.ID].RemainingBalance, 1e-9)
}

func TestLoanPaymentMissingDebtIsNoOp(t *testing.T) {
	ledger, _, _, _ := newLedgerFixture()
	assert.NoError(t, ledger.ApplyLoanPayment(context.Background(), 404, 100))
}

// TestBalanceIncrementalMatchesReplay cross-checks the incremental balance
// against a from-scratch replay over a random add/remove history.
func TestBalanceIncrementalMatchesReplay(t *testing.T) {
	ledger, accounts, _, _ := newLedgerFixture()
	const initial = 10000.0
	accounts.add(models.Account{ID: 1, UserID: 1, Balance: initial})
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	var live []*models.Transaction

	for i := 0; i < 200; i++ {
		if len(live) > 0 && rng.Intn(3) == 0 {
			idx := rng.Intn(len(live))
			tx := live[idx]
			require.NoError(t, ledger.ApplyBalanceDelta(ctx, tx, DirectionRemove))
			live = append(live[:idx], live[idx+1:]...)
			continue
		}

		txType := models.TransactionIncome
		if rng.Intn(2) == 0 {
			txType = models.TransactionExpense
		}
		tx := &models.Transaction{
			UserID: 1, AccountID: 1, Type: txType,
			Amount: float64(rng.Intn(500) + 1),
		}
		require.NoError(t, ledger.ApplyBalanceDelta(ctx, tx, DirectionAdd))
		live = append(live, tx)
	}

	replayed := initial
	for _, tx := range live {
		if tx.Type == models.TransactionIncome {
			replayed += tx.Amount
		} else {
			replayed -= tx.Amount
		}
	}
	assert.InDelta(t, replayed, accounts.balance(1), 1e-6)
}
