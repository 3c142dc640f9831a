package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/domain/account"
	domain "corebank/internal/domain/transaction"
	"corebank/internal/domain/uow"
	"corebank/internal/testutil/accountmock"
	"corebank/internal/testutil/transactionmock"
	"corebank/internal/testutil/uowmock"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// engine wires the usecase over in-memory account and transaction stores.
type engine struct {
	uc       *Usecase
	accounts map[string]*account.Account
	txns     map[string]*domain.Transaction
}

func newEngine(accts ...*account.Account) *engine {
	e := &engine{
		accounts: map[string]*account.Account{},
		txns:     map[string]*domain.Transaction{},
	}
	for _, a := range accts {
		e.accounts[a.AccountID] = a
	}

	lookup := func(ctx context.Context, id string) (*account.Account, error) {
		a, ok := e.accounts[id]
		if !ok {
			return nil, account.ErrNotFound
		}
		return a, nil
	}
	accountRepo := &accountmock.Repo{
		GetByAccountIDFn:          lookup,
		GetByAccountIDForUpdateFn: lookup,
	}

	txnLookup := func(ctx context.Context, id string) (*domain.Transaction, error) {
		t, ok := e.txns[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return t, nil
	}
	txnRepo := &transactionmock.Repo{
		CreateFn: func(ctx context.Context, t *domain.Transaction) error {
			e.txns[t.TransactionID] = t
			return nil
		},
		GetByTransactionIDFn:          txnLookup,
		GetByTransactionIDForUpdateFn: txnLookup,
	}

	repos := uow.Repos{Accounts: accountRepo, Transactions: txnRepo}
	e.uc = NewUsecase(accountRepo, txnRepo, uowmock.Passthrough(repos), nil)
	e.uc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return e
}

func usd(id string, balance string) *account.Account {
	return &account.Account{
		AccountID:        id,
		HolderID:         "holder-1",
		Currency:         "USD",
		Balance:          dec(balance),
		AvailableBalance: dec(balance),
	}
}

func TestCreateDeposit_Pending(t *testing.T) {
	e := newEngine(usd("acc-1", "100"))

	dto, err := e.uc.CreateDeposit(context.Background(), DepositInput{
		ToAccountID: "acc-1",
		Amount:      dec("50.005"),
		Channel:     "ATM",
	})
	if err != nil {
		t.Fatalf("CreateDeposit: %v", err)
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status: want PENDING, got %s", dto.Status)
	}
	if dto.Currency != "USD" {
		t.Fatalf("currency must come from the account, got %s", dto.Currency)
	}
	if !dto.Amount.Equal(dec("50.01")) {
		t.Fatalf("amount must round to 2dp half-up: got %s", dto.Amount)
	}
	// balance untouched until Process
	if !e.accounts["acc-1"].Balance.Equal(dec("100")) {
		t.Fatalf("create must not move money")
	}
}

func TestCreateDeposit_InvalidAmount(t *testing.T) {
	e := newEngine(usd("acc-1", "100"))
	_, err := e.uc.CreateDeposit(context.Background(), DepositInput{ToAccountID: "acc-1", Amount: decimal.Zero})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestCreateTransfer_SameAccount(t *testing.T) {
	e := newEngine(usd("acc-1", "100"))
	_, err := e.uc.CreateTransfer(context.Background(), TransferInput{
		FromAccountID: "acc-1", ToAccountID: "acc-1", Amount: dec("10"),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount for self transfer, got %v", err)
	}
}

func TestCreateTransfer_CurrencyMismatch(t *testing.T) {
	eur := usd("acc-2", "100")
	eur.Currency = "EUR"
	e := newEngine(usd("acc-1", "100"), eur)

	_, err := e.uc.CreateTransfer(context.Background(), TransferInput{
		FromAccountID: "acc-1", ToAccountID: "acc-2", Amount: dec("10"),
	})
	if !errors.Is(err, account.ErrCurrencyMismatch) {
		t.Fatalf("want ErrCurrencyMismatch, got %v", err)
	}
}

func TestProcess_DepositCompletes(t *testing.T) {
	e := newEngine(usd("acc-1", "100"))
	created, err := e.uc.CreateDeposit(context.Background(), DepositInput{ToAccountID: "acc-1", Amount: dec("50")})
	if err != nil {
		t.Fatalf("CreateDeposit: %v", err)
	}

	dto, err := e.uc.Process(context.Background(), created.TransactionID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if dto.Status != string(domain.StatusCompleted) {
		t.Fatalf("status: want COMPLETED, got %s", dto.Status)
	}
	if dto.CompletedAt == nil || dto.ProcessedAt == nil {
		t.Fatalf("timestamps not stamped: %+v", dto)
	}
	if !e.accounts["acc-1"].Balance.Equal(dec("150")) {
		t.Fatalf("balance: want 150, got %s", e.accounts["acc-1"].Balance)
	}
}

func TestProcess_WithdrawalInsufficientFundsCommitsFailed(t *testing.T) {
	e := newEngine(usd("acc-1", "30"))
	created, err := e.uc.CreateWithdrawal(context.Background(), WithdrawalInput{FromAccountID: "acc-1", Amount: dec("50")})
	if err != nil {
		t.Fatalf("CreateWithdrawal: %v", err)
	}

	dto, err := e.uc.Process(context.Background(), created.TransactionID)
	if !errors.Is(err, account.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if !IsRetryable(err) {
		t.Fatalf("insufficient funds must be retryable")
	}
	if dto == nil || dto.Status != string(domain.StatusFailed) {
		t.Fatalf("the FAILED transition must commit alongside the error: %+v", dto)
	}
	if dto.FailureReason == "" {
		t.Fatalf("failure reason not recorded")
	}
	if !e.accounts["acc-1"].Balance.Equal(dec("30")) {
		t.Fatalf("balance must be untouched on failure, got %s", e.accounts["acc-1"].Balance)
	}
	// FAILED is terminal: a second Process is rejected
	if _, err := e.uc.Process(context.Background(), created.TransactionID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("re-processing FAILED: want ErrInvalidTransition, got %v", err)
	}
}

func TestProcess_TransferConservesMoney(t *testing.T) {
	e := newEngine(usd("acc-1", "100"), usd("acc-2", "20"))
	created, err := e.uc.CreateTransfer(context.Background(), TransferInput{
		FromAccountID: "acc-1", ToAccountID: "acc-2", Amount: dec("40"),
	})
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}

	dto, err := e.uc.Process(context.Background(), created.TransactionID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if dto.Status != string(domain.StatusCompleted) {
		t.Fatalf("status: want COMPLETED, got %s", dto.Status)
	}
	from, to := e.accounts["acc-1"], e.accounts["acc-2"]
	if !from.Balance.Equal(dec("60")) || !to.Balance.Equal(dec("60")) {
		t.Fatalf("balances after transfer: from=%s to=%s", from.Balance, to.Balance)
	}
	if !from.Balance.Add(to.Balance).Equal(dec("120")) {
		t.Fatalf("money not conserved")
	}
}

func TestProcess_OnlyPending(t *testing.T) {
	e := newEngine(usd("acc-1", "100"))
	created, _ := e.uc.CreateDeposit(context.Background(), DepositInput{ToAccountID: "acc-1", Amount: dec("10")})
	if _, err := e.uc.Process(context.Background(), created.TransactionID); err != nil {
		t.Fatalf("first Process: %v", err)
	}

	_, err := e.uc.Process(context.Background(), created.TransactionID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	// the double-process must not double-credit
	if !e.accounts["acc-1"].Balance.Equal(dec("110")) {
		t.Fatalf("balance double-credited: %s", e.accounts["acc-1"].Balance)
	}
}

func TestCancel_PendingOnly(t *testing.T) {
	e := newEngine(usd("acc-1", "100"))
	created, _ := e.uc.CreateWithdrawal(context.Background(), WithdrawalInput{FromAccountID: "acc-1", Amount: dec("10")})

	dto, err := e.uc.Cancel(context.Background(), created.TransactionID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if dto.Status != string(domain.StatusCancelled) {
		t.Fatalf("status: want CANCELLED, got %s", dto.Status)
	}
	if !e.accounts["acc-1"].Balance.Equal(dec("100")) {
		t.Fatalf("cancel must not move money")
	}

	if _, err := e.uc.Cancel(context.Background(), created.TransactionID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("re-cancel: want ErrInvalidTransition, got %v", err)
	}
}

func TestExecuteWithdrawal_OneShot(t *testing.T) {
	e := newEngine(usd("acc-1", "100"))
	dto, err := e.uc.ExecuteWithdrawal(context.Background(), WithdrawalInput{
		FromAccountID: "acc-1", Amount: dec("25"), Channel: "LOAN_PAYMENT",
	})
	if err != nil {
		t.Fatalf("ExecuteWithdrawal: %v", err)
	}
	if dto.Status != string(domain.StatusCompleted) {
		t.Fatalf("status: want COMPLETED, got %s", dto.Status)
	}
	if !e.accounts["acc-1"].Balance.Equal(dec("75")) {
		t.Fatalf("balance: want 75, got %s", e.accounts["acc-1"].Balance)
	}
}
