package creditscore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/domain/account"
	"corebank/internal/domain/loan"
	"corebank/internal/domain/transaction"
)

// Usecase loads a holder's full ledger history and runs the pure model
// over it. Read-only: it never mutates Account, Transaction or Loan.
type Usecase struct {
	accounts     account.Repository
	transactions transaction.Repository
	loans        loan.Repository
	now          func() time.Time
}

func NewUsecase(accounts account.Repository, transactions transaction.Repository, loans loan.Repository) *Usecase {
	return &Usecase{accounts: accounts, transactions: transactions, loans: loans, now: time.Now}
}

// incomeWindowMonths is how far back the income-stability sub-score looks.
const incomeWindowMonths = 6

func (u *Usecase) loadHistory(ctx context.Context, holderID string) (History, error) {
	var h History
	accts, err := u.accounts.ListByHolderID(ctx, holderID)
	if err != nil {
		return h, err
	}
	ids := make([]string, 0, len(accts))
	for _, a := range accts {
		ids = append(ids, a.AccountID)
	}
	var txns, recent []*transaction.Transaction
	if len(ids) > 0 {
		txns, err = u.transactions.ListByAccountIDs(ctx, ids)
		if err != nil {
			return h, err
		}
		since := u.now().UTC().AddDate(0, -incomeWindowMonths, 0)
		recent, err = u.transactions.ListCompletedByAccountIDsSince(ctx, ids, since)
		if err != nil {
			return h, err
		}
	}
	loans, err := u.loans.ListByHolderID(ctx, holderID)
	if err != nil {
		return h, err
	}
	return History{Accounts: accts, Transactions: txns, RecentCompleted: recent, Loans: loans}, nil
}

// CalculateCreditScore scores the holder from their platform history.
func (u *Usecase) CalculateCreditScore(ctx context.Context, holderID string) (Score, error) {
	h, err := u.loadHistory(ctx, holderID)
	if err != nil {
		return Score{}, err
	}
	return Calculate(h, u.now().UTC()), nil
}

// ShouldApproveLoan gates a loan application.
func (u *Usecase) ShouldApproveLoan(ctx context.Context, holderID string, amount decimal.Decimal, loanType loan.Type) (Decision, error) {
	h, err := u.loadHistory(ctx, holderID)
	if err != nil {
		return Decision{}, err
	}
	return Decide(h, amount, loanType, u.now().UTC()), nil
}
