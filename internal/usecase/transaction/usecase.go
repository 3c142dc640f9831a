package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"corebank/internal/domain/account"
	"corebank/internal/domain/audit"
	domain "corebank/internal/domain/transaction"
	"corebank/internal/domain/uow"
	"corebank/pkg/id"
)

// Usecase is the Transaction Engine: the only writer of account balances.
// Every mutation runs inside one unit-of-work transaction with the account
// rows locked, so a user withdrawal and a scheduled loan payment against
// the same account can never race past the sufficient-funds check.
type Usecase struct {
	accounts account.Repository
	txns     domain.Repository
	uow      uow.UnitOfWork
	audit    audit.Recorder
	now      func() time.Time
}

func NewUsecase(accounts account.Repository, txns domain.Repository, tx uow.UnitOfWork, rec audit.Recorder) *Usecase {
	return &Usecase{accounts: accounts, txns: txns, uow: tx, audit: rec, now: time.Now}
}

// IsRetryable reports whether the failure can succeed on a later attempt
// (the holder tops up and retries), as opposed to a terminal-state
// rejection.
func IsRetryable(err error) bool {
	return errors.Is(err, account.ErrInsufficientFunds)
}

func (u *Usecase) CreateDeposit(ctx context.Context, in DepositInput) (*TransactionDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	to, err := u.accounts.GetByAccountID(ctx, in.ToAccountID)
	if err != nil {
		return nil, err
	}
	t := &domain.Transaction{
		TransactionID: id.NewID32(),
		Reference:     id.NewReference(),
		Type:          domain.TypeDeposit,
		Status:        domain.StatusPending,
		Amount:        in.Amount.Round(2),
		Currency:      to.Currency,
		ToAccountID:   &to.AccountID,
		Channel:       in.Channel,
		Description:   in.Description,
	}
	if err := u.txns.Create(ctx, t); err != nil {
		return nil, err
	}
	return toDTO(t), nil
}

func (u *Usecase) CreateWithdrawal(ctx context.Context, in WithdrawalInput) (*TransactionDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	from, err := u.accounts.GetByAccountID(ctx, in.FromAccountID)
	if err != nil {
		return nil, err
	}
	t := &domain.Transaction{
		TransactionID: id.NewID32(),
		Reference:     id.NewReference(),
		Type:          domain.TypeWithdrawal,
		Status:        domain.StatusPending,
		Amount:        in.Amount.Round(2),
		Currency:      from.Currency,
		FromAccountID: &from.AccountID,
		Channel:       in.Channel,
		Description:   in.Description,
	}
	if err := u.txns.Create(ctx, t); err != nil {
		return nil, err
	}
	return toDTO(t), nil
}

func (u *Usecase) CreateTransfer(ctx context.Context, in TransferInput) (*TransactionDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if in.FromAccountID == in.ToAccountID {
		return nil, fmt.Errorf("%w: transfer to the same account", domain.ErrInvalidAmount)
	}
	from, err := u.accounts.GetByAccountID(ctx, in.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := u.accounts.GetByAccountID(ctx, in.ToAccountID)
	if err != nil {
		return nil, err
	}
	if from.Currency != to.Currency {
		return nil, account.ErrCurrencyMismatch
	}
	t := &domain.Transaction{
		TransactionID: id.NewID32(),
		Reference:     id.NewReference(),
		Type:          domain.TypeTransfer,
		Status:        domain.StatusPending,
		Amount:        in.Amount.Round(2),
		Currency:      from.Currency,
		FromAccountID: &from.AccountID,
		ToAccountID:   &to.AccountID,
		Channel:       in.Channel,
		Description:   in.Description,
	}
	if err := u.txns.Create(ctx, t); err != nil {
		return nil, err
	}
	return toDTO(t), nil
}

// Process settles a PENDING transaction. The balance mutation and the
// transition to COMPLETED commit together; on a business failure
// (insufficient funds, currency mismatch) only the FAILED status commits
// and no balance changes.
func (u *Usecase) Process(ctx context.Context, transactionID string) (*TransactionDTO, error) {
	var dto *TransactionDTO
	var bizErr error

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Transactions.GetByTransactionIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if t.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		now := u.now().UTC()
		t.Status = domain.StatusProcessing
		t.ProcessedAt = &now

		if err := u.applyBalances(ctx, r, t); err != nil {
			if !isBusinessFailure(err) {
				return err
			}
			// Commit FAILED, leave balances untouched.
			t.Status = domain.StatusFailed
			t.FailureReason = err.Error()
			bizErr = err
			if err := r.Transactions.Save(ctx, t); err != nil {
				return err
			}
			dto = toDTO(t)
			return nil
		}

		done := u.now().UTC()
		t.Status = domain.StatusCompleted
		t.CompletedAt = &done
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}
		dto = toDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.record(ctx, dto, string(domain.StatusPending))
	if bizErr != nil {
		return dto, bizErr
	}
	return dto, nil
}

// Cancel is a pure state transition: PENDING transactions only, balances
// are never touched.
func (u *Usecase) Cancel(ctx context.Context, transactionID string) (*TransactionDTO, error) {
	var dto *TransactionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Transactions.GetByTransactionIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if t.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		t.Status = domain.StatusCancelled
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}
		dto = toDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.record(ctx, dto, string(domain.StatusPending))
	return dto, nil
}

// Get returns the transaction without locking.
func (u *Usecase) Get(ctx context.Context, transactionID string) (*TransactionDTO, error) {
	t, err := u.txns.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return toDTO(t), nil
}

// ExecuteDeposit creates and immediately settles a deposit. Used by the
// Loan Engine for disbursement.
func (u *Usecase) ExecuteDeposit(ctx context.Context, in DepositInput) (*TransactionDTO, error) {
	dto, err := u.CreateDeposit(ctx, in)
	if err != nil {
		return nil, err
	}
	return u.Process(ctx, dto.TransactionID)
}

// ExecuteWithdrawal creates and immediately settles a withdrawal. Used by
// the Settlement Scheduler and the Billing Engine to collect payments.
func (u *Usecase) ExecuteWithdrawal(ctx context.Context, in WithdrawalInput) (*TransactionDTO, error) {
	dto, err := u.CreateWithdrawal(ctx, in)
	if err != nil {
		return nil, err
	}
	return u.Process(ctx, dto.TransactionID)
}

// applyBalances performs the balance mutation for t with the account rows
// locked. Nothing is saved until every check has passed.
func (u *Usecase) applyBalances(ctx context.Context, r uow.Repos, t *domain.Transaction) error {
	switch t.Type {
	case domain.TypeDeposit:
		to, err := r.Accounts.GetByAccountIDForUpdate(ctx, *t.ToAccountID)
		if err != nil {
			return err
		}
		to.Credit(t.Amount)
		return r.Accounts.Save(ctx, to)

	case domain.TypeWithdrawal:
		from, err := r.Accounts.GetByAccountIDForUpdate(ctx, *t.FromAccountID)
		if err != nil {
			return err
		}
		if !from.CanDebit(t.Amount) {
			return account.ErrInsufficientFunds
		}
		if err := from.Debit(t.Amount); err != nil {
			return err
		}
		return r.Accounts.Save(ctx, from)

	case domain.TypeTransfer:
		// Lock in a stable order so two opposing transfers cannot deadlock.
		ids := []string{*t.FromAccountID, *t.ToAccountID}
		sort.Strings(ids)
		locked := make(map[string]*account.Account, 2)
		for _, aid := range ids {
			a, err := r.Accounts.GetByAccountIDForUpdate(ctx, aid)
			if err != nil {
				return err
			}
			locked[aid] = a
		}
		from, to := locked[*t.FromAccountID], locked[*t.ToAccountID]
		if from.Currency != to.Currency {
			return account.ErrCurrencyMismatch
		}
		if !from.CanDebit(t.Amount) {
			return account.ErrInsufficientFunds
		}
		if err := from.Debit(t.Amount); err != nil {
			return err
		}
		to.Credit(t.Amount)
		if err := r.Accounts.Save(ctx, from); err != nil {
			return err
		}
		return r.Accounts.Save(ctx, to)

	default:
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
}

// isBusinessFailure tells a failure that should commit as FAILED apart
// from an infrastructure error that must roll the transaction back.
func isBusinessFailure(err error) bool {
	return errors.Is(err, account.ErrInsufficientFunds) ||
		errors.Is(err, account.ErrCurrencyMismatch)
}

func (u *Usecase) record(ctx context.Context, dto *TransactionDTO, oldStatus string) {
	if u.audit == nil || dto == nil {
		return
	}
	e := audit.Entry{
		ActorID:     "system",
		Action:      "transaction." + dto.Status,
		Severity:    audit.SeverityInfo,
		Description: fmt.Sprintf("%s %s %s", dto.Type, dto.Amount.StringFixed(2), dto.Currency),
		EntityType:  "transaction",
		EntityID:    dto.TransactionID,
		OldValue:    oldStatus,
		NewValue:    dto.Status,
	}
	if dto.Status == string(domain.StatusFailed) {
		e.Severity = audit.SeverityWarning
	}
	if err := u.audit.Record(ctx, e); err != nil {
		slog.Error("audit record failed", "transaction_id", dto.TransactionID, "err", err)
	}
}
