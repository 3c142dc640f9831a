package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/domain/account"
	"corebank/internal/domain/audit"
	domain "corebank/internal/domain/loan"
	"corebank/internal/domain/notification"
	"corebank/internal/domain/uow"
	"corebank/internal/usecase/creditscore"
	txengine "corebank/internal/usecase/transaction"
	"corebank/pkg/id"
)

// Scorer gates loan applications. Evaluated synchronously at Apply time.
type Scorer interface {
	ShouldApproveLoan(ctx context.Context, holderID string, amount decimal.Decimal, loanType domain.Type) (creditscore.Decision, error)
}

// MoneyMover is the slice of the Transaction Engine the Loan Engine needs:
// disbursement credits and payment debits.
type MoneyMover interface {
	ExecuteDeposit(ctx context.Context, in txengine.DepositInput) (*txengine.TransactionDTO, error)
	ExecuteWithdrawal(ctx context.Context, in txengine.WithdrawalInput) (*txengine.TransactionDTO, error)
}

type Usecase struct {
	loans    domain.Repository
	accounts account.Repository
	uow      uow.UnitOfWork
	scorer   Scorer
	mover    MoneyMover
	audit    audit.Recorder
	notifier notification.Notifier
	now      func() time.Time
}

func NewUsecase(loans domain.Repository, accounts account.Repository, tx uow.UnitOfWork, scorer Scorer, mover MoneyMover, rec audit.Recorder, notifier notification.Notifier) *Usecase {
	return &Usecase{
		loans:    loans,
		accounts: accounts,
		uow:      tx,
		scorer:   scorer,
		mover:    mover,
		audit:    rec,
		notifier: notifier,
		now:      time.Now,
	}
}

// Apply creates a loan application and decides it on the spot via the
// Credit Scoring Engine: the created loan is already APPROVED or REJECTED.
// PENDING/UNDER_REVIEW exist for manual-override flows outside this path.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	if len(in.HolderID) != 32 || !in.Principal.IsPositive() || in.TermMonths <= 0 || in.AnnualRate.IsNegative() {
		return nil, fmt.Errorf("%w: holder, principal, term and rate are required", domain.ErrInvalidInput)
	}
	acct, err := u.accounts.GetByAccountID(ctx, in.DisbursementAccountID)
	if err != nil {
		return nil, err
	}
	if acct.HolderID != in.HolderID {
		return nil, fmt.Errorf("%w: account %s does not belong to holder %s", domain.ErrInvalidInput, in.DisbursementAccountID, in.HolderID)
	}

	freq := in.Frequency
	if freq == "" {
		freq = domain.FrequencyMonthly
	}
	principal := in.Principal.Round(2)
	payment := MonthlyPayment(principal, in.AnnualRate, in.TermMonths, freq)

	decision, err := u.scorer.ShouldApproveLoan(ctx, in.HolderID, principal, in.Type)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	maturity := now.AddDate(0, in.TermMonths, 0)
	l := &domain.Loan{
		LoanID:                id.NewID32(),
		Reference:             id.NewReference(),
		HolderID:              in.HolderID,
		DisbursementAccountID: in.DisbursementAccountID,
		Type:                  in.Type,
		PrincipalAmount:       principal,
		CurrentBalance:        principal,
		InterestRate:          in.AnnualRate,
		TermMonths:            in.TermMonths,
		PaymentFrequency:      freq,
		MonthlyPayment:        payment,
		PaymentsRemaining:     in.TermMonths,
		LateFeesAccrued:       decimal.Zero,
		TotalPaidAmount:       decimal.Zero,
		TotalInterestPaid:     decimal.Zero,
		ApplicationDate:       now,
		MaturityDate:          &maturity,
		StateUpdatedAt:        now,
	}
	if decision.Approved {
		l.Status = domain.StatusApproved
		l.ApprovalDate = &now
	} else {
		l.Status = domain.StatusRejected
		l.RejectionReason = decision.Reason
	}

	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}
	u.record(ctx, l, "loan.applied", string(domain.StatusPending), audit.SeverityInfo)
	return toDTO(l), nil
}

// Approve is the manual-override path, only valid from PENDING or
// UNDER_REVIEW.
func (u *Usecase) Approve(ctx context.Context, loanID, approverID string) (*LoanDTO, error) {
	return u.review(ctx, loanID, approverID, domain.StatusApproved, "")
}

// Reject is the manual-override counterpart of Approve.
func (u *Usecase) Reject(ctx context.Context, loanID, reviewerID, reason string) (*LoanDTO, error) {
	return u.review(ctx, loanID, reviewerID, domain.StatusRejected, reason)
}

func (u *Usecase) review(ctx context.Context, loanID, actorID string, next domain.Status, reason string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		switch l.Status {
		case domain.StatusPending, domain.StatusUnderReview:
		case domain.StatusApproved:
			return domain.ErrAlreadyApproved
		default:
			return domain.ErrInvalidTransition
		}
		now := u.now().UTC()
		prev := l.Status
		l.Status = next
		l.StateUpdatedAt = now
		if next == domain.StatusApproved {
			l.ApprovalDate = &now
		} else {
			l.RejectionReason = reason
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		u.record(ctx, l, "loan."+string(next), string(prev), audit.SeverityInfo)
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Disburse moves an APPROVED loan to ACTIVE and credits the principal to
// the disbursement account through the Transaction Engine.
func (u *Usecase) Disburse(ctx context.Context, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusApproved {
			return domain.ErrInvalidTransition
		}
		now := u.now().UTC()
		first := l.PaymentFrequency.Next(now)
		l.Status = domain.StatusActive
		l.DisbursementDate = &now
		l.FirstPaymentDate = &first
		l.CurrentBalance = l.PrincipalAmount
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		u.record(ctx, l, "loan.disbursed", string(domain.StatusApproved), audit.SeverityInfo)
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := u.mover.ExecuteDeposit(ctx, txengine.DepositInput{
		ToAccountID: dto.DisbursementAccountID,
		Amount:      dto.PrincipalAmount,
		Channel:     "LOAN_DISBURSEMENT",
		Description: "loan disbursement " + dto.Reference,
	}); err != nil {
		// The loan is ACTIVE but the credit did not land; surface loudly.
		u.recordEntry(ctx, audit.Entry{
			ActorID:     "system",
			Action:      "loan.disbursement_credit_failed",
			Severity:    audit.SeverityCritical,
			Description: err.Error(),
			EntityType:  "loan",
			EntityID:    dto.LoanID,
		})
		return nil, fmt.Errorf("disbursement credit failed: %w", err)
	}
	return dto, nil
}

// MakePayment is the manual payment entry point. It applies the same
// interest/principal split as the scheduled amortization pass and accepts
// ACTIVE, APPROVED and DEFAULTED loans.
func (u *Usecase) MakePayment(ctx context.Context, loanID string, amount decimal.Decimal) (*PaymentResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidInput)
	}
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	switch l.Status {
	case domain.StatusActive, domain.StatusApproved, domain.StatusDefaulted:
	default:
		return nil, domain.ErrNotPayable
	}

	now := u.now().UTC()
	days := DaysSinceAccrual(l, now)
	interest, principal, total := SplitPayment(l.CurrentBalance, l.InterestRate, amount.Round(2), days)

	if _, err := u.mover.ExecuteWithdrawal(ctx, txengine.WithdrawalInput{
		FromAccountID: l.DisbursementAccountID,
		Amount:        total,
		Channel:       "LOAN_PAYMENT",
		Description:   "loan payment " + l.Reference,
	}); err != nil {
		return nil, err
	}

	var result *PaymentResult
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, locked *domain.Loan) error {
		ApplyPayment(locked, interest, principal, total, now)
		if err := r.Loans.Save(ctx, locked); err != nil {
			return err
		}
		result = &PaymentResult{
			LoanID:         locked.LoanID,
			AmountPaid:     total,
			InterestPaid:   interest,
			PrincipalPaid:  principal,
			CurrentBalance: locked.CurrentBalance,
			Status:         string(locked.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.recordEntry(ctx, audit.Entry{
		ActorID:     "system",
		Action:      "loan.payment",
		Severity:    audit.SeverityInfo,
		Description: fmt.Sprintf("payment %s (interest %s, principal %s)", total.StringFixed(2), interest.StringFixed(2), principal.StringFixed(2)),
		EntityType:  "loan",
		EntityID:    loanID,
	})
	if result.Status == string(domain.StatusClosed) {
		u.notify(ctx, l.HolderID, notification.TypeLoanClosed, "Loan paid off",
			fmt.Sprintf("Loan %s has been fully repaid and closed.", l.Reference), "/loans/"+l.LoanID)
	}
	return result, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) ListByHolder(ctx context.Context, holderID string) ([]*LoanDTO, error) {
	ls, err := u.loans.ListByHolderID(ctx, holderID)
	if err != nil {
		return nil, err
	}
	out := make([]*LoanDTO, 0, len(ls))
	for _, l := range ls {
		out = append(out, toDTO(l))
	}
	return out, nil
}

// ApplyPayment mutates the locked loan with a settled payment. Shared with
// the settlement loan pass.
func ApplyPayment(l *domain.Loan, interest, principal, total decimal.Decimal, at time.Time) {
	l.CurrentBalance = l.CurrentBalance.Sub(principal)
	if l.CurrentBalance.IsNegative() {
		l.CurrentBalance = decimal.Zero
	}
	l.TotalPaidAmount = l.TotalPaidAmount.Add(total)
	l.TotalInterestPaid = l.TotalInterestPaid.Add(interest)
	l.PaymentsMade++
	if l.PaymentsRemaining > 0 {
		l.PaymentsRemaining--
	}
	paidAt := at
	l.LastPaymentDate = &paidAt
	l.DaysDelinquent = 0
	if l.CurrentBalance.IsZero() {
		l.Status = domain.StatusClosed
		l.PaymentsRemaining = 0
	} else if l.Status == domain.StatusDefaulted {
		l.Status = domain.StatusActive
	}
	l.StateUpdatedAt = at
}

// DaysSinceAccrual counts whole days since the last payment, falling
// back to disbursement, then approval, then application.
func DaysSinceAccrual(l *domain.Loan, asOf time.Time) int {
	var from time.Time
	switch {
	case l.LastPaymentDate != nil:
		from = *l.LastPaymentDate
	case l.DisbursementDate != nil:
		from = *l.DisbursementDate
	case l.ApprovalDate != nil:
		from = *l.ApprovalDate
	default:
		from = l.ApplicationDate
	}
	days := int(asOf.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func (u *Usecase) record(ctx context.Context, l *domain.Loan, action, oldStatus string, sev audit.Severity) {
	u.recordEntry(ctx, audit.Entry{
		ActorID:     "system",
		Action:      action,
		Severity:    sev,
		Description: fmt.Sprintf("%s loan %s", l.Type, l.Reference),
		EntityType:  "loan",
		EntityID:    l.LoanID,
		OldValue:    oldStatus,
		NewValue:    string(l.Status),
	})
}

func (u *Usecase) recordEntry(ctx context.Context, e audit.Entry) {
	if u.audit == nil {
		return
	}
	if err := u.audit.Record(ctx, e); err != nil {
		slog.Error("audit record failed", "entity_id", e.EntityID, "err", err)
	}
}

func (u *Usecase) notify(ctx context.Context, userID string, typ notification.Type, title, msg, link string) {
	if u.notifier == nil {
		return
	}
	if err := u.notifier.Notify(ctx, userID, typ, title, msg, link); err != nil {
		slog.Error("notify failed", "user_id", userID, "type", typ, "err", err)
	}
}
