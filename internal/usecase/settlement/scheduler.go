// Package settlement drives the daily loan amortization and billing
// recurrence/aging passes. An external clock triggers each pass exactly
// once per cycle; a redis cycle lock makes accidental re-triggers no-ops.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/domain/account"
	"corebank/internal/domain/audit"
	billdomain "corebank/internal/domain/billing"
	domain "corebank/internal/domain/loan"
	"corebank/internal/domain/notification"
	"corebank/internal/domain/uow"
	billengine "corebank/internal/usecase/billing"
	loanengine "corebank/internal/usecase/loan"
	txengine "corebank/internal/usecase/transaction"
)

const (
	PassLoan    = "loan"
	PassBilling = "billing"

	// generationLead is how far ahead of the next due date a successor
	// bill is generated.
	generationLead = 3 * 24 * time.Hour

	// defaultAfterDays forces a delinquent loan into DEFAULTED.
	defaultAfterDays = 30
)

var (
	lateFeeFlat = decimal.NewFromInt(25)
	lateFeeRate = decimal.NewFromFloat(0.05)
)

// CycleLocker claims one run per pass per settlement day. A second Acquire
// for the same pass and day reports false.
type CycleLocker interface {
	Acquire(ctx context.Context, pass string, day time.Time) (bool, error)
}

// Mover is the slice of the Transaction Engine the scheduler debits
// payments through.
type Mover interface {
	ExecuteWithdrawal(ctx context.Context, in txengine.WithdrawalInput) (*txengine.TransactionDTO, error)
}

type Scheduler struct {
	loans    domain.Repository
	bills    billdomain.Repository
	uow      uow.UnitOfWork
	mover    Mover
	locker   CycleLocker
	notifier notification.Notifier
	audit    audit.Recorder
}

func NewScheduler(loans domain.Repository, bills billdomain.Repository, tx uow.UnitOfWork, mover Mover, locker CycleLocker, notifier notification.Notifier, rec audit.Recorder) *Scheduler {
	return &Scheduler{
		loans:    loans,
		bills:    bills,
		uow:      tx,
		mover:    mover,
		locker:   locker,
		notifier: notifier,
		audit:    rec,
	}
}

// RunDaily executes the loan pass then the billing pass, in that fixed
// order. Per-entity failures are logged and skipped, never aborting the
// batch.
func (s *Scheduler) RunDaily(ctx context.Context, asOf time.Time) error {
	if err := s.RunLoanPass(ctx, asOf); err != nil {
		return err
	}
	return s.RunBillingPass(ctx, asOf)
}

// RunLoanPass amortizes every ACTIVE loan whose next payment date has been
// reached: it accrues interest since the last payment, withdraws the
// payment from the disbursement account, and marks delinquency when the
// account cannot cover it.
func (s *Scheduler) RunLoanPass(ctx context.Context, asOf time.Time) error {
	ok, err := s.acquire(ctx, PassLoan, asOf)
	if err != nil {
		return err
	}
	if !ok {
		slog.Info("loan pass already ran for this cycle", "as_of", asOf.Format("2006-01-02"))
		return nil
	}

	loans, err := s.loans.ListByStatuses(ctx, domain.StatusActive)
	if err != nil {
		return fmt.Errorf("list active loans: %w", err)
	}
	slog.Info("loan settlement pass started", "loans", len(loans), "as_of", asOf.Format("2006-01-02"))

	for _, l := range loans {
		if err := s.settleLoan(ctx, l, asOf); err != nil {
			slog.Error("loan settlement failed, skipping entity", "loan_id", l.LoanID, "err", err)
			s.recordEntry(ctx, audit.Entry{
				ActorID:     "scheduler",
				Action:      "settlement.loan_failed",
				Severity:    audit.SeverityWarning,
				Description: err.Error(),
				EntityType:  "loan",
				EntityID:    l.LoanID,
			})
		}
	}
	return nil
}

func (s *Scheduler) settleLoan(ctx context.Context, l *domain.Loan, asOf time.Time) error {
	// Cheap pre-filter on the listing snapshot; the decision to move money
	// is re-taken under the row lock below.
	if asOf.Before(l.NextPaymentDate()) {
		return nil
	}

	var (
		settled, closed, missed    bool
		expected                   time.Time
		interest, principal, total decimal.Decimal
	)
	err := s.uow.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, locked *domain.Loan) error {
		// The snapshot may be stale: a manual payment or a status change
		// can land between listing and locking.
		if locked.Status != domain.StatusActive {
			return nil
		}
		expected = locked.NextPaymentDate()
		if asOf.Before(expected) {
			return nil
		}

		days := loanengine.DaysSinceAccrual(locked, asOf)
		interest, principal, total = loanengine.SplitPayment(locked.CurrentBalance, locked.InterestRate, locked.MonthlyPayment, days)

		acct, err := r.Accounts.GetByAccountID(ctx, locked.DisbursementAccountID)
		if err != nil {
			return err
		}
		if !acct.CanDebit(total) {
			missed = true
			return nil
		}

		if _, err := s.mover.ExecuteWithdrawal(ctx, txengine.WithdrawalInput{
			FromAccountID: locked.DisbursementAccountID,
			Amount:        total,
			Channel:       "LOAN_AUTOPAY",
			Description:   "scheduled loan payment " + locked.Reference,
		}); err != nil {
			if errors.Is(err, account.ErrInsufficientFunds) {
				// Raced with another debit between the check and the withdrawal.
				missed = true
				return nil
			}
			return err
		}

		loanengine.ApplyPayment(locked, interest, principal, total, asOf)
		if err := r.Loans.Save(ctx, locked); err != nil {
			return err
		}
		settled = true
		closed = locked.Status == domain.StatusClosed
		return nil
	})
	if err != nil {
		return err
	}
	if missed {
		// Runs its own loan tx; nesting it inside the one above would
		// re-lock the same row.
		return s.markDelinquent(ctx, l, expected, total, asOf)
	}
	if !settled {
		return nil
	}

	s.recordEntry(ctx, audit.Entry{
		ActorID:     "scheduler",
		Action:      "settlement.loan_payment",
		Severity:    audit.SeverityInfo,
		Description: fmt.Sprintf("payment %s (interest %s, principal %s)", total.StringFixed(2), interest.StringFixed(2), principal.StringFixed(2)),
		EntityType:  "loan",
		EntityID:    l.LoanID,
	})
	if closed {
		s.notify(ctx, l.HolderID, notification.TypeLoanClosed, "Loan paid off",
			fmt.Sprintf("Loan %s has been fully repaid and closed.", l.Reference), "/loans/"+l.LoanID)
	}
	return nil
}

// markDelinquent records a missed payment. The late fee is accrued once
// per delinquency episode, on first detection, so a re-run of the same
// cycle cannot double-charge.
func (s *Scheduler) markDelinquent(ctx context.Context, l *domain.Loan, expected time.Time, payment decimal.Decimal, asOf time.Time) error {
	var defaulted, skipped bool
	err := s.uow.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, locked *domain.Loan) error {
		if locked.Status != domain.StatusActive || asOf.Before(locked.NextPaymentDate()) {
			skipped = true // collected or closed since the sufficiency check
			return nil
		}
		days := int(asOf.Sub(expected).Hours() / 24)
		if days < 1 {
			// A miss detected on the due day itself opens the episode at
			// day one, otherwise the next pass would see DaysDelinquent
			// still zero and charge the fee again.
			days = 1
		}
		if locked.DaysDelinquent == 0 {
			fee := lateFeeFlat.Add(payment.Mul(lateFeeRate)).Round(2)
			locked.LateFeesAccrued = locked.LateFeesAccrued.Add(fee)
		}
		locked.DaysDelinquent = days
		if days > defaultAfterDays && locked.Status == domain.StatusActive {
			locked.Status = domain.StatusDefaulted
			locked.StateUpdatedAt = asOf
			defaulted = true
		}
		return r.Loans.Save(ctx, locked)
	})
	if err != nil {
		return err
	}
	if skipped {
		return nil
	}

	s.recordEntry(ctx, audit.Entry{
		ActorID:     "scheduler",
		Action:      "settlement.loan_delinquent",
		Severity:    audit.SeverityWarning,
		Description: fmt.Sprintf("missed payment of %s due %s", payment.StringFixed(2), expected.Format("2006-01-02")),
		EntityType:  "loan",
		EntityID:    l.LoanID,
	})
	if defaulted {
		s.notify(ctx, l.HolderID, notification.TypeLoanDefaulted, "Loan defaulted",
			fmt.Sprintf("Loan %s is more than %d days past due and has defaulted.", l.Reference, defaultAfterDays), "/loans/"+l.LoanID)
	} else {
		s.notify(ctx, l.HolderID, notification.TypeLoanDelinquent, "Loan payment missed",
			fmt.Sprintf("Payment of %s for loan %s could not be collected.", payment.StringFixed(2), l.Reference), "/loans/"+l.LoanID)
	}
	return nil
}

// RunBillingPass runs after the loan pass: recurrence generation, loan
// payment reminders, then overdue aging.
func (s *Scheduler) RunBillingPass(ctx context.Context, asOf time.Time) error {
	ok, err := s.acquire(ctx, PassBilling, asOf)
	if err != nil {
		return err
	}
	if !ok {
		slog.Info("billing pass already ran for this cycle", "as_of", asOf.Format("2006-01-02"))
		return nil
	}

	s.generateRecurring(ctx, asOf)
	s.remindLoanPayments(ctx, asOf)
	s.ageOverdue(ctx, asOf)
	return nil
}

// generateRecurring spawns the successor for every PAID recurring bill
// whose next period falls within the generation window. Generation is
// idempotent: an existing bill for the same holder/type/due-date blocks a
// duplicate.
func (s *Scheduler) generateRecurring(ctx context.Context, asOf time.Time) {
	bills, err := s.bills.ListRecurringPaid(ctx)
	if err != nil {
		slog.Error("list recurring paid bills", "err", err)
		return
	}
	for _, b := range bills {
		if !b.Recurring() {
			continue
		}
		next := b.Frequency.Next(b.DueDate)
		if asOf.Before(next.Add(-generationLead)) {
			continue
		}
		if b.SubscriptionEnd != nil && next.After(*b.SubscriptionEnd) {
			continue
		}
		exists, err := s.bills.ExistsForPeriod(ctx, b.HolderID, b.Type, next)
		if err != nil {
			slog.Error("recurrence existence check failed, skipping entity", "billing_id", b.BillingID, "err", err)
			continue
		}
		if exists {
			continue
		}
		succ := billengine.NewSuccessor(b, next)
		if err := s.bills.Create(ctx, succ); err != nil {
			slog.Error("successor bill create failed, skipping entity", "billing_id", b.BillingID, "err", err)
			continue
		}
		s.recordEntry(ctx, audit.Entry{
			ActorID:     "scheduler",
			Action:      "settlement.bill_generated",
			Severity:    audit.SeverityInfo,
			Description: fmt.Sprintf("%s bill for period due %s", b.Type, next.Format("2006-01-02")),
			EntityType:  "billing",
			EntityID:    succ.BillingID,
		})
		s.notify(ctx, b.HolderID, notification.TypeBillGenerated, "New bill issued",
			fmt.Sprintf("Your %s bill of %s is due %s.", b.Type, succ.TotalAmount.StringFixed(2), next.Format("2006-01-02")), "/bills/"+succ.BillingID)
	}
}

// remindLoanPayments notifies holders three days ahead of and on the next
// payment date. Delivery is fire-and-forget.
func (s *Scheduler) remindLoanPayments(ctx context.Context, asOf time.Time) {
	loans, err := s.loans.ListByStatuses(ctx, domain.StatusActive, domain.StatusApproved)
	if err != nil {
		slog.Error("list loans for reminders", "err", err)
		return
	}
	for _, l := range loans {
		next := l.NextPaymentDate()
		switch {
		case sameDay(asOf, next):
			s.notify(ctx, l.HolderID, notification.TypeLoanPaymentDue, "Loan payment due today",
				fmt.Sprintf("Payment of %s for loan %s is due today.", l.MonthlyPayment.StringFixed(2), l.Reference), "/loans/"+l.LoanID)
		case sameDay(asOf.AddDate(0, 0, 3), next):
			s.notify(ctx, l.HolderID, notification.TypeLoanPaymentDue, "Loan payment due soon",
				fmt.Sprintf("Payment of %s for loan %s is due on %s.", l.MonthlyPayment.StringFixed(2), l.Reference, next.Format("2006-01-02")), "/loans/"+l.LoanID)
		}
	}
}

// ageOverdue transitions PENDING/SENT bills past their due date to OVERDUE.
func (s *Scheduler) ageOverdue(ctx context.Context, asOf time.Time) {
	bills, err := s.bills.ListUnpaidDueBefore(ctx, asOf)
	if err != nil {
		slog.Error("list unpaid due bills", "err", err)
		return
	}
	for _, b := range bills {
		err := s.uow.WithinBillingTx(ctx, b.BillingID, func(r uow.Repos, locked *billdomain.Billing) error {
			if locked.Status != billdomain.StatusPending && locked.Status != billdomain.StatusSent {
				return nil // settled or cancelled since listing
			}
			locked.Status = billdomain.StatusOverdue
			return r.Billings.Save(ctx, locked)
		})
		if err != nil {
			slog.Error("overdue aging failed, skipping entity", "billing_id", b.BillingID, "err", err)
			continue
		}
		s.recordEntry(ctx, audit.Entry{
			ActorID:     "scheduler",
			Action:      "settlement.bill_overdue",
			Severity:    audit.SeverityWarning,
			Description: fmt.Sprintf("bill %s due %s is overdue", b.Reference, b.DueDate.Format("2006-01-02")),
			EntityType:  "billing",
			EntityID:    b.BillingID,
		})
		s.notify(ctx, b.HolderID, notification.TypeBillOverdue, "Bill overdue",
			fmt.Sprintf("Your %s bill of %s was due %s and is now overdue.", b.Type, b.Outstanding().StringFixed(2), b.DueDate.Format("2006-01-02")), "/bills/"+b.BillingID)
	}
}

func (s *Scheduler) acquire(ctx context.Context, pass string, day time.Time) (bool, error) {
	if s.locker == nil {
		return true, nil
	}
	return s.locker.Acquire(ctx, pass, day)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (s *Scheduler) notify(ctx context.Context, userID string, typ notification.Type, title, msg, link string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, typ, title, msg, link); err != nil {
		slog.Error("notify failed", "user_id", userID, "type", typ, "err", err)
	}
}

func (s *Scheduler) recordEntry(ctx context.Context, e audit.Entry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, e); err != nil {
		slog.Error("audit record failed", "entity_id", e.EntityID, "err", err)
	}
}
