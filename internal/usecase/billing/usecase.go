package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/domain/audit"
	domain "corebank/internal/domain/billing"
	"corebank/internal/domain/uow"
	txengine "corebank/internal/usecase/transaction"
	"corebank/pkg/id"
)

// Collector is the slice of the Transaction Engine that collects bill
// payments from the payer account.
type Collector interface {
	ExecuteWithdrawal(ctx context.Context, in txengine.WithdrawalInput) (*txengine.TransactionDTO, error)
}

type Usecase struct {
	bills     domain.Repository
	uow       uow.UnitOfWork
	collector Collector
	audit     audit.Recorder
	now       func() time.Time
}

func NewUsecase(bills domain.Repository, tx uow.UnitOfWork, collector Collector, rec audit.Recorder) *Usecase {
	return &Usecase{bills: bills, uow: tx, collector: collector, audit: rec, now: time.Now}
}

// CreateBill persists a PENDING bill. totalAmount = amount + tax − discount.
func (u *Usecase) CreateBill(ctx context.Context, in CreateBillInput) (*BillingDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if in.TaxAmount.IsNegative() || in.DiscountAmount.IsNegative() {
		return nil, fmt.Errorf("%w: tax and discount must not be negative", domain.ErrInvalidInput)
	}
	total := in.Amount.Add(in.TaxAmount).Sub(in.DiscountAmount).Round(2)
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: discount exceeds billed amount", domain.ErrInvalidInput)
	}
	if in.Frequency != nil && !in.Type.Recurs() {
		return nil, fmt.Errorf("%w: bill type %s cannot recur", domain.ErrInvalidInput, in.Type)
	}

	b := &domain.Billing{
		BillingID:         id.NewID32(),
		Reference:         id.NewReference(),
		HolderID:          in.HolderID,
		PayerAccountID:    in.PayerAccountID,
		Type:              in.Type,
		Status:            domain.StatusPending,
		Description:       in.Description,
		Amount:            in.Amount.Round(2),
		TaxAmount:         in.TaxAmount.Round(2),
		DiscountAmount:    in.DiscountAmount.Round(2),
		TotalAmount:       total,
		PaidAmount:        decimal.Zero,
		Frequency:         in.Frequency,
		DueDate:           in.DueDate,
		SubscriptionStart: in.SubscriptionStart,
		SubscriptionEnd:   in.SubscriptionEnd,
	}
	if in.Frequency != nil {
		next := in.Frequency.Next(in.DueDate)
		b.NextBillingDate = &next
	}
	if err := u.bills.Create(ctx, b); err != nil {
		return nil, err
	}
	u.record(ctx, b, "billing.created", "", audit.SeverityInfo)
	return toDTO(b), nil
}

// SendBill marks a PENDING bill as delivered to the holder.
func (u *Usecase) SendBill(ctx context.Context, billingID string) (*BillingDTO, error) {
	return u.transition(ctx, billingID, "billing.sent", func(b *domain.Billing) error {
		if b.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		b.Status = domain.StatusSent
		return nil
	})
}

// CancelBill applies only to bills that have collected nothing; a pure
// state transition with no compensating balance action.
func (u *Usecase) CancelBill(ctx context.Context, billingID string) (*BillingDTO, error) {
	return u.transition(ctx, billingID, "billing.cancelled", func(b *domain.Billing) error {
		if b.Status != domain.StatusPending && b.Status != domain.StatusSent {
			return domain.ErrInvalidTransition
		}
		b.Status = domain.StatusCancelled
		return nil
	})
}

// PayBill collects amount from the payer account via the Transaction
// Engine and applies it to the bill. The bill turns PAID exactly when the
// paid amount covers the total.
func (u *Usecase) PayBill(ctx context.Context, billingID string, amount decimal.Decimal) (*BillingDTO, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidInput)
	}
	amount = amount.Round(2)

	// Payability, the clamp and the collection all run under the bill row
	// lock so a concurrent payment cannot slip in between the check and
	// the debit.
	var dto *BillingDTO
	err := u.uow.WithinBillingTx(ctx, billingID, func(r uow.Repos, locked *domain.Billing) error {
		if locked.Status == domain.StatusPaid {
			return domain.ErrAlreadyPaid
		}
		if !locked.Status.Payable() {
			return domain.ErrInvalidTransition
		}
		if rem := locked.Outstanding(); amount.GreaterThan(rem) {
			amount = rem
		}

		if _, err := u.collector.ExecuteWithdrawal(ctx, txengine.WithdrawalInput{
			FromAccountID: locked.PayerAccountID,
			Amount:        amount,
			Channel:       "BILL_PAYMENT",
			Description:   "bill payment " + locked.Reference,
		}); err != nil {
			return err
		}

		prev := locked.Status
		locked.PaidAmount = locked.PaidAmount.Add(amount)
		if locked.PaidAmount.GreaterThanOrEqual(locked.TotalAmount) {
			now := u.now().UTC()
			locked.Status = domain.StatusPaid
			locked.PaidAt = &now
		}
		if err := r.Billings.Save(ctx, locked); err != nil {
			return err
		}
		u.record(ctx, locked, "billing.payment", string(prev), audit.SeverityInfo)
		dto = toDTO(locked)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, billingID string) (*BillingDTO, error) {
	b, err := u.bills.GetByBillingID(ctx, billingID)
	if err != nil {
		return nil, err
	}
	return toDTO(b), nil
}

func (u *Usecase) ListByHolder(ctx context.Context, holderID string) ([]*BillingDTO, error) {
	bs, err := u.bills.ListByHolderID(ctx, holderID)
	if err != nil {
		return nil, err
	}
	out := make([]*BillingDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, toDTO(b))
	}
	return out, nil
}

func (u *Usecase) transition(ctx context.Context, billingID, action string, mutate func(b *domain.Billing) error) (*BillingDTO, error) {
	var dto *BillingDTO
	err := u.uow.WithinBillingTx(ctx, billingID, func(r uow.Repos, b *domain.Billing) error {
		prev := b.Status
		if err := mutate(b); err != nil {
			return err
		}
		if err := r.Billings.Save(ctx, b); err != nil {
			return err
		}
		u.record(ctx, b, action, string(prev), audit.SeverityInfo)
		dto = toDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// NewSuccessor builds the next-period bill for a PAID recurring bill.
// Amounts carry over; the due date advances by one frequency period.
func NewSuccessor(b *domain.Billing, dueDate time.Time) *domain.Billing {
	next := b.Frequency.Next(dueDate)
	return &domain.Billing{
		BillingID:         id.NewID32(),
		Reference:         id.NewReference(),
		HolderID:          b.HolderID,
		PayerAccountID:    b.PayerAccountID,
		Type:              b.Type,
		Status:            domain.StatusPending,
		Description:       b.Description,
		Amount:            b.Amount,
		TaxAmount:         b.TaxAmount,
		DiscountAmount:    b.DiscountAmount,
		TotalAmount:       b.TotalAmount,
		PaidAmount:        decimal.Zero,
		Frequency:         b.Frequency,
		DueDate:           dueDate,
		NextBillingDate:   &next,
		SubscriptionStart: b.SubscriptionStart,
		SubscriptionEnd:   b.SubscriptionEnd,
	}
}

func (u *Usecase) record(ctx context.Context, b *domain.Billing, action, oldStatus string, sev audit.Severity) {
	if u.audit == nil {
		return
	}
	e := audit.Entry{
		ActorID:     "system",
		Action:      action,
		Severity:    sev,
		Description: fmt.Sprintf("%s bill %s total %s", b.Type, b.Reference, b.TotalAmount.StringFixed(2)),
		EntityType:  "billing",
		EntityID:    b.BillingID,
		OldValue:    oldStatus,
		NewValue:    string(b.Status),
	}
	if err := u.audit.Record(ctx, e); err != nil {
		slog.Error("audit record failed", "billing_id", b.BillingID, "err", err)
	}
}
