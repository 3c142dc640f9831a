package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "corebank/internal/domain/billing"
	"corebank/internal/domain/uow"
	"corebank/internal/testutil/billingmock"
	"corebank/internal/testutil/uowmock"
	txengine "corebank/internal/usecase/transaction"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	dueDate = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
)

type recordingCollector struct {
	withdrawals []txengine.WithdrawalInput
	err         error
}

func (c *recordingCollector) ExecuteWithdrawal(ctx context.Context, in txengine.WithdrawalInput) (*txengine.TransactionDTO, error) {
	c.withdrawals = append(c.withdrawals, in)
	if c.err != nil {
		return nil, c.err
	}
	return &txengine.TransactionDTO{}, nil
}

func billFixture(status domain.Status) (*domain.Billing, uow.Repos) {
	b := &domain.Billing{
		BillingID:      "bill-1",
		Reference:      "ref-1",
		HolderID:       "holder-1",
		PayerAccountID: "acc-1",
		Type:           domain.TypeUtility,
		Status:         status,
		Amount:         dec("90"),
		TaxAmount:      dec("10"),
		DiscountAmount: decimal.Zero,
		TotalAmount:    dec("100"),
		PaidAmount:     decimal.Zero,
		DueDate:        dueDate,
	}
	repos := uow.Repos{
		Billings: &billingmock.Repo{
			GetByBillingIDForUpdateFn: func(ctx context.Context, id string) (*domain.Billing, error) {
				return b, nil
			},
		},
	}
	return b, repos
}

func TestCreateBill_TotalsAndRecurrence(t *testing.T) {
	var created *domain.Billing
	bills := &billingmock.Repo{
		CreateFn: func(ctx context.Context, b *domain.Billing) error {
			created = b
			return nil
		},
	}
	u := NewUsecase(bills, uowmock.New(), &recordingCollector{}, nil)
	u.now = func() time.Time { return testNow }

	freq := domain.FrequencyMonthly
	dto, err := u.CreateBill(context.Background(), CreateBillInput{
		HolderID:       "holder-1",
		PayerAccountID: "acc-1",
		Type:           domain.TypeSubscription,
		Amount:         dec("100"),
		TaxAmount:      dec("8.25"),
		DiscountAmount: dec("10"),
		Frequency:      &freq,
		DueDate:        dueDate,
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if created == nil {
		t.Fatalf("bill not persisted")
	}
	if !dto.TotalAmount.Equal(dec("98.25")) {
		t.Fatalf("total: want 98.25 (amount + tax - discount), got %s", dto.TotalAmount)
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status: want PENDING, got %s", dto.Status)
	}
	if created.NextBillingDate == nil || !created.NextBillingDate.Equal(dueDate.AddDate(0, 1, 0)) {
		t.Fatalf("next billing date: want one month after due date, got %v", created.NextBillingDate)
	}
}

func TestCreateBill_NonRecurringTypeRejectsFrequency(t *testing.T) {
	u := NewUsecase(&billingmock.Repo{}, uowmock.New(), &recordingCollector{}, nil)
	freq := domain.FrequencyMonthly
	_, err := u.CreateBill(context.Background(), CreateBillInput{
		HolderID:       "holder-1",
		PayerAccountID: "acc-1",
		Type:           domain.TypeOneTime,
		Amount:         dec("50"),
		Frequency:      &freq,
		DueDate:        dueDate,
	})
	if err == nil {
		t.Fatalf("want error: ONE_TIME bills cannot recur")
	}
}

func TestCreateBill_DiscountExceedsAmount(t *testing.T) {
	u := NewUsecase(&billingmock.Repo{}, uowmock.New(), &recordingCollector{}, nil)
	_, err := u.CreateBill(context.Background(), CreateBillInput{
		HolderID:       "holder-1",
		PayerAccountID: "acc-1",
		Type:           domain.TypeUtility,
		Amount:         dec("50"),
		DiscountAmount: dec("60"),
		DueDate:        dueDate,
	})
	if err == nil {
		t.Fatalf("want error when discount wipes out the total")
	}
}

func TestSendBill_FromPendingOnly(t *testing.T) {
	b, repos := billFixture(domain.StatusPending)
	u := NewUsecase(&billingmock.Repo{}, uowmock.Passthrough(repos), &recordingCollector{}, nil)

	dto, err := u.SendBill(context.Background(), "bill-1")
	if err != nil {
		t.Fatalf("SendBill: %v", err)
	}
	if dto.Status != string(domain.StatusSent) || b.Status != domain.StatusSent {
		t.Fatalf("status: want SENT, got %s", dto.Status)
	}

	// already SENT: invalid
	if _, err := u.SendBill(context.Background(), "bill-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("re-send: want ErrInvalidTransition, got %v", err)
	}
}

func TestCancelBill_NotAfterPaid(t *testing.T) {
	_, repos := billFixture(domain.StatusPaid)
	u := NewUsecase(&billingmock.Repo{}, uowmock.Passthrough(repos), &recordingCollector{}, nil)

	_, err := u.CancelBill(context.Background(), "bill-1")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestPayBill_FullPaymentMarksPaid(t *testing.T) {
	b, repos := billFixture(domain.StatusSent)
	collector := &recordingCollector{}
	u := NewUsecase(&billingmock.Repo{}, uowmock.Passthrough(repos), collector, nil)
	u.now = func() time.Time { return testNow }

	dto, err := u.PayBill(context.Background(), "bill-1", dec("100"))
	if err != nil {
		t.Fatalf("PayBill: %v", err)
	}
	if dto.Status != string(domain.StatusPaid) {
		t.Fatalf("status: want PAID, got %s", dto.Status)
	}
	if b.PaidAt == nil || !b.PaidAt.Equal(testNow) {
		t.Fatalf("paid_at not stamped: %v", b.PaidAt)
	}
	if len(collector.withdrawals) != 1 {
		t.Fatalf("want one collection debit, got %d", len(collector.withdrawals))
	}
	w := collector.withdrawals[0]
	if w.FromAccountID != "acc-1" || !w.Amount.Equal(dec("100")) || w.Channel != "BILL_PAYMENT" {
		t.Fatalf("bad collection debit: %+v", w)
	}
}

func TestPayBill_PartialThenOverpaymentClamped(t *testing.T) {
	b, repos := billFixture(domain.StatusSent)
	collector := &recordingCollector{}
	u := NewUsecase(&billingmock.Repo{}, uowmock.Passthrough(repos), collector, nil)
	u.now = func() time.Time { return testNow }

	dto, err := u.PayBill(context.Background(), "bill-1", dec("40"))
	if err != nil {
		t.Fatalf("partial PayBill: %v", err)
	}
	if dto.Status != string(domain.StatusSent) {
		t.Fatalf("partial payment must not mark PAID, got %s", dto.Status)
	}
	if !dto.PaidAmount.Equal(dec("40")) {
		t.Fatalf("paid amount: want 40, got %s", dto.PaidAmount)
	}

	// remaining is 60: a 75 payment is clamped, never over-collected
	dto, err = u.PayBill(context.Background(), "bill-1", dec("75"))
	if err != nil {
		t.Fatalf("final PayBill: %v", err)
	}
	if dto.Status != string(domain.StatusPaid) {
		t.Fatalf("status: want PAID, got %s", dto.Status)
	}
	if !collector.withdrawals[1].Amount.Equal(dec("60")) {
		t.Fatalf("debit must clamp to outstanding: got %s", collector.withdrawals[1].Amount)
	}
	if !b.PaidAmount.Equal(dec("100")) {
		t.Fatalf("paid amount: want exactly total, got %s", b.PaidAmount)
	}
}

func TestPayBill_AlreadyPaid(t *testing.T) {
	_, repos := billFixture(domain.StatusPaid)
	collector := &recordingCollector{}
	u := NewUsecase(&billingmock.Repo{}, uowmock.Passthrough(repos), collector, nil)

	_, err := u.PayBill(context.Background(), "bill-1", dec("10"))
	if !errors.Is(err, domain.ErrAlreadyPaid) {
		t.Fatalf("want ErrAlreadyPaid, got %v", err)
	}
	// The paid status is seen under the row lock, before any money moves.
	if len(collector.withdrawals) != 0 {
		t.Fatalf("paid bill must not be collected again")
	}
}

func TestPayBill_CancelledNotPayable(t *testing.T) {
	_, repos := billFixture(domain.StatusCancelled)
	collector := &recordingCollector{}
	u := NewUsecase(&billingmock.Repo{}, uowmock.Passthrough(repos), collector, nil)

	_, err := u.PayBill(context.Background(), "bill-1", dec("10"))
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	if len(collector.withdrawals) != 0 {
		t.Fatalf("cancelled bill must not be collected")
	}
}

func TestPayBill_DebitFailureLeavesBillUntouched(t *testing.T) {
	b, repos := billFixture(domain.StatusSent)
	collector := &recordingCollector{err: errors.New("insufficient funds")}
	u := NewUsecase(&billingmock.Repo{}, uowmock.Passthrough(repos), collector, nil)

	_, err := u.PayBill(context.Background(), "bill-1", dec("100"))
	if err == nil {
		t.Fatalf("want debit failure to surface")
	}
	if !b.PaidAmount.IsZero() || b.Status != domain.StatusSent {
		t.Fatalf("bill mutated despite failed debit: %+v", b)
	}
}

func TestNewSuccessor(t *testing.T) {
	freq := domain.FrequencyMonthly
	paid := &domain.Billing{
		BillingID:      "bill-1",
		Reference:      "ref-1",
		HolderID:       "holder-1",
		PayerAccountID: "acc-1",
		Type:           domain.TypeSubscription,
		Status:         domain.StatusPaid,
		Amount:         dec("90"),
		TaxAmount:      dec("10"),
		TotalAmount:    dec("100"),
		PaidAmount:     dec("100"),
		Frequency:      &freq,
		DueDate:        dueDate,
	}
	nextDue := dueDate.AddDate(0, 1, 0)
	succ := NewSuccessor(paid, nextDue)

	if succ.BillingID == paid.BillingID || succ.Reference == paid.Reference {
		t.Fatalf("successor must get fresh identifiers")
	}
	if succ.Status != domain.StatusPending {
		t.Fatalf("successor status: want PENDING, got %s", succ.Status)
	}
	if !succ.TotalAmount.Equal(paid.TotalAmount) || !succ.PaidAmount.IsZero() {
		t.Fatalf("successor amounts off: total=%s paid=%s", succ.TotalAmount, succ.PaidAmount)
	}
	if !succ.DueDate.Equal(nextDue) {
		t.Fatalf("successor due date: want %v, got %v", nextDue, succ.DueDate)
	}
	if succ.NextBillingDate == nil || !succ.NextBillingDate.Equal(nextDue.AddDate(0, 1, 0)) {
		t.Fatalf("successor next billing date off: %v", succ.NextBillingDate)
	}
}
