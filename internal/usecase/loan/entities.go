package loan

import (
	"time"

	"github.com/shopspring/decimal"

	domain "corebank/internal/domain/loan"
)

type ApplyInput struct {
	HolderID              string          `json:"holder_id"`
	DisbursementAccountID string          `json:"disbursement_account_id"`
	Type                  domain.Type     `json:"type"`
	Principal             decimal.Decimal `json:"principal"`
	AnnualRate            decimal.Decimal `json:"annual_rate"`
	TermMonths            int             `json:"term_months"`
	Frequency             domain.Frequency `json:"frequency"`
}

type PaymentResult struct {
	LoanID         string          `json:"loan_id"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	InterestPaid   decimal.Decimal `json:"interest_paid"`
	PrincipalPaid  decimal.Decimal `json:"principal_paid"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         string          `json:"status"`
}

type LoanDTO struct {
	LoanID                string          `json:"loan_id"`
	Reference             string          `json:"reference"`
	HolderID              string          `json:"holder_id"`
	DisbursementAccountID string          `json:"disbursement_account_id"`
	Type                  string          `json:"type"`
	Status                string          `json:"status"`
	PrincipalAmount       decimal.Decimal `json:"principal_amount"`
	CurrentBalance        decimal.Decimal `json:"current_balance"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	TermMonths            int             `json:"term_months"`
	PaymentFrequency      string          `json:"payment_frequency"`
	MonthlyPayment        decimal.Decimal `json:"monthly_payment"`
	DaysDelinquent        int             `json:"days_delinquent"`
	LateFeesAccrued       decimal.Decimal `json:"late_fees_accrued"`
	PaymentsMade          int             `json:"payments_made"`
	PaymentsRemaining     int             `json:"payments_remaining"`
	RejectionReason       string          `json:"rejection_reason,omitempty"`
	ApplicationDate       time.Time       `json:"application_date"`
	ApprovalDate          *time.Time      `json:"approval_date,omitempty"`
	DisbursementDate      *time.Time      `json:"disbursement_date,omitempty"`
	MaturityDate          *time.Time      `json:"maturity_date,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:                l.LoanID,
		Reference:             l.Reference,
		HolderID:              l.HolderID,
		DisbursementAccountID: l.DisbursementAccountID,
		Type:                  string(l.Type),
		Status:                string(l.Status),
		PrincipalAmount:       l.PrincipalAmount,
		CurrentBalance:        l.CurrentBalance,
		InterestRate:          l.InterestRate,
		TermMonths:            l.TermMonths,
		PaymentFrequency:      string(l.PaymentFrequency),
		MonthlyPayment:        l.MonthlyPayment,
		DaysDelinquent:        l.DaysDelinquent,
		LateFeesAccrued:       l.LateFeesAccrued,
		PaymentsMade:          l.PaymentsMade,
		PaymentsRemaining:     l.PaymentsRemaining,
		RejectionReason:       l.RejectionReason,
		ApplicationDate:       l.ApplicationDate,
		ApprovalDate:          l.ApprovalDate,
		DisbursementDate:      l.DisbursementDate,
		MaturityDate:          l.MaturityDate,
		CreatedAt:             l.CreatedAt,
	}
}
