package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrAlreadyApproved   = errors.New("loan already approved")
	ErrNotPayable        = errors.New("loan does not accept payments in its current state")
	ErrInvalidInput      = errors.New("invalid loan input")
)

type Type string

const (
	TypePersonal Type = "PERSONAL"
	TypeAuto     Type = "AUTO"
	TypeMortgage Type = "MORTGAGE"
	TypeBusiness Type = "BUSINESS"
	TypeStudent  Type = "STUDENT"
)

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusActive      Status = "ACTIVE"
	StatusClosed      Status = "CLOSED"
	StatusDefaulted   Status = "DEFAULTED"
	StatusDeferred    Status = "DEFERRED"
	StatusChargedOff  Status = "CHARGED_OFF"
)

type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyBiweekly  Frequency = "BIWEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
)

// Next returns the payment date one period after t.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

type Loan struct {
	ID                    uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID                string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	Reference             string          `gorm:"size:36;uniqueIndex:ux_loans_reference" json:"reference"`
	HolderID              string          `gorm:"size:32;index:idx_loans_holder_active" json:"holder_id"`
	DisbursementAccountID string          `gorm:"size:32" json:"disbursement_account_id"`
	Type                  Type            `gorm:"type:enum('PERSONAL','AUTO','MORTGAGE','BUSINESS','STUDENT')" json:"type"`
	Status                Status          `gorm:"type:enum('PENDING','UNDER_REVIEW','APPROVED','REJECTED','ACTIVE','CLOSED','DEFAULTED','DEFERRED','CHARGED_OFF');default:'PENDING'" json:"status"`
	PrincipalAmount       decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal_amount"`
	CurrentBalance        decimal.Decimal `gorm:"type:decimal(18,2)" json:"current_balance"`
	InterestRate          decimal.Decimal `gorm:"type:decimal(6,4)" json:"interest_rate"`
	TermMonths            int             `json:"term_months"`
	PaymentFrequency      Frequency       `gorm:"size:16" json:"payment_frequency"`
	MonthlyPayment        decimal.Decimal `gorm:"type:decimal(18,2)" json:"monthly_payment"`
	DaysDelinquent        int             `json:"days_delinquent"`
	LateFeesAccrued       decimal.Decimal `gorm:"type:decimal(18,2)" json:"late_fees_accrued"`
	PaymentsMade          int             `json:"payments_made"`
	PaymentsRemaining     int             `json:"payments_remaining"`
	TotalPaidAmount       decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_paid_amount"`
	TotalInterestPaid     decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_interest_paid"`
	RejectionReason       string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApplicationDate       time.Time       `json:"application_date"`
	ApprovalDate          *time.Time      `json:"approval_date,omitempty"`
	DisbursementDate      *time.Time      `json:"disbursement_date,omitempty"`
	FirstPaymentDate      *time.Time      `json:"first_payment_date,omitempty"`
	LastPaymentDate       *time.Time      `json:"last_payment_date,omitempty"`
	MaturityDate          *time.Time      `json:"maturity_date,omitempty"`
	StateUpdatedAt        time.Time       `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`
	DeletedBy             string          `gorm:"size:32" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// NextPaymentDate is one period after the last payment, or the first payment
// date when nothing has been paid yet.
func (l *Loan) NextPaymentDate() time.Time {
	if l.LastPaymentDate != nil {
		return l.PaymentFrequency.Next(*l.LastPaymentDate)
	}
	if l.FirstPaymentDate != nil {
		return *l.FirstPaymentDate
	}
	if l.DisbursementDate != nil {
		return l.PaymentFrequency.Next(*l.DisbursementDate)
	}
	return l.PaymentFrequency.Next(l.ApplicationDate)
}

// IsDelinquent reports whether the loan has missed at least one payment.
func (l *Loan) IsDelinquent() bool { return l.DaysDelinquent > 0 }
