package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("billing not found")
	ErrInvalidTransition = errors.New("invalid billing state transition")
	ErrAlreadyPaid       = errors.New("billing already paid")
	ErrInvalidInput      = errors.New("invalid billing input")
)

type Type string

const (
	TypeSubscription   Type = "SUBSCRIPTION"
	TypeServiceFee     Type = "SERVICE_FEE"
	TypeMaintenanceFee Type = "MAINTENANCE_FEE"
	TypeUtility        Type = "UTILITY"
	TypeOneTime        Type = "ONE_TIME"
)

// Recurs reports whether bills of this type spawn successors once paid.
func (t Type) Recurs() bool {
	switch t {
	case TypeSubscription, TypeServiceFee, TypeMaintenanceFee:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusOverdue   Status = "OVERDUE"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
	StatusDisputed  Status = "DISPUTED"
)

// Payable reports whether the bill can still collect money.
func (s Status) Payable() bool {
	return s == StatusPending || s == StatusSent || s == StatusOverdue
}

type Frequency string

const (
	FrequencyWeekly     Frequency = "WEEKLY"
	FrequencyMonthly    Frequency = "MONTHLY"
	FrequencyQuarterly  Frequency = "QUARTERLY"
	FrequencySemiAnnual Frequency = "SEMI_ANNUAL"
	FrequencyAnnual     Frequency = "ANNUAL"
)

// Next returns the due date one billing period after t.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	case FrequencySemiAnnual:
		return t.AddDate(0, 6, 0)
	case FrequencyAnnual:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

type Billing struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	BillingID         string          `gorm:"size:32;uniqueIndex:ux_billings_billing_id_active" json:"billing_id"`
	Reference         string          `gorm:"size:36;uniqueIndex:ux_billings_reference" json:"reference"`
	HolderID          string          `gorm:"size:32;index:idx_billings_holder" json:"holder_id"`
	PayerAccountID    string          `gorm:"size:32" json:"payer_account_id"`
	Type              Type            `gorm:"type:enum('SUBSCRIPTION','SERVICE_FEE','MAINTENANCE_FEE','UTILITY','ONE_TIME')" json:"type"`
	Status            Status          `gorm:"type:enum('PENDING','SENT','OVERDUE','PAID','CANCELLED','REFUNDED','DISPUTED');default:'PENDING'" json:"status"`
	Description       string          `gorm:"type:text" json:"description"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(18,2)" json:"tax_amount"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"discount_amount"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_amount"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(18,2)" json:"paid_amount"`
	Frequency         *Frequency      `gorm:"size:16" json:"frequency,omitempty"`
	DueDate           time.Time       `gorm:"type:date" json:"due_date"`
	NextBillingDate   *time.Time      `gorm:"type:date" json:"next_billing_date,omitempty"`
	SubscriptionStart *time.Time      `gorm:"type:date" json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time      `gorm:"type:date" json:"subscription_end,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Billing) TableName() string { return "billings" }

// Outstanding is what remains to be collected.
func (b *Billing) Outstanding() decimal.Decimal {
	rem := b.TotalAmount.Sub(b.PaidAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// Recurring reports whether the bill regenerates on payment.
func (b *Billing) Recurring() bool {
	return b.Frequency != nil && b.Type.Recurs()
}
