package mysql

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM columns) ---

type accountSQLite struct {
	ID               uint64          `gorm:"primaryKey;column:id"`
	AccountID        string          `gorm:"size:32;column:account_id"`
	HolderID         string          `gorm:"size:32;column:holder_id"`
	Currency         string          `gorm:"size:3;column:currency"`
	Balance          decimal.Decimal `gorm:"type:numeric;column:balance"`
	AvailableBalance decimal.Decimal `gorm:"type:numeric;column:available_balance"`
	OpenedAt         time.Time       `gorm:"column:opened_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"column:deleted_at"`
}

func (accountSQLite) TableName() string { return "accounts" }

type transactionSQLite struct {
	ID            uint64          `gorm:"primaryKey;column:id"`
	TransactionID string          `gorm:"size:32;column:transaction_id"`
	Reference     string          `gorm:"size:36;column:reference"`
	Type          string          `gorm:"type:text;column:type"` // ← no enum
	Status        string          `gorm:"type:text;column:status"`
	Amount        decimal.Decimal `gorm:"type:numeric;column:amount"`
	Currency      string          `gorm:"size:3;column:currency"`
	FromAccountID *string         `gorm:"size:32;column:from_account_id"`
	ToAccountID   *string         `gorm:"size:32;column:to_account_id"`
	Channel       string          `gorm:"size:32;column:channel"`
	Description   string          `gorm:"type:text;column:description"`
	FailureReason string          `gorm:"type:text;column:failure_reason"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	ProcessedAt   *time.Time      `gorm:"column:processed_at"`
	CompletedAt   *time.Time      `gorm:"column:completed_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"column:deleted_at"`
}

func (transactionSQLite) TableName() string { return "transactions" }

type loanSQLite struct {
	ID                    uint64          `gorm:"primaryKey;column:id"`
	LoanID                string          `gorm:"size:32;column:loan_id"`
	Reference             string          `gorm:"size:36;column:reference"`
	HolderID              string          `gorm:"size:32;column:holder_id"`
	DisbursementAccountID string          `gorm:"size:32;column:disbursement_account_id"`
	Type                  string          `gorm:"type:text;column:type"`
	Status                string          `gorm:"type:text;column:status"`
	PrincipalAmount       decimal.Decimal `gorm:"type:numeric;column:principal_amount"`
	CurrentBalance        decimal.Decimal `gorm:"type:numeric;column:current_balance"`
	InterestRate          decimal.Decimal `gorm:"type:numeric;column:interest_rate"`
	TermMonths            int             `gorm:"column:term_months"`
	PaymentFrequency      string          `gorm:"size:16;column:payment_frequency"`
	MonthlyPayment        decimal.Decimal `gorm:"type:numeric;column:monthly_payment"`
	DaysDelinquent        int             `gorm:"column:days_delinquent"`
	LateFeesAccrued       decimal.Decimal `gorm:"type:numeric;column:late_fees_accrued"`
	PaymentsMade          int             `gorm:"column:payments_made"`
	PaymentsRemaining     int             `gorm:"column:payments_remaining"`
	TotalPaidAmount       decimal.Decimal `gorm:"type:numeric;column:total_paid_amount"`
	TotalInterestPaid     decimal.Decimal `gorm:"type:numeric;column:total_interest_paid"`
	RejectionReason       string          `gorm:"type:text;column:rejection_reason"`
	ApplicationDate       time.Time       `gorm:"column:application_date"`
	ApprovalDate          *time.Time      `gorm:"column:approval_date"`
	DisbursementDate      *time.Time      `gorm:"column:disbursement_date"`
	FirstPaymentDate      *time.Time      `gorm:"column:first_payment_date"`
	LastPaymentDate       *time.Time      `gorm:"column:last_payment_date"`
	MaturityDate          *time.Time      `gorm:"column:maturity_date"`
	StateUpdatedAt        time.Time       `gorm:"column:state_updated_at"`
	CreatedAt             time.Time       `gorm:"column:created_at"`
	UpdatedAt             time.Time       `gorm:"column:updated_at"`
	DeletedAt             gorm.DeletedAt  `gorm:"column:deleted_at"`
	DeletedBy             string          `gorm:"size:32;column:deleted_by"`
}

func (loanSQLite) TableName() string { return "loans" }

type billingSQLite struct {
	ID                uint64          `gorm:"primaryKey;column:id"`
	BillingID         string          `gorm:"size:32;column:billing_id"`
	Reference         string          `gorm:"size:36;column:reference"`
	HolderID          string          `gorm:"size:32;column:holder_id"`
	PayerAccountID    string          `gorm:"size:32;column:payer_account_id"`
	Type              string          `gorm:"type:text;column:type"`
	Status            string          `gorm:"type:text;column:status"`
	Description       string          `gorm:"type:text;column:description"`
	Amount            decimal.Decimal `gorm:"type:numeric;column:amount"`
	TaxAmount         decimal.Decimal `gorm:"type:numeric;column:tax_amount"`
	DiscountAmount    decimal.Decimal `gorm:"type:numeric;column:discount_amount"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric;column:total_amount"`
	PaidAmount        decimal.Decimal `gorm:"type:numeric;column:paid_amount"`
	Frequency         *string         `gorm:"size:16;column:frequency"`
	DueDate           time.Time       `gorm:"column:due_date"`
	NextBillingDate   *time.Time      `gorm:"column:next_billing_date"`
	SubscriptionStart *time.Time      `gorm:"column:subscription_start"`
	SubscriptionEnd   *time.Time      `gorm:"column:subscription_end"`
	PaidAt            *time.Time      `gorm:"column:paid_at"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"column:deleted_at"`
}

func (billingSQLite) TableName() string { return "billings" }

type notificationSQLite struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	UserID    string         `gorm:"size:32;column:user_id"`
	Type      string         `gorm:"size:40;column:type"`
	Title     string         `gorm:"size:255;column:title"`
	Message   string         `gorm:"type:text;column:message"`
	Link      string         `gorm:"type:text;column:link"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (notificationSQLite) TableName() string { return "notifications" }

type auditLogSQLite struct {
	ID          uint64         `gorm:"primaryKey;column:id"`
	ActorID     string         `gorm:"size:32;column:actor_id"`
	Action      string         `gorm:"size:64;column:action"`
	Severity    string         `gorm:"size:16;column:severity"`
	Description string         `gorm:"type:text;column:description"`
	EntityType  string         `gorm:"size:32;column:entity_type"`
	EntityID    string         `gorm:"size:36;column:entity_id"`
	OldValue    string         `gorm:"type:text;column:old_value"`
	NewValue    string         `gorm:"type:text;column:new_value"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (auditLogSQLite) TableName() string { return "audit_logs" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schemas, never the domain models.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&accountSQLite{},
		&transactionSQLite{},
		&loanSQLite{},
		&billingSQLite{},
		&notificationSQLite{},
		&auditLogSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
