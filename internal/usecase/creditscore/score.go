// Package creditscore derives a 300-850 risk score and a loan approval
// decision from the platform's own account, transaction and loan history.
// The model is self-contained: no external bureau data is consulted.
package creditscore

import (
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/domain/account"
	"corebank/internal/domain/loan"
	"corebank/internal/domain/transaction"
)

const (
	MinScore = 300
	MaxScore = 850
)

// Sub-score weights. Order: account history, balance stability,
// transaction pattern, existing debt, income stability.
var (
	weightAccountHistory     = 0.25
	weightBalanceStability   = 0.20
	weightTransactionPattern = 0.20
	weightExistingDebt       = 0.25
	weightIncomeStability    = 0.10
)

type Tier string

const (
	TierLow      Tier = "LOW"
	TierMedium   Tier = "MEDIUM"
	TierHigh     Tier = "HIGH"
	TierVeryHigh Tier = "VERY_HIGH"
)

type Score struct {
	AccountHistory     int  `json:"account_history"`
	BalanceStability   int  `json:"balance_stability"`
	TransactionPattern int  `json:"transaction_pattern"`
	ExistingDebt       int  `json:"existing_debt"`
	IncomeStability    int  `json:"income_stability"`
	Value              int  `json:"value"`
	Tier               Tier `json:"tier"`
}

// History is everything the scoring model reads for one account holder.
// RecentCompleted holds only COMPLETED transactions from the income window,
// narrowed at the repository so the full history is not refiltered here.
type History struct {
	Accounts        []*account.Account
	Transactions    []*transaction.Transaction
	RecentCompleted []*transaction.Transaction
	Loans           []*loan.Loan
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func tierFor(score int) Tier {
	switch {
	case score >= 750:
		return TierLow
	case score >= 650:
		return TierMedium
	case score >= 550:
		return TierHigh
	default:
		return TierVeryHigh
	}
}

// Calculate is pure: same history and asOf always yield the same score.
func Calculate(h History, asOf time.Time) Score {
	s := Score{
		AccountHistory:     accountHistoryScore(h, asOf),
		BalanceStability:   balanceStabilityScore(h),
		TransactionPattern: transactionPatternScore(h, asOf),
		ExistingDebt:       existingDebtScore(h),
		IncomeStability:    incomeStabilityScore(h),
	}
	weighted := float64(s.AccountHistory)*weightAccountHistory +
		float64(s.BalanceStability)*weightBalanceStability +
		float64(s.TransactionPattern)*weightTransactionPattern +
		float64(s.ExistingDebt)*weightExistingDebt +
		float64(s.IncomeStability)*weightIncomeStability
	s.Value = clamp(int(weighted + 0.5))
	s.Tier = tierFor(s.Value)
	return s
}

// accountHistoryScore: base 500, a bump for holding a second and third
// account, and a tenure bonus of up to 100 by months since the earliest
// transaction.
func accountHistoryScore(h History, asOf time.Time) int {
	score := 500
	if len(h.Accounts) >= 2 {
		score += 50
	}
	if len(h.Accounts) >= 3 {
		score += 25
	}

	var earliest time.Time
	for _, t := range h.Transactions {
		if earliest.IsZero() || t.CreatedAt.Before(earliest) {
			earliest = t.CreatedAt
		}
	}
	if !earliest.IsZero() {
		months := monthsBetween(earliest, asOf)
		switch {
		case months >= 24:
			score += 100
		case months >= 12:
			score += 75
		case months >= 6:
			score += 50
		case months >= 3:
			score += 25
		}
	}
	return clamp(score)
}

// balanceStabilityScore: base 400, tiered bonus by summed balance, 50-point
// penalty per account sitting below zero.
func balanceStabilityScore(h History) int {
	score := 400
	total := decimal.Zero
	for _, a := range h.Accounts {
		total = total.Add(a.Balance)
		if a.Balance.IsNegative() {
			score -= 50
		}
	}
	switch {
	case total.GreaterThanOrEqual(decimal.NewFromInt(10_000)):
		score += 300
	case total.GreaterThanOrEqual(decimal.NewFromInt(5_000)):
		score += 200
	case total.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		score += 100
	case total.GreaterThanOrEqual(decimal.NewFromInt(500)):
		score += 50
	}
	return clamp(score)
}

// transactionPatternScore: base 500, bonus by activity in the trailing
// three months, penalty for near-dormant accounts.
func transactionPatternScore(h History, asOf time.Time) int {
	score := 500
	cutoff := asOf.AddDate(0, -3, 0)
	recent := 0
	for _, t := range h.Transactions {
		if !t.CreatedAt.Before(cutoff) {
			recent++
		}
	}
	switch {
	case recent >= 50:
		score += 200
	case recent >= 20:
		score += 100
	case recent >= 10:
		score += 50
	}
	if recent < 3 {
		score -= 50
	}
	return clamp(score)
}

// existingDebtScore: base 700, tiered penalty by total outstanding balance
// across ACTIVE loans, plus per-loan penalties for delinquency and default.
func existingDebtScore(h History) int {
	score := 700
	outstanding := decimal.Zero
	for _, l := range h.Loans {
		switch l.Status {
		case loan.StatusActive:
			outstanding = outstanding.Add(l.CurrentBalance)
			if l.IsDelinquent() {
				score -= 75
			}
		case loan.StatusDefaulted:
			score -= 150
		}
	}
	switch {
	case outstanding.GreaterThanOrEqual(decimal.NewFromInt(50_000)):
		score -= 250
	case outstanding.GreaterThanOrEqual(decimal.NewFromInt(20_000)):
		score -= 150
	case outstanding.GreaterThanOrEqual(decimal.NewFromInt(10_000)):
		score -= 100
	case outstanding.GreaterThanOrEqual(decimal.NewFromInt(5_000)):
		score -= 50
	}
	return clamp(score)
}

// incomeStabilityScore: base 500, dropped to 400 when the income window
// shows no completed deposits, with a bonus tiered by average monthly
// deposit volume. Reads the pre-narrowed RecentCompleted slice.
func incomeStabilityScore(h History) int {
	deposits := decimal.Zero
	count := 0
	for _, t := range h.RecentCompleted {
		if t.Type != transaction.TypeDeposit {
			continue
		}
		deposits = deposits.Add(t.Amount)
		count++
	}
	if count == 0 {
		return clamp(400)
	}
	score := 500
	monthlyAvg := deposits.Div(decimal.NewFromInt(6))
	switch {
	case monthlyAvg.GreaterThanOrEqual(decimal.NewFromInt(5_000)):
		score += 250
	case monthlyAvg.GreaterThanOrEqual(decimal.NewFromInt(3_000)):
		score += 150
	case monthlyAvg.GreaterThanOrEqual(decimal.NewFromInt(2_000)):
		score += 100
	case monthlyAvg.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		score += 50
	}
	return clamp(score)
}

func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
