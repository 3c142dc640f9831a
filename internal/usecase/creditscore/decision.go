package creditscore

import (
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/domain/loan"
)

// Absolute per-type ceilings on what can be approved regardless of score.
var typeCeilings = map[loan.Type]decimal.Decimal{
	loan.TypePersonal: decimal.NewFromInt(50_000),
	loan.TypeAuto:     decimal.NewFromInt(100_000),
	loan.TypeMortgage: decimal.NewFromInt(500_000),
	loan.TypeBusiness: decimal.NewFromInt(250_000),
	loan.TypeStudent:  decimal.NewFromInt(75_000),
}

var defaultCeiling = decimal.NewFromInt(25_000)

// veryHighRiskLimit is the most a VERY_HIGH tier holder can borrow.
var veryHighRiskLimit = decimal.NewFromInt(5_000)

type Decision struct {
	Approved  bool            `json:"approved"`
	Reason    string          `json:"reason,omitempty"`
	Score     int             `json:"score"`
	Tier      Tier            `json:"tier"`
	MaxAmount decimal.Decimal `json:"max_amount"`
}

func creditMultiplier(score int) decimal.Decimal {
	switch {
	case score >= 750:
		return decimal.NewFromInt(4)
	case score >= 650:
		return decimal.NewFromInt(3)
	case score >= 550:
		return decimal.NewFromInt(2)
	default:
		return decimal.NewFromInt(1)
	}
}

func typeMultiplier(t loan.Type) decimal.Decimal {
	switch t {
	case loan.TypeMortgage:
		return decimal.NewFromInt(5)
	case loan.TypeBusiness:
		return decimal.NewFromInt(3)
	case loan.TypeAuto, loan.TypeStudent:
		return decimal.NewFromInt(2)
	case loan.TypePersonal:
		return decimal.NewFromFloat(1.5)
	default:
		return decimal.NewFromInt(1)
	}
}

func ceilingFor(t loan.Type) decimal.Decimal {
	if c, ok := typeCeilings[t]; ok {
		return c
	}
	return defaultCeiling
}

// Decide evaluates a loan request against the holder's history. It is pure;
// the Usecase wrapper loads the history and calls it. Evaluated
// synchronously at application time, never deferred to a scheduler.
func Decide(h History, amount decimal.Decimal, loanType loan.Type, asOf time.Time) Decision {
	score := Calculate(h, asOf)

	totalBalance := decimal.Zero
	for _, a := range h.Accounts {
		totalBalance = totalBalance.Add(a.Balance)
	}

	maxAmount := totalBalance.
		Mul(creditMultiplier(score.Value)).
		Mul(typeMultiplier(loanType)).
		Round(2)
	if ceiling := ceilingFor(loanType); maxAmount.GreaterThan(ceiling) {
		maxAmount = ceiling
	}

	d := Decision{Score: score.Value, Tier: score.Tier, MaxAmount: maxAmount}
	switch {
	case score.Value < 500:
		d.Reason = "credit score below minimum threshold"
	case amount.GreaterThan(maxAmount):
		d.Reason = "requested amount exceeds maximum approvable amount"
	case score.Tier == TierVeryHigh && amount.GreaterThan(veryHighRiskLimit):
		d.Reason = "requested amount too large for very high risk tier"
	default:
		d.Approved = true
	}
	return d
}
