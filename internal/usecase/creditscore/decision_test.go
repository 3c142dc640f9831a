package creditscore

import (
	"testing"

	"github.com/shopspring/decimal"

	"corebank/internal/domain/account"
	"corebank/internal/domain/loan"
)

func TestDecide_ApprovesWithinLimit(t *testing.T) {
	h := strongHistory() // score 673, tier MEDIUM, total balance 12k

	d := Decide(h, decimal.NewFromInt(20_000), loan.TypePersonal, asOf)
	if !d.Approved {
		t.Fatalf("want approved, got rejection: %s", d.Reason)
	}
	// 12000 * 3 (MEDIUM) * 1.5 (personal) = 54000, capped at the 50k ceiling
	if !d.MaxAmount.Equal(decimal.NewFromInt(50_000)) {
		t.Fatalf("max amount: want 50000, got %s", d.MaxAmount)
	}
	if d.Score != 673 || d.Tier != TierMedium {
		t.Fatalf("decision carries wrong score/tier: %+v", d)
	}
}

func TestDecide_RejectsOverMax(t *testing.T) {
	h := strongHistory()
	d := Decide(h, decimal.NewFromInt(60_000), loan.TypePersonal, asOf)
	if d.Approved {
		t.Fatalf("want rejection over max amount")
	}
	if d.Reason != "requested amount exceeds maximum approvable amount" {
		t.Fatalf("wrong reason: %s", d.Reason)
	}
}

func TestDecide_RejectsBelowMinimumScore(t *testing.T) {
	h := History{
		Accounts: []*account.Account{{AccountID: "acc-1", Balance: decimal.NewFromInt(-100)}},
		Loans: []*loan.Loan{
			{Status: loan.StatusDefaulted},
			{Status: loan.StatusDefaulted},
			{Status: loan.StatusActive, CurrentBalance: decimal.NewFromInt(60_000), DaysDelinquent: 12},
		},
	}
	d := Decide(h, decimal.NewFromInt(1), loan.TypePersonal, asOf)
	if d.Approved {
		t.Fatalf("want rejection below minimum score, got approval (score %d)", d.Score)
	}
	if d.Reason != "credit score below minimum threshold" {
		t.Fatalf("wrong reason: %s", d.Reason)
	}
}

func TestDecide_VeryHighTierCappedAt5000(t *testing.T) {
	// Score >= 500 but tier VERY_HIGH: one 9k account dragged down by a
	// prior default. Max by multipliers is 9000*1*1.5 = 13500.
	h := History{
		Accounts: []*account.Account{{AccountID: "acc-1", Balance: decimal.NewFromInt(9_000)}},
		Loans:    []*loan.Loan{{Status: loan.StatusDefaulted}},
	}
	s := Calculate(h, asOf)
	if s.Tier != TierVeryHigh || s.Value < 500 {
		t.Fatalf("fixture drifted: want VERY_HIGH with score >= 500, got %d/%s", s.Value, s.Tier)
	}

	d := Decide(h, decimal.NewFromInt(6_000), loan.TypePersonal, asOf)
	if d.Approved {
		t.Fatalf("want rejection above very-high-risk limit")
	}
	if d.Reason != "requested amount too large for very high risk tier" {
		t.Fatalf("wrong reason: %s", d.Reason)
	}

	d = Decide(h, decimal.NewFromInt(4_000), loan.TypePersonal, asOf)
	if !d.Approved {
		t.Fatalf("want approval under very-high-risk limit, got: %s", d.Reason)
	}
}

func TestDecide_UnknownTypeUsesDefaultCeiling(t *testing.T) {
	h := strongHistory()
	d := Decide(h, decimal.NewFromInt(30_000), loan.Type("BOAT"), asOf)
	if d.Approved {
		t.Fatalf("want rejection above default ceiling")
	}
	if !d.MaxAmount.Equal(decimal.NewFromInt(25_000)) {
		t.Fatalf("default ceiling: want 25000, got %s", d.MaxAmount)
	}
}
