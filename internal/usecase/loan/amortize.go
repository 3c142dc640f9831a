package loan

import (
	"github.com/shopspring/decimal"

	domain "corebank/internal/domain/loan"
)

var (
	daysInYear = decimal.NewFromInt(365)
	one        = decimal.NewFromInt(1)
)

// MonthlyPayment computes the fixed periodic payment. Interest-bearing
// monthly loans use the annuity formula P*r(1+r)^n / ((1+r)^n - 1) with
// r the monthly rate; everything else is a straight division by term.
// Rounded half-up to 2 decimal places.
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int, freq domain.Frequency) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(termMonths))
	if freq != domain.FrequencyMonthly || !annualRate.IsPositive() {
		return principal.Div(n).Round(2)
	}
	r := annualRate.Div(decimal.NewFromInt(12))
	compound := one.Add(r).Pow(n)
	return principal.Mul(r).Mul(compound).
		Div(compound.Sub(one)).
		Round(2)
}

// AccruedInterest is simple daily accrual on the outstanding balance:
// balance * (annualRate / 365) * days, rounded half-up to 2 decimals.
func AccruedInterest(balance, annualRate decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !balance.IsPositive() || !annualRate.IsPositive() {
		return decimal.Zero
	}
	return balance.Mul(annualRate).
		Div(daysInYear).
		Mul(decimal.NewFromInt(int64(days))).
		Round(2)
}

// SplitPayment divides a payment into its interest and principal
// components. The principal share is clamped so the balance never goes
// below zero; a clamped (final) payment is recomputed as principal plus
// interest. A payment smaller than the accrued interest is all interest.
func SplitPayment(balance, annualRate, payment decimal.Decimal, days int) (interest, principal, total decimal.Decimal) {
	interest = AccruedInterest(balance, annualRate, days)
	principal = payment.Sub(interest)
	if principal.IsNegative() {
		return payment, decimal.Zero, payment
	}
	if principal.GreaterThan(balance) {
		principal = balance
		return interest, principal, principal.Add(interest)
	}
	return interest, principal, payment
}
