package generic

import "github.com/shopspring/decimal"

// =============================================================================
// ACCRUAL RATE - Per-period amount spread across days
// =============================================================================

// FixedMonthDays is the accrual unit for monthly amounts. Calendar month
// length is deliberately ignored: every month counts as 30 days.
const FixedMonthDays = 30

// AccrualRate is an amount earned per PeriodDays days.
type AccrualRate struct {
	Amount     Amount
	PeriodDays int
}

// MonthlyRate returns the rate for a monthly amount on the fixed 30-day month.
func MonthlyRate(monthly Amount) AccrualRate {
	return AccrualRate{Amount: monthly, PeriodDays: FixedMonthDays}
}

// Prorate returns (days / PeriodDays) * Amount. Non-positive days or an
// empty period yield zero.
func Prorate(rate AccrualRate, days int) Amount {
	if days <= 0 || rate.PeriodDays <= 0 {
		return ZeroAmount()
	}
	// Multiply first so whole-day results stay exact.
	return rate.Amount.
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(int64(rate.PeriodDays)))
}
