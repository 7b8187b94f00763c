/*
Package generic provides the shared building blocks of the rental engine.

PURPOSE:
  Domain-agnostic types used by both the contract proration engine and the
  task bucket classifier: calendar days, ranges, money amounts, reference
  variants and the error taxonomy. Nothing in here knows about contracts
  or tasks.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A money value (monthly rent, accrued amount)
  - TimePoint: A calendar day (time.go)
  - Range: A start/end window with optional bounds (period.go)

DESIGN PRINCIPLES:
  1. Purity: No I/O, no clock reads. "today" is always a parameter.
  2. Precision: Uses decimal.Decimal to avoid floating-point drift in money
  3. Degrade, don't crash: bad ranges become clamped results, not errors

USAGE:
  rent, err := generic.NewAmountFromFloat(1000)
  accrued := generic.Prorate(generic.MonthlyRate(rent), 15) // 500

SEE ALSO:
  - accrual.go: Proration of per-period amounts
  - ref.go: Populated / Unresolved references
  - errors.go: Error taxonomy
*/
package generic

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Money value
// =============================================================================

// Amount is a currency-agnostic money value. No conversion is ever done.
type Amount struct {
	Value decimal.Decimal
}

func ZeroAmount() Amount { return Amount{Value: decimal.Zero} }

// NewAmountFromFloat rejects NaN and infinities.
func NewAmountFromFloat(value float64) (Amount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{}, &InvalidInputError{Field: "amount", Reason: "not a finite number"}
	}
	return Amount{Value: decimal.NewFromFloat(value)}, nil
}

func NewAmountFromInt(value int64) Amount {
	return Amount{Value: decimal.NewFromInt(value)}
}

// ParseAmount parses a decimal string such as "1250.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, &InvalidInputError{Field: "amount", Reason: err.Error()}
	}
	return Amount{Value: d}, nil
}

// MustAmount is for tests and fixtures.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s)} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s)} }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Round(places int32) Amount    { return Amount{Value: a.Value.Round(places)} }
func (a Amount) String() string               { return a.Value.String() }

// Float64 is for presentation only.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}
