/*
Package money - Fixed-Point Monetary Arithmetic

==============================================================================
FILE: internal/money/money.go
==============================================================================

DESCRIPTION:
    Storing money as float64 is correct at rest (a `decimal(15,2)` gorm
    tag constrains the column) but wrong in memory, since every
    arithmetic step on the way to a payslip would happen in floating
    point. This package avoids that: all monetary computation uses
    shopspring/decimal, at scale 4 internally and rounded to scale 2 only
    when a value is persisted or displayed.

==============================================================================
*/
package money

import "github.com/shopspring/decimal"

// InternalScale is the minimum decimal places carried through
// intermediate gross-to-net computation.
const InternalScale = 4

// PersistScale is the decimal places a monetary value is rounded to
// before it is written to a payroll-run-line, payslip, or journal line.
const PersistScale = 2

// Zero is the canonical zero value, avoiding repeated decimal.NewFromInt(0).
var Zero = decimal.Zero

// FromCents builds a decimal from an integer cents amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents rounds to PersistScale and returns the integer cents amount.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(PersistScale).Shift(2).IntPart()
}

// Persist rounds a decimal to the scale money is stored at.
func Persist(d decimal.Decimal) decimal.Decimal {
	return d.Round(PersistScale)
}

// Internal rounds a decimal to the scale intermediate computation is
// carried at, guarding against runaway precision growth across a long
// chain of multiplications.
func Internal(d decimal.Decimal) decimal.Decimal {
	return d.Round(InternalScale)
}

// PercentOf returns pct% of base, e.g. PercentOf(3000, 10) = 300.
func PercentOf(base decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return Internal(base.Mul(pct).Div(decimal.NewFromInt(100)))
}

// Sum adds a slice of decimals, returning Zero for an empty slice.
func Sum(vals ...decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, v := range vals {
		total = total.Add(v)
	}
	return total
}
