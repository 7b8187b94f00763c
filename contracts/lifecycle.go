/*
lifecycle.go - Contract state derivation and proration

PURPOSE:
  Answers, for one contract on one day: which lifecycle state is it in,
  how far through its term is it, and how much of the total rent has
  accrued so far.

STATE:
  Explicit state from the backend (estadoActual) always wins. Otherwise,
  with both dates present and everything normalized to midnight:

    start <= today <= end  -> ACTIVO
    start >  today         -> RESERVADO if Reserved, else PLANEADO
    end   <  today         -> FINALIZADO
    no dates               -> PENDIENTE

DAY COUNTS:
  totalDays     = end - start               (floored at 0)
  elapsedDays   = today - start             (clamped to [0, totalDays])
  remainingDays = end - today               (clamped to [0, totalDays])
  percentage    = 100 * elapsed / total     (0 when total is 0, capped at 100)

PRORATION:
  Fixed 30-day month, regardless of calendar month length:
  accrued = elapsedDays / 30 * monthly
  total   = totalDays   / 30 * monthly

EXAMPLE:
  Jan 1 - Jan 31, 1000/month, today Jan 16:
  total=30, elapsed=15, 50%, accrued=500, total=1000, ACTIVO

SEE ALSO:
  - generic/accrual.go: Prorate
  - labels.go: Human labels built on the same arithmetic
*/
package contracts

import (
	"github.com/warp/rental-engine/generic"
)

// Classify derives the lifecycle state and progress of a contract.
//
// Missing bounds are not an error: the result has HasRange=false, zero
// counters and State = explicit state or PENDIENTE. End before start is not
// an error either: counts are clamped and Malformed is set. Only unusable
// inputs (zero dates, unknown explicit state) return ErrInvalidInput.
func Classify(rec Record, today generic.TimePoint) (Progress, error) {
	if today.IsZero() {
		return Progress{}, &generic.InvalidInputError{Field: "today", Reason: "zero date"}
	}
	if err := rec.Range.Validate(); err != nil {
		return Progress{}, err
	}
	if rec.ExplicitState != nil && !rec.ExplicitState.IsValid() {
		return Progress{}, &generic.InvalidInputError{Field: "estadoActual", Reason: "unknown state " + string(*rec.ExplicitState)}
	}

	if !rec.Range.HasBounds() {
		state := StatePendiente
		if rec.ExplicitState != nil {
			state = *rec.ExplicitState
		}
		return Progress{
			State:         state,
			AccruedAmount: generic.ZeroAmount(),
			TotalAmount:   generic.ZeroAmount(),
		}, nil
	}

	today = today.Normalize()
	start := rec.Range.Start.Normalize()
	end := rec.Range.End.Normalize()

	total := rec.Range.TotalDays()
	elapsed := clamp(generic.DaysBetween(start, today), 0, total)
	untilEnd := generic.DaysBetween(today, end)
	remaining := clamp(untilEnd, 0, total)

	var pct float64
	if total > 0 {
		pct = min(100, 100*float64(elapsed)/float64(total))
	}

	state := DeriveState(rec.Range, rec.Reserved, today)
	if rec.ExplicitState != nil {
		state = *rec.ExplicitState
	}

	rate := generic.MonthlyRate(rec.monthly())
	return Progress{
		State:         state,
		Percentage:    pct,
		ElapsedDays:   elapsed,
		TotalDays:     total,
		RemainingDays: remaining,
		AccruedAmount: generic.Prorate(rate, elapsed),
		TotalAmount:   generic.Prorate(rate, total),
		HasRange:      true,
		Finished:      untilEnd < 0,
		Malformed:     rec.Range.IsMalformed(),
	}, nil
}

// DeriveState is the date-only fallback used when the backend supplied no state.
func DeriveState(r generic.Range, reserved bool, today generic.TimePoint) State {
	if !r.HasBounds() {
		return StatePendiente
	}
	switch {
	case r.Contains(today):
		return StateActivo
	case r.Start.After(today):
		if reserved {
			return StateReservado
		}
		return StatePlaneado
	case r.End.Before(today):
		return StateFinalizado
	default:
		return StatePendiente
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Degradation reports why a record's progress is not fully usable: a
// *generic.RangeError wrapping ErrMissingRange or ErrMalformedRange. Nil
// when both bounds are present and ordered.
func Degradation(rec Record) error {
	switch {
	case !rec.Range.HasBounds():
		return &generic.RangeError{RecordID: rec.ID, Range: rec.Range, Err: generic.ErrMissingRange}
	case rec.Range.IsMalformed():
		return &generic.RangeError{RecordID: rec.ID, Range: rec.Range, Err: generic.ErrMalformedRange}
	}
	return nil
}
