package contracts_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/rental-engine/contracts"
	"github.com/warp/rental-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func ptr[T any](v T) *T { return &v }

func lease(start, end generic.TimePoint, monthly string) contracts.Record {
	return contracts.Record{
		ID:            "c-1",
		Range:         generic.NewRange(start, end),
		MonthlyAmount: ptr(generic.MustAmount(monthly)),
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestClassify_MidTermProration(t *testing.T) {
	// GIVEN: Jan 1 - Jan 31 lease at 1000/month
	// WHEN: Classified on Jan 16
	// THEN: Half way through, half the rent accrued
	rec := lease(date(2024, time.January, 1), date(2024, time.January, 31), "1000")

	p, err := contracts.Classify(rec, date(2024, time.January, 16))
	require.NoError(t, err)

	assert.Equal(t, contracts.StateActivo, p.State)
	assert.True(t, p.HasRange)
	assert.Equal(t, 30, p.TotalDays)
	assert.Equal(t, 15, p.ElapsedDays)
	assert.Equal(t, 15, p.RemainingDays)
	assert.InDelta(t, 50.0, p.Percentage, 1e-9)
	assert.True(t, p.AccruedAmount.Equal(generic.MustAmount("500")), "accrued %s", p.AccruedAmount)
	assert.True(t, p.TotalAmount.Equal(generic.MustAmount("1000")), "total %s", p.TotalAmount)
}

func TestClassify_MissingEnd_IsPendingWithoutRange(t *testing.T) {
	// GIVEN: Open-ended contract, no backend state
	start := date(2024, time.March, 1)
	rec := contracts.Record{ID: "c-2", Range: generic.Range{Start: &start}}

	p, err := contracts.Classify(rec, date(2024, time.January, 1))
	require.NoError(t, err)

	assert.False(t, p.HasRange)
	assert.Equal(t, contracts.StatePendiente, p.State)
	assert.Zero(t, p.Percentage)
	assert.Zero(t, p.TotalDays)
	assert.Zero(t, p.ElapsedDays)
	assert.Zero(t, p.RemainingDays)
	assert.True(t, p.AccruedAmount.IsZero())
	assert.True(t, p.TotalAmount.IsZero())
}

func TestClassify_MissingRange_UsesExplicitState(t *testing.T) {
	rec := contracts.Record{ExplicitState: ptr(contracts.StateMantenimiento)}

	p, err := contracts.Classify(rec, date(2024, time.January, 1))
	require.NoError(t, err)

	assert.False(t, p.HasRange)
	assert.Equal(t, contracts.StateMantenimiento, p.State)
}

func TestClassify_Finished(t *testing.T) {
	// GIVEN: A lease that ended weeks ago
	start, end := date(2024, time.June, 1), date(2024, time.June, 10)
	today := date(2024, time.July, 1)

	p, err := contracts.Classify(lease(start, end, "300"), today)
	require.NoError(t, err)

	assert.Equal(t, contracts.StateFinalizado, p.State)
	assert.True(t, p.Finished)
	assert.Equal(t, 0, p.RemainingDays)
	assert.Equal(t, p.TotalDays, p.ElapsedDays)
	assert.InDelta(t, 100.0, p.Percentage, 1e-9)
	assert.Nil(t, contracts.RemainingDaysLabel(end, today))
}

func TestClassify_ExplicitStateWins(t *testing.T) {
	// GIVEN: Dates say ACTIVO but the backend says MANTENIMIENTO
	rec := lease(date(2024, time.January, 1), date(2024, time.December, 31), "1000")
	rec.ExplicitState = ptr(contracts.StateMantenimiento)

	p, err := contracts.Classify(rec, date(2024, time.June, 1))
	require.NoError(t, err)

	assert.Equal(t, contracts.StateMantenimiento, p.State)
	assert.True(t, p.HasRange, "progress is still computed from dates")
}

func TestClassify_FutureContract(t *testing.T) {
	start, end := date(2025, time.January, 1), date(2025, time.June, 30)
	today := date(2024, time.December, 1)

	planned, err := contracts.Classify(lease(start, end, "800"), today)
	require.NoError(t, err)
	assert.Equal(t, contracts.StatePlaneado, planned.State)
	assert.Zero(t, planned.ElapsedDays)
	assert.Equal(t, planned.TotalDays, planned.RemainingDays, "remaining is clamped to total")
	assert.True(t, planned.AccruedAmount.IsZero())

	rec := lease(start, end, "800")
	rec.Reserved = true
	reserved, err := contracts.Classify(rec, today)
	require.NoError(t, err)
	assert.Equal(t, contracts.StateReservado, reserved.State)
}

// =============================================================================
// BOUNDARIES
// =============================================================================

func TestClassify_Boundaries(t *testing.T) {
	start, end := date(2024, time.March, 1), date(2024, time.March, 31)
	rec := lease(start, end, "1000")

	t.Run("today equals start", func(t *testing.T) {
		p, err := contracts.Classify(rec, start)
		require.NoError(t, err)
		assert.Equal(t, contracts.StateActivo, p.State)
		assert.Equal(t, 0, p.ElapsedDays)
	})

	t.Run("today equals end", func(t *testing.T) {
		p, err := contracts.Classify(rec, end)
		require.NoError(t, err)
		assert.Equal(t, contracts.StateActivo, p.State)
		assert.Equal(t, 0, p.RemainingDays)
		assert.False(t, p.Finished)
	})

	t.Run("day after end", func(t *testing.T) {
		p, err := contracts.Classify(rec, end.AddDays(1))
		require.NoError(t, err)
		assert.Equal(t, contracts.StateFinalizado, p.State)
		assert.True(t, p.Finished)
	})

	t.Run("clock time is ignored", func(t *testing.T) {
		late := generic.At(time.Date(2024, time.March, 16, 23, 59, 0, 0, time.Local))
		early := generic.At(time.Date(2024, time.March, 16, 0, 1, 0, 0, time.Local))
		a, err := contracts.Classify(rec, late)
		require.NoError(t, err)
		b, err := contracts.Classify(rec, early)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, 15, a.ElapsedDays)
	})
}

// =============================================================================
// DEGRADED AND INVALID INPUT
// =============================================================================

func TestClassify_MalformedRange_ClampsInsteadOfFailing(t *testing.T) {
	// GIVEN: End before start
	rec := lease(date(2024, time.May, 10), date(2024, time.May, 1), "1000")

	p, err := contracts.Classify(rec, date(2024, time.May, 5))
	require.NoError(t, err)

	assert.True(t, p.Malformed)
	assert.True(t, p.HasRange)
	assert.Equal(t, 0, p.TotalDays)
	assert.Equal(t, 0, p.ElapsedDays)
	assert.Equal(t, 0, p.RemainingDays)
	assert.Zero(t, p.Percentage)
	assert.True(t, p.TotalAmount.IsZero())
	assert.Equal(t, contracts.StatePlaneado, p.State)
}

func TestClassify_NoMonthlyAmount_IsZero(t *testing.T) {
	rec := contracts.Record{Range: generic.NewRange(date(2024, time.January, 1), date(2024, time.January, 31))}

	p, err := contracts.Classify(rec, date(2024, time.January, 16))
	require.NoError(t, err)
	assert.True(t, p.AccruedAmount.IsZero())
	assert.True(t, p.TotalAmount.IsZero())
	assert.Equal(t, 15, p.ElapsedDays)
}

func TestClassify_InvalidInput(t *testing.T) {
	rec := lease(date(2024, time.January, 1), date(2024, time.January, 31), "1000")

	_, err := contracts.Classify(rec, generic.TimePoint{})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	zeroEnd := contracts.Record{Range: generic.Range{Start: ptr(date(2024, time.January, 1)), End: &generic.TimePoint{}}}
	_, err = contracts.Classify(zeroEnd, date(2024, time.January, 2))
	var inputErr *generic.InvalidInputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "end", inputErr.Field)

	bad := rec
	bad.ExplicitState = ptr(contracts.State("ARCHIVADO"))
	_, err = contracts.Classify(bad, date(2024, time.January, 2))
	assert.True(t, generic.IsClientError(err))
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestClassify_Invariants(t *testing.T) {
	// Sweep every (start, end, today) combination over a small window.
	base := date(2024, time.February, 20)
	for s := 0; s < 12; s++ {
		for e := 0; e < 12; e++ {
			for d := -3; d < 15; d++ {
				start, end, today := base.AddDays(s), base.AddDays(e), base.AddDays(d)
				rec := lease(start, end, "900")

				p, err := contracts.Classify(rec, today)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, p.ElapsedDays, 0)
				assert.LessOrEqual(t, p.ElapsedDays, p.TotalDays)
				assert.GreaterOrEqual(t, p.Percentage, 0.0)
				assert.LessOrEqual(t, p.Percentage, 100.0)
				if p.TotalDays == 0 {
					assert.Zero(t, p.Percentage)
				}
				assert.Contains(t, []contracts.State{
					contracts.StateActivo, contracts.StatePlaneado, contracts.StateFinalizado,
				}, p.State)

				again, err := contracts.Classify(rec, today)
				require.NoError(t, err)
				assert.Equal(t, p, again)
			}
		}
	}
}

func TestParseState(t *testing.T) {
	s, err := contracts.ParseState(" activo ")
	require.NoError(t, err)
	assert.Equal(t, contracts.StateActivo, s)

	_, err = contracts.ParseState("VENCIDO")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestDegradation(t *testing.T) {
	ok := lease(date(2024, time.January, 1), date(2024, time.January, 31), "1000")
	assert.NoError(t, contracts.Degradation(ok))

	reversed := lease(date(2024, time.February, 1), date(2024, time.January, 1), "1000")
	err := contracts.Degradation(reversed)
	assert.ErrorIs(t, err, generic.ErrMalformedRange)
	assert.True(t, generic.IsDegraded(err))

	start := date(2024, time.March, 1)
	err = contracts.Degradation(contracts.Record{ID: "c-2", Range: generic.Range{Start: &start}})
	var rangeErr *generic.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "c-2", rangeErr.RecordID)
	assert.ErrorIs(t, err, generic.ErrMissingRange)
}
