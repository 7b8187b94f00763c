package generic

// =============================================================================
// RANGE - Start/end window of a contract or task
// =============================================================================

// Range is a day-granularity window. Either bound may be absent.
//
// Examples:
//   - Fixed-term lease: Start and End set
//   - Open-ended contract: End nil
//   - Draft record: both nil
//
// End before Start is malformed but still representable; consumers clamp
// derived counts instead of failing.
type Range struct {
	Start *TimePoint
	End   *TimePoint
}

// NewRange builds a range with both bounds set.
func NewRange(start, end TimePoint) Range {
	return Range{Start: &start, End: &end}
}

// HasBounds returns true when both Start and End are present.
func (r Range) HasBounds() bool {
	return r.Start != nil && r.End != nil
}

// IsMalformed returns true when both bounds exist and End is before Start.
func (r Range) IsMalformed() bool {
	return r.HasBounds() && r.End.Before(*r.Start)
}

// Contains returns true if the time point is within [Start, End].
func (r Range) Contains(t TimePoint) bool {
	if !r.HasBounds() {
		return false
	}
	return t.AfterOrEqual(*r.Start) && t.BeforeOrEqual(*r.End)
}

// TotalDays is the span in days, floored at 0. Zero without both bounds.
func (r Range) TotalDays() int {
	if !r.HasBounds() {
		return 0
	}
	return max(DaysBetween(*r.Start, *r.End), 0)
}

// Validate reports zero-valued bounds. Absent bounds are fine.
func (r Range) Validate() error {
	if r.Start != nil && r.Start.IsZero() {
		return &InvalidInputError{Field: "start", Reason: "zero date"}
	}
	if r.End != nil && r.End.IsZero() {
		return &InvalidInputError{Field: "end", Reason: "zero date"}
	}
	return nil
}

// String returns a string representation of the range.
func (r Range) String() string {
	return "[" + boundString(r.Start) + ", " + boundString(r.End) + "]"
}

func boundString(tp *TimePoint) string {
	if tp == nil {
		return "-"
	}
	return tp.String()
}
