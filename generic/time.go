package generic

import (
	"time"
)

// =============================================================================
// TIME POINT - Calendar day in the caller's local calendar
// =============================================================================

// TimePoint wraps a timestamp that is only meaningful at day granularity.
// Two TimePoints on the same calendar day compare equal regardless of clock time.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

func NewTimePointIn(year int, month time.Month, day int, loc *time.Location) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

func At(t time.Time) TimePoint { return TimePoint{Time: t} }

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return DaysBetween(tp, other) > 0 }
func (tp TimePoint) Equal(other TimePoint) bool         { return DaysBetween(tp, other) == 0 }
func (tp TimePoint) After(other TimePoint) bool         { return DaysBetween(tp, other) < 0 }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Compare returns -1, 0 or +1 at day granularity.
func (tp TimePoint) Compare(other TimePoint) int {
	switch d := DaysBetween(tp, other); {
	case d > 0:
		return -1
	case d < 0:
		return 1
	default:
		return 0
	}
}

// Normalize returns midnight of the same calendar day, in the time's own location.
func (tp TimePoint) Normalize() TimePoint {
	return TimePoint{Time: time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, tp.location())}
}

func (tp TimePoint) location() *time.Location {
	if loc := tp.Time.Location(); loc != nil {
		return loc
	}
	return time.Local
}

// civil projects the calendar day onto UTC so day differences are always whole.
func (tp TimePoint) civil() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.Normalize().Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.Normalize().Time.AddDate(0, n, 0)} }
func (tp TimePoint) AddYears(n int) TimePoint  { return TimePoint{Time: tp.Normalize().Time.AddDate(n, 0, 0)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	return tp.Time.Format("2006-01-02")
}

// =============================================================================
// CALENDAR WINDOWS
// =============================================================================

// StartOfWeek returns the first day of the week containing tp.
func (tp TimePoint) StartOfWeek(weekStart time.Weekday) TimePoint {
	offset := (int(tp.Weekday()) - int(weekStart) + 7) % 7
	return tp.AddDays(-offset)
}

func (tp TimePoint) EndOfWeek(weekStart time.Weekday) TimePoint {
	return tp.StartOfWeek(weekStart).AddDays(6)
}

func (tp TimePoint) StartOfMonth() TimePoint {
	return TimePoint{Time: time.Date(tp.Year(), tp.Month(), 1, 0, 0, 0, 0, tp.location())}
}

func (tp TimePoint) EndOfMonth() TimePoint {
	return tp.StartOfMonth().AddMonths(1).AddDays(-1)
}

func (tp TimePoint) StartOfYear() TimePoint {
	return TimePoint{Time: time.Date(tp.Year(), time.January, 1, 0, 0, 0, 0, tp.location())}
}

func (tp TimePoint) EndOfYear() TimePoint {
	return TimePoint{Time: time.Date(tp.Year(), time.December, 31, 0, 0, 0, 0, tp.location())}
}

func SameDay(a, b TimePoint) bool { return a.Equal(b) }

func SameWeek(a, b TimePoint, weekStart time.Weekday) bool {
	return a.StartOfWeek(weekStart).Equal(b.StartOfWeek(weekStart))
}

func SameMonth(a, b TimePoint) bool { return a.Year() == b.Year() && a.Month() == b.Month() }
func SameYear(a, b TimePoint) bool  { return a.Year() == b.Year() }

// =============================================================================
// TIME UTILITIES
// =============================================================================

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of calendar days from -> to. Negative when to is earlier.
func DaysBetween(from, to TimePoint) int {
	return int((to.civil().Unix() - from.civil().Unix()) / secondsPerDay)
}

// ParseDate accepts "2006-01-02" or RFC3339 and returns the date in loc.
func ParseDate(s string, loc *time.Location) (TimePoint, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return TimePoint{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return TimePoint{}, err
	}
	return TimePoint{Time: t.In(loc)}, nil
}
