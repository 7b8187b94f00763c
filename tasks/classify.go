package tasks

import (
	"time"

	"github.com/warp/rental-engine/generic"
)

// ArchivePolicy selects how older archived items are split.
//
// ArchiveCompat keeps the historical branch order: "before today-3 months"
// is tested first, so anything older than three months is UltimoTrimestre,
// UltimoAño is never produced, and items one to three months old land in
// MasAntiguo.
//
// ArchiveCorrected uses lower bounds instead: within three months is
// UltimoTrimestre, within twelve is UltimoAño, anything older MasAntiguo.
type ArchivePolicy string

const (
	ArchiveCompat    ArchivePolicy = "compat"
	ArchiveCorrected ArchivePolicy = "corrected"
)

// Classifier holds the calendar options. The zero value is usable and
// behaves like DefaultClassifier except that weeks start on Sunday.
type Classifier struct {
	WeekStart time.Weekday
	Archive   ArchivePolicy
}

// DefaultClassifier starts weeks on Monday and keeps the compat archive order.
var DefaultClassifier = Classifier{WeekStart: time.Monday, Archive: ArchiveCompat}

// Classify assigns item to a bucket using DefaultClassifier.
func Classify(item Record, today generic.TimePoint, mode Mode) (Bucket, error) {
	return DefaultClassifier.Classify(item, today, mode)
}

// Classify assigns item to exactly one bucket of mode.
//
// In active mode an open task that started before today and has no due date
// is always Hoy. Otherwise the reference date is tested in fixed order:
// same day, same week, same month, then the mode-specific windows.
func (c Classifier) Classify(item Record, today generic.TimePoint, mode Mode) (Bucket, error) {
	if today.IsZero() {
		return "", &generic.InvalidInputError{Field: "today", Reason: "zero date"}
	}
	if mode != ModeActive && mode != ModeArchive {
		return "", &generic.InvalidInputError{Field: "mode", Reason: "unknown mode " + string(mode)}
	}
	if err := item.validate(); err != nil {
		return "", err
	}

	today = today.Normalize()
	ref := item.Reference().Normalize()

	if mode == ModeActive && !item.Completed && item.DueDate == nil && item.StartDate.Normalize().Before(today) {
		return BucketHoy, nil
	}

	switch {
	case generic.SameDay(ref, today):
		return BucketHoy, nil
	case generic.SameWeek(ref, today, c.WeekStart):
		return BucketEstaSemana, nil
	case generic.SameMonth(ref, today):
		return BucketEsteMes, nil
	}

	if mode == ModeActive {
		return c.activeTail(ref, today), nil
	}
	return c.archiveTail(ref, today), nil
}

func (c Classifier) activeTail(ref, today generic.TimePoint) Bucket {
	switch {
	case ref.Before(today.AddMonths(3)):
		return BucketProximoTrimestre
	case generic.SameYear(ref, today):
		return BucketEsteAño
	default:
		return BucketMasAdelante
	}
}

func (c Classifier) archiveTail(ref, today generic.TimePoint) Bucket {
	quarterAgo, yearAgo := today.AddMonths(-3), today.AddMonths(-12)

	if c.Archive == ArchiveCorrected {
		switch {
		case ref.AfterOrEqual(quarterAgo):
			return BucketUltimoTrimestre
		case ref.AfterOrEqual(yearAgo):
			return BucketUltimoAño
		default:
			return BucketMasAntiguo
		}
	}

	switch {
	case ref.Before(quarterAgo):
		return BucketUltimoTrimestre
	case ref.Before(yearAgo):
		return BucketUltimoAño
	default:
		return BucketMasAntiguo
	}
}

// ParseArchivePolicy defaults to ArchiveCompat on empty input.
func ParseArchivePolicy(s string) (ArchivePolicy, error) {
	switch p := ArchivePolicy(s); p {
	case "":
		return ArchiveCompat, nil
	case ArchiveCompat, ArchiveCorrected:
		return p, nil
	default:
		return "", &generic.InvalidInputError{Field: "archive_policy", Reason: "unknown policy " + s}
	}
}
