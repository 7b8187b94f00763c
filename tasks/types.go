/*
Package tasks groups tasks into coarse time buckets for list display.

PURPOSE:
  A task list is shown grouped ("Hoy", "Esta Semana", ...). Which group a
  task lands in depends only on its reference date (due date, or start date
  when there is no due date), today, and whether the list shows active or
  archived items.

MODES:
  active:  Hoy, Esta Semana, Este Mes, Próximo Trimestre, Este Año, Más Adelante
  archive: Hoy, Esta Semana, Este Mes, Último Trimestre, Último Año, Más Antiguo

  The order above is the display priority of the buckets.

SEE ALSO:
  - classify.go: Bucket assignment
  - order.go: Sorting and grouping
*/
package tasks

import (
	"strings"

	"github.com/warp/rental-engine/generic"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects the bucket set.
type Mode string

const (
	ModeActive  Mode = "active"
	ModeArchive Mode = "archive"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeActive, ModeArchive:
		return m, nil
	case "":
		return ModeActive, nil
	default:
		return "", &generic.InvalidInputError{Field: "mode", Reason: "unknown mode " + s}
	}
}

// =============================================================================
// BUCKET
// =============================================================================

// Bucket is a coarse time group.
type Bucket string

const (
	BucketHoy              Bucket = "Hoy"
	BucketEstaSemana       Bucket = "EstaSemana"
	BucketEsteMes          Bucket = "EsteMes"
	BucketProximoTrimestre Bucket = "ProximoTrimestre"
	BucketEsteAño          Bucket = "EsteAño"
	BucketMasAdelante      Bucket = "MasAdelante"
	BucketUltimoTrimestre  Bucket = "UltimoTrimestre"
	BucketUltimoAño        Bucket = "UltimoAño"
	BucketMasAntiguo       Bucket = "MasAntiguo"
)

var (
	activeBuckets = []Bucket{
		BucketHoy, BucketEstaSemana, BucketEsteMes,
		BucketProximoTrimestre, BucketEsteAño, BucketMasAdelante,
	}
	archiveBuckets = []Bucket{
		BucketHoy, BucketEstaSemana, BucketEsteMes,
		BucketUltimoTrimestre, BucketUltimoAño, BucketMasAntiguo,
	}
)

var bucketLabels = map[Bucket]string{
	BucketHoy:              "Hoy",
	BucketEstaSemana:       "Esta Semana",
	BucketEsteMes:          "Este Mes",
	BucketProximoTrimestre: "Próximo Trimestre",
	BucketEsteAño:          "Este Año",
	BucketMasAdelante:      "Más Adelante",
	BucketUltimoTrimestre:  "Último Trimestre",
	BucketUltimoAño:        "Último Año",
	BucketMasAntiguo:       "Más Antiguo",
}

// Buckets returns the ordered bucket set for a mode. The slice is a copy.
func Buckets(mode Mode) []Bucket {
	src := activeBuckets
	if mode == ModeArchive {
		src = archiveBuckets
	}
	return append([]Bucket(nil), src...)
}

// Priority is the display position of a bucket within its mode, or -1.
func Priority(b Bucket, mode Mode) int {
	src := activeBuckets
	if mode == ModeArchive {
		src = archiveBuckets
	}
	for i, candidate := range src {
		if candidate == b {
			return i
		}
	}
	return -1
}

// BucketLabel returns the display string of a bucket.
func BucketLabel(b Bucket) string {
	if l, ok := bucketLabels[b]; ok {
		return l
	}
	return string(b)
}

// =============================================================================
// RECORD
// =============================================================================

// Record is the slice of a task the classifier needs.
type Record struct {
	ID        string
	Title     string
	StartDate generic.TimePoint
	DueDate   *generic.TimePoint
	Completed bool
}

// Reference is the due date, or the start date when there is none.
func (r Record) Reference() generic.TimePoint {
	if r.DueDate != nil {
		return *r.DueDate
	}
	return r.StartDate
}

func (r Record) validate() error {
	if r.StartDate.IsZero() {
		return &generic.InvalidInputError{Field: "fechaInicio", Reason: "zero date"}
	}
	if r.DueDate != nil && r.DueDate.IsZero() {
		return &generic.InvalidInputError{Field: "fechaVencimiento", Reason: "zero date"}
	}
	return nil
}
