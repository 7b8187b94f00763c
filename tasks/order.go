package tasks

import (
	"slices"
	"strings"

	"github.com/warp/rental-engine/generic"
)

// Compare orders tasks by reference date ascending (earlier first), at day
// granularity, with the ID as tie-breaker so the order is total.
func Compare(a, b Record) int {
	if c := a.Reference().Compare(b.Reference()); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// CompareInBuckets orders by bucket priority first, then by Compare.
// Items that fail to classify sort last.
func (c Classifier) CompareInBuckets(today generic.TimePoint, mode Mode) func(a, b Record) int {
	rank := func(r Record) int {
		b, err := c.Classify(r, today, mode)
		if err != nil {
			return len(activeBuckets)
		}
		return Priority(b, mode)
	}
	return func(a, b Record) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return Compare(a, b)
	}
}

// Group is one non-empty bucket with its items in Compare order.
type Group struct {
	Bucket Bucket
	Label  string
	Items  []Record
}

// Group buckets items and returns only non-empty groups in priority order.
// The first invalid item aborts with its error.
func (c Classifier) Group(items []Record, today generic.TimePoint, mode Mode) ([]Group, error) {
	order := Buckets(mode)
	byBucket := make(map[Bucket][]Record, len(order))

	for _, item := range items {
		b, err := c.Classify(item, today, mode)
		if err != nil {
			return nil, err
		}
		byBucket[b] = append(byBucket[b], item)
	}

	var groups []Group
	for _, b := range order {
		members := byBucket[b]
		if len(members) == 0 {
			continue
		}
		slices.SortStableFunc(members, Compare)
		groups = append(groups, Group{Bucket: b, Label: BucketLabel(b), Items: members})
	}
	return groups, nil
}

// GroupTasks groups with DefaultClassifier.
func GroupTasks(items []Record, today generic.TimePoint, mode Mode) ([]Group, error) {
	return DefaultClassifier.Group(items, today, mode)
}
