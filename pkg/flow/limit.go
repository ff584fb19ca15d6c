package flow

import (
	"cmp"
	"slices"
)

// DefaultTopN is the default number of records kept by Limit.
const DefaultTopN = 30

// Limit returns a copy of the first n records. Records are expected in
// descending weight order already; Limit never re-sorts. A non-positive n
// yields no records.
func Limit(records []Record, n int) []Record {
	if n <= 0 {
		return []Record{}
	}
	if n > len(records) {
		n = len(records)
	}
	return slices.Clone(records[:n])
}

// SortByPhase sorts records in place by phase priority ascending, then by
// weight descending. The sort is stable so equal records keep input order.
func SortByPhase(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if c := cmp.Compare(a.Phase.Priority(), b.Phase.Priority()); c != 0 {
			return c
		}
		return cmp.Compare(b.Weight, a.Weight)
	})
}
