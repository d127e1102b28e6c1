// Package ranking implements standard competition ranking over nullable
// metrics: entities tied on the comparison key share the ordinal position of
// the first member of the tie group, and the next distinct value resumes at
// the position it would hold in a plain ordering ([50,50,50,40] ranks as
// [1,1,1,4]).
package ranking

import (
	"cmp"
	"sort"
)

// Competition returns the competition rank for each value, aligned to the
// input order. Nil values receive nil ranks and never consume a position.
// Input order does not matter; ranking is computed over a descending sort.
func Competition[T cmp.Ordered](values []*T) []*int {
	order := make([]int, 0, len(values))
	for i, v := range values {
		if v != nil {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return *values[order[a]] > *values[order[b]]
	})

	ranks := make([]*int, len(values))
	rank := 0
	var prev *T
	for pos, i := range order {
		v := values[i]
		if prev == nil || *v != *prev {
			rank = pos + 1
			prev = v
		}
		r := rank
		ranks[i] = &r
	}
	return ranks
}
