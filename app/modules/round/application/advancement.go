package roundservice

import (
	"sort"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// selection is the advancement decision for one round: who moves on, and at
// most one alternate holding the move-to-finals sentinel.
type selection struct {
	Advancers []types.CompetitorID
	Alternate *types.CompetitorID
}

// selectAdvancers picks the advancer set from the eligible pool. Automatics
// are every competitor at or above the qualifying score; a quota fills the
// remaining slots by descending (total, singing, performance) points. Without
// a quota everyone scored advances. The best-scoring non-advancer becomes the
// alternate. The decision is fully deterministic; only the draw order drawn
// afterwards is random.
func selectAdvancers(pool []Entrant, spots *int, qualifyingScore float64) selection {
	scored := make([]Entrant, 0, len(pool))
	for _, e := range pool {
		if e.TotScore != nil {
			scored = append(scored, e)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return entrantLess(scored[j], scored[i])
	})

	var sel selection
	if spots == nil {
		for _, e := range scored {
			sel.Advancers = append(sel.Advancers, e.CompetitorID)
		}
		return sel
	}

	taken := make(map[types.CompetitorID]bool)
	for _, e := range scored {
		if *e.TotScore >= qualifyingScore {
			sel.Advancers = append(sel.Advancers, e.CompetitorID)
			taken[e.CompetitorID] = true
		}
	}
	for _, e := range scored {
		if len(sel.Advancers) >= *spots {
			break
		}
		if taken[e.CompetitorID] {
			continue
		}
		sel.Advancers = append(sel.Advancers, e.CompetitorID)
		taken[e.CompetitorID] = true
	}
	for _, e := range scored {
		if !taken[e.CompetitorID] {
			id := e.CompetitorID
			sel.Alternate = &id
			break
		}
	}
	return sel
}

// entrantLess orders entrants ascending by (total, singing, performance)
// points with group name as the deterministic tiebreak.
func entrantLess(a, b Entrant) bool {
	if d := intPoints(a.TotPoints) - intPoints(b.TotPoints); d != 0 {
		return d < 0
	}
	if d := intPoints(a.SngPoints) - intPoints(b.SngPoints); d != 0 {
		return d < 0
	}
	if d := intPoints(a.PerPoints) - intPoints(b.PerPoints); d != 0 {
		return d < 0
	}
	return a.GroupName > b.GroupName
}

func intPoints(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

// drawOrder returns a random permutation of 1..n.
func (s *RoundService) drawOrder(n int) []int {
	draws := make([]int, n)
	for i, v := range s.rng.Perm(n) {
		draws[i] = v + 1
	}
	return draws
}
