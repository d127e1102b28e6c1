package competitorservice

import (
	"context"
	"fmt"
	"math"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/ranking"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// Recalculate refreshes the competitor's running totals from its confirmed
// appearances. Appearances without aggregates are skipped; a competitor with
// none keeps nil aggregates. Runs inside the caller's transaction.
func (s *CompetitorService) Recalculate(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) error {
	competitor, err := s.repo.GetCompetitor(ctx, db, competitorID)
	if err != nil {
		return err
	}

	aggregates, err := s.appearances.AggregatesByCompetitor(ctx, db, competitorID)
	if err != nil {
		return fmt.Errorf("failed to load appearance aggregates: %w", err)
	}

	var mus, per, sng, tot int
	var musS, perS, sngS, totS float64
	counted := 0
	for _, a := range aggregates {
		if a.TotPoints == nil || a.MusPoints == nil || a.PerPoints == nil || a.SngPoints == nil {
			continue
		}
		mus += *a.MusPoints
		per += *a.PerPoints
		sng += *a.SngPoints
		tot += *a.TotPoints
		musS += deref(a.MusScore)
		perS += deref(a.PerScore)
		sngS += deref(a.SngScore)
		totS += deref(a.TotScore)
		counted++
	}

	if counted == 0 {
		competitor.MusPoints, competitor.PerPoints, competitor.SngPoints, competitor.TotPoints = nil, nil, nil, nil
		competitor.MusScore, competitor.PerScore, competitor.SngScore, competitor.TotScore = nil, nil, nil, nil
	} else {
		competitor.MusPoints, competitor.PerPoints, competitor.SngPoints, competitor.TotPoints = &mus, &per, &sng, &tot
		// Scores are the mean of per-appearance scores, kept on the 0-100
		// scale and rounded to one decimal.
		musM := roundTenth(musS / float64(counted))
		perM := roundTenth(perS / float64(counted))
		sngM := roundTenth(sngS / float64(counted))
		totM := roundTenth(totS / float64(counted))
		competitor.MusScore, competitor.PerScore, competitor.SngScore, competitor.TotScore = &musM, &perM, &sngM, &totM
	}

	return s.repo.UpdateCompetitor(ctx, db, competitor)
}

// RankSession recomputes competition ranks over the session's rankable
// competitors for every metric. Competitors without aggregates keep nil
// ranks. Runs inside the caller's transaction.
func (s *CompetitorService) RankSession(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	competitors, err := s.repo.ListRankableBySession(ctx, db, sessionID)
	if err != nil {
		return err
	}
	if len(competitors) == 0 {
		return nil
	}

	musValues := make([]*int, len(competitors))
	perValues := make([]*int, len(competitors))
	sngValues := make([]*int, len(competitors))
	totValues := make([]*int, len(competitors))
	for i := range competitors {
		musValues[i] = competitors[i].MusPoints
		perValues[i] = competitors[i].PerPoints
		sngValues[i] = competitors[i].SngPoints
		totValues[i] = competitors[i].TotPoints
	}

	musRanks := ranking.Competition(musValues)
	perRanks := ranking.Competition(perValues)
	sngRanks := ranking.Competition(sngValues)
	totRanks := ranking.Competition(totValues)

	for i := range competitors {
		competitors[i].MusRank = musRanks[i]
		competitors[i].PerRank = perRanks[i]
		competitors[i].SngRank = sngRanks[i]
		competitors[i].TotRank = totRanks[i]
		if err := s.repo.UpdateCompetitor(ctx, db, &competitors[i]); err != nil {
			return err
		}
	}
	return nil
}

// CheckContestsResolved verifies every manual contest awarded at the given
// round carries a group resolution. Runs inside the caller's transaction.
func (s *CompetitorService) CheckContestsResolved(ctx context.Context, db bun.IDB, sessionID types.SessionID, roundNum int) error {
	missing, err := s.repo.ListManualContestsMissingResolution(ctx, db, sessionID, roundNum)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %d at round %d", ErrContestsUnresolved, len(missing), roundNum)
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
