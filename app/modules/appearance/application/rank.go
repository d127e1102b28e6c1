package appearanceservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/ranking"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// RankForRound recomputes competition ranks for the round's rank-eligible
// appearances and their songs, per category and in total. Ranks are assigned
// over raw points so panel size cannot skew relative order. Runs inside the
// caller's transaction as part of round verification.
func (s *AppearanceService) RankForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	appearances, err := s.repo.ListRankableByRound(ctx, db, roundID)
	if err != nil {
		return err
	}

	musRanks := ranking.Competition(collect(appearances, func(a *appearancedb.Appearance) *int { return a.MusPoints }))
	perRanks := ranking.Competition(collect(appearances, func(a *appearancedb.Appearance) *int { return a.PerPoints }))
	sngRanks := ranking.Competition(collect(appearances, func(a *appearancedb.Appearance) *int { return a.SngPoints }))
	totRanks := ranking.Competition(collect(appearances, func(a *appearancedb.Appearance) *int { return a.TotPoints }))

	for i := range appearances {
		appearances[i].MusRank = musRanks[i]
		appearances[i].PerRank = perRanks[i]
		appearances[i].SngRank = sngRanks[i]
		appearances[i].TotRank = totRanks[i]
		if err := s.repo.UpdateAppearance(ctx, db, &appearances[i]); err != nil {
			return fmt.Errorf("failed to store appearance ranks: %w", err)
		}
	}

	songs, err := s.repo.ListRankableSongsByRound(ctx, db, roundID)
	if err != nil {
		return err
	}

	musRanks = ranking.Competition(collect(songs, func(sg *appearancedb.Song) *int { return sg.MusPoints }))
	perRanks = ranking.Competition(collect(songs, func(sg *appearancedb.Song) *int { return sg.PerPoints }))
	sngRanks = ranking.Competition(collect(songs, func(sg *appearancedb.Song) *int { return sg.SngPoints }))
	totRanks = ranking.Competition(collect(songs, func(sg *appearancedb.Song) *int { return sg.TotPoints }))

	for i := range songs {
		songs[i].MusRank = musRanks[i]
		songs[i].PerRank = perRanks[i]
		songs[i].SngRank = sngRanks[i]
		songs[i].TotRank = totRanks[i]
		if err := s.repo.UpdateSong(ctx, db, &songs[i]); err != nil {
			return fmt.Errorf("failed to store song ranks: %w", err)
		}
	}

	return nil
}

// AssignDraw sets the advancement draw on the competitor's appearance in the
// given round. Runs inside the caller's transaction as part of round
// verification.
func (s *AppearanceService) AssignDraw(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, draw *int) error {
	appearance, err := s.repo.GetByRoundAndCompetitor(ctx, db, roundID, competitorID)
	if err != nil {
		return err
	}
	appearance.Draw = draw
	if err := s.repo.UpdateAppearance(ctx, db, appearance); err != nil {
		return fmt.Errorf("failed to store draw: %w", err)
	}
	return nil
}

func collect[T any](items []T, field func(*T) *int) []*int {
	values := make([]*int, len(items))
	for i := range items {
		values[i] = field(&items[i])
	}
	return values
}
