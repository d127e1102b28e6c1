package appearancedb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// Repository is the persistence contract for appearances, songs and scores.
// Every method accepts a bun.IDB so callers can run inside a transaction.
type Repository interface {
	CreateAppearance(ctx context.Context, db bun.IDB, appearance *Appearance) error
	GetAppearance(ctx context.Context, db bun.IDB, id types.AppearanceID) (*Appearance, error)
	ListByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]Appearance, error)
	// ListRankableByRound returns the round's appearances whose competitor is
	// eligible for ranking (not private, active status).
	ListRankableByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]Appearance, error)
	GetByRoundAndCompetitor(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID) (*Appearance, error)
	ListByCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) ([]Appearance, error)
	UpdateAppearance(ctx context.Context, db bun.IDB, appearance *Appearance) error
	// CountUnsettledByRound counts appearances still blocking round
	// verification.
	CountUnsettledByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error)
	ResetDrawsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error
	DeleteByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error

	CreateSong(ctx context.Context, db bun.IDB, song *Song) error
	ListSongs(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) ([]Song, error)
	// ListRankableSongsByRound returns songs of rank-eligible appearances in
	// the round.
	ListRankableSongsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]Song, error)
	UpdateSong(ctx context.Context, db bun.IDB, song *Song) error

	CreateScore(ctx context.Context, db bun.IDB, score *Score) error
	ListScores(ctx context.Context, db bun.IDB, songID types.SongID) ([]Score, error)
	GetScore(ctx context.Context, db bun.IDB, id types.ScoreID) (*Score, error)
	UpdateScorePoints(ctx context.Context, db bun.IDB, id types.ScoreID, points int) error
}
