package appearanceservice

import (
	"context"

	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// ------------------------
// Fake Appearance Repo
// ------------------------

// FakeAppearanceRepository provides a programmable stub for the
// appearancedb.Repository interface.
type FakeAppearanceRepository struct {
	trace []string

	CreateAppearanceFunc        func(ctx context.Context, db bun.IDB, appearance *appearancedb.Appearance) error
	GetAppearanceFunc           func(ctx context.Context, db bun.IDB, id types.AppearanceID) (*appearancedb.Appearance, error)
	ListByRoundFunc             func(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]appearancedb.Appearance, error)
	ListRankableByRoundFunc     func(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]appearancedb.Appearance, error)
	GetByRoundAndCompetitorFunc func(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID) (*appearancedb.Appearance, error)
	ListByCompetitorFunc        func(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) ([]appearancedb.Appearance, error)
	UpdateAppearanceFunc        func(ctx context.Context, db bun.IDB, appearance *appearancedb.Appearance) error
	CountUnsettledByRoundFunc   func(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error)
	ResetDrawsByRoundFunc       func(ctx context.Context, db bun.IDB, roundID types.RoundID) error
	DeleteByRoundFunc           func(ctx context.Context, db bun.IDB, roundID types.RoundID) error

	CreateSongFunc               func(ctx context.Context, db bun.IDB, song *appearancedb.Song) error
	ListSongsFunc                func(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) ([]appearancedb.Song, error)
	ListRankableSongsByRoundFunc func(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]appearancedb.Song, error)
	UpdateSongFunc               func(ctx context.Context, db bun.IDB, song *appearancedb.Song) error

	CreateScoreFunc       func(ctx context.Context, db bun.IDB, score *appearancedb.Score) error
	ListScoresFunc        func(ctx context.Context, db bun.IDB, songID types.SongID) ([]appearancedb.Score, error)
	GetScoreFunc          func(ctx context.Context, db bun.IDB, id types.ScoreID) (*appearancedb.Score, error)
	UpdateScorePointsFunc func(ctx context.Context, db bun.IDB, id types.ScoreID, points int) error

	// Captured writes for verification.
	UpdatedAppearances []*appearancedb.Appearance
	UpdatedSongs       []*appearancedb.Song
	CreatedSongs       []*appearancedb.Song
	CreatedScores      []*appearancedb.Score
}

// NewFakeAppearanceRepository initializes a new fake with an empty trace.
func NewFakeAppearanceRepository() *FakeAppearanceRepository {
	return &FakeAppearanceRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeAppearanceRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAppearanceRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAppearanceRepository) CreateAppearance(ctx context.Context, db bun.IDB, appearance *appearancedb.Appearance) error {
	f.record("CreateAppearance")
	if f.CreateAppearanceFunc != nil {
		return f.CreateAppearanceFunc(ctx, db, appearance)
	}
	return nil
}

func (f *FakeAppearanceRepository) GetAppearance(ctx context.Context, db bun.IDB, id types.AppearanceID) (*appearancedb.Appearance, error) {
	f.record("GetAppearance")
	if f.GetAppearanceFunc != nil {
		return f.GetAppearanceFunc(ctx, db, id)
	}
	return nil, appearancedb.ErrNotFound
}

func (f *FakeAppearanceRepository) ListByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]appearancedb.Appearance, error) {
	f.record("ListByRound")
	if f.ListByRoundFunc != nil {
		return f.ListByRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeAppearanceRepository) ListRankableByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]appearancedb.Appearance, error) {
	f.record("ListRankableByRound")
	if f.ListRankableByRoundFunc != nil {
		return f.ListRankableByRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeAppearanceRepository) GetByRoundAndCompetitor(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID) (*appearancedb.Appearance, error) {
	f.record("GetByRoundAndCompetitor")
	if f.GetByRoundAndCompetitorFunc != nil {
		return f.GetByRoundAndCompetitorFunc(ctx, db, roundID, competitorID)
	}
	return nil, appearancedb.ErrNotFound
}

func (f *FakeAppearanceRepository) ListByCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) ([]appearancedb.Appearance, error) {
	f.record("ListByCompetitor")
	if f.ListByCompetitorFunc != nil {
		return f.ListByCompetitorFunc(ctx, db, competitorID)
	}
	return nil, nil
}

func (f *FakeAppearanceRepository) UpdateAppearance(ctx context.Context, db bun.IDB, appearance *appearancedb.Appearance) error {
	f.record("UpdateAppearance")
	f.UpdatedAppearances = append(f.UpdatedAppearances, appearance)
	if f.UpdateAppearanceFunc != nil {
		return f.UpdateAppearanceFunc(ctx, db, appearance)
	}
	return nil
}

func (f *FakeAppearanceRepository) CountUnsettledByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error) {
	f.record("CountUnsettledByRound")
	if f.CountUnsettledByRoundFunc != nil {
		return f.CountUnsettledByRoundFunc(ctx, db, roundID)
	}
	return 0, nil
}

func (f *FakeAppearanceRepository) ResetDrawsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	f.record("ResetDrawsByRound")
	if f.ResetDrawsByRoundFunc != nil {
		return f.ResetDrawsByRoundFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeAppearanceRepository) DeleteByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	f.record("DeleteByRound")
	if f.DeleteByRoundFunc != nil {
		return f.DeleteByRoundFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeAppearanceRepository) CreateSong(ctx context.Context, db bun.IDB, song *appearancedb.Song) error {
	f.record("CreateSong")
	f.CreatedSongs = append(f.CreatedSongs, song)
	if f.CreateSongFunc != nil {
		return f.CreateSongFunc(ctx, db, song)
	}
	return nil
}

func (f *FakeAppearanceRepository) ListSongs(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) ([]appearancedb.Song, error) {
	f.record("ListSongs")
	if f.ListSongsFunc != nil {
		return f.ListSongsFunc(ctx, db, appearanceID)
	}
	return nil, nil
}

func (f *FakeAppearanceRepository) ListRankableSongsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]appearancedb.Song, error) {
	f.record("ListRankableSongsByRound")
	if f.ListRankableSongsByRoundFunc != nil {
		return f.ListRankableSongsByRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeAppearanceRepository) UpdateSong(ctx context.Context, db bun.IDB, song *appearancedb.Song) error {
	f.record("UpdateSong")
	f.UpdatedSongs = append(f.UpdatedSongs, song)
	if f.UpdateSongFunc != nil {
		return f.UpdateSongFunc(ctx, db, song)
	}
	return nil
}

func (f *FakeAppearanceRepository) CreateScore(ctx context.Context, db bun.IDB, score *appearancedb.Score) error {
	f.record("CreateScore")
	f.CreatedScores = append(f.CreatedScores, score)
	if f.CreateScoreFunc != nil {
		return f.CreateScoreFunc(ctx, db, score)
	}
	return nil
}

func (f *FakeAppearanceRepository) ListScores(ctx context.Context, db bun.IDB, songID types.SongID) ([]appearancedb.Score, error) {
	f.record("ListScores")
	if f.ListScoresFunc != nil {
		return f.ListScoresFunc(ctx, db, songID)
	}
	return nil, nil
}

func (f *FakeAppearanceRepository) GetScore(ctx context.Context, db bun.IDB, id types.ScoreID) (*appearancedb.Score, error) {
	f.record("GetScore")
	if f.GetScoreFunc != nil {
		return f.GetScoreFunc(ctx, db, id)
	}
	return nil, appearancedb.ErrScoreNotFound
}

func (f *FakeAppearanceRepository) UpdateScorePoints(ctx context.Context, db bun.IDB, id types.ScoreID, points int) error {
	f.record("UpdateScorePoints")
	if f.UpdateScorePointsFunc != nil {
		return f.UpdateScorePointsFunc(ctx, db, id, points)
	}
	return nil
}

// Ensure the fake actually satisfies the interface.
var _ appearancedb.Repository = (*FakeAppearanceRepository)(nil)

// ------------------------
// Fake Ports
// ------------------------

// FakePanelProvider stubs the round module's panel port.
type FakePanelProvider struct {
	Panel []Panelist
	Size  int
	Err   error
}

func (f *FakePanelProvider) ScoringPanel(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]Panelist, error) {
	return f.Panel, f.Err
}

func (f *FakePanelProvider) OfficialPanelSize(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error) {
	return f.Size, f.Err
}

var _ PanelProvider = (*FakePanelProvider)(nil)

// FakeCompetitorRecalculator records recalculation requests.
type FakeCompetitorRecalculator struct {
	Recalculated []types.CompetitorID
	Err          error
}

func (f *FakeCompetitorRecalculator) Recalculate(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) error {
	f.Recalculated = append(f.Recalculated, competitorID)
	return f.Err
}

var _ CompetitorRecalculator = (*FakeCompetitorRecalculator)(nil)

// FakeVarianceEnqueuer records variance report requests.
type FakeVarianceEnqueuer struct {
	Enqueued []types.AppearanceID
	Err      error
}

func (f *FakeVarianceEnqueuer) EnqueueVarianceReport(ctx context.Context, roundID types.RoundID, appearanceID types.AppearanceID) error {
	f.Enqueued = append(f.Enqueued, appearanceID)
	return f.Err
}

var _ VarianceReportEnqueuer = (*FakeVarianceEnqueuer)(nil)
