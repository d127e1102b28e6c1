package competitorservice

import (
	"context"

	"github.com/uptrace/bun"

	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// FakeCompetitorRepository provides a programmable stub for the
// competitordb.Repository interface.
type FakeCompetitorRepository struct {
	trace []string

	CreateConventionFunc                    func(ctx context.Context, db bun.IDB, convention *competitordb.Convention) error
	CreateSessionFunc                       func(ctx context.Context, db bun.IDB, session *competitordb.Session) error
	GetSessionFunc                          func(ctx context.Context, db bun.IDB, id types.SessionID) (*competitordb.Session, error)
	CreateContestFunc                       func(ctx context.Context, db bun.IDB, contest *competitordb.Contest) error
	GetContestFunc                          func(ctx context.Context, db bun.IDB, id types.ContestID) (*competitordb.Contest, error)
	UpdateContestFunc                       func(ctx context.Context, db bun.IDB, contest *competitordb.Contest) error
	ListNumberedContestsFunc                func(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Contest, error)
	ListManualContestsMissingResolutionFunc func(ctx context.Context, db bun.IDB, sessionID types.SessionID, roundNum int) ([]competitordb.Contest, error)
	CreateCompetitorFunc                    func(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor) error
	GetCompetitorFunc                       func(ctx context.Context, db bun.IDB, id types.CompetitorID) (*competitordb.Competitor, error)
	ListBySessionFunc                       func(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Competitor, error)
	ListActiveBySessionFunc                 func(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Competitor, error)
	ListRankableBySessionFunc               func(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Competitor, error)
	ListMultisBySessionFunc                 func(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Competitor, error)
	UpdateCompetitorFunc                    func(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor) error
	UpdateStatusFunc                        func(ctx context.Context, db bun.IDB, id types.CompetitorID, status competitordb.CompetitorStatus) error
	NullAggregatesFunc                      func(ctx context.Context, db bun.IDB, sessionID types.SessionID) error

	UpdatedCompetitors []*competitordb.Competitor
	UpdatedContests    []*competitordb.Contest
	StatusUpdates      map[types.CompetitorID]competitordb.CompetitorStatus
}

func NewFakeCompetitorRepository() *FakeCompetitorRepository {
	return &FakeCompetitorRepository{
		trace:         []string{},
		StatusUpdates: map[types.CompetitorID]competitordb.CompetitorStatus{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeCompetitorRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCompetitorRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeCompetitorRepository) CreateConvention(ctx context.Context, db bun.IDB, convention *competitordb.Convention) error {
	f.record("CreateConvention")
	if f.CreateConventionFunc != nil {
		return f.CreateConventionFunc(ctx, db, convention)
	}
	return nil
}

func (f *FakeCompetitorRepository) CreateSession(ctx context.Context, db bun.IDB, session *competitordb.Session) error {
	f.record("CreateSession")
	if f.CreateSessionFunc != nil {
		return f.CreateSessionFunc(ctx, db, session)
	}
	return nil
}

func (f *FakeCompetitorRepository) GetSession(ctx context.Context, db bun.IDB, id types.SessionID) (*competitordb.Session, error) {
	f.record("GetSession")
	if f.GetSessionFunc != nil {
		return f.GetSessionFunc(ctx, db, id)
	}
	return nil, competitordb.ErrSessionNotFound
}

func (f *FakeCompetitorRepository) CreateContest(ctx context.Context, db bun.IDB, contest *competitordb.Contest) error {
	f.record("CreateContest")
	if f.CreateContestFunc != nil {
		return f.CreateContestFunc(ctx, db, contest)
	}
	return nil
}

func (f *FakeCompetitorRepository) GetContest(ctx context.Context, db bun.IDB, id types.ContestID) (*competitordb.Contest, error) {
	f.record("GetContest")
	if f.GetContestFunc != nil {
		return f.GetContestFunc(ctx, db, id)
	}
	return nil, competitordb.ErrContestNotFound
}

func (f *FakeCompetitorRepository) UpdateContest(ctx context.Context, db bun.IDB, contest *competitordb.Contest) error {
	f.record("UpdateContest")
	f.UpdatedContests = append(f.UpdatedContests, contest)
	if f.UpdateContestFunc != nil {
		return f.UpdateContestFunc(ctx, db, contest)
	}
	return nil
}

func (f *FakeCompetitorRepository) ListNumberedContests(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Contest, error) {
	f.record("ListNumberedContests")
	if f.ListNumberedContestsFunc != nil {
		return f.ListNumberedContestsFunc(ctx, db, sessionID)
	}
	return nil, nil
}

func (f *FakeCompetitorRepository) ListManualContestsMissingResolution(ctx context.Context, db bun.IDB, sessionID types.SessionID, roundNum int) ([]competitordb.Contest, error) {
	f.record("ListManualContestsMissingResolution")
	if f.ListManualContestsMissingResolutionFunc != nil {
		return f.ListManualContestsMissingResolutionFunc(ctx, db, sessionID, roundNum)
	}
	return nil, nil
}

func (f *FakeCompetitorRepository) CreateCompetitor(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor) error {
	f.record("CreateCompetitor")
	if f.CreateCompetitorFunc != nil {
		return f.CreateCompetitorFunc(ctx, db, competitor)
	}
	return nil
}

func (f *FakeCompetitorRepository) GetCompetitor(ctx context.Context, db bun.IDB, id types.CompetitorID) (*competitordb.Competitor, error) {
	f.record("GetCompetitor")
	if f.GetCompetitorFunc != nil {
		return f.GetCompetitorFunc(ctx, db, id)
	}
	return nil, competitordb.ErrNotFound
}

func (f *FakeCompetitorRepository) ListBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Competitor, error) {
	f.record("ListBySession")
	if f.ListBySessionFunc != nil {
		return f.ListBySessionFunc(ctx, db, sessionID)
	}
	return nil, nil
}

func (f *FakeCompetitorRepository) ListActiveBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Competitor, error) {
	f.record("ListActiveBySession")
	if f.ListActiveBySessionFunc != nil {
		return f.ListActiveBySessionFunc(ctx, db, sessionID)
	}
	return nil, nil
}

func (f *FakeCompetitorRepository) ListRankableBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Competitor, error) {
	f.record("ListRankableBySession")
	if f.ListRankableBySessionFunc != nil {
		return f.ListRankableBySessionFunc(ctx, db, sessionID)
	}
	return nil, nil
}

func (f *FakeCompetitorRepository) ListMultisBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]competitordb.Competitor, error) {
	f.record("ListMultisBySession")
	if f.ListMultisBySessionFunc != nil {
		return f.ListMultisBySessionFunc(ctx, db, sessionID)
	}
	return nil, nil
}

func (f *FakeCompetitorRepository) UpdateCompetitor(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor) error {
	f.record("UpdateCompetitor")
	f.UpdatedCompetitors = append(f.UpdatedCompetitors, competitor)
	if f.UpdateCompetitorFunc != nil {
		return f.UpdateCompetitorFunc(ctx, db, competitor)
	}
	return nil
}

func (f *FakeCompetitorRepository) UpdateStatus(ctx context.Context, db bun.IDB, id types.CompetitorID, status competitordb.CompetitorStatus) error {
	f.record("UpdateStatus")
	f.StatusUpdates[id] = status
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, db, id, status)
	}
	return nil
}

func (f *FakeCompetitorRepository) NullAggregates(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	f.record("NullAggregates")
	if f.NullAggregatesFunc != nil {
		return f.NullAggregatesFunc(ctx, db, sessionID)
	}
	return nil
}

// Ensure the fake actually satisfies the interface.
var _ competitordb.Repository = (*FakeCompetitorRepository)(nil)

// FakeAppearanceSource stubs the appearance aggregates port.
type FakeAppearanceSource struct {
	Aggregates []AppearanceAggregates
	Err        error
}

func (f *FakeAppearanceSource) AggregatesByCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) ([]AppearanceAggregates, error) {
	return f.Aggregates, f.Err
}

var _ AppearanceSource = (*FakeAppearanceSource)(nil)
