package competitordb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// Repository is the persistence contract for conventions, sessions, contests
// and competitors.
type Repository interface {
	CreateConvention(ctx context.Context, db bun.IDB, convention *Convention) error
	CreateSession(ctx context.Context, db bun.IDB, session *Session) error
	GetSession(ctx context.Context, db bun.IDB, id types.SessionID) (*Session, error)
	CreateContest(ctx context.Context, db bun.IDB, contest *Contest) error
	GetContest(ctx context.Context, db bun.IDB, id types.ContestID) (*Contest, error)
	UpdateContest(ctx context.Context, db bun.IDB, contest *Contest) error
	// ListNumberedContests returns the session's contests carrying a num,
	// ordered by it; each produces one outcome per round build.
	ListNumberedContests(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Contest, error)
	// ListManualContestsMissingResolution returns manual-level contests
	// awarded at the given round without a per-group resolution. A non-empty
	// result blocks round finish.
	ListManualContestsMissingResolution(ctx context.Context, db bun.IDB, sessionID types.SessionID, roundNum int) ([]Contest, error)

	CreateCompetitor(ctx context.Context, db bun.IDB, competitor *Competitor) error
	GetCompetitor(ctx context.Context, db bun.IDB, id types.CompetitorID) (*Competitor, error)
	// ListBySession returns every competitor of the session regardless of
	// status, ordered by group name.
	ListBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Competitor, error)
	// ListActiveBySession returns competitors with active status, ordered by
	// group name.
	ListActiveBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Competitor, error)
	// ListRankableBySession returns active, non-private competitors.
	ListRankableBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Competitor, error)
	// ListMultisBySession returns active multi-round competitors.
	ListMultisBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Competitor, error)
	UpdateCompetitor(ctx context.Context, db bun.IDB, competitor *Competitor) error
	UpdateStatus(ctx context.Context, db bun.IDB, id types.CompetitorID, status CompetitorStatus) error
	// NullAggregates clears every derived field for the session's active
	// competitors; used by round reset.
	NullAggregates(ctx context.Context, db bun.IDB, sessionID types.SessionID) error
}
