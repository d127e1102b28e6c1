package roundservice

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// RoundAppearance is the slice of appearance state the round machine needs:
// identity, settlement status and draw.
type RoundAppearance struct {
	ID           types.AppearanceID
	CompetitorID types.CompetitorID
	Status       string
	Num          *int
	Draw         *int
	Settled      bool
}

// AppearanceDirector drives the appearance module on behalf of round
// transitions. Every method participates in the caller's transaction.
type AppearanceDirector interface {
	CreateForRound(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, num *int) (types.AppearanceID, error)
	BuildForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error
	IncludeForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error
	ExcludeForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error
	ListForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]RoundAppearance, error)
	// CountUnsettledForRound counts appearances still blocking verification.
	CountUnsettledForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error)
	// RankForRound recomputes appearance and song competition ranks.
	RankForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error
	// AssignDraw sets the advancement draw on a competitor's appearance in
	// the round; 0 marks the alternate, nil clears.
	AssignDraw(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, draw *int) error
	ResetDrawsForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error
	DeleteForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error
}

// SessionInfo describes the round's parent session.
type SessionInfo struct {
	ID           types.SessionID
	ConventionID types.ConventionID
	NumRounds    int
}

// Entrant is one competitor of the session as the round machine sees it.
// Active means the competitor is still participating (entered or started);
// Scratched means withdrawn.
type Entrant struct {
	CompetitorID types.CompetitorID
	GroupName    string
	Active       bool
	Scratched    bool
	IsMulti      bool
	EntryDraw    *int

	PerPoints *int
	SngPoints *int
	TotPoints *int
	TotScore  *float64
	TotRank   *int
}

// ContestInfo is a numbered contest of the session, the template for one
// outcome per round.
type ContestInfo struct {
	ID         types.ContestID
	Num        int
	AwardName  string
	Level      string
	AwardRound int
	// GroupName carries the manual resolution for manual-level contests.
	GroupName *string
}

// Contest levels as the competitor module stores them.
const (
	ContestLevelChampionship = "CHAMPIONSHIP"
	ContestLevelQualifier    = "QUALIFIER"
	ContestLevelManual       = "MANUAL"
)

// CompetitorDirector drives the competitor module on behalf of round
// transitions. Every method participates in the caller's transaction.
type CompetitorDirector interface {
	SessionOf(ctx context.Context, db bun.IDB, sessionID types.SessionID) (SessionInfo, error)
	// ListEntrants returns every competitor of the session.
	ListEntrants(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Entrant, error)
	// ListAdvancementPool returns the active multi-round competitors
	// eligible for advancement selection.
	ListAdvancementPool(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Entrant, error)
	ListNumberedContests(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]ContestInfo, error)
	StartSession(ctx context.Context, db bun.IDB, sessionID types.SessionID) error
	FinishCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) error
	RankSession(ctx context.Context, db bun.IDB, sessionID types.SessionID) error
	// CheckContestsResolved fails when a manual-level contest awarded at the
	// given round still lacks its per-group resolution. Implementations wrap
	// ErrContestsUnresolved so callers can tell the domain failure from an
	// infrastructure error.
	CheckContestsResolved(ctx context.Context, db bun.IDB, sessionID types.SessionID, roundNum int) error
	NullAggregates(ctx context.Context, db bun.IDB, sessionID types.SessionID) error
}

// JobEnqueuer hands long-running side effects to the job queue. Enqueues run
// after commit and never block the transition that triggered them.
type JobEnqueuer interface {
	EnqueueStandings(ctx context.Context, roundID types.RoundID) error
	EnqueueNotification(ctx context.Context, roundID types.RoundID, recipients []string, subject, body string) error
}
