package competitordb

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// Convention is the top-level event. Immutable once scheduled except
// administrative edits.
type Convention struct {
	bun.BaseModel `bun:"table:conventions,alias:cv"`

	ID     types.ConventionID `bun:"id,pk,type:uuid"`
	Name   string             `bun:"name,notnull"`
	Year   int                `bun:"year,notnull"`
	Season string             `bun:"season,nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// SessionKind is the competition kind of a session.
type SessionKind string

const (
	SessionKindQuartet SessionKind = "QUARTET"
	SessionKindChorus  SessionKind = "CHORUS"
)

// Session is one competition session within a convention. TargetID points at
// the session a multi-round series feeds into, when one exists.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID           types.SessionID    `bun:"id,pk,type:uuid"`
	ConventionID types.ConventionID `bun:"convention_id,notnull,type:uuid"`
	Kind         SessionKind        `bun:"kind,notnull"`
	TargetID     *types.SessionID   `bun:"target_id,type:uuid"`
	NumRounds    int                `bun:"num_rounds,notnull"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// AwardLevel distinguishes automatically resolved awards from those requiring
// manual per-group finalization.
type AwardLevel string

const (
	AwardLevelChampionship AwardLevel = "CHAMPIONSHIP"
	AwardLevelQualifier    AwardLevel = "QUALIFIER"
	AwardLevelManual       AwardLevel = "MANUAL"
)

// Contest is one award competed for within a session. Numbered contests get
// one Outcome per round build.
type Contest struct {
	bun.BaseModel `bun:"table:contests,alias:ct"`

	ID        types.ContestID `bun:"id,pk,type:uuid"`
	SessionID types.SessionID `bun:"session_id,notnull,type:uuid"`
	Num       *int            `bun:"num"`
	AwardName string          `bun:"award_name,notnull"`
	Level     AwardLevel      `bun:"level,notnull"`
	// AwardRound is the round number at which the award resolves.
	AwardRound int `bun:"award_round,notnull"`
	// GroupName carries the manual per-group resolution when set.
	GroupName *string `bun:"group_name"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// CompetitorStatus is the lifecycle state of a competitor within a session.
type CompetitorStatus string

const (
	CompetitorStatusNew       CompetitorStatus = "NEW"
	CompetitorStatusStarted   CompetitorStatus = "STARTED"
	CompetitorStatusFinished  CompetitorStatus = "FINISHED"
	CompetitorStatusScratched CompetitorStatus = "SCRATCHED"
)

// Active reports whether the competitor participates in scoring.
func (s CompetitorStatus) Active() bool {
	return s == CompetitorStatusStarted
}

// Competitor is a group's participation within one session. Aggregate fields
// roll up that competitor's appearances and are nullable: nil means not yet
// computable.
type Competitor struct {
	bun.BaseModel `bun:"table:competitors,alias:c"`

	ID        types.CompetitorID `bun:"id,pk,type:uuid"`
	SessionID types.SessionID    `bun:"session_id,notnull,type:uuid"`
	GroupName string             `bun:"group_name,notnull"`
	Status    CompetitorStatus   `bun:"status,notnull"`
	// IsPrivate excludes the competitor from published rankings (eval-only).
	IsPrivate bool `bun:"is_private,notnull"`
	// IsMulti marks competitors entered across the multi-round series.
	IsMulti bool `bun:"is_multi,notnull"`
	// EntryDraw is the stage order drawn at entry, used for round one.
	EntryDraw *int `bun:"entry_draw"`

	MusPoints *int `bun:"mus_points"`
	PerPoints *int `bun:"per_points"`
	SngPoints *int `bun:"sng_points"`
	TotPoints *int `bun:"tot_points"`

	MusScore *float64 `bun:"mus_score"`
	PerScore *float64 `bun:"per_score"`
	SngScore *float64 `bun:"sng_score"`
	TotScore *float64 `bun:"tot_score"`

	MusRank *int `bun:"mus_rank"`
	PerRank *int `bun:"per_rank"`
	SngRank *int `bun:"sng_rank"`
	TotRank *int `bun:"tot_rank"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
