package appearancedb

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// AppearanceStatus is the lifecycle state of an appearance.
type AppearanceStatus string

const (
	AppearanceStatusNew       AppearanceStatus = "NEW"
	AppearanceStatusBuilt     AppearanceStatus = "BUILT"
	AppearanceStatusStarted   AppearanceStatus = "STARTED"
	AppearanceStatusFinished  AppearanceStatus = "FINISHED"
	AppearanceStatusConfirmed AppearanceStatus = "CONFIRMED"
	AppearanceStatusIncluded  AppearanceStatus = "INCLUDED"
	AppearanceStatusExcluded  AppearanceStatus = "EXCLUDED"

	// Administrative correction states, reachable from the admin surface
	// rather than the primary lifecycle.
	AppearanceStatusVerified  AppearanceStatus = "VERIFIED"
	AppearanceStatusFlagged   AppearanceStatus = "FLAGGED"
	AppearanceStatusScratched AppearanceStatus = "SCRATCHED"
	AppearanceStatusCleared   AppearanceStatus = "CLEARED"
	AppearanceStatusAnnounced AppearanceStatus = "ANNOUNCED"
	AppearanceStatusArchived  AppearanceStatus = "ARCHIVED"
)

// appearanceTransitions is the closed transition table for the primary
// lifecycle. Confirm is re-entrant so aggregates can be recomputed after a
// score correction.
var appearanceTransitions = map[AppearanceStatus][]AppearanceStatus{
	AppearanceStatusNew:       {AppearanceStatusBuilt},
	AppearanceStatusBuilt:     {AppearanceStatusStarted},
	AppearanceStatusStarted:   {AppearanceStatusFinished},
	AppearanceStatusFinished:  {AppearanceStatusConfirmed},
	AppearanceStatusConfirmed: {AppearanceStatusConfirmed, AppearanceStatusIncluded, AppearanceStatusExcluded, AppearanceStatusVerified},
}

// CanTransition reports whether the primary lifecycle permits from -> to.
func (s AppearanceStatus) CanTransition(to AppearanceStatus) bool {
	for _, t := range appearanceTransitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// SettledForVerification reports whether this appearance no longer blocks its
// round's verify transition.
func (s AppearanceStatus) SettledForVerification() bool {
	switch s {
	case AppearanceStatusConfirmed, AppearanceStatusVerified,
		AppearanceStatusIncluded, AppearanceStatusExcluded,
		AppearanceStatusScratched:
		return true
	}
	return false
}

// Appearance is one competitor's performance in one round. Aggregate fields
// are nullable; nil means "not yet computable", never zero.
type Appearance struct {
	bun.BaseModel `bun:"table:appearances,alias:a"`

	ID           types.AppearanceID `bun:"id,pk,type:uuid"`
	RoundID      types.RoundID      `bun:"round_id,notnull,type:uuid"`
	CompetitorID types.CompetitorID `bun:"competitor_id,notnull,type:uuid"`
	Status       AppearanceStatus   `bun:"status,notnull"`

	// Num is the carried draw from the prior round (or the entry draw for
	// round one). Draw is the advancement position assigned by verify:
	// nil = not drawn, 0 = the move-to-finals alternate.
	Num  *int `bun:"num"`
	Draw *int `bun:"draw"`

	ActualStart  *time.Time `bun:"actual_start"`
	ActualFinish *time.Time `bun:"actual_finish"`

	// VarianceReportRef points at the rendered variance report, when one
	// has been produced for this appearance.
	VarianceReportRef *string `bun:"variance_report_ref"`

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

// SongsPerAppearance is fixed by contest rules.
const SongsPerAppearance = 2

// Song is one of the two pieces performed in an appearance.
type Song struct {
	bun.BaseModel `bun:"table:songs,alias:sg"`

	ID           types.SongID       `bun:"id,pk,type:uuid"`
	AppearanceID types.AppearanceID `bun:"appearance_id,notnull,type:uuid"`
	Num          int                `bun:"num,notnull"`
	ChartTitle   string             `bun:"chart_title,nullzero"`
	Penalties    []string           `bun:"penalties,array"`

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

// ScoreKind mirrors the panelist kind the sentinel was created for.
type ScoreKind string

const (
	ScoreKindOfficial ScoreKind = "OFFICIAL"
	ScoreKindPractice ScoreKind = "PRACTICE"
	ScoreKindObserver ScoreKind = "OBSERVER"
)

// ScoreCategory mirrors the panelist category.
type ScoreCategory string

const (
	ScoreCategoryDRCJ        ScoreCategory = "DRCJ"
	ScoreCategoryCA          ScoreCategory = "CA"
	ScoreCategoryMusic       ScoreCategory = "MUSIC"
	ScoreCategoryPerformance ScoreCategory = "PERFORMANCE"
	ScoreCategorySinging     ScoreCategory = "SINGING"
)

// Scoring categories that carry points.
func (c ScoreCategory) Scored() bool {
	switch c {
	case ScoreCategoryMusic, ScoreCategoryPerformance, ScoreCategorySinging:
		return true
	}
	return false
}

// Score is a single panelist's raw point value for one song. Created as an
// empty sentinel (nil points) when the appearance is built.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:sc"`

	ID         types.ScoreID      `bun:"id,pk,type:uuid"`
	SongID     types.SongID       `bun:"song_id,notnull,type:uuid"`
	PanelistID types.PanelistID   `bun:"panelist_id,notnull,type:uuid"`
	Kind       ScoreKind          `bun:"kind,notnull"`
	Category   ScoreCategory      `bun:"category,notnull"`
	Points     *int             `bun:"points"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
