package rounddb

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// RoundStatus is the lifecycle state of a round.
type RoundStatus string

const (
	RoundStatusNew      RoundStatus = "NEW"
	RoundStatusBuilt    RoundStatus = "BUILT"
	RoundStatusStarted  RoundStatus = "STARTED"
	RoundStatusVerified RoundStatus = "VERIFIED"
	RoundStatusFinished RoundStatus = "FINISHED"
)

// roundTransitions is the forward transition table. Reset is handled apart:
// it moves any state back to NEW with a cascading delete.
var roundTransitions = map[RoundStatus][]RoundStatus{
	RoundStatusNew:     {RoundStatusBuilt},
	RoundStatusBuilt:   {RoundStatusStarted},
	RoundStatusStarted: {RoundStatusVerified},
	// Verify is re-runnable while corrections come in.
	RoundStatusVerified: {RoundStatusVerified, RoundStatusFinished},
}

// CanTransition reports whether the forward lifecycle permits from -> to.
func (s RoundStatus) CanTransition(to RoundStatus) bool {
	for _, t := range roundTransitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// RoundKind names the bracket stage.
type RoundKind string

const (
	RoundKindFinals   RoundKind = "FINALS"
	RoundKindSemis    RoundKind = "SEMIS"
	RoundKindQuarters RoundKind = "QUARTERS"
)

// Round is one scoring round within a session.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID        types.RoundID   `bun:"id,pk,type:uuid"`
	SessionID types.SessionID `bun:"session_id,notnull,type:uuid"`
	Kind      RoundKind       `bun:"kind,notnull"`
	Num       int             `bun:"num,notnull"`
	Status    RoundStatus     `bun:"status,notnull"`
	// Spots caps advancement; nil means everyone eligible advances.
	Spots *int       `bun:"spots"`
	Date  *time.Time `bun:"date"`
	// Footnotes print on the OSS.
	Footnotes string `bun:"footnotes,nullzero"`
	// Stored references to the rendered standing documents.
	OSSRef *string `bun:"oss_ref"`
	SARef  *string `bun:"sa_ref"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// PanelistKind distinguishes scoring officials from practice judges and
// observers.
type PanelistKind string

const (
	PanelistKindOfficial PanelistKind = "OFFICIAL"
	PanelistKindPractice PanelistKind = "PRACTICE"
	PanelistKindObserver PanelistKind = "OBSERVER"
)

// PanelistCategory is the judging category.
type PanelistCategory string

const (
	PanelistCategoryDRCJ        PanelistCategory = "DRCJ"
	PanelistCategoryCA          PanelistCategory = "CA"
	PanelistCategoryMusic       PanelistCategory = "MUSIC"
	PanelistCategoryPerformance PanelistCategory = "PERFORMANCE"
	PanelistCategorySinging     PanelistCategory = "SINGING"
)

// Weight gives the canonical category ordering used for panel listing and
// numbering.
func (c PanelistCategory) Weight() int {
	switch c {
	case PanelistCategoryDRCJ:
		return 5
	case PanelistCategoryCA:
		return 10
	case PanelistCategoryMusic:
		return 30
	case PanelistCategoryPerformance:
		return 40
	case PanelistCategorySinging:
		return 50
	}
	return 0
}

// Scoring reports whether the category assigns points (above CA).
func (c PanelistCategory) Scoring() bool {
	return c.Weight() > PanelistCategoryCA.Weight()
}

// Panelist is a judge or CA assigned to a round. Officials are numbered 1..49
// at round start, practices from 51; CAs carry no number.
type Panelist struct {
	bun.BaseModel `bun:"table:panelists,alias:p"`

	ID       types.PanelistID `bun:"id,pk,type:uuid"`
	RoundID  types.RoundID    `bun:"round_id,notnull,type:uuid"`
	Kind     PanelistKind     `bun:"kind,notnull"`
	Category PanelistCategory `bun:"category,notnull"`
	Num      *int             `bun:"num"`

	LastName  string `bun:"last_name,notnull"`
	NickName  string `bun:"nick_name,nullzero"`
	FirstName string `bun:"first_name,notnull"`
	Email     string `bun:"email,nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Validate enforces the panel composition rules before a write.
func (p *Panelist) Validate() error {
	if p.Kind == PanelistKindObserver {
		return fmt.Errorf("%w: panel may only contain official and practice panelists", ErrValidation)
	}
	if p.Num != nil && *p.Num >= 50 && p.Kind == PanelistKindOfficial {
		return fmt.Errorf("%w: official num must be less than 50", ErrValidation)
	}
	if p.Num != nil && *p.Num <= 50 && p.Kind == PanelistKindPractice {
		return fmt.Errorf("%w: practice num must be greater than 50", ErrValidation)
	}
	if p.Num != nil && p.Category == PanelistCategoryCA {
		return fmt.Errorf("%w: CAs must not have a num", ErrValidation)
	}
	return nil
}

// Assignment is a judge's active assignment to a convention; round build
// assembles the panel from these.
type Assignment struct {
	bun.BaseModel `bun:"table:assignments,alias:asg"`

	ID           int64              `bun:"id,pk,autoincrement"`
	ConventionID types.ConventionID `bun:"convention_id,notnull,type:uuid"`
	Active       bool               `bun:"active,notnull"`
	Kind         PanelistKind       `bun:"kind,notnull"`
	Category     PanelistCategory   `bun:"category,notnull"`

	LastName  string `bun:"last_name,notnull"`
	NickName  string `bun:"nick_name,nullzero"`
	FirstName string `bun:"first_name,notnull"`
	Email     string `bun:"email,nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Outcome is the award result row for one contest within a round. Name is
// resolved at verification.
type Outcome struct {
	bun.BaseModel `bun:"table:outcomes,alias:o"`

	ID        types.OutcomeID `bun:"id,pk,type:uuid"`
	RoundID   types.RoundID   `bun:"round_id,notnull,type:uuid"`
	ContestID types.ContestID `bun:"contest_id,notnull,type:uuid"`
	Num       int             `bun:"num,notnull"`
	Name      *string         `bun:"name"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Grid is a stage slot for one draw position, linked to the appearance
// occupying it. Slots survive a round reset with the appearance detached.
type Grid struct {
	bun.BaseModel `bun:"table:grids,alias:g"`

	ID           int64               `bun:"id,pk,autoincrement"`
	RoundID      types.RoundID       `bun:"round_id,notnull,type:uuid"`
	Num          int                 `bun:"num,notnull"`
	AppearanceID *types.AppearanceID `bun:"appearance_id,type:uuid"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
