// Package types holds the identifier and value types shared across modules.
package types

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// ConventionID identifies a convention.
type ConventionID uuid.UUID

func NewConventionID() ConventionID { return ConventionID(uuid.New()) }

func (id ConventionID) String() string { return uuid.UUID(id).String() }

func (id ConventionID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *ConventionID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// SessionID identifies a session within a convention.
type SessionID uuid.UUID

func NewSessionID() SessionID { return SessionID(uuid.New()) }

func (id SessionID) String() string { return uuid.UUID(id).String() }

func (id SessionID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *SessionID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// ContestID identifies an awarded contest within a session.
type ContestID uuid.UUID

func NewContestID() ContestID { return ContestID(uuid.New()) }

func (id ContestID) String() string { return uuid.UUID(id).String() }

func (id ContestID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *ContestID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// RoundID identifies a round within a session.
type RoundID uuid.UUID

func NewRoundID() RoundID { return RoundID(uuid.New()) }

func (id RoundID) String() string { return uuid.UUID(id).String() }

func (id RoundID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *RoundID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// CompetitorID identifies a group's participation in a session.
type CompetitorID uuid.UUID

func NewCompetitorID() CompetitorID { return CompetitorID(uuid.New()) }

func (id CompetitorID) String() string { return uuid.UUID(id).String() }

func (id CompetitorID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *CompetitorID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// AppearanceID identifies one competitor's performance in one round.
type AppearanceID uuid.UUID

func NewAppearanceID() AppearanceID { return AppearanceID(uuid.New()) }

func (id AppearanceID) String() string { return uuid.UUID(id).String() }

func (id AppearanceID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *AppearanceID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// SongID identifies one of the two songs of an appearance.
type SongID uuid.UUID

func NewSongID() SongID { return SongID(uuid.New()) }

func (id SongID) String() string { return uuid.UUID(id).String() }

func (id SongID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *SongID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// ScoreID identifies a single panelist score for a song.
type ScoreID uuid.UUID

func NewScoreID() ScoreID { return ScoreID(uuid.New()) }

func (id ScoreID) String() string { return uuid.UUID(id).String() }

func (id ScoreID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *ScoreID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// PanelistID identifies a judge or CA assigned to a round.
type PanelistID uuid.UUID

func NewPanelistID() PanelistID { return PanelistID(uuid.New()) }

func (id PanelistID) String() string { return uuid.UUID(id).String() }

func (id PanelistID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *PanelistID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }

// OutcomeID identifies an award result row for a round.
type OutcomeID uuid.UUID

func NewOutcomeID() OutcomeID { return OutcomeID(uuid.New()) }

func (id OutcomeID) String() string { return uuid.UUID(id).String() }

func (id OutcomeID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *OutcomeID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }
