package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// RoundDBImpl is the concrete implementation of the Repository interface using bun.
type RoundDBImpl struct{}

var _ Repository = (*RoundDBImpl)(nil)

// CreateRound inserts a new round.
func (r *RoundDBImpl) CreateRound(ctx context.Context, db bun.IDB, round *Round) error {
	if _, err := db.NewInsert().Model(round).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetRound retrieves a specific round by ID.
func (r *RoundDBImpl) GetRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (*Round, error) {
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("id = ?", roundID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch round: %w", err)
	}
	return round, nil
}

// UpdateRound persists the full round row.
func (r *RoundDBImpl) UpdateRound(ctx context.Context, db bun.IDB, round *Round) error {
	res, err := db.NewUpdate().
		Model(round).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPriorRound returns the previous round of the sequence in the same
// session, or ErrNotFound when this is the session's first round.
func (r *RoundDBImpl) GetPriorRound(ctx context.Context, db bun.IDB, round *Round) (*Round, error) {
	prior := new(Round)
	err := db.NewSelect().
		Model(prior).
		Where("session_id = ?", round.SessionID).
		Where("num = ?", round.Num-1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prior round: %w", err)
	}
	return prior, nil
}

// ListRoundsBySession returns the session's rounds ordered from earliest to
// latest.
func (r *RoundDBImpl) ListRoundsBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]*Round, error) {
	var rounds []*Round
	err := db.NewSelect().
		Model(&rounds).
		Where("session_id = ?", sessionID).
		Order("num").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

// ListAssignmentsForPanel returns the convention's active official and
// practice assignments in panel numbering order.
func (r *RoundDBImpl) ListAssignmentsForPanel(ctx context.Context, db bun.IDB, conventionID types.ConventionID) ([]*Assignment, error) {
	var assignments []*Assignment
	err := db.NewSelect().
		Model(&assignments).
		Where("convention_id = ?", conventionID).
		Where("active = TRUE").
		Where("kind IN (?)", bun.In([]PanelistKind{PanelistKindOfficial, PanelistKindPractice})).
		// DRCJs administer the convention; only CA and scoring categories
		// sit on a round panel.
		Where("category <> ?", PanelistCategoryDRCJ).
		Order("last_name", "nick_name", "first_name").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	// Category order follows judging weight, not the lexical column order.
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Kind != b.Kind {
			return a.Kind == PanelistKindOfficial
		}
		return a.Category.Weight() < b.Category.Weight()
	})
	return assignments, nil
}

// CreateAssignment inserts a convention panel assignment.
func (r *RoundDBImpl) CreateAssignment(ctx context.Context, db bun.IDB, assignment *Assignment) error {
	if _, err := db.NewInsert().Model(assignment).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// CreatePanelist inserts a round panelist after validating it.
func (r *RoundDBImpl) CreatePanelist(ctx context.Context, db bun.IDB, panelist *Panelist) error {
	if err := panelist.Validate(); err != nil {
		return err
	}
	if _, err := db.NewInsert().Model(panelist).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create panelist: %w", err)
	}
	return nil
}

// ListPanelists returns all panelists for a round ordered by num with
// unnumbered panelists last.
func (r *RoundDBImpl) ListPanelists(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*Panelist, error) {
	var panelists []*Panelist
	err := db.NewSelect().
		Model(&panelists).
		Where("round_id = ?", roundID).
		OrderExpr("num ASC NULLS LAST").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list panelists: %w", err)
	}
	return panelists, nil
}

// ListScoringPanelists returns the round's panelists in scoring categories
// ordered by num.
func (r *RoundDBImpl) ListScoringPanelists(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*Panelist, error) {
	var panelists []*Panelist
	err := db.NewSelect().
		Model(&panelists).
		Where("round_id = ?", roundID).
		Where("category IN (?)", bun.In([]PanelistCategory{
			PanelistCategoryMusic, PanelistCategoryPerformance, PanelistCategorySinging,
		})).
		OrderExpr("num ASC NULLS LAST").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scoring panelists: %w", err)
	}
	return panelists, nil
}

// UpdatePanelistNum sets or clears a panelist's panel number.
func (r *RoundDBImpl) UpdatePanelistNum(ctx context.Context, db bun.IDB, panelistID types.PanelistID, num *int) error {
	res, err := db.NewUpdate().
		Model((*Panelist)(nil)).
		Set("num = ?", num).
		Where("id = ?", panelistID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update panelist num: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePanelistsByRound removes every panelist attached to the round.
func (r *RoundDBImpl) DeletePanelistsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	_, err := db.NewDelete().
		Model((*Panelist)(nil)).
		Where("round_id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete panelists: %w", err)
	}
	return nil
}

// CreateOutcome inserts a round outcome.
func (r *RoundDBImpl) CreateOutcome(ctx context.Context, db bun.IDB, outcome *Outcome) error {
	if _, err := db.NewInsert().Model(outcome).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create outcome: %w", err)
	}
	return nil
}

// ListOutcomes returns the round's outcomes ordered by num.
func (r *RoundDBImpl) ListOutcomes(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*Outcome, error) {
	var outcomes []*Outcome
	err := db.NewSelect().
		Model(&outcomes).
		Where("round_id = ?", roundID).
		Order("num").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	return outcomes, nil
}

// UpdateOutcomeName sets the resolved winner name on an outcome.
func (r *RoundDBImpl) UpdateOutcomeName(ctx context.Context, db bun.IDB, outcomeID types.OutcomeID, name *string) error {
	res, err := db.NewUpdate().
		Model((*Outcome)(nil)).
		Set("name = ?", name).
		Where("id = ?", outcomeID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update outcome name: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrOutcomeNotFound
	}
	return nil
}

// DeleteOutcomesByRound removes every outcome attached to the round.
func (r *RoundDBImpl) DeleteOutcomesByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	_, err := db.NewDelete().
		Model((*Outcome)(nil)).
		Where("round_id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete outcomes: %w", err)
	}
	return nil
}

// UpsertGridSlot inserts a grid slot or repoints an existing one at the same
// (round_id, num) to a new appearance.
func (r *RoundDBImpl) UpsertGridSlot(ctx context.Context, db bun.IDB, grid *Grid) error {
	_, err := db.NewInsert().
		Model(grid).
		On("CONFLICT (round_id, num) DO UPDATE").
		Set("appearance_id = EXCLUDED.appearance_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert grid slot: %w", err)
	}
	return nil
}

// DetachGridByRound clears appearance references from the round's grid slots
// without deleting the slots themselves.
func (r *RoundDBImpl) DetachGridByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	_, err := db.NewUpdate().
		Model((*Grid)(nil)).
		Set("appearance_id = NULL").
		Where("round_id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to detach grid: %w", err)
	}
	return nil
}
