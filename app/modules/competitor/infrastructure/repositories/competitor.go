package competitordb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// CompetitorDBImpl implements Repository with bun.
type CompetitorDBImpl struct{}

var _ Repository = (*CompetitorDBImpl)(nil)

func (CompetitorDBImpl) CreateConvention(ctx context.Context, db bun.IDB, convention *Convention) error {
	if _, err := db.NewInsert().Model(convention).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert convention %q: %w", convention.Name, err)
	}
	return nil
}

func (CompetitorDBImpl) CreateSession(ctx context.Context, db bun.IDB, session *Session) error {
	if _, err := db.NewInsert().Model(session).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert session for convention %s: %w", session.ConventionID, err)
	}
	return nil
}

func (CompetitorDBImpl) GetSession(ctx context.Context, db bun.IDB, id types.SessionID) (*Session, error) {
	var session Session
	err := db.NewSelect().
		Model(&session).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}
	return &session, nil
}

func (CompetitorDBImpl) CreateContest(ctx context.Context, db bun.IDB, contest *Contest) error {
	if _, err := db.NewInsert().Model(contest).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert contest %q: %w", contest.AwardName, err)
	}
	return nil
}

func (CompetitorDBImpl) GetContest(ctx context.Context, db bun.IDB, id types.ContestID) (*Contest, error) {
	var contest Contest
	err := db.NewSelect().
		Model(&contest).
		Where("ct.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to fetch contest %s: %w", id, err)
	}
	return &contest, nil
}

func (CompetitorDBImpl) UpdateContest(ctx context.Context, db bun.IDB, contest *Contest) error {
	res, err := db.NewUpdate().
		Model(contest).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update contest %s: %w", contest.ID, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrContestNotFound
	}
	return nil
}

func (CompetitorDBImpl) ListNumberedContests(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Contest, error) {
	var contests []Contest
	err := db.NewSelect().
		Model(&contests).
		Where("ct.session_id = ?", sessionID).
		Where("ct.num IS NOT NULL").
		Order("ct.num ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list numbered contests for session %s: %w", sessionID, err)
	}
	return contests, nil
}

func (CompetitorDBImpl) ListManualContestsMissingResolution(ctx context.Context, db bun.IDB, sessionID types.SessionID, roundNum int) ([]Contest, error) {
	var contests []Contest
	err := db.NewSelect().
		Model(&contests).
		Where("ct.session_id = ?", sessionID).
		Where("ct.level = ?", AwardLevelManual).
		Where("ct.award_round = ?", roundNum).
		Where("ct.group_name IS NULL").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved manual contests for session %s: %w", sessionID, err)
	}
	return contests, nil
}

func (CompetitorDBImpl) CreateCompetitor(ctx context.Context, db bun.IDB, competitor *Competitor) error {
	if _, err := db.NewInsert().Model(competitor).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert competitor %q: %w", competitor.GroupName, err)
	}
	return nil
}

func (CompetitorDBImpl) GetCompetitor(ctx context.Context, db bun.IDB, id types.CompetitorID) (*Competitor, error) {
	var competitor Competitor
	err := db.NewSelect().
		Model(&competitor).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch competitor %s: %w", id, err)
	}
	return &competitor, nil
}

func (CompetitorDBImpl) ListBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Competitor, error) {
	var competitors []Competitor
	err := db.NewSelect().
		Model(&competitors).
		Where("c.session_id = ?", sessionID).
		Order("c.group_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors for session %s: %w", sessionID, err)
	}
	return competitors, nil
}

func (CompetitorDBImpl) ListActiveBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Competitor, error) {
	var competitors []Competitor
	err := db.NewSelect().
		Model(&competitors).
		Where("c.session_id = ?", sessionID).
		Where("c.status = ?", CompetitorStatusStarted).
		Order("c.group_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active competitors for session %s: %w", sessionID, err)
	}
	return competitors, nil
}

func (CompetitorDBImpl) ListRankableBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Competitor, error) {
	var competitors []Competitor
	err := db.NewSelect().
		Model(&competitors).
		Where("c.session_id = ?", sessionID).
		Where("c.status = ?", CompetitorStatusStarted).
		Where("c.is_private = FALSE").
		Order("c.group_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankable competitors for session %s: %w", sessionID, err)
	}
	return competitors, nil
}

func (CompetitorDBImpl) ListMultisBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Competitor, error) {
	var competitors []Competitor
	err := db.NewSelect().
		Model(&competitors).
		Where("c.session_id = ?", sessionID).
		Where("c.status = ?", CompetitorStatusStarted).
		Where("c.is_multi = TRUE").
		Order("c.group_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list multi competitors for session %s: %w", sessionID, err)
	}
	return competitors, nil
}

func (CompetitorDBImpl) UpdateCompetitor(ctx context.Context, db bun.IDB, competitor *Competitor) error {
	res, err := db.NewUpdate().
		Model(competitor).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update competitor %s: %w", competitor.ID, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (CompetitorDBImpl) UpdateStatus(ctx context.Context, db bun.IDB, id types.CompetitorID, status CompetitorStatus) error {
	res, err := db.NewUpdate().
		Model((*Competitor)(nil)).
		Set("status = ?", status).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update status for competitor %s: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (CompetitorDBImpl) NullAggregates(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	_, err := db.NewUpdate().
		Model((*Competitor)(nil)).
		Set("mus_points = NULL").
		Set("per_points = NULL").
		Set("sng_points = NULL").
		Set("tot_points = NULL").
		Set("mus_score = NULL").
		Set("per_score = NULL").
		Set("sng_score = NULL").
		Set("tot_score = NULL").
		Set("mus_rank = NULL").
		Set("per_rank = NULL").
		Set("sng_rank = NULL").
		Set("tot_rank = NULL").
		Set("updated_at = current_timestamp").
		Where("session_id = ?", sessionID).
		Where("status = ?", CompetitorStatusStarted).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to null aggregates for session %s: %w", sessionID, err)
	}
	return nil
}
