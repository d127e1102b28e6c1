// Package adapters wires the modules' outbound ports to their providers.
// Each module declares the interface it consumes; the adapters here translate
// between the providers' types and those interfaces so the modules never
// import each other.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	appearanceservice "github.com/barberscore/scoring-api/app/modules/appearance/application"
	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	competitorservice "github.com/barberscore/scoring-api/app/modules/competitor/application"
	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	roundservice "github.com/barberscore/scoring-api/app/modules/round/application"
	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// PanelProvider serves the appearance module's view of the round panel.
type PanelProvider struct {
	Rounds rounddb.Repository
}

var _ appearanceservice.PanelProvider = (*PanelProvider)(nil)

func (p *PanelProvider) ScoringPanel(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]appearanceservice.Panelist, error) {
	panelists, err := p.Rounds.ListScoringPanelists(ctx, db, roundID)
	if err != nil {
		return nil, err
	}
	out := make([]appearanceservice.Panelist, 0, len(panelists))
	for _, pl := range panelists {
		out = append(out, appearanceservice.Panelist{
			ID:       pl.ID,
			Kind:     string(pl.Kind),
			Category: string(pl.Category),
		})
	}
	return out, nil
}

// OfficialPanelSize reports how many official judges score each category.
// Panels are balanced across categories, so the music bench is the size.
func (p *PanelProvider) OfficialPanelSize(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error) {
	panelists, err := p.Rounds.ListScoringPanelists(ctx, db, roundID)
	if err != nil {
		return 0, err
	}
	size := 0
	for _, pl := range panelists {
		if pl.Kind == rounddb.PanelistKindOfficial && pl.Category == rounddb.PanelistCategoryMusic {
			size++
		}
	}
	return size, nil
}

// AppearanceSource serves the competitor module's view of confirmed
// appearance aggregates.
type AppearanceSource struct {
	Appearances appearancedb.Repository
}

var _ competitorservice.AppearanceSource = (*AppearanceSource)(nil)

func (a *AppearanceSource) AggregatesByCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) ([]competitorservice.AppearanceAggregates, error) {
	appearances, err := a.Appearances.ListByCompetitor(ctx, db, competitorID)
	if err != nil {
		return nil, err
	}
	out := make([]competitorservice.AppearanceAggregates, 0, len(appearances))
	for _, app := range appearances {
		out = append(out, competitorservice.AppearanceAggregates{
			AppearanceID: app.ID,
			RoundID:      app.RoundID,
			MusPoints:    app.MusPoints,
			PerPoints:    app.PerPoints,
			SngPoints:    app.SngPoints,
			TotPoints:    app.TotPoints,
			MusScore:     app.MusScore,
			PerScore:     app.PerScore,
			SngScore:     app.SngScore,
			TotScore:     app.TotScore,
		})
	}
	return out, nil
}

// AppearanceDirector serves the round module's control over appearances.
type AppearanceDirector struct {
	Service     *appearanceservice.AppearanceService
	Appearances appearancedb.Repository
}

var _ roundservice.AppearanceDirector = (*AppearanceDirector)(nil)

func (d *AppearanceDirector) CreateForRound(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, num *int) (types.AppearanceID, error) {
	return d.Service.CreateForRound(ctx, db, roundID, competitorID, num)
}

func (d *AppearanceDirector) BuildForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	return d.Service.BuildForRound(ctx, db, appearanceID)
}

func (d *AppearanceDirector) IncludeForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	return d.Service.IncludeForRound(ctx, db, appearanceID)
}

func (d *AppearanceDirector) ExcludeForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	return d.Service.ExcludeForRound(ctx, db, appearanceID)
}

func (d *AppearanceDirector) ListForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]roundservice.RoundAppearance, error) {
	appearances, err := d.Appearances.ListByRound(ctx, db, roundID)
	if err != nil {
		return nil, err
	}
	out := make([]roundservice.RoundAppearance, 0, len(appearances))
	for _, app := range appearances {
		out = append(out, roundservice.RoundAppearance{
			ID:           app.ID,
			CompetitorID: app.CompetitorID,
			Status:       string(app.Status),
			Num:          app.Num,
			Draw:         app.Draw,
			Settled:      app.Status.SettledForVerification(),
		})
	}
	return out, nil
}

func (d *AppearanceDirector) CountUnsettledForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error) {
	return d.Appearances.CountUnsettledByRound(ctx, db, roundID)
}

func (d *AppearanceDirector) RankForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	return d.Service.RankForRound(ctx, db, roundID)
}

func (d *AppearanceDirector) AssignDraw(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, draw *int) error {
	return d.Service.AssignDraw(ctx, db, roundID, competitorID, draw)
}

func (d *AppearanceDirector) ResetDrawsForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	return d.Appearances.ResetDrawsByRound(ctx, db, roundID)
}

func (d *AppearanceDirector) DeleteForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	return d.Appearances.DeleteByRound(ctx, db, roundID)
}

// CompetitorDirector serves the round module's control over competitors,
// sessions and contests.
type CompetitorDirector struct {
	Service     *competitorservice.CompetitorService
	Competitors competitordb.Repository
}

var _ roundservice.CompetitorDirector = (*CompetitorDirector)(nil)

func (d *CompetitorDirector) SessionOf(ctx context.Context, db bun.IDB, sessionID types.SessionID) (roundservice.SessionInfo, error) {
	session, err := d.Competitors.GetSession(ctx, db, sessionID)
	if err != nil {
		return roundservice.SessionInfo{}, err
	}
	return roundservice.SessionInfo{
		ID:           session.ID,
		ConventionID: session.ConventionID,
		NumRounds:    session.NumRounds,
	}, nil
}

func (d *CompetitorDirector) ListEntrants(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]roundservice.Entrant, error) {
	competitors, err := d.Competitors.ListBySession(ctx, db, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]roundservice.Entrant, 0, len(competitors))
	for _, c := range competitors {
		out = append(out, entrantOf(c))
	}
	return out, nil
}

func (d *CompetitorDirector) ListAdvancementPool(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]roundservice.Entrant, error) {
	competitors, err := d.Competitors.ListMultisBySession(ctx, db, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]roundservice.Entrant, 0, len(competitors))
	for _, c := range competitors {
		out = append(out, entrantOf(c))
	}
	return out, nil
}

func entrantOf(c competitordb.Competitor) roundservice.Entrant {
	return roundservice.Entrant{
		CompetitorID: c.ID,
		GroupName:    c.GroupName,
		// New competitors have entered but not started; both belong on
		// stage when the first round builds.
		Active:    c.Status == competitordb.CompetitorStatusNew || c.Status == competitordb.CompetitorStatusStarted,
		Scratched: c.Status == competitordb.CompetitorStatusScratched,
		IsMulti:   c.IsMulti,
		EntryDraw: c.EntryDraw,
		PerPoints: c.PerPoints,
		SngPoints: c.SngPoints,
		TotPoints: c.TotPoints,
		TotScore:  c.TotScore,
		TotRank:   c.TotRank,
	}
}

func (d *CompetitorDirector) ListNumberedContests(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]roundservice.ContestInfo, error) {
	contests, err := d.Competitors.ListNumberedContests(ctx, db, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]roundservice.ContestInfo, 0, len(contests))
	for _, c := range contests {
		num := 0
		if c.Num != nil {
			num = *c.Num
		}
		out = append(out, roundservice.ContestInfo{
			ID:         c.ID,
			Num:        num,
			AwardName:  c.AwardName,
			Level:      string(c.Level),
			AwardRound: c.AwardRound,
			GroupName:  c.GroupName,
		})
	}
	return out, nil
}

func (d *CompetitorDirector) StartSession(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	return d.Service.StartSession(ctx, db, sessionID)
}

func (d *CompetitorDirector) FinishCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) error {
	return d.Service.FinishCompetitor(ctx, db, competitorID)
}

func (d *CompetitorDirector) RankSession(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	return d.Service.RankSession(ctx, db, sessionID)
}

func (d *CompetitorDirector) CheckContestsResolved(ctx context.Context, db bun.IDB, sessionID types.SessionID, roundNum int) error {
	err := d.Service.CheckContestsResolved(ctx, db, sessionID, roundNum)
	if err == nil {
		return nil
	}
	if errors.Is(err, competitorservice.ErrContestsUnresolved) {
		return fmt.Errorf("%w: %s", roundservice.ErrContestsUnresolved, err)
	}
	return err
}

func (d *CompetitorDirector) NullAggregates(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	return d.Competitors.NullAggregates(ctx, db, sessionID)
}
