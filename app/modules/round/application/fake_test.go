package roundservice

import (
	"context"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// FakeRoundRepository provides a programmable stub for the rounddb.Repository
// interface.
type FakeRoundRepository struct {
	trace []string

	CreateRoundFunc             func(ctx context.Context, db bun.IDB, round *rounddb.Round) error
	GetRoundFunc                func(ctx context.Context, db bun.IDB, roundID types.RoundID) (*rounddb.Round, error)
	UpdateRoundFunc             func(ctx context.Context, db bun.IDB, round *rounddb.Round) error
	GetPriorRoundFunc           func(ctx context.Context, db bun.IDB, round *rounddb.Round) (*rounddb.Round, error)
	ListRoundsBySessionFunc     func(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]*rounddb.Round, error)
	ListAssignmentsForPanelFunc func(ctx context.Context, db bun.IDB, conventionID types.ConventionID) ([]*rounddb.Assignment, error)
	CreateAssignmentFunc        func(ctx context.Context, db bun.IDB, assignment *rounddb.Assignment) error
	CreatePanelistFunc          func(ctx context.Context, db bun.IDB, panelist *rounddb.Panelist) error
	ListPanelistsFunc           func(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*rounddb.Panelist, error)
	ListScoringPanelistsFunc    func(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*rounddb.Panelist, error)
	UpdatePanelistNumFunc       func(ctx context.Context, db bun.IDB, panelistID types.PanelistID, num *int) error
	DeletePanelistsByRoundFunc  func(ctx context.Context, db bun.IDB, roundID types.RoundID) error
	CreateOutcomeFunc           func(ctx context.Context, db bun.IDB, outcome *rounddb.Outcome) error
	ListOutcomesFunc            func(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*rounddb.Outcome, error)
	UpdateOutcomeNameFunc       func(ctx context.Context, db bun.IDB, outcomeID types.OutcomeID, name *string) error
	DeleteOutcomesByRoundFunc   func(ctx context.Context, db bun.IDB, roundID types.RoundID) error
	UpsertGridSlotFunc          func(ctx context.Context, db bun.IDB, grid *rounddb.Grid) error
	DetachGridByRoundFunc       func(ctx context.Context, db bun.IDB, roundID types.RoundID) error

	UpdatedRounds    []*rounddb.Round
	CreatedPanelists []*rounddb.Panelist
	CreatedOutcomes  []*rounddb.Outcome
	UpsertedGrids    []*rounddb.Grid
	// PanelistNums captures numbering writes keyed by panelist.
	PanelistNums map[types.PanelistID]*int
	// OutcomeNames captures resolution writes keyed by outcome.
	OutcomeNames map[types.OutcomeID]*string
}

func NewFakeRoundRepository() *FakeRoundRepository {
	return &FakeRoundRepository{
		trace:        []string{},
		PanelistNums: map[types.PanelistID]*int{},
		OutcomeNames: map[types.OutcomeID]*string{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRoundRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRoundRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundRepository) CreateRound(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeRoundRepository) GetRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (*rounddb.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepository) UpdateRound(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	f.record("UpdateRound")
	f.UpdatedRounds = append(f.UpdatedRounds, round)
	if f.UpdateRoundFunc != nil {
		return f.UpdateRoundFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeRoundRepository) GetPriorRound(ctx context.Context, db bun.IDB, round *rounddb.Round) (*rounddb.Round, error) {
	f.record("GetPriorRound")
	if f.GetPriorRoundFunc != nil {
		return f.GetPriorRoundFunc(ctx, db, round)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepository) ListRoundsBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]*rounddb.Round, error) {
	f.record("ListRoundsBySession")
	if f.ListRoundsBySessionFunc != nil {
		return f.ListRoundsBySessionFunc(ctx, db, sessionID)
	}
	return nil, nil
}

func (f *FakeRoundRepository) ListAssignmentsForPanel(ctx context.Context, db bun.IDB, conventionID types.ConventionID) ([]*rounddb.Assignment, error) {
	f.record("ListAssignmentsForPanel")
	if f.ListAssignmentsForPanelFunc != nil {
		return f.ListAssignmentsForPanelFunc(ctx, db, conventionID)
	}
	return nil, nil
}

func (f *FakeRoundRepository) CreateAssignment(ctx context.Context, db bun.IDB, assignment *rounddb.Assignment) error {
	f.record("CreateAssignment")
	if f.CreateAssignmentFunc != nil {
		return f.CreateAssignmentFunc(ctx, db, assignment)
	}
	return nil
}

func (f *FakeRoundRepository) CreatePanelist(ctx context.Context, db bun.IDB, panelist *rounddb.Panelist) error {
	f.record("CreatePanelist")
	f.CreatedPanelists = append(f.CreatedPanelists, panelist)
	if f.CreatePanelistFunc != nil {
		return f.CreatePanelistFunc(ctx, db, panelist)
	}
	return nil
}

func (f *FakeRoundRepository) ListPanelists(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*rounddb.Panelist, error) {
	f.record("ListPanelists")
	if f.ListPanelistsFunc != nil {
		return f.ListPanelistsFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepository) ListScoringPanelists(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*rounddb.Panelist, error) {
	f.record("ListScoringPanelists")
	if f.ListScoringPanelistsFunc != nil {
		return f.ListScoringPanelistsFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepository) UpdatePanelistNum(ctx context.Context, db bun.IDB, panelistID types.PanelistID, num *int) error {
	f.record("UpdatePanelistNum")
	f.PanelistNums[panelistID] = num
	if f.UpdatePanelistNumFunc != nil {
		return f.UpdatePanelistNumFunc(ctx, db, panelistID, num)
	}
	return nil
}

func (f *FakeRoundRepository) DeletePanelistsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	f.record("DeletePanelistsByRound")
	if f.DeletePanelistsByRoundFunc != nil {
		return f.DeletePanelistsByRoundFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeRoundRepository) CreateOutcome(ctx context.Context, db bun.IDB, outcome *rounddb.Outcome) error {
	f.record("CreateOutcome")
	f.CreatedOutcomes = append(f.CreatedOutcomes, outcome)
	if f.CreateOutcomeFunc != nil {
		return f.CreateOutcomeFunc(ctx, db, outcome)
	}
	return nil
}

func (f *FakeRoundRepository) ListOutcomes(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*rounddb.Outcome, error) {
	f.record("ListOutcomes")
	if f.ListOutcomesFunc != nil {
		return f.ListOutcomesFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepository) UpdateOutcomeName(ctx context.Context, db bun.IDB, outcomeID types.OutcomeID, name *string) error {
	f.record("UpdateOutcomeName")
	f.OutcomeNames[outcomeID] = name
	if f.UpdateOutcomeNameFunc != nil {
		return f.UpdateOutcomeNameFunc(ctx, db, outcomeID, name)
	}
	return nil
}

func (f *FakeRoundRepository) DeleteOutcomesByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	f.record("DeleteOutcomesByRound")
	if f.DeleteOutcomesByRoundFunc != nil {
		return f.DeleteOutcomesByRoundFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeRoundRepository) UpsertGridSlot(ctx context.Context, db bun.IDB, grid *rounddb.Grid) error {
	f.record("UpsertGridSlot")
	f.UpsertedGrids = append(f.UpsertedGrids, grid)
	if f.UpsertGridSlotFunc != nil {
		return f.UpsertGridSlotFunc(ctx, db, grid)
	}
	return nil
}

func (f *FakeRoundRepository) DetachGridByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	f.record("DetachGridByRound")
	if f.DetachGridByRoundFunc != nil {
		return f.DetachGridByRoundFunc(ctx, db, roundID)
	}
	return nil
}

// FakeAppearanceDirector provides a programmable stub for the
// AppearanceDirector port.
type FakeAppearanceDirector struct {
	trace []string

	CreateForRoundFunc         func(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, num *int) (types.AppearanceID, error)
	BuildForRoundFunc          func(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error
	IncludeForRoundFunc        func(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error
	ExcludeForRoundFunc        func(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error
	ListForRoundFunc           func(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]RoundAppearance, error)
	CountUnsettledForRoundFunc func(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error)
	RankForRoundFunc           func(ctx context.Context, db bun.IDB, roundID types.RoundID) error
	AssignDrawFunc             func(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, draw *int) error
	ResetDrawsForRoundFunc     func(ctx context.Context, db bun.IDB, roundID types.RoundID) error
	DeleteForRoundFunc         func(ctx context.Context, db bun.IDB, roundID types.RoundID) error

	// Created captures CreateForRound calls in order.
	Created []CreatedAppearance
	Built   []types.AppearanceID
	// Draws captures AssignDraw writes keyed by competitor.
	Draws    map[types.CompetitorID]*int
	Included []types.AppearanceID
	Excluded []types.AppearanceID
}

// CreatedAppearance records one CreateForRound call.
type CreatedAppearance struct {
	ID           types.AppearanceID
	RoundID      types.RoundID
	CompetitorID types.CompetitorID
	Num          *int
}

func NewFakeAppearanceDirector() *FakeAppearanceDirector {
	return &FakeAppearanceDirector{
		trace: []string{},
		Draws: map[types.CompetitorID]*int{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeAppearanceDirector) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAppearanceDirector) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAppearanceDirector) CreateForRound(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, num *int) (types.AppearanceID, error) {
	f.record("CreateForRound")
	if f.CreateForRoundFunc != nil {
		return f.CreateForRoundFunc(ctx, db, roundID, competitorID, num)
	}
	id := types.NewAppearanceID()
	f.Created = append(f.Created, CreatedAppearance{ID: id, RoundID: roundID, CompetitorID: competitorID, Num: num})
	return id, nil
}

func (f *FakeAppearanceDirector) BuildForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	f.record("BuildForRound")
	f.Built = append(f.Built, appearanceID)
	if f.BuildForRoundFunc != nil {
		return f.BuildForRoundFunc(ctx, db, appearanceID)
	}
	return nil
}

func (f *FakeAppearanceDirector) IncludeForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	f.record("IncludeForRound")
	f.Included = append(f.Included, appearanceID)
	if f.IncludeForRoundFunc != nil {
		return f.IncludeForRoundFunc(ctx, db, appearanceID)
	}
	return nil
}

func (f *FakeAppearanceDirector) ExcludeForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	f.record("ExcludeForRound")
	f.Excluded = append(f.Excluded, appearanceID)
	if f.ExcludeForRoundFunc != nil {
		return f.ExcludeForRoundFunc(ctx, db, appearanceID)
	}
	return nil
}

func (f *FakeAppearanceDirector) ListForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]RoundAppearance, error) {
	f.record("ListForRound")
	if f.ListForRoundFunc != nil {
		return f.ListForRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeAppearanceDirector) CountUnsettledForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error) {
	f.record("CountUnsettledForRound")
	if f.CountUnsettledForRoundFunc != nil {
		return f.CountUnsettledForRoundFunc(ctx, db, roundID)
	}
	return 0, nil
}

func (f *FakeAppearanceDirector) RankForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	f.record("RankForRound")
	if f.RankForRoundFunc != nil {
		return f.RankForRoundFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeAppearanceDirector) AssignDraw(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, draw *int) error {
	f.record("AssignDraw")
	f.Draws[competitorID] = draw
	if f.AssignDrawFunc != nil {
		return f.AssignDrawFunc(ctx, db, roundID, competitorID, draw)
	}
	return nil
}

func (f *FakeAppearanceDirector) ResetDrawsForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	f.record("ResetDrawsForRound")
	if f.ResetDrawsForRoundFunc != nil {
		return f.ResetDrawsForRoundFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeAppearanceDirector) DeleteForRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	f.record("DeleteForRound")
	if f.DeleteForRoundFunc != nil {
		return f.DeleteForRoundFunc(ctx, db, roundID)
	}
	return nil
}

// FakeCompetitorDirector provides a programmable stub for the
// CompetitorDirector port.
type FakeCompetitorDirector struct {
	trace []string

	Session  SessionInfo
	Entrants []Entrant
	Pool     []Entrant
	Contests []ContestInfo

	SessionErr          error
	CheckContestsErr    error
	StartSessionErr     error
	RankSessionErr      error
	NullAggregatesErr   error
	FinishCompetitorErr error

	Finished []types.CompetitorID
}

func NewFakeCompetitorDirector() *FakeCompetitorDirector {
	return &FakeCompetitorDirector{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeCompetitorDirector) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCompetitorDirector) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeCompetitorDirector) SessionOf(ctx context.Context, db bun.IDB, sessionID types.SessionID) (SessionInfo, error) {
	f.record("SessionOf")
	return f.Session, f.SessionErr
}

func (f *FakeCompetitorDirector) ListEntrants(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Entrant, error) {
	f.record("ListEntrants")
	return f.Entrants, nil
}

func (f *FakeCompetitorDirector) ListAdvancementPool(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]Entrant, error) {
	f.record("ListAdvancementPool")
	return f.Pool, nil
}

func (f *FakeCompetitorDirector) ListNumberedContests(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]ContestInfo, error) {
	f.record("ListNumberedContests")
	return f.Contests, nil
}

func (f *FakeCompetitorDirector) StartSession(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	f.record("StartSession")
	return f.StartSessionErr
}

func (f *FakeCompetitorDirector) FinishCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) error {
	f.record("FinishCompetitor")
	f.Finished = append(f.Finished, competitorID)
	return f.FinishCompetitorErr
}

func (f *FakeCompetitorDirector) RankSession(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	f.record("RankSession")
	return f.RankSessionErr
}

func (f *FakeCompetitorDirector) CheckContestsResolved(ctx context.Context, db bun.IDB, sessionID types.SessionID, roundNum int) error {
	f.record("CheckContestsResolved")
	return f.CheckContestsErr
}

func (f *FakeCompetitorDirector) NullAggregates(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	f.record("NullAggregates")
	return f.NullAggregatesErr
}

// FakeJobEnqueuer captures closing-job enqueues.
type FakeJobEnqueuer struct {
	Standings     []types.RoundID
	Notifications []EnqueuedNotification

	StandingsErr    error
	NotificationErr error
}

// EnqueuedNotification records one EnqueueNotification call.
type EnqueuedNotification struct {
	RoundID    types.RoundID
	Recipients []string
	Subject    string
	Body       string
}

func (f *FakeJobEnqueuer) EnqueueStandings(_ context.Context, roundID types.RoundID) error {
	f.Standings = append(f.Standings, roundID)
	return f.StandingsErr
}

func (f *FakeJobEnqueuer) EnqueueNotification(_ context.Context, roundID types.RoundID, recipients []string, subject, body string) error {
	f.Notifications = append(f.Notifications, EnqueuedNotification{RoundID: roundID, Recipients: recipients, Subject: subject, Body: body})
	return f.NotificationErr
}

var (
	_ rounddb.Repository = (*FakeRoundRepository)(nil)
	_ AppearanceDirector = (*FakeAppearanceDirector)(nil)
	_ CompetitorDirector = (*FakeCompetitorDirector)(nil)
	_ JobEnqueuer        = (*FakeJobEnqueuer)(nil)
)
