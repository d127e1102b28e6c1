package roundservice

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

func TestRoundService_VerifyRound_Advancement(t *testing.T) {
	ctx := context.Background()
	roundID := types.NewRoundID()
	sessionID := types.NewSessionID()

	pool := tenMultis()
	spots := 5

	repo := NewFakeRoundRepository()
	repo.GetRoundFunc = func(context.Context, bun.IDB, types.RoundID) (*rounddb.Round, error) {
		return &rounddb.Round{ID: roundID, SessionID: sessionID, Kind: rounddb.RoundKindQuarters, Num: 1, Spots: &spots, Status: rounddb.RoundStatusStarted}, nil
	}

	apps := NewFakeAppearanceDirector()
	comps := NewFakeCompetitorDirector()
	comps.Session = SessionInfo{ID: sessionID, NumRounds: 3}
	comps.Pool = pool
	comps.Entrants = pool

	svc := newTestService(repo, apps, comps, &FakeJobEnqueuer{})

	result, err := svc.VerifyRound(ctx, roundID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %+v", result.Failure)
	}

	verified := *result.Success
	if verified.Advancers != 5 {
		t.Fatalf("expected 5 advancers, got %d", verified.Advancers)
	}
	if verified.Alternate == nil {
		t.Fatal("expected an alternate")
	}

	// Ranks are recomputed before any draw is written.
	sawRank := false
	for _, step := range apps.Trace() {
		switch step {
		case "RankForRound":
			sawRank = true
		case "AssignDraw":
			if !sawRank {
				t.Fatal("draw assigned before ranking")
			}
		}
	}
	if !sawRank {
		t.Fatal("appearances not ranked")
	}

	// Advancer draws form a permutation of 1..5; the alternate holds 0.
	seen := map[int]bool{}
	for _, id := range pool[:5] {
		draw := apps.Draws[id.CompetitorID]
		if draw == nil {
			t.Fatalf("advancer %s without draw", id.GroupName)
		}
		if *draw < 1 || *draw > 5 || seen[*draw] {
			t.Fatalf("draw %d is not part of a clean permutation", *draw)
		}
		seen[*draw] = true
	}
	if draw := apps.Draws[*verified.Alternate]; draw == nil || *draw != 0 {
		t.Error("alternate must hold the draw-0 sentinel")
	}

	if len(repo.UpdatedRounds) != 1 || repo.UpdatedRounds[0].Status != rounddb.RoundStatusVerified {
		t.Error("round not moved to VERIFIED")
	}
}

func TestRoundService_VerifyRound_UnsettledBlocks(t *testing.T) {
	ctx := context.Background()
	roundID := types.NewRoundID()

	repo := NewFakeRoundRepository()
	repo.GetRoundFunc = func(context.Context, bun.IDB, types.RoundID) (*rounddb.Round, error) {
		return &rounddb.Round{ID: roundID, SessionID: types.NewSessionID(), Kind: rounddb.RoundKindQuarters, Num: 1, Status: rounddb.RoundStatusStarted}, nil
	}
	apps := NewFakeAppearanceDirector()
	apps.CountUnsettledForRoundFunc = func(context.Context, bun.IDB, types.RoundID) (int, error) {
		return 2, nil
	}
	svc := newTestService(repo, apps, NewFakeCompetitorDirector(), &FakeJobEnqueuer{})

	result, err := svc.VerifyRound(ctx, roundID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsFailure() {
		t.Fatal("expected failure while appearances are pending")
	}
	for _, step := range apps.Trace() {
		if step == "RankForRound" || step == "AssignDraw" {
			t.Fatalf("blocked verify must not %s", step)
		}
	}
	if len(repo.UpdatedRounds) != 0 {
		t.Error("blocked verify must not write the round")
	}
}

func TestRoundService_VerifyRound_Finals(t *testing.T) {
	ctx := context.Background()
	roundID := types.NewRoundID()
	sessionID := types.NewSessionID()

	champion := Entrant{CompetitorID: types.NewCompetitorID(), GroupName: "Ringmasters", Active: true, TotRank: intPtr(1)}
	runnerUp := Entrant{CompetitorID: types.NewCompetitorID(), GroupName: "Quorum", Active: true, TotRank: intPtr(2)}

	contest := ContestInfo{ID: types.NewContestID(), Num: 1, AwardName: "International Quartet", Level: ContestLevelChampionship, AwardRound: 3}
	outcome := &rounddb.Outcome{ID: types.NewOutcomeID(), RoundID: roundID, ContestID: contest.ID, Num: 1}

	repo := NewFakeRoundRepository()
	repo.GetRoundFunc = func(context.Context, bun.IDB, types.RoundID) (*rounddb.Round, error) {
		return &rounddb.Round{ID: roundID, SessionID: sessionID, Kind: rounddb.RoundKindFinals, Num: 3, Status: rounddb.RoundStatusStarted}, nil
	}
	repo.ListOutcomesFunc = func(context.Context, bun.IDB, types.RoundID) ([]*rounddb.Outcome, error) {
		return []*rounddb.Outcome{outcome}, nil
	}

	apps := NewFakeAppearanceDirector()
	comps := NewFakeCompetitorDirector()
	comps.Session = SessionInfo{ID: sessionID, NumRounds: 3}
	comps.Entrants = []Entrant{runnerUp, champion}
	comps.Contests = []ContestInfo{contest}

	svc := newTestService(repo, apps, comps, &FakeJobEnqueuer{})

	result, err := svc.VerifyRound(ctx, roundID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %+v", result.Failure)
	}

	// Finals never advance anyone.
	if result.Success.Advancers != 0 || result.Success.Alternate != nil {
		t.Error("finals must not select advancers")
	}
	if len(apps.Draws) != 0 {
		t.Error("finals must not assign draws")
	}

	name := repo.OutcomeNames[outcome.ID]
	if name == nil || *name != "Ringmasters" {
		t.Errorf("expected champion name on the outcome, got %v", name)
	}
}

func TestRoundService_VerifyRound_QualifierOutcome(t *testing.T) {
	ctx := context.Background()
	roundID := types.NewRoundID()
	sessionID := types.NewSessionID()

	pool := tenMultis()
	spots := 2
	contest := ContestInfo{ID: types.NewContestID(), Num: 1, AwardName: "District Qualifier", Level: ContestLevelQualifier, AwardRound: 1}
	outcome := &rounddb.Outcome{ID: types.NewOutcomeID(), RoundID: roundID, ContestID: contest.ID, Num: 1}

	repo := NewFakeRoundRepository()
	repo.GetRoundFunc = func(context.Context, bun.IDB, types.RoundID) (*rounddb.Round, error) {
		return &rounddb.Round{ID: roundID, SessionID: sessionID, Kind: rounddb.RoundKindSemis, Num: 2, Spots: &spots, Status: rounddb.RoundStatusStarted}, nil
	}
	repo.ListOutcomesFunc = func(context.Context, bun.IDB, types.RoundID) ([]*rounddb.Outcome, error) {
		return []*rounddb.Outcome{outcome}, nil
	}

	apps := NewFakeAppearanceDirector()
	// Outcome resolution reads the draws back from the round's appearances.
	apps.ListForRoundFunc = func(context.Context, bun.IDB, types.RoundID) ([]RoundAppearance, error) {
		var out []RoundAppearance
		for _, e := range pool {
			out = append(out, RoundAppearance{
				ID:           types.NewAppearanceID(),
				CompetitorID: e.CompetitorID,
				Draw:         apps.Draws[e.CompetitorID],
			})
		}
		return out, nil
	}

	comps := NewFakeCompetitorDirector()
	comps.Session = SessionInfo{ID: sessionID, NumRounds: 3}
	comps.Pool = pool
	comps.Entrants = pool
	comps.Contests = []ContestInfo{contest}

	svc := newTestService(repo, apps, comps, &FakeJobEnqueuer{})

	result, err := svc.VerifyRound(ctx, roundID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %+v", result.Failure)
	}

	// Scores 80, 78, 76, 74 all qualify automatically over the quota of 2.
	name := repo.OutcomeNames[outcome.ID]
	if name == nil {
		t.Fatal("qualifier outcome left unresolved")
	}
	want := "Group 00, Group 01, Group 02, Group 03"
	if *name != want {
		t.Errorf("expected %q, got %q", want, *name)
	}
}

func TestRoundService_VerifyRound_Rerunnable(t *testing.T) {
	ctx := context.Background()
	roundID := types.NewRoundID()
	sessionID := types.NewSessionID()

	pool := tenMultis()
	spots := 5

	repo := NewFakeRoundRepository()
	repo.GetRoundFunc = func(context.Context, bun.IDB, types.RoundID) (*rounddb.Round, error) {
		return &rounddb.Round{ID: roundID, SessionID: sessionID, Kind: rounddb.RoundKindQuarters, Num: 1, Spots: &spots, Status: rounddb.RoundStatusVerified}, nil
	}
	apps := NewFakeAppearanceDirector()
	comps := NewFakeCompetitorDirector()
	comps.Session = SessionInfo{ID: sessionID, NumRounds: 3}
	comps.Pool = pool
	comps.Entrants = pool

	svc := newTestService(repo, apps, comps, &FakeJobEnqueuer{})

	result, err := svc.VerifyRound(ctx, roundID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected re-run to succeed, got %+v", result.Failure)
	}

	// Old draws are cleared before the re-assignment.
	cleared := false
	for _, step := range apps.Trace() {
		switch step {
		case "ResetDrawsForRound":
			cleared = true
		case "AssignDraw":
			if !cleared {
				t.Fatal("draws reassigned without clearing first")
			}
		}
	}
	if !cleared {
		t.Fatal("stale draws not cleared on re-run")
	}
}
