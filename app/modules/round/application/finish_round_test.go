package roundservice

import (
	"context"
	"fmt"
	"testing"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

func TestRoundService_FinishRound(t *testing.T) {
	ctx := context.Background()
	roundID := types.NewRoundID()
	sessionID := types.NewSessionID()

	advancer := Entrant{CompetitorID: types.NewCompetitorID(), GroupName: "Alpha", Active: true}
	eliminated := Entrant{CompetitorID: types.NewCompetitorID(), GroupName: "Bravo", Active: true}
	scratched := Entrant{CompetitorID: types.NewCompetitorID(), GroupName: "Charlie", Scratched: true}

	advApp := RoundAppearance{ID: types.NewAppearanceID(), CompetitorID: advancer.CompetitorID, Draw: intPtr(2), Settled: true}
	elimApp := RoundAppearance{ID: types.NewAppearanceID(), CompetitorID: eliminated.CompetitorID, Settled: true}
	scratchApp := RoundAppearance{ID: types.NewAppearanceID(), CompetitorID: scratched.CompetitorID, Settled: true}

	repo := NewFakeRoundRepository()
	repo.GetRoundFunc = func(context.Context, bun.IDB, types.RoundID) (*rounddb.Round, error) {
		return &rounddb.Round{ID: roundID, SessionID: sessionID, Kind: rounddb.RoundKindQuarters, Num: 1, Status: rounddb.RoundStatusVerified}, nil
	}

	apps := NewFakeAppearanceDirector()
	apps.ListForRoundFunc = func(context.Context, bun.IDB, types.RoundID) ([]RoundAppearance, error) {
		return []RoundAppearance{advApp, elimApp, scratchApp}, nil
	}

	comps := NewFakeCompetitorDirector()
	comps.Entrants = []Entrant{advancer, eliminated, scratched}

	queue := &FakeJobEnqueuer{}
	svc := newTestService(repo, apps, comps, queue)

	result, err := svc.FinishRound(ctx, roundID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %+v", result.Failure)
	}

	// Confirmed appearances count toward standings, except the scratch.
	if len(apps.Included) != 2 {
		t.Errorf("expected 2 included appearances, got %d", len(apps.Included))
	}
	if len(apps.Excluded) != 1 || apps.Excluded[0] != scratchApp.ID {
		t.Error("scratched competitor's appearance must be excluded")
	}

	// Only the active non-advancer finishes; the advancer plays on and the
	// scratch already left the lifecycle.
	if len(comps.Finished) != 1 || comps.Finished[0] != eliminated.CompetitorID {
		t.Errorf("expected only %s finished, got %v", eliminated.GroupName, comps.Finished)
	}

	// Closing documents and the staff notification go to the queue.
	if len(queue.Standings) != 1 || queue.Standings[0] != roundID {
		t.Error("standings not enqueued")
	}
	if len(queue.Notifications) != 1 {
		t.Fatal("notification not enqueued")
	}
	if got := queue.Notifications[0].Recipients; len(got) != 1 || got[0] != "scoring@example.com" {
		t.Errorf("unexpected recipients: %v", got)
	}

	if len(repo.UpdatedRounds) != 1 || repo.UpdatedRounds[0].Status != rounddb.RoundStatusFinished {
		t.Error("round not moved to FINISHED")
	}
}

func TestRoundService_FinishRound_ContestsUnresolved(t *testing.T) {
	ctx := context.Background()
	roundID := types.NewRoundID()

	repo := NewFakeRoundRepository()
	repo.GetRoundFunc = func(context.Context, bun.IDB, types.RoundID) (*rounddb.Round, error) {
		return &rounddb.Round{ID: roundID, SessionID: types.NewSessionID(), Status: rounddb.RoundStatusVerified}, nil
	}
	apps := NewFakeAppearanceDirector()
	comps := NewFakeCompetitorDirector()
	comps.CheckContestsErr = fmt.Errorf("%w: 1 at round 1", ErrContestsUnresolved)

	queue := &FakeJobEnqueuer{}
	svc := newTestService(repo, apps, comps, queue)

	result, err := svc.FinishRound(ctx, roundID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsFailure() {
		t.Fatal("expected failure while a contest is unresolved")
	}
	if len(queue.Standings) != 0 || len(queue.Notifications) != 0 {
		t.Error("blocked finish must not enqueue jobs")
	}
	if len(apps.Included) != 0 || len(repo.UpdatedRounds) != 0 {
		t.Error("blocked finish must not write")
	}
}

func TestRoundService_FinishRound_Rejected(t *testing.T) {
	ctx := context.Background()
	roundID := types.NewRoundID()

	repo := NewFakeRoundRepository()
	repo.GetRoundFunc = func(context.Context, bun.IDB, types.RoundID) (*rounddb.Round, error) {
		return &rounddb.Round{ID: roundID, Status: rounddb.RoundStatusStarted}, nil
	}
	queue := &FakeJobEnqueuer{}
	svc := newTestService(repo, NewFakeAppearanceDirector(), NewFakeCompetitorDirector(), queue)

	result, err := svc.FinishRound(ctx, roundID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsFailure() {
		t.Fatal("expected a rejected transition")
	}
	if len(queue.Standings) != 0 {
		t.Error("rejected finish must not enqueue jobs")
	}
}
