package competitorservice

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

func TestCompetitorService_ResolveContest(t *testing.T) {
	ctx := context.Background()
	contestID := types.NewContestID()

	t.Run("manual contest records the group name", func(t *testing.T) {
		repo := NewFakeCompetitorRepository()
		repo.GetContestFunc = func(ctx context.Context, db bun.IDB, id types.ContestID) (*competitordb.Contest, error) {
			return &competitordb.Contest{ID: contestID, AwardName: "Novice Quartet", Level: competitordb.AwardLevelManual}, nil
		}
		svc := newTestService(repo, &FakeAppearanceSource{})

		res, err := svc.ResolveContest(ctx, contestID, "Late Shift")
		if err != nil {
			t.Fatalf("unexpected infra error: %v", err)
		}
		if res.Success == nil || res.Success.GroupName != "Late Shift" {
			t.Fatalf("expected resolution success, got %+v", res)
		}
		if len(repo.UpdatedContests) != 1 {
			t.Fatalf("expected one contest update, got %d", len(repo.UpdatedContests))
		}
		if got := repo.UpdatedContests[0].GroupName; got == nil || *got != "Late Shift" {
			t.Errorf("expected stored group name %q, got %v", "Late Shift", got)
		}
	})

	t.Run("automatic contest is a domain failure", func(t *testing.T) {
		repo := NewFakeCompetitorRepository()
		repo.GetContestFunc = func(ctx context.Context, db bun.IDB, id types.ContestID) (*competitordb.Contest, error) {
			return &competitordb.Contest{ID: contestID, AwardName: "International Quartet Championship", Level: competitordb.AwardLevelChampionship}, nil
		}
		svc := newTestService(repo, &FakeAppearanceSource{})

		res, err := svc.ResolveContest(ctx, contestID, "Late Shift")
		if err != nil {
			t.Fatalf("unexpected infra error: %v", err)
		}
		if res.Failure == nil {
			t.Fatal("expected domain failure")
		}
		if len(repo.UpdatedContests) != 0 {
			t.Errorf("expected no contest update, got %d", len(repo.UpdatedContests))
		}
	})

	t.Run("unknown contest is a domain failure", func(t *testing.T) {
		repo := NewFakeCompetitorRepository()
		svc := newTestService(repo, &FakeAppearanceSource{})

		res, err := svc.ResolveContest(ctx, contestID, "Late Shift")
		if err != nil {
			t.Fatalf("unexpected infra error: %v", err)
		}
		if res.Failure == nil {
			t.Fatal("expected domain failure")
		}
	})
}
