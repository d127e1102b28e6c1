package competitorservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// ResolveContest records the winning group name on a manual contest. Manual
// contests block their round's finish until resolved; automatic levels reject
// the write.
func (s *CompetitorService) ResolveContest(ctx context.Context, contestID types.ContestID, groupName string) (results.OperationResult[ContestResolved, Failure], error) {
	return withTelemetry(s, ctx, "ResolveContest", contestID.String(), func(ctx context.Context) (results.OperationResult[ContestResolved, Failure], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[ContestResolved, Failure], error) {
			contest, err := s.repo.GetContest(ctx, db, contestID)
			if err != nil {
				if errors.Is(err, competitordb.ErrContestNotFound) {
					return results.Fail[ContestResolved, Failure](Failure{Reason: err.Error()}), nil
				}
				return results.OperationResult[ContestResolved, Failure]{}, err
			}
			if contest.Level != competitordb.AwardLevelManual {
				return results.Fail[ContestResolved, Failure](Failure{
					Reason: fmt.Sprintf("%s: %s is %s", ErrNotManualContest, contest.AwardName, contest.Level),
				}), nil
			}

			contest.GroupName = &groupName
			if err := s.repo.UpdateContest(ctx, db, contest); err != nil {
				return results.OperationResult[ContestResolved, Failure]{}, err
			}
			return results.Ok[ContestResolved, Failure](ContestResolved{
				ContestID: contestID,
				GroupName: groupName,
			}), nil
		})
	})
}
