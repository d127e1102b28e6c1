package roundservice

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// VerifyRound moves a started round to VERIFIED, running the strict
// rank -> advance -> outcome pipeline: appearance and song ranks, session
// ranks, then advancement selection with randomized draws (skipped for the
// last round), then outcome resolution. It is re-runnable from VERIFIED so
// corrections can be folded in; draws are cleared and reassigned on re-run.
func (s *RoundService) VerifyRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Verified, Failure], error) {
	unlock := s.locks.Lock(roundID.String())
	defer unlock()

	return withTelemetry(s, ctx, "VerifyRound", roundID, func(ctx context.Context) (results.OperationResult[Verified, Failure], error) {
		var round *rounddb.Round
		var from rounddb.RoundStatus

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[Verified, Failure], error) {
			var err error
			round, err = s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return results.OperationResult[Verified, Failure]{}, err
			}
			from = round.Status
			if !from.CanTransition(rounddb.RoundStatusVerified) {
				return results.Fail[Verified, Failure](Failure{Reason: fmt.Sprintf("cannot verify round in status %s", from)}), nil
			}

			unsettled, err := s.appearances.CountUnsettledForRound(ctx, db, roundID)
			if err != nil {
				return results.OperationResult[Verified, Failure]{}, err
			}
			if unsettled > 0 {
				return results.Fail[Verified, Failure](Failure{
					Reason: fmt.Sprintf("%s: %d appearances pending", ErrAppearancesUnsettled, unsettled),
				}), nil
			}

			if err := s.appearances.RankForRound(ctx, db, roundID); err != nil {
				return results.OperationResult[Verified, Failure]{}, err
			}
			if err := s.competitors.RankSession(ctx, db, round.SessionID); err != nil {
				return results.OperationResult[Verified, Failure]{}, err
			}

			session, err := s.competitors.SessionOf(ctx, db, round.SessionID)
			if err != nil {
				return results.OperationResult[Verified, Failure]{}, err
			}

			payload := Verified{RoundID: roundID}
			if !lastRound(round, session) {
				sel, err := s.resolveAdvancement(ctx, db, round)
				if err != nil {
					return results.OperationResult[Verified, Failure]{}, err
				}
				payload.Advancers = len(sel.Advancers)
				payload.Alternate = sel.Alternate
			}

			if err := s.resolveOutcomes(ctx, db, round, session); err != nil {
				return results.OperationResult[Verified, Failure]{}, err
			}

			if err := s.transition(ctx, db, round, rounddb.RoundStatusVerified); err != nil {
				return results.OperationResult[Verified, Failure]{}, err
			}
			if err := s.repo.UpdateRound(ctx, db, round); err != nil {
				return results.OperationResult[Verified, Failure]{}, err
			}

			return results.Ok[Verified, Failure](payload), nil
		})
		if err != nil || result.IsFailure() {
			return result, err
		}

		s.publishStateChanged(ctx, round, from)
		return result, nil
	})
}

func lastRound(round *rounddb.Round, session SessionInfo) bool {
	return round.Kind == rounddb.RoundKindFinals || round.Num >= session.NumRounds
}

// resolveAdvancement selects the advancer set from the active multi-round
// competitors and writes the draws: a random permutation of 1..N for the
// advancers, the 0 sentinel for the alternate.
func (s *RoundService) resolveAdvancement(ctx context.Context, db bun.IDB, round *rounddb.Round) (selection, error) {
	if err := s.appearances.ResetDrawsForRound(ctx, db, round.ID); err != nil {
		return selection{}, err
	}

	pool, err := s.competitors.ListAdvancementPool(ctx, db, round.SessionID)
	if err != nil {
		return selection{}, err
	}

	sel := selectAdvancers(pool, round.Spots, s.qualifyingScore)

	draws := s.drawOrder(len(sel.Advancers))
	for i, competitorID := range sel.Advancers {
		if err := s.appearances.AssignDraw(ctx, db, round.ID, competitorID, &draws[i]); err != nil {
			return selection{}, err
		}
	}
	if sel.Alternate != nil {
		zero := 0
		if err := s.appearances.AssignDraw(ctx, db, round.ID, *sel.Alternate, &zero); err != nil {
			return selection{}, err
		}
	}
	return sel, nil
}

// resolveOutcomes writes each outcome's name from the contest level: the
// champion by session rank at the last scored round, the advancer list for
// qualifiers, the manual resolution for manual contests. Contests awarded at
// a later round stay unresolved.
func (s *RoundService) resolveOutcomes(ctx context.Context, db bun.IDB, round *rounddb.Round, session SessionInfo) error {
	outcomes, err := s.repo.ListOutcomes(ctx, db, round.ID)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		return nil
	}

	contests, err := s.competitors.ListNumberedContests(ctx, db, round.SessionID)
	if err != nil {
		return err
	}
	byID := make(map[types.ContestID]ContestInfo, len(contests))
	for _, c := range contests {
		byID[c.ID] = c
	}

	entrants, err := s.competitors.ListEntrants(ctx, db, round.SessionID)
	if err != nil {
		return err
	}
	appearances, err := s.appearances.ListForRound(ctx, db, round.ID)
	if err != nil {
		return err
	}

	for _, outcome := range outcomes {
		contest, found := byID[outcome.ContestID]
		if !found {
			continue
		}
		name := s.outcomeName(contest, round, session, entrants, appearances)
		if name == nil {
			continue
		}
		if err := s.repo.UpdateOutcomeName(ctx, db, outcome.ID, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *RoundService) outcomeName(
	contest ContestInfo,
	round *rounddb.Round,
	session SessionInfo,
	entrants []Entrant,
	appearances []RoundAppearance,
) *string {
	switch contest.Level {
	case ContestLevelManual:
		return contest.GroupName
	case ContestLevelChampionship:
		if contest.AwardRound > round.Num && !lastRound(round, session) {
			return nil
		}
		return championName(entrants)
	case ContestLevelQualifier:
		if lastRound(round, session) {
			return championName(entrants)
		}
		return qualifierNames(entrants, appearances)
	}
	return nil
}

// championName is the group ranked first across the session.
func championName(entrants []Entrant) *string {
	var winner *Entrant
	for i := range entrants {
		e := &entrants[i]
		if e.TotRank == nil {
			continue
		}
		if winner == nil || *e.TotRank < *winner.TotRank {
			winner = e
		}
	}
	if winner == nil {
		return nil
	}
	name := winner.GroupName
	return &name
}

// qualifierNames joins the advancing groups' names alphabetically.
func qualifierNames(entrants []Entrant, appearances []RoundAppearance) *string {
	advancing := make(map[types.CompetitorID]bool)
	for _, a := range appearances {
		if a.Draw != nil && *a.Draw > 0 {
			advancing[a.CompetitorID] = true
		}
	}
	var names []string
	for _, e := range entrants {
		if advancing[e.CompetitorID] {
			names = append(names, e.GroupName)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	joined := strings.Join(names, ", ")
	return &joined
}
