package roundintegrationtests

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/barberscore/scoring-api/app/adapters"
	"github.com/barberscore/scoring-api/app/eventbus"
	appearanceservice "github.com/barberscore/scoring-api/app/modules/appearance/application"
	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	competitorservice "github.com/barberscore/scoring-api/app/modules/competitor/application"
	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	roundservice "github.com/barberscore/scoring-api/app/modules/round/application"
	roundqueue "github.com/barberscore/scoring-api/app/modules/round/infrastructure/queue"
	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/documents"
	"github.com/barberscore/scoring-api/app/shared/notify"
	"github.com/barberscore/scoring-api/app/shared/observability"
	"github.com/barberscore/scoring-api/app/shared/statelog"
	"github.com/barberscore/scoring-api/app/shared/types"
	"github.com/barberscore/scoring-api/integration_tests/testutils"
)

var (
	testEnv     *testutils.TestEnvironment
	testEnvErr  error
	testEnvOnce sync.Once
)

// RoundTestDeps carries the full service graph wired against the shared
// test database.
type RoundTestDeps struct {
	Ctx            context.Context
	Env            *testutils.TestEnvironment
	Rounds         *roundservice.RoundService
	Appearances    *appearanceservice.AppearanceService
	Competitors    *competitorservice.CompetitorService
	RoundRepo      rounddb.Repository
	AppearanceRepo appearancedb.Repository
	CompetitorRepo competitordb.Repository
}

// SetupRoundTest returns a clean database and services wired the way the
// application wires them, with a no-op event bus and a fixed draw seed.
func SetupRoundTest(t *testing.T) *RoundTestDeps {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testEnvOnce.Do(func() {
		env, err := testutils.NewTestEnvironment(t)
		if err != nil {
			testEnvErr = err
			log.Printf("failed to set up test environment: %v", err)
			return
		}
		testEnv = env
	})
	if testEnvErr != nil {
		t.Fatalf("test environment unavailable: %v", testEnvErr)
	}

	ctx := context.Background()
	if err := testutils.CleanupDatabase(ctx, testEnv.DB); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}

	logger := slog.New(slog.DiscardHandler)
	bus := eventbus.NoOp{}
	stateLog := statelog.DBRecorder{}
	metrics := observability.NoOpMetrics{}
	tracer := noop.NewTracerProvider().Tracer("integration")

	roundRepo := &rounddb.RoundDBImpl{}
	appearanceRepo := appearancedb.AppearanceDBImpl{}
	competitorRepo := competitordb.CompetitorDBImpl{}

	queue, err := roundqueue.NewService(ctx, testEnv.DB, logger, testEnv.DSN, 1, metrics, roundqueue.Deps{
		Renderer:       documents.JSONRenderer{},
		Store:          documents.DirStore{Root: t.TempDir()},
		Notifier:       notify.LogNotifier{Logger: logger},
		RoundRepo:      roundRepo,
		AppearanceRepo: appearanceRepo,
		CompetitorRepo: competitorRepo,
	})
	if err != nil {
		t.Fatalf("failed to create queue service: %v", err)
	}

	competitors := competitorservice.NewCompetitorService(
		competitorRepo,
		&adapters.AppearanceSource{Appearances: appearanceRepo},
		bus, stateLog, logger, metrics, tracer, testEnv.DB,
	)
	appearances := appearanceservice.NewAppearanceService(
		appearanceRepo,
		&adapters.PanelProvider{Rounds: roundRepo},
		competitors, queue,
		bus, stateLog, logger, metrics, tracer, testEnv.DB,
		5,
	)
	rounds := roundservice.NewRoundService(
		roundRepo,
		&adapters.AppearanceDirector{Service: appearances, Appearances: appearanceRepo},
		&adapters.CompetitorDirector{Service: competitors, Competitors: competitorRepo},
		queue,
		bus, stateLog, logger, metrics, tracer, testEnv.DB,
		73.0, []string{"scoring@example.com"},
		rand.NewSource(1),
	)

	return &RoundTestDeps{
		Ctx:            ctx,
		Env:            testEnv,
		Rounds:         rounds,
		Appearances:    appearances,
		Competitors:    competitors,
		RoundRepo:      roundRepo,
		AppearanceRepo: appearanceRepo,
		CompetitorRepo: competitorRepo,
	}
}

// Fixture is the seeded convention graph a lifecycle test runs against.
type Fixture struct {
	ConventionID types.ConventionID
	SessionID    types.SessionID
	ContestID    types.ContestID
	RoundID      types.RoundID
	Competitors  []*competitordb.Competitor
}

// SeedFinalsSession seeds a one-round quartet session: a championship
// contest, a finals round, a balanced three-judge panel, and three entered
// competitors with entry draws.
func SeedFinalsSession(t *testing.T, deps *RoundTestDeps) *Fixture {
	t.Helper()
	ctx := deps.Ctx
	db := deps.Env.DB

	gen := testutils.NewTestDataGenerator(1)
	convention := &competitordb.Convention{
		ID:   types.NewConventionID(),
		Name: gen.ConventionName(),
		Year: 2026,
	}
	if err := deps.CompetitorRepo.CreateConvention(ctx, db, convention); err != nil {
		t.Fatalf("failed to create convention: %v", err)
	}

	session := &competitordb.Session{
		ID:           types.NewSessionID(),
		ConventionID: convention.ID,
		Kind:         competitordb.SessionKindQuartet,
		NumRounds:    1,
	}
	if err := deps.CompetitorRepo.CreateSession(ctx, db, session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	num := 1
	contest := &competitordb.Contest{
		ID:         types.NewContestID(),
		SessionID:  session.ID,
		Num:        &num,
		AwardName:  "International Quartet Championship",
		Level:      competitordb.AwardLevelChampionship,
		AwardRound: 1,
	}
	if err := deps.CompetitorRepo.CreateContest(ctx, db, contest); err != nil {
		t.Fatalf("failed to create contest: %v", err)
	}

	round := &rounddb.Round{
		ID:        types.NewRoundID(),
		SessionID: session.ID,
		Kind:      rounddb.RoundKindFinals,
		Num:       1,
		Status:    rounddb.RoundStatusNew,
	}
	if err := deps.RoundRepo.CreateRound(ctx, db, round); err != nil {
		t.Fatalf("failed to create round: %v", err)
	}

	panel := []rounddb.Assignment{
		{Category: rounddb.PanelistCategoryMusic, LastName: "Adler", FirstName: "June"},
		{Category: rounddb.PanelistCategoryPerformance, LastName: "Reyes", FirstName: "Marta"},
		{Category: rounddb.PanelistCategorySinging, LastName: "Zhou", FirstName: "Lin"},
		{Kind: rounddb.PanelistKindOfficial, Category: rounddb.PanelistCategoryCA, LastName: "Voss", FirstName: "Erik"},
	}
	for i := range panel {
		panel[i].ConventionID = convention.ID
		panel[i].Active = true
		panel[i].Email = gen.Email()
		if panel[i].Kind == "" {
			panel[i].Kind = rounddb.PanelistKindOfficial
		}
		if err := deps.RoundRepo.CreateAssignment(ctx, db, &panel[i]); err != nil {
			t.Fatalf("failed to create assignment: %v", err)
		}
	}

	names := []string{"Ringmasters", "Signature", "Quorum"}
	competitors := make([]*competitordb.Competitor, 0, len(names))
	for i, name := range names {
		draw := i + 1
		competitor := &competitordb.Competitor{
			ID:        types.NewCompetitorID(),
			SessionID: session.ID,
			GroupName: name,
			Status:    competitordb.CompetitorStatusNew,
			EntryDraw: &draw,
		}
		if err := deps.CompetitorRepo.CreateCompetitor(ctx, db, competitor); err != nil {
			t.Fatalf("failed to create competitor: %v", err)
		}
		competitors = append(competitors, competitor)
	}

	return &Fixture{
		ConventionID: convention.ID,
		SessionID:    session.ID,
		ContestID:    contest.ID,
		RoundID:      round.ID,
		Competitors:  competitors,
	}
}

// ScoreAppearance walks one appearance through its stage lifecycle and
// enters the given points on every score row.
func ScoreAppearance(t *testing.T, deps *RoundTestDeps, appearanceID types.AppearanceID, points int) {
	t.Helper()
	ctx := deps.Ctx
	db := deps.Env.DB

	if result, err := deps.Appearances.StartAppearance(ctx, appearanceID); err != nil || result.IsFailure() {
		t.Fatalf("failed to start appearance: result=%+v err=%v", result, err)
	}
	if result, err := deps.Appearances.FinishAppearance(ctx, appearanceID); err != nil || result.IsFailure() {
		t.Fatalf("failed to finish appearance: result=%+v err=%v", result, err)
	}

	songs, err := deps.AppearanceRepo.ListSongs(ctx, db, appearanceID)
	if err != nil {
		t.Fatalf("failed to list songs: %v", err)
	}
	for _, song := range songs {
		scores, err := deps.AppearanceRepo.ListScores(ctx, db, song.ID)
		if err != nil {
			t.Fatalf("failed to list scores: %v", err)
		}
		for _, score := range scores {
			if result, err := deps.Appearances.UpdateScore(ctx, appearanceID, score.ID, points); err != nil || result.IsFailure() {
				t.Fatalf("failed to update score: result=%+v err=%v", result, err)
			}
		}
	}

	if result, err := deps.Appearances.ConfirmAppearance(ctx, appearanceID); err != nil || result.IsFailure() {
		t.Fatalf("failed to confirm appearance: result=%+v err=%v", result, err)
	}
}
