package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"

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
	"github.com/barberscore/scoring-api/config"
	"github.com/barberscore/scoring-api/database"
)

// App holds the wired application services.
type App struct {
	Cfg         *config.Config
	DB          *bun.DB
	EventBus    eventbus.EventBus
	Queue       *roundqueue.Service
	Rounds      *roundservice.RoundService
	Appearances *appearanceservice.AppearanceService
	Competitors *competitorservice.CompetitorService
	Registry    *prometheus.Registry
}

// NewApp initializes the database, event bus, job queue, and the three
// application services with their cross-module adapters.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := database.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var bus eventbus.EventBus = eventbus.NoOp{}
	if cfg.NATS.URL != "" {
		bus, err = eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize event bus: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewPrometheusMetrics(registry)
	tracer := otel.Tracer("scoring-api")
	stateLog := statelog.DBRecorder{}

	roundRepo := &rounddb.RoundDBImpl{}
	appearanceRepo := appearancedb.AppearanceDBImpl{}
	competitorRepo := competitordb.CompetitorDBImpl{}

	queue, err := roundqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, cfg.Queue.MaxWorkers, metrics, roundqueue.Deps{
		Renderer:       documents.JSONRenderer{},
		Store:          documents.DirStore{Root: "documents"},
		Notifier:       notify.LogNotifier{Logger: logger},
		RoundRepo:      roundRepo,
		AppearanceRepo: appearanceRepo,
		CompetitorRepo: competitorRepo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize job queue: %w", err)
	}

	competitors := competitorservice.NewCompetitorService(
		competitorRepo,
		&adapters.AppearanceSource{Appearances: appearanceRepo},
		bus, stateLog, logger, metrics, tracer, db,
	)

	appearances := appearanceservice.NewAppearanceService(
		appearanceRepo,
		&adapters.PanelProvider{Rounds: roundRepo},
		competitors,
		queue,
		bus, stateLog, logger, metrics, tracer, db,
		cfg.Scoring.VarianceThreshold,
	)

	rounds := roundservice.NewRoundService(
		roundRepo,
		&adapters.AppearanceDirector{Service: appearances, Appearances: appearanceRepo},
		&adapters.CompetitorDirector{Service: competitors, Competitors: competitorRepo},
		queue,
		bus, stateLog, logger, metrics, tracer, db,
		cfg.Scoring.QualifyingScore,
		cfg.Scoring.ScoringRecipients,
		nil,
	)

	return &App{
		Cfg:         cfg,
		DB:          db,
		EventBus:    bus,
		Queue:       queue,
		Rounds:      rounds,
		Appearances: appearances,
		Competitors: competitors,
		Registry:    registry,
	}, nil
}

// Close stops the job queue and releases the bus and database connections.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if err := a.Queue.Stop(ctx); err != nil {
		firstErr = err
	}
	if err := a.EventBus.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.DB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
