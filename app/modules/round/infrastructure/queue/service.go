package roundqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/attr"
	"github.com/barberscore/scoring-api/app/shared/documents"
	"github.com/barberscore/scoring-api/app/shared/notify"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// Metrics records queue operation outcomes.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService defines the contract for background job operations.
type QueueService interface {
	// EnqueueVarianceReport queues rendering of a variance report for an
	// appearance whose official scores spread past the threshold.
	EnqueueVarianceReport(ctx context.Context, roundID types.RoundID, appearanceID types.AppearanceID) error
	// EnqueueStandings queues rendering of the OSS and SA documents for a
	// finished round.
	EnqueueStandings(ctx context.Context, roundID types.RoundID) error
	// EnqueueNotification queues delivery of a composed message.
	EnqueueNotification(ctx context.Context, roundID types.RoundID, recipients []string, subject, body string) error
	// GetScheduledJobs returns queued jobs for a round (for debugging).
	GetScheduledJobs(ctx context.Context, roundID types.RoundID) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy.
	HealthCheck(ctx context.Context) error
	// Start starts the queue service.
	Start(ctx context.Context) error
	// Stop stops the queue service.
	Stop(ctx context.Context) error
}

// Ensure Service implements QueueService.
var _ QueueService = (*Service)(nil)

// Service handles background jobs for the round module using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics Metrics
}

// Deps carries the worker dependencies for the queue service.
type Deps struct {
	Renderer       documents.Renderer
	Store          documents.Store
	Notifier       notify.Notifier
	RoundRepo      rounddb.Repository
	AppearanceRepo appearancedb.Repository
	CompetitorRepo competitordb.Repository
}

// NewService creates a River-based queue service for scoring jobs. River
// requires pgx rather than database/sql, so the service opens its own pool
// from the DSN alongside the bun handle.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, maxWorkers int, metrics Metrics, deps Deps) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_round_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing round queue service")

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewVarianceReportWorker(ctxLogger, bunDB, deps.Renderer, deps.Store, deps.RoundRepo, deps.AppearanceRepo, deps.CompetitorRepo))
	river.AddWorker(workers, NewStandingsWorker(ctxLogger, bunDB, deps.Renderer, deps.Store, deps.RoundRepo, deps.AppearanceRepo, deps.CompetitorRepo))
	river.AddWorker(workers, NewNotificationWorker(ctxLogger, deps.Notifier))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
			"scoring":          {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	service := &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.Info("Round queue service initialized successfully")
	return service, nil
}

// Start starts the River queue service.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")

	if err := s.client.Start(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.metrics.RecordOperationDuration(ctx, "start_service", "river", time.Since(start))

	s.logger.Info("Round queue service started")
	return nil
}

// Stop stops the River queue service and closes its pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")

	if err := s.client.Stop(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()

	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.metrics.RecordOperationDuration(ctx, "stop_service", "river", time.Since(start))

	s.logger.Info("Round queue service stopped")
	return nil
}

// EnqueueVarianceReport queues a variance report job. Duplicate enqueues for
// the same appearance collapse onto the pending job.
func (s *Service) EnqueueVarianceReport(ctx context.Context, roundID types.RoundID, appearanceID types.AppearanceID) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_variance_report", "river")

	job := VarianceReportJob{RoundID: roundID, AppearanceID: appearanceID}
	result, err := s.client.Insert(ctx, job, &river.InsertOpts{
		Queue: "scoring",
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_variance_report", "river")
		return fmt.Errorf("failed to enqueue variance report job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_variance_report", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_variance_report", "river", time.Since(start))

	s.logger.InfoContext(ctx, "Variance report job enqueued",
		attr.AppearanceID(appearanceID),
		attr.Int64("job_id", result.Job.ID))
	return nil
}

// EnqueueStandings queues OSS and SA rendering for a round.
func (s *Service) EnqueueStandings(ctx context.Context, roundID types.RoundID) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_standings", "river")

	result, err := s.client.Insert(ctx, StandingsJob{RoundID: roundID}, &river.InsertOpts{
		Queue: "scoring",
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_standings", "river")
		return fmt.Errorf("failed to enqueue standings job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_standings", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_standings", "river", time.Since(start))

	s.logger.InfoContext(ctx, "Standings job enqueued",
		attr.RoundID(roundID),
		attr.Int64("job_id", result.Job.ID))
	return nil
}

// EnqueueNotification queues delivery of a composed message.
func (s *Service) EnqueueNotification(ctx context.Context, roundID types.RoundID, recipients []string, subject, body string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_notification", "river")

	job := NotificationJob{RoundID: roundID, Recipients: recipients, Subject: subject, Body: body}
	result, err := s.client.Insert(ctx, job, &river.InsertOpts{
		Queue: "scoring",
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_notification", "river")
		return fmt.Errorf("failed to enqueue notification job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_notification", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_notification", "river", time.Since(start))

	s.logger.InfoContext(ctx, "Notification job enqueued",
		attr.RoundID(roundID),
		attr.Int64("job_id", result.Job.ID))
	return nil
}

// GetScheduledJobs returns queued jobs that reference the round (for debugging).
func (s *Service) GetScheduledJobs(ctx context.Context, roundID types.RoundID) ([]JobInfo, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "get_scheduled_jobs", "river")

	type riverJobRow struct {
		ID          int64      `bun:"id"`
		Kind        string     `bun:"kind"`
		State       string     `bun:"state"`
		ScheduledAt *time.Time `bun:"scheduled_at"`
		CreatedAt   time.Time  `bun:"created_at"`
		Attempt     int16      `bun:"attempt"`
		MaxAttempts int16      `bun:"max_attempts"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind IN (?)", bun.In([]string{"variance_report", "standings", "notification"})).
		Where("args->>'round_id' = ?", roundID.String()).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "get_scheduled_jobs", "river")
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	result := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		result[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			RoundID:     roundID.String(),
			State:       job.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}

	s.metrics.RecordOperationSuccess(ctx, "get_scheduled_jobs", "river")
	s.metrics.RecordOperationDuration(ctx, "get_scheduled_jobs", "river", time.Since(start))
	return result, nil
}

// HealthCheck verifies the queue service can reach its backing table.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Scan(ctx, &count)
	if err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
