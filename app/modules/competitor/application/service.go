package competitorservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/barberscore/scoring-api/app/eventbus"
	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/attr"
	"github.com/barberscore/scoring-api/app/shared/observability"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/statelog"
)

// CompetitorService implements the Service interface.
type CompetitorService struct {
	repo        competitordb.Repository
	appearances AppearanceSource
	EventBus    eventbus.EventBus
	stateLog    statelog.Recorder
	logger      *slog.Logger
	metrics     observability.Metrics
	tracer      trace.Tracer
	db          *bun.DB
}

// NewCompetitorService creates a new CompetitorService.
func NewCompetitorService(
	repo competitordb.Repository,
	appearances AppearanceSource,
	eventBus eventbus.EventBus,
	stateLog statelog.Recorder,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *CompetitorService {
	return &CompetitorService{
		repo:        repo,
		appearances: appearances,
		EventBus:    eventBus,
		stateLog:    stateLog,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		db:          db,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *CompetitorService,
	ctx context.Context,
	operationName string,
	entityID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("entity_id", entityID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "competitor")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "competitor", time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.String("entity_id", entityID),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("entity_id", entityID),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "competitor")
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.String("operation", operationName),
			attr.String("entity_id", entityID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "competitor")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.String("operation", operationName),
			attr.String("entity_id", entityID),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName, "competitor")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *CompetitorService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// setStatus moves the competitor to the target status with an audit row.
func (s *CompetitorService) setStatus(ctx context.Context, db bun.IDB, competitor *competitordb.Competitor, to competitordb.CompetitorStatus) error {
	from := competitor.Status
	competitor.Status = to
	if err := s.repo.UpdateStatus(ctx, db, competitor.ID, to); err != nil {
		return err
	}
	if err := s.stateLog.Record(ctx, db, &statelog.Record{
		ObjectKind: "competitor",
		ObjectID:   competitor.ID.String(),
		FromState:  string(from),
		ToState:    string(to),
	}); err != nil {
		return err
	}
	if s.EventBus != nil {
		payload := map[string]any{
			"competitor_id": competitor.ID.String(),
			"session_id":    competitor.SessionID.String(),
			"from":          string(from),
			"to":            string(to),
		}
		if err := s.EventBus.Publish(ctx, eventbus.TopicCompetitorStateChanged, payload); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish competitor state change",
				attr.CompetitorID(competitor.ID),
				attr.Error(err),
			)
		}
	}
	return nil
}
