package appearanceservice

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
	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/attr"
	"github.com/barberscore/scoring-api/app/shared/locking"
	"github.com/barberscore/scoring-api/app/shared/observability"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/statelog"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// AppearanceService implements the Service interface.
type AppearanceService struct {
	repo        appearancedb.Repository
	panels      PanelProvider
	competitors CompetitorRecalculator
	queue       VarianceReportEnqueuer
	EventBus    eventbus.EventBus
	stateLog    statelog.Recorder
	logger      *slog.Logger
	metrics     observability.Metrics
	tracer      trace.Tracer
	db          *bun.DB

	// locks serializes mutations per appearance.
	locks *locking.KeyedMutex

	// varianceThreshold is the maximum allowed spread, in points, between
	// official scores on one song before a variance report is required.
	varianceThreshold int
}

// NewAppearanceService creates a new AppearanceService.
func NewAppearanceService(
	repo appearancedb.Repository,
	panels PanelProvider,
	competitors CompetitorRecalculator,
	queue VarianceReportEnqueuer,
	eventBus eventbus.EventBus,
	stateLog statelog.Recorder,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
	varianceThreshold int,
) *AppearanceService {
	return &AppearanceService{
		repo:              repo,
		panels:            panels,
		competitors:       competitors,
		queue:             queue,
		EventBus:          eventBus,
		stateLog:          stateLog,
		logger:            logger,
		metrics:           metrics,
		tracer:            tracer,
		db:                db,
		locks:             locking.NewKeyedMutex(),
		varianceThreshold: varianceThreshold,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *AppearanceService,
	ctx context.Context,
	operationName string,
	appearanceID types.AppearanceID,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("appearance_id", appearanceID.String()),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "appearance")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "appearance", time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.AppearanceID(appearanceID),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.AppearanceID(appearanceID),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "appearance")
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.String("operation", operationName),
			attr.AppearanceID(appearanceID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "appearance")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.String("operation", operationName),
			attr.AppearanceID(appearanceID),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.AppearanceID(appearanceID),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, "appearance")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *AppearanceService,
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

// transition moves the appearance to the target status, records the audit
// row, and publishes the change. The caller persists the appearance itself.
func (s *AppearanceService) transition(ctx context.Context, db bun.IDB, appearance *appearancedb.Appearance, to appearancedb.AppearanceStatus) error {
	from := appearance.Status
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionRejected, from, to)
	}
	appearance.Status = to
	if err := s.stateLog.Record(ctx, db, &statelog.Record{
		ObjectKind: "appearance",
		ObjectID:   appearance.ID.String(),
		FromState:  string(from),
		ToState:    string(to),
	}); err != nil {
		return err
	}
	return nil
}

// publishStateChanged emits the state change event after the transaction has
// committed. Publish failures are logged, not propagated.
func (s *AppearanceService) publishStateChanged(ctx context.Context, appearance *appearancedb.Appearance, from appearancedb.AppearanceStatus) {
	if s.EventBus == nil {
		return
	}
	payload := map[string]any{
		"appearance_id": appearance.ID.String(),
		"round_id":      appearance.RoundID.String(),
		"from":          string(from),
		"to":            string(appearance.Status),
	}
	if err := s.EventBus.Publish(ctx, eventbus.TopicAppearanceStateChanged, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish appearance state change",
			attr.AppearanceID(appearance.ID),
			attr.Error(err),
		)
	}
}
