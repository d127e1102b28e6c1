package roundservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/barberscore/scoring-api/app/eventbus"
	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/attr"
	"github.com/barberscore/scoring-api/app/shared/locking"
	"github.com/barberscore/scoring-api/app/shared/observability"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/statelog"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// RoundService implements the Service interface. It orchestrates the round
// lifecycle across the appearance and competitor modules: build assembles
// the panel and the field, start numbers the panel and opens appearances,
// verify runs the rank/advance/outcome pipeline, finish settles the round
// and hands documents to the job queue.
type RoundService struct {
	repo        rounddb.Repository
	appearances AppearanceDirector
	competitors CompetitorDirector
	queue       JobEnqueuer
	EventBus    eventbus.EventBus
	stateLog    statelog.Recorder
	logger      *slog.Logger
	metrics     observability.Metrics
	tracer      trace.Tracer
	db          *bun.DB

	// locks serializes transitions per round.
	locks *locking.KeyedMutex

	// qualifyingScore is the total score at or above which a multi-round
	// competitor advances automatically.
	qualifyingScore float64
	// recipients receive the SA notification when a round finishes.
	recipients []string

	// rng orders the advancement draw. Injected so tests can fix the seed;
	// selection itself never depends on it.
	rng *rand.Rand
}

// NewRoundService creates a new RoundService. A nil source seeds the draw
// generator from the clock.
func NewRoundService(
	repo rounddb.Repository,
	appearances AppearanceDirector,
	competitors CompetitorDirector,
	queue JobEnqueuer,
	eventBus eventbus.EventBus,
	stateLog statelog.Recorder,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
	qualifyingScore float64,
	recipients []string,
	source rand.Source,
) *RoundService {
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}
	return &RoundService{
		repo:            repo,
		appearances:     appearances,
		competitors:     competitors,
		queue:           queue,
		EventBus:        eventBus,
		stateLog:        stateLog,
		logger:          logger,
		metrics:         metrics,
		tracer:          tracer,
		db:              db,
		locks:           locking.NewKeyedMutex(),
		qualifyingScore: qualifyingScore,
		recipients:      recipients,
		rng:             rand.New(source),
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RoundService,
	ctx context.Context,
	operationName string,
	roundID types.RoundID,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("round_id", roundID.String()),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "round")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "round", time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.RoundID(roundID),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.RoundID(roundID),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "round")
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.String("operation", operationName),
			attr.RoundID(roundID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "round")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.String("operation", operationName),
			attr.RoundID(roundID),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.RoundID(roundID),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, "round")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *RoundService,
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

// transition moves the round to the target status and records the audit row.
// The caller persists the round itself.
func (s *RoundService) transition(ctx context.Context, db bun.IDB, round *rounddb.Round, to rounddb.RoundStatus) error {
	from := round.Status
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionRejected, from, to)
	}
	round.Status = to
	return s.recordTransition(ctx, db, round, from)
}

// recordTransition writes the audit row for a status change already applied
// to the round, including the reset path that bypasses the forward table.
func (s *RoundService) recordTransition(ctx context.Context, db bun.IDB, round *rounddb.Round, from rounddb.RoundStatus) error {
	return s.stateLog.Record(ctx, db, &statelog.Record{
		ObjectKind: "round",
		ObjectID:   round.ID.String(),
		FromState:  string(from),
		ToState:    string(round.Status),
	})
}

// publishStateChanged emits the transition event after commit. Publish
// failures are logged, never propagated: the transition has already
// committed.
func (s *RoundService) publishStateChanged(ctx context.Context, round *rounddb.Round, from rounddb.RoundStatus) {
	if s.EventBus == nil {
		return
	}
	payload := map[string]any{
		"round_id":   round.ID.String(),
		"session_id": round.SessionID.String(),
		"kind":       string(round.Kind),
		"from":       string(from),
		"to":         string(round.Status),
	}
	if err := s.EventBus.Publish(ctx, eventbus.TopicRoundStateChanged, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish round state change",
			attr.RoundID(round.ID),
			attr.Error(err),
		)
	}
}
