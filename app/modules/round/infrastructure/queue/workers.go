package roundqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"
	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/attr"
	"github.com/barberscore/scoring-api/app/shared/documents"
	"github.com/barberscore/scoring-api/app/shared/notify"
)

// VarianceReportWorker renders the variance report for a flagged appearance
// and records the stored document reference on the appearance row.
type VarianceReportWorker struct {
	river.WorkerDefaults[VarianceReportJob]

	logger         *slog.Logger
	db             *bun.DB
	renderer       documents.Renderer
	store          documents.Store
	roundRepo      rounddb.Repository
	appearanceRepo appearancedb.Repository
	competitorRepo competitordb.Repository
}

// NewVarianceReportWorker creates a variance report worker.
func NewVarianceReportWorker(
	logger *slog.Logger,
	db *bun.DB,
	renderer documents.Renderer,
	store documents.Store,
	roundRepo rounddb.Repository,
	appearanceRepo appearancedb.Repository,
	competitorRepo competitordb.Repository,
) *VarianceReportWorker {
	return &VarianceReportWorker{
		logger:         logger,
		db:             db,
		renderer:       renderer,
		store:          store,
		roundRepo:      roundRepo,
		appearanceRepo: appearanceRepo,
		competitorRepo: competitorRepo,
	}
}

// variancePayload is the render context for the variance template.
type variancePayload struct {
	Round      *rounddb.Round
	Competitor *competitordb.Competitor
	Appearance *appearancedb.Appearance
	Songs      []appearancedb.Song
	Scores     map[string][]appearancedb.Score
	Panelists  []*rounddb.Panelist
}

func (w *VarianceReportWorker) Work(ctx context.Context, job *river.Job[VarianceReportJob]) error {
	args := job.Args
	logger := w.logger.With(
		attr.String("operation", "variance_report"),
		attr.AppearanceID(args.AppearanceID),
	)

	appearance, err := w.appearanceRepo.GetAppearance(ctx, w.db, args.AppearanceID)
	if err != nil {
		return fmt.Errorf("failed to load appearance for variance report: %w", err)
	}
	round, err := w.roundRepo.GetRound(ctx, w.db, args.RoundID)
	if err != nil {
		return fmt.Errorf("failed to load round for variance report: %w", err)
	}
	competitor, err := w.competitorRepo.GetCompetitor(ctx, w.db, appearance.CompetitorID)
	if err != nil {
		return fmt.Errorf("failed to load competitor for variance report: %w", err)
	}
	songs, err := w.appearanceRepo.ListSongs(ctx, w.db, appearance.ID)
	if err != nil {
		return fmt.Errorf("failed to load songs for variance report: %w", err)
	}
	panelists, err := w.roundRepo.ListScoringPanelists(ctx, w.db, round.ID)
	if err != nil {
		return fmt.Errorf("failed to load panelists for variance report: %w", err)
	}

	scores := make(map[string][]appearancedb.Score, len(songs))
	for _, song := range songs {
		songScores, err := w.appearanceRepo.ListScores(ctx, w.db, song.ID)
		if err != nil {
			return fmt.Errorf("failed to load scores for variance report: %w", err)
		}
		scores[song.ID.String()] = songScores
	}

	rendered, err := w.renderer.Render(ctx, documents.TemplateVariance, variancePayload{
		Round:      round,
		Competitor: competitor,
		Appearance: appearance,
		Songs:      songs,
		Scores:     scores,
		Panelists:  panelists,
	})
	if err != nil {
		return fmt.Errorf("failed to render variance report: %w", err)
	}

	name := fmt.Sprintf("variance/%s.pdf", appearance.ID)
	ref, err := w.store.Save(ctx, name, rendered)
	if err != nil {
		return fmt.Errorf("failed to store variance report: %w", err)
	}

	appearance.VarianceReportRef = &ref
	if err := w.appearanceRepo.UpdateAppearance(ctx, w.db, appearance); err != nil {
		return fmt.Errorf("failed to record variance report ref: %w", err)
	}

	logger.InfoContext(ctx, "Variance report rendered", attr.String("ref", ref))
	return nil
}

// StandingsWorker renders the OSS and SA documents for a finished round and
// records their references on the round row.
type StandingsWorker struct {
	river.WorkerDefaults[StandingsJob]

	logger         *slog.Logger
	db             *bun.DB
	renderer       documents.Renderer
	store          documents.Store
	roundRepo      rounddb.Repository
	appearanceRepo appearancedb.Repository
	competitorRepo competitordb.Repository
}

// NewStandingsWorker creates a standings worker.
func NewStandingsWorker(
	logger *slog.Logger,
	db *bun.DB,
	renderer documents.Renderer,
	store documents.Store,
	roundRepo rounddb.Repository,
	appearanceRepo appearancedb.Repository,
	competitorRepo competitordb.Repository,
) *StandingsWorker {
	return &StandingsWorker{
		logger:         logger,
		db:             db,
		renderer:       renderer,
		store:          store,
		roundRepo:      roundRepo,
		appearanceRepo: appearanceRepo,
		competitorRepo: competitorRepo,
	}
}

// standingsPayload is the render context for the OSS and SA templates.
type standingsPayload struct {
	Round       *rounddb.Round
	Rounds      []*rounddb.Round
	Appearances []appearancedb.Appearance
	Competitors map[string]*competitordb.Competitor
	Outcomes    []*rounddb.Outcome
	Panelists   []*rounddb.Panelist
}

func (w *StandingsWorker) Work(ctx context.Context, job *river.Job[StandingsJob]) error {
	args := job.Args
	logger := w.logger.With(
		attr.String("operation", "standings"),
		attr.RoundID(args.RoundID),
	)

	round, err := w.roundRepo.GetRound(ctx, w.db, args.RoundID)
	if err != nil {
		return fmt.Errorf("failed to load round for standings: %w", err)
	}
	// The SA covers every round sung so far, not just the one finishing.
	rounds, err := w.roundRepo.ListRoundsBySession(ctx, w.db, round.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session rounds for standings: %w", err)
	}
	appearances, err := w.appearanceRepo.ListByRound(ctx, w.db, round.ID)
	if err != nil {
		return fmt.Errorf("failed to load appearances for standings: %w", err)
	}
	outcomes, err := w.roundRepo.ListOutcomes(ctx, w.db, round.ID)
	if err != nil {
		return fmt.Errorf("failed to load outcomes for standings: %w", err)
	}
	panelists, err := w.roundRepo.ListPanelists(ctx, w.db, round.ID)
	if err != nil {
		return fmt.Errorf("failed to load panelists for standings: %w", err)
	}

	competitors := make(map[string]*competitordb.Competitor, len(appearances))
	for _, a := range appearances {
		c, err := w.competitorRepo.GetCompetitor(ctx, w.db, a.CompetitorID)
		if err != nil {
			return fmt.Errorf("failed to load competitor for standings: %w", err)
		}
		competitors[a.CompetitorID.String()] = c
	}

	payload := standingsPayload{
		Round:       round,
		Rounds:      rounds,
		Appearances: appearances,
		Competitors: competitors,
		Outcomes:    outcomes,
		Panelists:   panelists,
	}

	oss, err := w.renderer.Render(ctx, documents.TemplateOSS, payload)
	if err != nil {
		return fmt.Errorf("failed to render OSS: %w", err)
	}
	ossRef, err := w.store.Save(ctx, fmt.Sprintf("oss/%s.pdf", round.ID), oss)
	if err != nil {
		return fmt.Errorf("failed to store OSS: %w", err)
	}

	sa, err := w.renderer.Render(ctx, documents.TemplateSA, payload)
	if err != nil {
		return fmt.Errorf("failed to render SA: %w", err)
	}
	saRef, err := w.store.Save(ctx, fmt.Sprintf("sa/%s.pdf", round.ID), sa)
	if err != nil {
		return fmt.Errorf("failed to store SA: %w", err)
	}

	round.OSSRef = &ossRef
	round.SARef = &saRef
	if err := w.roundRepo.UpdateRound(ctx, w.db, round); err != nil {
		return fmt.Errorf("failed to record standings refs: %w", err)
	}

	logger.InfoContext(ctx, "Standings rendered",
		attr.String("oss_ref", ossRef),
		attr.String("sa_ref", saRef))
	return nil
}

// NotificationWorker delivers composed messages through the notifier.
type NotificationWorker struct {
	river.WorkerDefaults[NotificationJob]

	logger   *slog.Logger
	notifier notify.Notifier
}

// NewNotificationWorker creates a notification worker.
func NewNotificationWorker(logger *slog.Logger, notifier notify.Notifier) *NotificationWorker {
	return &NotificationWorker{logger: logger, notifier: notifier}
}

func (w *NotificationWorker) Work(ctx context.Context, job *river.Job[NotificationJob]) error {
	args := job.Args
	if len(args.Recipients) == 0 {
		w.logger.WarnContext(ctx, "Notification job has no recipients",
			attr.RoundID(args.RoundID))
		return nil
	}
	if err := w.notifier.Send(ctx, args.Recipients, args.Subject, args.Body); err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	w.logger.InfoContext(ctx, "Notification delivered",
		attr.RoundID(args.RoundID),
		attr.Int("recipients", len(args.Recipients)))
	return nil
}
