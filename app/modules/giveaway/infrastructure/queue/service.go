package giveawayqueue

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

	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"

	giveawaydb "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/repositories"
)

// QueueService schedules giveaway end jobs.
type QueueService interface {
	// ScheduleGiveawayEnd schedules the end job for a giveaway. Past or
	// near-past end times run on the next poll rather than being rejected.
	ScheduleGiveawayEnd(ctx context.Context, guildID sharedtypes.GuildID, giveawayID int64, name string, endsAt time.Time) error
	// CancelGiveawayJobs cancels pending end jobs for a giveaway.
	CancelGiveawayJobs(ctx context.Context, giveawayID int64) error
	// Start starts the queue service.
	Start(ctx context.Context) error
	// Stop stops the queue service.
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service handles giveaway job scheduling using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics observability.OperationMetrics
}

// NewService creates a River-backed queue service. River requires its own pgx
// pool; the bun handle is only used for job table queries.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	logger *slog.Logger,
	dsn string,
	metrics observability.OperationMetrics,
	repo giveawaydb.Repository,
	bus eventbus.EventBus,
) (*Service, error) {
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
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
	river.AddWorker(workers, NewGiveawayEndWorker(logger, repo, bus))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			"giveaway":         {MaxWorkers: 5},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	logger.InfoContext(ctx, "Giveaway queue service initialized")

	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  logger,
		db:      bunDB,
		metrics: metrics,
	}, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.InfoContext(ctx, "Giveaway queue service started")
	return nil
}

// Stop stops the River client and releases the pool.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()
	s.logger.InfoContext(ctx, "Giveaway queue service stopped")
	return nil
}

// ScheduleGiveawayEnd schedules the end job for a giveaway.
func (s *Service) ScheduleGiveawayEnd(ctx context.Context, guildID sharedtypes.GuildID, giveawayID int64, name string, endsAt time.Time) error {
	s.metrics.RecordOperationAttempt(ctx, "schedule_giveaway_end", "river")

	job := GiveawayEndJob{
		GuildID:    guildID,
		GiveawayID: giveawayID,
		Name:       name,
	}

	result, err := s.client.Insert(ctx, job, &river.InsertOpts{
		Queue:       "giveaway",
		ScheduledAt: endsAt,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true, // one end job per giveaway
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "schedule_giveaway_end", "river")
		return fmt.Errorf("failed to schedule giveaway end job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_giveaway_end", "river")
	s.logger.InfoContext(ctx, "Giveaway end job scheduled",
		attr.Int64("giveaway_id", giveawayID),
		attr.Int64("job_id", result.Job.ID),
		attr.Duration("delay", time.Until(endsAt)),
	)
	return nil
}

// CancelGiveawayJobs cancels pending end jobs for a giveaway.
func (s *Service) CancelGiveawayJobs(ctx context.Context, giveawayID int64) error {
	s.metrics.RecordOperationAttempt(ctx, "cancel_giveaway_jobs", "river")

	type riverJobRow struct {
		ID int64 `bun:"id"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id").
		Where("kind = ?", GiveawayEndJob{}.Kind()).
		Where("state IN (?, ?)", "available", "scheduled").
		Where("args->>'giveaway_id' = ?", fmt.Sprint(giveawayID)).
		Scan(ctx, &jobs)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "cancel_giveaway_jobs", "river")
		return fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			s.logger.WarnContext(ctx, "Failed to cancel giveaway job",
				attr.Int64("job_id", job.ID),
				attr.Error(err),
			)
		}
	}

	s.metrics.RecordOperationSuccess(ctx, "cancel_giveaway_jobs", "river")
	return nil
}
