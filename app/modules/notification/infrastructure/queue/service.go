package notificationqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

// QueueService defines the contract for reminder scheduling.
type QueueService interface {
	// ScheduleSubmissionReminder schedules a submission reminder at the given time.
	ScheduleSubmissionReminder(ctx context.Context, leagueID, roundID, notificationID uuid.UUID, at time.Time) error
	// ScheduleVotingReminder schedules a voting reminder at the given time.
	ScheduleVotingReminder(ctx context.Context, leagueID, roundID, notificationID uuid.UUID, at time.Time) error
	// CancelRoundJobs cancels all scheduled reminder jobs for a round.
	CancelRoundJobs(ctx context.Context, roundID uuid.UUID) error
	// GetScheduledJobs returns information about scheduled jobs for a round.
	GetScheduledJobs(ctx context.Context, roundID uuid.UUID) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service schedules reminder jobs with River.
type Service struct {
	client *river.Client[pgx.Tx]
	logger *slog.Logger
	db     *bun.DB
}

// NewService creates a River-based queue service for reminder scheduling.
// River needs its own pgx pool; it cannot share Bun's database/sql handle.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, dispatcher Dispatcher) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("component", "river_queue"),
	)

	ctxLogger.Info("Initializing reminder queue service")

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", slog.Any("error", err))
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewSubmissionReminderWorker(ctxLogger, dispatcher))
	river.AddWorker(workers, NewVotingReminderWorker(ctxLogger, dispatcher))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 50},
			"reminders":        {MaxWorkers: 25},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	ctxLogger.Info("Reminder queue service initialized successfully")
	return &Service{
		client: riverClient,
		logger: ctxLogger,
		db:     bunDB,
	}, nil
}

// Start starts the River queue service.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting reminder queue service")
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop stops the River queue service.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping reminder queue service")
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// ScheduleSubmissionReminder schedules a submission reminder job.
func (s *Service) ScheduleSubmissionReminder(ctx context.Context, leagueID, roundID, notificationID uuid.UUID, at time.Time) error {
	job := SubmissionReminderJob{
		LeagueID:       leagueID,
		RoundID:        roundID,
		NotificationID: notificationID,
	}
	return s.schedule(ctx, job, roundID, at)
}

// ScheduleVotingReminder schedules a voting reminder job.
func (s *Service) ScheduleVotingReminder(ctx context.Context, leagueID, roundID, notificationID uuid.UUID, at time.Time) error {
	job := VotingReminderJob{
		LeagueID:       leagueID,
		RoundID:        roundID,
		NotificationID: notificationID,
	}
	return s.schedule(ctx, job, roundID, at)
}

func (s *Service) schedule(ctx context.Context, job river.JobArgs, roundID uuid.UUID, at time.Time) error {
	ctxLogger := s.logger.With(
		slog.String("round_id", roundID.String()),
		slog.String("job_kind", job.Kind()),
		slog.Time("at", at),
	)

	// Reminders that land in the past are skipped, not failed. A round
	// created mid-window still gets the remaining reminders.
	now := time.Now()
	if at.Before(now.Add(5 * time.Second)) {
		ctxLogger.Info("Reminder time is in the past or too close, skipping")
		return nil
	}

	jobResult, err := s.client.Insert(ctx, job, &river.InsertOpts{
		Queue:       "reminders",
		ScheduledAt: at,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true, // Prevent duplicate scheduling for same round
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to schedule reminder job", slog.Any("error", err))
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}

	ctxLogger.Info("Reminder job scheduled successfully",
		slog.Duration("delay", at.Sub(now)),
		slog.Int64("job_id", jobResult.Job.ID))
	return nil
}

// CancelRoundJobs cancels all scheduled reminder jobs for a round. Used when
// the round advances before its reminders fire.
func (s *Service) CancelRoundJobs(ctx context.Context, roundID uuid.UUID) error {
	ctxLogger := s.logger.With(slog.String("round_id", roundID.String()))

	type riverJobRow struct {
		ID   int64  `bun:"id"`
		Kind string `bun:"kind"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind").
		Where("kind IN (?, ?)", "submission_reminder", "voting_reminder").
		Where("state IN (?, ?)", "available", "scheduled").
		Where("args->>'round_id' = ?", roundID.String()).
		Scan(ctx, &jobs)
	if err != nil {
		return fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			ctxLogger.Warn("Failed to cancel job",
				slog.Int64("job_id", job.ID),
				slog.String("job_kind", job.Kind),
				slog.Any("error", err))
			continue
		}
		cancelled++
	}

	ctxLogger.Info("Jobs cancellation completed",
		slog.Int("total_found", len(jobs)),
		slog.Int("cancelled_count", cancelled))
	return nil
}

// GetScheduledJobs returns information about scheduled jobs for a round.
func (s *Service) GetScheduledJobs(ctx context.Context, roundID uuid.UUID) ([]JobInfo, error) {
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
		Where("kind IN (?, ?)", "submission_reminder", "voting_reminder").
		Where("args->>'round_id' = ?", roundID.String()).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
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
	return result, nil
}

// HealthCheck verifies the queue service is healthy.
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
