package notificationqueue

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// Dispatcher delivers a scheduled notification when its job fires. The
// implementation lives in the notification application layer.
type Dispatcher interface {
	DispatchScheduled(ctx context.Context, notificationID uuid.UUID) error
}

// SubmissionReminderWorker executes submission reminder jobs.
type SubmissionReminderWorker struct {
	river.WorkerDefaults[SubmissionReminderJob]
	logger     *slog.Logger
	dispatcher Dispatcher
}

// NewSubmissionReminderWorker creates a worker for submission reminders.
func NewSubmissionReminderWorker(logger *slog.Logger, dispatcher Dispatcher) *SubmissionReminderWorker {
	return &SubmissionReminderWorker{logger: logger, dispatcher: dispatcher}
}

// Work delivers the reminder. The dispatcher re-checks the stored status, so
// a reminder cancelled after the job was scheduled is a no-op.
func (w *SubmissionReminderWorker) Work(ctx context.Context, job *river.Job[SubmissionReminderJob]) error {
	w.logger.InfoContext(ctx, "Running submission reminder job",
		slog.String("round_id", job.Args.RoundID.String()),
		slog.String("notification_id", job.Args.NotificationID.String()),
	)
	return w.dispatcher.DispatchScheduled(ctx, job.Args.NotificationID)
}

// VotingReminderWorker executes voting reminder jobs.
type VotingReminderWorker struct {
	river.WorkerDefaults[VotingReminderJob]
	logger     *slog.Logger
	dispatcher Dispatcher
}

// NewVotingReminderWorker creates a worker for voting reminders.
func NewVotingReminderWorker(logger *slog.Logger, dispatcher Dispatcher) *VotingReminderWorker {
	return &VotingReminderWorker{logger: logger, dispatcher: dispatcher}
}

// Work delivers the reminder.
func (w *VotingReminderWorker) Work(ctx context.Context, job *river.Job[VotingReminderJob]) error {
	w.logger.InfoContext(ctx, "Running voting reminder job",
		slog.String("round_id", job.Args.RoundID.String()),
		slog.String("notification_id", job.Args.NotificationID.String()),
	)
	return w.dispatcher.DispatchScheduled(ctx, job.Args.NotificationID)
}
