package notificationqueue

import (
	"github.com/google/uuid"
)

// SubmissionReminderJob fires at the midpoint of a round's submission window
// and delivers the scheduled reminder to members who have not submitted.
type SubmissionReminderJob struct {
	LeagueID       uuid.UUID `json:"league_id"`
	RoundID        uuid.UUID `json:"round_id"`
	NotificationID uuid.UUID `json:"notification_id"`
}

// Kind returns the job type identifier for River.
func (SubmissionReminderJob) Kind() string { return "submission_reminder" }

// VotingReminderJob fires at the midpoint of a round's voting window and
// delivers the scheduled reminder to members who have not finished voting.
type VotingReminderJob struct {
	LeagueID       uuid.UUID `json:"league_id"`
	RoundID        uuid.UUID `json:"round_id"`
	NotificationID uuid.UUID `json:"notification_id"`
}

// Kind returns the job type identifier for River.
func (VotingReminderJob) Kind() string { return "voting_reminder" }

// JobInfo describes a scheduled job, used for monitoring.
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	RoundID     string `json:"round_id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
