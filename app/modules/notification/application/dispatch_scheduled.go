package notificationservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	notificationdomain "github.com/jas7457/playlist-party/app/modules/notification/domain"
	notificationdb "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/repositories"
	rounddomain "github.com/jas7457/playlist-party/app/modules/round/domain"
	votedomain "github.com/jas7457/playlist-party/app/modules/vote/domain"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// DispatchScheduled delivers a deferred reminder when its queue job fires.
// Recipients are recomputed at fire time: members who caught up since the
// reminder was scheduled are dropped, and a reminder whose round has already
// advanced past its window completes without sending anything.
func (d *Dispatcher) DispatchScheduled(ctx context.Context, notificationID uuid.UUID) error {
	notification, err := d.notificationDB.GetByID(ctx, nil, notificationID)
	if err != nil {
		if errors.Is(err, notificationdb.ErrNotFound) {
			d.logger.WarnContext(ctx, "Scheduled notification vanished before delivery",
				slog.String("notification_id", notificationID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to load scheduled notification: %w", err)
	}
	if notification.Status != notificationdb.StatusPending {
		return nil
	}
	if notification.RoundID == nil {
		return d.notificationDB.SetStatus(ctx, nil, notification.ID, notificationdb.StatusFailed)
	}

	recipients, err := d.scheduledRecipients(ctx, notification)
	if err != nil {
		return err
	}

	if len(recipients) > 0 {
		recipients, err = d.filterByPreference(ctx, recipients, notificationdomain.Code(notification.Type))
		if err != nil {
			return err
		}
	}
	if len(recipients) > 0 {
		d.broadcaster.Notify(ctx, notification.LeagueID, notification.Type, recipients)
		d.metrics.NotificationsSent.WithLabelValues(notification.Type).Inc()
	}

	return d.notificationDB.SetStatus(ctx, nil, notification.ID, notificationdb.StatusCompleted)
}

// scheduledRecipients narrows the stored recipient set to members still owed
// the reminder.
func (d *Dispatcher) scheduledRecipients(ctx context.Context, notification *notificationdb.ScheduledNotification) ([]uuid.UUID, error) {
	round, err := d.roundDB.GetByID(ctx, nil, *notification.RoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to load round for reminder: %w", err)
	}
	league, err := d.leagueDB.GetByID(ctx, nil, round.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load league for reminder: %w", err)
	}
	submissions, err := d.submissionDB.ListByRound(ctx, nil, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions for reminder: %w", err)
	}
	votes, err := d.voteDB.ListByRound(ctx, nil, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes for reminder: %w", err)
	}

	domainVotes := votedb.DomainVotes(votes)
	stage := rounddomain.ResolveStage(rounddomain.StageInput{
		Schedule:        round.Schedule(league.DaysForSubmission, league.DaysForVoting),
		MemberCount:     len(league.MemberIDs),
		VotesPerRound:   league.VotesPerRound,
		SubmissionCount: len(submissions),
		TotalPoints:     votedomain.TotalPoints(domainVotes),
		Now:             time.Now(),
	})

	switch notificationdomain.Code(notification.Type) {
	case notificationdomain.CodeSubmissionReminder:
		if stage != rounddomain.StageSubmission {
			return nil, nil
		}
		submitted := make(map[uuid.UUID]bool, len(submissions))
		for _, sub := range submissions {
			submitted[sub.UserID] = true
		}
		return pendingOf(notification.UserIDs, submitted), nil

	case notificationdomain.CodeVotingReminder:
		if stage != rounddomain.StageVoting && stage != rounddomain.StageCurrentUserVotingCompleted {
			return nil, nil
		}
		spent := votedomain.SpentByVoter(domainVotes)
		done := make(map[uuid.UUID]bool, len(spent))
		for userID, points := range spent {
			if points >= league.VotesPerRound {
				done[userID] = true
			}
		}
		return pendingOf(notification.UserIDs, done), nil

	default:
		// Other scheduled types go out to the stored set as-is.
		return notification.UserIDs, nil
	}
}

func pendingOf(userIDs []uuid.UUID, done map[uuid.UUID]bool) []uuid.UUID {
	var pending []uuid.UUID
	for _, id := range userIDs {
		if !done[id] {
			pending = append(pending, id)
		}
	}
	return pending
}
