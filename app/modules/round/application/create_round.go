package roundservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	notificationdomain "github.com/jas7457/playlist-party/app/modules/notification/domain"
	notificationdb "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/repositories"
	rounddomain "github.com/jas7457/playlist-party/app/modules/round/domain"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
)

// CreateRoundInput carries the fields needed to schedule a round.
type CreateRoundInput struct {
	Title        string
	Description  string
	IsBonusRound bool
}

// CreateRound creates a round for the league. Regular rounds are chained
// after the latest scheduled round's voting end; bonus rounds start
// immediately and run in parallel.
func (s *RoundService) CreateRound(ctx context.Context, creatorID, leagueID uuid.UUID, in CreateRoundInput) (*rounddb.Round, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	league, err := s.leagueDB.GetByID(ctx, nil, leagueID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	if !league.IsMember(creatorID) {
		return nil, ErrNotMember
	}

	now := time.Now()
	var start time.Time
	if in.IsBonusRound {
		start = now
	} else {
		var prevVotingEnd *time.Time
		latest, err := s.roundDB.GetLatestScheduled(ctx, nil, leagueID)
		if err != nil && !errors.Is(err, rounddb.ErrNotFound) {
			return nil, fmt.Errorf("failed to find latest round: %w", err)
		}
		if latest != nil {
			end := latest.Schedule(league.DaysForSubmission, league.DaysForVoting).VotingEnd()
			prevVotingEnd = &end
		}
		start = rounddomain.NextSubmissionStart(league.StartDate, prevVotingEnd)
	}

	round := &rounddb.Round{
		LeagueID:            leagueID,
		CreatorID:           creatorID,
		Title:               strings.TrimSpace(in.Title),
		Description:         in.Description,
		SubmissionStartDate: start,
		IsBonusRound:        in.IsBonusRound,
	}
	if err := s.roundDB.Create(ctx, nil, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	s.logger.InfoContext(ctx, "Round created",
		slog.String("round_id", round.ID.String()),
		slog.String("league_id", leagueID.String()),
		slog.Time("submission_start", start),
		slog.Bool("bonus", in.IsBonusRound),
	)

	s.scheduleReminders(ctx, league, round)

	// A round whose window is already open announces itself right away.
	if !now.Before(start) {
		s.dispatcher.Dispatch(ctx, leagueID, round.ID, []notificationdomain.Trigger{
			{Code: notificationdomain.CodeRoundStarted, UserIDs: league.MemberIDs},
		})
	}
	s.broadcaster.RoundUpdated(ctx, leagueID, round.ID)

	return round, nil
}

// scheduleReminders queues the midpoint reminders for the round's submission
// and voting windows. Scheduling failures are logged, not fatal: the round
// exists either way.
func (s *RoundService) scheduleReminders(ctx context.Context, league *leaguedb.League, round *rounddb.Round) {
	schedule := round.Schedule(league.DaysForSubmission, league.DaysForVoting)

	submissionMid := midpoint(schedule.SubmissionStart, schedule.SubmissionEnd())
	votingMid := midpoint(schedule.VotingStart(), schedule.VotingEnd())

	s.scheduleReminder(ctx, league, round, notificationdomain.CodeSubmissionReminder, submissionMid)
	s.scheduleReminder(ctx, league, round, notificationdomain.CodeVotingReminder, votingMid)
}

func (s *RoundService) scheduleReminder(ctx context.Context, league *leaguedb.League, round *rounddb.Round, code notificationdomain.Code, at time.Time) {
	roundID := round.ID
	notification := &notificationdb.ScheduledNotification{
		LeagueID:  league.ID,
		RoundID:   &roundID,
		Type:      string(code),
		UserIDs:   league.MemberIDs,
		ExecuteAt: at,
	}
	if err := s.notificationDB.Create(ctx, nil, notification); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record scheduled reminder",
			slog.String("round_id", round.ID.String()),
			slog.String("code", string(code)),
			slog.Any("error", err),
		)
		return
	}

	var err error
	switch code {
	case notificationdomain.CodeSubmissionReminder:
		err = s.queue.ScheduleSubmissionReminder(ctx, league.ID, round.ID, notification.ID, at)
	case notificationdomain.CodeVotingReminder:
		err = s.queue.ScheduleVotingReminder(ctx, league.ID, round.ID, notification.ID, at)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to schedule reminder job",
			slog.String("round_id", round.ID.String()),
			slog.String("code", string(code)),
			slog.Any("error", err),
		)
	}
}

func midpoint(from, to time.Time) time.Time {
	return from.Add(to.Sub(from) / 2)
}
