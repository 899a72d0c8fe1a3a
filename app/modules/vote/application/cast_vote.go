package voteservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationdomain "github.com/jas7457/playlist-party/app/modules/notification/domain"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	votedomain "github.com/jas7457/playlist-party/app/modules/vote/domain"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// CastVoteInput is one point allocation toward a submission.
type CastVoteInput struct {
	SubmissionID  uuid.UUID
	Points        int
	Note          string
	GuessedUserID *uuid.UUID
}

// CastVoteResult reports what the cast did to the vote record.
type CastVoteResult struct {
	Vote    *votedb.Vote
	Deleted bool
}

// CastVote records, updates, or retracts a vote:
//
//   - points == 0 with an existing vote deletes it, freeing its budget
//   - points == 0 with no vote is a no-op success
//   - points > 0 upserts the vote in place
//
// The budget check runs inside a transaction that locks the voter's existing
// round votes, so concurrent casts by the same user serialize and can never
// overrun the budget between the check and the write.
func (s *VoteService) CastVote(ctx context.Context, voterID, roundID uuid.UUID, in CastVoteInput) (*CastVoteResult, error) {
	if in.Points < 0 {
		return nil, ErrInvalidPoints
	}

	round, err := s.roundDB.GetByID(ctx, nil, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to load round: %w", err)
	}
	league, err := s.leagueDB.GetByID(ctx, nil, round.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	if !league.IsMember(voterID) {
		return nil, ErrNotMember
	}

	submissions, err := s.submissionDB.ListByRound(ctx, nil, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	owned := false
	for _, sub := range submissions {
		if sub.ID == in.SubmissionID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, ErrSubmissionNotFound
	}

	now := time.Now()
	schedule := round.Schedule(league.DaysForSubmission, league.DaysForVoting)
	if !now.Before(schedule.VotingEnd()) {
		return nil, ErrVotingEnded
	}
	// Voting opens once everyone has submitted, possibly before the
	// nominal window start.
	if len(submissions) < len(league.MemberIDs) {
		return nil, ErrVotingNotOpen
	}

	before, err := s.participation(ctx, league, roundID)
	if err != nil {
		return nil, err
	}

	result := &CastVoteResult{}
	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// The lock serializes concurrent casts by this voter in this
		// round; the budget check below is safe against races.
		votes, err := s.voteDB.ListByRoundAndUserForUpdate(ctx, tx, roundID, voterID)
		if err != nil {
			return err
		}

		var existing *votedb.Vote
		otherTotal := 0
		for i := range votes {
			if votes[i].SubmissionID == in.SubmissionID {
				existing = &votes[i]
				continue
			}
			otherTotal += votes[i].Points
		}

		if in.Points == 0 {
			if existing == nil {
				return nil
			}
			if err := s.voteDB.Delete(ctx, tx, in.SubmissionID, voterID); err != nil {
				return err
			}
			result.Deleted = true
			return nil
		}

		if otherTotal+in.Points > league.VotesPerRound {
			return &BudgetExceededError{Over: otherTotal + in.Points - league.VotesPerRound}
		}

		vote := &votedb.Vote{
			RoundID:       roundID,
			SubmissionID:  in.SubmissionID,
			UserID:        voterID,
			Points:        in.Points,
			Note:          in.Note,
			GuessedUserID: in.GuessedUserID,
		}
		// Re-casting adjusts points; an omitted note or guess keeps the
		// stored one rather than wiping it.
		if existing != nil {
			vote.ID = existing.ID
			vote.CreatedAt = existing.CreatedAt
			if in.Note == "" {
				vote.Note = existing.Note
			}
			if in.GuessedUserID == nil {
				vote.GuessedUserID = existing.GuessedUserID
			}
		}
		if err := s.voteDB.Upsert(ctx, tx, vote); err != nil {
			return err
		}
		result.Vote = vote
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.VotesCast.Inc()
	s.logger.InfoContext(ctx, "Vote recorded",
		slog.String("round_id", roundID.String()),
		slog.String("voter_id", voterID.String()),
		slog.Int("points", in.Points),
		slog.Bool("deleted", result.Deleted),
	)

	s.notifyVoteProgress(ctx, league, round, before)
	s.broadcaster.VotesUpdated(ctx, league.ID, roundID)

	return result, nil
}

// participation snapshots which members have spent their full budget.
func (s *VoteService) participation(ctx context.Context, league *leaguedb.League, roundID uuid.UUID) (notificationdomain.ParticipationState, error) {
	votes, err := s.voteDB.ListByRound(ctx, nil, roundID)
	if err != nil {
		return notificationdomain.ParticipationState{}, fmt.Errorf("failed to load votes: %w", err)
	}
	spent := votedomain.SpentByVoter(votedb.DomainVotes(votes))
	done := make(map[uuid.UUID]bool, len(spent))
	for userID, points := range spent {
		if points >= league.VotesPerRound {
			done[userID] = true
		}
	}
	return notificationdomain.ParticipationState{Members: league.MemberIDs, Done: done}, nil
}

func (s *VoteService) notifyVoteProgress(ctx context.Context, league *leaguedb.League, round *rounddb.Round, before notificationdomain.ParticipationState) {
	after, err := s.participation(ctx, league, round.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to snapshot vote participation",
			slog.String("round_id", round.ID.String()),
			slog.Any("error", err),
		)
		return
	}

	vctx, err := s.voteContext(ctx, league, round)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build vote trigger context",
			slog.String("round_id", round.ID.String()),
			slog.Any("error", err),
		)
		return
	}

	triggers := notificationdomain.VoteTriggers(before, after, vctx)
	if len(triggers) > 0 {
		s.dispatcher.Dispatch(ctx, league.ID, round.ID, triggers)
	}
}

// voteContext works out whether this round closes the league and which
// members are still owed a round of their own.
func (s *VoteService) voteContext(ctx context.Context, league *leaguedb.League, round *rounddb.Round) (notificationdomain.VoteContext, error) {
	rounds, err := s.roundDB.ListByLeague(ctx, nil, league.ID)
	if err != nil {
		return notificationdomain.VoteContext{}, fmt.Errorf("failed to list rounds: %w", err)
	}

	created := make(map[uuid.UUID]bool)
	latestStart := round.SubmissionStartDate
	for _, r := range rounds {
		if r.IsBonusRound {
			continue
		}
		created[r.CreatorID] = true
		if r.SubmissionStartDate.After(latestStart) {
			latestStart = r.SubmissionStartDate
		}
	}

	var pendingCreators []uuid.UUID
	for _, member := range league.MemberIDs {
		if !created[member] {
			pendingCreators = append(pendingCreators, member)
		}
	}

	return notificationdomain.VoteContext{
		LastRound: !round.IsBonusRound &&
			len(pendingCreators) == 0 &&
			!round.SubmissionStartDate.Before(latestStart),
		PendingRoundCreators: pendingCreators,
	}, nil
}
