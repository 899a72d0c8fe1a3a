package submissionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationdomain "github.com/jas7457/playlist-party/app/modules/notification/domain"
	rounddomain "github.com/jas7457/playlist-party/app/modules/round/domain"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondomain "github.com/jas7457/playlist-party/app/modules/submission/domain"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	votedomain "github.com/jas7457/playlist-party/app/modules/vote/domain"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// SubmitInput is a candidate song for a round.
type SubmitInput struct {
	Track      submissiondomain.TrackInfo
	Note       string
	YoutubeURL string
	// Force overrides a title/artist or artist-only duplicate warning.
	// Exact duplicates can never be forced.
	Force bool
}

// SubmitResult is either an accepted submission or a forceable duplicate
// awaiting the user's confirmation.
type SubmitResult struct {
	Submission *submissiondb.Submission
	Duplicate  *submissiondomain.Match
}

// Submit records the user's song for the round, replacing any previous entry
// of theirs. Duplicate checks against other users' songs run before and again
// after the write; a conflict that appears in between rolls the write back.
func (s *SubmissionService) Submit(ctx context.Context, userID, roundID uuid.UUID, in SubmitInput) (*SubmitResult, error) {
	if in.Track.TrackID == "" || in.Track.Title == "" {
		return nil, fmt.Errorf("%w: track id and title are required", ErrInvalidInput)
	}

	round, league, err := s.loadRound(ctx, roundID, userID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissionDB.ListByRound(ctx, nil, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	if err := s.checkStage(ctx, round, league, submissions, userID); err != nil {
		return nil, err
	}

	if match := findConflict(in.Track, submissions, userID, in.Force); match != nil {
		return duplicateResult(match)
	}

	submission := &submissiondb.Submission{
		RoundID:       roundID,
		UserID:        userID,
		TrackID:       in.Track.TrackID,
		Title:         in.Track.Title,
		Artists:       in.Track.Artists,
		AlbumName:     in.Track.AlbumName,
		AlbumImageURL: in.Track.AlbumImageURL,
		Note:          in.Note,
		YoutubeURL:    in.YoutubeURL,
	}
	if err := s.submissionDB.Upsert(ctx, nil, submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	// Re-check after the write. A concurrent submit may have landed a
	// conflicting song between our check and our write; if so, roll our
	// row back and report the conflict as if the check had caught it.
	after, err := s.submissionDB.ListByRound(ctx, nil, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check submissions: %w", err)
	}
	if match := findConflict(in.Track, after, userID, in.Force); match != nil {
		if err := s.submissionDB.Delete(ctx, nil, submission.ID); err != nil {
			s.logger.ErrorContext(ctx, "Failed to roll back conflicting submission",
				slog.String("submission_id", submission.ID.String()),
				slog.Any("error", err),
			)
		}
		return duplicateResult(match)
	}

	s.metrics.SubmissionsTotal.Inc()
	s.logger.InfoContext(ctx, "Submission saved",
		slog.String("round_id", roundID.String()),
		slog.String("user_id", userID.String()),
		slog.String("track_id", in.Track.TrackID),
	)

	s.notifySubmissionProgress(ctx, league, round, submissions, after, userID)
	s.broadcaster.RoundUpdated(ctx, league.ID, roundID)

	return &SubmitResult{Submission: submission}, nil
}

func (s *SubmissionService) loadRound(ctx context.Context, roundID, userID uuid.UUID) (*rounddb.Round, *leaguedb.League, error) {
	round, err := s.roundDB.GetByID(ctx, nil, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return nil, nil, ErrRoundNotFound
		}
		return nil, nil, fmt.Errorf("failed to load round: %w", err)
	}
	league, err := s.leagueDB.GetByID(ctx, nil, round.LeagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load league: %w", err)
	}
	if !league.IsMember(userID) {
		return nil, nil, ErrNotMember
	}
	return round, league, nil
}

func (s *SubmissionService) checkStage(ctx context.Context, round *rounddb.Round, league *leaguedb.League, submissions []submissiondb.Submission, userID uuid.UUID) error {
	votes, err := s.voteDB.ListByRound(ctx, nil, round.ID)
	if err != nil {
		return fmt.Errorf("failed to load votes: %w", err)
	}
	stage := rounddomain.ResolveStage(rounddomain.StageInput{
		Schedule:        round.Schedule(league.DaysForSubmission, league.DaysForVoting),
		MemberCount:     len(league.MemberIDs),
		VotesPerRound:   league.VotesPerRound,
		SubmissionCount: len(submissions),
		TotalPoints:     votedomain.TotalPoints(votedb.DomainVotes(votes)),
		Now:             time.Now(),
	})
	if stage != rounddomain.StageSubmission {
		return ErrNotInSubmissionStage
	}
	return nil
}

// findConflict classifies the candidate against other users' submissions and
// returns the strongest blocking match, or nil when the submit may proceed.
// A user's own previous entry never blocks.
func findConflict(candidate submissiondomain.TrackInfo, submissions []submissiondb.Submission, userID uuid.UUID, force bool) *submissiondomain.Match {
	var existing []submissiondomain.ExistingSubmission
	for _, sub := range submissions {
		if sub.UserID == userID {
			continue
		}
		existing = append(existing, submissiondomain.ExistingSubmission{
			UserID: sub.UserID,
			Track:  sub.TrackInfo(),
		})
	}

	matches := submissiondomain.ClassifyMatches(candidate, existing)
	var forceable *submissiondomain.Match
	for i := range matches {
		if matches[i].Reason.Blocking() {
			return &matches[i]
		}
		if forceable == nil {
			forceable = &matches[i]
		}
	}
	if forceable != nil && !force {
		return forceable
	}
	return nil
}

func duplicateResult(match *submissiondomain.Match) (*SubmitResult, error) {
	if match.Reason.Blocking() {
		return &SubmitResult{Duplicate: match}, ErrDuplicateSubmission
	}
	return &SubmitResult{Duplicate: match}, nil
}

func (s *SubmissionService) notifySubmissionProgress(ctx context.Context, league *leaguedb.League, round *rounddb.Round, before, after []submissiondb.Submission, userID uuid.UUID) {
	beforeState := participation(league.MemberIDs, before)
	afterState := participation(league.MemberIDs, after)
	// The re-listed state may already include other users' rows; our own
	// row is what just changed, so force it done in the after snapshot.
	afterState.Done[userID] = true

	triggers := notificationdomain.SubmissionTriggers(beforeState, afterState)
	if len(triggers) > 0 {
		s.dispatcher.Dispatch(ctx, league.ID, round.ID, triggers)
	}
}

func participation(members []uuid.UUID, submissions []submissiondb.Submission) notificationdomain.ParticipationState {
	done := make(map[uuid.UUID]bool, len(submissions))
	for _, sub := range submissions {
		done[sub.UserID] = true
	}
	return notificationdomain.ParticipationState{Members: members, Done: done}
}
