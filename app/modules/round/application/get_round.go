package roundservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	rounddomain "github.com/jas7457/playlist-party/app/modules/round/domain"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	votedomain "github.com/jas7457/playlist-party/app/modules/vote/domain"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// RoundView is a round decorated with its derived windows and the viewer's
// stage. None of the derived fields are persisted.
type RoundView struct {
	Round *rounddb.Round

	Stage           rounddomain.Stage
	SubmissionEnd   time.Time
	VotingStart     time.Time
	VotingEnd       time.Time
	SubmissionCount int

	// ViewerSpent is the points the viewing user has cast in this round.
	ViewerSpent int

	Submissions []submissiondb.Submission

	// UserPoints is populated once the round completes; live tallies stay
	// hidden so voting is blind.
	UserPoints map[uuid.UUID]int
}

// GetRound loads one round decorated for the viewing user.
func (s *RoundService) GetRound(ctx context.Context, roundID, viewerID uuid.UUID) (*RoundView, error) {
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
	if !league.IsMember(viewerID) {
		return nil, ErrNotMember
	}

	return s.decorate(ctx, round, league, viewerID)
}

// ListRounds returns every round in the league, decorated for the viewer.
func (s *RoundService) ListRounds(ctx context.Context, leagueID, viewerID uuid.UUID) ([]RoundView, error) {
	league, err := s.leagueDB.GetByID(ctx, nil, leagueID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	if !league.IsMember(viewerID) {
		return nil, ErrNotMember
	}

	rounds, err := s.roundDB.ListByLeague(ctx, nil, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	views := make([]RoundView, 0, len(rounds))
	for i := range rounds {
		view, err := s.decorate(ctx, &rounds[i], league, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *RoundService) decorate(ctx context.Context, round *rounddb.Round, league *leaguedb.League, viewerID uuid.UUID) (*RoundView, error) {
	submissions, err := s.submissionDB.ListByRound(ctx, nil, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	votes, err := s.voteDB.ListByRound(ctx, nil, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}

	domainVotes := votedb.DomainVotes(votes)
	spent := votedomain.SpentByVoter(domainVotes)

	schedule := round.Schedule(league.DaysForSubmission, league.DaysForVoting)
	stage := rounddomain.ResolveStage(rounddomain.StageInput{
		Schedule:        schedule,
		MemberCount:     len(league.MemberIDs),
		VotesPerRound:   league.VotesPerRound,
		SubmissionCount: len(submissions),
		TotalPoints:     votedomain.TotalPoints(domainVotes),
		ViewerPoints:    spent[viewerID],
		Now:             time.Now(),
	})
	if stage == rounddomain.StageUnknown {
		s.logger.WarnContext(ctx, "Round resolved to unknown stage",
			slog.String("round_id", round.ID.String()),
			slog.Time("submission_start", round.SubmissionStartDate),
		)
		s.metrics.StageUnknown.Inc()
	}

	view := &RoundView{
		Round:           round,
		Stage:           stage,
		SubmissionEnd:   schedule.SubmissionEnd(),
		VotingStart:     schedule.VotingStart(),
		VotingEnd:       schedule.VotingEnd(),
		SubmissionCount: len(submissions),
		ViewerSpent:     spent[viewerID],
		Submissions:     submissions,
	}
	if stage == rounddomain.StageCompleted {
		domainSubs := make([]votedomain.Submission, len(submissions))
		for i, sub := range submissions {
			domainSubs[i] = votedomain.Submission{ID: sub.ID, UserID: sub.UserID}
		}
		view.UserPoints = votedomain.UserPoints(domainVotes, domainSubs)
	}
	return view, nil
}
