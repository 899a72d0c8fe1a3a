package leagueservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	leaguedomain "github.com/jas7457/playlist-party/app/modules/league/domain"
	rounddomain "github.com/jas7457/playlist-party/app/modules/round/domain"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
	votedomain "github.com/jas7457/playlist-party/app/modules/vote/domain"
)

// StandingsResult is the league table plus its conspirator pair.
type StandingsResult struct {
	Standings    []leaguedomain.UserStanding
	Conspirators *leaguedomain.Conspirators
}

// Standings aggregates every completed round into the league table. Rounds
// still in progress are excluded so the table never moves mid-round.
func (s *LeagueService) Standings(ctx context.Context, leagueID, viewerID uuid.UUID) (*StandingsResult, error) {
	league, err := s.GetLeague(ctx, leagueID, viewerID)
	if err != nil {
		return nil, err
	}

	rounds, err := s.roundDB.ListByLeague(ctx, nil, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	now := time.Now()
	var results []leaguedomain.RoundResult
	for i := range rounds {
		round := &rounds[i]

		votes, err := s.voteDB.ListByRound(ctx, nil, round.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load votes for round: %w", err)
		}
		submissions, err := s.submissionDB.ListByRound(ctx, nil, round.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load submissions for round: %w", err)
		}

		domainVotes := votedb.DomainVotes(votes)
		stage := rounddomain.ResolveStage(rounddomain.StageInput{
			Schedule:        round.Schedule(league.DaysForSubmission, league.DaysForVoting),
			MemberCount:     len(league.MemberIDs),
			VotesPerRound:   league.VotesPerRound,
			SubmissionCount: len(submissions),
			TotalPoints:     votedomain.TotalPoints(domainVotes),
			Now:             now,
		})
		if stage != rounddomain.StageCompleted {
			continue
		}

		domainSubs := make([]votedomain.Submission, len(submissions))
		for j, sub := range submissions {
			domainSubs[j] = votedomain.Submission{ID: sub.ID, UserID: sub.UserID}
		}
		results = append(results, leaguedomain.RoundResult{
			Votes:       domainVotes,
			Submissions: domainSubs,
		})
	}

	standings, conspirators := leaguedomain.ComputeStandings(league.MemberIDs, results)
	return &StandingsResult{Standings: standings, Conspirators: conspirators}, nil
}
