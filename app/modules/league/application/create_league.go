package leagueservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
)

// CreateLeagueInput carries the fields needed to start a league.
type CreateLeagueInput struct {
	Title             string
	Description       string
	MemberIDs         []uuid.UUID
	VotesPerRound     int
	DaysForSubmission int
	DaysForVoting     int
	StartDate         time.Time
}

// CreateLeague creates a league with the caller as owner and first member.
func (s *LeagueService) CreateLeague(ctx context.Context, ownerID uuid.UUID, in CreateLeagueInput) (*leaguedb.League, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.VotesPerRound <= 0 {
		return nil, fmt.Errorf("%w: votes per round must be positive", ErrInvalidInput)
	}
	if in.DaysForSubmission <= 0 || in.DaysForVoting <= 0 {
		return nil, fmt.Errorf("%w: submission and voting durations must be positive", ErrInvalidInput)
	}

	if in.StartDate.IsZero() {
		in.StartDate = time.Now()
	}

	// Owner leads the roster; member order is load-bearing for tiebreaks.
	members := []uuid.UUID{ownerID}
	seen := map[uuid.UUID]bool{ownerID: true}
	for _, id := range in.MemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	league := &leaguedb.League{
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		OwnerID:           ownerID,
		MemberIDs:         members,
		VotesPerRound:     in.VotesPerRound,
		DaysForSubmission: in.DaysForSubmission,
		DaysForVoting:     in.DaysForVoting,
		StartDate:         in.StartDate,
	}

	if err := s.leagueDB.Create(ctx, nil, league); err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	s.logger.InfoContext(ctx, "League created",
		slog.String("league_id", league.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.Int("members", len(members)),
	)
	return league, nil
}
