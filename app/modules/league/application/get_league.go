package leagueservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
)

// GetLeague loads a league the viewer belongs to.
func (s *LeagueService) GetLeague(ctx context.Context, leagueID, viewerID uuid.UUID) (*leaguedb.League, error) {
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
	return league, nil
}

// ListLeagues returns the leagues the viewer belongs to.
func (s *LeagueService) ListLeagues(ctx context.Context, viewerID uuid.UUID) ([]leaguedb.League, error) {
	leagues, err := s.leagueDB.ListForUser(ctx, nil, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return leagues, nil
}

// JoinLeague adds the user to the league roster. Adding an existing member is
// a no-op.
func (s *LeagueService) JoinLeague(ctx context.Context, leagueID, userID uuid.UUID) error {
	if _, err := s.leagueDB.GetByID(ctx, nil, leagueID); err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return ErrLeagueNotFound
		}
		return fmt.Errorf("failed to load league: %w", err)
	}
	if err := s.leagueDB.AddMember(ctx, nil, leagueID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}
