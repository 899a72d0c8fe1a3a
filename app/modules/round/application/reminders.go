package roundservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	notificationqueue "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/queue"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
)

// ListReminders returns the reminder jobs still queued for a round, so members
// can see when the next nudge will land.
func (s *RoundService) ListReminders(ctx context.Context, roundID, viewerID uuid.UUID) ([]notificationqueue.JobInfo, error) {
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

	jobs, err := s.queue.GetScheduledJobs(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder jobs: %w", err)
	}
	return jobs, nil
}
