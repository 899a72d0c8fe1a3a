package submissionservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	submissiondomain "github.com/jas7457/playlist-party/app/modules/submission/domain"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
)

// UpdateOnDeck replaces the user's shortlist for the round, diffed by track
// id: tracks no longer listed are removed, new ones inserted, survivors kept
// untouched (preserving their added-to-playlist flag).
func (s *SubmissionService) UpdateOnDeck(ctx context.Context, userID, roundID uuid.UUID, tracks []submissiondomain.TrackInfo) ([]submissiondb.OnDeckSubmission, error) {
	if _, _, err := s.loadRound(ctx, roundID, userID); err != nil {
		return nil, err
	}

	existing, err := s.onDeckDB.ListByRoundAndUser(ctx, nil, roundID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load on-deck list: %w", err)
	}

	keep := make(map[string]bool, len(tracks))
	for _, track := range tracks {
		keep[track.TrackID] = true
	}

	var removed []string
	have := make(map[string]bool, len(existing))
	for _, od := range existing {
		have[od.TrackID] = true
		if !keep[od.TrackID] {
			removed = append(removed, od.TrackID)
		}
	}
	if len(removed) > 0 {
		if err := s.onDeckDB.DeleteByTrackIDs(ctx, nil, roundID, userID, removed); err != nil {
			return nil, fmt.Errorf("failed to remove on-deck tracks: %w", err)
		}
	}

	for _, track := range tracks {
		if have[track.TrackID] {
			continue
		}
		onDeck := &submissiondb.OnDeckSubmission{
			RoundID:       roundID,
			UserID:        userID,
			TrackID:       track.TrackID,
			Title:         track.Title,
			Artists:       track.Artists,
			AlbumName:     track.AlbumName,
			AlbumImageURL: track.AlbumImageURL,
		}
		if err := s.onDeckDB.Insert(ctx, nil, onDeck); err != nil {
			return nil, fmt.Errorf("failed to add on-deck track: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "On-deck list updated",
		slog.String("round_id", roundID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("tracks", len(tracks)),
		slog.Int("removed", len(removed)),
	)

	return s.onDeckDB.ListByRoundAndUser(ctx, nil, roundID, userID)
}
