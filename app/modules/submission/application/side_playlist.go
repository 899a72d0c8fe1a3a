package submissionservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	submissiondomain "github.com/jas7457/playlist-party/app/modules/submission/domain"
)

// SaveToSidePlaylist pushes the user's un-added on-deck tracks to the round's
// shared side playlist, creating the playlist on first use. Tracks that
// duplicate an actual submission in the round are skipped.
func (s *SubmissionService) SaveToSidePlaylist(ctx context.Context, userID, roundID uuid.UUID) error {
	round, league, err := s.loadRound(ctx, roundID, userID)
	if err != nil {
		return err
	}

	onDeck, err := s.onDeckDB.ListByRoundAndUser(ctx, nil, roundID, userID)
	if err != nil {
		return fmt.Errorf("failed to load on-deck list: %w", err)
	}

	submissions, err := s.submissionDB.ListByRound(ctx, nil, roundID)
	if err != nil {
		return fmt.Errorf("failed to load submissions: %w", err)
	}
	var existing []submissiondomain.ExistingSubmission
	for _, sub := range submissions {
		existing = append(existing, submissiondomain.ExistingSubmission{
			UserID: sub.UserID,
			Track:  sub.TrackInfo(),
		})
	}

	var ids []uuid.UUID
	var trackIDs []string
	for _, od := range onDeck {
		if od.AddedToPlaylist {
			continue
		}
		if len(submissiondomain.ClassifyMatches(od.TrackInfo(), existing)) > 0 {
			continue
		}
		ids = append(ids, od.ID)
		trackIDs = append(trackIDs, od.TrackID)
	}
	if len(trackIDs) == 0 {
		return nil
	}

	playlistID := round.PlaylistID
	if playlistID == "" {
		playlistID, err = s.playlists.CreatePlaylist(ctx, fmt.Sprintf("%s: %s (on deck)", league.Title, round.Title))
		if err != nil {
			return fmt.Errorf("failed to create side playlist: %w", err)
		}
		if err := s.roundDB.SetPlaylistID(ctx, nil, roundID, playlistID); err != nil {
			return fmt.Errorf("failed to link side playlist: %w", err)
		}
	}

	if err := s.playlists.AddTracks(ctx, playlistID, trackIDs); err != nil {
		return fmt.Errorf("failed to push tracks to side playlist: %w", err)
	}
	if err := s.onDeckDB.MarkAddedToPlaylist(ctx, nil, ids); err != nil {
		return fmt.Errorf("failed to mark tracks as added: %w", err)
	}

	s.logger.InfoContext(ctx, "On-deck tracks pushed to side playlist",
		slog.String("round_id", roundID.String()),
		slog.String("playlist_id", playlistID),
		slog.Int("tracks", len(trackIDs)),
	)
	return nil
}
