package submissionservice

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	submissiondomain "github.com/jas7457/playlist-party/app/modules/submission/domain"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
)

func TestUpdateOnDeck(t *testing.T) {
	t.Run("diffs by track id", func(t *testing.T) {
		fx := newSubmitFixture(t)
		user := fx.members[0]
		ctx := context.Background()

		fx.onDeck.Seed(submissiondb.OnDeckSubmission{
			RoundID:         fx.round.ID,
			UserID:          user,
			TrackID:         "keep",
			Title:           "Keeper",
			Artists:         []string{"Band A"},
			AddedToPlaylist: true,
		})
		fx.onDeck.Seed(submissiondb.OnDeckSubmission{
			RoundID: fx.round.ID,
			UserID:  user,
			TrackID: "drop",
			Title:   "Dropped",
			Artists: []string{"Band B"},
		})

		result, err := fx.service.UpdateOnDeck(ctx, user, fx.round.ID, []submissiondomain.TrackInfo{
			track("keep", "Keeper", "Band A"),
			track("new", "Newcomer", "Band C"),
		})
		require.NoError(t, err)
		require.Len(t, result, 2)

		byTrack := make(map[string]submissiondb.OnDeckSubmission, len(result))
		for _, od := range result {
			byTrack[od.TrackID] = od
		}
		require.Contains(t, byTrack, "keep")
		require.Contains(t, byTrack, "new")
		assert.NotContains(t, byTrack, "drop")

		// Survivors keep their playlist flag through the diff.
		assert.True(t, byTrack["keep"].AddedToPlaylist)
		assert.False(t, byTrack["new"].AddedToPlaylist)
	})

	t.Run("requires membership", func(t *testing.T) {
		fx := newSubmitFixture(t)

		_, err := fx.service.UpdateOnDeck(context.Background(), uuid.New(), fx.round.ID, nil)
		assert.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("empty list clears the shortlist", func(t *testing.T) {
		fx := newSubmitFixture(t)
		user := fx.members[0]

		fx.onDeck.Seed(submissiondb.OnDeckSubmission{
			RoundID: fx.round.ID,
			UserID:  user,
			TrackID: "only",
			Title:   "Only One",
			Artists: []string{"Band A"},
		})

		result, err := fx.service.UpdateOnDeck(context.Background(), user, fx.round.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestSaveToSidePlaylist(t *testing.T) {
	t.Run("creates the playlist once and pushes new tracks", func(t *testing.T) {
		fx := newSubmitFixture(t)
		user := fx.members[0]
		ctx := context.Background()

		fx.onDeck.Seed(submissiondb.OnDeckSubmission{
			RoundID: fx.round.ID,
			UserID:  user,
			TrackID: "fresh",
			Title:   "Fresh Cut",
			Artists: []string{"Band Z"},
		})

		require.NoError(t, fx.service.SaveToSidePlaylist(ctx, user, fx.round.ID))

		require.Len(t, fx.playlists.CreatedNames, 1)
		assert.Equal(t, "Indie League: Guilty Pleasures (on deck)", fx.playlists.CreatedNames[0])
		assert.Equal(t, []string{"fresh"}, fx.playlists.Added["playlist-1"])
		assert.Equal(t, "playlist-1", fx.rounds.PlaylistIDs[fx.round.ID])

		rows, err := fx.onDeck.ListByRoundAndUser(ctx, nil, fx.round.ID, user)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].AddedToPlaylist)
	})

	t.Run("reuses an existing playlist", func(t *testing.T) {
		fx := newSubmitFixture(t)
		user := fx.members[0]
		fx.round.PlaylistID = "existing-playlist"

		fx.onDeck.Seed(submissiondb.OnDeckSubmission{
			RoundID: fx.round.ID,
			UserID:  user,
			TrackID: "fresh",
			Title:   "Fresh Cut",
			Artists: []string{"Band Z"},
		})

		require.NoError(t, fx.service.SaveToSidePlaylist(context.Background(), user, fx.round.ID))
		assert.Empty(t, fx.playlists.CreatedNames)
		assert.Equal(t, []string{"fresh"}, fx.playlists.Added["existing-playlist"])
	})

	t.Run("skips already-pushed and submission-matching tracks", func(t *testing.T) {
		fx := newSubmitFixture(t)
		user := fx.members[0]
		ctx := context.Background()

		fx.store.Seed(submissiondb.Submission{
			RoundID: fx.round.ID,
			UserID:  fx.members[1],
			TrackID: "submitted",
			Title:   "Submitted Song",
			Artists: []string{"Band A"},
		})
		fx.onDeck.Seed(submissiondb.OnDeckSubmission{
			RoundID:         fx.round.ID,
			UserID:          user,
			TrackID:         "pushed",
			Title:           "Already There",
			Artists:         []string{"Band B"},
			AddedToPlaylist: true,
		})
		// Same artist as the real submission, so it would duplicate it.
		fx.onDeck.Seed(submissiondb.OnDeckSubmission{
			RoundID: fx.round.ID,
			UserID:  user,
			TrackID: "dupe",
			Title:   "Some Other Song",
			Artists: []string{"Band A"},
		})

		require.NoError(t, fx.service.SaveToSidePlaylist(ctx, user, fx.round.ID))
		assert.Empty(t, fx.playlists.CreatedNames)
		assert.Empty(t, fx.playlists.Added)
	})
}
