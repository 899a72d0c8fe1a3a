package submissiondb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	submissiondomain "github.com/jas7457/playlist-party/app/modules/submission/domain"
)

// Submission is one user's song entry for one round. The unique
// (round_id, user_id) constraint enforces the one-entry-per-user invariant at
// the database.
type Submission struct {
	bun.BaseModel `bun:"table:song_submissions,alias:s"`

	ID      uuid.UUID `bun:"id,pk,type:uuid"`
	RoundID uuid.UUID `bun:"round_id,notnull,type:uuid,unique:song_submissions_round_user_key"`
	UserID  uuid.UUID `bun:"user_id,notnull,type:uuid,unique:song_submissions_round_user_key"`

	TrackID       string   `bun:"track_id,notnull"`
	Title         string   `bun:"title,notnull"`
	Artists       []string `bun:"artists,array,notnull"`
	AlbumName     string   `bun:"album_name,nullzero"`
	AlbumImageURL string   `bun:"album_image_url,nullzero"`

	Note       string `bun:"note,nullzero"`
	YoutubeURL string `bun:"youtube_url,nullzero"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// TrackInfo converts the persisted row back to the domain shape.
func (s *Submission) TrackInfo() submissiondomain.TrackInfo {
	return submissiondomain.TrackInfo{
		TrackID:       s.TrackID,
		Title:         s.Title,
		Artists:       s.Artists,
		AlbumName:     s.AlbumName,
		AlbumImageURL: s.AlbumImageURL,
	}
}

// OnDeckSubmission is a shortlisted-but-not-submitted candidate track for a
// round, independent of the user's actual submission. Not part of scoring.
type OnDeckSubmission struct {
	bun.BaseModel `bun:"table:on_deck_song_submissions,alias:od"`

	ID      uuid.UUID `bun:"id,pk,type:uuid"`
	RoundID uuid.UUID `bun:"round_id,notnull,type:uuid,unique:on_deck_round_user_track_key"`
	UserID  uuid.UUID `bun:"user_id,notnull,type:uuid,unique:on_deck_round_user_track_key"`
	TrackID string    `bun:"track_id,notnull,unique:on_deck_round_user_track_key"`

	Title         string   `bun:"title,notnull"`
	Artists       []string `bun:"artists,array,notnull"`
	AlbumName     string   `bun:"album_name,nullzero"`
	AlbumImageURL string   `bun:"album_image_url,nullzero"`

	// AddedToPlaylist marks tracks already pushed to the round's shared
	// side playlist, so a second push skips them.
	AddedToPlaylist bool `bun:"added_to_playlist,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// TrackInfo converts the persisted row back to the domain shape.
func (o *OnDeckSubmission) TrackInfo() submissiondomain.TrackInfo {
	return submissiondomain.TrackInfo{
		TrackID:       o.TrackID,
		Title:         o.Title,
		Artists:       o.Artists,
		AlbumName:     o.AlbumName,
		AlbumImageURL: o.AlbumImageURL,
	}
}
