package submissiondb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OnDeckImpl implements the OnDeckRepository interface using Bun ORM.
type OnDeckImpl struct {
	db bun.IDB
}

// NewOnDeckRepository creates a new on-deck shortlist repository.
func NewOnDeckRepository(db bun.IDB) OnDeckRepository {
	return &OnDeckImpl{db: db}
}

func (r *OnDeckImpl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListByRoundAndUser retrieves a user's shortlist for a round.
func (r *OnDeckImpl) ListByRoundAndUser(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) ([]OnDeckSubmission, error) {
	db = r.resolveDB(db)
	var onDeck []OnDeckSubmission
	err := db.NewSelect().
		Model(&onDeck).
		Where("round_id = ?", roundID).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list on-deck submissions: %w", err)
	}
	return onDeck, nil
}

// Insert adds a track to the shortlist. Re-adding an existing track is a
// no-op rather than an error.
func (r *OnDeckImpl) Insert(ctx context.Context, db bun.IDB, onDeck *OnDeckSubmission) error {
	db = r.resolveDB(db)
	if onDeck.ID == uuid.Nil {
		onDeck.ID = uuid.New()
	}
	if onDeck.CreatedAt.IsZero() {
		onDeck.CreatedAt = time.Now()
	}
	_, err := db.NewInsert().
		Model(onDeck).
		On("CONFLICT (round_id, user_id, track_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert on-deck submission: %w", err)
	}
	return nil
}

// DeleteByTrackIDs removes the given tracks from a user's shortlist.
func (r *OnDeckImpl) DeleteByTrackIDs(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*OnDeckSubmission)(nil)).
		Where("round_id = ?", roundID).
		Where("user_id = ?", userID).
		Where("track_id IN (?)", bun.In(trackIDs)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete on-deck submissions: %w", err)
	}
	return nil
}

// MarkAddedToPlaylist flags shortlist rows as pushed to the side playlist.
func (r *OnDeckImpl) MarkAddedToPlaylist(ctx context.Context, db bun.IDB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*OnDeckSubmission)(nil)).
		Set("added_to_playlist = true").
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark on-deck submissions added: %w", err)
	}
	return nil
}
