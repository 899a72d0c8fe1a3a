package submissiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a submission is not found.
var ErrNotFound = errors.New("submission not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new submission repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListByRound retrieves a round's submissions in submission order.
func (r *Impl) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Submission, error) {
	db = r.resolveDB(db)
	var submissions []Submission
	err := db.NewSelect().
		Model(&submissions).
		Where("round_id = ?", roundID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for round: %w", err)
	}
	return submissions, nil
}

// GetByRoundAndUser retrieves a user's submission for a round.
func (r *Impl) GetByRoundAndUser(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) (*Submission, error) {
	db = r.resolveDB(db)
	submission := new(Submission)
	err := db.NewSelect().
		Model(submission).
		Where("round_id = ?", roundID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

// CountByRound counts the round's submissions.
func (r *Impl) CountByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Submission)(nil)).
		Where("round_id = ?", roundID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions for round: %w", err)
	}
	return count, nil
}

// Upsert creates or replaces a user's submission for a round. A user changing
// their song keeps the same row; the updated_at bump marks it as replaced.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, submission *Submission) error {
	db = r.resolveDB(db)
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	submission.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(submission).
		On("CONFLICT (round_id, user_id) DO UPDATE").
		Set("track_id = EXCLUDED.track_id").
		Set("title = EXCLUDED.title").
		Set("artists = EXCLUDED.artists").
		Set("album_name = EXCLUDED.album_name").
		Set("album_image_url = EXCLUDED.album_image_url").
		Set("note = EXCLUDED.note").
		Set("youtube_url = EXCLUDED.youtube_url").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert submission: %w", err)
	}
	return nil
}

// Delete removes a submission, used to roll back a write that lost a
// duplicate race.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, submissionID uuid.UUID) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*Submission)(nil)).
		Where("id = ?", submissionID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}
