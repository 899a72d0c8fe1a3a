package votedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a vote is not found.
var ErrNotFound = errors.New("vote not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new vote repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListByRound retrieves every vote cast in a round.
func (r *Impl) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Vote, error) {
	db = r.resolveDB(db)
	var votes []Vote
	err := db.NewSelect().
		Model(&votes).
		Where("round_id = ?", roundID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for round: %w", err)
	}
	return votes, nil
}

// ListByRoundAndUserForUpdate reads a user's votes in a round FOR UPDATE.
func (r *Impl) ListByRoundAndUserForUpdate(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) ([]Vote, error) {
	db = r.resolveDB(db)
	var votes []Vote
	err := db.NewSelect().
		Model(&votes).
		Where("round_id = ?", roundID).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock votes for round: %w", err)
	}
	return votes, nil
}

// Get retrieves one user's vote on one submission.
func (r *Impl) Get(ctx context.Context, db bun.IDB, submissionID, userID uuid.UUID) (*Vote, error) {
	db = r.resolveDB(db)
	vote := new(Vote)
	err := db.NewSelect().
		Model(vote).
		Where("submission_id = ?", submissionID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return vote, nil
}

// Upsert creates or updates a vote in place.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, vote *Vote) error {
	db = r.resolveDB(db)
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	vote.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(vote).
		On("CONFLICT (submission_id, user_id) DO UPDATE").
		Set("points = EXCLUDED.points").
		Set("note = EXCLUDED.note").
		Set("guessed_user_id = EXCLUDED.guessed_user_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// Delete removes a vote, freeing its points back to the voter's budget.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, submissionID, userID uuid.UUID) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*Vote)(nil)).
		Where("submission_id = ?", submissionID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}
