package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a round is not found.
var ErrNotFound = errors.New("round not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a new round.
func (r *Impl) Create(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	_, err := db.NewInsert().
		Model(round).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetByID retrieves a round by id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round by id: %w", err)
	}
	return round, nil
}

// ListByLeague retrieves a league's rounds in schedule order.
func (r *Impl) ListByLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().
		Model(&rounds).
		Where("league_id = ?", leagueID).
		Order("submission_start_date ASC", "created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds for league: %w", err)
	}
	return rounds, nil
}

// GetLatestScheduled returns the league's last chained (non-bonus) round, or
// ErrNotFound when the league has none yet.
func (r *Impl) GetLatestScheduled(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("league_id = ?", leagueID).
		Where("is_bonus_round = false").
		Order("submission_start_date DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest scheduled round: %w", err)
	}
	return round, nil
}

// SetPlaylistID links the round to its shared side playlist.
func (r *Impl) SetPlaylistID(ctx context.Context, db bun.IDB, roundID uuid.UUID, playlistID string) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("playlist_id = ?", playlistID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set round playlist id: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
