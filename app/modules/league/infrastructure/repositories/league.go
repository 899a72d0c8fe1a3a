package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a league is not found.
var ErrNotFound = errors.New("league not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new league repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a new league.
func (r *Impl) Create(ctx context.Context, db bun.IDB, league *League) error {
	db = r.resolveDB(db)
	if league.ID == uuid.Nil {
		league.ID = uuid.New()
	}
	_, err := db.NewInsert().
		Model(league).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

// GetByID retrieves a league by id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*League, error) {
	db = r.resolveDB(db)
	league := new(League)
	err := db.NewSelect().
		Model(league).
		Where("id = ?", leagueID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get league by id: %w", err)
	}
	return league, nil
}

// ListForUser retrieves every league the user is a member of, newest first.
func (r *Impl) ListForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]League, error) {
	db = r.resolveDB(db)
	var leagues []League
	err := db.NewSelect().
		Model(&leagues).
		Where("? = ANY(member_ids)", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues for user: %w", err)
	}
	return leagues, nil
}

// AddMember appends a user to the league roster, preserving member order.
// Adding an existing member is a no-op.
func (r *Impl) AddMember(ctx context.Context, db bun.IDB, leagueID, userID uuid.UUID) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*League)(nil)).
		Set("member_ids = array_append(member_ids, ?)", userID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", leagueID).
		Where("NOT (? = ANY(member_ids))", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add league member: %w", err)
	}
	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	return nil
}
