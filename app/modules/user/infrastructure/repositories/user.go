package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a user is not found.
var ErrNotFound = errors.New("user not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new user repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByID retrieves a user by id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, userID uuid.UUID) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().
		Model(user).
		Where("id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByIDs retrieves multiple users at once, in no particular order. Missing
// ids are silently absent from the result.
func (r *Impl) GetByIDs(ctx context.Context, db bun.IDB, userIDs []uuid.UUID) ([]User, error) {
	db = r.resolveDB(db)
	if len(userIDs) == 0 {
		return nil, nil
	}
	var users []User
	err := db.NewSelect().
		Model(&users).
		Where("id IN (?)", bun.In(userIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	return users, nil
}

// Upsert creates or updates a user.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	user.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("username = EXCLUDED.username").
		Set("email = EXCLUDED.email").
		Set("phone = EXCLUDED.phone").
		Set("phone_carrier = EXCLUDED.phone_carrier").
		Set("phone_verified = EXCLUDED.phone_verified").
		Set("push_subscriptions = EXCLUDED.push_subscriptions").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// UpdatePreferences replaces a user's notification preference map.
func (r *Impl) UpdatePreferences(ctx context.Context, db bun.IDB, userID uuid.UUID, preferences map[string]bool) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("preferences = ?", preferences).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user preferences: %w", err)
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
