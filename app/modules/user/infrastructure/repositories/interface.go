package userdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the user persistence contract. The db parameter lets callers
// pass a transaction; nil falls back to the repository's own connection.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, userID uuid.UUID) (*User, error)
	GetByIDs(ctx context.Context, db bun.IDB, userIDs []uuid.UUID) ([]User, error)
	Upsert(ctx context.Context, db bun.IDB, user *User) error
	UpdatePreferences(ctx context.Context, db bun.IDB, userID uuid.UUID, preferences map[string]bool) error
}
