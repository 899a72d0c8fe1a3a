package leaguedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the league persistence contract.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, league *League) error
	GetByID(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*League, error)
	ListForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]League, error)
	AddMember(ctx context.Context, db bun.IDB, leagueID, userID uuid.UUID) error
}
