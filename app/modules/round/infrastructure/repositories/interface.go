package rounddb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the round persistence contract.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, round *Round) error
	GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error)
	ListByLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]Round, error)
	// GetLatestScheduled returns the non-bonus round with the latest
	// submission start, used to chain the next round after it.
	GetLatestScheduled(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*Round, error)
	SetPlaylistID(ctx context.Context, db bun.IDB, roundID uuid.UUID, playlistID string) error
}
