package votedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the vote persistence contract.
type Repository interface {
	ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Vote, error)
	// ListByRoundAndUserForUpdate reads a user's votes in a round with a
	// row lock, serializing the budget check against concurrent casts.
	// Callers must be inside a transaction.
	ListByRoundAndUserForUpdate(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) ([]Vote, error)
	Get(ctx context.Context, db bun.IDB, submissionID, userID uuid.UUID) (*Vote, error)
	Upsert(ctx context.Context, db bun.IDB, vote *Vote) error
	Delete(ctx context.Context, db bun.IDB, submissionID, userID uuid.UUID) error
}
