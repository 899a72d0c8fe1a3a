package submissiondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the submission persistence contract.
type Repository interface {
	ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Submission, error)
	GetByRoundAndUser(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) (*Submission, error)
	CountByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error)
	Upsert(ctx context.Context, db bun.IDB, submission *Submission) error
	Delete(ctx context.Context, db bun.IDB, submissionID uuid.UUID) error
}

// OnDeckRepository is the on-deck shortlist persistence contract.
type OnDeckRepository interface {
	ListByRoundAndUser(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) ([]OnDeckSubmission, error)
	Insert(ctx context.Context, db bun.IDB, onDeck *OnDeckSubmission) error
	DeleteByTrackIDs(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID, trackIDs []string) error
	MarkAddedToPlaylist(ctx context.Context, db bun.IDB, ids []uuid.UUID) error
}
