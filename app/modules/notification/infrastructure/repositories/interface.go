package notificationdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the scheduled notification persistence contract.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, notification *ScheduledNotification) error
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*ScheduledNotification, error)
	ListPendingByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]ScheduledNotification, error)
	SetStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status Status) error
	// CancelPendingByRound marks every pending reminder for the round as
	// cancelled, used when the round advances early.
	CancelPendingByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) error
}
