package notificationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a scheduled notification is not found.
var ErrNotFound = errors.New("scheduled notification not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new scheduled notification repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a pending scheduled notification.
func (r *Impl) Create(ctx context.Context, db bun.IDB, notification *ScheduledNotification) error {
	db = r.resolveDB(db)
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.Status == "" {
		notification.Status = StatusPending
	}
	_, err := db.NewInsert().
		Model(notification).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create scheduled notification: %w", err)
	}
	return nil
}

// GetByID retrieves a scheduled notification by its id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*ScheduledNotification, error) {
	db = r.resolveDB(db)
	notification := new(ScheduledNotification)
	err := db.NewSelect().
		Model(notification).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get scheduled notification: %w", err)
	}
	return notification, nil
}

// ListPendingByRound retrieves every pending reminder scheduled for a round.
func (r *Impl) ListPendingByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]ScheduledNotification, error) {
	db = r.resolveDB(db)
	var notifications []ScheduledNotification
	err := db.NewSelect().
		Model(&notifications).
		Where("round_id = ?", roundID).
		Where("status = ?", StatusPending).
		Order("execute_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications for round: %w", err)
	}
	return notifications, nil
}

// SetStatus transitions a scheduled notification's lifecycle state.
func (r *Impl) SetStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status Status) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*ScheduledNotification)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update scheduled notification status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check scheduled notification update: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelPendingByRound marks all pending reminders for a round as cancelled.
func (r *Impl) CancelPendingByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*ScheduledNotification)(nil)).
		Set("status = ?", StatusCancelled).
		Set("updated_at = ?", time.Now()).
		Where("round_id = ?", roundID).
		Where("status = ?", StatusPending).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to cancel pending notifications for round: %w", err)
	}
	return nil
}
