package notificationdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status is the lifecycle state of a scheduled notification.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// ScheduledNotification is a reminder queued for later delivery, typically at
// the midpoint of a submission or voting window. Rows are cancelled when the
// round advances before the reminder fires.
type ScheduledNotification struct {
	bun.BaseModel `bun:"table:scheduled_notifications,alias:sn"`

	ID       uuid.UUID  `bun:"id,pk,type:uuid"`
	LeagueID uuid.UUID  `bun:"league_id,notnull,type:uuid"`
	RoundID  *uuid.UUID `bun:"round_id,nullzero,type:uuid"`

	// Type holds the notification code, e.g. "VOTING.REMINDER".
	Type    string      `bun:"type,notnull"`
	UserIDs []uuid.UUID `bun:"user_ids,array"`

	ExecuteAt time.Time `bun:"execute_at,notnull"`
	Status    Status    `bun:"status,notnull,default:'pending'"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
