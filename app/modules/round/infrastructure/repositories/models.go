package rounddb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rounddomain "github.com/jas7457/playlist-party/app/modules/round/domain"
)

// Round is one themed submission-then-voting cycle within a league. Only the
// submission start is persisted; the submission end and voting window are
// derived on read from the league's configured durations.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	LeagueID    uuid.UUID `bun:"league_id,notnull,type:uuid"`
	CreatorID   uuid.UUID `bun:"creator_id,notnull,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,nullzero"`

	SubmissionStartDate time.Time `bun:"submission_start_date,notnull"`
	IsBonusRound        bool      `bun:"is_bonus_round,notnull,default:false"`

	// PlaylistID links the round's shared side playlist once created.
	PlaylistID string `bun:"playlist_id,nullzero"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Schedule derives the round's time windows from the league durations.
func (r *Round) Schedule(daysForSubmission, daysForVoting int) rounddomain.Schedule {
	return rounddomain.Schedule{
		SubmissionStart:   r.SubmissionStartDate,
		DaysForSubmission: daysForSubmission,
		DaysForVoting:     daysForVoting,
	}
}
