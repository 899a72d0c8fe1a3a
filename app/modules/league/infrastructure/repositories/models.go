package leaguedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// League is a group competition: a member roster plus the knobs every round
// inherits (point budget and window durations).
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,nullzero"`
	OwnerID     uuid.UUID `bun:"owner_id,notnull,type:uuid"`

	// MemberIDs keeps league order; standings tiebreaks depend on it.
	MemberIDs []uuid.UUID `bun:"member_ids,array,notnull"`

	VotesPerRound     int `bun:"votes_per_round,notnull"`
	DaysForSubmission int `bun:"days_for_submission,notnull"`
	DaysForVoting     int `bun:"days_for_voting,notnull"`

	StartDate time.Time `bun:"start_date,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// IsMember reports whether the user belongs to the league.
func (l *League) IsMember(userID uuid.UUID) bool {
	for _, id := range l.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
