package votedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	votedomain "github.com/jas7457/playlist-party/app/modules/vote/domain"
)

// Vote is one user's point allocation toward one submission. The round id is
// denormalized so the budget check can lock a user's round votes in one
// query. The unique (submission_id, user_id) constraint enforces one vote per
// pair.
type Vote struct {
	bun.BaseModel `bun:"table:votes,alias:v"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	RoundID      uuid.UUID `bun:"round_id,notnull,type:uuid"`
	SubmissionID uuid.UUID `bun:"submission_id,notnull,type:uuid,unique:votes_submission_user_key"`
	UserID       uuid.UUID `bun:"user_id,notnull,type:uuid,unique:votes_submission_user_key"`

	Points int    `bun:"points,notnull"`
	Note   string `bun:"note,nullzero"`

	// GuessedUserID is the voter's prediction of who submitted the song.
	GuessedUserID *uuid.UUID `bun:"guessed_user_id,nullzero,type:uuid"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Domain converts the persisted row to the scoring shape.
func (v *Vote) Domain() votedomain.Vote {
	return votedomain.Vote{
		VoterID:      v.UserID,
		SubmissionID: v.SubmissionID,
		Points:       v.Points,
		GuessedUser:  v.GuessedUserID,
	}
}

// DomainVotes converts a slice of rows to the scoring shape.
func DomainVotes(votes []Vote) []votedomain.Vote {
	out := make([]votedomain.Vote, len(votes))
	for i := range votes {
		out[i] = votes[i].Domain()
	}
	return out
}
