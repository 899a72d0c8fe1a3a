package voteservice

import (
	"errors"
	"fmt"
)

// Domain errors for vote operations.
var (
	ErrRoundNotFound      = errors.New("round not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotMember          = errors.New("user is not a member of this league")
	ErrInvalidPoints      = errors.New("points must be a non-negative integer")
	ErrVotingNotOpen      = errors.New("voting has not opened yet")
	ErrVotingEnded        = errors.New("voting has already ended")
	ErrBudgetExceeded     = errors.New("vote budget exceeded")
)

// BudgetExceededError reports how far over budget the attempted vote landed.
type BudgetExceededError struct {
	Over int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("vote budget exceeded by %d points", e.Over)
}

// Unwrap lets errors.Is match ErrBudgetExceeded.
func (e *BudgetExceededError) Unwrap() error {
	return ErrBudgetExceeded
}
