package submissionservice

import "errors"

// Domain errors for submission operations.
var (
	ErrRoundNotFound        = errors.New("round not found")
	ErrNotMember            = errors.New("user is not a member of this league")
	ErrNotInSubmissionStage = errors.New("round is not accepting submissions")
	// ErrDuplicateSubmission rejects an exact duplicate of another user's
	// song. Weaker matches return a forceable result instead of an error.
	ErrDuplicateSubmission = errors.New("song already submitted by another user")
	ErrInvalidInput        = errors.New("invalid input")
)
