package roundservice

import "errors"

// Domain errors for round operations.
var (
	ErrRoundNotFound  = errors.New("round not found")
	ErrLeagueNotFound = errors.New("league not found")
	ErrNotMember      = errors.New("user is not a member of this league")
	ErrInvalidInput   = errors.New("invalid input")
)
