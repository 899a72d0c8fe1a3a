package leagueservice

import "errors"

// Domain errors for league operations. The HTTP layer maps these to status
// codes.
var (
	ErrLeagueNotFound = errors.New("league not found")
	ErrNotMember      = errors.New("user is not a member of this league")
	ErrInvalidInput   = errors.New("invalid input")
)
