package leagueservice

import (
	"log/slog"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// LeagueService owns league lifecycle and standings aggregation.
type LeagueService struct {
	leagueDB     leaguedb.Repository
	roundDB      rounddb.Repository
	submissionDB submissiondb.Repository
	voteDB       votedb.Repository
	logger       *slog.Logger
}

// NewLeagueService creates a new LeagueService.
func NewLeagueService(
	leagueDB leaguedb.Repository,
	roundDB rounddb.Repository,
	submissionDB submissiondb.Repository,
	voteDB votedb.Repository,
	logger *slog.Logger,
) *LeagueService {
	return &LeagueService{
		leagueDB:     leagueDB,
		roundDB:      roundDB,
		submissionDB: submissionDB,
		voteDB:       voteDB,
		logger:       logger,
	}
}
