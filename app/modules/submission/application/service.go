package submissionservice

import (
	"context"
	"log/slog"

	"github.com/jas7457/playlist-party/app/eventbus"
	"github.com/jas7457/playlist-party/app/observability"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationservice "github.com/jas7457/playlist-party/app/modules/notification/application"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// PlaylistClient is the slice of the Spotify client the side-playlist push
// needs.
type PlaylistClient interface {
	CreatePlaylist(ctx context.Context, name string) (string, error)
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}

// SubmissionService owns song submission, the on-deck shortlist, and the
// shared side playlist.
type SubmissionService struct {
	submissionDB submissiondb.Repository
	onDeckDB     submissiondb.OnDeckRepository
	roundDB      rounddb.Repository
	leagueDB     leaguedb.Repository
	voteDB       votedb.Repository
	dispatcher   *notificationservice.Dispatcher
	broadcaster  *eventbus.Broadcaster
	playlists    PlaylistClient
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	submissionDB submissiondb.Repository,
	onDeckDB submissiondb.OnDeckRepository,
	roundDB rounddb.Repository,
	leagueDB leaguedb.Repository,
	voteDB votedb.Repository,
	dispatcher *notificationservice.Dispatcher,
	broadcaster *eventbus.Broadcaster,
	playlists PlaylistClient,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *SubmissionService {
	return &SubmissionService{
		submissionDB: submissionDB,
		onDeckDB:     onDeckDB,
		roundDB:      roundDB,
		leagueDB:     leagueDB,
		voteDB:       voteDB,
		dispatcher:   dispatcher,
		broadcaster:  broadcaster,
		playlists:    playlists,
		logger:       logger,
		metrics:      metrics,
	}
}
