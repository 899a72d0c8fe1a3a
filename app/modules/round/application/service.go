package roundservice

import (
	"log/slog"

	"github.com/jas7457/playlist-party/app/eventbus"
	"github.com/jas7457/playlist-party/app/observability"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationservice "github.com/jas7457/playlist-party/app/modules/notification/application"
	notificationqueue "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/queue"
	notificationdb "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/repositories"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// RoundService owns round lifecycle: chained creation, reminder scheduling,
// and stage-decorated reads.
type RoundService struct {
	roundDB        rounddb.Repository
	leagueDB       leaguedb.Repository
	submissionDB   submissiondb.Repository
	voteDB         votedb.Repository
	notificationDB notificationdb.Repository
	queue          notificationqueue.QueueService
	dispatcher     *notificationservice.Dispatcher
	broadcaster    *eventbus.Broadcaster
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewRoundService creates a new RoundService.
func NewRoundService(
	roundDB rounddb.Repository,
	leagueDB leaguedb.Repository,
	submissionDB submissiondb.Repository,
	voteDB votedb.Repository,
	notificationDB notificationdb.Repository,
	queue notificationqueue.QueueService,
	dispatcher *notificationservice.Dispatcher,
	broadcaster *eventbus.Broadcaster,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *RoundService {
	return &RoundService{
		roundDB:        roundDB,
		leagueDB:       leagueDB,
		submissionDB:   submissionDB,
		voteDB:         voteDB,
		notificationDB: notificationDB,
		queue:          queue,
		dispatcher:     dispatcher,
		broadcaster:    broadcaster,
		logger:         logger,
		metrics:        metrics,
	}
}
