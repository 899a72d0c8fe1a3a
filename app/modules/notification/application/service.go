package notificationservice

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jas7457/playlist-party/app/eventbus"
	"github.com/jas7457/playlist-party/app/observability"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationdb "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/repositories"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	userdb "github.com/jas7457/playlist-party/app/modules/user/infrastructure/repositories"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// ReminderQueue cancels scheduled reminder jobs for a round.
type ReminderQueue interface {
	CancelRoundJobs(ctx context.Context, roundID uuid.UUID) error
}

// Dispatcher turns notification decisions into outbound messages. Delivery is
// best effort: failures are logged and counted, never surfaced to the request
// that triggered them.
type Dispatcher struct {
	notificationDB notificationdb.Repository
	userDB         userdb.Repository
	leagueDB       leaguedb.Repository
	roundDB        rounddb.Repository
	submissionDB   submissiondb.Repository
	voteDB         votedb.Repository
	broadcaster    *eventbus.Broadcaster
	queue          ReminderQueue
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(
	notificationDB notificationdb.Repository,
	userDB userdb.Repository,
	leagueDB leaguedb.Repository,
	roundDB rounddb.Repository,
	submissionDB submissiondb.Repository,
	voteDB votedb.Repository,
	broadcaster *eventbus.Broadcaster,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Dispatcher {
	return &Dispatcher{
		notificationDB: notificationDB,
		userDB:         userDB,
		leagueDB:       leagueDB,
		roundDB:        roundDB,
		submissionDB:   submissionDB,
		voteDB:         voteDB,
		broadcaster:    broadcaster,
		logger:         logger,
		metrics:        metrics,
	}
}

// SetReminderQueue wires the reminder queue after construction. The queue's
// workers dispatch through this Dispatcher, so the two cannot be built in one
// pass.
func (d *Dispatcher) SetReminderQueue(queue ReminderQueue) {
	d.queue = queue
}
