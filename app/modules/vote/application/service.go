package voteservice

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/jas7457/playlist-party/app/eventbus"
	"github.com/jas7457/playlist-party/app/observability"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationservice "github.com/jas7457/playlist-party/app/modules/notification/application"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// TxRunner runs a function inside a database transaction. Satisfied by
// *bun.DB.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error
}

// VoteService owns vote casting and the per-round point budget.
type VoteService struct {
	voteDB       votedb.Repository
	submissionDB submissiondb.Repository
	roundDB      rounddb.Repository
	leagueDB     leaguedb.Repository
	db           TxRunner
	dispatcher   *notificationservice.Dispatcher
	broadcaster  *eventbus.Broadcaster
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewVoteService creates a new VoteService.
func NewVoteService(
	voteDB votedb.Repository,
	submissionDB submissiondb.Repository,
	roundDB rounddb.Repository,
	leagueDB leaguedb.Repository,
	db TxRunner,
	dispatcher *notificationservice.Dispatcher,
	broadcaster *eventbus.Broadcaster,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *VoteService {
	return &VoteService{
		voteDB:       voteDB,
		submissionDB: submissionDB,
		roundDB:      roundDB,
		leagueDB:     leagueDB,
		db:           db,
		dispatcher:   dispatcher,
		broadcaster:  broadcaster,
		logger:       logger,
		metrics:      metrics,
	}
}
