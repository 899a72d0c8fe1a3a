package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jas7457/playlist-party/app/eventbus"
	"github.com/jas7457/playlist-party/app/observability"
	"github.com/jas7457/playlist-party/config"
	"github.com/jas7457/playlist-party/db/bundb"

	leagueservice "github.com/jas7457/playlist-party/app/modules/league/application"
	leaguehandlers "github.com/jas7457/playlist-party/app/modules/league/infrastructure/handlers"
	notificationservice "github.com/jas7457/playlist-party/app/modules/notification/application"
	notificationqueue "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/queue"
	roundservice "github.com/jas7457/playlist-party/app/modules/round/application"
	roundhandlers "github.com/jas7457/playlist-party/app/modules/round/infrastructure/handlers"
	submissionservice "github.com/jas7457/playlist-party/app/modules/submission/application"
	submissionhandlers "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/handlers"
	"github.com/jas7457/playlist-party/app/modules/submission/infrastructure/spotify"
	userservice "github.com/jas7457/playlist-party/app/modules/user/application"
	userhandlers "github.com/jas7457/playlist-party/app/modules/user/infrastructure/handlers"
	voteservice "github.com/jas7457/playlist-party/app/modules/vote/application"
	votehandlers "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/handlers"
)

// App wires configuration, storage, messaging, and the module services
// together.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.Metrics

	db          *bundb.DBService
	bus         eventbus.EventBus
	broadcaster *eventbus.Broadcaster
	queue       notificationqueue.QueueService

	UserService       *userservice.UserService
	LeagueService     *leagueservice.LeagueService
	RoundService      *roundservice.RoundService
	SubmissionService *submissionservice.SubmissionService
	VoteService       *voteservice.VoteService
	Dispatcher        *notificationservice.Dispatcher

	userHandlers       *userhandlers.UserHandlers
	leagueHandlers     *leaguehandlers.LeagueHandlers
	roundHandlers      *roundhandlers.RoundHandlers
	submissionHandlers *submissionhandlers.SubmissionHandlers
	voteHandlers       *votehandlers.VoteHandlers
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	// One stream carries every per-league subject.
	if err := bus.CreateStream(ctx, eventbus.StreamName, eventbus.StreamName+".>"); err != nil {
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	metrics := observability.NewMetrics()
	broadcaster := eventbus.NewBroadcaster(bus, logger)

	dispatcher := notificationservice.NewDispatcher(
		dbService.NotificationDB,
		dbService.UserDB,
		dbService.LeagueDB,
		dbService.RoundDB,
		dbService.SubmissionDB,
		dbService.VoteDB,
		broadcaster,
		logger,
		metrics,
	)

	queueService, err := notificationqueue.NewService(ctx, dbService.GetDB(), logger, cfg.Postgres.DSN, dispatcher)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize queue service: %w", err)
	}
	dispatcher.SetReminderQueue(queueService)

	userService := userservice.NewUserService(dbService.UserDB, logger)
	leagueService := leagueservice.NewLeagueService(
		dbService.LeagueDB,
		dbService.RoundDB,
		dbService.SubmissionDB,
		dbService.VoteDB,
		logger,
	)
	roundService := roundservice.NewRoundService(
		dbService.RoundDB,
		dbService.LeagueDB,
		dbService.SubmissionDB,
		dbService.VoteDB,
		dbService.NotificationDB,
		queueService,
		dispatcher,
		broadcaster,
		logger,
		metrics,
	)
	submissionService := submissionservice.NewSubmissionService(
		dbService.SubmissionDB,
		dbService.OnDeckDB,
		dbService.RoundDB,
		dbService.LeagueDB,
		dbService.VoteDB,
		dispatcher,
		broadcaster,
		spotify.NewClient(ctx, cfg.Spotify),
		logger,
		metrics,
	)
	voteService := voteservice.NewVoteService(
		dbService.VoteDB,
		dbService.SubmissionDB,
		dbService.RoundDB,
		dbService.LeagueDB,
		dbService.GetDB(),
		dispatcher,
		broadcaster,
		logger,
		metrics,
	)

	return &App{
		Config:             cfg,
		Logger:             logger,
		Metrics:            metrics,
		db:                 dbService,
		bus:                bus,
		broadcaster:        broadcaster,
		queue:              queueService,
		UserService:        userService,
		LeagueService:      leagueService,
		RoundService:       roundService,
		SubmissionService:  submissionService,
		VoteService:        voteService,
		Dispatcher:         dispatcher,
		userHandlers:       userhandlers.NewUserHandlers(userService, logger),
		leagueHandlers:     leaguehandlers.NewLeagueHandlers(leagueService, logger),
		roundHandlers:      roundhandlers.NewRoundHandlers(roundService, logger),
		submissionHandlers: submissionhandlers.NewSubmissionHandlers(submissionService, logger),
		voteHandlers:       votehandlers.NewVoteHandlers(voteService, logger),
	}, nil
}

// DB returns the database service.
func (app *App) DB() *bundb.DBService {
	return app.db
}

// Close shuts down the queue, event bus, and database connections.
func (app *App) Close(ctx context.Context) {
	if err := app.queue.Stop(ctx); err != nil {
		app.Logger.ErrorContext(ctx, "Failed to stop queue service", slog.Any("error", err))
	}
	if err := app.bus.Close(); err != nil {
		app.Logger.ErrorContext(ctx, "Failed to close event bus", slog.Any("error", err))
	}
	if err := app.db.Close(); err != nil {
		app.Logger.ErrorContext(ctx, "Failed to close database", slog.Any("error", err))
	}
}
