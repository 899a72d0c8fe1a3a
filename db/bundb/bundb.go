package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/jas7457/playlist-party/config"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationdb "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/repositories"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	userdb "github.com/jas7457/playlist-party/app/modules/user/infrastructure/repositories"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// DBService bundles the module repositories over one shared connection.
type DBService struct {
	UserDB         userdb.Repository
	LeagueDB       leaguedb.Repository
	RoundDB        rounddb.Repository
	SubmissionDB   submissiondb.Repository
	OnDeckDB       submissiondb.OnDeckRepository
	VoteDB         votedb.Repository
	NotificationDB notificationdb.Repository

	db *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the underlying connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService initializes a DBService against the configured Postgres.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	return &DBService{
		UserDB:         userdb.NewRepository(db),
		LeagueDB:       leaguedb.NewRepository(db),
		RoundDB:        rounddb.NewRepository(db),
		SubmissionDB:   submissiondb.NewRepository(db),
		OnDeckDB:       submissiondb.NewOnDeckRepository(db),
		VoteDB:         votedb.NewRepository(db),
		NotificationDB: notificationdb.NewRepository(db),
		db:             db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqldb, nil
}
