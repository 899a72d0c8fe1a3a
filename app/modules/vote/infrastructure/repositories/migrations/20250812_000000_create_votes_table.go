package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating votes table...")
			if _, err := db.NewCreateTable().Model((*votedb.Vote)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*votedb.Vote)(nil)).
				Index("votes_round_user_idx").
				IfNotExists().
				Column("round_id", "user_id").
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("votes table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping votes table...")
			if _, err := db.NewDropTable().Model((*votedb.Vote)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("votes table dropped successfully!")
			return nil
		},
	)
}
