package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating rounds table...")
			if _, err := db.NewCreateTable().Model((*rounddb.Round)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*rounddb.Round)(nil)).
				Index("rounds_league_id_idx").
				IfNotExists().
				Column("league_id").
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("rounds table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping rounds table...")
			if _, err := db.NewDropTable().Model((*rounddb.Round)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("rounds table dropped successfully!")
			return nil
		},
	)
}
