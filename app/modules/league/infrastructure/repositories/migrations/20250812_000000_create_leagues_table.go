package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating leagues table...")
			if _, err := db.NewCreateTable().Model((*leaguedb.League)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("leagues table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping leagues table...")
			if _, err := db.NewDropTable().Model((*leaguedb.League)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("leagues table dropped successfully!")
			return nil
		},
	)
}
