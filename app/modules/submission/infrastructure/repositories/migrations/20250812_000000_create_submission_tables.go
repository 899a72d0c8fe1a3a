package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating song_submissions tables...")
			if _, err := db.NewCreateTable().Model((*submissiondb.Submission)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateTable().Model((*submissiondb.OnDeckSubmission)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*submissiondb.Submission)(nil)).
				Index("song_submissions_round_id_idx").
				IfNotExists().
				Column("round_id").
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("song_submissions tables created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping song_submissions tables...")
			if _, err := db.NewDropTable().Model((*submissiondb.OnDeckSubmission)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewDropTable().Model((*submissiondb.Submission)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("song_submissions tables dropped successfully!")
			return nil
		},
	)
}
