package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	notificationdb "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating scheduled_notifications table...")
			if _, err := db.NewCreateTable().Model((*notificationdb.ScheduledNotification)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*notificationdb.ScheduledNotification)(nil)).
				Index("scheduled_notifications_round_status_idx").
				IfNotExists().
				Column("round_id", "status").
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("scheduled_notifications table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping scheduled_notifications table...")
			if _, err := db.NewDropTable().Model((*notificationdb.ScheduledNotification)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("scheduled_notifications table dropped successfully!")
			return nil
		},
	)
}
