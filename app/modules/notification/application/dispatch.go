package notificationservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	notificationdomain "github.com/jas7457/playlist-party/app/modules/notification/domain"
	userdb "github.com/jas7457/playlist-party/app/modules/user/infrastructure/repositories"
)

// Dispatch delivers a batch of triggers for a round. Users who opted out of a
// code are filtered before publishing. Nothing here returns an error: the
// request that caused the triggers must succeed regardless.
func (d *Dispatcher) Dispatch(ctx context.Context, leagueID, roundID uuid.UUID, triggers []notificationdomain.Trigger) {
	for _, trigger := range triggers {
		recipients, err := d.filterByPreference(ctx, trigger.UserIDs, trigger.Code)
		if err != nil {
			d.logger.ErrorContext(ctx, "Failed to filter notification recipients",
				slog.String("code", string(trigger.Code)),
				slog.Any("error", err),
			)
			continue
		}
		if len(recipients) == 0 {
			continue
		}

		d.broadcaster.Notify(ctx, leagueID, string(trigger.Code), recipients)
		d.metrics.NotificationsSent.WithLabelValues(string(trigger.Code)).Inc()

		// A completed round makes its pending reminders moot: cancel both
		// the bookkeeping rows and the queued jobs behind them.
		if trigger.Code == notificationdomain.CodeRoundCompleted {
			if err := d.notificationDB.CancelPendingByRound(ctx, nil, roundID); err != nil {
				d.logger.ErrorContext(ctx, "Failed to cancel pending reminders",
					slog.String("round_id", roundID.String()),
					slog.Any("error", err),
				)
			}
			if d.queue != nil {
				if err := d.queue.CancelRoundJobs(ctx, roundID); err != nil {
					d.logger.ErrorContext(ctx, "Failed to cancel reminder jobs",
						slog.String("round_id", roundID.String()),
						slog.Any("error", err),
					)
				}
			}
		}
	}
}

func (d *Dispatcher) filterByPreference(ctx context.Context, userIDs []uuid.UUID, code notificationdomain.Code) ([]uuid.UUID, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	users, err := d.userDB.GetByIDs(ctx, nil, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	byID := make(map[uuid.UUID]*userdb.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	var recipients []uuid.UUID
	for _, id := range userIDs {
		user, ok := byID[id]
		if !ok {
			// Unknown ids still get the real-time event; preferences
			// only gate users we know about.
			recipients = append(recipients, id)
			continue
		}
		if user.WantsNotification(string(code)) {
			recipients = append(recipients, id)
		}
	}
	return recipients, nil
}
