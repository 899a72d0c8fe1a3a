package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Broadcaster fans domain changes out to league-scoped subjects. Delivery is
// best effort. A failed broadcast is logged and swallowed so it never fails
// the request that triggered it.
type Broadcaster struct {
	bus    EventBus
	logger *slog.Logger
}

// NewBroadcaster creates a Broadcaster on top of the event bus.
func NewBroadcaster(bus EventBus, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{bus: bus, logger: logger}
}

// RoundUpdated announces that a round's submissions or schedule changed.
func (b *Broadcaster) RoundUpdated(ctx context.Context, leagueID, roundID uuid.UUID) {
	b.publish(ctx, SubjectRoundUpdated, leagueID, map[string]any{
		"league_id": leagueID,
		"round_id":  roundID,
	})
}

// VotesUpdated announces that votes changed in a round.
func (b *Broadcaster) VotesUpdated(ctx context.Context, leagueID, roundID uuid.UUID) {
	b.publish(ctx, SubjectVotesUpdated, leagueID, map[string]any{
		"league_id": leagueID,
		"round_id":  roundID,
	})
}

// Notify delivers a notification payload to the league's subscribers.
func (b *Broadcaster) Notify(ctx context.Context, leagueID uuid.UUID, code string, userIDs []uuid.UUID) {
	b.publish(ctx, SubjectNotification, leagueID, map[string]any{
		"league_id": leagueID,
		"code":      code,
		"user_ids":  userIDs,
	})
}

func (b *Broadcaster) publish(ctx context.Context, subjectPrefix string, leagueID uuid.UUID, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to marshal broadcast payload",
			slog.String("subject", subjectPrefix),
			slog.Any("error", err),
		)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("subject", fmt.Sprintf("%s.%s", subjectPrefix, leagueID))

	if err := b.bus.Publish(ctx, StreamName, msg); err != nil {
		b.logger.ErrorContext(ctx, "Failed to broadcast message",
			slog.String("subject", subjectPrefix),
			slog.String("league_id", leagueID.String()),
			slog.Any("error", err),
		)
	}
}
