package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Subjects fanned out to connected clients. Each league gets its own subject
// by appending the league id, e.g. "party.round.updated.v1.<league_id>".
const (
	StreamName = "party"

	SubjectRoundUpdated = "party.round.updated.v1"
	SubjectVotesUpdated = "party.votes.updated.v1"
	SubjectNotification = "party.notification.v1"
)

// EventBus publishes league events over NATS JetStream. The backend only
// publishes; clients and external consumers subscribe on their own
// connections.
type EventBus interface {
	Publish(ctx context.Context, streamName string, msg *message.Message) error
	CreateStream(ctx context.Context, streamName string, subject string) error
	Close() error
}

type eventBus struct {
	publisher message.Publisher
	js        jetstream.JetStream
	natsConn  *nc.Conn
	logger    *slog.Logger
}

// NewEventBus connects to NATS and builds a JetStream-backed publisher.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	natsConn, err := nc.Connect(natsURL, nc.RetryOnFailedConnect(true))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       natsURL,
			Marshaler: &nats.NATSMarshaler{},
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	return &eventBus{
		publisher: publisher,
		js:        js,
		natsConn:  natsConn,
		logger:    logger,
	}, nil
}

// Publish sends the message to the subject named in its metadata. The subject
// rides on the message so callers can target a single league without the bus
// knowing about leagues.
func (eb *eventBus) Publish(ctx context.Context, streamName string, msg *message.Message) error {
	if msg.UUID == "" {
		msg.UUID = watermill.NewUUID()
	}

	subject := msg.Metadata.Get("subject")
	if subject == "" {
		return fmt.Errorf("message does not have a subject set in metadata")
	}

	if err := eb.publisher.Publish(subject, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	eb.logger.DebugContext(ctx, "Message published",
		slog.String("stream_name", streamName),
		slog.String("subject", subject),
	)

	return nil
}

// CreateStream ensures the stream exists with the given subject filter. A
// wildcard subject covers every league-scoped subject, so the stream is
// created once at startup.
func (eb *eventBus) CreateStream(ctx context.Context, streamName string, subject string) error {
	_, err := eb.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subject},
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", streamName, err)
	}

	eb.logger.InfoContext(ctx, "Stream ready",
		slog.String("stream_name", streamName),
		slog.String("subject", subject),
	)

	return nil
}

// Close releases the publisher and the NATS connection.
func (eb *eventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		eb.logger.Error("Error closing publisher", slog.Any("error", err))
	}
	eb.natsConn.Close()
	return nil
}
