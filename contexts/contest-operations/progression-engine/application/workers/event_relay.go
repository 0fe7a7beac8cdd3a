package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "palmares/contexts/contest-operations/progression-engine/application"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

const defaultRelayBatchSize = 50

// EventRelay drains pending outbox rows and publishes them to the event bus.
// Rows are marked published only after a successful publish, so a crashed
// relay re-delivers rather than drops.
type EventRelay struct {
	Outbox    ports.OutboxReader
	Publisher ports.EventPublisher
	BatchSize int
	Logger    *slog.Logger
}

// RelayOnce publishes up to BatchSize pending messages and reports how many
// were delivered.
func (r EventRelay) RelayOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = defaultRelayBatchSize
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "event_relay_decode_failed",
				"module", "contest-operations/progression-engine",
				"layer", "application",
				"message_id", message.MessageID,
				"error", err.Error(),
			)
			continue
		}
		if err := r.Publisher.Publish(ctx, message.EventType, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "event_relay_publish_failed",
				"module", "contest-operations/progression-engine",
				"layer", "application",
				"message_id", message.MessageID,
				"event_type", message.EventType,
				"error", err.Error(),
			)
			continue
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.MessageID); err != nil {
			logger.Error("outbox mark published failed",
				"event", "event_relay_mark_failed",
				"module", "contest-operations/progression-engine",
				"layer", "application",
				"message_id", message.MessageID,
				"error", err.Error(),
			)
			continue
		}
		published++
	}
	return published, nil
}

// Run relays on the given interval until the context is cancelled.
func (r EventRelay) Run(ctx context.Context, interval time.Duration) {
	logger := application.ResolveLogger(r.Logger)
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				logger.Error("event relay pass failed",
					"event", "event_relay_pass_failed",
					"module", "contest-operations/progression-engine",
					"layer", "application",
					"error", err.Error(),
				)
			}
		}
	}
}
