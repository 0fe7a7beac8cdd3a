package commands

import (
	"context"
	"encoding/json"
	"time"

	"palmares/contexts/contest-operations/progression-engine/ports"
)

const (
	EventStepTransitioned = "contest.step.transitioned"
	EventRulesExecuted    = "contest.rules.executed"
	EventJuryAssigned     = "contest.jury.assigned"
	EventScoresCalculated = "contest.scores.calculated"
)

const sourceService = "palmares"

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

// appendEvent writes a pending outbox row carrying a versioned envelope. A
// nil outbox disables event production; an append failure must not fail the
// command that already committed its state change, so callers log and move on.
func appendEvent(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	eventType string,
	entityID string,
	occurredAt time.Time,
	data any,
) error {
	if outbox == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    occurredAt,
		SourceService: sourceService,
		EntityType:    "contest",
		EntityID:      entityID,
		SchemaVersion: 1,
		Data:          raw,
	})
	if err != nil {
		return err
	}
	return outbox.AppendOutbox(ctx, ports.OutboxMessage{
		MessageID: eventID,
		EventType: eventType,
		Payload:   payload,
		Status:    "pending",
		CreatedAt: occurredAt,
	})
}
