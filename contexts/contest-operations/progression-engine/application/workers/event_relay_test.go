package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"palmares/contexts/contest-operations/progression-engine/adapters/memory"
	"palmares/contexts/contest-operations/progression-engine/ports"
)

type capturePublisher struct {
	published []string
	fail      bool
}

func (p *capturePublisher) Publish(_ context.Context, topic string, _ ports.EventEnvelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, topic)
	return nil
}

func seedOutbox(t *testing.T, store *memory.Store, messageID string) {
	t.Helper()
	payload, err := json.Marshal(ports.EventEnvelope{
		EventID:       messageID,
		EventType:     "contest.step.transitioned",
		OccurredAt:    time.Now().UTC(),
		SourceService: "palmares",
		EntityType:    "contest",
		EntityID:      "c1",
		SchemaVersion: 1,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	err = store.AppendOutbox(context.Background(), ports.OutboxMessage{
		MessageID: messageID,
		EventType: "contest.step.transitioned",
		Payload:   payload,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed outbox: %v", err)
	}
}

func TestRelayOncePublishesAndMarks(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, "m1")
	seedOutbox(t, store, "m2")
	publisher := &capturePublisher{}
	relay := EventRelay{Outbox: store, Publisher: publisher}

	published, err := relay.RelayOnce(context.Background())
	if err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if published != 2 {
		t.Fatalf("expected 2 published, got %d", published)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected publisher called twice, got %d", len(publisher.published))
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("expected no pending messages, got %d", store.PendingOutboxCount())
	}
}

func TestRelayOnceKeepsPendingOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, "m1")
	publisher := &capturePublisher{fail: true}
	relay := EventRelay{Outbox: store, Publisher: publisher}

	published, err := relay.RelayOnce(context.Background())
	if err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if published != 0 {
		t.Fatalf("expected nothing published, got %d", published)
	}
	if store.PendingOutboxCount() != 1 {
		t.Fatalf("expected message to stay pending, got %d", store.PendingOutboxCount())
	}
}

func TestRelayOnceSkipsUndecodablePayload(t *testing.T) {
	store := memory.NewStore()
	err := store.AppendOutbox(context.Background(), ports.OutboxMessage{
		MessageID: "broken",
		EventType: "contest.step.transitioned",
		Payload:   []byte("{not json"),
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed outbox: %v", err)
	}
	seedOutbox(t, store, "ok")
	publisher := &capturePublisher{}
	relay := EventRelay{Outbox: store, Publisher: publisher}

	published, err := relay.RelayOnce(context.Background())
	if err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected only the valid message published, got %d", published)
	}
}
