package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

type stubOutboxRepo struct {
	pending   []ports.OutboxRecord
	published []uuid.UUID
	failed    []uuid.UUID
}

func (r *stubOutboxRepo) Enqueue(context.Context, ports.OutboxEvent) error { return nil }

func (r *stubOutboxRepo) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit < len(r.pending) {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *stubOutboxRepo) MarkPublished(_ context.Context, outboxID uuid.UUID, _ time.Time) error {
	r.published = append(r.published, outboxID)
	return nil
}

func (r *stubOutboxRepo) MarkFailed(_ context.Context, outboxID uuid.UUID, _ string, _ time.Time) error {
	r.failed = append(r.failed, outboxID)
	return nil
}

type stubPublisher struct {
	failType string
	sent     []string
}

func (p *stubPublisher) Publish(_ context.Context, eventType string, _ []byte, _ string) error {
	if eventType == p.failType {
		return errors.New("broker unavailable")
	}
	p.sent = append(p.sent, eventType)
	return nil
}

func TestOutboxWorkerSweep_MarksPublishedAndFailed(t *testing.T) {
	okID, badID := uuid.New(), uuid.New()
	repo := &stubOutboxRepo{pending: []ports.OutboxRecord{
		{OutboxID: okID, EventType: "visit.recorded", Payload: []byte(`{}`)},
		{OutboxID: badID, EventType: "coupon.issued", Payload: []byte(`{}`)},
	}}
	pub := &stubPublisher{failType: "coupon.issued"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	w := NewOutboxWorker(logger, repo, pub, time.Second, 10)
	if err := w.sweep(context.Background()); err != nil {
		t.Fatalf("sweep error: %v", err)
	}

	if len(repo.published) != 1 || repo.published[0] != okID {
		t.Fatalf("expected only the delivered record marked published, got %v", repo.published)
	}
	if len(repo.failed) != 1 || repo.failed[0] != badID {
		t.Fatalf("expected the undeliverable record marked failed, got %v", repo.failed)
	}
	if len(pub.sent) != 1 || pub.sent[0] != "visit.recorded" {
		t.Fatalf("unexpected publishes: %v", pub.sent)
	}
}

func TestOutboxWorkerSweep_RespectsBatchSize(t *testing.T) {
	repo := &stubOutboxRepo{}
	for i := 0; i < 5; i++ {
		repo.pending = append(repo.pending, ports.OutboxRecord{
			OutboxID: uuid.New(), EventType: "customer.created", Payload: []byte(`{}`),
		})
	}
	pub := &stubPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	w := NewOutboxWorker(logger, repo, pub, time.Second, 2)
	if err := w.sweep(context.Background()); err != nil {
		t.Fatalf("sweep error: %v", err)
	}
	if len(repo.published) != 2 {
		t.Fatalf("expected the sweep to stop at the batch size, got %d", len(repo.published))
	}
}
