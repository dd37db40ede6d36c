package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/lexcore/internal/core/ports/driving"
)

// stubIngestion implements the Reingest side of IngestionService
type stubIngestion struct {
	driving.IngestionService
	reingested []string
	err        error
}

func (s *stubIngestion) Reingest(ctx context.Context, documentID string) (*domain.IngestionResult, error) {
	s.reingested = append(s.reingested, documentID)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.IngestionResult{DocumentID: documentID, ChunkCount: 3}, nil
}

// stubLineage implements the refresh and verify side of LineageService
type stubLineage struct {
	driving.LineageService
	refreshErr error
	integrity  domain.IntegrityResult
	refreshed  []string
	verified   []string
}

func (s *stubLineage) RefreshFromSource(ctx context.Context, documentID string) (*domain.EditionRecord, error) {
	s.refreshed = append(s.refreshed, documentID)
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return nil, nil
}

func (s *stubLineage) VerifyIntegrity(ctx context.Context, documentID string) (*domain.IntegrityResult, error) {
	s.verified = append(s.verified, documentID)
	result := s.integrity
	return &result, nil
}

type pingFailQueue struct {
	*mocks.MockTaskQueue
}

func (q pingFailQueue) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func newTestWorker(queue *mocks.MockTaskQueue, ingestion *stubIngestion, lineage *stubLineage) *Worker {
	return NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Ingestion:      ingestion,
		Lineage:        lineage,
		DequeueTimeout: 1,
	})
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(WorkerConfig{TaskQueue: mocks.NewMockTaskQueue()})

	if w.concurrency != 1 {
		t.Errorf("expected default concurrency 1, got %d", w.concurrency)
	}
	if w.dequeueTimeout != 5 {
		t.Errorf("expected default dequeue timeout 5, got %d", w.dequeueTimeout)
	}
	if w.logger == nil {
		t.Error("expected default logger")
	}
}

func TestWorker_ProcessTask_Ingest(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	ingestion := &stubIngestion{}
	w := newTestWorker(queue, ingestion, &stubLineage{})

	task := domain.NewIngestTask("lft")
	w.processTask(context.Background(), task, slog.Default())

	if len(ingestion.reingested) != 1 || ingestion.reingested[0] != "lft" {
		t.Errorf("expected lft to be re-ingested, got %v", ingestion.reingested)
	}
	if len(queue.Acked) != 1 || queue.Acked[0] != task.ID {
		t.Errorf("expected task to be acked, got %v", queue.Acked)
	}
}

func TestWorker_ProcessTask_IngestFailureNacks(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	w := newTestWorker(queue, &stubIngestion{err: domain.ErrNotFound}, &stubLineage{})

	task := domain.NewIngestTask("missing")
	w.processTask(context.Background(), task, slog.Default())

	if len(queue.Nacked) != 1 || queue.Nacked[0] != task.ID {
		t.Errorf("expected task to be nacked, got %v", queue.Nacked)
	}
	if len(queue.Acked) != 0 {
		t.Error("failed task must not be acked")
	}
}

func TestWorker_ProcessTask_Refresh(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	lineage := &stubLineage{}
	w := newTestWorker(queue, &stubIngestion{}, lineage)

	w.processTask(context.Background(), domain.NewRefreshTask("cpeum"), slog.Default())
	if len(lineage.refreshed) != 1 || len(queue.Acked) != 1 {
		t.Errorf("expected refresh and ack, got %v / %v", lineage.refreshed, queue.Acked)
	}

	// an edition recorded in the meantime is not a failure
	lineage.refreshErr = domain.ErrAlreadyExists
	w.processTask(context.Background(), domain.NewRefreshTask("cpeum"), slog.Default())
	if len(queue.Acked) != 2 {
		t.Errorf("expected duplicate edition to be acked")
	}

	lineage.refreshErr = errors.New("timeout")
	w.processTask(context.Background(), domain.NewRefreshTask("cpeum"), slog.Default())
	if len(queue.Nacked) != 1 {
		t.Errorf("expected fetch failure to be nacked")
	}
}

func TestWorker_ProcessTask_Verify(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	lineage := &stubLineage{integrity: domain.IntegrityResult{Valid: true}}
	w := newTestWorker(queue, &stubIngestion{}, lineage)

	w.processTask(context.Background(), domain.NewVerifyTask("lft"), slog.Default())
	if len(queue.Acked) != 1 {
		t.Errorf("expected valid integrity to ack")
	}

	lineage.integrity = domain.IntegrityResult{Valid: false, Errors: []string{"SHA-256 mismatch"}}
	w.processTask(context.Background(), domain.NewVerifyTask("lft"), slog.Default())
	if len(queue.Nacked) != 1 {
		t.Errorf("expected failed integrity to nack")
	}
}

func TestWorker_ProcessTask_BadTasks(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	w := newTestWorker(queue, &stubIngestion{}, &stubLineage{})

	w.processTask(context.Background(), domain.NewTask(domain.TaskTypeIngestDocument, nil), slog.Default())
	w.processTask(context.Background(), domain.NewTask("unknown", map[string]string{"document_id": "lft"}), slog.Default())

	if len(queue.Nacked) != 2 {
		t.Errorf("expected both tasks to be nacked, got %v", queue.Nacked)
	}
}

func TestWorker_ProcessLoop_WithTasks(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	ingestion := &stubIngestion{}
	w := newTestWorker(queue, ingestion, &stubLineage{})

	ctx := context.Background()
	_ = queue.EnqueueBatch(ctx, []*domain.Task{
		domain.NewIngestTask("cpeum"),
		domain.NewIngestTask("lft"),
	})

	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(queue.Pending()) == 0 && acked(queue) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()

	if acked(queue) != 2 {
		t.Errorf("expected 2 acked tasks, got %d", acked(queue))
	}
}

func TestWorker_ContextCancellation(t *testing.T) {
	w := newTestWorker(mocks.NewMockTaskQueue(), &stubIngestion{}, &stubLineage{})

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestWorker_Health(t *testing.T) {
	w := newTestWorker(mocks.NewMockTaskQueue(), &stubIngestion{}, &stubLineage{})

	health := w.Health(context.Background())
	if health.Running || !health.QueueHealth {
		t.Errorf("unexpected health %+v", health)
	}

	w = NewWorker(WorkerConfig{TaskQueue: pingFailQueue{mocks.NewMockTaskQueue()}})
	health = w.Health(context.Background())
	if health.QueueHealth || health.Error == "" {
		t.Errorf("expected unhealthy queue, got %+v", health)
	}
}

// acked reads the acknowledgement count under the queue's lock
func acked(queue *mocks.MockTaskQueue) int {
	stats, _ := queue.Stats(context.Background())
	return int(stats.CompletedCount)
}
