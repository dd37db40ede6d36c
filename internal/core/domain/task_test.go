package domain

import (
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if id1 == "" || id2 == "" {
		t.Error("expected non-empty ID")
	}
	if id1 == id2 {
		t.Error("expected unique IDs")
	}
	// Base64 URL encoding of 16 bytes = 22 chars
	if len(id1) != 22 {
		t.Errorf("expected ID length 22, got %d", len(id1))
	}
}

func TestNewTask(t *testing.T) {
	payload := map[string]string{"key": "value"}

	task := NewTask(TaskTypeIngestDocument, payload)

	if task.ID == "" {
		t.Error("expected non-empty ID")
	}
	if task.Type != TaskTypeIngestDocument {
		t.Errorf("expected type %s, got %s", TaskTypeIngestDocument, task.Type)
	}
	if task.Payload["key"] != "value" {
		t.Error("expected payload to be set")
	}
	if task.Status != TaskStatusPending {
		t.Errorf("expected status %s, got %s", TaskStatusPending, task.Status)
	}
	if task.MaxAttempts != 3 {
		t.Errorf("expected max attempts 3, got %d", task.MaxAttempts)
	}
	if task.CreatedAt.IsZero() || task.ScheduledFor.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestTaskConstructors(t *testing.T) {
	tests := []struct {
		name string
		task *Task
		typ  TaskType
	}{
		{"ingest", NewIngestTask("cpeum"), TaskTypeIngestDocument},
		{"refresh", NewRefreshTask("cpeum"), TaskTypeRefreshSource},
		{"verify", NewVerifyTask("cpeum"), TaskTypeVerifyIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.task.Type != tt.typ {
				t.Errorf("expected type %s, got %s", tt.typ, tt.task.Type)
			}
			if tt.task.DocumentID() != "cpeum" {
				t.Errorf("expected document id cpeum, got %q", tt.task.DocumentID())
			}
		})
	}
}

func TestTask_DocumentID_NilPayload(t *testing.T) {
	task := &Task{}
	if got := task.DocumentID(); got != "" {
		t.Errorf("expected empty document id, got %q", got)
	}
}

func TestTask_CanRetry(t *testing.T) {
	task := NewIngestTask("doc")
	for i := 0; i < task.MaxAttempts; i++ {
		if !task.CanRetry() {
			t.Fatalf("expected retry allowed after %d attempts", i)
		}
		task.MarkProcessing()
	}
	if task.CanRetry() {
		t.Error("expected retry refused after max attempts")
	}
}

func TestTask_IsReady(t *testing.T) {
	task := NewIngestTask("doc")
	task.ScheduledFor = time.Now().Add(-time.Second)
	if !task.IsReady() {
		t.Error("expected pending task in the past to be ready")
	}

	task.ScheduledFor = time.Now().Add(time.Hour)
	if task.IsReady() {
		t.Error("expected future task not to be ready")
	}

	task.ScheduledFor = time.Now().Add(-time.Second)
	task.MarkProcessing()
	if task.IsReady() {
		t.Error("expected processing task not to be ready")
	}
}

func TestTask_Lifecycle(t *testing.T) {
	task := NewVerifyTask("doc")

	task.MarkProcessing()
	if task.Status != TaskStatusProcessing || task.StartedAt == nil || task.Attempts != 1 {
		t.Fatalf("unexpected processing state: %+v", task)
	}

	task.MarkFailed("boom")
	if task.Status != TaskStatusFailed || task.Error != "boom" {
		t.Fatalf("unexpected failed state: %+v", task)
	}

	task.MarkCompleted()
	if task.Status != TaskStatusCompleted || task.CompletedAt == nil || task.Error != "" {
		t.Fatalf("unexpected completed state: %+v", task)
	}
}

func TestTask_Retry_ExponentialBackoff(t *testing.T) {
	task := NewIngestTask("doc")
	task.Attempts = 2

	before := time.Now()
	task.Retry("transient")

	if task.Status != TaskStatusPending {
		t.Errorf("expected pending, got %s", task.Status)
	}
	if task.Error != "transient" {
		t.Errorf("expected error to be recorded, got %q", task.Error)
	}
	if delay := task.ScheduledFor.Sub(before); delay < 4*time.Second {
		t.Errorf("expected at least 4s backoff, got %s", delay)
	}

	task.Attempts = 20
	task.Retry("again")
	if delay := time.Until(task.ScheduledFor); delay > 5*time.Minute {
		t.Errorf("expected backoff capped at 5m, got %s", delay)
	}
}
