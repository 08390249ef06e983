package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type mockLister struct {
	ids []uuid.UUID
}

func (m *mockLister) ListWorkerIDs(context.Context) ([]uuid.UUID, error) {
	return m.ids, nil
}

type mockNotifications struct {
	mu       sync.Mutex
	inserted []*models.Notification
	cutoff   time.Time
	swept    int64
}

func (m *mockNotifications) InsertBatch(_ context.Context, accountIDs []uuid.UUID, title, message, category string, jobID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range accountIDs {
		m.inserted = append(m.inserted, &models.Notification{
			ID:        uuid.New(),
			AccountID: id,
			Title:     title,
			Message:   message,
			Category:  category,
			JobID:     jobID,
		})
	}
	return nil
}

func (m *mockNotifications) DeleteReadOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoff = cutoff
	return m.swept, nil
}

func TestFanoutWorker(t *testing.T) {
	workers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	lister := &mockLister{ids: workers}
	store := &mockNotifications{}
	w := NewFanoutWorker(lister, store, nil)

	jobID := uuid.New()
	args := FanoutArgs{
		JobID:    jobID,
		Title:    "New job: Box office shift",
		Message:  "Main hall, 2026-09-12 18:00-23:00",
		Category: models.NotificationCategoryNewJob,
	}
	if err := w.Work(context.Background(), &river.Job[FanoutArgs]{Args: args}); err != nil {
		t.Fatalf("Work: %v", err)
	}

	if len(store.inserted) != len(workers) {
		t.Fatalf("notifications: got %d, want %d", len(store.inserted), len(workers))
	}
	seen := make(map[uuid.UUID]bool)
	for _, n := range store.inserted {
		seen[n.AccountID] = true
		if n.Title != args.Title || n.Message != args.Message {
			t.Errorf("notification content mismatch for %s", n.AccountID)
		}
		if n.Category != models.NotificationCategoryNewJob {
			t.Errorf("category: got %q", n.Category)
		}
		if n.JobID == nil || *n.JobID != jobID {
			t.Error("notification should reference the new job")
		}
	}
	for _, id := range workers {
		if !seen[id] {
			t.Errorf("worker %s did not receive a notification", id)
		}
	}
}

func TestFanoutWorker_NoWorkers(t *testing.T) {
	store := &mockNotifications{}
	w := NewFanoutWorker(&mockLister{}, store, nil)

	if err := w.Work(context.Background(), &river.Job[FanoutArgs]{Args: FanoutArgs{Title: "New job"}}); err != nil {
		t.Fatalf("Work: %v", err)
	}
	if len(store.inserted) != 0 {
		t.Errorf("no notifications expected, got %d", len(store.inserted))
	}
}

func TestSweepWorker(t *testing.T) {
	store := &mockNotifications{swept: 12}
	w := NewSweepWorker(store, nil)

	before := time.Now().Add(-RetentionWindow)
	if err := w.Work(context.Background(), &river.Job[SweepArgs]{}); err != nil {
		t.Fatalf("Work: %v", err)
	}
	after := time.Now().Add(-RetentionWindow)

	if store.cutoff.Before(before) || store.cutoff.After(after) {
		t.Errorf("cutoff %v not within the retention window bounds", store.cutoff)
	}
}
