package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"fetcharr/internal/domain/consts"
	"fetcharr/internal/models"
)

// fakeRecorder captures flushed status updates.
type fakeRecorder struct {
	mu      sync.Mutex
	updates []models.StatusUpdate
}

func (f *fakeRecorder) AddJob(ctx context.Context, job *models.Job) error { return nil }

func (f *fakeRecorder) UpdateJobStatus(ctx context.Context, update models.StatusUpdate) error {
	f.mu.Lock()
	f.updates = append(f.updates, update)
	f.mu.Unlock()
	return nil
}

func (f *fakeRecorder) snapshot() []models.StatusUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.StatusUpdate(nil), f.updates...)
}

// TestTrackerFlushesUpdates verifies queued updates reach the recorder and
// consecutive duplicates collapse into one write.
func TestTrackerFlushesUpdates(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	tracker := NewTracker(rec)
	tracker.Start(context.Background())
	defer tracker.Stop()

	first := models.StatusUpdate{JobID: "job-1", Status: consts.JobStatusRunning, Percent: 10}
	second := models.StatusUpdate{JobID: "job-1", Status: consts.JobStatusRunning, Percent: 55}

	tracker.Send(first)
	tracker.Send(first) // duplicate, should be skipped
	tracker.Send(second)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(rec.snapshot()) >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := rec.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 flushed updates, got %d: %v", len(got), got)
	}
	if got[0] != first || got[1] != second {
		t.Fatalf("flushed updates mismatch: %v", got)
	}
}

// TestTrackerDrainsQueueOnStop verifies updates still queued when the
// tracker stops are flushed rather than dropped, so a terminal status
// written just before shutdown reaches the recorder.
func TestTrackerDrainsQueueOnStop(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	tracker := NewTracker(rec)

	// Queue before the worker starts so the terminal update is still
	// pending when Stop is called.
	running := models.StatusUpdate{JobID: "job-1", Status: consts.JobStatusRunning, Percent: 50}
	terminal := models.StatusUpdate{JobID: "job-1", Status: consts.JobStatusCompleted, Percent: 100}
	tracker.Send(running)
	tracker.Send(terminal)

	tracker.Start(context.Background())
	tracker.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(rec.snapshot()) >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := rec.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected both queued updates flushed on stop, got %d: %v", len(got), got)
	}
	if got[len(got)-1] != terminal {
		t.Fatalf("terminal status should be the last flush, got %v", got)
	}
}

// TestTrackerRejectsEmptyJobID verifies updates without a job ID are
// discarded before queueing.
func TestTrackerRejectsEmptyJobID(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	tracker := NewTracker(rec)
	tracker.Start(context.Background())
	defer tracker.Stop()

	tracker.Send(models.StatusUpdate{Status: consts.JobStatusRunning, Percent: 10})

	time.Sleep(100 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("empty job ID should be discarded, got %v", got)
	}
}
