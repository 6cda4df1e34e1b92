package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fetcharr/internal/database"
	"fetcharr/internal/domain/consts"
	"fetcharr/internal/models"
)

func newTestStore(t *testing.T) *JobStore {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return GetJobStore(db)
}

func testJob(id string, createdAt time.Time) *models.Job {
	return &models.Job{
		ID:        id,
		URL:       "https://example.com/v/" + id,
		Format:    "mp3",
		Quality:   "auto",
		Status:    consts.JobStatusRunning,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// TestJobLifecycle tests insert, status update, title update, and readback.
func TestJobLifecycle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddJob(ctx, testJob("job-1", time.Now())); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	update := models.StatusUpdate{
		JobID:   "job-1",
		Status:  consts.JobStatusCompleted,
		Percent: 100,
	}
	if err := store.UpdateJobStatus(ctx, update); err != nil {
		t.Fatalf("UpdateJobStatus failed: %v", err)
	}

	if err := store.SetJobTitle(ctx, "job-1", "My Video"); err != nil {
		t.Fatalf("SetJobTitle failed: %v", err)
	}

	jobs, err := store.GetRecentJobs(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecentJobs failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	got := jobs[0]
	if got.ID != "job-1" {
		t.Fatalf("ID mismatch: got %q", got.ID)
	}
	if got.Status != consts.JobStatusCompleted {
		t.Fatalf("status mismatch: got %q", got.Status)
	}
	if got.Percent != 100 {
		t.Fatalf("percent mismatch: got %v", got.Percent)
	}
	if got.Title != "My Video" {
		t.Fatalf("title mismatch: got %q", got.Title)
	}
}

// TestUpdateJobStatusClampsPercent tests out-of-range percentages are
// clamped rather than stored raw.
func TestUpdateJobStatusClampsPercent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddJob(ctx, testJob("job-1", time.Now())); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	tests := []struct {
		send float64
		want float64
	}{
		{send: 150, want: 100},
		{send: -5, want: 0},
		{send: 42.5, want: 42.5},
	}

	for _, tc := range tests {
		update := models.StatusUpdate{JobID: "job-1", Status: consts.JobStatusRunning, Percent: tc.send}
		if err := store.UpdateJobStatus(ctx, update); err != nil {
			t.Fatalf("UpdateJobStatus(%v) failed: %v", tc.send, err)
		}

		jobs, err := store.GetRecentJobs(ctx, 1)
		if err != nil || len(jobs) != 1 {
			t.Fatalf("readback failed: %v (%d jobs)", err, len(jobs))
		}
		if jobs[0].Percent != tc.want {
			t.Fatalf("percent %v should store as %v, got %v", tc.send, tc.want, jobs[0].Percent)
		}
	}
}

// TestGetRecentJobsOrderAndLimit tests newest-first ordering and the row
// limit.
func TestGetRecentJobsOrderAndLimit(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"job-old", "job-mid", "job-new"} {
		if err := store.AddJob(ctx, testJob(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("AddJob(%s) failed: %v", id, err)
		}
	}

	jobs, err := store.GetRecentJobs(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecentJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("limit not applied: got %d jobs", len(jobs))
	}
	if jobs[0].ID != "job-new" || jobs[1].ID != "job-mid" {
		t.Fatalf("ordering mismatch: got %q, %q", jobs[0].ID, jobs[1].ID)
	}
}

// TestGetRecentJobsEmpty tests readback from an empty table.
func TestGetRecentJobsEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	jobs, err := store.GetRecentJobs(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecentJobs failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}
