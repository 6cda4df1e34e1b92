package jobs

import (
	"context"
	"time"

	"fetcharr/internal/models"
	"fetcharr/internal/utils/logging"
)

// JobRecorder persists job records and status updates.
type JobRecorder interface {
	AddJob(ctx context.Context, job *models.Job) error
	UpdateJobStatus(ctx context.Context, update models.StatusUpdate) error
}

// Tracker flushes job status updates to the database off the hot path, so
// progress callbacks never block on storage.
type Tracker struct {
	updates chan models.StatusUpdate
	done    chan struct{}
	store   JobRecorder
}

// NewTracker returns the model used for tracking job status.
func NewTracker(store JobRecorder) *Tracker {
	return &Tracker{
		updates: make(chan models.StatusUpdate, 100),
		done:    make(chan struct{}),
		store:   store,
	}
}

// Start starts job status tracking.
func (t *Tracker) Start(ctx context.Context) {
	go t.processUpdates(ctx)
}

// Stop stops job status tracking.
func (t *Tracker) Stop() {
	close(t.done)
}

// Send enqueues a status update. Drops the update rather than block a
// progress callback when the queue is saturated.
func (t *Tracker) Send(update models.StatusUpdate) {
	if update.JobID == "" {
		logging.E("Invalid status update with empty job ID: %+v", update)
		return
	}
	select {
	case t.updates <- update:
	default:
		logging.W("Status update queue full; dropping update for job %s", update.JobID)
	}
}

// processUpdates flushes queued status updates, skipping consecutive
// duplicates. On stop, anything still queued is drained first so terminal
// statuses written just before shutdown are not lost.
func (t *Tracker) processUpdates(ctx context.Context) {
	var lastUpdate models.StatusUpdate
	for {
		select {
		case <-t.done:
			t.drainUpdates(ctx, lastUpdate)
			return

		case update := <-t.updates:
			if update == lastUpdate {
				continue
			}
			lastUpdate = update
			t.flushUpdate(ctx, update)
		}
	}
}

// drainUpdates flushes whatever remains in the queue without blocking.
func (t *Tracker) drainUpdates(ctx context.Context, lastUpdate models.StatusUpdate) {
	for {
		select {
		case update := <-t.updates:
			if update == lastUpdate {
				continue
			}
			lastUpdate = update
			t.flushUpdate(ctx, update)
		default:
			return
		}
	}
}

// flushUpdate writes one status update with a bounded timeout.
func (t *Tracker) flushUpdate(ctx context.Context, update models.StatusUpdate) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := t.store.UpdateJobStatus(ctx, update); err != nil {
		logging.E("Failed to update status for job %s: %v", update.JobID, err)
	}
}
