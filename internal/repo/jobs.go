// Package repo holds database store implementations.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fetcharr/internal/domain/consts"
	"fetcharr/internal/models"

	"github.com/Masterminds/squirrel"
)

// JobStore holds a pointer to the sql.DB.
type JobStore struct {
	DB *sql.DB
}

// GetJobStore returns a job store instance with injected database.
func GetJobStore(db *sql.DB) *JobStore {
	return &JobStore{
		DB: db,
	}
}

// AddJob inserts a new job record.
func (js *JobStore) AddJob(ctx context.Context, job *models.Job) error {
	query := squirrel.
		Insert(consts.DBJobs).
		Columns(
			consts.QJobID, consts.QJobURL, consts.QJobFormat, consts.QJobQuality,
			consts.QJobTitle, consts.QJobStatus, consts.QJobPct, consts.QJobError,
			consts.QJobCreatedAt, consts.QJobUpdatedAt).
		Values(
			job.ID, job.URL, job.Format, job.Quality,
			job.Title, job.Status, job.Percent, job.Error,
			job.CreatedAt, job.UpdatedAt).
		RunWith(js.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to insert job %q: %w", job.ID, err)
	}
	return nil
}

// UpdateJobStatus writes a status update for a job.
func (js *JobStore) UpdateJobStatus(ctx context.Context, update models.StatusUpdate) error {
	normalizeJobStatus(&update)

	query := squirrel.
		Update(consts.DBJobs).
		Set(consts.QJobStatus, update.Status).
		Set(consts.QJobPct, update.Percent).
		Set(consts.QJobError, update.Error).
		Set(consts.QJobUpdatedAt, time.Now()).
		Where(squirrel.Eq{consts.QJobID: update.JobID}).
		RunWith(js.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to update status for job %q: %w", update.JobID, err)
	}
	return nil
}

// SetJobTitle records the resolved display title for a job.
func (js *JobStore) SetJobTitle(ctx context.Context, jobID, title string) error {
	query := squirrel.
		Update(consts.DBJobs).
		Set(consts.QJobTitle, title).
		Set(consts.QJobUpdatedAt, time.Now()).
		Where(squirrel.Eq{consts.QJobID: jobID}).
		RunWith(js.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to set title for job %q: %w", jobID, err)
	}
	return nil
}

// GetRecentJobs returns the most recent job records, newest first.
func (js *JobStore) GetRecentJobs(ctx context.Context, limit uint64) ([]*models.Job, error) {
	query := squirrel.
		Select(
			consts.QJobID, consts.QJobURL, consts.QJobFormat, consts.QJobQuality,
			consts.QJobTitle, consts.QJobStatus, consts.QJobPct, consts.QJobError,
			consts.QJobCreatedAt, consts.QJobUpdatedAt).
		From(consts.DBJobs).
		OrderBy(consts.QJobCreatedAt + " DESC").
		Limit(limit).
		RunWith(js.DB)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j := new(models.Job)
		if err := rows.Scan(
			&j.ID, &j.URL, &j.Format, &j.Quality,
			&j.Title, &j.Status, &j.Percent, &j.Error,
			&j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// normalizeJobStatus clamps percentages into the valid range. Status
// transitions are explicit; percentage alone never completes a job.
func normalizeJobStatus(update *models.StatusUpdate) {
	if update.Percent > 100.0 {
		update.Percent = 100.0
	} else if update.Percent < 0.0 {
		update.Percent = 0.0
	}
}
