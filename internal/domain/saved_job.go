package domain

import (
	"context"
	"time"
)

// SavedJob is a jobseeker's bookmark of a Job.
type SavedJob struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	JobID       string `gorm:"size:36;not null;uniqueIndex:idx_saved_job_jobseeker" json:"jobId"`
	Job         *Job   `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"job,omitempty"`
	JobseekerID string `gorm:"size:36;not null;uniqueIndex:idx_saved_job_jobseeker;index" json:"jobseekerId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SavedJob) TableName() string { return "saved_jobs" }

type SavedJobRepository interface {
	Create(ctx context.Context, s *SavedJob) error
	Delete(ctx context.Context, jobID, jobseekerID string) error
	// ListByJobseeker returns bookmarks with their job and its employer, newest first.
	ListByJobseeker(ctx context.Context, jobseekerID string) ([]SavedJob, error)
	JobIDs(ctx context.Context, jobseekerID string) ([]string, error)
	Exists(ctx context.Context, jobID, jobseekerID string) (bool, error)
}
