package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

const (
	StatusApplied  ApplicationStatus = "Applied"
	StatusInReview ApplicationStatus = "In Review"
	StatusAccepted ApplicationStatus = "Accepted"
	StatusRejected ApplicationStatus = "Rejected"
)

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch st := ApplicationStatus(s); st {
	case StatusApplied, StatusInReview, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", Validation("invalid application status: " + s)
}

func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type Application struct {
	ID          string            `gorm:"primaryKey;size:36" json:"id"`
	JobID       string            `gorm:"size:36;not null;uniqueIndex:idx_application_job_applicant" json:"jobId"`
	Job         *Job              `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"job,omitempty"`
	ApplicantID string            `gorm:"size:36;not null;uniqueIndex:idx_application_job_applicant;index" json:"applicantId"`
	Applicant   *User             `gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"applicant,omitempty"`
	Resume      string            `gorm:"size:512" json:"resume"` // snapshot taken at apply time
	Status      ApplicationStatus `gorm:"size:16;not null;index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Application) TableName() string { return "applications" }

// Preload selects which parents are loaded alongside applications.
type Preload int

const (
	PreloadJob Preload = 1 << iota
	PreloadJobCompany
	PreloadApplicant
)

type ApplicationFilter struct {
	JobID       string
	ApplicantID string
	Preload     Preload
}

// ApplicationCountFilter scopes counts to the applications received by
// one employer's jobs.
type ApplicationCountFilter struct {
	CompanyID   string
	Status      ApplicationStatus
	CreatedFrom time.Time
	CreatedTo   time.Time
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *Application) error
	FindByID(ctx context.Context, id string, p Preload) (*Application, error)
	FindOne(ctx context.Context, jobID, applicantID string) (*Application, error)
	// Find returns matches newest first.
	Find(ctx context.Context, f ApplicationFilter) ([]Application, error)
	UpdateStatus(ctx context.Context, id string, s ApplicationStatus) error
	// CountByJob returns the number of applications per job id.
	CountByJob(ctx context.Context, jobIDs []string) (map[string]int64, error)
	Count(ctx context.Context, f ApplicationCountFilter) (int64, error)
	Recent(ctx context.Context, companyID string, limit int) ([]Application, error)
}
