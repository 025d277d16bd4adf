package domain

import (
	"context"
	"strings"
	"time"
)

type EmploymentType string

const (
	TypeRemote     EmploymentType = "Remote"
	TypeFullTime   EmploymentType = "Full-Time"
	TypePartTime   EmploymentType = "Part-Time"
	TypeInternship EmploymentType = "Internship"
	TypeContract   EmploymentType = "Contract"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case TypeRemote, TypeFullTime, TypePartTime, TypeInternship, TypeContract:
		return true
	}
	return false
}

type Job struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	CompanyID    string         `gorm:"size:36;not null;index" json:"companyId"`
	Company      *User          `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"company,omitempty"`
	Title        string         `gorm:"size:191;not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Requirements string         `gorm:"type:text;not null" json:"requirements"`
	Location     string         `gorm:"size:191" json:"location"`
	Category     string         `gorm:"size:64;index" json:"category"`
	Type         EmploymentType `gorm:"size:16;not null;index" json:"type"`
	SalaryMin    *int64         `json:"salaryMin"`
	SalaryMax    *int64         `json:"salaryMax"`
	IsClosed     bool           `gorm:"not null;index" json:"isClosed"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Job) TableName() string { return "jobs" }

// JobInput holds the employer-editable fields of a Job.
type JobInput struct {
	Title        string         `json:"title" binding:"required"`
	Description  string         `json:"description" binding:"required"`
	Requirements string         `json:"requirements" binding:"required"`
	Location     string         `json:"location"`
	Category     string         `json:"category"`
	Type         EmploymentType `json:"type" binding:"required"`
	SalaryMin    *int64         `json:"salaryMin"`
	SalaryMax    *int64         `json:"salaryMax"`
}

func (in *JobInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Requirements = strings.TrimSpace(in.Requirements)
	switch {
	case in.Title == "":
		return Validation("title is required")
	case in.Description == "":
		return Validation("description is required")
	case in.Requirements == "":
		return Validation("requirements is required")
	case !in.Type.Valid():
		return Validation("invalid job type: " + string(in.Type))
	}
	return nil
}

// Apply copies the input onto j, replacing every mutable field.
func (in JobInput) Apply(j *Job) {
	j.Title = in.Title
	j.Description = in.Description
	j.Requirements = in.Requirements
	j.Location = strings.TrimSpace(in.Location)
	j.Category = strings.TrimSpace(in.Category)
	j.Type = in.Type
	j.SalaryMin = in.SalaryMin
	j.SalaryMax = in.SalaryMax
}

// JobSearchCriteria is the raw directory query as received from a caller.
// Salary bounds are kept as text so malformed numbers surface as
// validation failures.
type JobSearchCriteria struct {
	Keyword   string `form:"keyword"`
	Location  string `form:"location"`
	Category  string `form:"category"`
	Type      string `form:"type"`
	MinSalary string `form:"minSalary"`
	MaxSalary string `form:"maxSalary"`
}

// JobFilter is the validated predicate handed to the store. Zero fields are
// omitted from the query. OpenOnly is always set by the directory.
type JobFilter struct {
	OpenOnly  bool
	CompanyID string
	Keyword   string
	Location  string
	Category  string
	Type      EmploymentType
	MinSalary *int64 // job.salaryMax >= MinSalary
	MaxSalary *int64 // job.salaryMin <= MaxSalary
}

// JobCountFilter scopes analytics counts over an employer's jobs.
type JobCountFilter struct {
	CompanyID   string
	ActiveOnly  bool
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// JobView is a Job enriched with the viewer's own state.
type JobView struct {
	Job
	IsSaved           bool               `json:"isSaved"`
	ApplicationStatus *ApplicationStatus `json:"applicationStatus"`
}

type JobWithCount struct {
	Job
	ApplicationCount int64 `json:"applicationCount"`
}

type JobRepository interface {
	Create(ctx context.Context, j *Job) error
	FindByID(ctx context.Context, id string) (*Job, error)
	Find(ctx context.Context, f JobFilter) ([]Job, error)
	Update(ctx context.Context, j *Job) error
	// Delete removes the job with its applications and saved entries.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f JobCountFilter) (int64, error)
	Recent(ctx context.Context, companyID string, limit int) ([]Job, error)
}
