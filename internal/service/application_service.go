package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"jobportal/internal/domain"
	"jobportal/pkg/utils"
)

type ApplicationService struct {
	apps  domain.ApplicationRepository
	jobs  domain.JobRepository
	users domain.UserRepository
	opts  options
}

func NewApplicationService(
	apps domain.ApplicationRepository,
	jobs domain.JobRepository,
	users domain.UserRepository,
	opts ...Option,
) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, users: users, opts: newOptions(opts)}
}

// Apply submits the caller's application to an open job. The resume is
// copied from the applicant's profile at this moment.
func (s *ApplicationService) Apply(ctx context.Context, caller domain.Identity, jobID string) (*domain.Application, error) {
	if err := caller.Require(domain.CapApply); err != nil {
		return nil, err
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("load job", err)
	}
	if job == nil {
		return nil, domain.NotFound("job not found")
	}
	if job.IsClosed {
		return nil, domain.Validation("job is closed to new applications")
	}

	existing, err := s.apps.FindOne(ctx, jobID, caller.ID)
	if err != nil {
		return nil, storeErr("load application", err)
	}
	if existing != nil {
		applicationConflicts.Inc()
		return nil, domain.Conflict("already applied to this job")
	}

	applicant, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, storeErr("load applicant", err)
	}
	if applicant == nil {
		return nil, domain.NotFound("applicant not found")
	}

	now := s.opts.clock()
	app := &domain.Application{
		ID:          utils.NewID(),
		JobID:       jobID,
		ApplicantID: caller.ID,
		Resume:      applicant.Resume,
		Status:      domain.StatusApplied,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		// 并发重复提交由唯一索引兜底
		if errors.Is(err, domain.ErrDuplicate) {
			applicationConflicts.Inc()
			return nil, domain.Conflict("already applied to this job")
		}
		return nil, storeErr("create application", err)
	}
	applicationsSubmitted.Inc()
	s.opts.log.Info("application submitted",
		zap.String("applicationId", app.ID),
		zap.String("jobId", jobID),
		zap.String("applicantId", caller.ID))
	return app, nil
}

// ListMine returns the caller's applications with their job and employer, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, caller domain.Identity) ([]domain.Application, error) {
	if err := caller.Require(domain.CapApply); err != nil {
		return nil, err
	}
	apps, err := s.apps.Find(ctx, domain.ApplicationFilter{
		ApplicantID: caller.ID,
		Preload:     domain.PreloadJobCompany,
	})
	if err != nil {
		return nil, storeErr("list applications", err)
	}
	return apps, nil
}

// ListForJob returns the applicants of a job. Only the job's owner may call it.
func (s *ApplicationService) ListForJob(ctx context.Context, caller domain.Identity, jobID string) ([]domain.Application, error) {
	if caller.Anonymous() {
		return nil, domain.Unauthorized("authentication required")
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("load job", err)
	}
	if job == nil {
		return nil, domain.NotFound("job not found")
	}
	if job.CompanyID != caller.ID {
		return nil, domain.Forbidden("not authorized to view applications for this job")
	}
	apps, err := s.apps.Find(ctx, domain.ApplicationFilter{
		JobID:   jobID,
		Preload: domain.PreloadApplicant,
	})
	if err != nil {
		return nil, storeErr("list applications", err)
	}
	return apps, nil
}

// GetByID is visible to the applicant and to the owner of the job.
func (s *ApplicationService) GetByID(ctx context.Context, caller domain.Identity, id string) (*domain.Application, error) {
	if caller.Anonymous() {
		return nil, domain.Unauthorized("authentication required")
	}
	app, err := s.load(ctx, id, domain.PreloadJobCompany|domain.PreloadApplicant)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != caller.ID && !ownsJob(app, caller) {
		return nil, domain.Forbidden("not authorized to view this application")
	}
	return app, nil
}

// SetStatus moves an application to raw. Only the job's owner may change it.
func (s *ApplicationService) SetStatus(ctx context.Context, caller domain.Identity, id, raw string) (*domain.Application, error) {
	status, err := domain.ParseApplicationStatus(raw)
	if err != nil {
		return nil, err
	}
	if caller.Anonymous() {
		return nil, domain.Unauthorized("authentication required")
	}
	app, err := s.load(ctx, id, domain.PreloadJob)
	if err != nil {
		return nil, err
	}
	if !ownsJob(app, caller) {
		return nil, domain.Forbidden("not authorized to update this application")
	}
	if s.opts.strict {
		if err := checkTransition(app.Status, status); err != nil {
			return nil, err
		}
	}
	if err := s.apps.UpdateStatus(ctx, id, status); err != nil {
		return nil, storeErr("update application status", err)
	}
	from := app.Status
	app.Status = status
	app.UpdatedAt = s.opts.clock()
	statusChanges.WithLabelValues(string(status)).Inc()
	s.opts.log.Info("application status changed",
		zap.String("applicationId", id),
		zap.String("from", string(from)),
		zap.String("to", string(status)))
	return app, nil
}

func (s *ApplicationService) load(ctx context.Context, id string, p domain.Preload) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, id, p)
	if err != nil {
		return nil, storeErr("load application", err)
	}
	if app == nil {
		return nil, domain.NotFound("application not found")
	}
	return app, nil
}

func ownsJob(app *domain.Application, caller domain.Identity) bool {
	return app.Job != nil && app.Job.CompanyID == caller.ID
}

var statusRank = map[domain.ApplicationStatus]int{
	domain.StatusApplied:  0,
	domain.StatusInReview: 1,
	domain.StatusAccepted: 2,
	domain.StatusRejected: 2,
}

// checkTransition only allows forward moves; a terminal status is final.
func checkTransition(from, to domain.ApplicationStatus) error {
	if from == to {
		return domain.Validation("application is already " + string(from))
	}
	if from.Terminal() {
		return domain.Validation("application is already " + string(from) + " and cannot change")
	}
	if statusRank[to] < statusRank[from] {
		return domain.Validation("cannot move application from " + string(from) + " back to " + string(to))
	}
	return nil
}
