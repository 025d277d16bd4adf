package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jobportal/internal/domain"
	"jobportal/pkg/utils"
)

// JobService is the job directory plus the employer's job mutations.
type JobService struct {
	jobs  domain.JobRepository
	apps  domain.ApplicationRepository
	saved domain.SavedJobRepository
	opts  options
}

func NewJobService(
	jobs domain.JobRepository,
	apps domain.ApplicationRepository,
	saved domain.SavedJobRepository,
	opts ...Option,
) *JobService {
	return &JobService{jobs: jobs, apps: apps, saved: saved, opts: newOptions(opts)}
}

// Search returns open jobs matching c, newest first. When viewerID is set each
// result carries that viewer's saved flag and application status.
func (s *JobService) Search(ctx context.Context, c domain.JobSearchCriteria, viewerID string) ([]domain.JobView, error) {
	f, err := BuildJobFilter(c)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.Find(ctx, f)
	if err != nil {
		return nil, storeErr("search jobs", err)
	}
	return s.enrich(ctx, jobs, viewerID)
}

// BuildJobFilter validates raw criteria into a store predicate. Blank fields
// are dropped.
func BuildJobFilter(c domain.JobSearchCriteria) (domain.JobFilter, error) {
	f := domain.JobFilter{
		OpenOnly: true,
		Keyword:  strings.TrimSpace(c.Keyword),
		Location: strings.TrimSpace(c.Location),
		Category: strings.TrimSpace(c.Category),
	}
	if t := strings.TrimSpace(c.Type); t != "" {
		et := domain.EmploymentType(t)
		if !et.Valid() {
			return f, domain.Validation("invalid job type: " + t)
		}
		f.Type = et
	}
	var err error
	if f.MinSalary, err = parseSalary("minSalary", c.MinSalary); err != nil {
		return f, err
	}
	if f.MaxSalary, err = parseSalary("maxSalary", c.MaxSalary); err != nil {
		return f, err
	}
	return f, nil
}

func parseSalary(field, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.Validation(field + " must be an integer")
	}
	return &n, nil
}

// enrich loads the viewer's saved ids and applications once for the whole page.
func (s *JobService) enrich(ctx context.Context, jobs []domain.Job, viewerID string) ([]domain.JobView, error) {
	views := make([]domain.JobView, len(jobs))
	for i := range jobs {
		views[i].Job = jobs[i]
	}
	if viewerID == "" || len(jobs) == 0 {
		return views, nil
	}

	savedIDs, err := s.saved.JobIDs(ctx, viewerID)
	if err != nil {
		return nil, storeErr("load saved jobs", err)
	}
	apps, err := s.apps.Find(ctx, domain.ApplicationFilter{ApplicantID: viewerID})
	if err != nil {
		return nil, storeErr("load applications", err)
	}

	saved := make(map[string]struct{}, len(savedIDs))
	for _, id := range savedIDs {
		saved[id] = struct{}{}
	}
	status := make(map[string]domain.ApplicationStatus, len(apps))
	for _, a := range apps {
		status[a.JobID] = a.Status
	}
	for i := range views {
		id := views[i].ID
		_, views[i].IsSaved = saved[id]
		if st, ok := status[id]; ok {
			views[i].ApplicationStatus = &st
		}
	}
	return views, nil
}

// GetByID returns one job, closed or not, enriched for viewerID.
func (s *JobService) GetByID(ctx context.Context, jobID, viewerID string) (*domain.JobView, error) {
	job, err := s.find(ctx, jobID)
	if err != nil {
		return nil, err
	}
	view := &domain.JobView{Job: *job}
	if viewerID == "" {
		return view, nil
	}
	if view.IsSaved, err = s.saved.Exists(ctx, jobID, viewerID); err != nil {
		return nil, storeErr("load saved job", err)
	}
	app, err := s.apps.FindOne(ctx, jobID, viewerID)
	if err != nil {
		return nil, storeErr("load application", err)
	}
	if app != nil {
		st := app.Status
		view.ApplicationStatus = &st
	}
	return view, nil
}

// ListForEmployer returns every job of employerID with its application count.
func (s *JobService) ListForEmployer(ctx context.Context, caller domain.Identity, employerID string) ([]domain.JobWithCount, error) {
	if err := caller.Require(domain.CapPostJobs); err != nil {
		return nil, err
	}
	if caller.ID != employerID {
		return nil, domain.Forbidden("cannot list another employer's jobs")
	}
	jobs, err := s.jobs.Find(ctx, domain.JobFilter{CompanyID: employerID})
	if err != nil {
		return nil, storeErr("list employer jobs", err)
	}
	ids := make([]string, len(jobs))
	for i := range jobs {
		ids[i] = jobs[i].ID
	}
	counts, err := s.apps.CountByJob(ctx, ids)
	if err != nil {
		return nil, storeErr("count applications", err)
	}
	out := make([]domain.JobWithCount, len(jobs))
	for i := range jobs {
		out[i] = domain.JobWithCount{Job: jobs[i], ApplicationCount: counts[jobs[i].ID]}
	}
	return out, nil
}

func (s *JobService) Create(ctx context.Context, caller domain.Identity, in domain.JobInput) (*domain.Job, error) {
	if err := caller.Require(domain.CapPostJobs); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := s.opts.clock()
	job := &domain.Job{
		ID:        utils.NewID(),
		CompanyID: caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(job)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, storeErr("create job", err)
	}
	jobsPosted.Inc()
	s.opts.log.Info("job created", zap.String("jobId", job.ID), zap.String("companyId", job.CompanyID))
	return job, nil
}

// Update replaces every mutable field; concurrent updates are last writer wins.
func (s *JobService) Update(ctx context.Context, caller domain.Identity, jobID string, in domain.JobInput) (*domain.Job, error) {
	job, err := s.owned(ctx, caller, jobID, "update")
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Apply(job)
	job.UpdatedAt = s.opts.clock()
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, storeErr("update job", err)
	}
	return job, nil
}

func (s *JobService) ToggleClose(ctx context.Context, caller domain.Identity, jobID string) (*domain.Job, error) {
	job, err := s.owned(ctx, caller, jobID, "close")
	if err != nil {
		return nil, err
	}
	job.IsClosed = !job.IsClosed
	job.UpdatedAt = s.opts.clock()
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, storeErr("toggle job", err)
	}
	s.opts.log.Info("job toggled", zap.String("jobId", job.ID), zap.Bool("closed", job.IsClosed))
	return job, nil
}

// Delete removes the job together with its applications and saved entries.
func (s *JobService) Delete(ctx context.Context, caller domain.Identity, jobID string) error {
	if _, err := s.owned(ctx, caller, jobID, "delete"); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		return storeErr("delete job", err)
	}
	s.opts.log.Info("job deleted", zap.String("jobId", jobID))
	return nil
}

func (s *JobService) find(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("load job", err)
	}
	if job == nil {
		return nil, domain.NotFound("job not found")
	}
	return job, nil
}

func (s *JobService) owned(ctx context.Context, caller domain.Identity, jobID, action string) (*domain.Job, error) {
	if caller.Anonymous() {
		return nil, domain.Unauthorized("authentication required")
	}
	job, err := s.find(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != caller.ID {
		return nil, domain.Forbidden("not authorized to " + action + " this job")
	}
	return job, nil
}
