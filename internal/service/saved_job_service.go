package service

import (
	"context"
	"errors"

	"jobportal/internal/domain"
	"jobportal/pkg/utils"
)

type SavedJobService struct {
	saved domain.SavedJobRepository
	jobs  domain.JobRepository
	opts  options
}

func NewSavedJobService(saved domain.SavedJobRepository, jobs domain.JobRepository, opts ...Option) *SavedJobService {
	return &SavedJobService{saved: saved, jobs: jobs, opts: newOptions(opts)}
}

func (s *SavedJobService) Save(ctx context.Context, caller domain.Identity, jobID string) (*domain.SavedJob, error) {
	if err := caller.Require(domain.CapSaveJobs); err != nil {
		return nil, err
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, storeErr("load job", err)
	}
	if job == nil {
		return nil, domain.NotFound("job not found")
	}
	now := s.opts.clock()
	sj := &domain.SavedJob{
		ID:          utils.NewID(),
		JobID:       jobID,
		JobseekerID: caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.saved.Create(ctx, sj); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("job already saved")
		}
		return nil, storeErr("save job", err)
	}
	return sj, nil
}

// Unsave succeeds whether or not the job was saved.
func (s *SavedJobService) Unsave(ctx context.Context, caller domain.Identity, jobID string) error {
	if err := caller.Require(domain.CapSaveJobs); err != nil {
		return err
	}
	if err := s.saved.Delete(ctx, jobID, caller.ID); err != nil {
		return storeErr("unsave job", err)
	}
	return nil
}

func (s *SavedJobService) ListMine(ctx context.Context, caller domain.Identity) ([]domain.SavedJob, error) {
	if err := caller.Require(domain.CapSaveJobs); err != nil {
		return nil, err
	}
	saved, err := s.saved.ListByJobseeker(ctx, caller.ID)
	if err != nil {
		return nil, storeErr("list saved jobs", err)
	}
	return saved, nil
}
