package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobportal/internal/domain"
)

var _ domain.SavedJobRepository = (*SavedJobRepo)(nil)

type SavedJobRepo struct{ db *gorm.DB }

func NewSavedJobRepo(db *gorm.DB) *SavedJobRepo { return &SavedJobRepo{db: db} }

func (r *SavedJobRepo) Create(ctx context.Context, s *domain.SavedJob) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error)
}

func (r *SavedJobRepo) Delete(ctx context.Context, jobID, jobseekerID string) error {
	return r.db.WithContext(ctx).
		Where("job_id = ? AND jobseeker_id = ?", jobID, jobseekerID).
		Delete(&domain.SavedJob{}).Error
}

func (r *SavedJobRepo) ListByJobseeker(ctx context.Context, jobseekerID string) ([]domain.SavedJob, error) {
	var saved []domain.SavedJob
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company", companySummary).
		Where("jobseeker_id = ?", jobseekerID).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}

func (r *SavedJobRepo) JobIDs(ctx context.Context, jobseekerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.SavedJob{}).
		Where("jobseeker_id = ?", jobseekerID).
		Pluck("job_id", &ids).Error
	return ids, err
}

func (r *SavedJobRepo) Exists(ctx context.Context, jobID, jobseekerID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.SavedJob{}).
		Where("job_id = ? AND jobseeker_id = ?", jobID, jobseekerID).
		Count(&n).Error
	return n > 0, err
}
