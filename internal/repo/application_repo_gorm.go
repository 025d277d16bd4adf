package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobportal/internal/domain"
)

var _ domain.ApplicationRepository = (*ApplicationRepo)(nil)

type ApplicationRepo struct{ db *gorm.DB }

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

func (r *ApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (r *ApplicationRepo) FindByID(ctx context.Context, id string, p domain.Preload) (*domain.Application, error) {
	var a domain.Application
	err := preload(r.db.WithContext(ctx), p).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *ApplicationRepo) FindOne(ctx context.Context, jobID, applicantID string) (*domain.Application, error) {
	var a domain.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *ApplicationRepo) Find(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, error) {
	q := preload(r.db.WithContext(ctx), f.Preload)
	if f.JobID != "" {
		q = q.Where("job_id = ?", f.JobID)
	}
	if f.ApplicantID != "" {
		q = q.Where("applicant_id = ?", f.ApplicantID)
	}
	var apps []domain.Application
	err := q.Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, s domain.ApplicationStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("id = ?", id).
		Update("status", s).Error
}

func (r *ApplicationRepo) CountByJob(ctx context.Context, jobIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	type row struct {
		JobID string
		N     int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Select("job_id, COUNT(*) AS n").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.JobID] = rw.N
	}
	return out, nil
}

// ownedBy restricts applications to those received by companyID's jobs.
func (r *ApplicationRepo) ownedBy(q *gorm.DB, companyID string) *gorm.DB {
	return q.Where("job_id IN (?)",
		r.db.Model(&domain.Job{}).Select("id").Where("company_id = ?", companyID))
}

func (r *ApplicationRepo) Count(ctx context.Context, f domain.ApplicationCountFilter) (int64, error) {
	q := r.ownedBy(r.db.WithContext(ctx).Model(&domain.Application{}), f.CompanyID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	q = createdBetween(q, f.CreatedFrom, f.CreatedTo)
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *ApplicationRepo) Recent(ctx context.Context, companyID string, limit int) ([]domain.Application, error) {
	var apps []domain.Application
	err := r.ownedBy(r.db.WithContext(ctx), companyID).
		Preload("Applicant", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "email", "avatar")
		}).
		Preload("Job", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

// createdBetween applies an inclusive created_at window; zero bounds are open.
func createdBetween(q *gorm.DB, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at <= ?", to)
	}
	return q
}
