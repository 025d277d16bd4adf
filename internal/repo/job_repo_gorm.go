package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobportal/internal/domain"
)

var _ domain.JobRepository = (*JobRepo)(nil)

type JobRepo struct{ db *gorm.DB }

func NewJobRepo(db *gorm.DB) *JobRepo { return &JobRepo{db: db} }

func (r *JobRepo) Create(ctx context.Context, j *domain.Job) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(j).Error)
}

func (r *JobRepo) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	var j domain.Job
	err := r.db.WithContext(ctx).
		Preload("Company", companySummary).
		First(&j, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &j, err
}

// Find returns the jobs matching every set field of f, newest first.
func (r *JobRepo) Find(ctx context.Context, f domain.JobFilter) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Scopes(jobFilter(f)).
		Preload("Company", companySummary).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func jobFilter(f domain.JobFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.OpenOnly {
			q = q.Where("is_closed = ?", false)
		}
		if f.CompanyID != "" {
			q = q.Where("company_id = ?", f.CompanyID)
		}
		if f.Keyword != "" {
			q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", containsPattern(f.Keyword))
		}
		if f.Location != "" {
			q = q.Where("LOWER(location) LIKE ? ESCAPE '!'", containsPattern(f.Location))
		}
		if f.Category != "" {
			q = q.Where("category = ?", f.Category)
		}
		if f.Type != "" {
			q = q.Where("type = ?", f.Type)
		}
		// 区间重叠：NULL 比较恒为假，未填薪资的职位被排除
		if f.MinSalary != nil {
			q = q.Where("salary_max >= ?", *f.MinSalary)
		}
		if f.MaxSalary != nil {
			q = q.Where("salary_min <= ?", *f.MaxSalary)
		}
		return q
	}
}

func (r *JobRepo) Update(ctx context.Context, j *domain.Job) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(j).Error)
}

func (r *JobRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&domain.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&domain.SavedJob{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Job{}).Error
	})
}

func (r *JobRepo) Count(ctx context.Context, f domain.JobCountFilter) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Job{}).Where("company_id = ?", f.CompanyID)
	if f.ActiveOnly {
		q = q.Where("is_closed = ?", false)
	}
	q = createdBetween(q, f.CreatedFrom, f.CreatedTo)
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *JobRepo) Recent(ctx context.Context, companyID string, limit int) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
