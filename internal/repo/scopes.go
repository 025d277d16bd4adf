package repo

import (
	"strings"

	"gorm.io/gorm"

	"jobportal/internal/core/database"
	"jobportal/internal/domain"
)

// translate maps unique index violations to domain.ErrDuplicate.
func translate(err error) error {
	if database.IsDuplicateKey(err) {
		return domain.ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a case-folded LIKE pattern matching s anywhere.
// Use with "LOWER(col) LIKE ? ESCAPE '!'".
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// 只暴露雇主公开信息
func companySummary(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "company_name", "company_logo")
}

func applicantSummary(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "email", "avatar", "resume")
}

func preload(q *gorm.DB, p domain.Preload) *gorm.DB {
	if p&domain.PreloadJobCompany != 0 {
		q = q.Preload("Job").Preload("Job.Company", companySummary)
	} else if p&domain.PreloadJob != 0 {
		q = q.Preload("Job")
	}
	if p&domain.PreloadApplicant != 0 {
		q = q.Preload("Applicant", applicantSummary)
	}
	return q
}
