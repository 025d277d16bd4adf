package service

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"jobportal/internal/domain"
)

const (
	trendWindow = 7 * 24 * time.Hour
	recentLimit = 5
)

type Counts struct {
	TotalActiveJobs   int64 `json:"totalActiveJobs"`
	TotalApplications int64 `json:"totalApplications"`
	TotalHired        int64 `json:"totalHired"`
}

// Trends are week-over-week percentage changes.
type Trends struct {
	ActiveJobs      int `json:"activeJobs"`
	TotalApplicants int `json:"totalApplicants"`
	TotalHired      int `json:"totalHired"`
}

type RecentJob struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Location  string                `json:"location"`
	Type      domain.EmploymentType `json:"type"`
	CreatedAt time.Time             `json:"createdAt"`
	IsClosed  bool                  `json:"isClosed"`
}

type RecentApplicant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type RecentApplication struct {
	ID        string                   `json:"id"`
	Status    domain.ApplicationStatus `json:"status"`
	CreatedAt time.Time                `json:"createdAt"`
	Applicant RecentApplicant          `json:"applicant"`
	JobID     string                   `json:"jobId"`
	JobTitle  string                   `json:"jobTitle"`
}

type Recent struct {
	RecentJobs         []RecentJob         `json:"recentJobs"`
	RecentApplications []RecentApplication `json:"recentApplications"`
}

type Overview struct {
	Counts Counts `json:"counts"`
	Trends Trends `json:"trends"`
	Data   Recent `json:"data"`
}

type AnalyticsService struct {
	jobs domain.JobRepository
	apps domain.ApplicationRepository
	opts options
}

func NewAnalyticsService(jobs domain.JobRepository, apps domain.ApplicationRepository, opts ...Option) *AnalyticsService {
	return &AnalyticsService{jobs: jobs, apps: apps, opts: newOptions(opts)}
}

// Overview summarizes the caller's jobs and the applications they received.
// The current window is [now-7d, now] and the previous one [now-14d, now-7d].
func (s *AnalyticsService) Overview(ctx context.Context, caller domain.Identity) (*Overview, error) {
	if err := caller.Require(domain.CapViewAnalytics); err != nil {
		return nil, err
	}
	var (
		owner     = caller.ID
		now       = s.opts.clock()
		weekAgo   = now.Add(-trendWindow)
		twoWeeks  = now.Add(-2 * trendWindow)
		out       Overview
		cur, prev struct{ jobs, apps, hired int64 }
		jobs      []domain.Job
		apps      []domain.Application
	)

	g, gctx := errgroup.WithContext(ctx)
	countJobs := func(dst *int64, f domain.JobCountFilter) {
		f.CompanyID = owner
		g.Go(func() (err error) {
			*dst, err = s.jobs.Count(gctx, f)
			return err
		})
	}
	countApps := func(dst *int64, f domain.ApplicationCountFilter) {
		f.CompanyID = owner
		g.Go(func() (err error) {
			*dst, err = s.apps.Count(gctx, f)
			return err
		})
	}

	countJobs(&out.Counts.TotalActiveJobs, domain.JobCountFilter{ActiveOnly: true})
	countApps(&out.Counts.TotalApplications, domain.ApplicationCountFilter{})
	countApps(&out.Counts.TotalHired, domain.ApplicationCountFilter{Status: domain.StatusAccepted})

	countJobs(&cur.jobs, domain.JobCountFilter{CreatedFrom: weekAgo, CreatedTo: now})
	countJobs(&prev.jobs, domain.JobCountFilter{CreatedFrom: twoWeeks, CreatedTo: weekAgo})
	countApps(&cur.apps, domain.ApplicationCountFilter{CreatedFrom: weekAgo, CreatedTo: now})
	countApps(&prev.apps, domain.ApplicationCountFilter{CreatedFrom: twoWeeks, CreatedTo: weekAgo})
	countApps(&cur.hired, domain.ApplicationCountFilter{
		Status: domain.StatusAccepted, CreatedFrom: weekAgo, CreatedTo: now,
	})
	countApps(&prev.hired, domain.ApplicationCountFilter{
		Status: domain.StatusAccepted, CreatedFrom: twoWeeks, CreatedTo: weekAgo,
	})

	g.Go(func() (err error) {
		jobs, err = s.jobs.Recent(gctx, owner, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		apps, err = s.apps.Recent(gctx, owner, recentLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, storeErr("load analytics", err)
	}

	out.Trends = Trends{
		ActiveJobs:      Trend(cur.jobs, prev.jobs),
		TotalApplicants: Trend(cur.apps, prev.apps),
		TotalHired:      Trend(cur.hired, prev.hired),
	}
	out.Data.RecentJobs = make([]RecentJob, len(jobs))
	for i, j := range jobs {
		out.Data.RecentJobs[i] = RecentJob{
			ID:        j.ID,
			Title:     j.Title,
			Location:  j.Location,
			Type:      j.Type,
			CreatedAt: j.CreatedAt,
			IsClosed:  j.IsClosed,
		}
	}
	out.Data.RecentApplications = make([]RecentApplication, len(apps))
	for i, a := range apps {
		ra := RecentApplication{
			ID:        a.ID,
			Status:    a.Status,
			CreatedAt: a.CreatedAt,
			JobID:     a.JobID,
		}
		if a.Applicant != nil {
			ra.Applicant = RecentApplicant{
				ID:     a.Applicant.ID,
				Name:   a.Applicant.Name,
				Email:  a.Applicant.Email,
				Avatar: a.Applicant.Avatar,
			}
		}
		if a.Job != nil {
			ra.JobTitle = a.Job.Title
		}
		out.Data.RecentApplications[i] = ra
	}
	return &out, nil
}

// Trend is the percentage change from previous to current, rounded half up.
// With no previous activity it is 100 when anything happened and 0 otherwise.
func Trend(current, previous int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	pct := float64(current-previous) / float64(previous) * 100
	return int(math.Floor(pct + 0.5))
}
