package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jobportal/internal/core/database/databasetest"
	"jobportal/internal/domain"
	"jobportal/internal/repo"
	"jobportal/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// stepClock returns t and then advances it by step, so records created in
// sequence get strictly increasing timestamps.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fixture struct {
	db    *gorm.DB
	clock *stepClock

	users *repo.UserRepo
	jobs  *repo.JobRepo
	apps  *repo.ApplicationRepo
	saved *repo.SavedJobRepo

	jobSvc   *JobService
	appSvc   *ApplicationService
	savedSvc *SavedJobService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := databasetest.New(t)
	f := &fixture{
		db:    db,
		clock: &stepClock{t: t0, step: time.Second},
		users: repo.NewUserRepo(db),
		jobs:  repo.NewJobRepo(db),
		apps:  repo.NewApplicationRepo(db),
		saved: repo.NewSavedJobRepo(db),
	}
	opts = append([]Option{WithClock(f.clock.Now)}, opts...)
	f.jobSvc = NewJobService(f.jobs, f.apps, f.saved, opts...)
	f.appSvc = NewApplicationService(f.apps, f.jobs, f.users, opts...)
	f.savedSvc = NewSavedJobService(f.saved, f.jobs, opts...)
	return f
}

func (f *fixture) user(t *testing.T, role domain.Role, name string) domain.Identity {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Resume:       "/uploads/" + name + ".pdf",
		CompanyName:  name + " Inc",
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u.Identity()
}

func (f *fixture) employer(t *testing.T, name string) domain.Identity {
	return f.user(t, domain.RoleEmployer, name)
}

func (f *fixture) seeker(t *testing.T, name string) domain.Identity {
	return f.user(t, domain.RoleJobseeker, name)
}

func jobInput(title string, mutate ...func(*domain.JobInput)) domain.JobInput {
	in := domain.JobInput{
		Title:        title,
		Description:  "Build things",
		Requirements: "Go",
		Location:     "Berlin",
		Category:     "Engineering",
		Type:         domain.TypeFullTime,
	}
	for _, m := range mutate {
		m(&in)
	}
	return in
}

func salary(min, max int64) func(*domain.JobInput) {
	return func(in *domain.JobInput) {
		in.SalaryMin = &min
		in.SalaryMax = &max
	}
}

func (f *fixture) job(t *testing.T, owner domain.Identity, title string, mutate ...func(*domain.JobInput)) *domain.Job {
	t.Helper()
	j, err := f.jobSvc.Create(context.Background(), owner, jobInput(title, mutate...))
	if err != nil {
		t.Fatalf("create job %q: %v", title, err)
	}
	return j
}

func wantKind(t *testing.T, err error, k domain.Kind) {
	t.Helper()
	if got := domain.KindOf(err); got != k {
		t.Fatalf("error kind = %q (%v), want %q", got, err, k)
	}
}

func titles(views []domain.JobView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Title
	}
	return out
}
