package service

import (
	"context"
	"testing"
	"time"

	"jobportal/internal/domain"
)

func TestTrend(t *testing.T) {
	cases := []struct {
		cur, prev int64
		want      int
	}{
		{10, 0, 100},
		{0, 0, 0},
		{5, 10, -50},
		{15, 10, 50},
		{1, 3, -67},
		{2, 3, -33},
		{1, 8, -87},
		{3, 8, -62},
		{5, 8, -37},
		{0, 4, -100},
		{9, 3, 200},
	}
	for _, tc := range cases {
		if got := Trend(tc.cur, tc.prev); got != tc.want {
			t.Errorf("Trend(%d, %d) = %d, want %d", tc.cur, tc.prev, got, tc.want)
		}
	}
}

func TestOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.employer(t, "acme")
	rival := f.employer(t, "rival")
	s1 := f.seeker(t, "s1")
	s2 := f.seeker(t, "s2")
	s3 := f.seeker(t, "s3")
	s4 := f.seeker(t, "s4")
	svc := NewAnalyticsService(f.jobs, f.apps, WithClock(f.clock.Now))

	now := t0.AddDate(0, 1, 0)
	day := 24 * time.Hour
	at := func(ago time.Duration) { f.clock.Set(now.Add(-ago)) }

	at(20 * day)
	a := f.job(t, acme, "A")
	at(10 * day)
	b := f.job(t, acme, "B")
	at(3 * day)
	c := f.job(t, acme, "C")
	at(1 * day)
	d := f.job(t, acme, "D")
	at(1 * day)
	rivalJob := f.job(t, rival, "Rival")

	apply := func(who domain.Identity, job *domain.Job, ago time.Duration) *domain.Application {
		t.Helper()
		at(ago)
		app, err := f.appSvc.Apply(ctx, who, job.ID)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		return app
	}
	hired := apply(s1, b, 9*day)
	apply(s2, b, 8*day)
	apply(s4, a, 5*day)
	hired2 := apply(s3, d, 2*day)
	apply(s1, d, 1*day)
	apply(s2, rivalJob, 1*day)

	for _, id := range []string{hired.ID, hired2.ID} {
		if _, err := f.appSvc.SetStatus(ctx, acme, id, "Accepted"); err != nil {
			t.Fatalf("accept: %v", err)
		}
	}
	if _, err := f.jobSvc.ToggleClose(ctx, acme, c.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	f.clock.Set(now)
	ov, err := svc.Overview(ctx, acme)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	wantCounts := Counts{TotalActiveJobs: 3, TotalApplications: 5, TotalHired: 2}
	if ov.Counts != wantCounts {
		t.Errorf("counts = %+v, want %+v", ov.Counts, wantCounts)
	}
	// jobs 2 vs 1, applications 3 vs 2, hired 1 vs 1
	wantTrends := Trends{ActiveJobs: 100, TotalApplicants: 50, TotalHired: 0}
	if ov.Trends != wantTrends {
		t.Errorf("trends = %+v, want %+v", ov.Trends, wantTrends)
	}

	var jobTitles []string
	for _, j := range ov.Data.RecentJobs {
		jobTitles = append(jobTitles, j.Title)
	}
	if got, want := len(jobTitles), 4; got != want {
		t.Fatalf("recent jobs = %v", jobTitles)
	}
	if jobTitles[0] != "D" || jobTitles[3] != "A" {
		t.Errorf("recent jobs order = %v", jobTitles)
	}
	if !ov.Data.RecentJobs[1].IsClosed {
		t.Errorf("job C should be reported closed")
	}

	apps := ov.Data.RecentApplications
	if len(apps) != 5 {
		t.Fatalf("recent applications = %d, want 5", len(apps))
	}
	first := apps[0]
	if first.Applicant.Name != "s1" || first.Applicant.Email != "s1@example.com" || first.JobTitle != "D" {
		t.Errorf("newest application = %+v", first)
	}
	if last := apps[4]; last.ID != hired.ID || last.Status != domain.StatusAccepted {
		t.Errorf("oldest application = %+v", last)
	}
}

func TestOverviewWindowsIncludeBoundaries(t *testing.T) {
	f := newFixture(t)
	acme := f.employer(t, "acme")
	svc := NewAnalyticsService(f.jobs, f.apps, WithClock(f.clock.Now))

	now := t0.AddDate(0, 1, 0)
	f.clock.Set(now.Add(-14 * 24 * time.Hour))
	f.job(t, acme, "old edge")
	f.clock.Set(now.Add(-7 * 24 * time.Hour))
	f.job(t, acme, "shared edge")

	f.clock.Set(now)
	ov, err := svc.Overview(context.Background(), acme)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	// current window holds one job, previous holds both
	if ov.Trends.ActiveJobs != -50 {
		t.Fatalf("jobs trend = %d, want -50", ov.Trends.ActiveJobs)
	}
}

func TestOverviewRequiresEmployer(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.jobs, f.apps)
	sam := f.seeker(t, "sam")

	_, err := svc.Overview(context.Background(), sam)
	wantKind(t, err, domain.KindForbidden)
	_, err = svc.Overview(context.Background(), domain.Identity{})
	wantKind(t, err, domain.KindUnauthorized)
}

func TestOverviewEmpty(t *testing.T) {
	f := newFixture(t)
	acme := f.employer(t, "acme")
	svc := NewAnalyticsService(f.jobs, f.apps, WithClock(f.clock.Now))

	ov, err := svc.Overview(context.Background(), acme)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if ov.Counts != (Counts{}) || ov.Trends != (Trends{}) {
		t.Fatalf("overview = %+v", ov)
	}
	if ov.Data.RecentJobs == nil || ov.Data.RecentApplications == nil {
		t.Fatal("recent lists should encode as empty arrays")
	}
}
