package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"jobportal/internal/core/auth"
	"jobportal/internal/core/cache"
	"jobportal/internal/core/config"
	"jobportal/internal/core/database/databasetest"
	"jobportal/internal/repo"
	"jobportal/internal/service"
	"jobportal/internal/transport/http/handler"
	"jobportal/pkg/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type client struct {
	t *testing.T
	h http.Handler
}

func (c client) do(method, path, token string, body any) envelope {
	c.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		c.t.Fatalf("%s %s: http %d %s", method, path, w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		c.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return env
}

// ok fails unless the envelope is a success and decodes data into out.
func (c client) ok(env envelope, out any) {
	c.t.Helper()
	if env.Code != 0 {
		c.t.Fatalf("code=%d kind=%s msg=%s", env.Code, env.Kind, env.Msg)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			c.t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
}

func newTestAPI(t *testing.T) client {
	t.Helper()
	db := databasetest.New(t)
	jwter := &auth.JWTer{Secret: []byte("test"), Issuer: "jobportal-test", TTL: time.Hour}
	users := repo.NewUserRepo(db)
	jobs := repo.NewJobRepo(db)
	apps := repo.NewApplicationRepo(db)
	saved := repo.NewSavedJobRepo(db)
	reg := NewRegistry(
		handler.NewUserHandler(service.NewUserService(users, jwter, cache.New("", "", 0))),
		handler.NewJobHandler(service.NewJobService(jobs, apps, saved)),
		handler.NewApplicationHandler(service.NewApplicationService(apps, jobs, users)),
		handler.NewSavedJobHandler(service.NewSavedJobService(saved, jobs)),
		handler.NewAnalyticsHandler(service.NewAnalyticsService(jobs, apps)),
	)
	lim := config.Limits{RPS: 1000, Burst: 1000, MaxConcurrent: 100, MaxBodyMB: 1, RequestTimeoutSec: 5}
	return client{t: t, h: NewAPIEngine(zap.NewNop(), jwter, lim, reg)}
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

func (c client) register(name, role string) authData {
	c.t.Helper()
	var out authData
	c.ok(c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": name + "@example.com", "password": "secret1", "role": role,
	}), &out)
	return out
}

type jobData struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	IsSaved           bool    `json:"isSaved"`
	ApplicationStatus *string `json:"applicationStatus"`
}

func TestHiringOverHTTP(t *testing.T) {
	c := newTestAPI(t)
	acme := c.register("acme", "employer")
	sam := c.register("sam", "jobseeker")

	var job jobData
	c.ok(c.do(http.MethodPost, "/api/v1/jobs", acme.Token, gin.H{
		"title": "Go Engineer", "description": "APIs", "requirements": "Go",
		"location": "Berlin", "category": "Engineering", "type": "Full-Time",
		"salaryMin": 50000, "salaryMax": 70000,
	}), &job)

	// seekers cannot post
	env := c.do(http.MethodPost, "/api/v1/jobs", sam.Token, gin.H{
		"title": "x", "description": "x", "requirements": "x", "type": "Remote",
	})
	if env.Code != 403 || env.Kind != "Forbidden" {
		t.Fatalf("seeker post = %+v", env)
	}

	c.ok(c.do(http.MethodPost, "/api/v1/saved-jobs/"+job.ID, sam.Token, nil), nil)
	var app struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	c.ok(c.do(http.MethodPost, "/api/v1/applications/"+job.ID, sam.Token, nil), &app)
	if app.Status != "Applied" {
		t.Fatalf("status = %q", app.Status)
	}
	if env := c.do(http.MethodPost, "/api/v1/applications/"+job.ID, sam.Token, nil); env.Code != 409 {
		t.Fatalf("second apply = %+v", env)
	}

	// enrichment follows the token, anonymous viewers get defaults
	var list []jobData
	c.ok(c.do(http.MethodGet, "/api/v1/jobs?keyword=go&minSalary=60000", sam.Token, nil), &list)
	if len(list) != 1 || !list[0].IsSaved || list[0].ApplicationStatus == nil || *list[0].ApplicationStatus != "Applied" {
		t.Fatalf("enriched list = %+v", list)
	}
	c.ok(c.do(http.MethodGet, "/api/v1/jobs", "", nil), &list)
	if len(list) != 1 || list[0].IsSaved || list[0].ApplicationStatus != nil {
		t.Fatalf("anonymous list = %+v", list)
	}
	if env := c.do(http.MethodGet, "/api/v1/jobs", "garbage", nil); env.Code != 401 {
		t.Fatalf("bad token = %+v", env)
	}
	if env := c.do(http.MethodGet, "/api/v1/jobs?minSalary=lots", "", nil); env.Code != 400 {
		t.Fatalf("bad salary = %+v", env)
	}

	var mine []struct {
		ID               string `json:"id"`
		ApplicationCount int64  `json:"applicationCount"`
	}
	c.ok(c.do(http.MethodGet, "/api/v1/jobs/employer-mine", acme.Token, nil), &mine)
	if len(mine) != 1 || mine[0].ApplicationCount != 1 {
		t.Fatalf("employer-mine = %+v", mine)
	}

	c.ok(c.do(http.MethodPut, "/api/v1/applications/"+app.ID+"/status", acme.Token, gin.H{"status": "Accepted"}), &app)
	if app.Status != "Accepted" {
		t.Fatalf("status after accept = %q", app.Status)
	}
	if env := c.do(http.MethodPut, "/api/v1/applications/"+app.ID+"/status", acme.Token, gin.H{"status": "Hired"}); env.Code != 400 {
		t.Fatalf("unknown status = %+v", env)
	}

	var ov struct {
		Counts struct {
			TotalActiveJobs   int64 `json:"totalActiveJobs"`
			TotalApplications int64 `json:"totalApplications"`
			TotalHired        int64 `json:"totalHired"`
		} `json:"counts"`
	}
	c.ok(c.do(http.MethodGet, "/api/v1/analytics/overview", acme.Token, nil), &ov)
	if ov.Counts.TotalActiveJobs != 1 || ov.Counts.TotalApplications != 1 || ov.Counts.TotalHired != 1 {
		t.Fatalf("overview counts = %+v", ov.Counts)
	}

	// closing hides the job from the directory but not from its detail page
	c.ok(c.do(http.MethodPut, "/api/v1/jobs/"+job.ID+"/toggle-close", acme.Token, nil), nil)
	c.ok(c.do(http.MethodGet, "/api/v1/jobs", "", nil), &list)
	if len(list) != 0 {
		t.Fatalf("closed job listed: %+v", list)
	}
	c.ok(c.do(http.MethodGet, "/api/v1/jobs/"+job.ID, "", nil), &job)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	c := newTestAPI(t)
	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/applications/my"},
		{http.MethodPost, "/api/v1/jobs"},
		{http.MethodGet, "/api/v1/analytics/overview"},
	} {
		if env := c.do(r.method, r.path, "", nil); env.Code != 401 {
			t.Errorf("%s %s = %+v", r.method, r.path, env)
		}
	}
}

func TestLoginAndProfile(t *testing.T) {
	c := newTestAPI(t)
	sam := c.register("sam", "jobseeker")

	if env := c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "sam@example.com", "password": "wrong1"}); env.Code != 401 {
		t.Fatalf("bad login = %+v", env)
	}
	var login authData
	c.ok(c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "SAM@example.com", "password": "secret1"}), &login)
	if login.User.ID != sam.User.ID || login.Token == "" {
		t.Fatalf("login = %+v", login)
	}

	var u struct {
		Name   string `json:"name"`
		Resume string `json:"resume"`
	}
	c.ok(c.do(http.MethodPut, "/api/v1/users/profile", login.Token, gin.H{"resume": "/uploads/sam.pdf", "companyName": "ignored"}), &u)
	if u.Resume != "/uploads/sam.pdf" {
		t.Fatalf("profile = %+v", u)
	}
	u.Resume = ""
	c.ok(c.do(http.MethodDelete, "/api/v1/users/resume", login.Token, nil), &u)
	if u.Resume != "" || u.Name != "sam" {
		t.Fatalf("resume not cleared: %+v", u)
	}
	c.ok(c.do(http.MethodGet, "/api/v1/users/"+sam.User.ID, "", nil), &u)
	if u.Name != "sam" {
		t.Fatalf("public profile = %+v", u)
	}
	if env := c.do(http.MethodGet, "/api/v1/users/nobody", "", nil); env.Code != 404 {
		t.Fatalf("missing profile = %+v", env)
	}
}

func TestAdminEngine(t *testing.T) {
	r := NewAdminEngine(zap.NewNop(), map[string]HealthCheck{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("health code = %d", w.Code)
	}
	var body struct {
		OK     bool              `json:"ok"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.OK || body.Checks["db"] != "ok" || body.Checks["redis"] != "connection refused" {
		t.Fatalf("health = %+v", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "jobportal_") {
		t.Fatalf("metrics: %d", w.Code)
	}
}
