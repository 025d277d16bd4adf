package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"jobportal/internal/domain"
	resp "jobportal/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return env
}

func TestErrorKindsMapToCodes(t *testing.T) {
	r := gin.New()
	g := New(r.Group(""), nil)
	errs := map[string]error{
		"validation": domain.Validation("bad"),
		"unauth":     domain.Unauthorized("who"),
		"forbidden":  domain.Forbidden("no"),
		"notfound":   domain.NotFound("gone"),
		"conflict":   domain.Conflict("twice"),
	}
	for name, err := range errs {
		err := err
		RegisterAction(g, Action[struct{}, any]{
			Method:  http.MethodGet,
			Path:    "/" + name,
			Binder:  BindNone,
			Handler: func(*gin.Context, *struct{}) (any, error) { return nil, err },
		})
	}
	want := map[string]struct {
		code int
		kind domain.Kind
	}{
		"validation": {resp.CodeBadRequest, domain.KindValidation},
		"unauth":     {resp.CodeUnauthorized, domain.KindUnauthorized},
		"forbidden":  {resp.CodeForbidden, domain.KindForbidden},
		"notfound":   {resp.CodeNotFound, domain.KindNotFound},
		"conflict":   {resp.CodeConflict, domain.KindConflict},
	}
	for name, w := range want {
		env := do(t, r, http.MethodGet, "/"+name, "")
		if env.Code != w.code || env.Kind != string(w.kind) {
			t.Errorf("%s: code=%d kind=%q, want %d %q", name, env.Code, env.Kind, w.code, w.kind)
		}
		if env.Msg != errs[name].Error() {
			t.Errorf("%s: msg = %q", name, env.Msg)
		}
	}
}

func TestStoreErrorsAreLoggedNotLeaked(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	g := New(r.Group(""), zap.New(core))
	RegisterAction(g, Action[struct{}, any]{
		Method: http.MethodGet,
		Path:   "/typed",
		Binder: BindNone,
		Handler: func(*gin.Context, *struct{}) (any, error) {
			return nil, domain.Store("load job failed", errors.New("dial tcp 10.0.0.1:5432: refused"))
		},
	})
	RegisterAction(g, Action[struct{}, any]{
		Method: http.MethodGet,
		Path:   "/raw",
		Binder: BindNone,
		Handler: func(*gin.Context, *struct{}) (any, error) {
			return nil, errors.New("pq: password authentication failed")
		},
	})

	env := do(t, r, http.MethodGet, "/typed", "")
	if env.Code != resp.CodeServerError || env.Kind != "StoreError" || env.Msg != "load job failed" {
		t.Errorf("typed = %+v", env)
	}
	env = do(t, r, http.MethodGet, "/raw", "")
	if env.Msg != "internal error" {
		t.Errorf("raw error leaked: %q", env.Msg)
	}
	if logs.Len() != 2 {
		t.Fatalf("logged %d entries, want 2", logs.Len())
	}
}

func TestBindingFailureIsValidation(t *testing.T) {
	type in struct {
		Name string `json:"name" binding:"required"`
	}
	r := gin.New()
	RegisterAction(New(r.Group(""), nil), Action[in, gin.H]{
		Method: http.MethodPost,
		Path:   "/things",
		Binder: BindJSON,
		Handler: func(_ *gin.Context, v *in) (gin.H, error) {
			return gin.H{"name": v.Name}, nil
		},
	})

	env := do(t, r, http.MethodPost, "/things", `{}`)
	if env.Code != resp.CodeBadRequest || env.Kind != string(domain.KindValidation) {
		t.Errorf("bind failure = %+v", env)
	}
	env = do(t, r, http.MethodPost, "/things", `{"name":"x"}`)
	if env.Code != 0 || string(env.Data) != `{"name":"x"}` {
		t.Errorf("ok = %+v", env)
	}
}

func TestCallerIsAnonymousWithoutAuth(t *testing.T) {
	r := gin.New()
	RegisterAction(New(r.Group(""), nil), Action[struct{}, bool]{
		Method: http.MethodGet,
		Path:   "/who",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (bool, error) {
			return Caller(c).Anonymous(), nil
		},
	})
	if env := do(t, r, http.MethodGet, "/who", ""); string(env.Data) != "true" {
		t.Errorf("anonymous = %s", env.Data)
	}
}
