package router

import (
	"context"
	"net/http"
	"sort"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	mdw "jobportal/internal/transport/http/middleware"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// NewAdminEngine serves the ops endpoints: /health runs every check and
// /metrics exposes the prometheus registry.
func NewAdminEngine(l *zap.Logger, checks map[string]HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.SimpleRecovery(l),
		ginzap.Ginzap(l, time.RFC3339, true),
	)

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	// 健康检查：任一依赖失败返回 503
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		status, ok := gin.H{}, true
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				status[name] = err.Error()
				ok = false
				continue
			}
			status[name] = "ok"
		}
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"ok": ok, "checks": status})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
