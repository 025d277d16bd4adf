package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"jobportal/internal/core/auth"
	"jobportal/internal/core/config"
	"jobportal/internal/core/server"
	"jobportal/internal/transport/http/ez"
	mdw "jobportal/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, lim config.Limits, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, server.Options{CORSOrigins: lim.CORSOrigins})
	// gin.Context 透传 request context，超时才能传到 gorm
	r.ContextWithFallback = true

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
	)
	if lim.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst))
	}
	r.Use(
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(lim.RequestTimeoutSec)*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 前缀
	api := r.Group("/api/v1")

	viewer := api.Group("")
	viewer.Use(mdw.AuthOptional(jwter))

	// 鉴权分组（⚠️ 需要 userId 的接口必须挂这里）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(jwter, ""))

	reg.MountAll(ez.Groups{
		Public: ez.New(api, l),
		Viewer: ez.New(viewer, l),
		Auth:   ez.New(authUser, l),
	})
	return r
}
