package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"jobportal/internal/core/auth"
	"jobportal/internal/core/cache"
	"jobportal/internal/core/config"
	"jobportal/internal/core/database"
	"jobportal/internal/core/logger"
	"jobportal/internal/core/server"
	"jobportal/internal/repo"
	"jobportal/internal/service"
	"jobportal/internal/transport/http/handler"
	"jobportal/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log.Named("gin"), zapcore.ErrorLevel)

	// 数据库（失败会直接 Fatal）
	db, err := database.Open(cfg.DB, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()

	// 缓存（未配置 addr 时关闭）
	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer rc.Close()
	if err := rc.Ping(context.Background()); err != nil {
		log.Warn("redis unreachable, profile cache degraded", zap.Error(err))
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 依赖
	users := repo.NewUserRepo(db)
	jobs := repo.NewJobRepo(db)
	apps := repo.NewApplicationRepo(db)
	saved := repo.NewSavedJobRepo(db)

	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithStrictTransitions(cfg.Applications.StrictTransitions),
		service.WithProfileTTL(time.Duration(cfg.Redis.ProfileTTLSec) * time.Second),
	}
	reg := router.NewRegistry(
		handler.NewUserHandler(service.NewUserService(users, jwter, rc, opts...)),
		handler.NewJobHandler(service.NewJobService(jobs, apps, saved, opts...)),
		handler.NewApplicationHandler(service.NewApplicationService(apps, jobs, users, opts...)),
		handler.NewSavedJobHandler(service.NewSavedJobService(saved, jobs, opts...)),
		handler.NewAnalyticsHandler(service.NewAnalyticsService(jobs, apps, opts...)),
	)

	// 路由（用户端 + 运维端）
	api := router.NewAPIEngine(log, jwter, cfg.Limits, reg)
	ops := router.NewAdminEngine(log.Named("ops"), map[string]router.HealthCheck{
		"db":    sqlDB.PingContext,
		"redis": rc.Ping,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, api,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	opsAddr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	opsSrv := server.BuildServer(opsAddr, ops, 5*time.Second, 10*time.Second, 60*time.Second)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("jobportal api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
		zap.String("ops", opsAddr),
	)

	// 异步启动
	for _, s := range []*http.Server{srv, opsSrv} {
		go func(s *http.Server) {
			if err := server.StartHTTP(s, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("http start FAILED", zap.String("addr", s.Addr), zap.Error(err))
			}
		}(s)
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	_ = opsSrv.Shutdown(ctx)
	log.Info("jobportal api stopped gracefully")
}

func newLogger(c config.Log) (*zap.Logger, func()) {
	if !c.File.Enable {
		return logger.New(c.Level, c.JSON)
	}
	return logger.NewWithRotate(c.Level, c.JSON, logger.FileRotate{
		Filename:   c.File.Filename,
		MaxSizeMB:  c.File.MaxSizeMB,
		MaxBackups: c.File.MaxBackups,
		MaxAgeDays: c.File.MaxAgeDays,
		Compress:   c.File.Compress,
	})
}
