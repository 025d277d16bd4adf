// Command admin runs schema migrations and dependency checks against the
// configured database and cache, then exits. Use it when db.automigrate is
// off in production.
package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"jobportal/internal/core/cache"
	"jobportal/internal/core/config"
	"jobportal/internal/core/database"
	"jobportal/internal/core/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// DB 连接（失败直接 Fatal）
	db, err := database.Open(cfg.DB, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()

	start := time.Now()
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate FAILED", zap.Error(err))
	}
	log.Info("migrate done", zap.String("driver", cfg.DB.Driver), zap.Duration("took", time.Since(start)))

	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer rc.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		log.Warn("redis unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		return
	}
	if cfg.Redis.Addr != "" {
		log.Info("redis ok", zap.String("addr", cfg.Redis.Addr))
	}
}
