package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

// AdminHTTP serves health and prometheus metrics.
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ProfileTTLSec int    `mapstructure:"profilettlsec"`
}

type DB struct {
	Driver             string // postgres | mysql | sqlite
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Limits guard the HTTP surface.
type Limits struct {
	RPS               float64
	Burst             int
	PerIPRPS          float64 // 0 disables the per-IP limiter
	PerIPBurst        int
	MaxConcurrent     int64
	MaxBodyMB         int64
	RequestTimeoutSec int
	CORSOrigins       []string
}

type Applications struct {
	// StrictTransitions rejects no-op status changes and leaving Accepted/Rejected.
	StrictTransitions bool
}

type Config struct {
	App          App
	Log          Log
	JWT          JWT
	DB           DB
	Redis        Redis `mapstructure:"redis"`
	Limits       Limits
	Applications Applications
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "jobportal")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 9090)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.filename", "logs/jobportal.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)
	v.SetDefault("jwt.issuer", "jobportal")
	v.SetDefault("jwt.accesstokenttlmin", 7*24*60)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:jobportal.db?_pragma=foreign_keys(1)")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("redis.profilettlsec", 300)
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.peripburst", 20)
	v.SetDefault("limits.maxconcurrent", 300)
	v.SetDefault("limits.maxbodymb", 16)
	v.SetDefault("limits.requesttimeoutsec", 10)
	v.SetDefault("limits.corsorigins", []string{"*"})
}

func Load(path string) *Config {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if c.JWT.Secret == "" {
		log.Fatalf("config: jwt.secret is required (APP_JWT_SECRET)")
	}
	return &c
}
