package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between environments (port, DB/redis connection,
//   shared secrets)
// - default: values common across all environments (timeouts, schedules)
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	CORS   CORSConfig
	Log    LogConfig
	Jobs   JobsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password   string        `envconfig:"REDIS_PASSWORD" default:""`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	SupportTTL time.Duration `envconfig:"REDIS_SUPPORT_TTL" default:"5m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-User-ID,X-User-Role,X-Cron-Secret"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JobsConfig struct {
	// CronSecret guards the POST /api/jobs/* endpoints and is also required
	// to be set for the in-process scheduler to start.
	CronSecret          string `envconfig:"CRON_SECRET" required:"true"`
	ExpiryScanSchedule  string `envconfig:"JOB_EXPIRY_SCAN_SCHEDULE" default:"0 0 9 * * *"`
	StatusSweepSchedule string `envconfig:"JOB_STATUS_SWEEP_SCHEDULE" default:"0 30 9 * * *"`
	SchedulerEnabled    bool   `envconfig:"JOB_SCHEDULER_ENABLED" default:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{Port: "8889"},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{Addr: "localhost:16379", SupportTTL: time.Minute},
		Log:   LogConfig{Level: "error", TimeFormat: "2006-01-02 15:04:05.000"},
		Jobs:  JobsConfig{CronSecret: "test-secret", SchedulerEnabled: false},
	}
}
