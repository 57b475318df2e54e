package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	filePath := os.Getenv(envKey + "_FILE")
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	os.Setenv(envKey, strings.TrimSpace(string(data)))
}

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Poll      PollConfig
	History   HistoryConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type BackendConfig struct {
	BaseURL      string
	Timeout      int // seconds
	DefaultModel string
}

type PollConfig struct {
	Interval time.Duration
}

type HistoryConfig struct {
	Interval time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
}

type RateLimitConfig struct {
	SubmitPerHour int
}

func Load() (*Config, error) {
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("backend.base_url", "BACKEND_URL")
	_ = viper.BindEnv("backend.timeout", "BACKEND_TIMEOUT")
	_ = viper.BindEnv("backend.default_model", "DEFAULT_MODEL")
	_ = viper.BindEnv("poll.interval", "POLL_INTERVAL")
	_ = viper.BindEnv("history.interval", "HISTORY_INTERVAL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	_ = viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = viper.BindEnv("ratelimit.submit_per_hour", "RATELIMIT_SUBMIT_PER_HOUR")

	// Defaults
	viper.SetDefault("server.port", "8090")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("backend.base_url", "http://localhost:5000")
	viper.SetDefault("backend.timeout", 30)
	viper.SetDefault("backend.default_model", "htdemucs")
	viper.SetDefault("poll.interval", "2s")
	viper.SetDefault("history.interval", "30s")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
	viper.SetDefault("ratelimit.submit_per_hour", 60)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Backend: BackendConfig{
			BaseURL:      strings.TrimRight(viper.GetString("backend.base_url"), "/"),
			Timeout:      viper.GetInt("backend.timeout"),
			DefaultModel: viper.GetString("backend.default_model"),
		},
		Poll: PollConfig{
			Interval: viper.GetDuration("poll.interval"),
		},
		History: HistoryConfig{
			Interval: viper.GetDuration("history.interval"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			Enabled:   viper.GetBool("auth.enabled"),
			JWTSecret: viper.GetString("auth.jwt_secret"),
		},
		RateLimit: RateLimitConfig{
			SubmitPerHour: viper.GetInt("ratelimit.submit_per_hour"),
		},
	}

	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = 2 * time.Second
	}
	if cfg.History.Interval <= 0 {
		cfg.History.Interval = 30 * time.Second
	}

	return cfg, nil
}
