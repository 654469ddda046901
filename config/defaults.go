package config

import (
	"os"
	"strconv"
	"time"

	"school-registry-go/db"
)

// Environment variables that override the config file.
const (
	EnvVarEnvironment = "SCHOOL_ENV"
	EnvVarHTTPAddr    = "SCHOOL_HTTP_ADDR"
	EnvVarRedisAddr   = "SCHOOL_REDIS_ADDR"
	EnvVarRedisDB     = "SCHOOL_REDIS_DB"
	EnvVarLogLevel    = "SCHOOL_LOG_LEVEL"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Redis: RedisConfig{
			Addr:    "127.0.0.1:6379",
			Channel: db.DefaultEventsChannel,
		},
	}
}

// ApplyEnv overrides fields from the environment. Setting SCHOOL_REDIS_ADDR
// also enables the Redis publisher.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvVarEnvironment); v != "" {
		c.Environment = v
	}
	if v := os.Getenv(EnvVarHTTPAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvVarRedisAddr); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv(EnvVarRedisDB); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = n
		}
	}
	if v := os.Getenv(EnvVarLogLevel); v != "" {
		c.Log.Level = v
	}
}
