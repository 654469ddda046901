package config

import (
	"log/slog"
	"time"
)

// Environment names accepted in SCHOOL_ENV and the config file.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the main configuration for the application.
type Config struct {
	Environment string       `json:"environment" yaml:"environment"`
	Server      ServerConfig `json:"server"      yaml:"server"`
	Log         LogConfig    `json:"log"         yaml:"log"`
	Redis       RedisConfig  `json:"redis"       yaml:"redis"`
	Seed        SeedConfig   `json:"seed"        yaml:"seed"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `json:"addr"             yaml:"addr"`
	Mode            string        `json:"mode"             yaml:"mode"` // gin mode: debug, release or test
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig holds logging settings. File is optional; when set, logs are
// also written there with rotation.
type LogConfig struct {
	Level      string `json:"level"                  yaml:"level"`
	File       string `json:"file,omitempty"         yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"  yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"  yaml:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
}

// RedisConfig selects the Redis server that receives registry events.
type RedisConfig struct {
	Enabled  bool   `json:"enabled"            yaml:"enabled"`
	Addr     string `json:"addr"               yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db"                 yaml:"db"`
	Channel  string `json:"channel"            yaml:"channel"`
}

// SeedConfig lists entities created at startup.
type SeedConfig struct {
	Students    []string     `json:"students,omitempty"    yaml:"students,omitempty"`
	Teachers    []string     `json:"teachers,omitempty"    yaml:"teachers,omitempty"`
	Courses     []string     `json:"courses,omitempty"     yaml:"courses,omitempty"`
	Assignments []Assignment `json:"assignments,omitempty" yaml:"assignments,omitempty"`
	Enrollments []Enrollment `json:"enrollments,omitempty" yaml:"enrollments,omitempty"`
}

// Assignment pairs a course with its teacher.
type Assignment struct {
	Course  string `json:"course"  yaml:"course"`
	Teacher string `json:"teacher" yaml:"teacher"`
}

// Enrollment pairs a student with a course.
type Enrollment struct {
	Student string `json:"student" yaml:"student"`
	Course  string `json:"course"  yaml:"course"`
}

// IsEmpty reports whether there is nothing to seed.
func (s SeedConfig) IsEmpty() bool {
	return len(s.Students) == 0 && len(s.Teachers) == 0 && len(s.Courses) == 0 &&
		len(s.Assignments) == 0 && len(s.Enrollments) == 0
}

// SlogLevel parses the configured level, falling back to info.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
