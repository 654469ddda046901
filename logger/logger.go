// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

type options struct {
	writer     io.Writer
	level      *slog.LevelVar
	logFile    string
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

// Option configures New.
type Option func(*options)

// WithWriter sets the console writer. Defaults to stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// WithLevel shares a level variable with the caller so it can be changed
// while the process runs.
func WithLevel(level *slog.LevelVar) Option {
	return func(o *options) { o.level = level }
}

// WithLogFile also writes records to path, rotated by lumberjack.
func WithLogFile(path string) Option {
	return func(o *options) { o.logFile = path }
}

// WithRotation sets the lumberjack rotation limits.
func WithRotation(maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(o *options) {
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
		o.maxAgeDays = maxAgeDays
	}
}

// New returns a logger for the given environment: colored tint output in
// development, JSON otherwise.
func New(environment string, opts ...Option) *slog.Logger {
	o := &options{
		writer:     os.Stderr,
		level:      new(slog.LevelVar),
		maxSizeMB:  10,
		maxBackups: 3,
		maxAgeDays: 28,
	}
	for _, opt := range opts {
		opt(o)
	}

	w := o.writer
	if o.logFile != "" {
		w = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
			MaxAge:     o.maxAgeDays,
		})
	}

	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: o.level}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      o.level,
		TimeFormat: time.DateTime,
		NoColor:    o.logFile != "" || o.writer != os.Stderr,
	}))
}
