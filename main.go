package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"school-registry-go/config"
	"school-registry-go/db"
	"school-registry-go/handlers"
	"school-registry-go/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	level := new(slog.LevelVar)
	level.Set(cfg.Log.SlogLevel())
	log := logger.New(cfg.Environment,
		logger.WithLevel(level),
		logger.WithLogFile(cfg.Log.File),
		logger.WithRotation(cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays),
	)
	slog.SetDefault(log)

	if _, err := os.Stat(*configPath); err == nil {
		watcher, err := config.NewWatcher(*configPath, func(next *config.Config, err error) {
			if err != nil {
				return
			}
			level.Set(next.Log.SlogLevel())
			slog.Info("Log level updated", "level", level.Level())
		})
		if err != nil {
			slog.Warn("Config hot reload disabled", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := db.NewRegistry()
	if !cfg.Seed.IsEmpty() {
		seedInitialData(registry, cfg.Seed)
	}

	events, closeEvents := newEventPublisher(ctx, cfg.Redis)
	defer closeEvents()

	apiHandler := handlers.NewAPIHandler(registry, events)

	gin.SetMode(cfg.Server.Mode)
	router := handlers.NewRouter(apiHandler, log)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		slog.Info("Starting server", "addr", cfg.Server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to run server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

// newEventPublisher connects to Redis when enabled. An unreachable server
// disables events instead of stopping the process.
func newEventPublisher(ctx context.Context, cfg config.RedisConfig) (db.EventPublisher, func()) {
	if !cfg.Enabled {
		slog.Info("Redis events disabled")
		return db.NopPublisher{}, func() {}
	}

	client, err := db.InitializeRedisClient(ctx, db.RedisOptions{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		slog.Warn("Redis unavailable, events disabled", "error", err)
		return db.NopPublisher{}, func() {}
	}

	publisher := db.NewRedisPublisher(client, cfg.Channel)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("Error closing Redis client", "error", err)
		}
	}
}

// seedInitialData applies the configured seed through the normal registry
// operations. Failures are logged and skipped.
func seedInitialData(registry *db.Registry, seed config.SeedConfig) {
	slog.Info("Adding seed data...")

	for _, name := range seed.Students {
		if err := registry.CreateStudent(name); err != nil {
			slog.Warn("Seeding student failed", "name", name, "error", err)
		}
	}
	for _, name := range seed.Teachers {
		if err := registry.CreateTeacher(name); err != nil {
			slog.Warn("Seeding teacher failed", "name", name, "error", err)
		}
	}
	for _, name := range seed.Courses {
		if err := registry.CreateCourse(name); err != nil {
			slog.Warn("Seeding course failed", "name", name, "error", err)
		}
	}
	for _, a := range seed.Assignments {
		if err := registry.AssignTeacher(a.Course, a.Teacher); err != nil {
			slog.Warn("Seeding assignment failed", "course", a.Course, "teacher", a.Teacher, "error", err)
		}
	}
	for _, e := range seed.Enrollments {
		if err := registry.Enroll(e.Student, e.Course); err != nil {
			slog.Warn("Seeding enrollment failed", "student", e.Student, "course", e.Course, "error", err)
		}
	}

	slog.Info("Seed data added",
		"students", len(seed.Students),
		"teachers", len(seed.Teachers),
		"courses", len(seed.Courses),
	)
}
