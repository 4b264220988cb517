package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/langtools/langtools-api/internal/api"
	"github.com/langtools/langtools-api/internal/config"
	"github.com/langtools/langtools-api/internal/domain/srs"
	"github.com/langtools/langtools-api/internal/platform/gemini"
	"github.com/langtools/langtools-api/internal/platform/metrics"
	"github.com/langtools/langtools-api/internal/platform/postgres"
	"github.com/langtools/langtools-api/internal/service"
	"github.com/langtools/langtools-api/internal/service/auth"
	"github.com/langtools/langtools-api/internal/service/review"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     api.Pinger

	scheduler  srs.Service
	jwtService auth.JWTService
	users      service.UserService
	entries    service.DictionaryService
	reviews    review.Service

	// nil when metrics are disabled; every Recorder method tolerates that.
	metrics *metrics.Recorder
}

// newApplication builds stores, services and the generator from cfg.
func newApplication(ctx context.Context, cfg *config.Config, db *sql.DB, log *slog.Logger) (*application, error) {
	scheduler, err := srs.NewScheduler(schedulerConfig(cfg.SRS))
	if err != nil {
		return nil, fmt.Errorf("configuring scheduler: %w", err)
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.New()
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("configuring jwt: %w", err)
	}

	generator, err := gemini.NewGeminiGenerator(ctx, log, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configuring generator: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	entryStore := postgres.NewPostgresEntryStore(db, log)
	trainingStore := postgres.NewPostgresTrainingStore(db, log)

	users := service.NewUserService(userStore, auth.NewBcryptHasher(cfg.Auth.BCryptCost), db, log)

	entries, err := service.NewDictionaryService(entryStore, trainingStore, generator, scheduler, recorder, db, log)
	if err != nil {
		return nil, fmt.Errorf("creating dictionary service: %w", err)
	}

	reviews, err := review.NewService(trainingStore, scheduler, recorder, log)
	if err != nil {
		return nil, fmt.Errorf("creating review service: %w", err)
	}

	log.Info("application initialized",
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.Bool("rate_limit", cfg.RateLimit.Enabled),
		slog.String("model", cfg.LLM.ModelName))

	return &application{
		config:     cfg,
		logger:     log,
		db:         db,
		scheduler:  scheduler,
		jwtService: jwtService,
		users:      users,
		entries:    entries,
		reviews:    reviews,
		metrics:    recorder,
	}, nil
}

// schedulerConfig maps the srs settings onto the scheduler's configuration.
// Weights are not configurable and keep their defaults.
func schedulerConfig(cfg config.SRSConfig) srs.Config {
	out := srs.DefaultConfig()
	out.DesiredRetention = cfg.DesiredRetention
	out.LearningSteps = append([]time.Duration(nil), cfg.LearningSteps...)
	out.RelearningSteps = append([]time.Duration(nil), cfg.RelearningSteps...)
	out.EnableFuzz = cfg.EnableFuzz
	out.MaximumInterval = cfg.MaximumInterval
	return out
}
