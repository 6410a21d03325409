package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/config"
	"github.com/bioscout-islamabad/backend/handlers"
	"github.com/bioscout-islamabad/backend/middleware"
	"github.com/bioscout-islamabad/backend/repositories"
	"github.com/bioscout-islamabad/backend/repositories/postgres"
	"github.com/bioscout-islamabad/backend/services/querylog"
	"github.com/bioscout-islamabad/backend/services/rag"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Species      repositories.SpeciesRepository
	Knowledge    repositories.KnowledgeRepository
	Observations repositories.ObservationRepository
	QueryLog     repositories.QueryLogRepository

	// Services
	QueryLogService *querylog.Service
	RAGService      *rag.Service

	// HTTP layer
	AuthMiddleware *middleware.AuthMiddleware
	RAGHandler     *handlers.RAGHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := deps.initServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	deps.initHTTP(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() error {
	repos := d.RepoFactory.NewRepositories()

	d.Species = repos.Species
	d.Knowledge = repos.Knowledge
	d.Observations = repos.Observations
	d.QueryLog = repos.QueryLog

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices wires the retrieval pipeline and starts the query log workers
func (d *Dependencies) initServices(cfg *config.Config) error {
	corpus := rag.NewCorpusAccessor(
		d.Species,
		d.Knowledge,
		d.Observations,
		cfg.Database.QueryTimeout,
		d.Logger,
	)
	retriever := rag.NewRetriever(corpus, d.Logger)
	composer := rag.NewComposer(d.Logger)

	var searcher rag.ExternalSearcher
	if cfg.Search.BaseURL != "" {
		searcher = rag.NewHTTPSearcher(cfg.Search, d.Logger)
		d.Logger.Info("external search enabled",
			zap.String("base_url", cfg.Search.BaseURL))
	} else {
		d.Logger.Warn("external search not configured, fallback disabled")
	}

	d.QueryLogService = querylog.NewService(d.QueryLog, d.Logger, querylog.DefaultConfig())
	if err := d.QueryLogService.Start(); err != nil {
		return fmt.Errorf("failed to start query log service: %w", err)
	}

	d.RAGService = rag.NewService(retriever, searcher, composer, d.QueryLogService, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHTTP initializes middleware and handlers
func (d *Dependencies) initHTTP(cfg *config.Config) {
	if cfg.Auth.JWTSecret == "" {
		d.Logger.Warn("JWT secret not configured, all requests treated as anonymous")
	}
	d.AuthMiddleware = middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, d.Logger)
	d.RAGHandler = handlers.NewRAGHandler(d.RAGService, d.QueryLog, d.Knowledge, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Logger)
}

// Close releases all resources held by the dependency container.
// The query log workers drain before the database closes so queued
// entries still reach storage.
func (d *Dependencies) Close(ctx context.Context) error {
	var firstErr error

	if d.QueryLogService != nil {
		drainTimeout := 10 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining < drainTimeout {
				drainTimeout = remaining
			}
		}
		if err := d.QueryLogService.Stop(drainTimeout); err != nil {
			d.Logger.Warn("query log service shutdown incomplete", zap.Error(err))
			firstErr = err
		}
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			d.Logger.Error("failed to close database", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
