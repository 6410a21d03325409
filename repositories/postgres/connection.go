package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/config"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check if we can query
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Curated species records
		CREATE TABLE IF NOT EXISTS species (
			id UUID PRIMARY KEY,
			scientific_name VARCHAR(255) NOT NULL,
			common_names TEXT[] NOT NULL DEFAULT '{}',
			type VARCHAR(20) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			habitat TEXT NOT NULL DEFAULT '',
			is_endemic BOOLEAN NOT NULL DEFAULT false,
			conservation_status VARCHAR(100),
			dietary_habits TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Crowd-submitted observations
		CREATE TABLE IF NOT EXISTS observations (
			id UUID PRIMARY KEY,
			user_id UUID,
			species_name VARCHAR(255) NOT NULL,
			common_names TEXT[] NOT NULL DEFAULT '{}',
			longitude DOUBLE PRECISION NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			type VARCHAR(20),
			description TEXT,
			identification_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
			verified BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Knowledge-base articles
		CREATE TABLE IF NOT EXISTS knowledge_sources (
			id UUID PRIMARY KEY,
			title VARCHAR(500) NOT NULL,
			content TEXT NOT NULL,
			source TEXT,
			species_references TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Append-only question/answer log
		CREATE TABLE IF NOT EXISTS query_log (
			id UUID PRIMARY KEY,
			user_id UUID,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			related_observation_ids TEXT[] NOT NULL DEFAULT '{}',
			related_species_ids TEXT[] NOT NULL DEFAULT '{}',
			sources_used TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_species_scientific_name ON species(scientific_name);
		CREATE INDEX IF NOT EXISTS idx_observations_created_at ON observations(created_at);
		CREATE INDEX IF NOT EXISTS idx_observations_user_id ON observations(user_id);
		CREATE INDEX IF NOT EXISTS idx_knowledge_sources_title ON knowledge_sources(title);
		CREATE INDEX IF NOT EXISTS idx_query_log_user_id ON query_log(user_id);
		CREATE INDEX IF NOT EXISTS idx_query_log_created_at ON query_log(created_at);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
