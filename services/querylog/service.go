// Package querylog owns the engine's single write side-effect: appending a
// log entry for every answered question. Appends are asynchronous so a slow
// or failing log never delays the user-visible answer.
package querylog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/models"
	"github.com/bioscout-islamabad/backend/repositories"
)

// Service appends query log entries in the background
type Service struct {
	repo        repositories.QueryLogRepository
	logger      *zap.Logger
	entryChan   chan *models.QueryLog
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	started     bool
	mu          sync.Mutex
}

// Config holds configuration for the Service
type Config struct {
	BufferSize  int // Size of the entry buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  1024,
		WorkerCount: 4,
	}
}

// NewService creates a new query log Service instance
func NewService(repo repositories.QueryLogRepository, logger *zap.Logger, config Config) *Service {
	return &Service{
		repo:        repo,
		logger:      logger,
		entryChan:   make(chan *models.QueryLog, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
	}
}

// Start starts the background workers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("query log service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started query log service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop gracefully stops the service, draining pending entries
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("query log service not started")
	}
	s.mu.Unlock()

	s.logger.Info("stopping query log service", zap.Int("pending_entries", len(s.entryChan)))

	// Close the channel; no more entries will be accepted
	close(s.entryChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("query log service stopped gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("query log service stop timeout after %v", timeout)
	}
}

// Record queues an entry for appending (non-blocking, fire-and-forget).
// When the buffer is full the entry is dropped with a warning; losing a log
// entry must never fail an answered question.
func (s *Service) Record(entry *models.QueryLog) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		s.logger.Warn("query log service not started, dropping entry",
			zap.String("id", entry.ID.String()))
		return
	}
	s.mu.Unlock()

	select {
	case s.entryChan <- entry:
	default:
		s.logger.Warn("query log buffer full, dropping entry",
			zap.String("id", entry.ID.String()),
			zap.String("question", entry.Question))
	}
}

// worker processes entries from the channel
func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("query log worker started", zap.Int("worker_id", id))

	for entry := range s.entryChan {
		if err := s.append(entry); err != nil {
			s.logger.Error("failed to append query log entry",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("id", entry.ID.String()))
		}
	}

	s.logger.Debug("query log worker stopped", zap.Int("worker_id", id))
}

// append writes a single entry with its own timeout
func (s *Service) append(entry *models.QueryLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert query log entry: %w", err)
	}

	return nil
}

// Stats represents query log service statistics
type Stats struct {
	BufferSize     int
	PendingEntries int
	WorkerCount    int
	Started        bool
}

// GetStats returns statistics about the service
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		BufferSize:     s.bufferSize,
		PendingEntries: len(s.entryChan),
		WorkerCount:    s.workerCount,
		Started:        s.started,
	}
}
