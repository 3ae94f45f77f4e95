// Package scheduler runs periodic maintenance jobs: event log pruning,
// label cache warming and rate limiter pruning.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eindr/labeld/internal/cache"
	"github.com/eindr/labeld/internal/store"
)

// Pruner bounds a structure that grows with the set of clients seen.
// The API rate limiter implements it.
type Pruner interface {
	Prune(maxSize int)
}

// maxLimiterClients caps the rate limiter map before it is cleared.
const maxLimiterClients = 10000

// Scheduler handles scheduled maintenance tasks.
type Scheduler struct {
	db          *sql.DB
	cron        *cron.Cron
	logger      *slog.Logger
	labels      *cache.LabelCache
	limiter     Pruner
	eventMaxAge time.Duration
}

// New creates a new scheduler instance. labels and limiter may be nil to
// disable cache warming and limiter pruning respectively.
func New(db *sql.DB, logger *slog.Logger, labels *cache.LabelCache, limiter Pruner, eventRetentionDays int) *Scheduler {
	return &Scheduler{
		db:          db,
		cron:        cron.New(),
		logger:      logger,
		labels:      labels,
		limiter:     limiter,
		eventMaxAge: time.Duration(eventRetentionDays) * 24 * time.Hour,
	}
}

// Start registers the cron jobs and begins the scheduler. Event and
// limiter pruning run hourly, cache warming every ten minutes.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.pruneEvents(); err != nil {
			s.logger.Error("failed to prune event log", "error", err)
		}
	}); err != nil {
		return err
	}

	if s.labels != nil {
		if _, err := s.cron.AddFunc("*/10 * * * *", func() {
			if err := s.refreshLabels(); err != nil {
				s.logger.Error("failed to refresh label cache", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	if s.limiter != nil {
		if _, err := s.cron.AddFunc("30 * * * *", s.pruneLimiter); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// pruneEvents deletes event log entries older than the retention window.
func (s *Scheduler) pruneEvents() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.eventMaxAge)
	deleted, err := store.New(s.db).DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		s.logger.Info("pruned event log", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}

// pruneLimiter clears the rate limiter's client map once it has grown
// past the cap.
func (s *Scheduler) pruneLimiter() {
	s.limiter.Prune(maxLimiterClients)
}

// refreshLabels rebuilds the cached label lists for all active languages.
func (s *Scheduler) refreshLabels() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	return s.labels.Refresh(ctx)
}
