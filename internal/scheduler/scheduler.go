// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs housekeeping jobs that are not part of posting.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/noorshare/internal/model"
)

// PurgeSpec runs the event log purge once a day at 03:00.
const PurgeSpec = "0 3 * * *"

// purgeTimeout bounds one purge run.
const purgeTimeout = time.Minute

// EventPurger removes old event log entries.
type EventPurger interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Scheduler handles maintenance tasks like pruning the event log.
type Scheduler struct {
	events    EventPurger
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// New creates a new scheduler instance.
func New(events EventPurger, retention time.Duration, loc *time.Location, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		events:    events,
		retention: retention,
		cron:      cron.New(cron.WithLocation(loc)),
		logger:    logger,
	}
}

// Start registers the maintenance jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(PurgeSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()
		s.PurgeEvents(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("maintenance scheduler started", "jobs", len(s.cron.Entries()), "retention", s.retention)
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("maintenance scheduler stopped")
}

// PurgeEvents deletes events older than the retention period and returns how
// many were removed.
func (s *Scheduler) PurgeEvents(ctx context.Context) int64 {
	n, err := s.events.DeleteOldEvents(ctx, s.retention)
	if err != nil {
		s.logger.Error("failed to purge event log", "category", model.EventCategorySystem, "error", err)
		return 0
	}
	if n > 0 {
		s.logger.Info("purged event log", "deleted", n, "retention", s.retention)
	}
	return n
}
