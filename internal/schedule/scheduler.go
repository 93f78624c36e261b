// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package schedule runs the posting schedule and records published posts.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/noorshare/internal/model"
)

// SettingsRepository persists the schedule.
type SettingsRepository interface {
	LoadSettings(ctx context.Context) (Settings, bool, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// Scheduler fires the publish job at the configured times.
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	entries  []cron.EntryID
	settings Settings
	job      func()
	repo     SettingsRepository
	loc      *time.Location
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that calls job at each scheduled time.
// repo may be nil.
func NewScheduler(job func(), repo SettingsRepository, loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		settings: DefaultSettings(),
		job:      job,
		repo:     repo,
		loc:      loc,
		logger:   logger,
	}
}

// Load applies the stored schedule, if any.
func (s *Scheduler) Load(ctx context.Context) error {
	if s.repo == nil {
		return s.Apply(s.Settings())
	}
	stored, ok, err := s.repo.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}
	if !ok {
		stored = DefaultSettings()
	}
	return s.Apply(stored)
}

// Settings returns the active schedule.
func (s *Scheduler) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Update persists settings and applies them.
func (s *Scheduler) Update(ctx context.Context, settings Settings) error {
	if s.repo != nil {
		if err := s.repo.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("saving schedule: %w", err)
		}
	}
	return s.Apply(settings)
}

// Apply replaces the posting jobs with those of settings. A disabled schedule
// has no jobs.
func (s *Scheduler) Apply(settings Settings) error {
	specs := settings.CronSpecs()
	if !settings.Enabled {
		specs = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.entries {
		s.cron.Remove(id)
	}
	s.entries = s.entries[:0]

	for _, spec := range specs {
		id, err := s.cron.AddFunc(spec, s.job)
		if err != nil {
			return fmt.Errorf("adding schedule %q: %w", spec, err)
		}
		s.entries = append(s.entries, id)
	}
	s.settings = settings

	s.logger.Info("posting schedule applied",
		"category", model.EventCategorySchedule,
		"frequency", settings.Frequency,
		"time", settings.Time,
		"enabled", settings.Enabled,
		"jobs", len(s.entries))
	return nil
}

// ActiveJobs returns the number of scheduled posting jobs.
func (s *Scheduler) ActiveJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// NextRun returns the next time a post is due after now.
func (s *Scheduler) NextRun(now time.Time) (time.Time, bool) {
	settings := s.Settings()
	if !settings.Enabled {
		return time.Time{}, false
	}
	return NextRun(settings, now.In(s.loc))
}

// NextRun returns the earliest fire time of settings after now, in now's location.
func NextRun(settings Settings, now time.Time) (time.Time, bool) {
	var next time.Time
	for _, spec := range settings.CronSpecs() {
		sched, err := cron.ParseStandard(spec)
		if err != nil {
			continue
		}
		if t := sched.Next(now); next.IsZero() || t.Before(next) {
			next = t
		}
	}
	return next, !next.IsZero()
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", s.ActiveJobs())
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
