// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package app wires the domain components into the single application state
// shared by the HTTP handlers and the posting scheduler.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/olegiv/noorshare/internal/cache"
	"github.com/olegiv/noorshare/internal/caption"
	"github.com/olegiv/noorshare/internal/config"
	"github.com/olegiv/noorshare/internal/connection"
	"github.com/olegiv/noorshare/internal/content"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/preview"
	"github.com/olegiv/noorshare/internal/schedule"
	"github.com/olegiv/noorshare/internal/scheduler"
	"github.com/olegiv/noorshare/internal/service"
	"github.com/olegiv/noorshare/internal/store"
)

// publishTimeout bounds one scheduled post, caption generation included.
const publishTimeout = 2 * time.Minute

// State is the application root. Each component guards its own data.
type State struct {
	Config      *config.Config
	DB          *sql.DB
	Queries     *store.Queries
	Hadiths     *content.Collection
	Preview     *preview.Preview
	Connections *connection.Manager
	Captions    *caption.Service
	Cache       cache.Cache
	CacheKind   string
	Scheduler   *schedule.Scheduler
	History     *schedule.History
	Publisher   *schedule.Publisher
	Events      *service.EventService
	Maintenance *scheduler.Scheduler
	Logger      *slog.Logger
	Now         func() time.Time
}

// Options overrides parts of the wiring, mostly for tests.
type Options struct {
	// Generator replaces the provider chosen from the configuration.
	Generator caption.Generator
	// Connector replaces the mock connector.
	Connector connection.Connector
	Now       func() time.Time
}

// New builds the state from a migrated database and loads persisted data.
func New(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger, opts Options) (*State, error) {
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location()
	localNow := func() time.Time { return now().In(loc) }

	s := &State{
		Config:  cfg,
		DB:      db,
		Queries: store.New(db),
		Logger:  logger,
		Now:     localNow,
	}

	s.Events = service.NewEventService(s.Queries, now)
	s.Maintenance = scheduler.New(s.Events, cfg.EventRetention, loc, logger)

	s.Hadiths = content.NewCollection(s.Queries, logger)
	s.Preview = preview.New(s.Hadiths, localNow)
	if err := s.Hadiths.Load(ctx); err != nil {
		return nil, err
	}

	s.Connections = connection.NewManager(nil, connection.Options{
		Delay:     cfg.ToggleDelay,
		Connector: opts.Connector,
		Repo:      s.Queries,
		Logger:    logger,
		Now:       localNow,
	})
	if err := s.Connections.Load(ctx); err != nil {
		return nil, err
	}

	s.Cache, s.CacheKind = cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:    cfg.CacheMaxSize,
	}, logger)

	gen := opts.Generator
	if gen == nil {
		g, err := newGenerator(ctx, cfg)
		if err != nil {
			logger.Warn("caption generator unavailable, using fallback captions", "category", model.EventCategoryCaption, "error", err)
		} else {
			gen = g
		}
	}
	s.Captions = caption.NewService(caption.Options{
		Generator: gen,
		Cache:     s.Cache,
		CacheTTL:  time.Duration(cfg.CacheTTL) * time.Second,
		Rate:      rate.Limit(cfg.CaptionRate),
		Burst:     cfg.CaptionBurst,
		Timeout:   cfg.CaptionTimeout,
		Logger:    logger,
	})

	s.History = schedule.NewHistory(s.Queries)
	if err := s.History.Load(ctx); err != nil {
		return nil, err
	}

	// The job closes over s so the publisher can read the scheduler's settings.
	s.Scheduler = schedule.NewScheduler(func() {
		s.Publisher.Job(publishTimeout)()
	}, s.Queries, loc, logger)
	s.Publisher = schedule.NewPublisher(s.Preview, s.Connections, s.Captions, s.History, s.Scheduler.Settings, logger)
	if err := s.Scheduler.Load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// newGenerator returns the configured caption provider, or nil when captions
// are disabled.
func newGenerator(ctx context.Context, cfg *config.Config) (caption.Generator, error) {
	if !cfg.CaptionEnabled() {
		return nil, nil
	}
	switch cfg.CaptionProvider {
	case config.CaptionProviderGemini:
		g, err := caption.NewGeminiGenerator(ctx, cfg.CaptionAPIKey, cfg.CaptionModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.CaptionProviderOpenAI:
		g, err := caption.NewOpenAIGenerator(cfg.CaptionAPIKey, cfg.CaptionModel, cfg.CaptionBaseURL)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown caption provider %q", cfg.CaptionProvider)
	}
}

// Start begins scheduled posting and the maintenance jobs.
func (s *State) Start() error {
	if err := s.Maintenance.Start(); err != nil {
		return fmt.Errorf("starting maintenance scheduler: %w", err)
	}
	s.Scheduler.Start()
	return nil
}

// Close stops background work: the schedulers, pending toggles and the cache.
func (s *State) Close() error {
	s.Scheduler.Stop()
	s.Maintenance.Stop()
	s.Connections.Close()
	return s.Cache.Close()
}
