// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the audit trail shown on the dashboard.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/store"
)

// EventStore is the subset of store.Queries the service needs.
type EventStore interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) error
	ListEvents(ctx context.Context, limit int) ([]model.Event, error)
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventService records and prunes event log entries.
type EventService struct {
	events EventStore
	now    func() time.Time
}

// NewEventService creates a new EventService. A nil now uses time.Now.
func NewEventService(events EventStore, now func() time.Time) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{events: events, now: now}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	err := s.events.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		// Not through slog: a WARN here would re-enter the event log.
		return fmt.Errorf("logging event: %w", err)
	}
	return nil
}

// LogInfo logs an info-level event. Warnings and errors reach the log through
// the slog handler, so this is the way to audit routine actions.
func (s *EventService) LogInfo(ctx context.Context, category, message string, metadata map[string]any) {
	if err := s.LogEvent(ctx, model.EventLevelInfo, category, message, metadata); err != nil {
		slog.Debug("audit event dropped", "error", err)
	}
}

// Recent returns the newest limit events.
func (s *EventService) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	return s.events.ListEvents(ctx, limit)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.events.DeleteEventsBefore(ctx, s.now().UTC().Add(-olderThan))
}
