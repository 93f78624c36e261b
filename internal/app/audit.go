// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package app

import (
	"context"

	"github.com/olegiv/noorshare/internal/content"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/schedule"
)

// The mutations below are shared by the HTML pages and the JSON API so both
// leave the same trail in the event log.

// AddHadith validates and stores a new hadith.
func (s *State) AddHadith(ctx context.Context, in content.HadithInput) (model.Hadith, error) {
	created, err := s.Hadiths.Create(ctx, in)
	if err != nil {
		return model.Hadith{}, err
	}
	s.Events.LogInfo(ctx, model.EventCategoryContent, "hadith added", map[string]any{
		"id": created.ID, "source": created.Source,
	})
	return created, nil
}

// DeleteHadith removes a hadith. It reports false when no entry matched.
func (s *State) DeleteHadith(ctx context.Context, id string) (bool, error) {
	removed, err := s.Hadiths.Delete(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	s.Events.LogInfo(ctx, model.EventCategoryContent, "hadith deleted", map[string]any{"id": id})
	return true, nil
}

// UpdateSchedule persists and applies validated schedule settings.
func (s *State) UpdateSchedule(ctx context.Context, settings schedule.Settings) error {
	if err := s.Scheduler.Update(ctx, settings); err != nil {
		return err
	}
	s.Events.LogInfo(ctx, model.EventCategorySchedule, "schedule updated", map[string]any{
		"frequency": settings.Frequency,
		"time":      settings.Time,
		"platforms": settings.Platforms,
		"enabled":   settings.Enabled,
	})
	return nil
}
