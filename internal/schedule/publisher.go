// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/preview"
)

// ErrNothingToPublish is returned when the collection is empty.
var ErrNothingToPublish = errors.New("no hadith to publish")

// CurrentSource provides the Hadith under the rotation cursor.
type CurrentSource interface {
	Current() preview.Snapshot
}

// AccountSource provides the connected accounts among a set of platforms.
type AccountSource interface {
	Connected(platforms []model.Platform) []model.SocialAccount
}

// Captioner writes a caption for a Hadith on a platform.
type Captioner interface {
	Caption(ctx context.Context, h model.Hadith, platform string) string
}

// Publisher records a post of the current Hadith to the connected accounts.
// Posting itself is simulated.
type Publisher struct {
	current  CurrentSource
	accounts AccountSource
	captions Captioner
	history  *History
	settings func() Settings
	logger   *slog.Logger
}

// NewPublisher creates a publisher. settings is read at publish time.
func NewPublisher(current CurrentSource, accounts AccountSource, captions Captioner,
	history *History, settings func() Settings, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		current:  current,
		accounts: accounts,
		captions: captions,
		history:  history,
		settings: settings,
		logger:   logger,
	}
}

// Publish records a post of the current Hadith at time at. The post is Failed
// when none of the scheduled platforms is connected.
func (p *Publisher) Publish(ctx context.Context, at time.Time) (model.Post, error) {
	snap := p.current.Current()
	if snap.Empty {
		p.logger.Warn("scheduled post skipped: collection is empty", "category", model.EventCategorySchedule)
		return model.Post{}, ErrNothingToPublish
	}

	h := snap.Hadith
	post := model.Post{
		ID:           uuid.NewString(),
		HadithID:     h.ID,
		HadithSource: h.Source,
		Translation:  h.Translation,
		ScheduledFor: at,
	}

	targets := p.settings().Platforms
	connected := p.accounts.Connected(targets)
	if len(connected) == 0 {
		post.Platforms = append([]model.Platform(nil), targets...)
		post.Status = model.PostStatusFailed
		post.Error = "no connected accounts"
		p.logger.Warn("scheduled post failed: no connected accounts",
			"category", model.EventCategorySchedule, "hadith_id", h.ID)
	} else {
		for _, acc := range connected {
			post.Platforms = append(post.Platforms, acc.Platform)
		}
		postedAt := at
		post.Status = model.PostStatusPosted
		post.PostedAt = &postedAt
		post.Caption = p.captions.Caption(ctx, h, string(post.Platforms[0]))
		p.logger.Info("post published",
			"category", model.EventCategorySchedule, "hadith_id", h.ID, "platforms", post.Platforms)
	}

	if err := p.history.Record(ctx, post); err != nil {
		return model.Post{}, err
	}
	return post, nil
}

// Job returns a function suitable for the scheduler.
func (p *Publisher) Job(timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := p.Publish(ctx, time.Now()); err != nil && !errors.Is(err, ErrNothingToPublish) {
			p.logger.Error("scheduled publish failed", "category", model.EventCategorySchedule, "error", err)
		}
	}
}
