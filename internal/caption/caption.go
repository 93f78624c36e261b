// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package caption generates social captions and posting-time suggestions with
// a generative model. Failures never reach the caller; they become fixed
// fallback strings.
package caption

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/time/rate"

	"github.com/olegiv/noorshare/internal/cache"
	"github.com/olegiv/noorshare/internal/model"
)

// Fixed replies.
const (
	FallbackCaption = "Error generating caption. Please write one manually."
	EmptyCaption    = "Could not generate caption."
	DefaultTime     = "18:00"
)

var (
	errNoGenerator = errors.New("no caption generator configured")
	errRateLimited = errors.New("caption rate limit exceeded")
	errEmpty       = errors.New("empty caption")
)

var (
	timePattern = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)

	markdown = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))
	sanitize = bluemonday.UGCPolicy()
)

// Options configures a Service.
type Options struct {
	Generator Generator // nil disables generation
	Cache     cache.Cache
	CacheTTL  time.Duration
	Rate      rate.Limit
	Burst     int
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Service wraps a Generator with caching, rate limiting and fallbacks.
type Service struct {
	gen     Generator
	cache   *cache.TypedCache[string]
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// NewService creates a caption service.
func NewService(opts Options) *Service {
	s := &Service{
		gen:     opts.Generator,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.timeout <= 0 {
		s.timeout = 20 * time.Second
	}
	if opts.Cache != nil {
		s.cache = cache.NewTypedCache[string](opts.Cache, opts.CacheTTL)
	}
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(opts.Rate, burst)
	}
	return s
}

// Enabled reports whether a generator is configured.
func (s *Service) Enabled() bool {
	return s.gen != nil
}

// Caption returns a caption for h on platform. It never fails: generator
// errors yield FallbackCaption and an empty reply yields EmptyCaption.
func (s *Service) Caption(ctx context.Context, h model.Hadith, platform string) string {
	return s.caption(ctx, h, platform, false)
}

// Regenerate is Caption without the cache lookup. The new caption replaces the cached one.
func (s *Service) Regenerate(ctx context.Context, h model.Hadith, platform string) string {
	return s.caption(ctx, h, platform, true)
}

func (s *Service) caption(ctx context.Context, h model.Hadith, platform string, fresh bool) string {
	generate := func() (string, error) {
		text, err := s.generate(ctx, Request{Prompt: BuildPrompt(h, platform), Fast: true})
		if err != nil {
			return "", err
		}
		if text == "" {
			return "", errEmpty
		}
		return text, nil
	}

	var (
		text string
		err  error
	)
	switch {
	case s.cache == nil || h.ID == "":
		text, err = generate()
	case fresh:
		if text, err = generate(); err == nil {
			_ = s.cache.Set(ctx, cacheKey(h.ID, platform), text)
		}
	default:
		text, err = s.cache.GetOrSet(ctx, cacheKey(h.ID, platform), generate)
	}

	switch {
	case errors.Is(err, errEmpty):
		return EmptyCaption
	case err != nil:
		s.logger.Warn("caption generation failed",
			"category", model.EventCategoryCaption, "hadith_id", h.ID, "platform", platform, "error", err)
		return FallbackCaption
	}
	return text
}

// SuggestTime asks the model for the best posting time and returns it as HH:MM.
// Any failure or unparsable reply yields DefaultTime.
func (s *Service) SuggestTime(ctx context.Context) string {
	text, err := s.generate(ctx, Request{Prompt: suggestTimePrompt})
	if err != nil {
		s.logger.Warn("time suggestion failed", "category", model.EventCategoryCaption, "error", err)
		return DefaultTime
	}
	if t, ok := ParseTime(text); ok {
		return t
	}
	return DefaultTime
}

func (s *Service) generate(ctx context.Context, req Request) (string, error) {
	if s.gen == nil {
		return "", errNoGenerator
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return "", errRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ParseTime extracts the first HH:MM time from text, zero-padded.
func ParseTime(text string) (string, bool) {
	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	var hh, mm int
	if _, err := fmt.Sscanf(m[1]+" "+m[2], "%d %d", &hh, &mm); err != nil {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hh, mm), true
}

// HTML renders caption markdown as sanitized HTML with line breaks preserved.
func HTML(caption string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(caption), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(caption))
	}
	return template.HTML(sanitize.SanitizeBytes(buf.Bytes()))
}

func cacheKey(hadithID, platform string) string {
	return "caption:" + hadithID + ":" + strings.ToLower(platform)
}
