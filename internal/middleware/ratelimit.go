// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/olegiv/noorshare/internal/i18n"
	"github.com/olegiv/noorshare/internal/model"
)

// maxTrackedKeys bounds the per-client limiter map.
const maxTrackedKeys = 10000

// limiterCache holds one token bucket per key.
type limiterCache[K comparable] struct {
	mu       sync.RWMutex
	limiters map[K]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	l, ok := lc.limiters[key]
	lc.mu.RUnlock()
	if ok {
		return l
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if l, ok = lc.limiters[key]; ok {
		return l
	}
	l = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = l
	return l
}

func (lc *limiterCache[K]) clearIfExceeds(n int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if len(lc.limiters) > n {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	cache *limiterCache[string]
}

// NewRateLimiter allows rps requests per second with the given burst per IP.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{cache: newLimiterCache[string](rps, burst)}
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.cache.get(ip).Allow()
}

// Middleware answers 429 with a JSON error once a client exceeds its budget.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(ClientIP(r)) {
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginProtection combines a per-IP limit on login posts with a per-account
// lockout after repeated failures.
type LoginProtection struct {
	ips *limiterCache[string]

	mu       sync.Mutex
	attempts map[string]*loginAttempt

	maxFailed int
	lockout   time.Duration
	window    time.Duration
	now       func() time.Time
}

type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig holds the login limits.
type LoginProtectionConfig struct {
	IPRateLimit       float64
	IPBurst           int
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	AttemptWindow     time.Duration
}

// DefaultLoginProtectionConfig returns the production limits.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates the tracker. Zero fields take the defaults.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}

	return &LoginProtection{
		ips:       newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		attempts:  make(map[string]*loginAttempt),
		maxFailed: cfg.MaxFailedAttempts,
		lockout:   cfg.LockoutDuration,
		window:    cfg.AttemptWindow,
		now:       time.Now,
	}
}

// IsLocked reports whether email is locked out and for how long.
func (lp *LoginProtection) IsLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	a, ok := lp.attempts[strings.ToLower(email)]
	if !ok {
		return false, 0
	}
	if now := lp.now(); now.Before(a.lockedUntil) {
		return true, a.lockedUntil.Sub(now)
	}
	return false, 0
}

// RecordFailure counts a failed login and reports whether it caused a lockout.
// Each successive lockout doubles, capped at 24 hours.
func (lp *LoginProtection) RecordFailure(email string) (bool, time.Duration) {
	email = strings.ToLower(email)
	now := lp.now()

	lp.mu.Lock()
	defer lp.mu.Unlock()

	a, ok := lp.attempts[email]
	if !ok || now.Sub(a.firstFailed) > lp.window {
		lockouts := 0
		if ok {
			lockouts = a.lockouts
		}
		a = &loginAttempt{count: 0, firstFailed: now, lockouts: lockouts}
		lp.attempts[email] = a
	}
	a.count++
	if a.count < lp.maxFailed {
		return false, 0
	}

	d := lp.lockout
	for i := 0; i < a.lockouts && d < 24*time.Hour; i++ {
		d *= 2
	}
	d = min(d, 24*time.Hour)

	a.lockedUntil = now.Add(d)
	a.lockouts++
	a.count = 0

	slog.Warn("account locked after failed logins", "category", model.EventCategoryAuth, "email", email, "duration", d)
	return true, d
}

// RecordSuccess forgets the failures of email.
func (lp *LoginProtection) RecordSuccess(email string) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	delete(lp.attempts, strings.ToLower(email))
}

// Run purges stale entries every interval until ctx is done.
func (lp *LoginProtection) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lp.purge()
		}
	}
}

func (lp *LoginProtection) purge() {
	if lp.ips.clearIfExceeds(maxTrackedKeys) {
		slog.Info("cleared login IP limiters")
	}

	now := lp.now()
	lp.mu.Lock()
	defer lp.mu.Unlock()
	for email, a := range lp.attempts {
		if now.After(a.lockedUntil) && now.Sub(a.firstFailed) > lp.window {
			delete(lp.attempts, email)
		}
	}
}

// Middleware limits POST requests per client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := ClientIP(r)
			if !lp.ips.get(ip).Allow() {
				slog.Warn("login rate limit exceeded", "category", model.EventCategoryAuth, "ip", ip)
				http.Error(w, i18n.T(GetLang(r), "login.rate_limited"), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the client address. chi's RealIP middleware has already
// applied proxy headers to RemoteAddr by the time this runs.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
