// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the cookie session store and the keys kept in it.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyUserID   = "user_id"
	KeyLanguage = "lang"
	KeyFlash    = "flash"
)

// Lifetime is how long a dashboard login lasts.
const Lifetime = 24 * time.Hour

// CleanupInterval is how often expired sessions are purged from SQLite.
const CleanupInterval = 10 * time.Minute

// New creates a session manager backed by the sessions table.
// A zero cleanup interval disables the background purge.
func New(db *sql.DB, isDev bool, cleanup time.Duration) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, cleanup)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = 8 * time.Hour
	sm.Cookie.Name = "noor_session"
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	// Browser-session cookies unless the user ticks "Remember me".
	sm.Cookie.Persist = false

	// __Host- cookies must be Secure, so the prefix is production-only.
	if !isDev {
		sm.Cookie.Name = "__Host-noor_session"
	}
	return sm
}

// Login renews the token and stores the user id. With remember set the
// cookie persists for the session lifetime instead of the browser session.
func Login(ctx context.Context, sm *scs.SessionManager, userID int64, remember bool) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyUserID, userID)
	sm.RememberMe(ctx, remember)
	return nil
}

// Logout drops the user id but keeps the language choice.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	lang := sm.GetString(ctx, KeyLanguage)
	if err := sm.Destroy(ctx); err != nil {
		return err
	}
	if lang != "" {
		sm.Put(ctx, KeyLanguage, lang)
	}
	return nil
}

// UserID returns the logged-in user id, or 0.
func UserID(ctx context.Context, sm *scs.SessionManager) int64 {
	return sm.GetInt64(ctx, KeyUserID)
}

// SetFlash stores a one-shot message for the next page render.
func SetFlash(ctx context.Context, sm *scs.SessionManager, msg string) {
	sm.Put(ctx, KeyFlash, msg)
}

// PopFlash returns and clears the flash message.
func PopFlash(ctx context.Context, sm *scs.SessionManager) string {
	return sm.PopString(ctx, KeyFlash)
}
