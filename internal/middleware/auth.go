// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware of the dashboard:
// authentication, language selection, CSRF, rate limits and security headers.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys set by this package.
const (
	ContextKeyUser     ContextKey = "user"
	ContextKeyLanguage ContextKey = "language"
)

// UserLoader fetches a user by id.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (model.User, error)
}

// APIError is the JSON error envelope of the /api/v1 routes.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var apiErr APIError
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details
	_ = json.NewEncoder(w).Encode(apiErr)
}

// RequireUser loads the session user into the context. Browsers without a
// valid session are redirected to /login.
func RequireUser(sm *scs.SessionManager, users UserLoader) func(http.Handler) http.Handler {
	return requireUser(sm, users, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}

// RequireAPIUser is RequireUser for JSON routes: it answers 401 instead of redirecting.
func RequireAPIUser(sm *scs.SessionManager, users UserLoader) func(http.Handler) http.Handler {
	return requireUser(sm, users, func(w http.ResponseWriter, _ *http.Request) {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Login required", nil)
	})
}

func requireUser(sm *scs.SessionManager, users UserLoader, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := session.UserID(r.Context(), sm)
			if id == 0 {
				deny(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), id)
			if err != nil {
				slog.Warn("session refers to unknown user", "user_id", id, "error", err)
				_ = session.Logout(r.Context(), sm)
				deny(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user, or nil.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserEmail returns the authenticated user's email, or "".
func GetUserEmail(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.Email
	}
	return ""
}
