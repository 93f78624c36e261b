// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/noorshare/internal/i18n"
	"github.com/olegiv/noorshare/internal/session"
)

// LanguageCookieName stores the language choice for visitors without a session.
const LanguageCookieName = "noor_lang"

// Language picks the UI language. Priority:
// 1. ?lang=xx (also remembered in the session and cookie)
// 2. session value
// 3. cookie
// 4. Accept-Language
func Language(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			lang := ""

			if q := r.URL.Query().Get("lang"); q != "" && i18n.IsSupported(q) {
				lang = q
				Remember(ctx, w, sm, lang)
			}
			if lang == "" {
				if s := sm.GetString(ctx, session.KeyLanguage); i18n.IsSupported(s) {
					lang = s
				}
			}
			if lang == "" {
				if c, err := r.Cookie(LanguageCookieName); err == nil && i18n.IsSupported(c.Value) {
					lang = c.Value
				}
			}
			if lang == "" {
				lang = i18n.MatchLanguage(r.Header.Get("Accept-Language"))
			}

			ctx = context.WithValue(ctx, ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Remember stores lang in the session and the language cookie.
func Remember(ctx context.Context, w http.ResponseWriter, sm *scs.SessionManager, lang string) {
	sm.Put(ctx, session.KeyLanguage, lang)
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetLang returns the request language, defaulting to English.
func GetLang(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}
