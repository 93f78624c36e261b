// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the English and Arabic dashboard translations.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// DefaultLanguage is used when nothing better matches.
const DefaultLanguage = "en"

// SupportedLanguages lists the dashboard languages in display order.
var SupportedLanguages = []string{"en", "ar"}

var rtlLanguages = map[string]bool{"ar": true}

// messageFile is the layout of locales/<lang>/messages.json.
type messageFile struct {
	Language string            `json:"language"`
	Name     string            `json:"name"`
	Messages map[string]string `json:"messages"`
}

// Catalog holds the translations of every supported language.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	names        map[string]string
	matcher      language.Matcher
	supported    []language.Tag
	logger       *slog.Logger
}

var catalog *Catalog

// Init loads every embedded locale. It is safe to call more than once.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string, len(SupportedLanguages)),
		names:        make(map[string]string, len(SupportedLanguages)),
		logger:       logger,
	}

	for _, lang := range SupportedLanguages {
		c.supported = append(c.supported, language.MustParse(lang))
		if err := c.load(lang); err != nil {
			return fmt.Errorf("loading language %s: %w", lang, err)
		}
	}
	c.matcher = language.NewMatcher(c.supported)
	catalog = c

	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

func (c *Catalog) load(lang string) error {
	path := "locales/" + lang + "/messages.json"
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var f messageFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.translations[lang] = f.Messages
	c.names[lang] = f.Name

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(f.Messages))
	}
	return nil
}

// T translates key into lang, falling back to English and then to the key
// itself. Arguments are applied with fmt.Sprintf.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	msg, ok := catalog.translations[lang][key]
	if !ok {
		msg, ok = catalog.translations[DefaultLanguage][key]
		if ok && lang != DefaultLanguage && catalog.logger != nil {
			catalog.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
	}
	catalog.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Direction returns the text direction for lang: "rtl" or "ltr".
func Direction(lang string) string {
	if rtlLanguages[strings.ToLower(lang)] {
		return "rtl"
	}
	return "ltr"
}

// Name returns the native name of lang, e.g. "العربية".
func Name(lang string) string {
	if catalog == nil {
		return lang
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	if n := catalog.names[lang]; n != "" {
		return n
	}
	return lang
}

// MatchLanguage picks the best supported language for an Accept-Language
// header or a bare language code.
func MatchLanguage(accept string) string {
	if catalog == nil || strings.TrimSpace(accept) == "" {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}

	_, idx, conf := catalog.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(catalog.supported) {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

// IsSupported reports whether lang is a dashboard language.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, s := range SupportedLanguages {
		if s == lang {
			return true
		}
	}
	return false
}

// TranslationCount returns the number of messages loaded for lang.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}

// MissingKeys lists the English keys that lang does not translate.
func MissingKeys(lang string) []string {
	if catalog == nil {
		return nil
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	var missing []string
	for key := range catalog.translations[DefaultLanguage] {
		if _, ok := catalog.translations[lang][key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
