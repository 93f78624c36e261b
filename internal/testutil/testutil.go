// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for NoorShare.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/noorshare/internal/caption"
	"github.com/olegiv/noorshare/internal/config"
	"github.com/olegiv/noorshare/internal/store"
)

// Credentials of the admin created by SeedDB.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "correct-Horse-battery-9"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary database with migrations applied. It is closed
// when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "noorshare-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// SeededDB is TestDB plus the admin user and, when withContent is set, the
// bundled hadiths and accounts.
func SeededDB(t *testing.T, withContent bool) *sql.DB {
	t.Helper()

	db := TestDB(t)
	admin := store.Admin{Email: AdminEmail, Password: AdminPassword, Name: "Test Admin"}
	if err := store.Seed(context.Background(), db, admin, withContent, TestLoggerSilent()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

// TestConfig returns a development configuration with a short toggle delay
// and captions disabled unless a generator is injected.
func TestConfig() *config.Config {
	return &config.Config{
		DBPath:          ":memory:",
		SessionSecret:   "test-Secret-key-32-bytes-long!!!",
		ServerHost:      "localhost",
		ServerPort:      8080,
		Env:             "development",
		LogLevel:        "error",
		Timezone:        "UTC",
		AdminEmail:      AdminEmail,
		AdminPassword:   AdminPassword,
		ToggleDelay:     20 * time.Millisecond,
		CaptionProvider: config.CaptionProviderNone,
		CaptionTimeout:  time.Second,
		CaptionRate:     100,
		CaptionBurst:    100,
		CachePrefix:     "test:",
		CacheTTL:        60,
		CacheMaxSize:    100,
		EventRetention:  24 * time.Hour,
	}
}

// FakeGenerator is a caption.Generator with a settable reply.
type FakeGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

var _ caption.Generator = (*FakeGenerator)(nil)

// NewFakeGenerator returns a generator answering reply.
func NewFakeGenerator(reply string) *FakeGenerator {
	return &FakeGenerator{reply: reply}
}

// Generate implements caption.Generator.
func (f *FakeGenerator) Generate(context.Context, caption.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply, f.err
}

// SetReply changes the next replies.
func (f *FakeGenerator) SetReply(reply string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply, f.err = reply, err
}

// Calls returns how many times Generate ran.
func (f *FakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
