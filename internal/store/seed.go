// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/noorshare/internal/auth"
	"github.com/olegiv/noorshare/internal/model"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedData is the content of seed.yaml.
type SeedData struct {
	Hadiths  []model.Hadith `yaml:"hadiths"`
	Accounts []seedAccount  `yaml:"accounts"`
}

type seedAccount struct {
	Platform       string `yaml:"platform"`
	Handle         string `yaml:"handle"`
	SyncedHoursAgo int    `yaml:"synced_hours_ago"`
}

// Admin holds the bootstrap administrator credentials.
type Admin struct {
	Email    string
	Password string
	Name     string
}

// LoadSeedData parses the embedded seed file.
func LoadSeedData() (SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return SeedData{}, fmt.Errorf("parsing seed data: %w", err)
	}
	return data, nil
}

// SocialAccounts converts the seed accounts, with sync times relative to now.
func (d SeedData) SocialAccounts(now time.Time) ([]model.SocialAccount, error) {
	out := make([]model.SocialAccount, 0, len(d.Accounts))
	for _, a := range d.Accounts {
		p, err := model.ParsePlatform(a.Platform)
		if err != nil {
			return nil, err
		}
		acc := model.SocialAccount{Platform: p}
		if a.Handle != "" {
			acc = acc.ConnectedAs(a.Handle, now.Add(-time.Duration(a.SyncedHoursAgo)*time.Hour))
		}
		out = append(out, acc)
	}
	return out, nil
}

// Seed creates the bootstrap admin and, when withContent is set, the initial
// hadiths and accounts. Each part is skipped when its table already has rows.
func Seed(ctx context.Context, db *sql.DB, admin Admin, withContent bool, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	q := New(db)

	if err := seedAdmin(ctx, q, admin, logger); err != nil {
		return err
	}
	if !withContent {
		return nil
	}

	data, err := LoadSeedData()
	if err != nil {
		return err
	}

	n, err := q.CountHadiths(ctx)
	if err != nil {
		return fmt.Errorf("counting hadiths: %w", err)
	}
	if n == 0 {
		now := time.Now().UTC()
		for i, h := range data.Hadiths {
			h.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
			if err := q.CreateHadith(ctx, h); err != nil {
				return fmt.Errorf("seeding hadith %s: %w", h.ID, err)
			}
		}
		logger.Info("seeded hadiths", "count", len(data.Hadiths))
	}

	existing, err := q.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}
	if len(existing) == 0 {
		accounts, err := data.SocialAccounts(time.Now().UTC())
		if err != nil {
			return fmt.Errorf("seed accounts: %w", err)
		}
		for _, acc := range accounts {
			if err := q.SaveAccount(ctx, acc); err != nil {
				return fmt.Errorf("seeding account %s: %w", acc.Platform, err)
			}
		}
		logger.Info("seeded social accounts", "count", len(accounts))
	}
	return nil
}

func seedAdmin(ctx context.Context, q *Queries, admin Admin, logger *slog.Logger) error {
	n, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return nil
	}
	if admin.Email == "" || admin.Password == "" {
		return errors.New("no users exist and no bootstrap admin credentials are configured")
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	name := admin.Name
	if name == "" {
		name = "Administrator"
	}
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        admin.Email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	logger.Info("created bootstrap admin user", "id", user.ID, "email", user.Email)
	return nil
}
