// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/schedule"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries implements the repositories of the domain packages.
type Queries struct {
	db DBTX
}

// New creates a Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries that runs inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ---- hadiths ----

// ListHadiths returns every hadith in insertion order.
func (q *Queries) ListHadiths(ctx context.Context) ([]model.Hadith, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, arabic_text, translation, source, grade, created_at FROM hadiths ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Hadith
	for rows.Next() {
		var h model.Hadith
		if err := rows.Scan(&h.ID, &h.ArabicText, &h.Translation, &h.Source, &h.Grade, &h.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

// CreateHadith appends a hadith.
func (q *Queries) CreateHadith(ctx context.Context, h model.Hadith) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO hadiths (id, arabic_text, translation, source, grade, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.ArabicText, h.Translation, h.Source, h.Grade, h.CreatedAt)
	return err
}

// DeleteHadith removes a hadith by id.
func (q *Queries) DeleteHadith(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM hadiths WHERE id = ?`, id)
	return err
}

// CountHadiths returns the number of stored hadiths.
func (q *Queries) CountHadiths(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hadiths`).Scan(&n)
	return n, err
}

// ---- social accounts ----

// ListAccounts returns the stored accounts.
func (q *Queries) ListAccounts(ctx context.Context) ([]model.SocialAccount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT platform, connected, handle, last_sync FROM social_accounts ORDER BY platform`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.SocialAccount
	for rows.Next() {
		var (
			acc      model.SocialAccount
			platform string
			lastSync sql.NullTime
		)
		if err := rows.Scan(&platform, &acc.Connected, &acc.Handle, &lastSync); err != nil {
			return nil, err
		}
		acc.Platform = model.Platform(platform)
		if lastSync.Valid {
			t := lastSync.Time
			acc.LastSync = &t
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

// SaveAccount inserts or replaces an account.
func (q *Queries) SaveAccount(ctx context.Context, acc model.SocialAccount) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO social_accounts (platform, connected, handle, last_sync) VALUES (?, ?, ?, ?)
		 ON CONFLICT(platform) DO UPDATE SET connected = excluded.connected, handle = excluded.handle, last_sync = excluded.last_sync`,
		string(acc.Platform), acc.Connected, acc.Handle, nullTime(acc.LastSync))
	return err
}

// ---- schedule ----

// LoadSettings returns the saved schedule. ok is false when none was saved.
func (q *Queries) LoadSettings(ctx context.Context) (schedule.Settings, bool, error) {
	var (
		s         schedule.Settings
		freq      string
		platforms string
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT frequency, post_time, platforms, enabled FROM schedule_settings WHERE id = 1`).
		Scan(&freq, &s.Time, &platforms, &s.Enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.Settings{}, false, nil
	}
	if err != nil {
		return schedule.Settings{}, false, err
	}
	s.Frequency = schedule.Frequency(freq)
	s.Platforms = splitPlatforms(platforms)
	return s, true, nil
}

// SaveSettings stores the schedule.
func (q *Queries) SaveSettings(ctx context.Context, s schedule.Settings) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO schedule_settings (id, frequency, post_time, platforms, enabled, updated_at) VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET frequency = excluded.frequency, post_time = excluded.post_time,
		   platforms = excluded.platforms, enabled = excluded.enabled, updated_at = excluded.updated_at`,
		string(s.Frequency), s.Time, joinPlatforms(s.Platforms), s.Enabled, time.Now().UTC())
	return err
}

// ---- posts ----

// ListPosts returns the posting history, newest first.
func (q *Queries) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, hadith_id, hadith_source, translation, platforms, status, caption, error,
		        scheduled_for, posted_at, likes, shares
		 FROM posts ORDER BY scheduled_for DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Post
	for rows.Next() {
		var (
			p         model.Post
			platforms string
			status    string
			postedAt  sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.HadithID, &p.HadithSource, &p.Translation, &platforms, &status,
			&p.Caption, &p.Error, &p.ScheduledFor, &postedAt, &p.Likes, &p.Shares); err != nil {
			return nil, err
		}
		p.Platforms = splitPlatforms(platforms)
		p.Status = model.PostStatus(status)
		if postedAt.Valid {
			t := postedAt.Time
			p.PostedAt = &t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreatePost stores a post.
func (q *Queries) CreatePost(ctx context.Context, p model.Post) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (id, hadith_id, hadith_source, translation, platforms, status, caption, error,
		                    scheduled_for, posted_at, likes, shares)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.HadithID, p.HadithSource, p.Translation, joinPlatforms(p.Platforms), string(p.Status),
		p.Caption, p.Error, p.ScheduledFor, nullTime(p.PostedAt), p.Likes, p.Shares)
	return err
}

// UpdatePostCaption replaces the caption of a post.
func (q *Queries) UpdatePostCaption(ctx context.Context, id, caption string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE posts SET caption = ? WHERE id = ?`, caption, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ---- users ----

// CreateUserParams holds the fields of a new user.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// CreateUser inserts a user and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, created_at) VALUES (?, ?, ?, ?)`,
		strings.ToLower(arg.Email), arg.PasswordHash, arg.Name, arg.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:           id,
		Email:        strings.ToLower(arg.Email),
		PasswordHash: arg.PasswordHash,
		Name:         arg.Name,
		CreatedAt:    arg.CreatedAt,
	}, nil
}

const userColumns = `id, email, password_hash, name, created_at, last_login_at`

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &lastLogin); err != nil {
		return model.User{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// GetUserByEmail returns sql.ErrNoRows when no user matches.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email))))
}

// GetUserByID returns sql.ErrNoRows when no user matches.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// CountUsers returns the number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// UpdateUserLastLogin records a successful login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, at, id)
	return err
}

// UpdateUserPassword replaces a password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	return err
}

// ---- events ----

// CreateEventParams holds the fields of a new event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt)
	return err
}

// ListEvents returns the newest events first.
func (q *Queries) ListEvents(ctx context.Context, limit int) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level, category, message, metadata, created_at FROM events ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEventsBefore removes events older than cutoff.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}
	return res.RowsAffected()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func joinPlatforms(ps []model.Platform) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

func splitPlatforms(s string) []model.Platform {
	if s == "" {
		return nil
	}
	var out []model.Platform
	for _, part := range strings.Split(s, ",") {
		if p, err := model.ParsePlatform(part); err == nil {
			out = append(out, p)
		}
	}
	return out
}
