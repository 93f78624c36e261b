// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package connection implements the per-account connect/disconnect toggle.
//
// A toggle marks the account as Connecting and flips it after a fixed delay.
// Each pending flip is a cancellable task; a cancelled task never mutates state.
package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/olegiv/noorshare/internal/model"
)

// DefaultDelay is the simulated connection latency.
const DefaultDelay = 1500 * time.Millisecond

// Errors returned by Manager.
var (
	ErrTogglePending   = errors.New("toggle already in progress")
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrNotConnected    = errors.New("account is not connected")
	ErrNoPendingToggle = errors.New("no toggle in progress")
)

// State is the displayed connection state of an account.
type State int

// Connection states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AccountRepository persists account state.
type AccountRepository interface {
	ListAccounts(ctx context.Context) ([]model.SocialAccount, error)
	SaveAccount(ctx context.Context, acc model.SocialAccount) error
}

// Status is an account together with its toggle state.
type Status struct {
	model.SocialAccount
	State     State  `json:"state"`
	LastError string `json:"last_error,omitempty"`
}

// Pending reports whether a toggle is in flight.
func (s Status) Pending() bool {
	return s.State == StateConnecting
}

// Options configures a Manager.
type Options struct {
	Delay     time.Duration
	Connector Connector
	Repo      AccountRepository
	Logger    *slog.Logger
	Now       func() time.Time
}

type task struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// Manager holds the connection state of every platform account.
type Manager struct {
	mu       sync.Mutex
	accounts map[model.Platform]model.SocialAccount
	pending  map[model.Platform]*task
	lastErr  map[model.Platform]string
	closed   bool

	delay     time.Duration
	connector Connector
	repo      AccountRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewManager creates a manager with one account per platform, taken from initial
// where present and disconnected otherwise.
func NewManager(initial []model.SocialAccount, opts Options) *Manager {
	m := &Manager{
		accounts:  make(map[model.Platform]model.SocialAccount, len(model.Platforms)),
		pending:   make(map[model.Platform]*task),
		lastErr:   make(map[model.Platform]string),
		delay:     opts.Delay,
		connector: opts.Connector,
		repo:      opts.Repo,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if m.delay <= 0 {
		m.delay = DefaultDelay
	}
	if m.connector == nil {
		m.connector = MockConnector{}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}

	for _, p := range model.Platforms {
		m.accounts[p] = model.SocialAccount{Platform: p}
	}
	for _, acc := range initial {
		if _, ok := m.accounts[acc.Platform]; ok {
			m.accounts[acc.Platform] = normalize(acc)
		}
	}
	return m
}

// Load replaces the account state with the repository contents.
// Platforms the repository does not know keep their current state.
func (m *Manager) Load(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	stored, err := m.repo.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range stored {
		if _, ok := m.accounts[acc.Platform]; ok {
			m.accounts[acc.Platform] = normalize(acc)
		}
	}
	return nil
}

// Accounts returns the status of every account in display order.
func (m *Manager) Accounts() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Status, 0, len(model.Platforms))
	for _, p := range model.Platforms {
		out = append(out, m.statusLocked(p))
	}
	return out
}

// Account returns the status of one account.
func (m *Manager) Account(platform model.Platform) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[platform]; !ok {
		return Status{}, ErrUnknownPlatform
	}
	return m.statusLocked(platform), nil
}

// Connected returns the connected accounts among platforms.
func (m *Manager) Connected(platforms []model.Platform) []model.SocialAccount {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.SocialAccount
	for _, p := range platforms {
		if acc, ok := m.accounts[p]; ok && acc.Connected {
			out = append(out, acc)
		}
	}
	return out
}

func (m *Manager) statusLocked(p model.Platform) Status {
	acc := m.accounts[p]
	st := Status{SocialAccount: acc, LastError: m.lastErr[p]}
	switch {
	case m.pending[p] != nil:
		st.State = StateConnecting
	case acc.Connected:
		st.State = StateConnected
	default:
		st.State = StateDisconnected
	}
	return st
}

// Toggle starts a delayed connect or disconnect of platform. While a toggle is
// pending, further calls for the same platform return ErrTogglePending.
func (m *Manager) Toggle(platform model.Platform) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[platform]; !ok {
		return Status{}, ErrUnknownPlatform
	}
	if m.pending[platform] != nil {
		return m.statusLocked(platform), ErrTogglePending
	}
	if m.closed {
		return m.statusLocked(platform), errors.New("connection manager closed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel}
	m.pending[platform] = t
	delete(m.lastErr, platform)
	t.timer = time.AfterFunc(m.delay, func() { m.flip(ctx, platform, t) })

	m.logger.Info("connection toggle started",
		"category", model.EventCategoryConnection, "platform", platform, "delay", m.delay)
	return m.statusLocked(platform), nil
}

// Cancel drops the pending toggle of platform without changing its state.
func (m *Manager) Cancel(platform model.Platform) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[platform]; !ok {
		return ErrUnknownPlatform
	}
	t := m.pending[platform]
	if t == nil {
		return ErrNoPendingToggle
	}
	m.dropLocked(platform, t)
	m.logger.Info("connection toggle cancelled", "category", model.EventCategoryConnection, "platform", platform)
	return nil
}

// Close cancels every pending toggle. Later toggles are refused.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for p, t := range m.pending {
		m.dropLocked(p, t)
	}
}

func (m *Manager) dropLocked(p model.Platform, t *task) {
	t.timer.Stop()
	t.cancel()
	delete(m.pending, p)
}

// flip runs when the toggle delay elapses.
func (m *Manager) flip(ctx context.Context, platform model.Platform, t *task) {
	m.mu.Lock()
	if m.pending[platform] != t {
		m.mu.Unlock()
		return
	}
	prev := m.accounts[platform]
	m.mu.Unlock()

	var (
		next model.SocialAccount
		err  error
	)
	if prev.Connected {
		err = m.connector.Disconnect(ctx, platform)
		next = prev.Disconnected()
	} else {
		var handle string
		handle, err = m.connector.Connect(ctx, platform)
		next = prev.ConnectedAs(handle, m.now())
	}

	m.mu.Lock()
	if m.pending[platform] != t {
		m.mu.Unlock()
		return
	}
	delete(m.pending, platform)
	t.cancel()
	if err != nil {
		m.lastErr[platform] = err.Error()
		m.mu.Unlock()
		m.logger.Warn("connection toggle failed",
			"category", model.EventCategoryConnection, "platform", platform, "error", err)
		return
	}
	m.accounts[platform] = next
	m.mu.Unlock()

	m.logger.Info("connection toggled",
		"category", model.EventCategoryConnection, "platform", platform, "connected", next.Connected)
	m.persist(next)
}

// Sync refreshes the last sync time of a connected account.
func (m *Manager) Sync(platform model.Platform) (Status, error) {
	m.mu.Lock()
	acc, ok := m.accounts[platform]
	if !ok {
		m.mu.Unlock()
		return Status{}, ErrUnknownPlatform
	}
	if !acc.Connected {
		st := m.statusLocked(platform)
		m.mu.Unlock()
		return st, ErrNotConnected
	}
	acc = acc.ConnectedAs(acc.Handle, m.now())
	m.accounts[platform] = acc
	st := m.statusLocked(platform)
	m.mu.Unlock()

	m.persist(acc)
	return st, nil
}

func (m *Manager) persist(acc model.SocialAccount) {
	if m.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.repo.SaveAccount(ctx, acc); err != nil {
		m.logger.Error("failed to save account",
			"category", model.EventCategoryConnection, "platform", acc.Platform, "error", err)
	}
}

// SyncLabel renders a last-sync time relative to now.
func SyncLabel(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}
	if now.Sub(*t) < time.Minute {
		return "Just now"
	}
	return humanize.RelTime(*t, now, "ago", "from now")
}

// normalize enforces that Handle and LastSync are set only while connected.
func normalize(acc model.SocialAccount) model.SocialAccount {
	if !acc.Connected {
		return acc.Disconnected()
	}
	return acc
}
