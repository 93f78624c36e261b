// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content maintains the ordered Hadith collection.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/noorshare/internal/model"
)

// Errors returned by Collection.
var (
	ErrDuplicateID = errors.New("hadith id already exists")
	ErrEmptyID     = errors.New("hadith id is required")
	ErrNotFound    = errors.New("hadith not found")
)

// Repository persists the collection. The in-memory order is authoritative;
// ListHadiths must return entries in insertion order.
type Repository interface {
	ListHadiths(ctx context.Context) ([]model.Hadith, error)
	CreateHadith(ctx context.Context, h model.Hadith) error
	DeleteHadith(ctx context.Context, id string) error
}

// SizeFunc is notified with the new collection size after every add or delete.
type SizeFunc func(size int)

// Collection is an ordered, insertion-preserving list of hadiths with unique ids.
// Every mutation swaps the backing slice, so slices handed out by List stay valid.
type Collection struct {
	// writeMu is held from a mutation through its notification so listeners
	// see sizes in mutation order. Listeners must not mutate the collection.
	writeMu   sync.Mutex
	mu        sync.RWMutex
	items     []model.Hadith
	repo      Repository
	listeners []SizeFunc
	newID     func() string
	now       func() time.Time
	logger    *slog.Logger
}

// NewCollection creates an empty collection. repo may be nil for a memory-only collection.
func NewCollection(repo Repository, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		repo:   repo,
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger,
	}
}

// Load replaces the in-memory items with the repository contents.
func (c *Collection) Load(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	items, err := c.repo.ListHadiths(ctx)
	if err != nil {
		return fmt.Errorf("loading hadiths: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	c.items = items
	size := len(items)
	c.mu.Unlock()

	c.notify(size)
	return nil
}

// OnSizeChange registers fn to run after every add or delete.
func (c *Collection) OnSizeChange(fn SizeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Create validates the input, assigns a fresh id and appends the hadith.
func (c *Collection) Create(ctx context.Context, in HadithInput) (model.Hadith, error) {
	in.Normalize()
	if errs := in.Validate(); errs != nil {
		return model.Hadith{}, errs
	}

	h := model.Hadith{
		ID:          c.newID(),
		ArabicText:  in.ArabicText,
		Translation: in.Translation,
		Source:      in.Source,
		Grade:       in.Grade,
		CreatedAt:   c.now().UTC(),
	}
	if err := c.Add(ctx, h); err != nil {
		return model.Hadith{}, err
	}
	return h, nil
}

// Add appends h to the end of the collection.
func (c *Collection) Add(ctx context.Context, h model.Hadith) error {
	if h.ID == "" {
		return ErrEmptyID
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = c.now().UTC()
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	if indexOf(c.items, h.ID) >= 0 {
		c.mu.Unlock()
		return ErrDuplicateID
	}
	if c.repo != nil {
		if err := c.repo.CreateHadith(ctx, h); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("storing hadith: %w", err)
		}
	}

	next := make([]model.Hadith, len(c.items), len(c.items)+1)
	copy(next, c.items)
	c.items = append(next, h)
	size := len(c.items)
	c.mu.Unlock()

	c.logger.Info("hadith added", "category", model.EventCategoryContent, "hadith_id", h.ID, "source", h.Source)
	c.notify(size)
	return nil
}

// Delete removes the hadith with the given id. It reports false when no entry matched.
func (c *Collection) Delete(ctx context.Context, id string) (bool, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	idx := indexOf(c.items, id)
	if idx < 0 {
		c.mu.Unlock()
		return false, nil
	}
	if c.repo != nil {
		if err := c.repo.DeleteHadith(ctx, id); err != nil {
			c.mu.Unlock()
			return false, fmt.Errorf("deleting hadith: %w", err)
		}
	}

	next := make([]model.Hadith, 0, len(c.items)-1)
	next = append(next, c.items[:idx]...)
	next = append(next, c.items[idx+1:]...)
	c.items = next
	size := len(next)
	c.mu.Unlock()

	c.logger.Info("hadith deleted", "category", model.EventCategoryContent, "hadith_id", id)
	c.notify(size)
	return true, nil
}

// List returns the hadiths in insertion order. The slice must not be modified.
func (c *Collection) List() []model.Hadith {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// NewestFirst returns a copy of the hadiths, most recently added first.
func (c *Collection) NewestFirst() []model.Hadith {
	items := c.List()
	out := make([]model.Hadith, len(items))
	for i, h := range items {
		out[len(items)-1-i] = h
	}
	return out
}

// Get returns the hadith with the given id.
func (c *Collection) Get(id string) (model.Hadith, bool) {
	items := c.List()
	if idx := indexOf(items, id); idx >= 0 {
		return items[idx], true
	}
	return model.Hadith{}, false
}

// At returns the hadith at position i in insertion order.
func (c *Collection) At(i int) (model.Hadith, bool) {
	items := c.List()
	if i < 0 || i >= len(items) {
		return model.Hadith{}, false
	}
	return items[i], true
}

// Len returns the number of hadiths.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection) notify(size int) {
	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(size)
	}
}

func indexOf(items []model.Hadith, id string) int {
	for i, h := range items {
		if h.ID == id {
			return i
		}
	}
	return -1
}
