// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/olegiv/noorshare/internal/model"
)

// ErrPostNotFound is returned for an unknown post id.
var ErrPostNotFound = errors.New("post not found")

// PostRepository persists the posting history.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	CreatePost(ctx context.Context, p model.Post) error
	UpdatePostCaption(ctx context.Context, id, caption string) error
}

// History is the posting history, newest first.
type History struct {
	mu    sync.RWMutex
	posts []model.Post
	repo  PostRepository
}

// NewHistory creates an empty history. repo may be nil.
func NewHistory(repo PostRepository) *History {
	return &History{repo: repo}
}

// Load replaces the history with the repository contents.
func (h *History) Load(ctx context.Context) error {
	if h.repo == nil {
		return nil
	}
	posts, err := h.repo.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("loading posts: %w", err)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].ScheduledFor.After(posts[j].ScheduledFor)
	})

	h.mu.Lock()
	h.posts = posts
	h.mu.Unlock()
	return nil
}

// Record stores p as the newest post.
func (h *History) Record(ctx context.Context, p model.Post) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.repo != nil {
		if err := h.repo.CreatePost(ctx, p); err != nil {
			return fmt.Errorf("storing post: %w", err)
		}
	}
	next := make([]model.Post, 0, len(h.posts)+1)
	next = append(next, p)
	h.posts = append(next, h.posts...)
	return nil
}

// List returns every post, newest first. The slice must not be modified.
func (h *History) List() []model.Post {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.posts
}

// Get returns the post with the given id.
func (h *History) Get(id string) (model.Post, error) {
	for _, p := range h.List() {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Post{}, ErrPostNotFound
}

// SetCaption replaces the caption of a post.
func (h *History) SetCaption(ctx context.Context, id, caption string) (model.Post, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := -1
	for i, p := range h.posts {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Post{}, ErrPostNotFound
	}
	if h.repo != nil {
		if err := h.repo.UpdatePostCaption(ctx, id, caption); err != nil {
			return model.Post{}, fmt.Errorf("updating caption: %w", err)
		}
	}

	next := make([]model.Post, len(h.posts))
	copy(next, h.posts)
	next[idx].Caption = caption
	h.posts = next
	return next[idx], nil
}
