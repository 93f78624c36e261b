// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package preview owns the rotation cursor over the shared Hadith collection.
package preview

import (
	"strings"
	"sync"
	"time"

	"github.com/olegiv/noorshare/internal/content"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/rotation"
)

// Layout is the aspect ratio a post is previewed in.
type Layout string

// Supported layouts.
const (
	LayoutPortrait  Layout = "portrait"
	LayoutLandscape Layout = "landscape"
)

// ParseLayout returns the named layout, falling back to portrait.
func ParseLayout(s string) Layout {
	if Layout(strings.ToLower(strings.TrimSpace(s))) == LayoutLandscape {
		return LayoutLandscape
	}
	return LayoutPortrait
}

// Size returns the pixel dimensions of the layout.
func (l Layout) Size() (width, height int) {
	if l == LayoutLandscape {
		return 1920, 1080
	}
	return 1080, 1920
}

// Label returns the short format label shown above the preview.
func (l Layout) Label() string {
	if l == LayoutLandscape {
		return "Post (16:9)"
	}
	return "Story (9:16)"
}

// Snapshot is a read-only view of the cursor at one instant.
type Snapshot struct {
	Hadith     model.Hadith `json:"hadith"`
	Index      int          `json:"index"`
	Total      int          `json:"total"`
	CanAdvance bool         `json:"can_advance"`
	Empty      bool         `json:"empty"`
}

// Position is the 1-based position shown to users ("2 / 5").
func (s Snapshot) Position() int {
	if s.Empty {
		return 0
	}
	return s.Index + 1
}

// Preview tracks which Hadith is currently shown.
type Preview struct {
	mu    sync.Mutex
	index int
	items *content.Collection
	now   func() time.Time
}

// New creates a preview bound to items. The cursor starts at today's index and
// is recomputed for today whenever the collection grows or shrinks.
func New(items *content.Collection, now func() time.Time) *Preview {
	if now == nil {
		now = time.Now
	}
	p := &Preview{items: items, now: now}
	p.reset(items.Len())
	items.OnSizeChange(p.reset)
	return p
}

func (p *Preview) reset(size int) {
	idx := rotation.DailyIndex(size, p.now())
	p.mu.Lock()
	p.index = idx
	p.mu.Unlock()
}

// Current returns the Hadith under the cursor.
func (p *Preview) Current() Snapshot {
	p.mu.Lock()
	idx := p.index
	p.mu.Unlock()

	list := p.items.List()
	total := len(list)
	if total == 0 {
		return Snapshot{Empty: true}
	}
	// The collection may have shrunk between the hook and this read.
	if idx >= total {
		idx = rotation.DailyIndex(total, p.now())
	}
	return Snapshot{
		Hadith:     list[idx],
		Index:      idx,
		Total:      total,
		CanAdvance: total > 1,
	}
}

// Next moves the cursor to the following Hadith, wrapping at the end.
func (p *Preview) Next() Snapshot {
	total := p.items.Len()
	p.mu.Lock()
	if p.index >= total {
		p.index = rotation.DailyIndex(total, p.now())
	}
	p.index = rotation.Advance(p.index, total)
	p.mu.Unlock()
	return p.Current()
}
