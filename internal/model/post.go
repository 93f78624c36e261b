// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

// Post statuses.
const (
	PostStatusScheduled PostStatus = "Scheduled"
	PostStatusPosted    PostStatus = "Posted"
	PostStatusFailed    PostStatus = "Failed"
)

// Post is one entry of the posting history.
type Post struct {
	ID           string     `json:"id"`
	HadithID     string     `json:"hadith_id"`
	HadithSource string     `json:"hadith_source"`
	Translation  string     `json:"translation"`
	Platforms    []Platform `json:"platforms"`
	Status       PostStatus `json:"status"`
	Caption      string     `json:"caption,omitempty"`
	Error        string     `json:"error,omitempty"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	PostedAt     *time.Time `json:"posted_at,omitempty"`
	Likes        int        `json:"likes"`
	Shares       int        `json:"shares"`
}

// HasPlatform reports whether the post targeted p.
func (p Post) HasPlatform(platform Platform) bool {
	for _, pl := range p.Platforms {
		if pl == platform {
			return true
		}
	}
	return false
}
