// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics derives dashboard statistics from the posting history.
package analytics

import (
	"time"

	"github.com/olegiv/noorshare/internal/model"
)

// Input is everything the dashboard statistics are computed from.
type Input struct {
	Posts      []model.Post
	Accounts   []model.SocialAccount
	ActiveJobs int
	// NextRun is zero when nothing is scheduled.
	NextRun   time.Time
	Platforms []model.Platform // scheduled platforms
	Upcoming  *model.Hadith    // Hadith the next post will use
	Now       time.Time
}

// DayCount is the number of posts per platform on one day.
type DayCount struct {
	Day    string                 `json:"day"`
	Date   time.Time              `json:"date"`
	Counts map[model.Platform]int `json:"counts"`
}

// Total returns the posts of the day across platforms.
func (d DayCount) Total() int {
	n := 0
	for _, c := range d.Counts {
		n += c
	}
	return n
}

// NextPost describes the upcoming scheduled post.
type NextPost struct {
	At        time.Time        `json:"at"`
	Platforms []model.Platform `json:"platforms"`
	Hadith    *model.Hadith    `json:"hadith,omitempty"`
}

// PlatformStatus is the connection state shown in the system status panel.
type PlatformStatus struct {
	Platform  model.Platform `json:"platform"`
	Connected bool           `json:"connected"`
	Handle    string         `json:"handle,omitempty"`
}

// Stats is the dashboard summary.
type Stats struct {
	TotalPosts      int              `json:"total_posts"`
	PostsThisMonth  int              `json:"posts_this_month"`
	FailedPosts     int              `json:"failed_posts"`
	TotalReach      int              `json:"total_reach"`
	ActiveSchedules int              `json:"active_schedules"`
	LastSevenDays   []DayCount       `json:"last_seven_days"`
	MaxDayCount     int              `json:"max_day_count"`
	Next            *NextPost        `json:"next,omitempty"`
	Platforms       []PlatformStatus `json:"platforms"`
}

// SuccessRate returns the share of posts that did not fail, as a percentage.
func (s Stats) SuccessRate() float64 {
	if s.TotalPosts == 0 {
		return 0
	}
	return float64(s.TotalPosts-s.FailedPosts) / float64(s.TotalPosts) * 100
}

// Compute builds the dashboard statistics. Day boundaries use in.Now's location.
func Compute(in Input) Stats {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	firstDay := today.AddDate(0, 0, -6)

	stats := Stats{
		TotalPosts:      len(in.Posts),
		ActiveSchedules: in.ActiveJobs,
		LastSevenDays:   make([]DayCount, 7),
	}
	for i := range stats.LastSevenDays {
		d := firstDay.AddDate(0, 0, i)
		stats.LastSevenDays[i] = DayCount{
			Day:    d.Weekday().String()[:3],
			Date:   d,
			Counts: make(map[model.Platform]int, len(model.Platforms)),
		}
	}

	for _, p := range in.Posts {
		at := p.ScheduledFor.In(loc)
		if p.Status == model.PostStatusFailed {
			stats.FailedPosts++
		}
		if at.Year() == now.Year() && at.Month() == now.Month() {
			stats.PostsThisMonth++
		}
		stats.TotalReach += p.Likes + p.Shares

		if p.Status != model.PostStatusPosted || at.Before(firstDay) || !at.Before(today.AddDate(0, 0, 1)) {
			continue
		}
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)
		idx := daysBetween(firstDay, day)
		for _, pl := range p.Platforms {
			stats.LastSevenDays[idx].Counts[pl]++
		}
	}

	for _, d := range stats.LastSevenDays {
		for _, c := range d.Counts {
			if c > stats.MaxDayCount {
				stats.MaxDayCount = c
			}
		}
	}

	if !in.NextRun.IsZero() {
		stats.Next = &NextPost{
			At:        in.NextRun,
			Platforms: in.Platforms,
			Hadith:    in.Upcoming,
		}
	}

	for _, acc := range in.Accounts {
		stats.Platforms = append(stats.Platforms, PlatformStatus{
			Platform:  acc.Platform,
			Connected: acc.Connected,
			Handle:    acc.Handle,
		})
	}
	return stats
}

// daysBetween counts calendar days from a to b, both local midnights.
func daysBetween(a, b time.Time) int {
	n := 0
	for d := a; d.Before(b); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}
