// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package app

import "github.com/olegiv/noorshare/internal/analytics"

// Stats computes the dashboard summary at the current time.
func (s *State) Stats() analytics.Stats {
	now := s.Now()
	settings := s.Scheduler.Settings()

	in := analytics.Input{
		Posts:      s.History.List(),
		ActiveJobs: s.Scheduler.ActiveJobs(),
		Platforms:  settings.Platforms,
		Now:        now,
	}
	for _, st := range s.Connections.Accounts() {
		in.Accounts = append(in.Accounts, st.SocialAccount)
	}
	if next, ok := s.Scheduler.NextRun(now); ok {
		in.NextRun = next
		if snap := s.Preview.Current(); !snap.Empty {
			h := snap.Hadith
			in.Upcoming = &h
		}
	}
	return analytics.Compute(in)
}
