// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package app

import (
	"context"

	"github.com/olegiv/noorshare/internal/model"
)

// RegenerateCaption writes a fresh caption for a recorded post, bypassing the
// cache. A Hadith that has since been deleted is rebuilt from the copy kept
// on the post.
func (s *State) RegenerateCaption(ctx context.Context, postID string) (model.Post, error) {
	post, err := s.History.Get(postID)
	if err != nil {
		return model.Post{}, err
	}

	hadith, ok := s.Hadiths.Get(post.HadithID)
	if !ok {
		hadith = model.Hadith{ID: post.HadithID, Source: post.HadithSource, Translation: post.Translation}
	}
	platform := model.PlatformInstagram
	if len(post.Platforms) > 0 {
		platform = post.Platforms[0]
	}

	text := s.Captions.Regenerate(ctx, hadith, string(platform))
	return s.History.SetCaption(ctx, postID, text)
}
