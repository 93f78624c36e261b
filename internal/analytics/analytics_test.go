package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/noorshare/internal/model"
)

func TestCompute(t *testing.T) {
	// Friday 17 April 2026, 12:00.
	now := time.Date(2026, 4, 17, 12, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	posts := []model.Post{
		{Status: model.PostStatusPosted, ScheduledFor: day(0), Platforms: []model.Platform{model.PlatformFacebook, model.PlatformInstagram}, Likes: 10, Shares: 2},
		{Status: model.PostStatusPosted, ScheduledFor: day(0), Platforms: []model.Platform{model.PlatformFacebook}},
		{Status: model.PostStatusPosted, ScheduledFor: day(-6), Platforms: []model.Platform{model.PlatformWhatsApp}},
		{Status: model.PostStatusPosted, ScheduledFor: day(-7), Platforms: []model.Platform{model.PlatformWhatsApp}},
		{Status: model.PostStatusFailed, ScheduledFor: day(-1), Platforms: []model.Platform{model.PlatformInstagram}},
		{Status: model.PostStatusPosted, ScheduledFor: day(-20), Platforms: []model.Platform{model.PlatformFacebook}, Likes: 5},
	}
	next := now.Add(6 * time.Hour)
	upcoming := &model.Hadith{ID: "h1", Source: "Sahih Muslim"}

	stats := Compute(Input{
		Posts: posts,
		Accounts: []model.SocialAccount{
			{Platform: model.PlatformFacebook, Connected: true, Handle: "Noor Daily Page"},
			{Platform: model.PlatformWhatsApp},
		},
		ActiveJobs: 2,
		NextRun:    next,
		Platforms:  []model.Platform{model.PlatformFacebook},
		Upcoming:   upcoming,
		Now:        now,
	})

	assert.Equal(t, 6, stats.TotalPosts)
	assert.Equal(t, 5, stats.PostsThisMonth)
	assert.Equal(t, 1, stats.FailedPosts)
	assert.Equal(t, 17, stats.TotalReach)
	assert.Equal(t, 2, stats.ActiveSchedules)
	assert.InDelta(t, 83.33, stats.SuccessRate(), 0.01)

	require.Len(t, stats.LastSevenDays, 7)
	assert.Equal(t, "Sat", stats.LastSevenDays[0].Day)
	assert.Equal(t, "Fri", stats.LastSevenDays[6].Day)
	assert.Equal(t, 1, stats.LastSevenDays[0].Counts[model.PlatformWhatsApp])
	assert.Equal(t, 2, stats.LastSevenDays[6].Counts[model.PlatformFacebook])
	assert.Equal(t, 1, stats.LastSevenDays[6].Counts[model.PlatformInstagram])
	assert.Equal(t, 3, stats.LastSevenDays[6].Total())
	assert.Zero(t, stats.LastSevenDays[5].Total(), "failed posts are not counted")
	assert.Equal(t, 2, stats.MaxDayCount)

	require.NotNil(t, stats.Next)
	assert.Equal(t, next, stats.Next.At)
	assert.Equal(t, upcoming, stats.Next.Hadith)

	require.Len(t, stats.Platforms, 2)
	assert.True(t, stats.Platforms[0].Connected)
	assert.False(t, stats.Platforms[1].Connected)
}

func TestCompute_Empty(t *testing.T) {
	stats := Compute(Input{Now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	assert.Zero(t, stats.TotalPosts)
	assert.Zero(t, stats.SuccessRate())
	assert.Nil(t, stats.Next)
	assert.Len(t, stats.LastSevenDays, 7)
}
