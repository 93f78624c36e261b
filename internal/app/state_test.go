package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/schedule"
	"github.com/olegiv/noorshare/internal/testutil"
)

var testNow = time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

func newTestState(t *testing.T, gen *testutil.FakeGenerator) *State {
	t.Helper()

	opts := Options{Now: func() time.Time { return testNow }}
	if gen != nil {
		opts.Generator = gen
	}
	s, err := New(context.Background(), testutil.TestConfig(), testutil.SeededDB(t, true), testutil.TestLoggerSilent(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew_LoadsSeededState(t *testing.T) {
	s := newTestState(t, nil)

	assert.Equal(t, 3, s.Hadiths.Len())
	assert.False(t, s.Preview.Current().Empty)
	assert.Equal(t, "memory", s.CacheKind)
	assert.False(t, s.Captions.Enabled())

	accounts := s.Connections.Accounts()
	require.Len(t, accounts, len(model.Platforms))
	for _, acc := range accounts {
		assert.True(t, acc.Connected, "%s should be connected by the seed", acc.Platform)
	}

	assert.Equal(t, schedule.DefaultSettings(), s.Scheduler.Settings())
	assert.Empty(t, s.History.List())
}

func TestStartClose(t *testing.T) {
	s := newTestState(t, nil)
	require.NoError(t, s.Start())
	require.NoError(t, s.Close())
}

func TestRegenerateCaption(t *testing.T) {
	gen := testutil.NewFakeGenerator("first caption")
	s := newTestState(t, gen)
	ctx := context.Background()

	post, err := s.Publisher.Publish(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, "first caption", post.Caption)

	gen.SetReply("second caption", nil)
	updated, err := s.RegenerateCaption(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "second caption", updated.Caption)

	stored, err := s.History.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "second caption", stored.Caption)
}

func TestRegenerateCaption_DeletedHadith(t *testing.T) {
	gen := testutil.NewFakeGenerator("caption")
	s := newTestState(t, gen)
	ctx := context.Background()

	post, err := s.Publisher.Publish(ctx, testNow)
	require.NoError(t, err)

	removed, err := s.Hadiths.Delete(ctx, post.HadithID)
	require.NoError(t, err)
	require.True(t, removed)

	gen.SetReply("rebuilt", nil)
	updated, err := s.RegenerateCaption(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "rebuilt", updated.Caption)
}

func TestRegenerateCaption_UnknownPost(t *testing.T) {
	s := newTestState(t, nil)

	_, err := s.RegenerateCaption(context.Background(), "missing")
	assert.ErrorIs(t, err, schedule.ErrPostNotFound)
}

func TestStats(t *testing.T) {
	s := newTestState(t, testutil.NewFakeGenerator("caption"))
	ctx := context.Background()

	_, err := s.Publisher.Publish(ctx, testNow)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 1, stats.TotalPosts)
	assert.Equal(t, 1, stats.PostsThisMonth)
	assert.Equal(t, 0, stats.FailedPosts)
	assert.Equal(t, 0, stats.ActiveSchedules)
	assert.Len(t, stats.Platforms, len(model.Platforms))
	assert.Nil(t, stats.Next, "disabled schedule has no next post")

	settings := schedule.DefaultSettings()
	settings.Enabled = true
	require.NoError(t, s.Scheduler.Update(ctx, settings))

	stats = s.Stats()
	assert.Equal(t, 1, stats.ActiveSchedules)
	require.NotNil(t, stats.Next)
	assert.Equal(t, time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC), stats.Next.At)
	assert.NotNil(t, stats.Next.Hadith)
}
