package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init(nil))

	assert.Positive(t, TranslationCount("en"))
	assert.Equal(t, TranslationCount("en"), TranslationCount("ar"))
	assert.Empty(t, MissingKeys("ar"), "Arabic catalog is missing keys")
}

func TestT(t *testing.T) {
	require.NoError(t, Init(nil))

	tests := []struct {
		lang string
		key  string
		args []any
		want string
	}{
		{"en", "nav.dashboard", nil, "Dashboard"},
		{"ar", "nav.dashboard", nil, "لوحة التحكم"},
		{"en", "preview.position", []any{2, 3}, "2 of 3"},
		{"ar", "preview.position", []any{2, 3}, "2 من 3"},
		{"de", "conn.connect", nil, "Connect"},
		{"en", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, T(tt.lang, tt.key, tt.args...))
		})
	}
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "rtl", Direction("ar"))
	assert.Equal(t, "rtl", Direction("AR"))
	assert.Equal(t, "ltr", Direction("en"))
	assert.Equal(t, "ltr", Direction(""))
}

func TestName(t *testing.T) {
	require.NoError(t, Init(nil))
	assert.Equal(t, "English", Name("en"))
	assert.Equal(t, "العربية", Name("ar"))
	assert.Equal(t, "xx", Name("xx"))
}

func TestMatchLanguage(t *testing.T) {
	require.NoError(t, Init(nil))

	tests := []struct {
		input string
		want  string
	}{
		{"en", "en"},
		{"ar", "ar"},
		{"en-US", "en"},
		{"ar-EG", "ar"},
		{"de", "en"},
		{"", "en"},
		{"en-US, ar;q=0.9", "en"},
		{"ar-SA, en;q=0.8", "ar"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLanguage(tt.input))
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("AR"))
	assert.False(t, IsSupported("ru"))
}
