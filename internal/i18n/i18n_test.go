package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAllLanguages(t *testing.T) {
	b, err := Load()
	require.NoError(t, err)

	for _, lang := range []string{"en", "af", "zu"} {
		assert.True(t, b.Has(lang), lang)
	}
	assert.False(t, b.Has("fr"))
}

func TestTranslate(t *testing.T) {
	b, err := Load()
	require.NoError(t, err)

	tests := []struct {
		lang, key, want string
	}{
		{"en", "clients", "Clients"},
		{"af", "clients", "Kliënte"},
		{"zu", "map", "Imephu"},
		{"fr", "clients", "Clients"},
		{"af", "noSuchKey", "noSuchKey"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, b.T(tt.lang, tt.key))
		})
	}
}

func TestBundlesShareKeys(t *testing.T) {
	b, err := Load()
	require.NoError(t, err)

	for key := range b.messages["en"] {
		for _, lang := range []string{"af", "zu"} {
			_, ok := b.messages[lang][key]
			assert.True(t, ok, "%s missing %s", lang, key)
		}
	}
}
