package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "light", s.Theme())
	assert.Equal(t, "en", s.Language())
}

func TestSettersPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.SetTheme("dark"))
	require.NoError(t, s.SetLanguage("zu"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", reloaded.Theme())
	assert.Equal(t, "zu", reloaded.Language())
}

func TestSettersRejectUnknownValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := Load(path)
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetTheme("sepia"), ErrUnknownTheme)
	assert.ErrorIs(t, s.SetLanguage("fr"), ErrUnknownLanguage)
	assert.Equal(t, "light", s.Theme())
	assert.Equal(t, "en", s.Language())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadIgnoresUnknownStoredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon\nlanguage: af\n"), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "light", s.Theme())
	assert.Equal(t, "af", s.Language())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}
