// Package settings keeps the process-wide display preferences and persists
// them to a YAML file on every change.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	Themes    = []string{"light", "dark"}
	Languages = []string{"en", "af", "zu"}

	ErrUnknownTheme    = errors.New("unknown theme")
	ErrUnknownLanguage = errors.New("unknown language")
)

type values struct {
	Theme    string `yaml:"theme"`
	Language string `yaml:"language"`
}

type Settings struct {
	mu   sync.RWMutex
	path string
	v    values
}

// Load reads the settings file at path. A missing file yields the defaults;
// unknown values in the file are replaced by the defaults.
func Load(path string) (*Settings, error) {
	s := &Settings{path: path, v: values{Theme: "light", Language: "en"}}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	var v values
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if slices.Contains(Themes, v.Theme) {
		s.v.Theme = v.Theme
	}
	if slices.Contains(Languages, v.Language) {
		s.v.Language = v.Language
	}
	return s, nil
}

func (s *Settings) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.Theme
}

func (s *Settings) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.Language
}

func (s *Settings) SetTheme(theme string) error {
	if !slices.Contains(Themes, theme) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	return s.update(func(v *values) { v.Theme = theme })
}

func (s *Settings) SetLanguage(lang string) error {
	if !slices.Contains(Languages, lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return s.update(func(v *values) { v.Language = lang })
}

// update applies fn and writes the file; the in-memory value only changes
// once the write succeeded.
func (s *Settings) update(fn func(*values)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.v
	fn(&next)
	if err := save(s.path, next); err != nil {
		return err
	}
	s.v = next
	return nil
}

func save(path string, v values) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
