// Package i18n holds the UI translation bundles.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var localesFS embed.FS

const DefaultLanguage = "en"

// Bundle maps language code to key to translated text.
type Bundle struct {
	messages map[string]map[string]string
}

// Load reads every locales/*.yaml file; the file name is the language code.
func Load() (*Bundle, error) {
	b := &Bundle{messages: map[string]map[string]string{}}
	entries, err := fs.ReadDir(localesFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		data, err := localesFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		msgs := map[string]string{}
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		b.messages[strings.TrimSuffix(name, ".yaml")] = msgs
	}
	if _, ok := b.messages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("missing %s locale", DefaultLanguage)
	}
	return b, nil
}

// T translates key, falling back to English and then to the key itself.
func (b *Bundle) T(lang, key string) string {
	if s, ok := b.messages[lang][key]; ok {
		return s
	}
	if s, ok := b.messages[DefaultLanguage][key]; ok {
		return s
	}
	return key
}

func (b *Bundle) Has(lang string) bool {
	_, ok := b.messages[lang]
	return ok
}
