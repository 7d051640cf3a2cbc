// Package prefs persists local client preferences (language, theme, viewer
// defaults) in a small YAML file next to the client. Preferences are local
// to a machine and never round-trip through the storage service.
package prefs

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preferences holds client-local settings.
type Preferences struct {
	Language       string `yaml:"language"`
	DarkTheme      bool   `yaml:"dark_theme"`
	PreviewDefault bool   `yaml:"preview_default"`
}

// Defaults returns the preferences used when no file exists yet.
func Defaults() Preferences {
	return Preferences{
		Language:       "DE",
		DarkTheme:      false,
		PreviewDefault: true,
	}
}

// Store loads preferences once and writes them back on every change.
type Store struct {
	path  string
	prefs Preferences
}

// Load reads the preferences file. A missing or corrupt file yields the
// defaults; it is never an error.
func Load(path string) *Store {
	s := &Store{path: path, prefs: Defaults()}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return s
	}
	if p.Language == "" {
		p.Language = Defaults().Language
	}
	s.prefs = p
	return s
}

// Get returns the current preferences.
func (s *Store) Get() Preferences {
	return s.prefs
}

// Set replaces the preferences and writes them to disk.
func (s *Store) Set(p Preferences) error {
	s.prefs = p
	return s.save()
}

func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
