// Package prefs stores the user's display preferences in
// ~/.config/frame/prefs.toml. Unlike the config file they are written back
// by the client, for example when the theme is cycled.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/frame/internal/config"
)

// Prefs are the user's display preferences.
type Prefs struct {
	Theme         string `toml:"theme"`
	ConfirmDelete bool   `toml:"confirm_delete"`
	GridColumns   int    `toml:"grid_columns"`
}

const (
	defaultPrefsPath   = "~/.config/frame/prefs.toml"
	defaultTheme       = "Mocha"
	defaultGridColumns = 3
	maxGridColumns     = 6
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, ConfirmDelete: true, GridColumns: defaultGridColumns}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads the preferences at path. A missing, unreadable or malformed
// file yields the defaults rather than an error; out-of-range values are
// replaced individually.
func Load(path string) (Prefs, error) {
	p := Default()
	resolved, err := resolvePath(path)
	if err != nil {
		return p, nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p, nil
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p.normalized(), nil
}

func (p Prefs) normalized() Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.GridColumns < 1 || p.GridColumns > maxGridColumns {
		p.GridColumns = defaultGridColumns
	}
	return p
}

// Save writes p to path, creating the directory when needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
