// internal/theme/manager.go
package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/match"

	"github.com/bethropolis/tidelist/internal/logger"
)

// Manager holds loaded themes and manages the active theme.
type Manager struct {
	themes      map[string]*Theme // Map theme name (lowercase) -> Theme object
	activeTheme *Theme
	themesDir   string
	mutex       sync.RWMutex
}

// NewManager creates a manager holding the built-in themes plus every
// .toml theme found in themesDir (skipped when empty), with initial active.
func NewManager(themesDir, initial string) *Manager {
	mgr := &Manager{
		themes:    make(map[string]*Theme),
		themesDir: themesDir,
	}

	mgr.loadBuiltinThemes()

	if mgr.themesDir != "" {
		if err := mgr.LoadThemesFromDir(); err != nil {
			logger.Errorf("Error loading themes from '%s': %v", mgr.themesDir, err)
		}
	}

	if err := mgr.SetTheme(initial); err != nil {
		logger.Warnf("Initial theme: %v, using %s", err, DevComfortDark.Name)
		mgr.activeTheme = mgr.themes[strings.ToLower(DevComfortDark.Name)]
	}
	logger.Infof("Initial active theme set to: %s", mgr.activeTheme.Name)
	return mgr
}

// loadBuiltinThemes adds themes compiled into the binary.
func (m *Manager) loadBuiltinThemes() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, t := range []*Theme{&DevComfortDark, &DevComfortLight} {
		m.themes[strings.ToLower(t.Name)] = t
		logger.DebugTagf("theme", "Loaded built-in theme: %s", t.Name)
	}
}

// LoadThemesFromDir scans the themes directory and loads .toml files.
// A missing directory is not an error.
func (m *Manager) LoadThemesFromDir() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.themesDir == "" {
		return errors.New("theme directory path is not set")
	}

	files, err := os.ReadDir(m.themesDir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Infof("Theme directory '%s' does not exist. No custom themes loaded.", m.themesDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read theme directory '%s': %w", m.themesDir, err)
	}

	var pending []string
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".toml") {
			continue
		}
		pending = append(pending, filepath.Join(m.themesDir, file.Name()))
	}

	resolve := func(name string) (*Theme, bool) {
		t, ok := m.themes[strings.ToLower(strings.TrimSpace(name))]
		return t, ok
	}

	// A theme may extend another file's theme, so files whose parent is not
	// loaded yet are retried until a pass makes no progress.
	loadedCount := 0
	for len(pending) > 0 {
		var retry []string
		for _, filePath := range pending {
			theme, err := LoadThemeFromFile(filePath, resolve)
			if errors.Is(err, ErrUnknownParent) {
				retry = append(retry, filePath)
				continue
			}
			if err != nil {
				logger.Warnf("Failed to load theme from '%s': %v", filePath, err)
				continue // Skip problematic file
			}

			key := strings.ToLower(theme.Name)
			if existing, ok := m.themes[key]; ok {
				logger.Warnf("Theme '%s' from '%s' overrides existing theme '%s'", theme.Name, filePath, existing.Name)
			}
			m.themes[key] = theme
			loadedCount++
		}
		if len(retry) == len(pending) {
			for _, filePath := range retry {
				logger.Warnf("Failed to load theme from '%s': parent theme not found", filePath)
			}
			break
		}
		pending = retry
	}
	logger.Infof("Loaded %d custom themes.", loadedCount)
	return nil
}

// Current returns the currently active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.activeTheme == nil {
		return &Theme{Name: "NilFallback", Styles: map[string]tcell.Style{"Default": tcell.StyleDefault}}
	}
	return m.activeTheme
}

// SetTheme sets the active theme by name (case-insensitive).
func (m *Manager) SetTheme(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	theme, ok := m.themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	if m.activeTheme != theme {
		m.activeTheme = theme
		logger.Infof("Active theme set to: %s", theme.Name)
	}
	return nil
}

// ListThemes returns the sorted names of loaded themes matching pattern, a
// case-insensitive glob ("*" and "?"). An empty pattern matches all.
func (m *Manager) ListThemes(pattern string) []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	pattern = strings.ToLower(pattern)
	names := make([]string, 0, len(m.themes))
	for key, theme := range m.themes {
		if pattern == "" || match.Match(key, pattern) {
			names = append(names, theme.Name)
		}
	}
	slices.Sort(names)
	return names
}

// GetTheme returns a specific theme by name (case-insensitive).
func (m *Manager) GetTheme(name string) (*Theme, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	theme, ok := m.themes[strings.ToLower(name)]
	return theme, ok
}
