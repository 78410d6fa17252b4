// Package clipboard holds the yank register, optionally mirrored to the
// system clipboard.
package clipboard

import (
	"errors"
	"strings"
	"sync"

	sysclip "github.com/atotto/clipboard"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/logger"
)

// ErrEmpty is returned by Get when nothing has been yanked.
var ErrEmpty = errors.New("clipboard empty")

// Manager handles yank and paste of entries.
type Manager struct {
	mu       sync.Mutex
	register *entry.Entry
	system   bool

	// System clipboard access, replaced in tests
	writeAll func(string) error
	readAll  func() (string, error)
}

// NewManager creates a clipboard manager. With useSystem, yanks are also
// written to the system clipboard and pastes prefer its content.
func NewManager(useSystem bool) *Manager {
	if useSystem && sysclip.Unsupported {
		logger.Warnf("ClipboardManager: system clipboard unsupported, using internal register")
		useSystem = false
	}
	return &Manager{
		system:   useSystem,
		writeAll: sysclip.WriteAll,
		readAll:  sysclip.ReadAll,
	}
}

// UsesSystem reports whether the system clipboard is mirrored.
func (m *Manager) UsesSystem() bool {
	return m.system
}

// Yank stores e in the register.
func (m *Manager) Yank(e entry.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.register = &e
	logger.DebugTagf("clipboard", "ClipboardManager: Yanked %q", e.Text)

	if m.system {
		if err := m.writeAll(e.String()); err != nil {
			logger.Warnf("ClipboardManager: system clipboard write failed: %v", err)
		}
	}
}

// Get returns the entry to paste. The system clipboard wins when it is
// enabled and holds a single non-empty line.
func (m *Manager) Get() (entry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.system {
		text, err := m.readAll()
		switch {
		case err != nil:
			logger.Warnf("ClipboardManager: system clipboard read failed: %v", err)
		case text != "" && !strings.Contains(text, "\n"):
			return entry.Parse(text), nil
		}
	}
	if m.register == nil {
		return entry.Entry{}, ErrEmpty
	}
	return *m.register, nil
}
