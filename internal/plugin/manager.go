// internal/plugin/manager.go
package plugin

import (
	"fmt"
	"sync"

	"github.com/bethropolis/tidelist/internal/logger"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
type Manager struct {
	mu          sync.RWMutex
	plugins     []Plugin // Registration order
	byName      map[string]Plugin
	initialized []Plugin
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		byName: make(map[string]Plugin),
	}
}

// Register adds a plugin instance to the manager.
// This should be called before InitializePlugins.
func (m *Manager) Register(plugin Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := plugin.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.byName[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}

	m.plugins = append(m.plugins, plugin)
	m.byName[name] = plugin
	logger.Debugf("Plugin Manager: Registered plugin '%s'", name)
	return nil
}

// InitializePlugins calls Initialize on every registered plugin in
// registration order. Plugins whose config table sets enabled = false are
// skipped. A failing plugin is logged and the rest still initialize.
func (m *Manager) InitializePlugins(api ListAPI) {
	m.mu.RLock()
	pluginsToInit := make([]Plugin, len(m.plugins))
	copy(pluginsToInit, m.plugins)
	m.mu.RUnlock() // Unlock before calling plugin Initialize methods

	logger.Infof("Plugin Manager: Initializing %d plugins...", len(pluginsToInit))
	for _, plugin := range pluginsToInit {
		if enabled, ok := api.GetPluginConfigValue(plugin.Name(), "enabled"); ok {
			if b, isBool := enabled.(bool); isBool && !b {
				logger.Infof("Plugin Manager: Plugin '%s' disabled by config", plugin.Name())
				continue
			}
		}
		if err := plugin.Initialize(api); err != nil {
			logger.Errorf("Plugin Manager: ERROR initializing plugin '%s': %v", plugin.Name(), err)
			continue
		}
		m.mu.Lock()
		m.initialized = append(m.initialized, plugin)
		m.mu.Unlock()
		logger.Debugf("Plugin Manager: Successfully initialized plugin '%s'", plugin.Name())
	}
}

// ShutdownPlugins calls Shutdown on initialized plugins in reverse order.
func (m *Manager) ShutdownPlugins() {
	m.mu.Lock()
	pluginsToShutdown := m.initialized
	m.initialized = nil
	m.mu.Unlock()

	logger.Debugf("Plugin Manager: Shutting down %d plugins...", len(pluginsToShutdown))
	for i := len(pluginsToShutdown) - 1; i >= 0; i-- {
		plugin := pluginsToShutdown[i]
		if err := plugin.Shutdown(); err != nil {
			logger.Errorf("Plugin Manager: ERROR shutting down plugin '%s': %v", plugin.Name(), err)
		}
	}
}

// GetPlugin returns a registered plugin by name (e.g., for inter-plugin communication). Use cautiously.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.byName[name]
	return p, exists
}

// Initialized returns the names of successfully initialized plugins.
func (m *Manager) Initialized() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.initialized))
	for i, p := range m.initialized {
		names[i] = p.Name()
	}
	return names
}
