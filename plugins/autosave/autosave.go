package autosave

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/tidelist/internal/config"
	"github.com/bethropolis/tidelist/internal/core/history"
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/plugin"
	"github.com/bethropolis/tidelist/internal/utils"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	// Default configuration values
	defaultEnabled  = false
	defaultDelay    = 2 * time.Second
	autosaveName    = "autosave.json"
	compoundBackoff = 500 * time.Millisecond
)

// AutoSave plugin writes a snapshot of the list and its history a short
// while after the last change.
type AutoSave struct {
	api plugin.ListAPI

	// Configuration
	mutex   sync.RWMutex // Protects access to config fields below
	enabled bool
	delay   time.Duration
	path    string

	// Runtime state
	debouncer utils.Debouncer
	subs      []event.SubscriptionID
	saves     int
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		// Initialize with defaults, config will override in Initialize
		enabled: defaultEnabled,
		delay:   defaultDelay,
		path:    defaultPath(),
	}
}

func defaultPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, config.AppName, autosaveName)
	}
	return autosaveName
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads configuration and subscribes to list changes if enabled.
func (p *AutoSave) Initialize(api plugin.ListAPI) error {
	p.api = api
	pluginName := p.Name()

	logger.Debugf("%s: Initializing...", pluginName)

	p.mutex.Lock()
	if enabledVal, ok := api.GetPluginConfigValue(pluginName, "enabled"); ok {
		if boolVal, isBool := enabledVal.(bool); isBool {
			p.enabled = boolVal
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", pluginName, enabledVal, p.enabled)
		}
	}
	if delayVal, ok := api.GetPluginConfigValue(pluginName, "delay"); ok {
		if d, err := parseDelay(delayVal); err != nil {
			logger.Warnf("%s: %v. Using default (%v)", pluginName, err, p.delay)
		} else {
			p.delay = d
		}
	}
	if pathVal, ok := api.GetPluginConfigValue(pluginName, "path"); ok {
		if s, isStr := pathVal.(string); isStr && s != "" {
			p.path = s
		} else {
			logger.Warnf("%s: Invalid 'path' config (%v), using default (%s)", pluginName, pathVal, p.path)
		}
	}
	isEnabled, delay, path := p.enabled, p.delay, p.path
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Delay: %v, Path: %s", pluginName, isEnabled, delay, path)

	if isEnabled {
		p.subs = append(p.subs,
			api.SubscribeEvent(event.TypeListChanged, p.onChange),
			api.SubscribeEvent(event.TypeHistoryChanged, p.onChange),
		)
	}
	return nil
}

// parseDelay accepts "750ms"-style strings or integer milliseconds.
func parseDelay(v any) (time.Duration, error) {
	var d time.Duration
	switch v := v.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid format for 'delay' config ('%s'): %w", v, err)
		}
		d = parsed
	case int64:
		d = time.Duration(v) * time.Millisecond
	default:
		return 0, fmt.Errorf("invalid type for 'delay' config (%T)", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("'delay' config must be positive (%v)", d)
	}
	return d, nil
}

// Shutdown cancels a pending save and unsubscribes.
func (p *AutoSave) Shutdown() error {
	if p.debouncer.Stop() {
		logger.Debugf("%s: Pending save dropped on shutdown.", p.Name())
	}
	for _, id := range p.subs {
		p.api.UnsubscribeEvent(id)
	}
	p.subs = nil
	return nil
}

// onChange (re)starts the delay. The save itself runs on the main loop.
func (p *AutoSave) onChange(event.Event) bool {
	p.schedule(p.currentDelay())
	return false // Not consumed
}

func (p *AutoSave) currentDelay() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.delay
}

func (p *AutoSave) schedule(d time.Duration) {
	p.debouncer.Debounce(d, func() {
		p.api.RunOnMain(p.save)
	})
}

// save writes the snapshot. An open compound operation postpones it.
func (p *AutoSave) save() {
	doc, err := p.api.Snapshot()
	if errors.Is(err, history.ErrCompoundInProgress) {
		logger.Debugf("%s: Compound operation open, retrying later.", p.Name())
		p.schedule(compoundBackoff)
		return
	} else if err != nil {
		logger.Errorf("%s: Snapshot failed: %v", p.Name(), err)
		return
	}

	p.mutex.RLock()
	path := p.path
	p.mutex.RUnlock()

	if err := writeFile(path, doc); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), path, err)
		return
	}
	p.saves++
	logger.Debugf("%s: Auto-saved %d bytes to '%s'", p.Name(), len(doc), path)
	p.api.DispatchEvent(event.TypeSnapshotSaved, event.SnapshotSavedData{Path: path, Bytes: len(doc)})
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
