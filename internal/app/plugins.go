package app

import (
	"fmt"

	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/plugin"

	"github.com/bethropolis/tidelist/plugins/autosave"
	"github.com/bethropolis/tidelist/plugins/itemcount"
	"github.com/bethropolis/tidelist/plugins/luascript"
)

// pluginConstructors lists the built-in plugins in initialization order.
var pluginConstructors = []func() plugin.Plugin{
	itemcount.New,
	autosave.New,
	luascript.New,
}

// registerPlugins registers all known plugins with the manager.
func registerPlugins(pm *plugin.Manager) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	var finalErr error
	for _, newPlugin := range pluginConstructors {
		p := newPlugin()
		logger.Debugf("Registering plugin: %s", p.Name())
		if err := pm.Register(p); err != nil {
			wrappedErr := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrappedErr)
			if finalErr == nil {
				finalErr = wrappedErr // Store the first error encountered
			}
		}
	}
	return finalErr
}
