package lang

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/bethropolis/tidelist/internal/logger"
)

var registry = struct {
	sync.RWMutex
	byName map[string]*Language
	byExt  map[string]*Language
}{
	byName: make(map[string]*Language),
	byExt:  make(map[string]*Language),
}

// Register adds a language to the registry, replacing any language with
// the same name or extensions.
func Register(lang *Language) {
	registry.Lock()
	defer registry.Unlock()

	registry.byName[strings.ToLower(lang.Name)] = lang
	for _, ext := range lang.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := registry.byExt[lowerExt]; ok && existing.Name != lang.Name {
			logger.Warnf("Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, lang.Name)
		}
		registry.byExt[lowerExt] = lang
	}
	logger.DebugTagf("highlight", "Registered language: %s with extensions: %v", lang.Name, lang.Extensions)
}

// Get returns a language by name (case-insensitive).
func Get(name string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.byName[strings.ToLower(name)]
}

// GetForFile returns the language for a given file path
func GetForFile(filePath string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.byExt[strings.ToLower(filepath.Ext(filePath))]
}
