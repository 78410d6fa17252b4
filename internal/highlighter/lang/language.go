package lang

import (
	"fmt"
	"io/fs"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/tidelist/internal/logger"
)

// QueryFS is the filesystem interface for accessing embedded queries
var QueryFS fs.FS

// Language represents a syntax with its highlighting configuration
type Language struct {
	// Name is the display name of the language
	Name string

	// TreeSitterLang is the tree-sitter language instance
	TreeSitterLang *sitter.Language

	// Extensions maps file extensions to this language
	Extensions []string

	// QueryPath is the directory under queries/ holding highlights.scm
	QueryPath string

	// Prefix and Suffix wrap the source before parsing. Prefix must not
	// contain a newline; highlight columns on the first row are shifted back.
	Prefix, Suffix string
}

// GetQuery loads and returns the highlight query for this language
func (l *Language) GetQuery() ([]byte, error) {
	if QueryFS == nil {
		return nil, fmt.Errorf("query filesystem not set")
	}
	if l.QueryPath == "" {
		return nil, fmt.Errorf("no query path defined for language %s", l.Name)
	}

	queryPath := fmt.Sprintf("queries/%s/highlights.scm", l.QueryPath)
	query, err := fs.ReadFile(QueryFS, queryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load query for language %s: %w", l.Name, err)
	}
	logger.DebugTagf("highlight", "Loaded query from %s for %s (%d bytes)", queryPath, l.Name, len(query))
	return query, nil
}
