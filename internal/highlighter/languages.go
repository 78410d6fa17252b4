// internal/highlighter/languages.go
package highlighter

import (
	"embed"
	"sync"

	jssrc "github.com/smacker/go-tree-sitter/javascript" // JS parser used for JSON

	"github.com/bethropolis/tidelist/internal/highlighter/lang"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

var registerOnce sync.Once

// RegisterLanguages registers the built-in languages. Safe to call repeatedly.
func RegisterLanguages() {
	registerOnce.Do(func() {
		if lang.QueryFS == nil {
			lang.QueryFS = embeddedQueries
		}

		// The JavaScript grammar reads a bare "{...}" as a block, the
		// parentheses make it an object expression.
		lang.Register(&lang.Language{
			Name:           "JSON",
			TreeSitterLang: jssrc.GetLanguage(),
			Extensions:     []string{".json"},
			QueryPath:      "json",
			Prefix:         "(",
			Suffix:         ")",
		})
	})
}
