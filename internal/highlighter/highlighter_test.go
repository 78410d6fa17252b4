package highlighter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidelist/internal/highlighter/lang"
)

func styleAt(spans []Span, col int) string {
	for _, s := range spans {
		if col >= s.StartCol && col < s.EndCol {
			return s.StyleName
		}
	}
	return ""
}

func TestHighlightJSON(t *testing.T) {
	RegisterLanguages()
	json := lang.Get("json")
	require.NotNil(t, json)

	src := []byte("{\"cursor\": 1, \"ok\": true,\n  \"items\": [\"é\", null]}")
	res, err := NewHighlighter().Highlight(context.Background(), src, json)
	require.NoError(t, err)

	first := res[0]
	assert.Equal(t, "punctuation.bracket", styleAt(first, 0))
	assert.Equal(t, "property", styleAt(first, 1), "keys win over plain strings")
	assert.Equal(t, "punctuation.delimiter", styleAt(first, 9))
	assert.Equal(t, "number", styleAt(first, 11))
	assert.Equal(t, "boolean", styleAt(first, 20))

	second := res[1]
	assert.Equal(t, "property", styleAt(second, 2))
	// "é" is one rune but two bytes; columns are runes.
	assert.Equal(t, "string", styleAt(second, 12))
	assert.Equal(t, "string", styleAt(second, 14))
	assert.Equal(t, "constant", styleAt(second, 17))
}

func TestHighlightNilLanguage(t *testing.T) {
	_, err := NewHighlighter().Highlight(context.Background(), []byte("{}"), nil)
	assert.Error(t, err)
}

func TestGetForFile(t *testing.T) {
	RegisterLanguages()
	assert.NotNil(t, lang.GetForFile("snapshot.JSON"))
	assert.Nil(t, lang.GetForFile("notes.txt"))
}
