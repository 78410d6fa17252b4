// Package entry defines the list element the application edits.
package entry

import (
	"fmt"
	"strings"

	"github.com/bethropolis/tidelist/internal/core/history"
	"github.com/bethropolis/tidelist/internal/core/plain"
)

// Entry is one line of the list.
type Entry struct {
	Text string
	Done bool
}

// New creates an open entry.
func New(text string) Entry {
	return Entry{Text: text}
}

// ToPlainData implements plain.Marshaler.
func (e Entry) ToPlainData() plain.Data {
	return map[string]any{
		"text": e.Text,
		"done": e.Done,
	}
}

// FromPlainData is the history.Factory for entries. A bare string is
// accepted as an open entry.
func FromPlainData(d plain.Data) (Entry, error) {
	switch v := d.(type) {
	case string:
		return New(v), nil
	case map[string]any:
		var e Entry
		text, ok := v["text"].(string)
		if !ok {
			return Entry{}, fmt.Errorf("entry: missing or non-string \"text\" in %v", v)
		}
		e.Text = text
		if raw, present := v["done"]; present && raw != nil {
			done, ok := raw.(bool)
			if !ok {
				return Entry{}, fmt.Errorf("entry: non-bool \"done\" %v", raw)
			}
			e.Done = done
		}
		return e, nil
	default:
		return Entry{}, fmt.Errorf("entry: cannot build from %T", d)
	}
}

// Toggled returns a copy with Done flipped.
func (e Entry) Toggled() Entry {
	e.Done = !e.Done
	return e
}

// String renders the entry the way the list view shows it.
func (e Entry) String() string {
	mark := "[ ]"
	if e.Done {
		mark = "[x]"
	}
	return mark + " " + e.Text
}

// Parse reads a line in String's format. Lines without a marker become open entries.
func Parse(line string) Entry {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case strings.HasPrefix(line, "[x] "), strings.HasPrefix(line, "[X] "):
		return Entry{Text: line[4:], Done: true}
	case strings.HasPrefix(line, "[ ] "):
		return Entry{Text: line[4:]}
	default:
		return Entry{Text: line}
	}
}

// List is the undoable collection of entries used throughout the application.
type List = history.Undoable[Entry]

// NewList creates an empty list.
func NewList(opts ...history.Option) *List {
	return history.New(FromPlainData, opts...)
}
