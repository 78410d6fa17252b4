// Package find implements regexp search and substitution over list entries.
package find

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/highlighter"
	"github.com/bethropolis/tidelist/internal/highlighter/utils"
	"github.com/bethropolis/tidelist/internal/logger"
)

// SearchStyle is the theme style name used for match spans.
const SearchStyle = "Search"

// ErrNoPattern is returned by FindNext before any search was made.
var ErrNoPattern = errors.New("no previous search pattern")

// ListInterface defines what the find manager needs from the list.
type ListInterface interface {
	Entries() []entry.Entry
	Selected() int
	SetAt(i int, e entry.Entry) error
	Transaction(fn func() error) error
}

// Manager handles find, substitute, and match highlighting over entry texts.
type Manager struct {
	list            ListInterface
	mutex           sync.RWMutex
	lastSearchTerm  string
	lastSearchRegex *regexp.Regexp
	highlights      highlighter.Result // entry index -> match spans
}

// NewManager creates a find manager.
func NewManager(list ListInterface) *Manager {
	return &Manager{list: list}
}

// Search compiles term, stores it as the last pattern and recomputes the
// highlights. An empty term clears the search.
func (m *Manager) Search(term string) error {
	if term == "" {
		m.mutex.Lock()
		m.lastSearchTerm = ""
		m.lastSearchRegex = nil
		m.highlights = nil
		m.mutex.Unlock()
		return nil
	}

	re, err := regexp.Compile(term)
	if err != nil {
		logger.Warnf("Search: Invalid regex '%s': %v", term, err)
		return fmt.Errorf("invalid search pattern: %w", err)
	}

	m.mutex.Lock()
	m.lastSearchTerm = term
	m.lastSearchRegex = re
	m.mutex.Unlock()

	m.Refresh()
	return nil
}

// Term returns the last search pattern, or "".
func (m *Manager) Term() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.lastSearchTerm
}

// Refresh recomputes the highlights of the last pattern against the current
// entries. Call it after the list changes.
func (m *Manager) Refresh() {
	m.mutex.RLock()
	re := m.lastSearchRegex
	m.mutex.RUnlock()
	if re == nil {
		return
	}

	newHighlights := make(highlighter.Result)
	for idx, e := range m.list.Entries() {
		line := []byte(e.Text)
		for _, loc := range re.FindAllIndex(line, -1) {
			if loc[0] == loc[1] {
				continue // Empty matches have nothing to mark
			}
			newHighlights[idx] = append(newHighlights[idx], highlighter.Span{
				StartCol:  utils.ByteOffsetToRuneIndex(line, loc[0]),
				EndCol:    utils.ByteOffsetToRuneIndex(line, loc[1]),
				StyleName: SearchStyle,
			})
		}
	}

	m.mutex.Lock()
	m.highlights = newHighlights
	m.mutex.Unlock()
	logger.DebugTagf("find", "FindManager: %d entries match '%s'", len(newHighlights), re)
}

// ClearHighlights drops the match spans but keeps the pattern for FindNext.
func (m *Manager) ClearHighlights() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.highlights = nil
}

// HasHighlights reports whether any entry is currently marked.
func (m *Manager) HasHighlights() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.highlights) > 0
}

// Active reports whether highlights are shown for the last pattern, even
// when nothing currently matches.
func (m *Manager) Active() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.highlights != nil
}

// GetHighlights returns a copy of the match spans by entry index.
func (m *Manager) GetHighlights() highlighter.Result {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.highlights == nil {
		return nil
	}
	out := make(highlighter.Result, len(m.highlights))
	for idx, spans := range m.highlights {
		out[idx] = append([]highlighter.Span(nil), spans...)
	}
	return out
}

// FindNext returns the index of the next entry matching the last pattern,
// searching from the entry after (or before) the selection and wrapping
// around. The selected entry itself is found last.
func (m *Manager) FindNext(forward bool) (int, bool, error) {
	m.mutex.RLock()
	re := m.lastSearchRegex
	m.mutex.RUnlock()
	if re == nil {
		return -1, false, ErrNoPattern
	}

	entries := m.list.Entries()
	n := len(entries)
	if n == 0 {
		return -1, false, nil
	}
	start := m.list.Selected()
	if start < 0 || start >= n {
		// Nothing selected: begin at the first (or last) entry.
		start = -1
		if !forward {
			start = n
		}
	}

	step := 1
	if !forward {
		step = -1
	}
	for i := 1; i <= n; i++ {
		idx := ((start+step*i)%n + n) % n
		if re.MatchString(entries[idx].Text) {
			return idx, true, nil
		}
	}
	return -1, false, nil
}

// --- Replace Logic ---

// ParseSubstituteCommand parses the /pattern/replacement/[g] argument of :s.
func ParseSubstituteCommand(cmdStr string) (pattern, replacement string, global bool, err error) {
	// Escaped delimiters are not supported
	parts := strings.SplitN(cmdStr, "/", 4)
	if len(parts) < 3 || parts[0] != "" {
		err = fmt.Errorf("invalid format: use /pattern/replacement/[g]")
		return
	}

	pattern = parts[1]
	replacement = parts[2]

	if pattern == "" {
		err = fmt.Errorf("search pattern cannot be empty")
		return
	}

	if len(parts) > 3 && strings.Contains(parts[3], "g") {
		global = true
	}
	return
}

// Replace substitutes patternStr in every entry text: the first occurrence
// per entry, or all of them when global is set. All edits are applied in
// one transaction so a single undo reverts them. It returns the number of
// occurrences replaced.
func (m *Manager) Replace(patternStr, replacement string, global bool) (int, error) {
	if patternStr == "" {
		return 0, fmt.Errorf("search pattern cannot be empty")
	}
	re, err := regexp.Compile(patternStr)
	if err != nil {
		return 0, fmt.Errorf("invalid search pattern: %w", err)
	}

	type edit struct {
		index int
		entry entry.Entry
	}
	var edits []edit
	replaceCount := 0
	for idx, e := range m.list.Entries() {
		locs := re.FindAllStringSubmatchIndex(e.Text, -1)
		if len(locs) == 0 {
			continue
		}
		if !global {
			locs = locs[:1]
		}
		var b strings.Builder
		last := 0
		for _, loc := range locs {
			b.WriteString(e.Text[last:loc[0]])
			b.Write(re.ExpandString(nil, replacement, e.Text, loc))
			last = loc[1]
		}
		b.WriteString(e.Text[last:])
		if text := b.String(); text != e.Text {
			e.Text = text
			edits = append(edits, edit{index: idx, entry: e})
			replaceCount += len(locs)
		}
	}
	if len(edits) == 0 {
		return 0, nil
	}

	err = m.list.Transaction(func() error {
		for _, ed := range edits {
			if err := m.list.SetAt(ed.index, ed.entry); err != nil {
				return fmt.Errorf("replace failed at entry %d: %w", ed.index+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Debugf("Replace: Replaced %d occurrence(s) in %d entries.", replaceCount, len(edits))
	if m.Active() {
		m.Refresh()
	}
	return replaceCount, nil
}
