// plugins/itemcount/itemcount.go
package itemcount

import (
	"fmt"
	"strings"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/plugin"
)

// Ensure ItemCount implements plugin.Plugin
var _ plugin.Plugin = (*ItemCount)(nil)

// ItemCount is a simple plugin to count entries, done entries and words.
type ItemCount struct {
	api plugin.ListAPI
}

// New creates a new instance of the ItemCount plugin.
func New() plugin.Plugin {
	return &ItemCount{}
}

// Name returns the unique name of the plugin.
func (p *ItemCount) Name() string {
	return "itemcount"
}

// Initialize registers the :count command.
func (p *ItemCount) Initialize(api plugin.ListAPI) error {
	p.api = api
	if err := api.RegisterCommand("count", p.executeCount); err != nil {
		return fmt.Errorf("failed to register 'count' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *ItemCount) Shutdown() error {
	return nil
}

// Stats summarizes a list.
type Stats struct {
	Entries int
	Done    int
	Words   int
}

// Open returns the number of entries not yet done.
func (s Stats) Open() int {
	return s.Entries - s.Done
}

// Count computes the statistics of entries.
func Count(entries []entry.Entry) Stats {
	s := Stats{Entries: len(entries)}
	for _, e := range entries {
		if e.Done {
			s.Done++
		}
		s.Words += len(strings.Fields(e.Text))
	}
	return s
}

// executeCount is the function called when the :count command runs.
func (p *ItemCount) executeCount(args []string) error {
	if p.api == nil {
		return fmt.Errorf("itemcount plugin not initialized with API")
	}
	s := Count(p.api.Entries())
	p.api.SetStatusMessage("Entries: %d, Done: %d, Open: %d, Words: %d", s.Entries, s.Done, s.Open(), s.Words)
	return nil
}
