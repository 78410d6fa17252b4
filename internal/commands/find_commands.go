package commands

import (
	"strings"

	"github.com/bethropolis/tidelist/internal/find"
	"github.com/bethropolis/tidelist/internal/plugin"
)

// RegisterFindCommands registers :find, :s and :noh.
func RegisterFindCommands(reg Registrar, api FindAPI) {
	register(reg, map[string]plugin.CommandFunc{
		"find": func(args []string) error {
			if len(args) == 0 {
				return api.FindNext(true)
			}
			return api.Search(strings.Join(args, " "))
		},
		// Arguments are rejoined with single spaces, so runs of spaces in
		// the pattern collapse.
		"s": func(args []string) error {
			pattern, replacement, global, err := find.ParseSubstituteCommand(strings.Join(args, " "))
			if err != nil {
				return err
			}
			n, err := api.Substitute(pattern, replacement, global)
			if err != nil {
				return err
			}
			if n == 0 {
				api.SetStatusMessage("Pattern not found: %s", pattern)
				return nil
			}
			api.SetStatusMessage("Replaced %d occurrence(s)", n)
			return nil
		},
		"noh": func([]string) error {
			api.ClearSearch()
			return nil
		},
	})
}
