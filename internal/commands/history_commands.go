package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/match"

	"github.com/bethropolis/tidelist/internal/plugin"
)

// maxHistoryMatches caps how many groups :history lists in the status bar.
const maxHistoryMatches = 5

// RegisterHistoryCommands registers undo history and persistence commands.
func RegisterHistoryCommands(reg Registrar, api HistoryAPI) {
	register(reg, map[string]plugin.CommandFunc{
		"begin": func(args []string) error {
			undoable := true
			if len(args) > 0 {
				if args[0] != "noundo" {
					return fmt.Errorf("usage: begin [noundo]")
				}
				undoable = false
			}
			if err := api.BeginCompound(undoable); err != nil {
				return err
			}
			if undoable {
				api.SetStatusMessage("Compound operation started")
			} else {
				api.SetStatusMessage("Compound operation started (not recorded)")
			}
			return nil
		},
		"end": func([]string) error {
			if err := api.EndCompound(); err != nil {
				return err
			}
			api.SetStatusMessage("Compound operation closed")
			return nil
		},
		"undo": func(args []string) error {
			return repeat(api, args, "undo", "Undid", api.Undo)
		},
		"redo": func(args []string) error {
			return repeat(api, args, "redo", "Redid", api.Redo)
		},
		"clearundo": func([]string) error {
			if err := api.ClearUndo(); err != nil {
				return err
			}
			api.SetStatusMessage("History cleared")
			return nil
		},
		"history": func(args []string) error {
			return showHistory(api, strings.Join(args, " "))
		},
		"snapshot": func(args []string) error {
			return api.SaveSnapshot(optionalPath(args))
		},
		"restore": func(args []string) error {
			if len(args) == 0 {
				return errors.New("usage: restore <path>")
			}
			return api.RestoreSnapshot(optionalPath(args))
		},
		"w": func(args []string) error {
			return api.WriteList(optionalPath(args))
		},
		"q": func([]string) error {
			api.RequestQuit(false)
			return nil
		},
		"q!": func([]string) error {
			api.RequestQuit(true)
			return nil
		},
		"wq": func(args []string) error {
			if err := api.WriteList(optionalPath(args)); err != nil {
				return err
			}
			api.RequestQuit(false)
			return nil
		},
	})
}

func optionalPath(args []string) string {
	return strings.Join(args, " ")
}

// repeat runs step up to n times (args[0], default 1) and stops early once
// nothing is left to step over.
func repeat(api HistoryAPI, args []string, name, verb string, step func() (bool, error)) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("invalid count '%s'", args[0])
		}
		n = v
	}
	done := 0
	for done < n {
		ok, err := step()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		done++
	}
	if done == 0 {
		api.SetStatusMessage("Nothing to %s", name)
		return nil
	}
	api.SetStatusMessage("%s %d change(s)", verb, done)
	return nil
}

// showHistory lists the history position, or the groups matching a glob
// pattern such as "*milk*".
func showHistory(api HistoryAPI, pattern string) error {
	groups := api.HistoryGroups()
	cursor, depth := api.HistoryInfo()
	if pattern == "" {
		if depth == 0 {
			api.SetStatusMessage("History is empty")
			return nil
		}
		last := "none"
		if cursor >= 0 && cursor < len(groups) {
			last = groups[cursor].String()
		}
		api.SetStatusMessage("History %d/%d, last: %s", cursor+1, depth, last)
		return nil
	}

	pattern = strings.ToLower(pattern)
	var hits []string
	total := 0
	for i, g := range groups {
		if !match.Match(strings.ToLower(g.String()), pattern) {
			continue
		}
		total++
		if len(hits) < maxHistoryMatches {
			hits = append(hits, fmt.Sprintf("#%d %s", i+1, g.String()))
		}
	}
	if total == 0 {
		return fmt.Errorf("no history entry matches '%s'", pattern)
	}
	api.SetStatusMessage("%d match(es): %s", total, strings.Join(hits, " | "))
	return nil
}
