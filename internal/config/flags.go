// internal/config/flags.go
package config

import (
	"flag"
	"fmt"

	"github.com/bethropolis/tidelist/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Only flags the user actually set are applied, see ApplyOverrides.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath  *string
	Version         *bool
	LogLevel        *string
	LogFilePath     *string
	ScrollOff       *int
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	SystemClipboard *bool
	Theme           *string
	Inspector       *bool
	MaxHistory      *int
	ListenerPolicy  *string
	Restore         *string
}

// DefineFlags sets up the command-line flags on fs (flag.CommandLine when nil).
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.ScrollOff = fs.Int("scrolloff", -1, "Rows of context above/below the selection - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Use system clipboard instead of internal register")
	f.Theme = fs.String("theme", "", "Theme name - Overrides config file")
	f.Inspector = fs.Bool("inspector", false, "Start with the history inspector open")
	f.MaxHistory = fs.Int("max-history", -1, "Maximum undo groups kept (0 = unbounded) - Overrides config file")
	f.ListenerPolicy = fs.String("listener-policy", "", "Listener panic policy (isolate, propagate) - Overrides config file")
	f.Restore = fs.String("restore", "", "Snapshot file to restore list and history from")
}

// ParseFlags defines and parses flags from args and returns the remaining
// non-flag arguments (e.g., the list file path).
func (f *Flags) ParseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	f.DefineFlags(fs)
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ApplyOverrides updates cfg with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.fs == nil {
		return
	}
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			cfg.Logger.LogLevel = *f.LogLevel
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "scrolloff":
			if *f.ScrollOff >= 0 {
				cfg.View.ScrollOff = *f.ScrollOff
			}
		case "log-tags":
			cfg.Logger.EnabledTags = logger.SplitList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = logger.SplitList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = logger.SplitList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = logger.SplitList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = logger.SplitList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = logger.SplitList(*f.DisableFiles)
		case "system-clipboard":
			cfg.View.SystemClipboard = *f.SystemClipboard
		case "theme":
			cfg.View.Theme = *f.Theme
		case "inspector":
			cfg.View.Inspector = *f.Inspector
		case "max-history":
			if *f.MaxHistory >= 0 {
				cfg.History.MaxDepth = *f.MaxHistory
			}
		case "listener-policy":
			cfg.History.ListenerPolicy = *f.ListenerPolicy
		case "restore":
			cfg.RestorePath = *f.Restore
		}
	})
}
