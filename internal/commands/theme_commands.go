package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/tidelist/internal/plugin"
)

// RegisterThemeCommands registers only theme-related commands
func RegisterThemeCommands(reg Registrar, themeAPI ThemeAPI) {
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			themeAPI.SetStatusMessage("Current theme: %s", themeAPI.GetTheme().Name)
			return nil
		}

		themeName := strings.Join(args, " ") // Allow theme names with spaces
		if err := themeAPI.SetTheme(themeName); err != nil {
			themeList := strings.Join(themeAPI.ListThemes(""), ", ")
			return fmt.Errorf("theme '%s' not found. Available: %s", themeName, themeList)
		}
		themeAPI.SetStatusMessage("Theme set to: %s", themeAPI.GetTheme().Name)
		return nil
	}

	// :themes [glob]
	themeListCmdFunc := func(args []string) error {
		pattern := strings.Join(args, " ")
		themes := themeAPI.ListThemes(pattern)
		if len(themes) == 0 {
			return fmt.Errorf("no theme matches '%s'", pattern)
		}
		themeAPI.SetStatusMessage("Available themes: %s", strings.Join(themes, ", "))
		return nil
	}

	register(reg, map[string]plugin.CommandFunc{
		"theme":  themeCmdFunc,
		"themes": themeListCmdFunc,
	})
}
