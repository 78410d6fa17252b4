package commands

import (
	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/plugin"
)

// RegisterAppCommands registers built-in commands like :theme, :undo and :find.
func RegisterAppCommands(reg Registrar, themeAPI ThemeAPI, historyAPI HistoryAPI, findAPI FindAPI) {
	RegisterThemeCommands(reg, themeAPI)
	RegisterHistoryCommands(reg, historyAPI)
	RegisterFindCommands(reg, findAPI)
}

func register(reg Registrar, cmds map[string]plugin.CommandFunc) {
	for name, fn := range cmds {
		if err := reg.RegisterCommand(name, fn); err != nil {
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}
}
