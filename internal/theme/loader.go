// internal/theme/loader.go
package theme

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tidelist/internal/logger"
)

// TomlStyleDef represents a single style definition in the TOML file.
// Pointers tell unset fields from zero values.
type TomlStyleDef struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
	Strike    *bool   `toml:"strikethrough"`
	Dim       *bool   `toml:"dim"`
}

// TomlTheme represents the structure of a theme file. With extends set, the
// file only needs the styles it changes.
type TomlTheme struct {
	Name    string                  `toml:"name"`
	IsDark  *bool                   `toml:"is_dark"`
	Extends string                  `toml:"extends"`
	Styles  map[string]TomlStyleDef `toml:"styles"`
}

// ErrUnknownParent is returned when extends names a theme that is not loaded.
var ErrUnknownParent = errors.New("extends unknown theme")

// Resolver looks up an already loaded theme by name.
type Resolver func(name string) (*Theme, bool)

// LoadThemeFromFile parses a TOML theme file. resolve is used for the
// extends key and may be nil when inheritance is not needed.
func LoadThemeFromFile(filePath string, resolve Resolver) (*Theme, error) {
	var tomlTheme TomlTheme
	metadata, err := toml.DecodeFile(filePath, &tomlTheme)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	if tomlTheme.Name == "" {
		tomlTheme.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		logger.Debugf("Theme file '%s' missing 'name', using filename '%s'", filePath, tomlTheme.Name)
	}

	theme := &Theme{
		Name:   tomlTheme.Name,
		Styles: map[string]tcell.Style{"Default": tcell.StyleDefault},
	}
	if tomlTheme.Extends != "" {
		var parent *Theme
		if resolve != nil {
			parent, _ = resolve(tomlTheme.Extends)
		}
		if parent == nil {
			return nil, fmt.Errorf("theme '%s' %w '%s'", theme.Name, ErrUnknownParent, tomlTheme.Extends)
		}
		theme.IsDark = parent.IsDark
		maps.Copy(theme.Styles, parent.Styles)
	}
	if tomlTheme.IsDark != nil {
		theme.IsDark = *tomlTheme.IsDark
	}

	// Default first: the other styles of this file inherit from it.
	if def, ok := tomlTheme.Styles["Default"]; ok {
		style, err := def.apply(theme.Styles["Default"])
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse 'Default' style, keeping the inherited one: %v", theme.Name, err)
		} else {
			theme.Styles["Default"] = style
		}
	}
	base := theme.Styles["Default"]

	for name, def := range tomlTheme.Styles {
		if name == "Default" {
			continue
		}
		start := base
		if inherited, ok := theme.Styles[name]; ok {
			start = inherited
		}
		style, err := def.apply(start)
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse style '%s', skipping: %v", theme.Name, name, err)
			continue
		}
		theme.Styles[name] = style
	}

	logger.Debugf("Loaded theme '%s' from '%s' (%d styles)", theme.Name, filePath, len(theme.Styles))
	return theme, nil
}

// apply sets the fields present in d on top of style.
func (d TomlStyleDef) apply(style tcell.Style) (tcell.Style, error) {
	if d.Fg != nil {
		color, err := parseColorString(*d.Fg)
		if err != nil {
			return style, fmt.Errorf("invalid foreground color '%s': %w", *d.Fg, err)
		}
		style = style.Foreground(color)
	}
	if d.Bg != nil {
		color, err := parseColorString(*d.Bg)
		if err != nil {
			return style, fmt.Errorf("invalid background color '%s': %w", *d.Bg, err)
		}
		style = style.Background(color)
	}

	for _, attr := range []struct {
		set *bool
		fn  func(tcell.Style, bool) tcell.Style
	}{
		{d.Bold, tcell.Style.Bold},
		{d.Italic, tcell.Style.Italic},
		{d.Underline, func(s tcell.Style, on bool) tcell.Style { return s.Underline(on) }},
		{d.Reverse, tcell.Style.Reverse},
		{d.Strike, tcell.Style.StrikeThrough},
		{d.Dim, tcell.Style.Dim},
	} {
		if attr.set != nil {
			style = attr.fn(style, *attr.set)
		}
	}
	return style, nil
}

// parseColorString converts "#rrggbb", "reset", "default" or a W3C color
// name ("red", "darkslategray") to a tcell.Color.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color format '%s', must be #RRGGBB", s)
		}
		val, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	}

	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if color, ok := tcell.ColorNames[s]; ok {
		return color, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color format or name '%s'", s)
}
