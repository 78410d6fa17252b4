// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tidelist/internal/logger"
)

// Theme maps style names to tcell styles. Dotted names ("StatusBar.history")
// fall back to their base name, then to "Default".
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle resolves name with base-name and Default fallback.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// palette is the small set of colors a built-in theme is derived from.
type palette struct {
	bg, bar, fg, muted, orange, yellow, green, cyan, blue, magenta tcell.Color
}

func buildTheme(name string, dark bool, p palette) Theme {
	base := tcell.StyleDefault.Background(p.bg).Foreground(p.fg)
	bar := tcell.StyleDefault.Background(p.bar).Foreground(p.fg)

	return Theme{
		Name:   name,
		IsDark: dark,
		Styles: map[string]tcell.Style{
			// --- List ---
			"Default":   base,
			"Selection": base.Reverse(true),
			"Index":     base.Foreground(p.muted),
			"Marker":    base.Foreground(p.blue).Bold(true),
			"Done":      base.Foreground(p.muted).StrikeThrough(true),
			"Empty":     base.Foreground(p.muted).Italic(true),
			"Search":    base.Background(p.yellow).Foreground(tcell.ColorBlack),

			// --- Inspector ---
			"Inspector":       base,
			"InspectorBorder": base.Foreground(p.muted),
			"InspectorTitle":  base.Foreground(p.yellow).Bold(true),
			"InspectorCursor": base.Background(p.bar).Bold(true),

			// --- Status Bar ---
			"StatusBar":          bar,
			"StatusBar.history":  bar.Foreground(p.cyan),
			"StatusBar.compound": bar.Foreground(p.yellow).Bold(true),
			"StatusBar.mode":     bar.Foreground(p.magenta).Bold(true),
			"StatusBarMessage":   bar.Bold(true),
			"StatusBarError":     bar.Foreground(p.orange).Bold(true),
			"StatusBarPrompt":    bar.Foreground(p.green).Bold(true),

			// --- JSON highlighting (inspector) ---
			"string":                base.Foreground(p.green),
			"number":                base.Foreground(p.orange),
			"boolean":               base.Foreground(p.orange),
			"constant":              base.Foreground(p.orange),
			"property":              base.Foreground(p.cyan),
			"punctuation":           base.Foreground(p.muted),
			"punctuation.bracket":   base.Foreground(p.muted),
			"punctuation.delimiter": base.Foreground(p.muted),
		},
	}
}

// DevComfortDark is the default built-in theme.
var DevComfortDark = buildTheme("DevComfort Dark", true, palette{
	bg:      tcell.ColorReset,
	bar:     tcell.NewHexColor(0x2a2f38),
	fg:      tcell.NewHexColor(0xc5cdd9),
	muted:   tcell.NewHexColor(0x5c6370),
	orange:  tcell.NewHexColor(0xd19a66),
	yellow:  tcell.NewHexColor(0xe5c07b),
	green:   tcell.NewHexColor(0x98c379),
	cyan:    tcell.NewHexColor(0x56b6c2),
	blue:    tcell.NewHexColor(0x61afef),
	magenta: tcell.NewHexColor(0xc678dd),
})

// DevComfortLight is the light counterpart of DevComfortDark.
var DevComfortLight = buildTheme("DevComfort Light", false, palette{
	bg:      tcell.ColorReset,
	bar:     tcell.NewHexColor(0xe5e9f0),
	fg:      tcell.NewHexColor(0x383a42),
	muted:   tcell.NewHexColor(0xa0a1a7),
	orange:  tcell.NewHexColor(0x986801),
	yellow:  tcell.NewHexColor(0xc18401),
	green:   tcell.NewHexColor(0x50a14f),
	cyan:    tcell.NewHexColor(0x0184bc),
	blue:    tcell.NewHexColor(0x4078f2),
	magenta: tcell.NewHexColor(0xa626a4),
})
