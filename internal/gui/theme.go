//go:build !nogui

package gui

import (
	"image/color"

	"notepad/internal/config"
	"notepad/internal/highlight"
	"notepad/internal/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Color names used by the highlighted preview.
const (
	colorKeyword fyne.ThemeColorName = "notepad.keyword"
	colorComment fyne.ThemeColorName = "notepad.comment"
	colorString  fyne.ThemeColorName = "notepad.string"
)

// editorTheme is the default fyne theme plus the configured highlight
// colors.
type editorTheme struct {
	colors map[fyne.ThemeColorName]color.Color
}

func newEditorTheme(cfg *config.Config) *editorTheme {
	t := &editorTheme{colors: make(map[fyne.ThemeColorName]color.Color)}
	formats := map[fyne.ThemeColorName]config.Format{
		colorKeyword: cfg.Theme.Keyword,
		colorComment: cfg.Theme.Comment,
		colorString:  cfg.Theme.String,
	}
	for name, f := range formats {
		c, err := f.RGBA()
		if err != nil {
			log.LogWithFields(log.F("color", f.Color), log.F("error", err)).Warn("Ignoring theme color")
			continue
		}
		if c != nil {
			t.colors[name] = c
		}
	}
	return t
}

func (t *editorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if c, ok := t.colors[name]; ok {
		return c
	}
	switch name {
	case colorKeyword:
		return theme.DefaultTheme().Color(theme.ColorNamePrimary, variant)
	case colorComment:
		return theme.DefaultTheme().Color(theme.ColorNamePlaceHolder, variant)
	case colorString:
		return theme.DefaultTheme().Color(theme.ColorNameSuccess, variant)
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *editorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *editorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *editorTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

// styleColor maps a highlight style to its theme color name.
func styleColor(s highlight.Style) fyne.ThemeColorName {
	switch s {
	case highlight.Keyword:
		return colorKeyword
	case highlight.Comment:
		return colorComment
	case highlight.String:
		return colorString
	}
	return theme.ColorNameForeground
}

// textStyle returns the configured weight and slant for a highlight style.
func textStyle(cfg *config.Config, s highlight.Style) fyne.TextStyle {
	ts := fyne.TextStyle{Monospace: true}
	var f config.Format
	switch s {
	case highlight.Keyword:
		f = cfg.Theme.Keyword
	case highlight.Comment:
		f = cfg.Theme.Comment
	case highlight.String:
		f = cfg.Theme.String
	default:
		return ts
	}
	ts.Bold = f.Bold
	ts.Italic = f.Italic
	return ts
}
