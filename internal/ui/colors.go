// package ui defines the lipgloss palette for CLI output
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles is the default palette used by the command runner.
var Styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields.
type Palette struct {
	Title lipgloss.Style
	OK    lipgloss.Style
	Err   lipgloss.Style
	Warn  lipgloss.Style
}

func NewPalette(t, s, e, w string) *Palette {
	return &Palette{
		Title: NewBold(t),
		OK:    NewBold(s),
		Err:   NewBold(e),
		Warn:  NewStyle(w),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}
