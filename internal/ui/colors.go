package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/singme/internal/recommendations"
)

var styles = NewPalette("#FF5F87", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// scoreStyle colors a score by where it sits relative to the selection and eviction thresholds.
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score > recommendations.HighScoreThreshold:
		return styles.ok
	case score < 0:
		return styles.warn
	default:
		return styles.help
	}
}
