// Package util provides small shared helpers for display formatting.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Truncate caps a string at maxLen runes, appending an ellipsis when it
// overflows. It ignores ANSI escape codes and wide characters; for styled
// terminal output use TruncateANSI.
func Truncate(s string, maxLen int) string {
	if maxLen <= 1 {
		return "…"
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// TruncateANSI caps a string at maxWidth visual columns, appending an
// ellipsis when it overflows. Escape sequences and wide characters are
// accounted for, so it is safe for styled TUI cells.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 1 {
		return "…"
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "…")
}
