package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Adaptive colors keep overlays readable on light and dark terminals.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted     = ac("240", "243")
	colorSurfaceFg = ac("235", "252")
	colorSurfaceBg = ac("255", "235")
	colorControlBg = ac("252", "236")
	colorAccent    = ac("#0087af", "#00d2ff")
	colorDanger    = ac("160", "203")
	colorOK        = ac("28", "78")
	colorWarn      = ac("130", "214")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSurface = lipgloss.NewStyle().Foreground(colorSurfaceFg)
	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
	styleFail = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorDanger).
			Padding(0, 1)
	styleSelected = lipgloss.NewStyle().Background(colorControlBg).Foreground(colorSurfaceFg).Bold(true)
	styleCamera   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleFlash    = lipgloss.NewStyle().Foreground(colorOK)
)

// stateColor tints the session state badge.
func stateColor(state string) lipgloss.TerminalColor {
	switch state {
	case "active":
		return colorOK
	case "failed":
		return colorDanger
	case "idle":
		return colorMuted
	default:
		return colorWarn
	}
}

// itemStyle renders text in an item's accent color when it is a hex color.
func itemStyle(color string) lipgloss.Style {
	color = strings.TrimSpace(color)
	if !strings.HasPrefix(color, "#") {
		return styleSurface
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// darkTheme reports the preferred palette: REVAR_TUI_THEME wins, then the
// COLORFGBG hint, then lipgloss background detection.
func darkTheme() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("REVAR_TUI_THEME"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	// COLORFGBG is often "fg;bg" (e.g. "15;0" => dark bg).
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg := atoi(parts[len(parts)-1]); bg >= 0 {
			return bg < 7
		}
	}
	return lipgloss.HasDarkBackground()
}

func atoi(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
