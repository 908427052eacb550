package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// igd theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconTask    = "📌"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconFlame   = "🔥"
	IconFocus   = "⏳"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconPark    = "🧊"
	IconLater   = "🌙"
	IconSoon    = "⏰"
	IconNow     = "🔥"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
	BadgeUnlock  = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("ACHIEVEMENT")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// ProgressBar renders a fixed-width text progress bar for a 0-100 value.
func ProgressBar(percent int, width int) string {
	if width <= 3 {
		width = 3
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// LaneIcon maps a lane name to its badge.
func LaneIcon(lane string) string {
	switch strings.ToLower(strings.TrimSpace(lane)) {
	case "park":
		return IconPark
	case "later":
		return IconLater
	case "soon":
		return IconSoon
	case "now":
		return IconNow
	default:
		return IconTask
	}
}

// LaneText renders a lane name in its urgency color.
func LaneText(lane string) string {
	s := strings.ToLower(strings.TrimSpace(lane))
	switch s {
	case "now":
		return Bad.Render(s)
	case "soon":
		return Warn.Render(s)
	case "later":
		return H2.Render(s)
	case "park":
		return Muted.Render(s)
	default:
		return Muted.Render(lane)
	}
}
