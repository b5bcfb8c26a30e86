package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"emberline/internal/engine"
)

// Emberline theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconEmber   = "🔥"
	IconSpark   = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconChart   = "📊"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconBox     = "📦"
	IconScroll  = "📜"
	IconPact    = "🤝"
	IconNote    = "📝"
	IconArchive = "🗃️"
)

var (
	cPrimary = lipgloss.Color("208") // ember orange
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

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedDay = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
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

// TierText colorizes a tier label.
func TierText(t engine.Tier) string {
	switch t {
	case engine.TierCommitted:
		return Gold.Render(string(t))
	case engine.TierHabit:
		return Good.Render(string(t))
	default:
		return Warn.Render(string(t))
	}
}

// StrengthText colorizes the presentational strength bucket.
func StrengthText(label string) string {
	switch label {
	case "relentless":
		return Gold.Render(label)
	case "strong":
		return Good.Render(label)
	case "normal":
		return H2.Render(label)
	default:
		return Muted.Render(label)
	}
}
