package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/matching"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Card states
var (
	CardIdle = lipgloss.NewStyle().
			Foreground(Text)

	CardHidden = lipgloss.NewStyle().
			Foreground(Border)

	CardSelected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	CardMatched = lipgloss.NewStyle().
			Foreground(Success).
			Strikethrough(true)

	CardWrong = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// CardStyle returns the style for a card's display hint.
func CardStyle(h matching.Hint) lipgloss.Style {
	switch h {
	case matching.HintHidden:
		return CardHidden
	case matching.HintHighlight:
		return CardSelected
	case matching.HintSuccess:
		return CardMatched
	case matching.HintError:
		return CardWrong
	}
	return CardIdle
}
