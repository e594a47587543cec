package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/matching"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

// Board shows the two columns of a matching round.
type Board struct {
	Left  []matching.Card
	Right []matching.Card
	// ColumnWidth is the width of each column; zero fits the longest card.
	ColumnWidth int
	Plain       bool
}

// View renders the board, one numbered card per line in each column.
func (b Board) View() string {
	left := b.column(b.Left)
	right := b.column(b.Right)

	width := b.ColumnWidth
	if width == 0 {
		for _, line := range append(append([]string(nil), left...), right...) {
			width = max(width, lipgloss.Width(line))
		}
	}

	rows := max(len(left), len(right))
	var sb strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		pad := width - lipgloss.Width(l)
		sb.WriteString(l)
		sb.WriteString(strings.Repeat(" ", max(pad, 0)))
		sb.WriteString("   ")
		sb.WriteString(r)
		if i < rows-1 {
			sb.WriteByte('\n')
		}
	}

	if b.Plain {
		return sb.String()
	}
	return theme.Panel.Render(sb.String())
}

func (b Board) column(cards []matching.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = b.card(i, c)
	}
	return out
}

func (b Board) card(i int, c matching.Card) string {
	hint := c.DisplayHint()
	text := c.Text
	if hint == matching.HintHidden {
		text = strings.Repeat("?", max(3, lipgloss.Width(c.Text)))
	}
	label := fmt.Sprintf("%2d %s%s", i, text, marker(hint))
	if b.Plain {
		return label
	}
	return theme.CardStyle(hint).Render(label)
}

func marker(h matching.Hint) string {
	switch h {
	case matching.HintHighlight:
		return " <"
	case matching.HintSuccess:
		return " ok"
	case matching.HintError:
		return " x"
	}
	return ""
}
