package components

import (
	"strings"
	"testing"

	"github.com/abhisek/lingoz/internal/matching"
)

func TestProgressBarPlain(t *testing.T) {
	p := NewProgressBar("ja", 0.5, true, 20)
	p.Plain = true

	got := p.View()
	if !strings.HasPrefix(got, "ja  [") {
		t.Errorf("missing label: %q", got)
	}
	if strings.Count(got, "#") != strings.Count(got, "-") {
		t.Errorf("half bar should be balanced: %q", got)
	}
	if !strings.HasSuffix(got, "50%") {
		t.Errorf("missing percent: %q", got)
	}
}

func TestProgressBarClamps(t *testing.T) {
	p := ProgressBar{Percent: 1.7, Width: 10, Plain: true}
	if got := p.View(); strings.Contains(got, "-") {
		t.Errorf("overfull bar has empty cells: %q", got)
	}
}

func TestBoardPlain(t *testing.T) {
	b := Board{
		Left: []matching.Card{
			{Text: "konnichiwa", Revealed: true, State: matching.StateSelected},
			{Text: "gohan", Revealed: false},
		},
		Right: []matching.Card{
			{Text: "hello", Revealed: true, State: matching.StateMatched},
			{Text: "rice", Revealed: true, State: matching.StateWrong},
		},
		Plain: true,
	}

	lines := strings.Split(b.View(), "\n")
	if len(lines) != 2 {
		t.Fatalf("rows = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], " 0 konnichiwa <") || !strings.Contains(lines[0], " 0 hello ok") {
		t.Errorf("row 0 = %q", lines[0])
	}
	if strings.Contains(lines[1], "gohan") || !strings.Contains(lines[1], "?????") {
		t.Errorf("hidden card leaked: %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "rice x") {
		t.Errorf("row 1 = %q", lines[1])
	}
}
