package matching

// Side is the column a card belongs to.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// CardState is a card's position in the pairing state machine.
type CardState int

const (
	StateIdle CardState = iota
	StateSelected
	StateMatched
	StateWrong
)

func (s CardState) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateMatched:
		return "matched"
	case StateWrong:
		return "wrong"
	}
	return "idle"
}

// Card is one face of a vocabulary pair. Left cards show the phonetic form,
// right cards the native text.
type Card struct {
	PairID string
	Text   string
	Side   Side
	State  CardState
	// Revealed is false for cards introduced mid-round until the host fires
	// the reveal action. Unrevealed cards ignore taps.
	Revealed bool
}

// Hint is a display hint derived from a card's state.
type Hint int

const (
	HintNone Hint = iota
	HintHidden
	HintHighlight
	HintSuccess
	HintError
)

// DisplayHint maps the card's state to what the presentation layer should
// emphasize.
func (c Card) DisplayHint() Hint {
	switch {
	case !c.Revealed:
		return HintHidden
	case c.State == StateSelected:
		return HintHighlight
	case c.State == StateMatched:
		return HintSuccess
	case c.State == StateWrong:
		return HintError
	}
	return HintNone
}
