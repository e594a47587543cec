package matching

import (
	"time"

	"github.com/abhisek/lingoz/internal/vocab"
)

type roundKey struct {
	courseID string
	lessonID string
	taskID   string
}

// round is the state of one playthrough.
type round struct {
	id         string
	key        roundKey
	left       []Card
	right      []Card
	queue      []vocab.Triple
	matched    map[string]bool
	introduced map[string]bool
	// unrevealed maps pair ids awaiting a reveal to their introduction batch.
	unrevealed map[string]uint64
	batch      uint64
	attempts   int
	total      int

	mismatchPending bool
	signaled        bool
	startedAt       time.Time
	finishedAt      time.Time
}

func (r *round) addPair(t vocab.Triple, revealed bool) {
	id := t.PairID()
	r.left = append(r.left, Card{PairID: id, Text: t.Phonetic, Side: SideLeft, Revealed: revealed})
	r.right = append(r.right, Card{PairID: id, Text: t.Native, Side: SideRight, Revealed: revealed})
	r.introduced[id] = true
}

func (r *round) cards(side Side) []Card {
	if side == SideRight {
		return r.right
	}
	return r.left
}

// selected returns the index of the selected card on side, or -1.
func (r *round) selected(side Side) int {
	for i, c := range r.cards(side) {
		if c.State == StateSelected {
			return i
		}
	}
	return -1
}

func (r *round) remove(pairID string) {
	r.left = without(r.left, pairID)
	r.right = without(r.right, pairID)
}

func without(cards []Card, pairID string) []Card {
	out := cards[:0]
	for _, c := range cards {
		if c.PairID != pairID {
			out = append(out, c)
		}
	}
	return out
}

// visibleUnmatched counts distinct pair ids on screen that are not matched.
func (r *round) visibleUnmatched() int {
	seen := make(map[string]bool, len(r.left))
	for _, c := range r.left {
		if !r.matched[c.PairID] {
			seen[c.PairID] = true
		}
	}
	return len(seen)
}

func (r *round) finished() bool {
	return r.total > 0 && len(r.matched) >= r.total
}

// HasRound reports whether a round has been built.
func (e *Engine) HasRound() bool {
	return e.round != nil
}

// RoundID returns the id of the current round, or "" before the first build.
func (e *Engine) RoundID() string {
	if e.round == nil {
		return ""
	}
	return e.round.id
}

// Left returns a copy of the left column.
func (e *Engine) Left() []Card {
	if e.round == nil {
		return nil
	}
	return append([]Card(nil), e.round.left...)
}

// Right returns a copy of the right column.
func (e *Engine) Right() []Card {
	if e.round == nil {
		return nil
	}
	return append([]Card(nil), e.round.right...)
}

// Attempts returns the number of resolved selection pairs.
func (e *Engine) Attempts() int {
	if e.round == nil {
		return 0
	}
	return e.round.attempts
}

// MatchedCount returns the number of matched pairs.
func (e *Engine) MatchedCount() int {
	if e.round == nil {
		return 0
	}
	return len(e.round.matched)
}

// IsMatched reports whether pairID has been matched in the current round.
func (e *Engine) IsMatched(pairID string) bool {
	return e.round != nil && e.round.matched[pairID]
}

// WasIntroduced reports whether pairID has been shown in the current round.
func (e *Engine) WasIntroduced(pairID string) bool {
	return e.round != nil && e.round.introduced[pairID]
}

// TotalPairs returns the pair count fixed when the round was built.
func (e *Engine) TotalPairs() int {
	if e.round == nil {
		return 0
	}
	return e.round.total
}

// QueueLen returns the number of pairs not yet introduced.
func (e *Engine) QueueLen() int {
	if e.round == nil {
		return 0
	}
	return len(e.round.queue)
}

// VisibleUnmatched returns the number of distinct unmatched pairs on screen.
func (e *Engine) VisibleUnmatched() int {
	if e.round == nil {
		return 0
	}
	return e.round.visibleUnmatched()
}

// MismatchPending reports whether wrong cards are waiting to revert.
func (e *Engine) MismatchPending() bool {
	return e.round != nil && e.round.mismatchPending
}

// IsFinished reports whether every pair of a non-empty round is matched.
func (e *Engine) IsFinished() bool {
	return e.round != nil && e.round.finished()
}

// IsEmpty reports whether the current round has no content to play.
func (e *Engine) IsEmpty() bool {
	return e.round == nil || e.round.total == 0
}

// Summary returns the current round's summary so far.
func (e *Engine) Summary() Summary {
	if e.round == nil {
		return Summary{}
	}
	return e.summary()
}
