// Package matching implements the matching-pairs mini-game: a shuffled
// vocabulary pool is played through a bounded window of visible pairs,
// backfilled from a queue as pairs are matched.
package matching

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingoz/internal/vocab"
)

// DefaultVisiblePairs is the number of unmatched pairs shown at once.
const DefaultVisiblePairs = 5

// Config tunes a round.
type Config struct {
	VisiblePairs    int
	MismatchDelay   time.Duration
	CompletionDelay time.Duration
	RevealDelay     time.Duration
}

// DefaultConfig returns the standard round settings.
func DefaultConfig() Config {
	return Config{
		VisiblePairs:    DefaultVisiblePairs,
		MismatchDelay:   800 * time.Millisecond,
		CompletionDelay: 600 * time.Millisecond,
		RevealDelay:     250 * time.Millisecond,
	}
}

// Summary describes a finished round.
type Summary struct {
	RoundID    string
	CourseID   string
	LessonID   string
	TaskID     string
	Pairs      int
	Attempts   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Accuracy is the share of attempts that matched.
func (s Summary) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Pairs) / float64(s.Attempts)
}

// Engine owns the current round. It is driven by one caller at a time and
// never starts goroutines; delayed transitions are returned as Deferred
// actions for the host to schedule.
type Engine struct {
	source     vocab.Source
	rng        *rand.Rand
	cfg        Config
	logger     *slog.Logger
	round      *round
	generation uint64

	// OnComplete runs when the completion action of a round fires.
	OnComplete func(Summary)
	// Now stamps round start and finish.
	Now func() time.Time
}

// NewEngine creates an Engine reading vocabulary from source. A nil rng is
// replaced by a time-seeded one.
func NewEngine(source vocab.Source, rng *rand.Rand, cfg Config, logger *slog.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.VisiblePairs <= 0 {
		cfg.VisiblePairs = DefaultVisiblePairs
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		source: source,
		rng:    rng,
		cfg:    cfg,
		logger: logger,
		Now:    time.Now,
	}
}

// BuildRound starts a round over the lesson's mastered vocabulary. Unless
// force is set, an existing round for the same lesson is kept. A forced
// rebuild invalidates every outstanding Deferred of the previous round.
func (e *Engine) BuildRound(courseID, lessonID string, force bool) {
	key := roundKey{courseID: courseID, lessonID: lessonID}
	if !force && e.round != nil && e.round.key == key {
		return
	}
	var pool []vocab.Triple
	if e.source != nil {
		pool = e.source.TriplesForLesson(courseID, lessonID)
	}
	e.start(key, pool)
}

// BuildTaskRound starts a round over a pool bound to a practice task.
func (e *Engine) BuildTaskRound(courseID, taskID string, pool []vocab.Triple, force bool) {
	key := roundKey{courseID: courseID, taskID: taskID}
	if !force && e.round != nil && e.round.key == key {
		return
	}
	e.start(key, pool)
}

func (e *Engine) start(key roundKey, pool []vocab.Triple) {
	e.generation++

	pool = uniquePairs(vocab.Normalize(pool))
	e.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	seed := e.cfg.VisiblePairs
	if seed > len(pool) {
		seed = len(pool)
	}

	r := &round{
		id:         uuid.NewString(),
		key:        key,
		total:      len(pool),
		queue:      append([]vocab.Triple(nil), pool[seed:]...),
		matched:    make(map[string]bool),
		introduced: make(map[string]bool),
		unrevealed: make(map[string]uint64),
		startedAt:  e.Now(),
	}
	for _, t := range pool[:seed] {
		r.addPair(t, true)
	}
	e.shuffle(r.left)
	e.shuffle(r.right)
	e.round = r

	e.logger.Debug("round built",
		"round", r.id,
		"course", key.courseID,
		"lesson", key.lessonID,
		"task", key.taskID,
		"pairs", r.total,
		"visible", seed,
	)
}

// TapLeft handles a tap on the i-th left card.
func (e *Engine) TapLeft(i int) []Deferred {
	return e.tap(SideLeft, i)
}

// TapRight handles a tap on the i-th right card.
func (e *Engine) TapRight(i int) []Deferred {
	return e.tap(SideRight, i)
}

func (e *Engine) tap(side Side, i int) []Deferred {
	r := e.round
	if r == nil || r.finished() || r.mismatchPending {
		return nil
	}
	cards := r.cards(side)
	if i < 0 || i >= len(cards) {
		return nil
	}
	card := &cards[i]
	if card.State == StateMatched || !card.Revealed {
		return nil
	}

	prev := r.selected(side)
	if prev >= 0 {
		cards[prev].State = StateIdle
	}
	if prev != i {
		card.State = StateSelected
	}

	return e.TryResolve()
}

// TryResolve resolves the current pair of selections. It does nothing
// unless both sides hold a selection.
func (e *Engine) TryResolve() []Deferred {
	r := e.round
	if r == nil || r.finished() || r.mismatchPending {
		return nil
	}
	li, ri := r.selected(SideLeft), r.selected(SideRight)
	if li < 0 || ri < 0 {
		return nil
	}

	r.attempts++
	left, right := &r.left[li], &r.right[ri]

	if left.PairID != right.PairID {
		left.State = StateWrong
		right.State = StateWrong
		r.mismatchPending = true
		return []Deferred{e.deferred(ActionRevertMismatch, e.cfg.MismatchDelay)}
	}

	pairID := left.PairID
	left.State = StateMatched
	right.State = StateMatched
	r.matched[pairID] = true

	var out []Deferred
	if len(r.queue) > 0 {
		r.remove(pairID)
		out = append(out, e.IntroduceNextPairIfNeeded()...)
	}
	if r.finished() {
		r.finishedAt = e.Now()
		e.logger.Debug("round finished", "round", r.id, "attempts", r.attempts, "pairs", r.total)
		out = append(out, e.deferred(ActionSignalComplete, e.cfg.CompletionDelay))
	}
	return out
}

// IntroduceNextPairIfNeeded tops the visible window back up to its target
// from the queue. Introduced cards start unrevealed; the returned reveal
// action turns them face up.
func (e *Engine) IntroduceNextPairIfNeeded() []Deferred {
	r := e.round
	if r == nil || len(r.queue) == 0 {
		return nil
	}
	need := e.cfg.VisiblePairs - r.visibleUnmatched()
	if need <= 0 {
		return nil
	}
	if need > len(r.queue) {
		need = len(r.queue)
	}

	r.batch++
	for _, t := range r.queue[:need] {
		r.addPair(t, false)
		r.unrevealed[t.PairID()] = r.batch
	}
	r.queue = r.queue[need:]
	e.shuffle(r.left)
	e.shuffle(r.right)

	d := e.deferred(ActionReveal, e.cfg.RevealDelay)
	d.batch = r.batch
	return []Deferred{d}
}

// Fire performs a deferred action. It reports false for actions belonging
// to a replaced round or already consumed.
func (e *Engine) Fire(d Deferred) bool {
	r := e.round
	if r == nil || d.generation != e.generation {
		return false
	}

	switch d.Kind {
	case ActionRevertMismatch:
		if !r.mismatchPending {
			return false
		}
		for _, cards := range [][]Card{r.left, r.right} {
			for i := range cards {
				if cards[i].State == StateWrong {
					cards[i].State = StateIdle
				}
			}
		}
		r.mismatchPending = false
		return true

	case ActionReveal:
		revealed := false
		for _, cards := range [][]Card{r.left, r.right} {
			for i := range cards {
				if b, ok := r.unrevealed[cards[i].PairID]; ok && b == d.batch {
					cards[i].Revealed = true
					revealed = true
				}
			}
		}
		for id, b := range r.unrevealed {
			if b == d.batch {
				delete(r.unrevealed, id)
			}
		}
		return revealed

	case ActionSignalComplete:
		if !r.finished() || r.signaled {
			return false
		}
		r.signaled = true
		if e.OnComplete != nil {
			e.OnComplete(e.summary())
		}
		return true
	}
	return false
}

// uniquePairs keeps the first triple of every pair id. Two triples with
// different fields can still share an id once joined.
func uniquePairs(pool []vocab.Triple) []vocab.Triple {
	seen := make(map[string]bool, len(pool))
	out := pool[:0]
	for _, t := range pool {
		id := t.PairID()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, t)
	}
	return out
}

func (e *Engine) deferred(kind ActionKind, delay time.Duration) Deferred {
	return Deferred{Kind: kind, Delay: delay, generation: e.generation}
}

func (e *Engine) shuffle(cards []Card) {
	e.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

func (e *Engine) summary() Summary {
	r := e.round
	return Summary{
		RoundID:    r.id,
		CourseID:   r.key.courseID,
		LessonID:   r.key.lessonID,
		TaskID:     r.key.taskID,
		Pairs:      r.total,
		Attempts:   r.attempts,
		StartedAt:  r.startedAt,
		FinishedAt: r.finishedAt,
	}
}
