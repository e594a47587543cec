package practice

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/abhisek/lingoz/internal/vocab"
)

// Planner turns a course's lessons into practice task descriptors.
type Planner struct {
	source vocab.Source
	rng    *rand.Rand
	logger *slog.Logger
}

// NewPlanner creates a Planner reading mastered vocabulary from source.
// A nil rng is replaced by a time-seeded one.
func NewPlanner(source vocab.Source, rng *rand.Rand, logger *slog.Logger) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Planner{source: source, rng: rng, logger: logger}
}

// Plan builds the descriptors for lessonIDs under rule.
//
// The set of descriptors is a deterministic function of the mastered
// vocabulary; which triples each descriptor samples is not. A samplePerTask
// of zero or less takes the whole pool.
func (p *Planner) Plan(courseID string, lessonIDs []string, rule Rule, samplePerTask int) []PlanDescriptor {
	if rule == nil || len(lessonIDs) == 0 {
		return nil
	}
	descs := rule.descriptors(p, courseID, lessonIDs, samplePerTask)
	p.logger.Debug("planned practice tasks",
		"course", courseID,
		"lessons", len(lessonIDs),
		"descriptors", len(descs),
	)
	return descs
}

// pool returns the normalized union of the mastered triples of lessonIDs.
func (p *Planner) pool(courseID string, lessonIDs []string) []vocab.Triple {
	if p.source == nil {
		return nil
	}
	var all []vocab.Triple
	for _, id := range lessonIDs {
		all = append(all, vocab.Normalize(p.source.TriplesForLesson(courseID, id))...)
	}
	return vocab.Normalize(all)
}

// sample picks up to n triples uniformly without replacement.
func (p *Planner) sample(pool []vocab.Triple, n int) []vocab.Triple {
	if n <= 0 || n >= len(pool) {
		out := make([]vocab.Triple, len(pool))
		copy(out, pool)
		return out
	}
	out := make([]vocab.Triple, 0, n)
	for _, i := range p.rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}
