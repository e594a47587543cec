package practice

import (
	"fmt"
	"strings"

	"github.com/abhisek/lingoz/internal/vocab"
)

// PlanDescriptor is a planned practice task that has not been materialized
// yet. It carries the sampled pool the task would be bound to.
type PlanDescriptor struct {
	ID      string
	Title   string
	Index   int
	Triples []vocab.Triple
}

// IsFinal reports whether the descriptor is the course's final practice.
func (d PlanDescriptor) IsFinal() bool {
	return strings.HasSuffix(d.ID, finalSuffix)
}

const finalSuffix = "-ht-final"

// FinalMinSample is the minimum number of triples sampled for the final task.
const FinalMinSample = 12

// DescriptorID returns the id of the index-th practice task of a course.
func DescriptorID(courseID string, index int) string {
	return fmt.Sprintf("%s-ht-%d", courseID, index)
}

// FinalDescriptorID returns the id of the final practice task of a course.
func FinalDescriptorID(courseID string) string {
	return courseID + finalSuffix
}

// Rule groups a course's lessons into practice tasks.
type Rule interface {
	descriptors(p *Planner, courseID string, lessonIDs []string, samplePerTask int) []PlanDescriptor
}

// EveryNLessons emits one task per n consecutive lessons. Chunks whose
// mastered pool is empty are skipped without consuming an index.
func EveryNLessons(n int) Rule {
	return everyN{n: n}
}

// FinalAfter emits a single final task drawing from every lesson once the
// course has at least total lessons.
func FinalAfter(total int) Rule {
	return finalAfter{total: total}
}

// Chain concatenates the descriptors of several rules in order.
func Chain(rules ...Rule) Rule {
	return chain(rules)
}

type everyN struct{ n int }

func (r everyN) descriptors(p *Planner, courseID string, lessonIDs []string, samplePerTask int) []PlanDescriptor {
	if r.n < 1 {
		return nil
	}

	var out []PlanDescriptor
	index := 1
	for start := 0; start < len(lessonIDs); start += r.n {
		end := start + r.n
		if end > len(lessonIDs) {
			end = len(lessonIDs)
		}

		pool := p.pool(courseID, lessonIDs[start:end])
		if len(pool) == 0 {
			continue
		}

		out = append(out, PlanDescriptor{
			ID:      DescriptorID(courseID, index),
			Title:   fmt.Sprintf("Practice #%d", index),
			Index:   index,
			Triples: p.sample(pool, samplePerTask),
		})
		index++
	}
	return out
}

type finalAfter struct{ total int }

func (r finalAfter) descriptors(p *Planner, courseID string, lessonIDs []string, samplePerTask int) []PlanDescriptor {
	if len(lessonIDs) < r.total {
		return nil
	}

	pool := p.pool(courseID, lessonIDs)
	if len(pool) == 0 {
		return nil
	}

	size := samplePerTask
	if size < FinalMinSample {
		size = FinalMinSample
	}
	return []PlanDescriptor{{
		ID:      FinalDescriptorID(courseID),
		Title:   "Final Practice",
		Index:   len(lessonIDs),
		Triples: p.sample(pool, size),
	}}
}

type chain []Rule

func (c chain) descriptors(p *Planner, courseID string, lessonIDs []string, samplePerTask int) []PlanDescriptor {
	var out []PlanDescriptor
	for _, r := range c {
		if r == nil {
			continue
		}
		out = append(out, r.descriptors(p, courseID, lessonIDs, samplePerTask)...)
	}
	return out
}
