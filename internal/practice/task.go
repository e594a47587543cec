package practice

import (
	"fmt"
	"time"

	"github.com/abhisek/lingoz/internal/vocab"
)

// Status is the lifecycle state of a practice task.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusAvailable  Status = "available"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// ParseStatus converts a stored status string. Unknown values map to
// StatusAvailable.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusLocked, StatusAvailable, StatusInProgress, StatusDone:
		return Status(s)
	}
	return StatusAvailable
}

// Task is a materialized practice task.
type Task struct {
	ID          string
	CourseID    string
	LessonIndex int
	Title       string
	Details     string
	Status      Status
	UpdatedAt   time.Time
}

// TaskFactory builds the concrete task for a planned descriptor.
type TaskFactory func(title string, triples []vocab.Triple, index int) Task

// DefaultTaskFactory returns a factory producing available tasks stamped
// with now().
func DefaultTaskFactory(now func() time.Time) TaskFactory {
	if now == nil {
		now = time.Now
	}
	return func(title string, triples []vocab.Triple, index int) Task {
		return Task{
			LessonIndex: index,
			Title:       title,
			Details:     wordCount(len(triples)),
			Status:      StatusAvailable,
			UpdatedAt:   now(),
		}
	}
}

func wordCount(n int) string {
	if n == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", n)
}

// Progress counts finished tasks of a course.
type Progress struct {
	Done  int
	Total int
}

// Fraction returns Done/Total, or 0 for a course without tasks.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}
