package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/lingoz/internal/practice"
	"github.com/abhisek/lingoz/internal/vocab"
)

// ErrNotFound is returned when an update targets a missing row.
var ErrNotFound = errors.New("not found")

// CourseState is the persisted task registry of one course.
type CourseState struct {
	Tasks []practice.Task
	Pools map[string][]vocab.Triple
}

// TaskRepo persists practice tasks and the pools bound to them.
type TaskRepo interface {
	// SaveCourse replaces every task and pool of the course.
	SaveCourse(ctx context.Context, courseID string, state CourseState) error

	// LoadCourse returns the stored tasks in registration order.
	LoadCourse(ctx context.Context, courseID string) (CourseState, error)

	// UpdateStatus changes one task's status. Returns ErrNotFound for an
	// unknown task.
	UpdateStatus(ctx context.Context, courseID, taskID string, status practice.Status, at time.Time) error

	// SavePools replaces the pools of the given tasks, leaving tasks and
	// statuses alone.
	SavePools(ctx context.Context, courseID string, pools map[string][]vocab.Triple) error

	// DeleteCourse removes every task of the course.
	DeleteCourse(ctx context.Context, courseID string) error
}

// MasteryRepo records which lesson items a learner has learned.
type MasteryRepo interface {
	// Mark records items as mastered. Already mastered items keep their
	// original timestamp.
	Mark(ctx context.Context, courseID, lessonID string, indices []int, at time.Time) error

	// Forget removes mastery records. No indices means the whole lesson.
	Forget(ctx context.Context, courseID, lessonID string, indices []int) error

	// MasteredIndices returns the mastered item indices of a lesson.
	MasteredIndices(ctx context.Context, courseID, lessonID string) (map[int]bool, error)

	// DeleteCourse removes every mastery record of the course.
	DeleteCourse(ctx context.Context, courseID string) error
}

// RoundEvent is the stored summary of a finished matching round.
type RoundEvent struct {
	ID         string
	CourseID   string
	LessonID   string
	TaskID     string
	Pairs      int
	Attempts   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// QueryOpts configures round queries.
type QueryOpts struct {
	CourseID string // empty = all courses
	Limit    int    // max results (0 = unlimited)
}

// RoundRepo provides append access to round summaries.
type RoundRepo interface {
	// AppendRound records a finished round. An empty ID gets a fresh one.
	AppendRound(ctx context.Context, ev RoundEvent) error

	// RoundSummaries returns rounds newest first.
	RoundSummaries(ctx context.Context, opts QueryOpts) ([]RoundEvent, error)
}
