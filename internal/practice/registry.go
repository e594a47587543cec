package practice

import (
	"log/slog"
	"time"

	"github.com/abhisek/lingoz/internal/vocab"
)

// GameKind labels the mini-game a planned task is played with.
type GameKind string

const (
	KindMatching      GameKind = "matching"
	KindQuiz          GameKind = "quiz"
	KindTranscription GameKind = "transcription"
	// KindMixed is reserved for the final task.
	KindMixed GameKind = "mixed"
)

// gameKindCycle is assigned to descriptors by plan position.
var gameKindCycle = []GameKind{KindMatching, KindQuiz, KindTranscription}

// KindForIndex returns the game kind of the i-th (0-based) planned descriptor.
func KindForIndex(i int) GameKind {
	if i < 0 {
		i = -i
	}
	return gameKindCycle[i%len(gameKindCycle)]
}

// Availability is a planned descriptor with its computed lock state.
type Availability struct {
	Descriptor PlanDescriptor
	Status     Status
	Kind       GameKind
}

// Registry holds the materialized tasks of each course and the vocabulary
// pools bound to them. It is not safe for concurrent use.
type Registry struct {
	planner *Planner
	tasks   map[string][]*Task // course id -> tasks in registration order
	pools   map[string][]vocab.Triple

	// Now stamps status changes.
	Now    func() time.Time
	Logger *slog.Logger
}

// NewRegistry creates an empty Registry that plans with planner.
func NewRegistry(planner *Planner) *Registry {
	return &Registry{
		planner: planner,
		tasks:   make(map[string][]*Task),
		pools:   make(map[string][]vocab.Triple),
		Now:     time.Now,
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// RegenerateTasks replans the course and replaces its whole task list with
// one task per descriptor, each bound to the descriptor's pool.
//
// The factory's course id and task id are kept when set; otherwise the
// course id and descriptor id are filled in.
func (r *Registry) RegenerateTasks(courseID string, lessonIDs []string, rule Rule, samplePerTask int, makeTask TaskFactory) []Task {
	if makeTask == nil {
		makeTask = DefaultTaskFactory(r.Now)
	}
	descs := r.planner.Plan(courseID, lessonIDs, rule, samplePerTask)

	for _, old := range r.tasks[courseID] {
		delete(r.pools, old.ID)
	}

	tasks := make([]*Task, 0, len(descs))
	for _, d := range descs {
		t := makeTask(d.Title, d.Triples, d.Index)
		if t.ID == "" {
			t.ID = d.ID
		}
		if t.CourseID == "" {
			t.CourseID = courseID
		}
		tasks = append(tasks, &t)
		r.pools[t.ID] = copyTriples(d.Triples)
	}
	r.tasks[courseID] = tasks

	r.Logger.Debug("regenerated tasks", "course", courseID, "tasks", len(tasks))
	return r.Tasks(courseID)
}

// SyncFromProgress replans the course and rebinds the pool of every
// registered task whose id appears in the fresh plan. Other tasks are left
// untouched and statuses never change. It returns the number of pools
// rebound.
func (r *Registry) SyncFromProgress(courseID string, lessonIDs []string, rule Rule, samplePerTask int) int {
	descs := r.planner.Plan(courseID, lessonIDs, rule, samplePerTask)
	fresh := make(map[string][]vocab.Triple, len(descs))
	for _, d := range descs {
		fresh[d.ID] = d.Triples
	}

	rebound := 0
	for _, t := range r.tasks[courseID] {
		if triples, ok := fresh[t.ID]; ok {
			r.pools[t.ID] = copyTriples(triples)
			rebound++
		}
	}

	r.Logger.Debug("synced task pools", "course", courseID, "rebound", rebound)
	return rebound
}

// MarkDone sets a task's status to done. It reports whether the task was
// found; an unknown task is a no-op.
func (r *Registry) MarkDone(taskID, courseID string) bool {
	t := r.find(courseID, taskID)
	if t == nil {
		return false
	}
	t.Status = StatusDone
	t.UpdatedAt = r.Now()
	return true
}

// Progress counts done and total tasks of a course.
func (r *Registry) Progress(courseID string) Progress {
	var p Progress
	for _, t := range r.tasks[courseID] {
		p.Total++
		if t.Status == StatusDone {
			p.Done++
		}
	}
	return p
}

// FirstAvailableTask returns the first task not yet done, falling back to
// the first task when all are done. ok is false for a course without tasks.
func (r *Registry) FirstAvailableTask(courseID string) (Task, bool) {
	tasks := r.tasks[courseID]
	if len(tasks) == 0 {
		return Task{}, false
	}
	for _, t := range tasks {
		if t.Status != StatusDone {
			return *t, true
		}
	}
	return *tasks[0], true
}

// Availability plans the course and computes each descriptor's status and
// game kind. A materialized task is available (or done) whatever its pool
// size; an unmaterialized descriptor needs at least minTriples triples.
func (r *Registry) Availability(courseID string, lessonIDs []string, rule Rule, samplePerTask, minTriples int) []Availability {
	descs := r.planner.Plan(courseID, lessonIDs, rule, samplePerTask)
	out := make([]Availability, 0, len(descs))

	for i, d := range descs {
		a := Availability{Descriptor: d, Kind: KindForIndex(i)}
		if d.IsFinal() {
			a.Kind = KindMixed
		}

		switch t := r.find(courseID, d.ID); {
		case t != nil && t.Status == StatusDone:
			a.Status = StatusDone
		case t != nil:
			a.Status = StatusAvailable
		case len(d.Triples) >= minTriples:
			a.Status = StatusAvailable
		default:
			a.Status = StatusLocked
		}
		out = append(out, a)
	}
	return out
}

// Tasks returns a copy of the course's tasks in registration order.
func (r *Registry) Tasks(courseID string) []Task {
	tasks := r.tasks[courseID]
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, *t)
	}
	return out
}

// Task looks up a registered task.
func (r *Registry) Task(courseID, taskID string) (Task, bool) {
	t := r.find(courseID, taskID)
	if t == nil {
		return Task{}, false
	}
	return *t, true
}

// Pool returns a copy of the triples bound to a task.
func (r *Registry) Pool(taskID string) []vocab.Triple {
	return copyTriples(r.pools[taskID])
}

// Restore replaces the course's tasks and pools with previously stored
// state, for hosts that persist the registry between runs.
func (r *Registry) Restore(courseID string, tasks []Task, pools map[string][]vocab.Triple) {
	for _, old := range r.tasks[courseID] {
		delete(r.pools, old.ID)
	}
	restored := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.CourseID == "" {
			t.CourseID = courseID
		}
		restored = append(restored, &t)
		if pool, ok := pools[t.ID]; ok {
			r.pools[t.ID] = copyTriples(pool)
		}
	}
	r.tasks[courseID] = restored
}

// Pools returns a copy of every pool bound to the course's tasks.
func (r *Registry) Pools(courseID string) map[string][]vocab.Triple {
	out := make(map[string][]vocab.Triple)
	for _, t := range r.tasks[courseID] {
		if pool, ok := r.pools[t.ID]; ok {
			out[t.ID] = copyTriples(pool)
		}
	}
	return out
}

func (r *Registry) find(courseID, taskID string) *Task {
	for _, t := range r.tasks[courseID] {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}

func copyTriples(in []vocab.Triple) []vocab.Triple {
	if in == nil {
		return nil
	}
	out := make([]vocab.Triple, len(in))
	copy(out, in)
	return out
}
