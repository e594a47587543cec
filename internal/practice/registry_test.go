package practice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoz/internal/vocab"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testRegistry(src vocab.Source) *Registry {
	r := NewRegistry(testPlanner(src))
	r.Now = func() time.Time { return fixedNow }
	return r
}

func threeChunkSource() fakeSource {
	return fakeSource{
		"c/l1": words("a", 4),
		"c/l2": words("b", 4),
		"c/l3": words("c", 4),
	}
}

func TestRegenerateTasks_BindsPoolsAndIDs(t *testing.T) {
	r := testRegistry(threeChunkSource())

	var titles []string
	tasks := r.RegenerateTasks("c", lessons(3), EveryNLessons(1), 3, func(title string, triples []vocab.Triple, index int) Task {
		titles = append(titles, title)
		return Task{Title: title, LessonIndex: index, Status: StatusAvailable, Details: "x"}
	})

	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"Practice #1", "Practice #2", "Practice #3"}, titles)
	for i, task := range tasks {
		assert.Equal(t, DescriptorID("c", i+1), task.ID)
		assert.Equal(t, "c", task.CourseID)
		assert.Equal(t, i+1, task.LessonIndex)
		assert.Len(t, r.Pool(task.ID), 3)
	}
}

func TestRegenerateTasks_KeepsFactoryIDs(t *testing.T) {
	r := testRegistry(threeChunkSource())
	tasks := r.RegenerateTasks("c", lessons(1), EveryNLessons(1), 3, func(title string, _ []vocab.Triple, index int) Task {
		return Task{ID: "custom", CourseID: "other", Title: title, LessonIndex: index}
	})
	require.Len(t, tasks, 1)
	assert.Equal(t, "custom", tasks[0].ID)
	assert.Equal(t, "other", tasks[0].CourseID)
	assert.Len(t, r.Pool("custom"), 3)
}

func TestRegenerateTasks_ReplacesPreviousList(t *testing.T) {
	r := testRegistry(threeChunkSource())
	r.RegenerateTasks("c", lessons(3), EveryNLessons(1), 3, nil)
	r.MarkDone("c-ht-1", "c")

	tasks := r.RegenerateTasks("c", lessons(3), EveryNLessons(3), 3, nil)
	require.Len(t, tasks, 1)
	assert.Equal(t, StatusAvailable, tasks[0].Status, "regenerated tasks do not inherit old status")
	assert.Empty(t, r.Pool("c-ht-2"), "pools of discarded tasks are dropped")
	assert.Equal(t, Progress{Done: 0, Total: 1}, r.Progress("c"))
}

func TestRegenerateTasks_DefaultFactory(t *testing.T) {
	r := testRegistry(threeChunkSource())
	tasks := r.RegenerateTasks("c", lessons(1), EveryNLessons(1), 0, nil)
	require.Len(t, tasks, 1)
	assert.Equal(t, StatusAvailable, tasks[0].Status)
	assert.Equal(t, "4 words", tasks[0].Details)
	assert.Equal(t, fixedNow, tasks[0].UpdatedAt)
}

func TestSyncFromProgress_RebindsOnlyMatchingTasks(t *testing.T) {
	src := threeChunkSource()
	r := testRegistry(src)
	r.Restore("c", []Task{
		{ID: "c-ht-1", Title: "Practice #1", Status: StatusDone},
		{ID: "legacy", Title: "Old task", Status: StatusAvailable},
	}, map[string][]vocab.Triple{
		"c-ht-1": words("stale", 1),
		"legacy": words("keep", 2),
	})

	// Mastery grew: lesson 1 now has more words.
	src["c/l1"] = words("a", 8)

	n := r.SyncFromProgress("c", lessons(3), EveryNLessons(1), 6)
	assert.Equal(t, 1, n)

	pool := r.Pool("c-ht-1")
	assert.Len(t, pool, 6)
	assert.True(t, isSubset(pool, src["c/l1"]))
	assert.Equal(t, words("keep", 2), r.Pool("legacy"), "tasks outside the plan are untouched")

	task, ok := r.Task("c", "c-ht-1")
	require.True(t, ok)
	assert.Equal(t, StatusDone, task.Status, "sync never touches status")
	assert.Len(t, r.Tasks("c"), 2, "sync never adds tasks")
}

func TestMarkDone(t *testing.T) {
	r := testRegistry(threeChunkSource())
	r.RegenerateTasks("c", lessons(3), EveryNLessons(1), 3, DefaultTaskFactory(func() time.Time { return time.Time{} }))

	assert.True(t, r.MarkDone("c-ht-2", "c"))
	task, _ := r.Task("c", "c-ht-2")
	assert.Equal(t, StatusDone, task.Status)
	assert.Equal(t, fixedNow, task.UpdatedAt)

	assert.False(t, r.MarkDone("c-ht-9", "c"))
	assert.False(t, r.MarkDone("c-ht-1", "unknown-course"))
	assert.Equal(t, Progress{Done: 1, Total: 3}, r.Progress("c"))
}

func TestProgress_UnknownCourse(t *testing.T) {
	r := testRegistry(fakeSource{})
	p := r.Progress("nope")
	assert.Equal(t, Progress{}, p)
	assert.Zero(t, p.Fraction())
}

func TestFirstAvailableTask(t *testing.T) {
	r := testRegistry(threeChunkSource())

	_, ok := r.FirstAvailableTask("c")
	assert.False(t, ok, "no tasks yet")

	r.RegenerateTasks("c", lessons(3), EveryNLessons(1), 3, nil)
	r.MarkDone("c-ht-1", "c")

	task, ok := r.FirstAvailableTask("c")
	require.True(t, ok)
	assert.Equal(t, "c-ht-2", task.ID)

	r.MarkDone("c-ht-2", "c")
	r.MarkDone("c-ht-3", "c")
	task, ok = r.FirstAvailableTask("c")
	require.True(t, ok)
	assert.Equal(t, "c-ht-1", task.ID, "falls back to the first task when all are done")
}

func TestAvailability_LockedUntilMaterialized(t *testing.T) {
	src := fakeSource{"c/l1": words("a", 4)}
	r := testRegistry(src)

	avail := r.Availability("c", lessons(1), EveryNLessons(1), 10, 6)
	require.Len(t, avail, 1)
	assert.Equal(t, StatusLocked, avail[0].Status)

	r.Restore("c", []Task{{ID: "c-ht-1", Status: StatusInProgress}}, nil)
	avail = r.Availability("c", lessons(1), EveryNLessons(1), 10, 6)
	require.Len(t, avail, 1)
	assert.Equal(t, StatusAvailable, avail[0].Status)

	r.MarkDone("c-ht-1", "c")
	avail = r.Availability("c", lessons(1), EveryNLessons(1), 10, 6)
	assert.Equal(t, StatusDone, avail[0].Status)
}

func TestAvailability_KindsCycleAndFinalIsMixed(t *testing.T) {
	src := fakeSource{}
	for i, id := range lessons(4) {
		src["c/"+id] = words(id, 3+i)
	}
	r := testRegistry(src)

	avail := r.Availability("c", lessons(4), Chain(EveryNLessons(1), FinalAfter(4)), 3, 3)
	require.Len(t, avail, 5)

	want := []GameKind{KindMatching, KindQuiz, KindTranscription, KindMatching, KindMixed}
	for i, a := range avail {
		assert.Equal(t, want[i], a.Kind, "descriptor %d (%s)", i, a.Descriptor.ID)
		assert.Equal(t, StatusAvailable, a.Status)
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusDone, ParseStatus("done"))
	assert.Equal(t, StatusInProgress, ParseStatus("in_progress"))
	assert.Equal(t, StatusAvailable, ParseStatus("bogus"))
}
