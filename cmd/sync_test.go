package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoz/internal/config"
	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/logging"
	"github.com/abhisek/lingoz/internal/practice"
	"github.com/abhisek/lingoz/internal/store"
)

const greetingsCourse = `
lessons:
  - id: greetings
    items:
      - {native: hello, phonetic: konnichiwa}
      - {native: thanks, phonetic: arigatou}
      - {native: goodbye, phonetic: sayounara}
`

func testEnv(t *testing.T, contentDir string) *env {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "lingoz.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	catalog, err := content.Load(contentDir, nil)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Paths.ContentDir = contentDir
	cfg.Game.Seed = 1
	return newEnv(context.Background(), &cfg, logging.Discard(), dbPath, st, catalog)
}

func TestSyncOnce_RebindsStoredPools(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ja.yaml"), []byte(greetingsCourse), 0o644))
	e := testEnv(t, dir)
	ctx := context.Background()
	mastery := e.store.MasteryRepo()

	require.NoError(t, mastery.Mark(ctx, "ja", "greetings", []int{0}, time.Now()))
	lessons := e.catalog.LessonIDs("ja")
	e.registry.RegenerateTasks("ja", lessons, e.rule(len(lessons)), e.cfg.Planning.SamplePerTask, nil)
	require.NoError(t, e.persist(ctx, "ja"))

	final := practice.FinalDescriptorID("ja")
	require.Len(t, e.registry.Pool(final), 1)
	before := make(map[string]practice.Status)
	for _, task := range e.registry.Tasks("ja") {
		before[task.ID] = task.Status
	}

	require.NoError(t, mastery.Mark(ctx, "ja", "greetings", []int{1, 2}, time.Now()))
	require.NoError(t, syncOnce(ctx, e, "ja"))

	state, err := e.store.TaskRepo().LoadCourse(ctx, "ja")
	require.NoError(t, err)
	assert.Len(t, state.Pools[final], 3)
	require.Len(t, state.Tasks, len(before))
	for _, task := range state.Tasks {
		assert.Equal(t, before[task.ID], task.Status, "sync keeps statuses")
	}
}

func TestWatchLoop_PollReloadsCourses(t *testing.T) {
	dir := t.TempDir()
	e := testEnv(t, dir)
	require.Empty(t, e.catalog.Courses())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ja.yaml"), []byte(greetingsCourse), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// An unwatchable dir forces the poll fallback.
	missing := filepath.Join(dir, "missing")
	err := watchLoop(ctx, e, []string{missing}, 10*time.Millisecond, func() {
		if e.catalog.LessonIDs("ja") != nil {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"greetings"}, e.catalog.LessonIDs("ja"))
}

func TestWatchLoop_FileEventReloadsCourses(t *testing.T) {
	dir := t.TempDir()
	e := testEnv(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "ja.yaml"), []byte(greetingsCourse), 0o644)
	}()

	err := watchLoop(ctx, e, []string{dir}, time.Hour, func() {
		if e.catalog.LessonIDs("ja") != nil {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"greetings"}, e.catalog.LessonIDs("ja"))
}
