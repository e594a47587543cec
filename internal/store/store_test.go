package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/lingoz/internal/practice"
	"github.com/abhisek/lingoz/internal/vocab"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lingoz.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestPragmasApplied(t *testing.T) {
	s, _ := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()
	if err := s.MasteryRepo().Mark(ctx, "ja", "l1", []int{0}, time.Now()); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.MasteryRepo().MasteredIndices(ctx, "ja", "l1")
	if err != nil {
		t.Fatalf("MasteredIndices: %v", err)
	}
	if !got[0] {
		t.Errorf("mastery lost across reopen: %v", got)
	}
}

func sampleState(now time.Time) CourseState {
	return CourseState{
		Tasks: []practice.Task{
			{ID: "ja-ht-1", CourseID: "ja", LessonIndex: 1, Title: "Practice #1", Details: "3 words", Status: practice.StatusAvailable, UpdatedAt: now},
			{ID: "ja-ht-2", CourseID: "ja", LessonIndex: 2, Title: "Practice #2", Details: "1 word", Status: practice.StatusDone, UpdatedAt: now},
		},
		Pools: map[string][]vocab.Triple{
			"ja-ht-1": {
				{Native: "hello", Script: "こんにちは", Phonetic: "konnichiwa"},
				{Native: "thanks", Script: "ありがとう", Phonetic: "arigatou"},
				{Native: "bye", Script: "さようなら", Phonetic: "sayounara"},
			},
			"ja-ht-2": {{Native: "rice", Script: "ご飯", Phonetic: "gohan"}},
		},
	}
}

func TestTaskRepo_SaveAndLoad(t *testing.T) {
	s, _ := openTestStore(t)
	repo := s.TaskRepo()
	ctx := context.Background()
	now := time.UnixMilli(time.Now().UnixMilli())

	empty, err := repo.LoadCourse(ctx, "ja")
	if err != nil {
		t.Fatalf("LoadCourse empty: %v", err)
	}
	if len(empty.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(empty.Tasks))
	}

	want := sampleState(now)
	if err := repo.SaveCourse(ctx, "ja", want); err != nil {
		t.Fatalf("SaveCourse: %v", err)
	}

	got, err := repo.LoadCourse(ctx, "ja")
	if err != nil {
		t.Fatalf("LoadCourse: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(got.Tasks))
	}
	for i, task := range got.Tasks {
		w := want.Tasks[i]
		if task.ID != w.ID || task.Title != w.Title || task.Status != w.Status || task.LessonIndex != w.LessonIndex || task.Details != w.Details {
			t.Errorf("task %d = %+v, want %+v", i, task, w)
		}
		if !task.UpdatedAt.Equal(w.UpdatedAt) {
			t.Errorf("task %d updated_at = %v, want %v", i, task.UpdatedAt, w.UpdatedAt)
		}
		if task.CourseID != "ja" {
			t.Errorf("task %d course = %q", i, task.CourseID)
		}
	}
	for id, pool := range want.Pools {
		if len(got.Pools[id]) != len(pool) {
			t.Fatalf("pool %s = %v, want %v", id, got.Pools[id], pool)
		}
		for i := range pool {
			if got.Pools[id][i] != pool[i] {
				t.Errorf("pool %s[%d] = %+v, want %+v", id, i, got.Pools[id][i], pool[i])
			}
		}
	}
}

func TestTaskRepo_SaveReplacesCourse(t *testing.T) {
	s, _ := openTestStore(t)
	repo := s.TaskRepo()
	ctx := context.Background()
	now := time.Now()

	if err := repo.SaveCourse(ctx, "ja", sampleState(now)); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveCourse(ctx, "ko", sampleState(now)); err != nil {
		t.Fatal(err)
	}
	replacement := CourseState{Tasks: []practice.Task{{ID: "ja-ht-9", Title: "Practice #9", Status: practice.StatusAvailable, UpdatedAt: now}}}
	if err := repo.SaveCourse(ctx, "ja", replacement); err != nil {
		t.Fatal(err)
	}

	ja, _ := repo.LoadCourse(ctx, "ja")
	if len(ja.Tasks) != 1 || ja.Tasks[0].ID != "ja-ht-9" {
		t.Errorf("ja tasks = %+v", ja.Tasks)
	}
	if len(ja.Pools) != 0 {
		t.Errorf("old pools survived: %v", ja.Pools)
	}

	ko, _ := repo.LoadCourse(ctx, "ko")
	if len(ko.Tasks) != 2 {
		t.Errorf("other course touched: %d tasks", len(ko.Tasks))
	}
}

func TestTaskRepo_UpdateStatus(t *testing.T) {
	s, _ := openTestStore(t)
	repo := s.TaskRepo()
	ctx := context.Background()

	if err := repo.SaveCourse(ctx, "ja", sampleState(time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateStatus(ctx, "ja", "ja-ht-1", practice.StatusDone, time.Now()); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ := repo.LoadCourse(ctx, "ja")
	if got.Tasks[0].Status != practice.StatusDone {
		t.Errorf("status = %q, want done", got.Tasks[0].Status)
	}

	err := repo.UpdateStatus(ctx, "ja", "missing", practice.StatusDone, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus missing = %v, want ErrNotFound", err)
	}
}

func TestTaskRepo_SavePools(t *testing.T) {
	s, _ := openTestStore(t)
	repo := s.TaskRepo()
	ctx := context.Background()

	if err := repo.SaveCourse(ctx, "ja", sampleState(time.Now())); err != nil {
		t.Fatal(err)
	}
	fresh := map[string][]vocab.Triple{"ja-ht-1": {{Native: "water", Phonetic: "mizu"}}}
	if err := repo.SavePools(ctx, "ja", fresh); err != nil {
		t.Fatalf("SavePools: %v", err)
	}

	got, _ := repo.LoadCourse(ctx, "ja")
	if len(got.Pools["ja-ht-1"]) != 1 || got.Pools["ja-ht-1"][0].Native != "water" {
		t.Errorf("pool not replaced: %v", got.Pools["ja-ht-1"])
	}
	if len(got.Pools["ja-ht-2"]) != 1 {
		t.Errorf("untouched pool changed: %v", got.Pools["ja-ht-2"])
	}
	if got.Tasks[1].Status != practice.StatusDone {
		t.Errorf("status changed by SavePools")
	}
}

func TestMasteryRepo(t *testing.T) {
	s, _ := openTestStore(t)
	repo := s.MasteryRepo()
	ctx := context.Background()

	if err := repo.Mark(ctx, "ja", "l1", []int{0, 2, 2}, time.Now()); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	// Marking again is a no-op.
	if err := repo.Mark(ctx, "ja", "l1", []int{2, 3}, time.Now()); err != nil {
		t.Fatalf("Mark again: %v", err)
	}
	if err := repo.Mark(ctx, "ja", "l1", []int{-1}, time.Now()); err == nil {
		t.Error("expected error for negative index")
	}

	got, err := repo.MasteredIndices(ctx, "ja", "l1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || !got[0] || !got[2] || !got[3] {
		t.Errorf("mastered = %v, want {0,2,3}", got)
	}

	if err := repo.Forget(ctx, "ja", "l1", []int{2}); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	got, _ = repo.MasteredIndices(ctx, "ja", "l1")
	if len(got) != 2 || got[2] {
		t.Errorf("after forget = %v", got)
	}

	if err := repo.Forget(ctx, "ja", "l1", nil); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.MasteredIndices(ctx, "ja", "l1")
	if len(got) != 0 {
		t.Errorf("lesson not cleared: %v", got)
	}
}

func TestMasteryQuery(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	if err := s.MasteryRepo().Mark(ctx, "ja", "l1", []int{1}, time.Now()); err != nil {
		t.Fatal(err)
	}

	q := MasteryQuery{Repo: s.MasteryRepo()}
	var _ vocab.MasteryQuery = q

	if got := q.MasteredIndices("ja", "l1"); !got[1] {
		t.Errorf("MasteredIndices = %v", got)
	}

	s.Close()
	if got := q.MasteredIndices("ja", "l1"); len(got) != 0 {
		t.Errorf("closed store should read as empty, got %v", got)
	}
}

func TestRoundRepo(t *testing.T) {
	s, _ := openTestStore(t)
	repo := s.RoundRepo()
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	for i, course := range []string{"ja", "ko", "ja"} {
		ev := RoundEvent{
			CourseID:   course,
			LessonID:   "l1",
			Pairs:      3,
			Attempts:   3 + i,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if err := repo.AppendRound(ctx, ev); err != nil {
			t.Fatalf("AppendRound: %v", err)
		}
	}

	all, err := repo.RoundSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("rounds = %d, want 3", len(all))
	}
	if all[0].Attempts != 5 {
		t.Errorf("newest first: got attempts %d", all[0].Attempts)
	}
	if all[0].ID == "" {
		t.Error("expected generated id")
	}
	if !all[2].StartedAt.Equal(base) {
		t.Errorf("started_at = %v, want %v", all[2].StartedAt, base)
	}

	ja, _ := repo.RoundSummaries(ctx, QueryOpts{CourseID: "ja", Limit: 1})
	if len(ja) != 1 || ja[0].CourseID != "ja" || ja[0].Attempts != 5 {
		t.Errorf("filtered = %+v", ja)
	}
}

func TestAcquireLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lingoz.db")

	l, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := AcquireLock(path); !errors.Is(err, ErrLocked) {
		t.Errorf("second AcquireLock = %v, want ErrLocked", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	l2, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	l2.Release()
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LINGOZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "lingoz", "lingoz.db"); got != want {
		t.Errorf("DefaultDBPath = %q, want %q", got, want)
	}

	custom := filepath.Join(dir, "x", "custom.db")
	t.Setenv("LINGOZ_DB", custom)
	got, _ = DefaultDBPath()
	if got != custom {
		t.Errorf("LINGOZ_DB not honoured: %q", got)
	}
}

func TestResetCourse(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	now := time.UnixMilli(time.Now().UnixMilli())

	for _, course := range []string{"ja", "ko"} {
		if err := s.MasteryRepo().Mark(ctx, course, "l1", []int{0, 1}, now); err != nil {
			t.Fatalf("Mark %s: %v", course, err)
		}
	}
	if err := s.TaskRepo().SaveCourse(ctx, "ja", sampleState(now)); err != nil {
		t.Fatalf("SaveCourse: %v", err)
	}
	if err := s.RoundRepo().AppendRound(ctx, RoundEvent{CourseID: "ja", LessonID: "l1", Pairs: 3, Attempts: 4, StartedAt: now, FinishedAt: now}); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	if err := s.ResetCourse(ctx, "ja"); err != nil {
		t.Fatalf("ResetCourse: %v", err)
	}

	state, err := s.TaskRepo().LoadCourse(ctx, "ja")
	if err != nil {
		t.Fatalf("LoadCourse: %v", err)
	}
	if len(state.Tasks) != 0 || len(state.Pools) != 0 {
		t.Errorf("tasks survived reset: %+v", state)
	}
	if m, _ := s.MasteryRepo().MasteredIndices(ctx, "ja", "l1"); len(m) != 0 {
		t.Errorf("ja mastery = %v, want empty", m)
	}
	if m, _ := s.MasteryRepo().MasteredIndices(ctx, "ko", "l1"); len(m) != 2 {
		t.Errorf("ko mastery = %v, want untouched", m)
	}
	rounds, err := s.RoundRepo().RoundSummaries(ctx, QueryOpts{CourseID: "ja"})
	if err != nil {
		t.Fatalf("RoundSummaries: %v", err)
	}
	if len(rounds) != 1 {
		t.Errorf("rounds = %d, want history kept", len(rounds))
	}
}

func TestResetCourse_RollsBackOnFailure(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := s.MasteryRepo().Mark(ctx, "ja", "l1", []int{0}, now); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if _, err := s.DB().Exec("DROP TABLE task_pools"); err != nil {
		t.Fatalf("drop task_pools: %v", err)
	}

	if err := s.ResetCourse(ctx, "ja"); err == nil {
		t.Fatal("ResetCourse succeeded without task_pools")
	}
	m, err := s.MasteryRepo().MasteredIndices(ctx, "ja", "l1")
	if err != nil {
		t.Fatalf("MasteredIndices: %v", err)
	}
	if !m[0] {
		t.Errorf("mastery deleted by a failed reset: %v", m)
	}
}
