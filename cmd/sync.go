package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/store"
)

const watchDebounce = 300 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync COURSE",
	Short: "Rebind task pools to the current learned vocabulary",
	Long: "Replan the course and refresh the vocabulary bound to each existing " +
		"task. Task statuses are never changed. With --watch, sync again " +
		"whenever course files or the database change.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		course, err := e.course(args[0])
		if err != nil {
			return err
		}

		if err := syncOnce(cmd.Context(), e, course.ID); err != nil {
			return err
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return nil
		}
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Resync only when learned vocabulary changed. Our own writes also
		// raise database events.
		last := learnedFingerprint(e, course.ID)
		dirs := []string{e.catalog.Dir(), filepath.Dir(e.dbPath)}
		return watchLoop(ctx, e, dirs, interval, func() {
			fp := learnedFingerprint(e, course.ID)
			if fp == last {
				return
			}
			err := syncOnce(ctx, e, course.ID)
			switch {
			case errors.Is(err, store.ErrLocked):
				// Retried on the next event or poll.
				e.logger.Info("database busy, sync deferred", "course", course.ID)
				return
			case err != nil:
				e.logger.Warn("sync failed", "course", course.ID, "error", err)
				return
			}
			last = fp
		})
	},
}

func init() {
	syncCmd.Flags().Bool("watch", false, "Keep running and sync on changes")
	syncCmd.Flags().Duration("interval", time.Minute, "Fallback poll interval while watching")
}

// syncOnce takes the lock, refreshes the registry from the store and
// rebinds the course's pools.
func syncOnce(ctx context.Context, e *env, courseID string) error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	defer unlock()

	// Always reread: other processes may have changed tasks since the last
	// pass.
	e.loaded[courseID] = false
	if err := e.hydrate(ctx, courseID); err != nil {
		return err
	}

	lessons := e.catalog.LessonIDs(courseID)
	n := e.registry.SyncFromProgress(courseID, lessons, e.rule(len(lessons)), e.cfg.Planning.SamplePerTask)
	if err := e.store.TaskRepo().SavePools(ctx, courseID, e.registry.Pools(courseID)); err != nil {
		return fmt.Errorf("save pools: %w", err)
	}

	e.logger.Info("synced", "course", courseID, "rebound", n)
	fmt.Printf("%s: %d task pools rebound\n", courseID, n)
	return nil
}

// learnedFingerprint summarizes the learned vocabulary of every lesson.
func learnedFingerprint(e *env, courseID string) string {
	var sb strings.Builder
	for _, lessonID := range e.catalog.LessonIDs(courseID) {
		sb.WriteString(lessonID)
		sb.WriteByte('\n')
		for _, t := range e.source.TriplesForLesson(courseID, lessonID) {
			sb.WriteString(t.PairID())
			sb.WriteByte('\t')
			sb.WriteString(t.Script)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// watchLoop rereads the course files and calls onChange after filesystem
// activity in dirs settles, and at least every interval. Without fsnotify it
// polls.
func watchLoop(ctx context.Context, e *env, dirs []string, interval time.Duration, onChange func()) error {
	poll := time.NewTicker(interval)
	defer poll.Stop()

	changed := func() {
		reloadCatalog(e)
		onChange()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		e.logger.Warn("fsnotify unavailable, polling", "error", err)
		return pollLoop(ctx, poll.C, changed)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			e.logger.Warn("watch failed, polling", "dir", dir, "error", err)
			return pollLoop(ctx, poll.C, changed)
		}
	}

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			// Lock files change on every pass, including ours.
			if filepath.Ext(ev.Name) == ".lock" {
				continue
			}
			debounce.Reset(watchDebounce)
		case <-debounce.C:
			changed()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watcher error", "error", err)
		case <-poll.C:
			changed()
		}
	}
}

func pollLoop(ctx context.Context, tick <-chan time.Time, onChange func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			onChange()
		}
	}
}
