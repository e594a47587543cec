package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/config"
	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/logging"
	"github.com/abhisek/lingoz/internal/matching"
	"github.com/abhisek/lingoz/internal/practice"
	"github.com/abhisek/lingoz/internal/store"
	"github.com/abhisek/lingoz/internal/vocab"
)

// env bundles what a command needs: configuration, the store, the course
// catalog and a registry hydrated from the store on demand.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	dbPath   string
	store    *store.Store
	catalog  *content.Catalog
	source   vocab.Source
	rng      *rand.Rand
	registry *practice.Registry
	loaded   map[string]bool
}

// openEnv loads configuration, opens the store and reads the content dir.
// Callers must call close.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.Paths.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)

	catalog, err := content.Load(cfg.Paths.ContentDir, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load courses: %w", err)
	}

	return newEnv(ctx, cfg, logger, dbPath, st, catalog), nil
}

// newEnv wires the planner and registry over an opened store and catalog.
func newEnv(ctx context.Context, cfg *config.Config, logger *slog.Logger, dbPath string, st *store.Store, catalog *content.Catalog) *env {
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	e := &env{
		cfg:     cfg,
		logger:  logger,
		dbPath:  dbPath,
		store:   st,
		catalog: catalog,
		rng:     rng,
		loaded:  make(map[string]bool),
	}
	e.source = vocab.MasteredSource{
		Items:   e,
		Mastery: store.MasteryQuery{Ctx: ctx, Repo: st.MasteryRepo(), Logger: logger},
	}
	e.registry = practice.NewRegistry(practice.NewPlanner(e.source, rng, logger))
	e.registry.Logger = logger
	return e
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("content"); dir != "" {
		cfg.Paths.ContentDir = dir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if err := cfg.SetLogLevel(level); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	return cfg, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close store", "error", err)
	}
}

// LessonItems implements vocab.ItemLister over the current catalog, so a
// reloaded catalog is picked up by the planner.
func (e *env) LessonItems(courseID, lessonID string) []vocab.Triple {
	return e.catalog.LessonItems(courseID, lessonID)
}

// reloadCatalog rereads the content dir, keeping the old catalog when the
// new one does not load.
func reloadCatalog(e *env) {
	catalog, err := content.Load(e.catalog.Dir(), e.logger)
	if err != nil {
		e.logger.Warn("reload courses", "error", err)
		return
	}
	e.catalog = catalog
}

// lock takes the single-writer lock for the database. Commands that change
// learner state hold it for their whole run.
func (e *env) lock() (func(), error) {
	l, err := store.AcquireLock(e.dbPath)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("lock acquired", "path", l.Path())
	return func() {
		if err := l.Release(); err != nil {
			e.logger.Warn("release lock", "error", err)
		}
	}, nil
}

// course resolves a course id given on the command line.
func (e *env) course(id string) (content.Course, error) {
	c, ok := e.catalog.Course(id)
	if !ok {
		return content.Course{}, fmt.Errorf("unknown course %q (see `lingoz courses`)", id)
	}
	return c, nil
}

// lesson resolves a lesson id within a course.
func (e *env) lesson(courseID, lessonID string) (content.Lesson, error) {
	l, ok := e.catalog.Lesson(courseID, lessonID)
	if !ok {
		return content.Lesson{}, fmt.Errorf("unknown lesson %q in course %q", lessonID, courseID)
	}
	return l, nil
}

// rule builds the planning rule for a course with n lessons.
func (e *env) rule(n int) practice.Rule {
	finalAfter := e.cfg.Planning.FinalAfter
	if finalAfter == 0 {
		finalAfter = n
	}
	return practice.Chain(
		practice.EveryNLessons(e.cfg.Planning.EveryNLessons),
		practice.FinalAfter(finalAfter),
	)
}

// hydrate loads the course's stored tasks into the registry once.
func (e *env) hydrate(ctx context.Context, courseID string) error {
	if e.loaded[courseID] {
		return nil
	}
	state, err := e.store.TaskRepo().LoadCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	e.registry.Restore(courseID, state.Tasks, state.Pools)
	e.loaded[courseID] = true
	e.logger.Debug("registry hydrated", "course", courseID, "tasks", len(state.Tasks))
	return nil
}

// persist writes the registry's tasks and pools for the course.
func (e *env) persist(ctx context.Context, courseID string) error {
	state := store.CourseState{
		Tasks: e.registry.Tasks(courseID),
		Pools: e.registry.Pools(courseID),
	}
	if err := e.store.TaskRepo().SaveCourse(ctx, courseID, state); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (e *env) matchingConfig() matching.Config {
	return matching.Config{
		VisiblePairs:    e.cfg.Game.VisiblePairs,
		MismatchDelay:   e.cfg.Game.MismatchDelay.Std(),
		CompletionDelay: e.cfg.Game.CompletionDelay.Std(),
		RevealDelay:     e.cfg.Game.RevealDelay.Std(),
	}
}

// plainOutput reports whether stdout is not a terminal, in which case
// output is rendered without colour.
func plainOutput() bool {
	fd := os.Stdout.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
