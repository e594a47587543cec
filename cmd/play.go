package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/matching"
	"github.com/abhisek/lingoz/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play COURSE [LESSON]",
	Short: "Play a matching round",
	Long: "Play a matching round over a lesson's learned words, or over a practice " +
		"task's words with --task. Tap cards by typing `l N` or `r N`, `q` to quit.",
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, _ := cmd.Flags().GetString("task")
		if (taskID == "") == (len(args) == 1) {
			return fmt.Errorf("give either a LESSON or --task")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		unlock, err := e.lock()
		if err != nil {
			return err
		}
		defer unlock()

		course, err := e.course(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine := matching.NewEngine(e.source, e.rng, e.matchingConfig(), e.logger)
		if taskID != "" {
			if err := e.hydrate(ctx, course.ID); err != nil {
				return err
			}
			t, ok := e.registry.Task(course.ID, taskID)
			if !ok {
				return fmt.Errorf("unknown task %q in course %q", taskID, course.ID)
			}
			engine.BuildTaskRound(course.ID, t.ID, e.registry.Pool(t.ID), true)
			fmt.Printf("%s: %s\n", t.ID, t.Title)
		} else {
			lesson, err := e.lesson(course.ID, args[1])
			if err != nil {
				return err
			}
			engine.BuildRound(course.ID, lesson.ID, true)
			fmt.Printf("%s/%s\n", course.ID, lesson.ID)
		}

		if engine.IsEmpty() {
			fmt.Println("No learned words to play with yet.")
			return nil
		}

		summary, finished, err := playRound(ctx, engine, os.Stdin, os.Stdout, plainOutput())
		if err != nil {
			return err
		}
		if !finished {
			fmt.Println("Round abandoned.")
			return nil
		}

		ev := store.RoundEvent{
			ID:         summary.RoundID,
			CourseID:   summary.CourseID,
			LessonID:   summary.LessonID,
			TaskID:     summary.TaskID,
			Pairs:      summary.Pairs,
			Attempts:   summary.Attempts,
			StartedAt:  summary.StartedAt,
			FinishedAt: summary.FinishedAt,
		}
		if err := e.store.RoundRepo().AppendRound(ctx, ev); err != nil {
			return err
		}
		e.logger.Info("round finished", "round", summary.RoundID, "pairs", summary.Pairs, "attempts", summary.Attempts)

		if summary.TaskID != "" {
			if err := markTaskDone(cmd, e, course.ID, summary.TaskID); err != nil {
				return err
			}
		}

		fmt.Printf("Done! %d pairs in %d attempts (%.0f%% accuracy)\n",
			summary.Pairs, summary.Attempts, summary.Accuracy()*100)
		return nil
	},
}

func init() {
	playCmd.Flags().String("task", "", "Play the words bound to a practice task")
}
