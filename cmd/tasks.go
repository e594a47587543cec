package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/practice"
	"github.com/abhisek/lingoz/internal/ui/components"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage practice tasks",
}

var tasksRegenerateCmd = &cobra.Command{
	Use:   "regenerate COURSE",
	Short: "Replan the course and replace its task list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		ctx := cmd.Context()
		if err := e.hydrate(ctx, course.ID); err != nil {
			return err
		}

		lessons := e.catalog.LessonIDs(course.ID)
		tasks := e.registry.RegenerateTasks(course.ID, lessons, e.rule(len(lessons)), e.cfg.Planning.SamplePerTask, nil)
		if err := e.persist(ctx, course.ID); err != nil {
			return err
		}

		e.logger.Info("tasks regenerated", "course", course.ID, "tasks", len(tasks))
		printTasks(tasks, e.registry.Progress(course.ID))
		return nil
	},
}

var tasksListCmd = &cobra.Command{
	Use:   "list COURSE",
	Short: "List the course's practice tasks",
	Args:  cobra.ExactArgs(1),
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
		if err := e.hydrate(cmd.Context(), course.ID); err != nil {
			return err
		}

		printTasks(e.registry.Tasks(course.ID), e.registry.Progress(course.ID))
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done COURSE TASK",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		ctx := cmd.Context()
		if err := e.hydrate(ctx, course.ID); err != nil {
			return err
		}

		if err := markTaskDone(cmd, e, course.ID, args[1]); err != nil {
			return err
		}
		p := e.registry.Progress(course.ID)
		fmt.Printf("%s done (%d/%d)\n", args[1], p.Done, p.Total)
		return nil
	},
}

var tasksNextCmd = &cobra.Command{
	Use:   "next COURSE",
	Short: "Show the first task that is not done",
	Args:  cobra.ExactArgs(1),
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
		if err := e.hydrate(cmd.Context(), course.ID); err != nil {
			return err
		}

		t, ok := e.registry.FirstAvailableTask(course.ID)
		if !ok {
			fmt.Println("No tasks. Run `lingoz tasks regenerate` first.")
			return nil
		}
		fmt.Printf("%s  %s  (%s, %s)\n", t.ID, t.Title, t.Details, t.Status)
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksRegenerateCmd)
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksNextCmd)
}

// markTaskDone updates the task in the registry and the store.
func markTaskDone(cmd *cobra.Command, e *env, courseID, taskID string) error {
	if !e.registry.MarkDone(taskID, courseID) {
		return fmt.Errorf("unknown task %q in course %q", taskID, courseID)
	}
	t, _ := e.registry.Task(courseID, taskID)
	if err := e.store.TaskRepo().UpdateStatus(cmd.Context(), courseID, taskID, practice.StatusDone, t.UpdatedAt); err != nil {
		return err
	}
	e.logger.Info("task done", "course", courseID, "task", taskID)
	return nil
}

func printTasks(tasks []practice.Task, p practice.Progress) {
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}
	out := newListing("ID", "Title", "Lessons", "Words", "Status").rightAlign(2, 3)
	for _, t := range tasks {
		out.add(t.ID, t.Title, t.LessonIndex, t.Details, string(t.Status))
	}
	fmt.Println(out)

	bar := components.NewProgressBar(fmt.Sprintf("%d/%d done", p.Done, p.Total), p.Fraction(), true, 50)
	bar.Plain = plainOutput()
	fmt.Println(bar.View())
}
