package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn COURSE LESSON [INDEX...]",
	Short: "Record lesson items as learned",
	Long: "Record lesson items as learned. Indices are zero-based positions in " +
		"the lesson file. Learned items feed practice planning and matching rounds.",
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		forget, _ := cmd.Flags().GetBool("forget")
		if !all && len(args) == 2 {
			return fmt.Errorf("give item indices or --all")
		}
		if all && len(args) > 2 {
			return fmt.Errorf("use indices or --all, not both")
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
		lesson, err := e.lesson(course.ID, args[1])
		if err != nil {
			return err
		}

		var indices []int
		if all {
			for i := range lesson.Items {
				indices = append(indices, i)
			}
		} else {
			for _, a := range args[2:] {
				i, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid index %q", a)
				}
				if i < 0 || i >= len(lesson.Items) {
					return fmt.Errorf("index %d out of range: lesson %q has %d items", i, lesson.ID, len(lesson.Items))
				}
				indices = append(indices, i)
			}
		}

		ctx := cmd.Context()
		repo := e.store.MasteryRepo()
		if forget {
			if all {
				// No indices clears the whole lesson.
				indices = nil
			}
			if err := repo.Forget(ctx, course.ID, lesson.ID, indices); err != nil {
				return err
			}
		} else if err := repo.Mark(ctx, course.ID, lesson.ID, indices, time.Now()); err != nil {
			return err
		}

		mastered, err := repo.MasteredIndices(ctx, course.ID, lesson.ID)
		if err != nil {
			return err
		}
		e.logger.Info("mastery updated", "course", course.ID, "lesson", lesson.ID, "mastered", len(mastered))
		fmt.Printf("%s/%s: %d of %d items learned\n", course.ID, lesson.ID, len(mastered), len(lesson.Items))
		return nil
	},
}

func init() {
	learnCmd.Flags().Bool("all", false, "Apply to every item in the lesson")
	learnCmd.Flags().Bool("forget", false, "Remove the items from the learned set instead")
}
