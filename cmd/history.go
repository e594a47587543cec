package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent matching rounds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		course, _ := cmd.Flags().GetString("course")
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if course != "" {
			c, err := e.course(course)
			if err != nil {
				return err
			}
			course = c.ID
		}

		rounds, err := e.store.RoundRepo().RoundSummaries(cmd.Context(), store.QueryOpts{CourseID: course, Limit: limit})
		if err != nil {
			return err
		}
		if len(rounds) == 0 {
			fmt.Println("No rounds played yet.")
			return nil
		}

		out := newListing("Finished", "Course", "Lesson/Task", "Pairs", "Attempts", "Accuracy", "Time").
			rightAlign(3, 4, 5, 6)
		for _, r := range rounds {
			target := r.LessonID
			if r.TaskID != "" {
				target = r.TaskID
			}
			acc := 0.0
			if r.Attempts > 0 {
				acc = float64(r.Pairs) / float64(r.Attempts) * 100
			}
			out.add(
				r.FinishedAt.Local().Format("2006-01-02 15:04"),
				r.CourseID,
				target,
				r.Pairs,
				r.Attempts,
				fmt.Sprintf("%.0f%%", acc),
				r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String(),
			)
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("course", "", "Only show rounds of this course")
	historyCmd.Flags().Int("limit", 10, "Maximum rounds to show (0 = all)")
}
