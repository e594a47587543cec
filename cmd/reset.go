package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset COURSE",
	Short: "Reset learner data for a course",
	Long:  "Delete the learned items and practice tasks of a course. Round history is kept.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this deletes learned items and tasks of %q; re-run with --yes", args[0])
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

		// Reset by id even when the course file is gone.
		courseID := args[0]
		if c, err := e.course(courseID); err == nil {
			courseID = c.ID
		}

		if err := e.store.ResetCourse(cmd.Context(), courseID); err != nil {
			return fmt.Errorf("reset %s: %w", courseID, err)
		}
		e.logger.Info("course reset", "course", courseID)
		fmt.Printf("%s reset\n", courseID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
