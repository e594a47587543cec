package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/vocab"
)

var modesCmd = &cobra.Command{
	Use:   "modes COURSE LESSON",
	Short: "Show which exercise modes a lesson supports",
	Args:  cobra.ExactArgs(2),
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
		lesson, err := e.lesson(course.ID, args[1])
		if err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")
		var pool []vocab.Triple
		if all {
			pool = vocab.Normalize(e.catalog.LessonItems(course.ID, lesson.ID))
		} else {
			pool = e.source.TriplesForLesson(course.ID, lesson.ID)
		}

		available := make(map[vocab.Mode]bool)
		for _, m := range vocab.AvailableModes(pool) {
			available[m] = true
		}

		out := newListing("Mode", "Available")
		for _, m := range vocab.AllModes() {
			mark := "no"
			if available[m] {
				mark = "yes"
			}
			out.add(string(m), mark)
		}
		fmt.Printf("%s/%s: %d words\n", course.ID, lesson.ID, len(pool))
		fmt.Println(out)
		return nil
	},
}

func init() {
	modesCmd.Flags().Bool("all", false, "Use every lesson item, not only learned ones")
}
