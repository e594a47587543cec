package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan COURSE",
	Short: "Show planned practice and what is unlocked",
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

		lessons := e.catalog.LessonIDs(course.ID)
		avail := e.registry.Availability(course.ID, lessons, e.rule(len(lessons)),
			e.cfg.Planning.SamplePerTask, e.cfg.Planning.MinTriples)
		if len(avail) == 0 {
			fmt.Println("Nothing to practice yet. Learn some words first with `lingoz learn`.")
			return nil
		}

		out := newListing("ID", "Title", "Lessons", "Words", "Status", "Game").rightAlign(2, 3)
		for _, a := range avail {
			d := a.Descriptor
			out.add(d.ID, d.Title, d.Index, len(d.Triples), string(a.Status), string(a.Kind))
		}
		fmt.Println(out)
		return nil
	},
}
