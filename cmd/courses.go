package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses in the content directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		courses := e.catalog.Courses()
		if len(courses) == 0 {
			fmt.Printf("No courses found in %s\n", e.catalog.Dir())
			return nil
		}

		verbose, _ := cmd.Flags().GetBool("lessons")
		headers := []string{"ID", "Title", "Lessons", "Items"}
		if verbose {
			headers = append(headers, "Lesson IDs")
		}
		out := newListing(headers...).rightAlign(2, 3)
		for _, c := range courses {
			items := 0
			for _, l := range c.Lessons {
				items += len(l.Items)
			}
			out.add(c.ID, c.Title, len(c.Lessons), items, strings.Join(e.catalog.LessonIDs(c.ID), ", "))
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	coursesCmd.Flags().Bool("lessons", false, "Also list lesson ids")
}
