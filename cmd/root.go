package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lingoz",
	Short: "Vocabulary practice in the terminal",
	Long: "Lingoz plans practice tasks from the vocabulary you have learned and " +
		"drills it with matching rounds.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGOZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides LINGOZ_CONFIG env var)")
	rootCmd.PersistentFlags().String("content", "", "Course content directory (overrides paths.content_dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then LINGOZ_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
