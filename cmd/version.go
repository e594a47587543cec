package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/config"
)

// version is set with -ldflags "-X github.com/abhisek/lingoz/cmd.version=..."
var version = ""

// buildVersion falls back to the module version recorded by go install.
func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lingoz version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "lingoz %s (%s %s/%s)\n", buildVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if show, _ := cmd.Flags().GetBool("paths"); !show {
			return nil
		}

		flagPath, _ := cmd.Flags().GetString("config")
		cfg, cfgPath, exists, err := config.Load(flagPath)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cmd, cfg.Paths.DB)
		if err != nil {
			return err
		}
		if !exists {
			cfgPath += " (not present, using defaults)"
		}
		fmt.Fprintf(out, "config:   %s\n", cfgPath)
		fmt.Fprintf(out, "database: %s\n", dbPath)
		fmt.Fprintf(out, "courses:  %s\n", cfg.Paths.ContentDir)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("paths", false, "Also print the database and config paths in use")
}
