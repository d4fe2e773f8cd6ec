package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/panyam/typeguess/cmd/typeguess/commands.Version=...".
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print typeguess version information",
	Long:  `Print detailed version information including version number, git commit, and build date.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "typeguess %s\n", Version)
		if GitCommit != "none" {
			fmt.Fprintf(w, "Git commit: %s\n", GitCommit)
		}
		if BuildDate != "unknown" {
			fmt.Fprintf(w, "Build date: %s\n", BuildDate)
		}
	},
}

func init() {
	AddCommand(versionCmd)
}
