package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the CLI version, overridable at build time with
// -ldflags "-X .../commands.Version=...".
var Version = "0.1.0"

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the powercast version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("powercast %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
