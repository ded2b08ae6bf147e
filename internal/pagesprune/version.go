package pagesprune

import (
	"fmt"

	"github.com/ameistad/pagesprune/internal/version"
	"github.com/spf13/cobra"
)

// VersionCmd creates a new version command
func VersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current version of pagesprune",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pagesprune %s\n", version.GetVersion())
		},
	}

	return cmd
}
