package pagesprune

import (
	"github.com/ameistad/pagesprune/internal/config"
	"github.com/ameistad/pagesprune/internal/ui"
	"github.com/spf13/cobra"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pagesprune policy files",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(ConfigInitCmd(), ConfigSetTokenCmd())
	return cmd
}

func ConfigInitCmd() *cobra.Command {
	var format string
	var dir string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter policy file",
		Long: `Write a starter policy file that can be passed to pagesprune with --config.

The file sets the environment, count and days to keep, and enables dry-run so
the first run with it never deletes anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.SetOutput(cmd.OutOrStdout())

			path, err := config.WriteSampleConfig(dir, format, force)
			if err != nil {
				return err
			}

			ui.Success("Created %s", path)
			ui.Basic("Run it with:")
			ui.Basic("  pagesprune --config %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "File format: yaml, json, toml")
	cmd.Flags().StringVarP(&dir, "path", "p", ".", "Directory to write the file to")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "json", "toml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
