package pagesprune

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/ameistad/pagesprune/internal/config"
	"github.com/ameistad/pagesprune/internal/constants"
	"github.com/ameistad/pagesprune/internal/ui"
	"github.com/spf13/cobra"
)

func ConfigSetTokenCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store the API token in the OS keyring",
		Long: fmt.Sprintf(`Read an API token from stdin and store it in the OS keyring.

The stored token is used whenever %s is not set, so it does not
have to live in a .env file or in shell history.`, constants.EnvVarAPIToken),
		Example: `  pagesprune config set-token < token.txt
  pagesprune config set-token --delete`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.SetOutput(cmd.OutOrStdout())

			if remove {
				if err := config.DeleteAPIToken(); err != nil {
					return err
				}
				ui.Success("API token removed from keyring")
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				return errors.New("no token provided on stdin")
			}

			if err := config.StoreAPIToken(scanner.Text()); err != nil {
				return err
			}
			ui.Success("API token stored in keyring")
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "delete", false, "Remove the stored token instead")

	return cmd
}
