package pagesprune

import (
	"time"

	"github.com/ameistad/pagesprune/internal/config"
	"github.com/ameistad/pagesprune/internal/constants"
	"github.com/ameistad/pagesprune/internal/logging"
	"github.com/ameistad/pagesprune/internal/output"
	"github.com/ameistad/pagesprune/internal/pages"
	"github.com/spf13/cobra"
)

// pruneFlags holds the values of the flags that drive a cleanup run.
type pruneFlags struct {
	configPath   string
	environment  string
	count        int
	days         int
	dryRun       bool
	apiURL       string
	timeout      time.Duration
	outputFormat string
	logLevel     string
}

func NewRootCmd() *cobra.Command {
	flags := &pruneFlags{}

	cmd := &cobra.Command{
		Use:   "pagesprune",
		Short: "Fetch and delete obsolete Cloudflare Pages deployments",
		Long: `pagesprune lists the deployments of a Cloudflare Pages project for one environment
and deletes the obsolete ones.

Deployments newer than --days are always kept. Of the older ones, the newest --count
are kept, and the deployment production is currently aliased to is never deleted.

Credentials are read from the environment (a .env file in the current directory or
the config directory is loaded first):
  ` + constants.EnvVarAPIToken + `
  ` + constants.EnvVarAccountID + `
  ` + constants.EnvVarProjectName + `

The API token may instead be stored in the OS keyring with 'pagesprune config set-token'.`,
		Example: `  pagesprune --environment preview --count 5 --days 7 --dry-run
  pagesprune --config ./pagesprune.yaml --output json`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFiles()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, flags)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(c.UsageString())
		return err
	})

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "Path to a policy file or a directory containing pagesprune.{json,yaml,yml,toml}")
	f.StringVarP(&flags.environment, "environment", "e", "", "Deployment environment: production or preview (required)")
	f.IntVar(&flags.count, "count", 0, "Number of deployments older than --days to keep (required)")
	f.IntVar(&flags.days, "days", 0, "Number of days to keep every deployment (required)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Perform a dry run without deleting anything")
	f.StringVar(&flags.apiURL, "api-url", constants.DefaultAPIBaseURL, "Base URL of the Cloudflare API")
	f.DurationVar(&flags.timeout, "timeout", constants.DefaultHTTPTimeout, "Timeout for each API request")
	f.StringVarP(&flags.outputFormat, "output", "o", string(output.FormatText), "Report format: text, json, yaml")
	f.StringVar(&flags.logLevel, "log-level", logging.DefaultLevel, "Diagnostic log level: debug, info, warn, error")

	_ = cmd.RegisterFlagCompletionFunc("environment", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		envs := make([]string, 0, len(pages.Environments))
		for _, env := range pages.Environments {
			envs = append(envs, env.String())
		}
		return envs, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(
		ConfigCmd(),
		VersionCmd(),
		CompletionCmd(),
	)

	return cmd
}
