package pagesprune

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/ameistad/pagesprune/internal/cleanup"
	"github.com/ameistad/pagesprune/internal/config"
	"github.com/ameistad/pagesprune/internal/helpers"
	"github.com/ameistad/pagesprune/internal/logging"
	"github.com/ameistad/pagesprune/internal/output"
	"github.com/ameistad/pagesprune/internal/pages"
	"github.com/ameistad/pagesprune/internal/retention"
	"github.com/ameistad/pagesprune/internal/ui"
	"github.com/oklog/ulid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// newDeploymentsAPI builds the provider client for a run.
var newDeploymentsAPI = func(creds config.Credentials, runConfig config.RunConfig) (cleanup.DeploymentsAPI, error) {
	return pages.New(pages.Config{
		BaseURL:     runConfig.APIURL,
		APIToken:    creds.APIToken,
		AccountID:   creds.AccountID,
		ProjectName: creds.ProjectName,
		Timeout:     runConfig.Timeout,
	})
}

func runPrune(cmd *cobra.Command, flags *pruneFlags) error {
	runConfig, err := resolveRunConfig(cmd, flags)
	if err != nil {
		cmd.PrintErrln(cmd.UsageString())
		return err
	}
	policy, err := runConfig.Policy()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(flags.outputFormat)
	if err != nil {
		cmd.PrintErrln(cmd.UsageString())
		return err
	}

	baseLogger, err := logging.New(flags.logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	if format.IsStructured() {
		ui.SetOutput(cmd.ErrOrStderr())
	} else {
		ui.SetOutput(cmd.OutOrStdout())
	}

	runID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	logger := baseLogger.With().
		Str(logging.LogFieldRunID, runID).
		Str(logging.LogFieldEnvironment, policy.Environment.String()).
		Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	api, err := newDeploymentsAPI(creds, runConfig)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	logger.Debug().
		Int("count", policy.CountThreshold).
		Int("days", policy.DaysThreshold).
		Bool("dry_run", policy.DryRun).
		Str("api_url", runConfig.APIURL).
		Msg("Starting cleanup")

	report, err := cleanup.Run(ctx, api, cleanup.Options{Policy: policy, RunID: runID})
	if err != nil {
		return err
	}

	if format.IsStructured() {
		return output.NewWriter(cmd.OutOrStdout(), format).Write(report)
	}

	if logger.GetLevel() <= zerolog.DebugLevel {
		displayDecisions(report)
	}
	ui.Success("%s", report)
	return nil
}

// resolveRunConfig layers explicitly set flags over the optional policy file.
func resolveRunConfig(cmd *cobra.Command, flags *pruneFlags) (config.RunConfig, error) {
	var base config.RunConfig
	if flags.configPath != "" {
		loaded, _, err := config.LoadRunConfig(flags.configPath)
		if err != nil {
			return config.RunConfig{}, err
		}
		base = loaded
	}

	changed := cmd.Flags().Changed
	var overrides config.Overrides
	if changed("environment") {
		overrides.Environment = &flags.environment
	}
	if changed("count") {
		overrides.Count = &flags.count
	}
	if changed("days") {
		overrides.Days = &flags.days
	}
	if changed("dry-run") {
		overrides.DryRun = &flags.dryRun
	}
	if changed("api-url") || base.APIURL == "" {
		overrides.APIURL = &flags.apiURL
	}
	if changed("timeout") || base.Timeout == 0 {
		overrides.Timeout = &flags.timeout
	}

	runConfig, err := config.Merge(base, overrides)
	if err != nil {
		return config.RunConfig{}, err
	}
	runConfig.Normalize()

	if err := runConfig.Validate(); err != nil {
		return config.RunConfig{}, err
	}
	return runConfig, nil
}

func displayDecisions(report *cleanup.Report) {
	if len(report.Deployments) == 0 {
		return
	}

	headers := []string{"DEPLOYMENT ID", "CREATED", "AGE", "OUTCOME", "RESULT"}
	rows := make([][]string, 0, len(report.Deployments))
	now := time.Now()

	for _, d := range report.Deployments {
		result := "-"
		switch {
		case d.Deleted:
			result = "deleted"
		case d.Error != "":
			result = "failed"
		case !d.Outcome.Deletable():
			result = "kept"
		case d.Outcome == retention.OutcomeDryRun:
			result = "dry run"
		}

		rows = append(rows, []string{
			d.ID,
			d.CreatedOn.Format(time.DateTime),
			helpers.FormatAge(d.CreatedOn, now),
			string(d.Outcome),
			result,
		})
	}

	ui.Table(headers, rows)
}
