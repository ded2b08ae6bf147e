// Package cleanup runs one pruning pass over a Pages project: list the
// deployments of an environment, apply the retention policy and delete what
// it does not keep.
package cleanup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ameistad/pagesprune/internal/helpers"
	"github.com/ameistad/pagesprune/internal/logging"
	"github.com/ameistad/pagesprune/internal/retention"
	"github.com/ameistad/pagesprune/internal/ui"
)

type Options struct {
	Policy retention.Policy
	RunID  string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run executes a cleanup pass. Failed provider calls are reported and
// counted but never returned; an error means the options were unusable.
func Run(ctx context.Context, api DeploymentsAPI, opts Options) (*Report, error) {
	policy := opts.Policy
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", retention.ErrInvalidPolicy, err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	current := now().UTC()
	env := policy.Environment

	report := &Report{
		RunID:          opts.RunID,
		Environment:    env,
		CountThreshold: policy.CountThreshold,
		DaysThreshold:  policy.DaysThreshold,
		DryRun:         policy.DryRun,
		Cutoff:         policy.Cutoff(current),
		Deployments:    []DeploymentResult{},
	}

	ui.Info("Fetching all %s page deployments...", env)
	deployments := ListDeployments(ctx, api, env)
	report.Found = len(deployments)
	ui.Info("Found %d %s page deployments.", len(deployments), env)

	if len(deployments) == 0 {
		ui.Info("No %s page deployments found.", env)
		return report, nil
	}

	decisions, err := retention.Plan(deployments, policy, current)
	if err != nil {
		return nil, err
	}

	ui.Info("Deleting obsolete %s page deployments older than %d days, while keeping %d latest...", env, policy.DaysThreshold, policy.CountThreshold)

	for _, decision := range decisions {
		result := report.record(decision)
		if decision.Outcome == retention.OutcomeKeptRecent {
			continue
		}

		d := decision.Deployment
		ui.Basic("Deployment ID: %s, created on: %s (%s), url: %s, aliases: %s",
			d.ID, d.CreatedOn.Format(time.RFC3339), helpers.FormatAge(d.CreatedOn, current), d.URL, formatAliases(d.Aliases))

		switch decision.Outcome {
		case retention.OutcomeKeptByCount:
			ui.Info("Latest %d page deployment has been kept.", decision.KeepRank)
		case retention.OutcomeKeptAliasedProduction:
			ui.Info("Page deployment for latest production environment has been skipped.")
		case retention.OutcomeDryRun:
			ui.Warn("Page deployment for deletion, but has been skipped due to dry run.")
		case retention.OutcomeDelete:
			if err := deleteDeployment(ctx, api, d.ID); err != nil {
				report.Failed++
				result.Error = err.Error()
				continue
			}
			report.Deleted++
			result.Deleted = true
		}
	}

	return report, nil
}

// deleteDeployment issues the delete call. Failures are reported here and
// returned so the caller can tally them; they never stop the run.
func deleteDeployment(ctx context.Context, api DeploymentsAPI, deploymentID string) error {
	logger := logging.Ctx(ctx).With().Str(logging.LogFieldDeploymentID, deploymentID).Logger()

	if err := api.DeleteDeployment(ctx, deploymentID); err != nil {
		HandleAPIError(ctx, err)
		logger.Debug().Err(err).Msg("Delete failed")
		return err
	}

	ui.Success("Page deployment with ID %s has been deleted.", deploymentID)
	logger.Debug().Msg("Deployment deleted")
	return nil
}

func formatAliases(aliases []string) string {
	if len(aliases) == 0 {
		return "none"
	}
	return strings.Join(aliases, ", ")
}
