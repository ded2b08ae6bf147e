package cleanup

import (
	"context"
	"fmt"

	"github.com/ameistad/pagesprune/internal/logging"
	"github.com/ameistad/pagesprune/internal/pages"
	"github.com/ameistad/pagesprune/internal/ui"
)

// DeploymentsAPI is the slice of the provider API a cleanup run needs.
type DeploymentsAPI interface {
	ListDeploymentsPage(ctx context.Context, page int) (*pages.DeploymentsPage, error)
	DeleteDeployment(ctx context.Context, deploymentID string) error
}

// ListDeployments pages through every deployment of the project and returns
// the ones belonging to env, in the order the API returned them.
//
// A page without a result ends the listing. A failed page fetch is reported
// through HandleAPIError and also ends it, so the caller gets whatever was
// collected up to that point.
func ListDeployments(ctx context.Context, api DeploymentsAPI, env pages.Environment) []pages.Deployment {
	logger := logging.Ctx(ctx)

	var all []pages.Deployment
	for page := 1; ; page++ {
		stop := ui.StartSpinner(fmt.Sprintf("Fetching page %d", page))
		result, err := api.ListDeploymentsPage(ctx, page)
		stop()
		if err != nil {
			HandleAPIError(ctx, err)
			break
		}
		if !result.HasResult {
			logger.Debug().Int(logging.LogFieldPage, page).Msg("Page has no result, stopping")
			break
		}

		if result.Skipped > 0 {
			ui.Warn("Skipped %d unreadable deployment record(s) on page %d.", result.Skipped, page)
		}

		all = append(all, result.Deployments...)
		logger.Debug().Int(logging.LogFieldPage, page).Int("count", len(result.Deployments)).Msg("Fetched deployments page")

		if !result.HasMore() {
			break
		}
	}

	return FilterByEnvironment(all, env)
}

func FilterByEnvironment(deployments []pages.Deployment, env pages.Environment) []pages.Deployment {
	filtered := make([]pages.Deployment, 0, len(deployments))
	for _, d := range deployments {
		if d.Environment == env {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
