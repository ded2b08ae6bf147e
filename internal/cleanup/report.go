package cleanup

import (
	"fmt"
	"strings"
	"time"

	"github.com/ameistad/pagesprune/internal/pages"
	"github.com/ameistad/pagesprune/internal/retention"
)

// DeploymentResult records what happened to one deployment during a run.
type DeploymentResult struct {
	ID        string            `json:"id" yaml:"id"`
	URL       string            `json:"url" yaml:"url"`
	CreatedOn time.Time         `json:"created_on" yaml:"created_on"`
	Aliases   []string          `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Outcome   retention.Outcome `json:"outcome" yaml:"outcome"`
	Deleted   bool              `json:"deleted" yaml:"deleted"`
	Error     string            `json:"error,omitempty" yaml:"error,omitempty"`
}

type Report struct {
	RunID          string            `json:"run_id" yaml:"run_id"`
	Environment    pages.Environment `json:"environment" yaml:"environment"`
	CountThreshold int               `json:"count" yaml:"count"`
	DaysThreshold  int               `json:"days" yaml:"days"`
	DryRun         bool              `json:"dry_run" yaml:"dry_run"`
	Cutoff         time.Time         `json:"cutoff" yaml:"cutoff"`

	Found                 int `json:"found" yaml:"found"`
	KeptRecent            int `json:"kept_recent" yaml:"kept_recent"`
	KeptByCount           int `json:"kept_by_count" yaml:"kept_by_count"`
	KeptAliasedProduction int `json:"kept_aliased_production" yaml:"kept_aliased_production"`
	SkippedDryRun         int `json:"skipped_dry_run" yaml:"skipped_dry_run"`
	Deleted               int `json:"deleted" yaml:"deleted"`
	Failed                int `json:"failed" yaml:"failed"`

	Deployments []DeploymentResult `json:"deployments" yaml:"deployments"`
}

func (r *Report) record(decision retention.Decision) *DeploymentResult {
	switch decision.Outcome {
	case retention.OutcomeKeptRecent:
		r.KeptRecent++
	case retention.OutcomeKeptByCount:
		r.KeptByCount++
	case retention.OutcomeKeptAliasedProduction:
		r.KeptAliasedProduction++
	case retention.OutcomeDryRun:
		r.SkippedDryRun++
	}

	d := decision.Deployment
	r.Deployments = append(r.Deployments, DeploymentResult{
		ID:        d.ID,
		URL:       d.URL,
		CreatedOn: d.CreatedOn,
		Aliases:   d.Aliases,
		Outcome:   decision.Outcome,
	})
	return &r.Deployments[len(r.Deployments)-1]
}

// String renders the one-line summary printed at the end of a run.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d obsolete %s page deployments have been deleted.", r.Deleted, r.Environment)
	if r.Failed > 0 {
		fmt.Fprintf(&b, " %d could not be deleted.", r.Failed)
	}
	if r.DryRun && r.SkippedDryRun > 0 {
		fmt.Fprintf(&b, " %d would have been deleted without --dry-run.", r.SkippedDryRun)
	}
	return b.String()
}
