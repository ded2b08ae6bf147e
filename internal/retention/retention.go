// Package retention decides which deployments of an environment survive a
// cleanup run.
//
// Deployments are walked newest first. Anything created inside the retention
// window is left alone. Of the older ones, the first CountThreshold are kept,
// the aliased production deployment is always kept, and the rest are deletable.
package retention

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ameistad/pagesprune/internal/pages"
)

type Policy struct {
	Environment    pages.Environment
	CountThreshold int
	DaysThreshold  int
	DryRun         bool
}

func (p Policy) Validate() error {
	if _, err := pages.ParseEnvironment(string(p.Environment)); err != nil {
		return err
	}
	if p.CountThreshold < 0 {
		return fmt.Errorf("count must be non-negative, got %d", p.CountThreshold)
	}
	if p.DaysThreshold < 0 {
		return fmt.Errorf("days must be non-negative, got %d", p.DaysThreshold)
	}
	return nil
}

// Cutoff is the creation time at or after which a deployment is never considered.
func (p Policy) Cutoff(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -p.DaysThreshold)
}

type Outcome string

const (
	OutcomeKeptRecent            Outcome = "kept_recent"
	OutcomeKeptByCount           Outcome = "kept_by_count"
	OutcomeKeptAliasedProduction Outcome = "kept_aliased_production"
	OutcomeDryRun                Outcome = "dry_run"
	OutcomeDelete                Outcome = "delete"
)

// Deletable reports whether the deployment failed every keep rule.
func (o Outcome) Deletable() bool {
	return o == OutcomeDelete || o == OutcomeDryRun
}

type Decision struct {
	Deployment pages.Deployment
	Outcome    Outcome
	// KeepRank is the 1-based position among deployments kept by count, zero otherwise.
	KeepRank int
}

var ErrInvalidPolicy = errors.New("invalid retention policy")

// SortNewestFirst returns a copy of deployments ordered by creation time,
// most recent first. Equal timestamps keep their input order.
func SortNewestFirst(deployments []pages.Deployment) []pages.Deployment {
	sorted := make([]pages.Deployment, len(deployments))
	copy(sorted, deployments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedOn.After(sorted[j].CreatedOn)
	})
	return sorted
}

// Plan classifies every deployment under policy, relative to now. The
// returned decisions are in newest-first order.
func Plan(deployments []pages.Deployment, policy Policy, now time.Time) ([]Decision, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}

	cutoff := policy.Cutoff(now)
	sorted := SortNewestFirst(deployments)
	decisions := make([]Decision, 0, len(sorted))
	keepCount := 0

	for _, deployment := range sorted {
		decision := Decision{Deployment: deployment}

		switch {
		case !deployment.CreatedOn.Before(cutoff):
			decision.Outcome = OutcomeKeptRecent
		case keepCount < policy.CountThreshold:
			keepCount++
			decision.Outcome = OutcomeKeptByCount
			decision.KeepRank = keepCount
		case deployment.IsAliasedProduction():
			decision.Outcome = OutcomeKeptAliasedProduction
		case policy.DryRun:
			decision.Outcome = OutcomeDryRun
		default:
			decision.Outcome = OutcomeDelete
		}

		decisions = append(decisions, decision)
	}

	return decisions, nil
}
