package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentPreview    Environment = "preview"
)

// Environments lists every environment a deployment can belong to.
var Environments = []Environment{EnvironmentProduction, EnvironmentPreview}

func (e Environment) String() string {
	return string(e)
}

func ParseEnvironment(s string) (Environment, error) {
	switch env := Environment(strings.TrimSpace(s)); env {
	case EnvironmentProduction, EnvironmentPreview:
		return env, nil
	default:
		err := fmt.Errorf("invalid environment '%s'; must be one of: %s, %s", s, EnvironmentProduction, EnvironmentPreview)
		if suggestion, ok := closestEnvironment(s); ok {
			err = fmt.Errorf("%w (did you mean '%s'?)", err, suggestion)
		}
		return "", err
	}
}

// closestEnvironment finds the environment a mistyped value most likely meant.
func closestEnvironment(s string) (Environment, bool) {
	const maxDistance = 2

	input := strings.ToLower(strings.TrimSpace(s))
	if input == "" {
		return "", false
	}

	best, bestDistance := Environment(""), maxDistance+1
	for _, env := range Environments {
		if d := levenshtein.ComputeDistance(input, string(env)); d < bestDistance {
			best, bestDistance = env, d
		}
	}
	return best, best != ""
}

// Deployment is one published build of a Pages project as returned by the
// deployments listing endpoint. Only the fields the cleanup reads are decoded.
type Deployment struct {
	ID          string      `json:"id" yaml:"id"`
	Environment Environment `json:"environment" yaml:"environment"`
	CreatedOn   time.Time   `json:"created_on" yaml:"created_on"`
	URL         string      `json:"url" yaml:"url"`
	Aliases     []string    `json:"aliases" yaml:"aliases"`
}

// IsAliasedProduction reports whether the deployment is the one production
// currently points at.
func (d Deployment) IsAliasedProduction() bool {
	return d.Environment == EnvironmentProduction && len(d.Aliases) > 0
}

type ResultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// DeploymentsPage is one page of the deployments listing. HasResult is false
// when the response carried no usable "result" field.
type DeploymentsPage struct {
	Deployments []Deployment
	ResultInfo  *ResultInfo
	HasResult   bool
	// Skipped counts records that could not be decoded and were left out.
	Skipped int
}

// HasMore reports whether the provider advertised a page after this one.
func (p *DeploymentsPage) HasMore() bool {
	if p == nil || p.ResultInfo == nil {
		return false
	}
	return p.ResultInfo.Page < p.ResultInfo.TotalPages
}
