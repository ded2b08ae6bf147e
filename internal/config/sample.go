package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ameistad/pagesprune/internal/constants"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// sampleConfig mirrors RunConfig with the timeout spelled as a duration string.
type sampleConfig struct {
	Environment string `json:"environment" yaml:"environment" toml:"environment"`
	Count       int    `json:"count" yaml:"count" toml:"count"`
	Days        int    `json:"days" yaml:"days" toml:"days"`
	DryRun      bool   `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	APIURL      string `json:"api_url" yaml:"api_url" toml:"api_url"`
	Timeout     string `json:"timeout" yaml:"timeout" toml:"timeout"`
}

func defaultSample() sampleConfig {
	return sampleConfig{
		Environment: "preview",
		Count:       5,
		Days:        7,
		DryRun:      true,
		APIURL:      constants.DefaultAPIBaseURL,
		Timeout:     constants.DefaultHTTPTimeout.String(),
	}
}

func marshalSample(format string) ([]byte, error) {
	sample := defaultSample()
	switch format {
	case "json":
		data, err := json.MarshalIndent(sample, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(sample)
	case "toml":
		return toml.Marshal(sample)
	default:
		return nil, fmt.Errorf("unsupported config format '%s'; must be one of: json, yaml, toml", format)
	}
}

// WriteSampleConfig writes a starter policy file into dir and returns its
// path. An existing file is only replaced when force is set.
func WriteSampleConfig(dir, format string, force bool) (string, error) {
	data, err := marshalSample(format)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, constants.ConfigFileBaseName+"."+format)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, constants.ModeFileDefault); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
