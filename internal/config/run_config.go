package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/ameistad/pagesprune/internal/constants"
	"github.com/ameistad/pagesprune/internal/pages"
	"github.com/ameistad/pagesprune/internal/retention"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jinzhu/copier"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// RunConfig holds the policy and connection settings of a cleanup run.
// Count and Days are pointers so an absent value can be told apart from zero.
type RunConfig struct {
	Environment string        `json:"environment" yaml:"environment" toml:"environment"`
	Count       *int          `json:"count" yaml:"count" toml:"count"`
	Days        *int          `json:"days" yaml:"days" toml:"days"`
	DryRun      bool          `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	APIURL      string        `json:"api_url" yaml:"api_url" toml:"api_url"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
}

// Overrides carries the command-line values that were explicitly set.
type Overrides struct {
	Environment *string
	Count       *int
	Days        *int
	DryRun      *bool
	APIURL      *string
	Timeout     *time.Duration
}

var (
	supportedExtensions  = []string{".json", ".yaml", ".yml", ".toml"}
	supportedConfigNames = []string{
		constants.ConfigFileBaseName + ".json",
		constants.ConfigFileBaseName + ".yaml",
		constants.ConfigFileBaseName + ".yml",
		constants.ConfigFileBaseName + ".toml",
	}
)

// FindConfigFile resolves path to a config file. path may name the file
// itself or a directory containing pagesprune.{json,yaml,yml,toml}.
func FindConfigFile(path string) (string, error) {
	if path == "" {
		path = "."
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %s", absPath)
	}

	if !stat.IsDir() {
		if !slices.Contains(supportedExtensions, strings.ToLower(filepath.Ext(absPath))) {
			return "", fmt.Errorf("file %s is not a valid config file (must be .json, .yaml, .yml, or .toml)", absPath)
		}
		return absPath, nil
	}

	for _, name := range supportedConfigNames {
		configPath := filepath.Join(absPath, name)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", fmt.Errorf("no config file found in directory %s (looking for: %s)", absPath, strings.Join(supportedConfigNames, ", "))
}

// LoadRunConfig reads a policy file. It returns the parsed config and the
// detected format.
func LoadRunConfig(path string) (RunConfig, string, error) {
	configFile, err := FindConfigFile(path)
	if err != nil {
		return RunConfig{}, "", err
	}

	format, err := getConfigFormat(configFile)
	if err != nil {
		return RunConfig{}, "", err
	}

	parser, err := getConfigParser(format)
	if err != nil {
		return RunConfig{}, "", err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configFile), parser); err != nil {
		return RunConfig{}, "", fmt.Errorf("failed to load config file: %w", err)
	}

	if err := checkUnknownFields(reflect.TypeOf(RunConfig{}), k.Keys(), format); err != nil {
		return RunConfig{}, format, err
	}

	var runConfig RunConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: format,
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          format,
			Result:           &runConfig,
			DecodeHook:       runConfigDecodeHook(),
			WeaklyTypedInput: false,
		},
	}
	if err := k.UnmarshalWithConf("", &runConfig, unmarshalConf); err != nil {
		return RunConfig{}, format, fmt.Errorf("failed to unmarshal config %s: %w", configFile, err)
	}

	return runConfig, format, nil
}

// Merge returns a copy of base with every set override applied.
func Merge(base RunConfig, overrides Overrides) (RunConfig, error) {
	var merged RunConfig
	if err := copier.CopyWithOption(&merged, &base, copier.Option{DeepCopy: true}); err != nil {
		return RunConfig{}, fmt.Errorf("failed to copy config: %w", err)
	}

	if overrides.Environment != nil {
		merged.Environment = *overrides.Environment
	}
	if overrides.Count != nil {
		count := *overrides.Count
		merged.Count = &count
	}
	if overrides.Days != nil {
		days := *overrides.Days
		merged.Days = &days
	}
	if overrides.DryRun != nil {
		merged.DryRun = *overrides.DryRun
	}
	if overrides.APIURL != nil {
		merged.APIURL = *overrides.APIURL
	}
	if overrides.Timeout != nil {
		merged.Timeout = *overrides.Timeout
	}

	return merged, nil
}

// Normalize fills connection defaults.
func (c *RunConfig) Normalize() {
	c.Environment = strings.TrimSpace(c.Environment)
	if c.APIURL == "" {
		c.APIURL = constants.DefaultAPIBaseURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Timeout == 0 {
		c.Timeout = constants.DefaultHTTPTimeout
	}
}

// Validate checks that every required setting is present and well formed.
func (c RunConfig) Validate() error {
	var missing []string
	if c.Environment == "" {
		missing = append(missing, `"environment"`)
	}
	if c.Count == nil {
		missing = append(missing, `"count"`)
	}
	if c.Days == nil {
		missing = append(missing, `"days"`)
	}
	if len(missing) > 0 {
		return fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
	}

	if _, err := c.Policy(); err != nil {
		return err
	}

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL '%s'; must be an absolute http(s) URL", c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	return nil
}

// Policy converts the config into a retention policy.
func (c RunConfig) Policy() (retention.Policy, error) {
	env, err := pages.ParseEnvironment(c.Environment)
	if err != nil {
		return retention.Policy{}, err
	}

	policy := retention.Policy{Environment: env, DryRun: c.DryRun}
	if c.Count != nil {
		policy.CountThreshold = *c.Count
	}
	if c.Days != nil {
		policy.DaysThreshold = *c.Days
	}

	if err := policy.Validate(); err != nil {
		return retention.Policy{}, err
	}
	return policy, nil
}
