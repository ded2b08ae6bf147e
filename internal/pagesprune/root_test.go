package pagesprune

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ameistad/pagesprune/internal/cleanup"
	"github.com/ameistad/pagesprune/internal/config"
	"github.com/ameistad/pagesprune/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// isolate keeps stray .env files and real credentials out of a test.
func isolate(t *testing.T) {
	t.Helper()
	keyring.MockInit()
	t.Chdir(t.TempDir())
	t.Setenv("PAGESPRUNE_CONFIG_DIR", t.TempDir())
	t.Setenv("CLOUDFLARE_API_TOKEN", "test-token")
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc-1")
	t.Setenv("CLOUDFLARE_PROJECT_NAME", "site")

	previous := ui.Output()
	t.Cleanup(func() { ui.SetOutput(previous) })
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// countingFactory replaces the API client with one that fails the test if used.
func countingFactory(t *testing.T) *int {
	t.Helper()
	calls := 0
	original := newDeploymentsAPI
	newDeploymentsAPI = func(creds config.Credentials, runConfig config.RunConfig) (cleanup.DeploymentsAPI, error) {
		calls++
		return original(creds, runConfig)
	}
	t.Cleanup(func() { newDeploymentsAPI = original })
	return &calls
}

func TestRootCmd_MissingAPIToken(t *testing.T) {
	isolate(t)
	t.Setenv("CLOUDFLARE_API_TOKEN", "")
	calls := countingFactory(t)

	_, _, err := execute(t, "--environment", "preview", "--count", "2", "--days", "7")

	var missingErr *config.MissingEnvError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"CLOUDFLARE_API_TOKEN"}, missingErr.Names)
	assert.Equal(t, 0, *calls, "no API client may be created without credentials")
}

func TestRootCmd_InvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   string
		wantUsage bool
	}{
		{name: "missing_all", args: []string{}, wantErr: `required flag(s) "environment", "count", "days" not set`, wantUsage: true},
		{name: "missing_count", args: []string{"--environment", "preview", "--days", "7"}, wantErr: `"count"`, wantUsage: true},
		{name: "bad_environment", args: []string{"--environment", "staging", "--count", "1", "--days", "1"}, wantErr: "invalid environment", wantUsage: true},
		{name: "negative_days", args: []string{"--environment", "preview", "--count", "1", "--days", "-1"}, wantErr: "days must be non-negative", wantUsage: true},
		{name: "non_integer_count", args: []string{"--environment", "preview", "--count", "two", "--days", "1"}, wantErr: "invalid argument", wantUsage: true},
		{name: "unknown_flag", args: []string{"--environment", "preview", "--count", "1", "--days", "1", "--keep"}, wantErr: "unknown flag", wantUsage: true},
		{name: "bad_output", args: []string{"--environment", "preview", "--count", "1", "--days", "1", "--output", "xml"}, wantErr: "unknown output format", wantUsage: true},
		{name: "positional_argument", args: []string{"preview"}, wantErr: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			calls := countingFactory(t)

			_, stderr, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.wantUsage {
				assert.Contains(t, stderr, "Usage:")
			}
			assert.Equal(t, 0, *calls)
		})
	}
}

// fakeProvider is an httptest-backed stand-in for the Pages deployments API.
type fakeProvider struct {
	t           *testing.T
	deployments []map[string]any
	perPage     int

	mu      sync.Mutex
	pages   []int
	deleted []string
}

func newFakeProvider(t *testing.T, perPage int) *fakeProvider {
	return &fakeProvider{t: t, perPage: perPage}
}

func (p *fakeProvider) add(id, env string, age time.Duration, aliases []string) {
	p.deployments = append(p.deployments, map[string]any{
		"id":          id,
		"environment": env,
		"created_on":  time.Now().Add(-age).UTC().Format(time.RFC3339Nano),
		"url":         fmt.Sprintf("https://%s.site.pages.dev", id),
		"aliases":     aliases,
	})
}

func (p *fakeProvider) start() *httptest.Server {
	const base = "/client/v4/accounts/acc-1/pages/projects/site/deployments"
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(p.t, "Bearer test-token", r.Header.Get("Authorization"))
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if !assert.NoError(p.t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		p.mu.Lock()
		p.pages = append(p.pages, page)
		p.mu.Unlock()

		totalPages := (len(p.deployments) + p.perPage - 1) / p.perPage
		start := min((page-1)*p.perPage, len(p.deployments))
		end := min(start+p.perPage, len(p.deployments))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result":  p.deployments[start:end],
			"result_info": map[string]any{
				"page":        page,
				"per_page":    p.perPage,
				"total_pages": totalPages,
				"total_count": len(p.deployments),
			},
		})
	})

	mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(p.t, "true", r.URL.Query().Get("force"))
		p.mu.Lock()
		p.deleted = append(p.deleted, r.PathValue("id"))
		p.mu.Unlock()
		w.Write([]byte(`{"success": true, "result": null}`))
	})

	server := httptest.NewServer(mux)
	p.t.Cleanup(server.Close)
	return server
}

func TestRootCmd_PrunesPreviewDeployments(t *testing.T) {
	isolate(t)

	day := 24 * time.Hour
	provider := newFakeProvider(t, 2)
	provider.add("p1", "preview", 8*day, nil)
	provider.add("prod", "production", 90*day, []string{"https://site.pages.dev"})
	provider.add("p2", "preview", 9*day, nil)
	provider.add("p3", "preview", 10*day, nil)
	provider.add("fresh", "preview", 1*day, nil)
	provider.add("p4", "preview", 11*day, nil)
	provider.add("p5", "preview", 12*day, nil)
	server := provider.start()

	stdout, _, err := execute(t,
		"--environment", "preview", "--count", "2", "--days", "7",
		"--api-url", server.URL+"/client/v4",
	)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, provider.pages)
	assert.Equal(t, []string{"p3", "p4", "p5"}, provider.deleted)
	assert.Contains(t, stdout, "Fetching all preview page deployments...")
	assert.Contains(t, stdout, "Found 6 preview page deployments.")
	assert.Contains(t, stdout, "3 obsolete preview page deployments have been deleted.")
	assert.NotContains(t, stdout, "Deployment ID: fresh")
}

func TestRootCmd_DryRunJSONReport(t *testing.T) {
	isolate(t)

	provider := newFakeProvider(t, 20)
	provider.add("old1", "preview", 40*24*time.Hour, nil)
	provider.add("old2", "preview", 50*24*time.Hour, nil)
	server := provider.start()

	stdout, stderr, err := execute(t,
		"--environment", "preview", "--count", "0", "--days", "30", "--dry-run",
		"--api-url", server.URL+"/client/v4", "--output", "json",
	)
	require.NoError(t, err)
	assert.Empty(t, provider.deleted)

	var report cleanup.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report), "stdout must hold only the report")
	assert.NotEmpty(t, report.RunID)
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 2, report.SkippedDryRun)
	assert.Equal(t, 0, report.Deleted)
	assert.Contains(t, stderr, "skipped due to dry run")
}

func TestRootCmd_PolicyFileWithOverride(t *testing.T) {
	isolate(t)

	provider := newFakeProvider(t, 20)
	provider.add("live", "production", 60*24*time.Hour, []string{"https://site.pages.dev"})
	provider.add("prev", "production", 70*24*time.Hour, nil)
	server := provider.start()

	configPath := filepath.Join(t.TempDir(), "pagesprune.yaml")
	content := fmt.Sprintf("environment: production\ncount: 0\ndays: 30\ndry_run: true\napi_url: %s/client/v4\n", server.URL)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	stdout, _, err := execute(t, "--config", configPath, "--dry-run=false")
	require.NoError(t, err)

	assert.Equal(t, []string{"prev"}, provider.deleted)
	assert.Contains(t, stdout, "Page deployment for latest production environment has been skipped.")
	assert.Contains(t, stdout, "1 obsolete production page deployments have been deleted.")
}

func TestRootCmd_ListingFailureExitsCleanly(t *testing.T) {
	isolate(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	stdout, _, err := execute(t, "--environment", "preview", "--count", "1", "--days", "1", "--api-url", server.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "API responded with status 500")
	assert.Contains(t, stdout, "No preview page deployments found.")
}

func TestVersionCmd(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pagesprune 0.1.0\n", stdout)
}

func TestConfigInitCmd(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	stdout, _, err := execute(t, "config", "init", "--format", "toml", "--path", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "pagesprune.toml")
	assert.FileExists(t, path)
	assert.Contains(t, stdout, "Created "+path)

	_, _, err = execute(t, "config", "init", "--format", "toml", "--path", dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigSetTokenCmd(t *testing.T) {
	isolate(t)
	t.Setenv("CLOUDFLARE_API_TOKEN", "")

	_, _, err := executeWithInput(t, "", "config", "set-token")
	assert.ErrorContains(t, err, "no token provided")

	stdout, _, err := executeWithInput(t, "keyring-token\n", "config", "set-token")
	require.NoError(t, err)
	assert.Contains(t, stdout, "API token stored in keyring")

	creds, err := config.LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "keyring-token", creds.APIToken)

	_, _, err = execute(t, "config", "set-token", "--delete")
	require.NoError(t, err)
	_, err = config.LoadCredentials()
	assert.Error(t, err)
}
