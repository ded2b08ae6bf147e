package pages

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ameistad/pagesprune/internal/constants"
	"github.com/ameistad/pagesprune/internal/logging"
)

type Config struct {
	BaseURL     string
	APIToken    string
	AccountID   string
	ProjectName string
	Timeout     time.Duration
	// HTTPClient overrides the client built from Timeout when set.
	HTTPClient *http.Client
}

// Client talks to the Pages deployments endpoints of the provider's management API.
type Client struct {
	client      *http.Client
	baseURL     string
	apiToken    string
	accountID   string
	projectName string
}

func New(cfg Config) (*Client, error) {
	if cfg.AccountID == "" {
		return nil, errors.New("account ID is required")
	}
	if cfg.ProjectName == "" {
		return nil, errors.New("project name is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultAPIBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = constants.DefaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		client:      httpClient,
		baseURL:     baseURL,
		apiToken:    cfg.APIToken,
		accountID:   cfg.AccountID,
		projectName: cfg.ProjectName,
	}, nil
}

type listDeploymentsResponse struct {
	Result     json.RawMessage `json:"result"`
	ResultInfo *ResultInfo     `json:"result_info"`
}

// ListDeploymentsPage fetches a single page of deployments for the project,
// across all environments.
func (c *Client) ListDeploymentsPage(ctx context.Context, page int) (*DeploymentsPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(constants.DeploymentsPerPage))

	body, err := c.do(ctx, http.MethodGet, query)
	if err != nil {
		return nil, err
	}

	var response listDeploymentsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &APIError{Kind: KindNoResponse, Method: http.MethodGet, URL: c.redactedURL(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	result := &DeploymentsPage{ResultInfo: response.ResultInfo}
	raw := bytes.TrimSpace(response.Result)
	logger := logging.Ctx(ctx)

	// Anything other than a list is treated as the end of the data.
	if len(raw) == 0 || raw[0] != '[' {
		if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
			logger.Debug().Int(logging.LogFieldPage, page).Msg("Result is not a list")
		}
		return result, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &APIError{Kind: KindNoResponse, Method: http.MethodGet, URL: c.redactedURL(), Err: fmt.Errorf("failed to decode deployments: %w", err)}
	}

	result.Deployments = make([]Deployment, 0, len(records))
	for i, record := range records {
		var d Deployment
		if err := json.Unmarshal(record, &d); err != nil {
			result.Skipped++
			logger.Warn().Err(err).
				Int(logging.LogFieldPage, page).
				Int("index", i).
				Msg("Skipping unreadable deployment record")
			continue
		}
		result.Deployments = append(result.Deployments, d)
	}
	result.HasResult = true
	return result, nil
}

// DeleteDeployment force-deletes a deployment, aliased or not.
func (c *Client) DeleteDeployment(ctx context.Context, deploymentID string) error {
	if deploymentID == "" {
		return &APIError{Kind: KindRequestSetup, Method: http.MethodDelete, Err: errors.New("deployment ID is required")}
	}

	query := url.Values{}
	query.Set("force", "true")

	_, err := c.do(ctx, http.MethodDelete, query, deploymentID)
	return err
}

func (c *Client) deploymentsURL(query url.Values, elems ...string) (string, error) {
	parts := append([]string{"accounts", c.accountID, "pages", "projects", c.projectName, "deployments"}, elems...)
	endpoint, err := url.JoinPath(c.baseURL, parts...)
	if err != nil {
		return "", fmt.Errorf("invalid API base URL '%s': %w", c.baseURL, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint, nil
}

// redactedURL identifies the endpoint in errors without repeating query strings.
func (c *Client) redactedURL(elems ...string) string {
	endpoint, err := c.deploymentsURL(nil, elems...)
	if err != nil {
		return c.baseURL
	}
	return endpoint
}

func (c *Client) setAuthHeader(req *http.Request) {
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

// do sends the request and returns the response body. Every failure comes
// back as an *APIError describing how far the request got.
func (c *Client) do(ctx context.Context, method string, query url.Values, elems ...string) ([]byte, error) {
	endpoint, err := c.deploymentsURL(query, elems...)
	if err != nil {
		return nil, &APIError{Kind: KindRequestSetup, Method: method, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, &APIError{Kind: KindRequestSetup, Method: method, URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	c.setAuthHeader(req)

	logger := logging.Ctx(ctx)
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Debug().Err(err).
			Str(logging.LogFieldMethod, method).
			Str(logging.LogFieldPath, req.URL.Path).
			Dur(logging.LogFieldDuration, time.Since(start)).
			Msg("Request failed")
		return nil, &APIError{Kind: KindNoResponse, Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug().
		Str(logging.LogFieldMethod, method).
		Str(logging.LogFieldPath, req.URL.Path).
		Int(logging.LogFieldStatus, resp.StatusCode).
		Dur(logging.LogFieldDuration, time.Since(start)).
		Msg("Request completed")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNoResponse, Method: method, URL: endpoint, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			Kind:       KindResponse,
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(body)),
		}
	}

	return body, nil
}
