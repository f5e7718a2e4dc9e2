package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/config"
	"github.com/ethankinchan/Z-jiraBugStatistics/internal/models"
)

var targetPattern = regexp.MustCompile(`Target\s*=\s*(\w+)`)

// TargetFromJQL extracts the value of the first Target clause in a JQL
// query. Queries without one map to "Unknown".
func TargetFromJQL(jql string) string {
	match := targetPattern.FindStringSubmatch(jql)
	if match == nil {
		return "Unknown"
	}
	return match[1]
}

type Client struct {
	httpClient *http.Client
	config     *config.JiraConfig
	logger     *slog.Logger
}

func NewClient(cfg *config.JiraConfig, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("Jira base URL is required")
	}

	if cfg.PersonalAccessToken == "" && (cfg.Username == "" || cfg.Password == "") {
		return nil, fmt.Errorf("Jira personal access token or username and password are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.PersonalAccessToken != "" {
		// Create OAuth2 token source
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.PersonalAccessToken},
		)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
	}, nil
}

func (c *Client) TestConnection(ctx context.Context) error {
	c.logger.Info("Testing Jira connection...")

	var me struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	}
	if err := c.getJSON(ctx, c.apiURL("/rest/api/2/myself", nil), &me); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	c.logger.Info("Jira connection successful", "user", me.Name)
	return nil
}

// FilterJQL resolves a saved filter ID to its JQL query.
func (c *Client) FilterJQL(ctx context.Context, filterID string) (string, error) {
	if filterID == "" {
		return "", fmt.Errorf("filter ID is required")
	}

	c.logger.Debug("Resolving filter", "filter", filterID)

	var filter filterResponse
	u := c.apiURL("/rest/api/2/filter/"+url.PathEscape(filterID), nil)
	if err := c.getJSON(ctx, u, &filter); err != nil {
		return "", fmt.Errorf("failed to fetch filter %s: %w", filterID, err)
	}

	if filter.JQL == "" {
		return "", fmt.Errorf("filter %s has no JQL query", filterID)
	}

	c.logger.Info("Resolved filter", "filter", filterID, "name", filter.Name, "jql", filter.JQL)
	return filter.JQL, nil
}

// SearchIssues retrieves every issue matching the JQL query, walking the
// paginated search endpoint until a short page signals the end.
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]models.Issue, error) {
	if jql == "" {
		return nil, fmt.Errorf("JQL query is required")
	}

	pageSize := c.config.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	fields := strings.Join([]string{
		"summary", "status", "reporter", "assignee", "created",
		c.config.UrgencyField, c.config.TechnologyField,
	}, ",")

	var issues []models.Issue
	startAt := 0
	for {
		q := url.Values{}
		q.Set("jql", jql)
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(pageSize))
		q.Set("fields", fields)

		var page searchResponse
		if err := c.getJSON(ctx, c.apiURL("/rest/api/2/search", q), &page); err != nil {
			return nil, fmt.Errorf("search failed at offset %d: %w", startAt, err)
		}

		c.logger.Debug("Fetched search page", "startAt", startAt, "count", len(page.Issues), "total", page.Total)

		for _, wi := range page.Issues {
			issue, err := c.toIssue(wi)
			if err != nil {
				return nil, fmt.Errorf("failed to decode issue %s: %w", wi.Key, err)
			}
			issues = append(issues, issue)
		}

		if len(page.Issues) < pageSize {
			break
		}
		startAt += pageSize
	}

	c.logger.Info("Fetched issues", "count", len(issues))
	return issues, nil
}

func (c *Client) toIssue(wi wireIssue) (models.Issue, error) {
	var fixed issueFields
	if err := json.Unmarshal(wi.Fields, &fixed); err != nil {
		return models.Issue{}, fmt.Errorf("malformed fields object: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(wi.Fields, &raw); err != nil {
		return models.Issue{}, fmt.Errorf("malformed fields object: %w", err)
	}

	issue := models.Issue{
		Key:        wi.Key,
		ID:         wi.ID,
		Summary:    fixed.Summary,
		Status:     fixed.Status.Name,
		Urgency:    customFieldString(raw[c.config.UrgencyField]),
		Technology: customFieldString(raw[c.config.TechnologyField]),
		Created:    fixed.Created,
	}
	if fixed.Reporter != nil {
		issue.Reporter = fixed.Reporter.DisplayName
	}
	if fixed.Assignee != nil {
		issue.Assignee = fixed.Assignee.DisplayName
	}

	return issue, nil
}

func (c *Client) apiURL(path string, q url.Values) string {
	base := strings.TrimRight(c.config.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.PersonalAccessToken == "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
