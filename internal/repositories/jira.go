package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"jira-create-issue/internal/config"
	"jira-create-issue/internal/models"
)

const apiPrefix = "/rest/api/2/"

// APIError is returned when JIRA answers with a non-2xx status
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Messages   []string
	Body       string
}

func (e *APIError) Error() string {
	detail := e.Body
	if len(e.Messages) > 0 {
		detail = strings.Join(e.Messages, "; ")
	}
	return fmt.Sprintf("JIRA API returned status %d for %s %s: %s", e.StatusCode, e.Method, e.Path, detail)
}

// newAPIError builds an APIError, extracting the messages of a JIRA error document when present
func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
	}

	var errResp models.JiraErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return apiErr
	}

	apiErr.Messages = append(apiErr.Messages, errResp.ErrorMessages...)
	fields := make([]string, 0, len(errResp.Errors))
	for field := range errResp.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		apiErr.Messages = append(apiErr.Messages, fmt.Sprintf("%s: %s", field, errResp.Errors[field]))
	}

	return apiErr
}

// JiraRepository handles JIRA API interactions
type JiraRepository struct {
	config *config.JiraConfig
	client *http.Client
}

// NewJiraRepository creates a new JIRA repository
func NewJiraRepository(jiraConfig *config.JiraConfig) *JiraRepository {
	return &JiraRepository{
		config: jiraConfig,
		client: &http.Client{
			Timeout: time.Duration(jiraConfig.Timeout) * time.Second,
		},
	}
}

// doRequest performs an authenticated request and decodes a successful response into out
func (r *JiraRepository) doRequest(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	fullURL := r.config.BaseURL + apiPrefix + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(r.config.Username, r.config.APIToken)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Myself returns the authenticated user, which verifies the credentials
func (r *JiraRepository) Myself(ctx context.Context) (*models.JiraUser, error) {
	var user models.JiraUser
	if err := r.doRequest(ctx, http.MethodGet, "myself", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetFields lists every field known to the server
func (r *JiraRepository) GetFields(ctx context.Context) ([]models.JiraField, error) {
	var fields []models.JiraField
	if err := r.doRequest(ctx, http.MethodGet, "field", nil, nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// SearchIssues runs a JQL search returning issue keys only
func (r *JiraRepository) SearchIssues(ctx context.Context, jql string, maxResults int) (*models.JiraSearchResult, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("startAt", "0")
	query.Set("maxResults", strconv.Itoa(maxResults))
	query.Set("fields", "")

	var result models.JiraSearchResult
	if err := r.doRequest(ctx, http.MethodGet, "search", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetEditMeta gets the edit metadata (fields, schemas and allowed values) of an issue
func (r *JiraRepository) GetEditMeta(ctx context.Context, issueKey string) (*models.JiraEditMeta, error) {
	var meta models.JiraEditMeta
	path := fmt.Sprintf("issue/%s/editmeta", url.PathEscape(issueKey))
	if err := r.doRequest(ctx, http.MethodGet, path, nil, nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// GetProjectInfo gets information about a specific project
func (r *JiraRepository) GetProjectInfo(ctx context.Context, projectKey string) (*models.JiraProjectInfo, error) {
	var project models.JiraProjectInfo
	if err := r.doRequest(ctx, http.MethodGet, "project/"+url.PathEscape(projectKey), nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// SearchUsers finds users matching an email address or display name
func (r *JiraRepository) SearchUsers(ctx context.Context, queryStr string, maxResults int) ([]models.JiraUser, error) {
	query := url.Values{}
	query.Set("query", queryStr)
	query.Set("startAt", "0")
	query.Set("maxResults", strconv.Itoa(maxResults))

	var users []models.JiraUser
	if err := r.doRequest(ctx, http.MethodGet, "user/search", query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateIssue creates a new JIRA issue
func (r *JiraRepository) CreateIssue(ctx context.Context, issue *models.JiraIssue) (*models.JiraResponse, error) {
	var jiraResp models.JiraResponse
	if err := r.doRequest(ctx, http.MethodPost, "issue", nil, issue, &jiraResp); err != nil {
		return nil, err
	}
	if jiraResp.Key == "" {
		return nil, fmt.Errorf("JIRA API response has no issue key")
	}
	return &jiraResp, nil
}

// CreateIssueLink links two issues
func (r *JiraRepository) CreateIssueLink(ctx context.Context, link *models.JiraIssueLink) error {
	return r.doRequest(ctx, http.MethodPost, "issueLink", nil, link, nil)
}
