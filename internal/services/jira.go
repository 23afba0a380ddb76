package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jira-create-issue/internal/config"
	"jira-create-issue/internal/helpers"
	"jira-create-issue/internal/models"
	"jira-create-issue/internal/repositories"
)

// JiraAPI is the part of the JIRA REST API the services rely on
type JiraAPI interface {
	Myself(ctx context.Context) (*models.JiraUser, error)
	GetFields(ctx context.Context) ([]models.JiraField, error)
	SearchIssues(ctx context.Context, jql string, maxResults int) (*models.JiraSearchResult, error)
	GetEditMeta(ctx context.Context, issueKey string) (*models.JiraEditMeta, error)
	GetProjectInfo(ctx context.Context, projectKey string) (*models.JiraProjectInfo, error)
	SearchUsers(ctx context.Context, query string, maxResults int) ([]models.JiraUser, error)
	CreateIssue(ctx context.Context, issue *models.JiraIssue) (*models.JiraResponse, error)
	CreateIssueLink(ctx context.Context, link *models.JiraIssueLink) error
}

// JiraService handles JIRA business logic
type JiraService struct {
	repo   JiraAPI
	config *config.JiraConfig
}

// NewJiraService creates a new JIRA service
func NewJiraService(jiraConfig *config.JiraConfig) *JiraService {
	return NewJiraServiceWithRepository(jiraConfig, repositories.NewJiraRepository(jiraConfig))
}

// NewJiraServiceWithRepository creates a JIRA service on top of an existing API implementation
func NewJiraServiceWithRepository(jiraConfig *config.JiraConfig, repo JiraAPI) *JiraService {
	return &JiraService{
		repo:   repo,
		config: jiraConfig,
	}
}

// TestConnection verifies the credentials against the server
func (s *JiraService) TestConnection(ctx context.Context) error {
	user, err := s.repo.Myself(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	helpers.PrintSuccess("JIRA login successful (server=%s, username=%s)", s.config.BaseURL, s.config.Username)
	helpers.PrintDebug("Authenticated as '%s' (%s)", user.DisplayName, user.AccountID)
	return nil
}

// FieldsReport returns the field metadata to print for --show_fields.
// Without an issue type it lists every field of the server; otherwise it returns the
// edit metadata of an existing issue of that type (and project, when given).
func (s *JiraService) FieldsReport(ctx context.Context, issueType, projectKey string) (interface{}, error) {
	if issueType == "" {
		if projectKey != "" {
			helpers.PrintWarning("--issue_project has no effect without --issue_type, listing all fields")
		}
		return s.allFields(ctx)
	}

	issue, err := s.findSimilarIssue(ctx, issueType, projectKey)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, fmt.Errorf("no issues found with type '%s'%s, field metadata needs at least one", issueType, projectSuffix(projectKey))
	}

	helpers.PrintInfo("Reading field metadata from issue %s", issue.Key)
	meta, err := s.repo.GetEditMeta(ctx, issue.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to get field metadata: %w", err)
	}

	return meta.Fields, nil
}

func (s *JiraService) allFields(ctx context.Context) (map[string]models.JiraFieldSummary, error) {
	fields, err := s.repo.GetFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get fields: %w", err)
	}

	summary := make(map[string]models.JiraFieldSummary, len(fields))
	for _, f := range fields {
		summary[f.ID] = models.JiraFieldSummary{Name: f.Name, Schema: f.Schema}
	}
	return summary, nil
}

// BuildIssue resolves and converts field assignments into a create issue request.
// It only reads from the server.
func (s *JiraService) BuildIssue(ctx context.Context, assignments models.FieldAssignments) (*models.JiraIssue, error) {
	fields, err := s.repo.GetFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get fields: %w", err)
	}

	catalog := NewFieldCatalog(fields)
	project, hasProject := catalog.contextValue(assignments, "project")
	issueType, hasIssueType := catalog.contextValue(assignments, "issuetype")
	if !hasProject || !hasIssueType {
		var missing []string
		if !hasProject {
			missing = append(missing, "project")
		}
		if !hasIssueType {
			missing = append(missing, "issuetype")
		}
		return nil, &FieldError{Name: strings.Join(missing, ", "), Reason: "required but not set"}
	}

	// the remaining names resolve against the fields of an existing issue of the same kind
	similar, err := s.findSimilarIssue(ctx, issueType, project)
	if err != nil {
		return nil, err
	}
	if similar == nil {
		helpers.PrintWarning("No existing '%s' issue in project %s, fields are resolved against the whole server", issueType, project)
	} else {
		meta, err := s.repo.GetEditMeta(ctx, similar.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to get field metadata: %w", err)
		}
		catalog.Merge(meta.Fields)
	}

	resolved, err := catalog.ResolveAssignments(assignments)
	if err != nil {
		return nil, err
	}

	payload, err := NewFieldConverter(s.repo, catalog).Convert(ctx, resolved)
	if err != nil {
		return nil, err
	}

	return &models.JiraIssue{Fields: payload}, nil
}

// CreateIssue submits the create issue request
func (s *JiraService) CreateIssue(ctx context.Context, issue *models.JiraIssue) (*models.JiraResponse, error) {
	resp, err := s.repo.CreateIssue(ctx, issue)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	helpers.PrintSuccess("Successfully created a new issue: %s", s.config.IssueURL(resp.Key))
	return resp, nil
}

// LinkIssues links the issue to every target in order. A failed link does not stop
// the remaining ones; all failures are returned joined.
func (s *JiraService) LinkIssues(ctx context.Context, issueKey string, links []models.LinkAssignment) error {
	var errs []error

	for i, link := range links {
		helpers.PrintProgress(i+1, len(links), fmt.Sprintf("Linking %s to %s by type '%s'", issueKey, link.IssueKey, link.LinkType))

		err := s.repo.CreateIssueLink(ctx, &models.JiraIssueLink{
			Type:         models.JiraIssueLinkType{Name: link.LinkType},
			InwardIssue:  models.JiraKeyRef{Key: issueKey},
			OutwardIssue: models.JiraKeyRef{Key: link.IssueKey},
		})
		if err != nil {
			helpers.PrintError("Failed to link issue %s to %s: %v", issueKey, link.IssueKey, err)
			errs = append(errs, fmt.Errorf("failed to link %s to %s: %w", issueKey, link, err))
			continue
		}

		helpers.PrintSuccess("Linked %s to %s by type '%s'", issueKey, link.IssueKey, link.LinkType)
	}

	return errors.Join(errs...)
}

// findSimilarIssue returns an existing issue with the given type and project, or nil
func (s *JiraService) findSimilarIssue(ctx context.Context, issueType, projectKey string) (*models.JiraIssueRef, error) {
	jql := "issuetype=" + jqlQuote(issueType)
	if projectKey != "" {
		jql += " AND project=" + jqlQuote(projectKey)
	}

	helpers.PrintDebug("Searching issues: %s", jql)
	result, err := s.repo.SearchIssues(ctx, jql, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	if len(result.Issues) == 0 {
		return nil, nil
	}
	return &result.Issues[0], nil
}

func jqlQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func projectSuffix(projectKey string) string {
	if projectKey == "" {
		return ""
	}
	return " in project " + projectKey
}
