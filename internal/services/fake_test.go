package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"jira-create-issue/internal/config"
	"jira-create-issue/internal/models"
	"jira-create-issue/internal/repositories"
)

// fakeJira is an in-memory JiraAPI recording every call
type fakeJira struct {
	fields    []models.JiraField
	issues    []models.JiraIssueRef
	editMeta  map[string]models.JiraFieldMeta
	projects  map[string]models.JiraProjectInfo
	users     []models.JiraUser
	createErr error
	linkErrs  map[string]error

	calls   []string
	created []*models.JiraIssue
	links   []*models.JiraIssueLink
	jql     []string
}

func (f *fakeJira) Myself(ctx context.Context) (*models.JiraUser, error) {
	f.calls = append(f.calls, "GET myself")
	return &models.JiraUser{AccountID: "me", DisplayName: "Me"}, nil
}

func (f *fakeJira) GetFields(ctx context.Context) ([]models.JiraField, error) {
	f.calls = append(f.calls, "GET field")
	return f.fields, nil
}

func (f *fakeJira) SearchIssues(ctx context.Context, jql string, maxResults int) (*models.JiraSearchResult, error) {
	f.calls = append(f.calls, "GET search")
	f.jql = append(f.jql, jql)
	return &models.JiraSearchResult{Total: len(f.issues), Issues: f.issues}, nil
}

func (f *fakeJira) GetEditMeta(ctx context.Context, issueKey string) (*models.JiraEditMeta, error) {
	f.calls = append(f.calls, "GET editmeta "+issueKey)
	return &models.JiraEditMeta{Fields: f.editMeta}, nil
}

func (f *fakeJira) GetProjectInfo(ctx context.Context, projectKey string) (*models.JiraProjectInfo, error) {
	f.calls = append(f.calls, "GET project "+projectKey)
	p, ok := f.projects[projectKey]
	if !ok {
		return nil, &repositories.APIError{Method: "GET", Path: "project/" + projectKey, StatusCode: 404, Messages: []string{"No project could be found"}}
	}
	return &p, nil
}

func (f *fakeJira) SearchUsers(ctx context.Context, query string, maxResults int) ([]models.JiraUser, error) {
	f.calls = append(f.calls, "GET user/search")
	return f.users, nil
}

func (f *fakeJira) CreateIssue(ctx context.Context, issue *models.JiraIssue) (*models.JiraResponse, error) {
	f.calls = append(f.calls, "POST issue")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, issue)
	return &models.JiraResponse{ID: "10001", Key: fmt.Sprintf("PRJ-%d", 41+len(f.created))}, nil
}

func (f *fakeJira) CreateIssueLink(ctx context.Context, link *models.JiraIssueLink) error {
	f.calls = append(f.calls, "POST issueLink")
	if err := f.linkErrs[link.OutwardIssue.Key]; err != nil {
		return err
	}
	f.links = append(f.links, link)
	return nil
}

func (f *fakeJira) mutations() int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, http.MethodPost) {
			n++
		}
	}
	return n
}

// newFake serves a server with two "Team" fields, of which only customfield_10400
// is on the screen of the PRJ Task issues, and a "Severity" field used elsewhere.
func newFake() *fakeJira {
	fields := []models.JiraField{
		{ID: "project", Name: "Project", Schema: &models.JiraFieldSchema{Type: "project", System: "project"}},
		{ID: "issuetype", Name: "Issue Type", Schema: &models.JiraFieldSchema{Type: "issuetype", System: "issuetype"}},
		{ID: "summary", Name: "Summary", Schema: &models.JiraFieldSchema{Type: "string", System: "summary"}},
		{ID: "labels", Name: "Labels", Schema: &models.JiraFieldSchema{Type: "array", Items: "string", System: "labels"}},
		{ID: "timetracking", Name: "Time tracking", Schema: &models.JiraFieldSchema{Type: "timetracking", System: "timetracking"}},
		{ID: "assignee", Name: "Assignee", Schema: &models.JiraFieldSchema{Type: "user", System: "assignee"}},
		{ID: "components", Name: "Components", Schema: &models.JiraFieldSchema{Type: "array", Items: "component", System: "components"}},
		{ID: "customfield_10113", Name: "Sprint", Schema: &models.JiraFieldSchema{Type: "array", Items: "json", Custom: sprintCustomType, CustomID: 10113}},
		{ID: "customfield_10014", Name: "Epic Link", Schema: &models.JiraFieldSchema{Type: "any", Custom: "com.pyxis.greenhopper.jira:gh-epic-link"}},
		{ID: "customfield_10200", Name: "IP Type", Schema: &models.JiraFieldSchema{Type: "option", Custom: "select"}},
		{ID: "customfield_10300", Name: "Story Points", Schema: &models.JiraFieldSchema{Type: "number"}},
		{ID: "customfield_10400", Name: "Team", Schema: &models.JiraFieldSchema{Type: "string"}},
		{ID: "customfield_10401", Name: "Team", Schema: &models.JiraFieldSchema{Type: "string"}},
		{ID: "customfield_10500", Name: "Severity", Schema: &models.JiraFieldSchema{Type: "string"}},
		{ID: "environment", Name: "Environment"},
	}

	editMeta := make(map[string]models.JiraFieldMeta)
	for _, f := range fields {
		switch f.ID {
		case "project", "customfield_10401", "customfield_10500":
		default:
			editMeta[f.ID] = f.Meta()
		}
	}
	editMeta["customfield_10200"] = models.JiraFieldMeta{
		Key:    "customfield_10200",
		Name:   "IP Type",
		Schema: models.JiraFieldSchema{Type: "option", Custom: "select"},
		AllowedValues: []models.JiraAllowedValue{
			{ID: "300", Value: "Customer Specific IP"},
			{ID: "301", Value: "Generic IP"},
		},
	}
	editMeta["components"] = models.JiraFieldMeta{
		Key:    "components",
		Name:   "Components",
		Schema: models.JiraFieldSchema{Type: "array", Items: "component", System: "components"},
		AllowedValues: []models.JiraAllowedValue{
			{ID: "500", Name: "Domain_X"},
		},
	}

	return &fakeJira{
		fields:   fields,
		issues:   []models.JiraIssueRef{{ID: "9", Key: "PRJ-3"}},
		editMeta: editMeta,
		projects: map[string]models.JiraProjectInfo{
			"PRJ": {Key: "PRJ", Name: "Project"},
		},
		users: []models.JiraUser{
			{AccountID: "acc-1", EmailAddress: "vlad@example.com", DisplayName: "Vladislav Gusak"},
		},
	}
}

func testConfig() *config.JiraConfig {
	return &config.JiraConfig{BaseURL: "https://jira.example.com", Username: "u", APIToken: "t", Timeout: 5}
}
