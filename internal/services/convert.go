package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"jira-create-issue/internal/helpers"
	"jira-create-issue/internal/models"
)

const (
	sprintCustomType = "com.pyxis.greenhopper.jira:gh-sprint"
	userSearchLimit  = 50
)

// FieldConverter turns resolved string values into the JSON shapes the create issue endpoint expects
type FieldConverter struct {
	repo    JiraAPI
	catalog *FieldCatalog
}

// NewFieldConverter creates a converter backed by the given catalog
func NewFieldConverter(repo JiraAPI, catalog *FieldCatalog) *FieldConverter {
	return &FieldConverter{repo: repo, catalog: catalog}
}

// Convert builds the "fields" object of a create issue request
func (c *FieldConverter) Convert(ctx context.Context, resolved []ResolvedField) (map[string]interface{}, error) {
	payload := make(map[string]interface{}, len(resolved))
	for _, field := range resolved {
		meta, ok := c.catalog.Lookup(field.Key)
		if !ok {
			return nil, &FieldError{Name: field.Key, Reason: "no metadata available"}
		}
		value, err := c.convert(ctx, meta, field)
		if err != nil {
			return nil, err
		}
		payload[field.Key] = value
	}
	return payload, nil
}

func (c *FieldConverter) convert(ctx context.Context, meta models.JiraFieldMeta, field ResolvedField) (interface{}, error) {
	schema := meta.Schema

	if schema.Type == "array" && schema.Custom != sprintCustomType {
		return c.toArray(ctx, meta, field.Values)
	}

	if len(field.Values) > 1 {
		helpers.PrintWarning("Field '%s' is single-valued but was set %d times, using the last value '%s'",
			displayName(meta, field.Key), len(field.Values), field.Last())
	}
	value := field.Last()

	switch {
	case field.Key == "project":
		return c.toProject(ctx, value)
	case field.Key == "issuetype":
		return map[string]string{"name": value}, nil
	case schema.Type == "user":
		return c.toUser(ctx, meta, value)
	case field.Key == "timetracking" || schema.Type == "timetracking":
		return map[string]string{"originalEstimate": value}, nil
	case schema.Type == "number" || schema.Custom == sprintCustomType:
		return toNumber(meta, field.Key, value)
	case meta.IsEnum():
		return toEnum(meta, field.Key, value)
	case schema.Type == "option":
		return map[string]string{"value": value}, nil
	case isNamedType(schema.Type):
		return map[string]string{"name": value}, nil
	default:
		return value, nil
	}
}

func (c *FieldConverter) toArray(ctx context.Context, meta models.JiraFieldMeta, values []string) (interface{}, error) {
	switch {
	case meta.IsEnum():
		items := make([]interface{}, 0, len(values))
		for _, v := range values {
			item, err := toEnum(meta, meta.Key, v)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case meta.Schema.Items == "string":
		return append([]string(nil), values...), nil
	case meta.Schema.Items == "user":
		items := make([]interface{}, 0, len(values))
		for _, v := range values {
			item, err := c.toUser(ctx, meta, v)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case meta.Schema.Items == "option":
		items := make([]map[string]string, 0, len(values))
		for _, v := range values {
			items = append(items, map[string]string{"value": v})
		}
		return items, nil
	default:
		items := make([]map[string]string, 0, len(values))
		for _, v := range values {
			items = append(items, map[string]string{"name": v})
		}
		return items, nil
	}
}

func (c *FieldConverter) toProject(ctx context.Context, key string) (interface{}, error) {
	project, err := c.repo.GetProjectInfo(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find JIRA project with key '%s': %w", key, err)
	}
	helpers.PrintInfo("Successfully acquired project info: key='%s', name='%s'", project.Key, project.Name)
	return map[string]string{"key": project.Key}, nil
}

func (c *FieldConverter) toUser(ctx context.Context, meta models.JiraFieldMeta, query string) (interface{}, error) {
	helpers.PrintDebug("Searching for user '%s'", query)
	users, err := c.repo.SearchUsers(ctx, query, userSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search JIRA users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.EmailAddress, query) || u.DisplayName == query {
			helpers.PrintDebug("Found user '%s' (%s)", u.DisplayName, u.AccountID)
			return map[string]string{"accountId": u.AccountID}, nil
		}
	}
	return nil, &FieldError{Name: displayName(meta, meta.Key), Reason: fmt.Sprintf("no user with email or display name %q", query)}
}

func toNumber(meta models.JiraFieldMeta, key, value string) (interface{}, error) {
	trimmed := strings.TrimSpace(value)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f, nil
	}
	return nil, &FieldError{Name: displayName(meta, key), Reason: fmt.Sprintf("value %q is not a number", value)}
}

func toEnum(meta models.JiraFieldMeta, key, value string) (interface{}, error) {
	labels := make([]string, 0, len(meta.AllowedValues))
	for _, allowed := range meta.AllowedValues {
		if allowed.Label() == value {
			return map[string]string{"id": allowed.ID}, nil
		}
		labels = append(labels, allowed.Label())
	}
	return nil, &FieldError{
		Name:   displayName(meta, key),
		Reason: fmt.Sprintf("no value %q, allowed values: %s", value, strings.Join(labels, ", ")),
	}
}

func isNamedType(schemaType string) bool {
	switch schemaType {
	case "priority", "version", "component", "resolution", "securitylevel":
		return true
	}
	return false
}

func displayName(meta models.JiraFieldMeta, key string) string {
	if meta.Name != "" {
		return meta.Name
	}
	return key
}
