package models

import "encoding/json"

// JiraField represents an entry of the global field list (GET /field)
type JiraField struct {
	ID     string           `json:"id"`
	Key    string           `json:"key,omitempty"`
	Name   string           `json:"name"`
	Custom bool             `json:"custom"`
	Schema *JiraFieldSchema `json:"schema,omitempty"`
}

// Meta converts a global field entry into field metadata without allowed values
func (f JiraField) Meta() JiraFieldMeta {
	meta := JiraFieldMeta{Key: f.ID, Name: f.Name}
	if f.Schema != nil {
		meta.Schema = *f.Schema
	}
	return meta
}

// JiraFieldSchema describes the value type of a field
type JiraFieldSchema struct {
	Type     string `json:"type"`
	Items    string `json:"items,omitempty"`
	System   string `json:"system,omitempty"`
	Custom   string `json:"custom,omitempty"`
	CustomID int    `json:"customId,omitempty"`
}

// JiraFieldSummary is the printed form of a global field
type JiraFieldSummary struct {
	Name   string           `json:"name"`
	Schema *JiraFieldSchema `json:"schema,omitempty"`
}

// JiraFieldMeta represents the edit metadata of a single field.
// Raw keeps the server's document so it can be printed unchanged.
type JiraFieldMeta struct {
	Key           string             `json:"key"`
	Name          string             `json:"name"`
	Required      bool               `json:"required"`
	Schema        JiraFieldSchema    `json:"schema"`
	AllowedValues []JiraAllowedValue `json:"allowedValues,omitempty"`
	Raw           json.RawMessage    `json:"-"`
}

// UnmarshalJSON decodes the known attributes and keeps the whole document in Raw
func (m *JiraFieldMeta) UnmarshalJSON(data []byte) error {
	type plain JiraFieldMeta
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = JiraFieldMeta(p)
	m.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes Raw when set, so --show_fields prints the server's document unchanged
func (m JiraFieldMeta) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type plain JiraFieldMeta
	return json.Marshal(plain(m))
}

// IsEnum reports whether the server restricts the field to a list of values
func (m JiraFieldMeta) IsEnum() bool {
	return len(m.AllowedValues) > 0
}

// JiraAllowedValue represents one permitted value of an enumerated field
type JiraAllowedValue struct {
	ID    string `json:"id"`
	Value string `json:"value,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Label returns the human readable form of an allowed value
func (v JiraAllowedValue) Label() string {
	if v.Value != "" {
		return v.Value
	}
	return v.Name
}

// JiraEditMeta represents the response of GET /issue/{key}/editmeta
type JiraEditMeta struct {
	Fields map[string]JiraFieldMeta `json:"fields"`
}

// JiraIssueRef represents an issue returned by a search
type JiraIssueRef struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self,omitempty"`
}

// JiraSearchResult represents a JQL search response
type JiraSearchResult struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	Issues     []JiraIssueRef `json:"issues"`
}

// JiraIssue represents a JIRA issue creation request
type JiraIssue struct {
	Fields map[string]interface{} `json:"fields"`
}

// JiraResponse represents a JIRA API response
type JiraResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self,omitempty"`
}

// JiraProjectInfo represents JIRA project information
type JiraProjectInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// JiraUser represents a JIRA user
type JiraUser struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
	Active       bool   `json:"active"`
}

// JiraIssueLink represents an issue link creation request
type JiraIssueLink struct {
	Type         JiraIssueLinkType `json:"type"`
	InwardIssue  JiraKeyRef        `json:"inwardIssue"`
	OutwardIssue JiraKeyRef        `json:"outwardIssue"`
}

// JiraIssueLinkType names a link type, e.g. "Is part of"
type JiraIssueLinkType struct {
	Name string `json:"name"`
}

// JiraKeyRef references an issue by key
type JiraKeyRef struct {
	Key string `json:"key"`
}

// JiraErrorResponse represents the error document returned by the JIRA API
type JiraErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
