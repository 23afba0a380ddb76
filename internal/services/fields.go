package services

import (
	"fmt"
	"sort"
	"strings"

	"jira-create-issue/internal/models"
)

// FieldError reports a field name or value that cannot be mapped to the JIRA API
type FieldError struct {
	Name   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Name, e.Reason)
}

// ResolvedField holds the values of one field, addressed by its API key
type ResolvedField struct {
	Key    string
	Values []string
}

// Last returns the last value given for the field
func (f ResolvedField) Last() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[len(f.Values)-1]
}

// FieldCatalog indexes field metadata by API key and by display name.
// Once edit metadata is merged, names only resolve to the fields it lists.
type FieldCatalog struct {
	byKey  map[string]models.JiraFieldMeta
	byName map[string][]string
	scope  map[string]bool
}

// NewFieldCatalog builds a catalog from the global field list
func NewFieldCatalog(fields []models.JiraField) *FieldCatalog {
	c := &FieldCatalog{
		byKey:  make(map[string]models.JiraFieldMeta, len(fields)),
		byName: make(map[string][]string, len(fields)),
	}
	for _, f := range fields {
		c.add(f.ID, f.Meta())
	}
	return c
}

// Merge overlays project and issue type specific metadata, which carries allowed values
func (c *FieldCatalog) Merge(fields map[string]models.JiraFieldMeta) {
	if len(fields) > 0 && c.scope == nil {
		c.scope = make(map[string]bool, len(fields))
	}
	for key, meta := range fields {
		if key != "" {
			c.scope[key] = true
		}
		if meta.Key == "" {
			meta.Key = key
		}
		c.add(key, meta)
	}
}

func (c *FieldCatalog) add(key string, meta models.JiraFieldMeta) {
	if key == "" {
		return
	}
	if prev, ok := c.byKey[key]; ok && prev.Name != meta.Name {
		c.removeName(prev.Name, key)
	}
	c.byKey[key] = meta

	if meta.Name == "" {
		return
	}
	for _, k := range c.byName[meta.Name] {
		if k == key {
			return
		}
	}
	c.byName[meta.Name] = append(c.byName[meta.Name], key)
	sort.Strings(c.byName[meta.Name])
}

func (c *FieldCatalog) removeName(name, key string) {
	keys := c.byName[name]
	for i, k := range keys {
		if k == key {
			c.byName[name] = append(keys[:i:i], keys[i+1:]...)
			break
		}
	}
	if len(c.byName[name]) == 0 {
		delete(c.byName, name)
	}
}

// Lookup returns the metadata of a field by API key
func (c *FieldCatalog) Lookup(key string) (models.JiraFieldMeta, bool) {
	meta, ok := c.byKey[key]
	return meta, ok
}

// Resolve maps a user supplied name to an API key. An API key matches before a display name.
// A display name shared by several fields resolves only if one of them is available.
func (c *FieldCatalog) Resolve(name string) (string, error) {
	_, isKey := c.byKey[name]
	if isKey && c.available(name) {
		return name, nil
	}

	var keys []string
	hidden := isKey
	for _, key := range c.byName[name] {
		if c.available(key) {
			keys = append(keys, key)
		} else {
			hidden = true
		}
	}

	switch {
	case len(keys) == 1:
		return keys[0], nil
	case len(keys) > 1:
		return "", &FieldError{Name: name, Reason: "ambiguous, matches " + strings.Join(keys, ", ")}
	case hidden:
		return "", &FieldError{Name: name, Reason: "not available for this project and issue type"}
	default:
		return "", &FieldError{Name: name, Reason: "not found"}
	}
}

// available reports whether a field can be set in the merged context.
// Project and issue type define the context, so they are always available.
func (c *FieldCatalog) available(key string) bool {
	return c.scope == nil || c.scope[key] || key == "project" || key == "issuetype"
}

// ResolveAssignments resolves every assignment, merging the values of names that map to the same key
func (c *FieldCatalog) ResolveAssignments(assignments models.FieldAssignments) ([]ResolvedField, error) {
	var resolved []ResolvedField
	index := make(map[string]int, len(assignments))

	for _, a := range assignments {
		key, err := c.Resolve(a.Name)
		if err != nil {
			return nil, err
		}
		if i, ok := index[key]; ok {
			resolved[i].Values = append(resolved[i].Values, a.Values...)
			continue
		}
		index[key] = len(resolved)
		resolved = append(resolved, ResolvedField{Key: key, Values: append([]string(nil), a.Values...)})
	}

	return resolved, nil
}

// contextValue returns the last value assigned to key under any name that resolves to it
func (c *FieldCatalog) contextValue(assignments models.FieldAssignments, key string) (string, bool) {
	var value string
	var found bool
	for _, a := range assignments {
		if k, err := c.Resolve(a.Name); err == nil && k == key && len(a.Values) > 0 {
			value, found = a.Values[len(a.Values)-1], true
		}
	}
	return value, found
}
