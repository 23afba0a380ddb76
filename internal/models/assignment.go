package models

import (
	"fmt"
	"strings"
)

// FieldAssignment holds every value given for one field name, in command line order
type FieldAssignment struct {
	Name   string
	Values []string
}

// FieldAssignments is an ordered list of field assignments with unique names
type FieldAssignments []FieldAssignment

// Add appends value to the assignment named name, creating it if needed
func (a *FieldAssignments) Add(name string, values ...string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Values = append((*a)[i].Values, values...)
			return
		}
	}
	*a = append(*a, FieldAssignment{Name: name, Values: append([]string(nil), values...)})
}

// Lookup returns the values assigned to name
func (a FieldAssignments) Lookup(name string) ([]string, bool) {
	for _, fa := range a {
		if fa.Name == name {
			return fa.Values, true
		}
	}
	return nil, false
}

// LinkAssignment declares a link from the new issue to an existing one
type LinkAssignment struct {
	IssueKey string
	LinkType string
}

func (l LinkAssignment) String() string {
	return fmt.Sprintf("%s:%s", l.IssueKey, l.LinkType)
}

// ParseError reports a malformed --set or --link argument
type ParseError struct {
	Flag   string
	Arg    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid --%s argument %q: %s", e.Flag, e.Arg, e.Reason)
}

// ParseFieldAssignments parses FIELD=VALUE arguments. Only the first '=' separates
// the name from the value; blanks around the name are removed.
func ParseFieldAssignments(args []string) (FieldAssignments, error) {
	var assignments FieldAssignments
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, &ParseError{Flag: "set", Arg: arg, Reason: "expected FIELD=VALUE"}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ParseError{Flag: "set", Arg: arg, Reason: "field name is empty"}
		}
		assignments.Add(name, value)
	}
	return assignments, nil
}

// ParseLinkAssignments parses ISSUE_KEY:LINK_TYPE arguments, keeping their order
func ParseLinkAssignments(args []string) ([]LinkAssignment, error) {
	links := make([]LinkAssignment, 0, len(args))
	for _, arg := range args {
		key, linkType, found := strings.Cut(arg, ":")
		if !found {
			return nil, &ParseError{Flag: "link", Arg: arg, Reason: "expected ISSUE_KEY:LINK_TYPE"}
		}
		key = strings.TrimSpace(key)
		linkType = strings.TrimSpace(linkType)
		if key == "" {
			return nil, &ParseError{Flag: "link", Arg: arg, Reason: "issue key is empty"}
		}
		if linkType == "" {
			return nil, &ParseError{Flag: "link", Arg: arg, Reason: "link type is empty"}
		}
		links = append(links, LinkAssignment{IssueKey: key, LinkType: linkType})
	}
	return links, nil
}
