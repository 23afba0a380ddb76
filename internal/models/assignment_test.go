package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldAssignments(t *testing.T) {
	t.Parallel()

	t.Run("repeated names accumulate in order", func(t *testing.T) {
		t.Parallel()
		got, err := ParseFieldAssignments([]string{"labels=a", "summary=Hello", "labels=b"})
		require.NoError(t, err)
		assert.Equal(t, FieldAssignments{
			{Name: "labels", Values: []string{"a", "b"}},
			{Name: "summary", Values: []string{"Hello"}},
		}, got)
	})

	t.Run("value keeps further separators and blanks", func(t *testing.T) {
		t.Parallel()
		got, err := ParseFieldAssignments([]string{" Epic Link =PRJ-1", "description=a=b ", "timetracking=4h"})
		require.NoError(t, err)

		v, ok := got.Lookup("Epic Link")
		require.True(t, ok)
		assert.Equal(t, []string{"PRJ-1"}, v)

		v, ok = got.Lookup("description")
		require.True(t, ok)
		assert.Equal(t, []string{"a=b "}, v)

		v, ok = got.Lookup("timetracking")
		require.True(t, ok)
		assert.Equal(t, []string{"4h"}, v)
	})

	t.Run("empty value is allowed", func(t *testing.T) {
		t.Parallel()
		got, err := ParseFieldAssignments([]string{"description="})
		require.NoError(t, err)
		assert.Equal(t, FieldAssignments{{Name: "description", Values: []string{""}}}, got)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		for _, arg := range []string{"summary", "=value", "  =value"} {
			_, err := ParseFieldAssignments([]string{arg})
			require.Error(t, err, arg)

			var pErr *ParseError
			require.True(t, errors.As(err, &pErr))
			assert.Equal(t, "set", pErr.Flag)
			assert.Equal(t, arg, pErr.Arg)
		}
	})

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()
		got, err := ParseFieldAssignments(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestParseLinkAssignments(t *testing.T) {
	t.Parallel()

	t.Run("keeps order and duplicates", func(t *testing.T) {
		t.Parallel()
		got, err := ParseLinkAssignments([]string{"PRJ-236:Is part of", "PRJ-104:FF-depends on", "PRJ-236:Relates"})
		require.NoError(t, err)
		assert.Equal(t, []LinkAssignment{
			{IssueKey: "PRJ-236", LinkType: "Is part of"},
			{IssueKey: "PRJ-104", LinkType: "FF-depends on"},
			{IssueKey: "PRJ-236", LinkType: "Relates"},
		}, got)
	})

	t.Run("link type may contain colons", func(t *testing.T) {
		t.Parallel()
		got, err := ParseLinkAssignments([]string{"PRJ-1:Blocks: hard"})
		require.NoError(t, err)
		assert.Equal(t, "Blocks: hard", got[0].LinkType)
		assert.Equal(t, "PRJ-1:Blocks: hard", got[0].String())
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			arg    string
			reason string
		}{
			{arg: "PRJ-1", reason: "expected ISSUE_KEY:LINK_TYPE"},
			{arg: ":Relates", reason: "issue key is empty"},
			{arg: "PRJ-1: ", reason: "link type is empty"},
		}
		for _, tt := range tests {
			_, err := ParseLinkAssignments([]string{tt.arg})
			require.Error(t, err, tt.arg)
			assert.Contains(t, err.Error(), tt.reason)
			assert.Contains(t, err.Error(), "--link")
		}
	})
}

func TestFieldAssignmentsAdd(t *testing.T) {
	t.Parallel()

	var a FieldAssignments
	a.Add("labels", "a")
	a.Add("labels", "b", "c")
	a.Add("summary", "x")

	v, ok := a.Lookup("labels")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, v)

	_, ok = a.Lookup("missing")
	assert.False(t, ok)
	assert.Len(t, a, 2)
}
